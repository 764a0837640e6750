package services

import (
	"errors"
	"fmt"
)

// ErrDenied is returned when the acting user does not own the target
// entity. The message is deliberately generic.
var ErrDenied = errors.New("you are not allowed to perform this action")

// ErrUpdateFailed is returned after a partial failure was rolled back
// (or rollback itself failed). The caller only sees a generic retry
// message either way.
var ErrUpdateFailed = errors.New("update failed, please try again")

// ValidationError reports a problem with a single input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
