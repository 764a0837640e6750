package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert or update violates a
// unique constraint (per-user tag name, image filename, username).
var ErrDuplicate = errors.New("record already exists")

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
