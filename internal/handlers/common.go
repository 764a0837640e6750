package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"photo-gallery-backend/internal/repository"
	"photo-gallery-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError maps service and repository errors to HTTP
// status codes. Unknown errors become a generic 500 so internals are
// never leaked to the caller.
func respondServiceError(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ve.Message, Field: ve.Field})
	case errors.Is(err, services.ErrDenied):
		respondError(w, services.ErrDenied.Error(), http.StatusForbidden)
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, services.ErrUpdateFailed):
		respondError(w, services.ErrUpdateFailed.Error(), http.StatusInternalServerError)
	default:
		respondError(w, "Internal server error", http.StatusInternalServerError)
	}
}
