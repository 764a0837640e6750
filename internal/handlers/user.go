package handlers

import (
	"encoding/json"
	"net/http"

	"photo-gallery-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest represents the request body for registration
type CreateUserRequest struct {
	Username string `json:"username"`
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.CreateUser(ctx, req.Username)
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Failed to create user")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("User created")

	respondJSON(w, http.StatusCreated, user)
}
