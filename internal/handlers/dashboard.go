package handlers

import (
	"net/http"

	"photo-gallery-backend/internal/middleware"
	"photo-gallery-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	userService *services.UserService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(userService *services.UserService) *DashboardHandler {
	return &DashboardHandler{userService: userService}
}

// GetStats handles GET /api/v1/dashboard
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	stats, err := h.userService.Stats(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get dashboard stats")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
