package handlers

import (
	"encoding/json"
	"net/http"

	"photo-gallery-backend/internal/middleware"
	"photo-gallery-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// TagHandler handles tag-related HTTP requests
type TagHandler struct {
	tagService *services.TagService
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// TagRequest represents the request body for creating or renaming a tag
type TagRequest struct {
	Name string `json:"name"`
}

// ListTags handles GET /api/v1/tags
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	tags, err := h.tagService.ListTags(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list tags")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// CreateTag handles POST /api/v1/tags
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tag, err := h.tagService.CreateTag(ctx, userID, req.Name)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("name", req.Name).Msg("Failed to create tag")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("tag_id", tag.ID).
		Str("name", tag.Name).
		Msg("Tag created")

	respondJSON(w, http.StatusCreated, tag)
}

// UpdateTag handles PATCH /api/v1/tags/{tag_id}
func (h *TagHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tagID := chi.URLParam(r, "tag_id")

	var req TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tag, err := h.tagService.UpdateTag(ctx, userID, tagID, req.Name)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("tag_id", tagID).Msg("Failed to update tag")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tag)
}

// DeleteTag handles DELETE /api/v1/tags/{tag_id}
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tagID := chi.URLParam(r, "tag_id")

	if err := h.tagService.DeleteTag(ctx, userID, tagID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("tag_id", tagID).Msg("Failed to delete tag")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("tag_id", tagID).
		Msg("Tag deleted")

	w.WriteHeader(http.StatusNoContent)
}
