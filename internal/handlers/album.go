package handlers

import (
	"encoding/json"
	"net/http"

	"photo-gallery-backend/internal/middleware"
	"photo-gallery-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AlbumHandler handles album-related HTTP requests
type AlbumHandler struct {
	albumService *services.AlbumService
	tagService   *services.TagService
}

// NewAlbumHandler creates a new album handler
func NewAlbumHandler(albumService *services.AlbumService, tagService *services.TagService) *AlbumHandler {
	return &AlbumHandler{
		albumService: albumService,
		tagService:   tagService,
	}
}

// AlbumRequest represents the request body for creating or updating
// an album. Tags and Images are full target sets, not diffs.
type AlbumRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	CoverImage  *string  `json:"cover_image"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
}

func (r *AlbumRequest) input() services.AlbumInput {
	return services.AlbumInput{
		Title:       r.Title,
		Description: r.Description,
		CoverImage:  r.CoverImage,
		TagIDs:      r.Tags,
		ImageIDs:    r.Images,
	}
}

// ListAlbums handles GET /api/v1/albums
func (h *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	albums, err := h.albumService.ListAlbums(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list albums")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"albums": albums})
}

// CreateAlbum handles POST /api/v1/albums
func (h *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req AlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	album, err := h.albumService.CreateAlbum(ctx, userID, req.input())
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("title", req.Title).Msg("Failed to create album")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("album_id", album.ID).
		Str("title", album.Title).
		Msg("Album created")

	respondJSON(w, http.StatusCreated, album)
}

// GetAlbum handles GET /api/v1/albums/{album_id}. The response also
// carries the caller's tag list for the edit form.
func (h *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	albumID := chi.URLParam(r, "album_id")

	album, err := h.albumService.GetAlbum(ctx, userID, albumID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("album_id", albumID).Msg("Failed to get album")
		respondServiceError(w, err)
		return
	}

	tags, err := h.tagService.ListTags(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list tags")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"album": album, "tags": tags})
}

// UpdateAlbum handles PATCH /api/v1/albums/{album_id}
func (h *AlbumHandler) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	albumID := chi.URLParam(r, "album_id")

	var req AlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	album, err := h.albumService.UpdateAlbum(ctx, userID, albumID, req.input())
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("album_id", albumID).Msg("Failed to update album")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, album)
}

// UploadToAlbum handles POST /api/v1/albums/{album_id}/images. New
// files are stored as the user's images and become the album's image
// set (full replacement, like every association write).
func (h *AlbumHandler) UploadToAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	albumID := chi.URLParam(r, "album_id")

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		respondError(w, "Invalid multipart request", http.StatusBadRequest)
		return
	}

	files := uploadFiles(r.MultipartForm.File["images"])
	images, err := h.albumService.UploadToAlbum(ctx, userID, albumID, files)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("album_id", albumID).
			Int("files", len(files)).
			Msg("Failed to upload images to album")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("album_id", albumID).
		Int("count", len(images)).
		Msg("Images uploaded to album")

	respondJSON(w, http.StatusCreated, map[string]any{"images": images})
}

// SyncImagesRequest represents the request body for replacing an
// album's image set with existing images
type SyncImagesRequest struct {
	Images []string `json:"images"`
}

// SyncImages handles PUT /api/v1/albums/{album_id}/images
func (h *AlbumHandler) SyncImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	albumID := chi.URLParam(r, "album_id")

	var req SyncImagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.albumService.SyncAlbumImages(ctx, userID, albumID, req.Images); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("album_id", albumID).Msg("Failed to sync album images")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteAlbum handles DELETE /api/v1/albums/{album_id}
func (h *AlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	albumID := chi.URLParam(r, "album_id")

	if err := h.albumService.DeleteAlbum(ctx, userID, albumID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("album_id", albumID).Msg("Failed to delete album")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("album_id", albumID).
		Msg("Album deleted")

	w.WriteHeader(http.StatusNoContent)
}
