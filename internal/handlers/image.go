package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"photo-gallery-backend/internal/middleware"
	"photo-gallery-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// multipartMemoryLimit is the in-memory threshold for parsing upload
// requests; larger parts spill to temp files.
const multipartMemoryLimit = 32 << 20

// ImageHandler handles image-related HTTP requests
type ImageHandler struct {
	imageService *services.ImageService
	tagService   *services.TagService
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService *services.ImageService, tagService *services.TagService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		tagService:   tagService,
	}
}

// ListImages handles GET /api/v1/images
func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	images, err := h.imageService.ListImages(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list images")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"images": images})
}

// UploadImages handles POST /api/v1/images
func (h *ImageHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		respondError(w, "Invalid multipart request", http.StatusBadRequest)
		return
	}

	files := uploadFiles(r.MultipartForm.File["images"])
	title := r.FormValue("title")
	var description *string
	if d := r.FormValue("description"); d != "" {
		description = &d
	}

	images, err := h.imageService.UploadImages(ctx, userID, files, title, description)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Int("files", len(files)).
			Msg("Failed to upload images")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Int("count", len(images)).
		Msg("Images uploaded")

	respondJSON(w, http.StatusCreated, map[string]any{"images": images})
}

// GetImage handles GET /api/v1/images/{image_id}. The response also
// carries the caller's tag list for the edit form.
func (h *ImageHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	imageID := chi.URLParam(r, "image_id")

	image, err := h.imageService.GetImage(ctx, userID, imageID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("image_id", imageID).Msg("Failed to get image")
		respondServiceError(w, err)
		return
	}

	tags, err := h.tagService.ListTags(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list tags")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"image": image, "tags": tags})
}

// UpdateImageRequest represents the request body for an image update
type UpdateImageRequest struct {
	Title       string   `json:"title"`
	Filename    string   `json:"filename"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}

// UpdateImage handles PATCH /api/v1/images/{image_id}
func (h *ImageHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	imageID := chi.URLParam(r, "image_id")

	var req UpdateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	image, err := h.imageService.UpdateImage(ctx, userID, imageID, services.UpdateImageInput{
		Title:       req.Title,
		Filename:    req.Filename,
		Description: req.Description,
		TagIDs:      req.Tags,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("image_id", imageID).Msg("Failed to update image")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("image_id", imageID).
		Msg("Image updated")

	respondJSON(w, http.StatusOK, image)
}

// DeleteImage handles DELETE /api/v1/images/{image_id}
func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	imageID := chi.URLParam(r, "image_id")

	if err := h.imageService.DeleteImage(ctx, userID, imageID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("image_id", imageID).Msg("Failed to delete image")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("image_id", imageID).
		Msg("Image deleted")

	w.WriteHeader(http.StatusNoContent)
}

// uploadFiles adapts multipart file headers to the service's batch
// upload input.
func uploadFiles(headers []*multipart.FileHeader) []services.UploadFile {
	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		files = append(files, services.UploadFile{
			Name: fh.Filename,
			Size: fh.Size,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return files
}
