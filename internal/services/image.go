package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"photo-gallery-backend/internal/models"
	"photo-gallery-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxUploadSize = 50 << 20 // 50 MiB per file

// allowedExtensions is the set of accepted image file extensions.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpeg": true,
	".jpg":  true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
}

// ImageRepo is the image persistence contract the service consumes.
type ImageRepo interface {
	Create(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, id string) (*models.Image, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Image, error)
	Update(ctx context.Context, image *models.Image) error
	UpdateFilename(ctx context.Context, id, filename string) error
	Delete(ctx context.Context, id string) error
	SyncTags(ctx context.Context, imageID string, tagIDs []string) error
	GetTagsForImages(ctx context.Context, imageIDs []string) (map[string][]*models.Tag, error)
	CountOwned(ctx context.Context, userID string, ids []string) (int, error)
}

// ImageService handles image-related business logic
type ImageService struct {
	imageRepo ImageRepo
	tagRepo   TagRepo
	store     storage.Store
}

// NewImageService creates a new image service
func NewImageService(imageRepo ImageRepo, tagRepo TagRepo, store storage.Store) *ImageService {
	return &ImageService{
		imageRepo: imageRepo,
		tagRepo:   tagRepo,
		store:     store,
	}
}

// UploadFile is one binary payload in an upload batch.
type UploadFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// UploadImages validates and stores a batch of files for the user.
// Title and description override the derived defaults when non-empty.
// The batch is best-effort: a failure stops processing but files
// stored earlier in the batch are kept; already-created images are
// returned alongside the error.
func (s *ImageService) UploadImages(ctx context.Context, userID string, files []UploadFile, title string, description *string) ([]*models.Image, error) {
	if len(files) == 0 {
		return nil, newValidationError("images", "at least one image is required")
	}

	// Validate the whole batch before writing anything
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if !allowedExtensions[ext] {
			return nil, newValidationError("images", "%q is not a valid image file", f.Name)
		}
		if f.Size > maxUploadSize {
			return nil, newValidationError("images", "%q exceeds the maximum file size", f.Name)
		}
	}

	var images []*models.Image
	for _, f := range files {
		image, err := s.storeFile(ctx, userID, f, title, description)
		if err != nil {
			return images, err
		}
		images = append(images, image)
	}
	return images, nil
}

// storeFile persists one file to storage and records its image row.
func (s *ImageService) storeFile(ctx context.Context, userID string, f UploadFile, title string, description *string) (*models.Image, error) {
	ext := strings.ToLower(filepath.Ext(f.Name))
	key := uuid.New().String() + ext

	src, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %q: %w", f.Name, err)
	}
	defer src.Close()

	if err := s.store.Write(ctx, key, src, f.Size); err != nil {
		return nil, fmt.Errorf("failed to store upload %q: %w", f.Name, err)
	}

	if title == "" {
		base := filepath.Base(f.Name)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	image := &models.Image{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Filename:    key,
		Size:        f.Size,
		CreatedAt:   time.Now(),
	}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		return nil, err
	}

	image.URL = s.store.URL(key)
	return image, nil
}

// ListImages returns the user's images with their tags, newest first
func (s *ImageService) ListImages(ctx context.Context, userID string) ([]*models.Image, error) {
	images, err := s.imageRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, images); err != nil {
		return nil, err
	}
	s.fillURLs(images)
	return images, nil
}

// GetImage returns one of the user's images with its tags
func (s *ImageService) GetImage(ctx context.Context, userID, imageID string) (*models.Image, error) {
	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if image.UserID != userID {
		return nil, ErrDenied
	}
	if err := s.attachTags(ctx, []*models.Image{image}); err != nil {
		return nil, err
	}
	image.URL = s.store.URL(image.Filename)
	return image, nil
}

// UpdateImageInput carries an image metadata update. TagIDs replaces
// the image's full tag set.
type UpdateImageInput struct {
	Title       string
	Filename    string
	Description *string
	TagIDs      []string
}

// UpdateImage updates an image's metadata and tag set. A filename
// change first renames the stored object; if the subsequent row
// update fails, the rename is compensated so the visible state is
// indistinguishable from the state before the update began.
func (s *ImageService) UpdateImage(ctx context.Context, userID, imageID string, in UpdateImageInput) (*models.Image, error) {
	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if image.UserID != userID {
		return nil, ErrDenied
	}

	if err := s.validateUpdate(ctx, image, in); err != nil {
		return nil, err
	}

	tagIDs := dedupe(in.TagIDs)
	if err := s.validateOwnedTags(ctx, userID, tagIDs); err != nil {
		return nil, err
	}

	originalFilename := image.Filename
	rename := &stagedRename{store: s.store, oldKey: originalFilename, newKey: in.Filename}
	if err := rename.apply(ctx); err != nil {
		// No database write has happened yet, nothing to roll back.
		return nil, fmt.Errorf("failed to rename stored file: %w", err)
	}

	image.Title = in.Title
	image.Filename = in.Filename
	image.Description = in.Description

	err = s.imageRepo.Update(ctx, image)
	if err == nil {
		err = s.imageRepo.SyncTags(ctx, imageID, tagIDs)
	}
	if err != nil {
		s.rollbackRename(ctx, rename, imageID, originalFilename, err)
		return nil, ErrUpdateFailed
	}

	if err := s.attachTags(ctx, []*models.Image{image}); err != nil {
		return nil, err
	}
	image.URL = s.store.URL(image.Filename)
	return image, nil
}

// validateUpdate applies the pre-rename checks: the new filename must
// carry an allowed extension, must not collide with an existing
// stored object, and the current object must still exist.
func (s *ImageService) validateUpdate(ctx context.Context, image *models.Image, in UpdateImageInput) error {
	if in.Title == "" {
		return newValidationError("title", "title is required")
	}
	if in.Filename == "" {
		return newValidationError("filename", "filename is required")
	}
	ext := strings.ToLower(filepath.Ext(in.Filename))
	if !allowedExtensions[ext] {
		return newValidationError("filename", "%q is not a valid image filename", in.Filename)
	}

	if in.Filename != image.Filename {
		exists, err := s.store.Exists(ctx, in.Filename)
		if err != nil {
			return fmt.Errorf("failed to check new filename: %w", err)
		}
		if exists {
			return newValidationError("filename", "a file named %q already exists in storage", in.Filename)
		}
	}

	// Integrity guard: you cannot rename what does not exist.
	exists, err := s.store.Exists(ctx, image.Filename)
	if err != nil {
		return fmt.Errorf("failed to check current filename: %w", err)
	}
	if !exists {
		return newValidationError("filename", "the original file %q is missing from storage", image.Filename)
	}
	return nil
}

// rollbackRename compensates a failed persist after a successful
// rename: move the object back, then re-assert the original filename
// on the row in case a partial write occurred. If the compensating
// move itself fails the inconsistency is left in place and logged.
func (s *ImageService) rollbackRename(ctx context.Context, rename *stagedRename, imageID, originalFilename string, cause error) {
	log.Error().
		Err(cause).
		Str("image_id", imageID).
		Msg("Image update failed after rename, rolling back")

	if err := rename.revert(ctx); err != nil {
		log.Error().
			Err(err).
			Str("image_id", imageID).
			Str("filename", originalFilename).
			Msg("Rename rollback failed, storage and database may be inconsistent")
	}
	if err := s.imageRepo.UpdateFilename(ctx, imageID, originalFilename); err != nil {
		log.Error().
			Err(err).
			Str("image_id", imageID).
			Str("filename", originalFilename).
			Msg("Failed to re-assert original filename")
	}
}

// DeleteImage removes the stored object and the image row. A missing
// stored object is tolerated so the delete is idempotent from the
// caller's perspective; a second delete of the same id is a not-found.
func (s *ImageService) DeleteImage(ctx context.Context, userID, imageID string) error {
	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if image.UserID != userID {
		return ErrDenied
	}

	if err := s.store.Delete(ctx, image.Filename); err != nil {
		return fmt.Errorf("failed to delete stored file: %w", err)
	}
	return s.imageRepo.Delete(ctx, imageID)
}

// validateOwnedTags rejects the request if any tag id does not exist
// or belongs to another user. Runs before any row is written.
func (s *ImageService) validateOwnedTags(ctx context.Context, userID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	count, err := s.tagRepo.CountOwned(ctx, userID, tagIDs)
	if err != nil {
		return err
	}
	if count != len(tagIDs) {
		return newValidationError("tags", "one or more tags do not exist")
	}
	return nil
}

func (s *ImageService) attachTags(ctx context.Context, images []*models.Image) error {
	if len(images) == 0 {
		return nil
	}
	ids := make([]string, len(images))
	for i, image := range images {
		ids[i] = image.ID
	}
	tags, err := s.imageRepo.GetTagsForImages(ctx, ids)
	if err != nil {
		return err
	}
	for _, image := range images {
		image.Tags = tags[image.ID]
	}
	return nil
}

func (s *ImageService) fillURLs(images []*models.Image) {
	for _, image := range images {
		image.URL = s.store.URL(image.Filename)
	}
}

// dedupe returns ids with duplicates removed, preserving order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
