package services

import (
	"context"
	"time"

	"photo-gallery-backend/internal/models"

	"github.com/google/uuid"
)

// AlbumRepo is the album persistence contract the service consumes.
type AlbumRepo interface {
	Create(ctx context.Context, album *models.Album) error
	GetByID(ctx context.Context, id string) (*models.Album, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Album, error)
	Update(ctx context.Context, album *models.Album) error
	Delete(ctx context.Context, id string) error
	SyncTags(ctx context.Context, albumID string, tagIDs []string) error
	SyncImages(ctx context.Context, albumID string, imageIDs []string) error
	GetTagsForAlbums(ctx context.Context, albumIDs []string) (map[string][]*models.Tag, error)
	GetImagesForAlbums(ctx context.Context, albumIDs []string) (map[string][]*models.Image, error)
}

// AlbumService handles album-related business logic. Uploading files
// into an album reuses the image service's upload path.
type AlbumService struct {
	albumRepo AlbumRepo
	imageRepo ImageRepo
	tagRepo   TagRepo
	images    *ImageService
}

// NewAlbumService creates a new album service
func NewAlbumService(albumRepo AlbumRepo, imageRepo ImageRepo, tagRepo TagRepo, images *ImageService) *AlbumService {
	return &AlbumService{
		albumRepo: albumRepo,
		imageRepo: imageRepo,
		tagRepo:   tagRepo,
		images:    images,
	}
}

// AlbumInput carries album metadata plus the full target tag and
// image sets. The sets replace whatever the album currently has.
type AlbumInput struct {
	Title       string
	Description *string
	CoverImage  *string
	TagIDs      []string
	ImageIDs    []string
}

// ListAlbums returns the user's albums with tags, images and image
// counts, newest first
func (s *AlbumService) ListAlbums(ctx context.Context, userID string) ([]*models.Album, error) {
	albums, err := s.albumRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.attachAssociations(ctx, albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// GetAlbum returns one of the user's albums with its tags and images
func (s *AlbumService) GetAlbum(ctx context.Context, userID, albumID string) (*models.Album, error) {
	album, err := s.albumRepo.GetByID(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if album.UserID != userID {
		return nil, ErrDenied
	}
	if err := s.attachAssociations(ctx, []*models.Album{album}); err != nil {
		return nil, err
	}
	return album, nil
}

// CreateAlbum creates an album and links the given tag and image
// sets. Every id must exist and belong to the user or the whole
// request is rejected before any row is written.
func (s *AlbumService) CreateAlbum(ctx context.Context, userID string, in AlbumInput) (*models.Album, error) {
	tagIDs, imageIDs, err := s.validateInput(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	album := &models.Album{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		CoverImage:  in.CoverImage,
		CreatedAt:   time.Now(),
	}
	if err := s.albumRepo.Create(ctx, album); err != nil {
		return nil, err
	}
	if err := s.albumRepo.SyncTags(ctx, album.ID, tagIDs); err != nil {
		return nil, err
	}
	if err := s.albumRepo.SyncImages(ctx, album.ID, imageIDs); err != nil {
		return nil, err
	}

	if err := s.attachAssociations(ctx, []*models.Album{album}); err != nil {
		return nil, err
	}
	return album, nil
}

// UpdateAlbum updates album metadata and replaces its tag and image
// sets. CoverImage is stored as-is: it is a denormalized filename
// pointer and is not checked against the album's image set.
func (s *AlbumService) UpdateAlbum(ctx context.Context, userID, albumID string, in AlbumInput) (*models.Album, error) {
	album, err := s.albumRepo.GetByID(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if album.UserID != userID {
		return nil, ErrDenied
	}

	tagIDs, imageIDs, err := s.validateInput(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	album.Title = in.Title
	album.Description = in.Description
	album.CoverImage = in.CoverImage
	if err := s.albumRepo.Update(ctx, album); err != nil {
		return nil, err
	}
	if err := s.albumRepo.SyncTags(ctx, albumID, tagIDs); err != nil {
		return nil, err
	}
	if err := s.albumRepo.SyncImages(ctx, albumID, imageIDs); err != nil {
		return nil, err
	}

	if err := s.attachAssociations(ctx, []*models.Album{album}); err != nil {
		return nil, err
	}
	return album, nil
}

// SyncAlbumImages replaces the album's image set with imageIDs
func (s *AlbumService) SyncAlbumImages(ctx context.Context, userID, albumID string, imageIDs []string) error {
	album, err := s.albumRepo.GetByID(ctx, albumID)
	if err != nil {
		return err
	}
	if album.UserID != userID {
		return ErrDenied
	}

	imageIDs = dedupe(imageIDs)
	if err := s.validateOwnedImages(ctx, userID, imageIDs); err != nil {
		return err
	}
	return s.albumRepo.SyncImages(ctx, albumID, imageIDs)
}

// UploadToAlbum stores a batch of new files for the user and replaces
// the album's image set with exactly the new uploads.
func (s *AlbumService) UploadToAlbum(ctx context.Context, userID, albumID string, files []UploadFile) ([]*models.Image, error) {
	album, err := s.albumRepo.GetByID(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if album.UserID != userID {
		return nil, ErrDenied
	}

	images, err := s.images.UploadImages(ctx, userID, files, "", nil)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(images))
	for i, image := range images {
		ids[i] = image.ID
	}
	if err := s.albumRepo.SyncImages(ctx, albumID, ids); err != nil {
		return nil, err
	}
	return images, nil
}

// DeleteAlbum removes one of the user's albums. Only the album row
// and its join rows go away; the images it grouped are untouched.
func (s *AlbumService) DeleteAlbum(ctx context.Context, userID, albumID string) error {
	album, err := s.albumRepo.GetByID(ctx, albumID)
	if err != nil {
		return err
	}
	if album.UserID != userID {
		return ErrDenied
	}
	return s.albumRepo.Delete(ctx, albumID)
}

func (s *AlbumService) validateInput(ctx context.Context, userID string, in AlbumInput) (tagIDs, imageIDs []string, err error) {
	if in.Title == "" {
		return nil, nil, newValidationError("title", "title is required")
	}
	if len(in.Title) > maxNameLength {
		return nil, nil, newValidationError("title", "title must be at most %d characters", maxNameLength)
	}

	tagIDs = dedupe(in.TagIDs)
	if len(tagIDs) > 0 {
		count, err := s.tagRepo.CountOwned(ctx, userID, tagIDs)
		if err != nil {
			return nil, nil, err
		}
		if count != len(tagIDs) {
			return nil, nil, newValidationError("tags", "one or more tags do not exist")
		}
	}

	imageIDs = dedupe(in.ImageIDs)
	if err := s.validateOwnedImages(ctx, userID, imageIDs); err != nil {
		return nil, nil, err
	}
	return tagIDs, imageIDs, nil
}

func (s *AlbumService) validateOwnedImages(ctx context.Context, userID string, imageIDs []string) error {
	if len(imageIDs) == 0 {
		return nil
	}
	count, err := s.imageRepo.CountOwned(ctx, userID, imageIDs)
	if err != nil {
		return err
	}
	if count != len(imageIDs) {
		return newValidationError("images", "one or more images do not exist")
	}
	return nil
}

func (s *AlbumService) attachAssociations(ctx context.Context, albums []*models.Album) error {
	if len(albums) == 0 {
		return nil
	}
	ids := make([]string, len(albums))
	for i, album := range albums {
		ids[i] = album.ID
	}

	tags, err := s.albumRepo.GetTagsForAlbums(ctx, ids)
	if err != nil {
		return err
	}
	images, err := s.albumRepo.GetImagesForAlbums(ctx, ids)
	if err != nil {
		return err
	}

	for _, album := range albums {
		album.Tags = tags[album.ID]
		album.Images = images[album.ID]
		album.ImagesCount = len(album.Images)
		s.images.fillURLs(album.Images)
	}
	return nil
}
