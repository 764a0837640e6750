package services

import (
	"context"
	"errors"
	"time"

	"photo-gallery-backend/internal/models"
	"photo-gallery-backend/internal/repository"

	"github.com/google/uuid"
)

const maxNameLength = 255

// TagRepo is the tag persistence contract the service consumes.
type TagRepo interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id string) (*models.Tag, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id string) error
	CountOwned(ctx context.Context, userID string, ids []string) (int, error)
}

// TagService handles tag-related business logic
type TagService struct {
	tagRepo TagRepo
}

// NewTagService creates a new tag service
func NewTagService(tagRepo TagRepo) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// ListTags returns the user's tags, newest first
func (s *TagService) ListTags(ctx context.Context, userID string) ([]*models.Tag, error) {
	return s.tagRepo.ListByUser(ctx, userID)
}

// CreateTag creates a tag. Names are unique per owner, not globally.
func (s *TagService) CreateTag(ctx context.Context, userID, name string) (*models.Tag, error) {
	if err := validateTagName(name); err != nil {
		return nil, err
	}

	tag := &models.Tag{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newValidationError("name", "you already have a tag named %q", name)
		}
		return nil, err
	}
	return tag, nil
}

// UpdateTag renames one of the user's tags
func (s *TagService) UpdateTag(ctx context.Context, userID, tagID, name string) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if tag.UserID != userID {
		return nil, ErrDenied
	}
	if err := validateTagName(name); err != nil {
		return nil, err
	}

	tag.Name = name
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newValidationError("name", "you already have a tag named %q", name)
		}
		return nil, err
	}
	return tag, nil
}

// DeleteTag removes one of the user's tags. Only the tag row and its
// join rows go away; tagged images and albums are untouched.
func (s *TagService) DeleteTag(ctx context.Context, userID, tagID string) error {
	tag, err := s.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		return err
	}
	if tag.UserID != userID {
		return ErrDenied
	}
	return s.tagRepo.Delete(ctx, tagID)
}

func validateTagName(name string) error {
	if name == "" {
		return newValidationError("name", "name is required")
	}
	if len(name) > maxNameLength {
		return newValidationError("name", "name must be at most %d characters", maxNameLength)
	}
	return nil
}
