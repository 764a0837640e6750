package repository

import (
	"context"
	"errors"
	"fmt"

	"photo-gallery-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TagRepository handles database operations for tags
type TagRepository struct {
	db *pgxpool.Pool
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *pgxpool.Pool) *TagRepository {
	return &TagRepository{db: db}
}

// Create creates a new tag. The per-user name constraint surfaces
// as ErrDuplicate.
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	query := `
		INSERT INTO tags (id, user_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, tag.ID, tag.UserID, tag.Name, tag.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("tag %q: %w", tag.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// GetByID retrieves a tag by ID
func (r *TagRepository) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM tags
		WHERE id = $1
	`
	var tag models.Tag
	err := r.db.QueryRow(ctx, query, id).Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tag %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &tag, nil
}

// ListByUser retrieves a user's tags, newest first
func (r *TagRepository) ListByUser(ctx context.Context, userID string) ([]*models.Tag, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM tags
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return tags, nil
}

// Update renames the tag
func (r *TagRepository) Update(ctx context.Context, tag *models.Tag) error {
	query := `UPDATE tags SET name = $1 WHERE id = $2`
	result, err := r.db.Exec(ctx, query, tag.Name, tag.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("tag %q: %w", tag.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to update tag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tag %s: %w", tag.ID, ErrNotFound)
	}
	return nil
}

// Delete removes the tag row. Join rows cascade; images and albums
// the tag referenced are untouched.
func (r *TagRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tags WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tag %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountOwned counts how many of the given tag IDs exist and belong to the user
func (r *TagRepository) CountOwned(ctx context.Context, userID string, ids []string) (int, error) {
	query := `SELECT COUNT(*) FROM tags WHERE user_id = $1 AND id = ANY($2::uuid[])`
	var count int
	if err := r.db.QueryRow(ctx, query, userID, ids).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count owned tags: %w", err)
	}
	return count, nil
}
