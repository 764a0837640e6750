package repository

import (
	"context"
	"errors"
	"fmt"

	"photo-gallery-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ImageRepository handles database operations for images
type ImageRepository struct {
	db *pgxpool.Pool
}

// NewImageRepository creates a new image repository
func NewImageRepository(db *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{db: db}
}

// Create creates a new image row
func (r *ImageRepository) Create(ctx context.Context, image *models.Image) error {
	query := `
		INSERT INTO images (id, user_id, title, description, filename, size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		image.ID, image.UserID, image.Title, image.Description,
		image.Filename, image.Size, image.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("filename %q: %w", image.Filename, ErrDuplicate)
		}
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

// GetByID retrieves an image by ID
func (r *ImageRepository) GetByID(ctx context.Context, id string) (*models.Image, error) {
	query := `
		SELECT id, user_id, title, description, filename, size, created_at
		FROM images
		WHERE id = $1
	`
	var image models.Image
	err := r.db.QueryRow(ctx, query, id).Scan(
		&image.ID, &image.UserID, &image.Title, &image.Description,
		&image.Filename, &image.Size, &image.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("image %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return &image, nil
}

// ListByUser retrieves a user's images, newest first
func (r *ImageRepository) ListByUser(ctx context.Context, userID string) ([]*models.Image, error) {
	query := `
		SELECT id, user_id, title, description, filename, size, created_at
		FROM images
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	var images []*models.Image
	for rows.Next() {
		var image models.Image
		err := rows.Scan(
			&image.ID, &image.UserID, &image.Title, &image.Description,
			&image.Filename, &image.Size, &image.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, &image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}
	return images, nil
}

// Update writes the image's title, description and filename
func (r *ImageRepository) Update(ctx context.Context, image *models.Image) error {
	query := `
		UPDATE images
		SET title = $1, description = $2, filename = $3
		WHERE id = $4
	`
	result, err := r.db.Exec(ctx, query, image.Title, image.Description, image.Filename, image.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("filename %q: %w", image.Filename, ErrDuplicate)
		}
		return fmt.Errorf("failed to update image: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("image %s: %w", image.ID, ErrNotFound)
	}
	return nil
}

// UpdateFilename re-asserts the filename column only. Used by the
// rename rollback path.
func (r *ImageRepository) UpdateFilename(ctx context.Context, id, filename string) error {
	query := `UPDATE images SET filename = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, filename, id)
	if err != nil {
		return fmt.Errorf("failed to update image filename: %w", err)
	}
	return nil
}

// Delete removes the image row. Join rows cascade.
func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM images WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("image %s: %w", id, ErrNotFound)
	}
	return nil
}

// SyncTags replaces the image's tag set with tagIDs: links missing
// from the target are inserted, links absent from it are removed,
// links in both are untouched.
func (r *ImageRepository) SyncTags(ctx context.Context, imageID string, tagIDs []string) error {
	if tagIDs == nil {
		tagIDs = []string{}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`DELETE FROM images_tags WHERE image_id = $1 AND NOT (tag_id = ANY($2::uuid[]))`,
		imageID, tagIDs,
	)
	if err != nil {
		return fmt.Errorf("failed to remove stale tag links: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO images_tags (image_id, tag_id)
		 SELECT $1, unnest($2::uuid[])
		 ON CONFLICT DO NOTHING`,
		imageID, tagIDs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tag links: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tag sync: %w", err)
	}
	return nil
}

// GetTagsForImages returns the tags of each given image, keyed by image ID
func (r *ImageRepository) GetTagsForImages(ctx context.Context, imageIDs []string) (map[string][]*models.Tag, error) {
	tags := make(map[string][]*models.Tag)
	if len(imageIDs) == 0 {
		return tags, nil
	}

	query := `
		SELECT it.image_id, t.id, t.user_id, t.name, t.created_at
		FROM images_tags it
		JOIN tags t ON t.id = it.tag_id
		WHERE it.image_id = ANY($1::uuid[])
		ORDER BY t.name
	`
	rows, err := r.db.Query(ctx, query, imageIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get image tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var imageID string
		var tag models.Tag
		if err := rows.Scan(&imageID, &tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image tag: %w", err)
		}
		tags[imageID] = append(tags[imageID], &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating image tags: %w", err)
	}
	return tags, nil
}

// CountOwned counts how many of the given image IDs exist and belong to the user
func (r *ImageRepository) CountOwned(ctx context.Context, userID string, ids []string) (int, error) {
	query := `SELECT COUNT(*) FROM images WHERE user_id = $1 AND id = ANY($2::uuid[])`
	var count int
	if err := r.db.QueryRow(ctx, query, userID, ids).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count owned images: %w", err)
	}
	return count, nil
}
