package repository

import (
	"context"
	"errors"
	"fmt"

	"photo-gallery-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AlbumRepository handles database operations for albums
type AlbumRepository struct {
	db *pgxpool.Pool
}

// NewAlbumRepository creates a new album repository
func NewAlbumRepository(db *pgxpool.Pool) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// Create creates a new album row
func (r *AlbumRepository) Create(ctx context.Context, album *models.Album) error {
	query := `
		INSERT INTO albums (id, user_id, title, description, cover_image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		album.ID, album.UserID, album.Title, album.Description,
		album.CoverImage, album.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create album: %w", err)
	}
	return nil
}

// GetByID retrieves an album by ID
func (r *AlbumRepository) GetByID(ctx context.Context, id string) (*models.Album, error) {
	query := `
		SELECT id, user_id, title, description, cover_image, created_at
		FROM albums
		WHERE id = $1
	`
	var album models.Album
	err := r.db.QueryRow(ctx, query, id).Scan(
		&album.ID, &album.UserID, &album.Title, &album.Description,
		&album.CoverImage, &album.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("album %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	return &album, nil
}

// ListByUser retrieves a user's albums, newest first
func (r *AlbumRepository) ListByUser(ctx context.Context, userID string) ([]*models.Album, error) {
	query := `
		SELECT id, user_id, title, description, cover_image, created_at
		FROM albums
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	defer rows.Close()

	var albums []*models.Album
	for rows.Next() {
		var album models.Album
		err := rows.Scan(
			&album.ID, &album.UserID, &album.Title, &album.Description,
			&album.CoverImage, &album.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, &album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating albums: %w", err)
	}
	return albums, nil
}

// Update writes the album's title, description and cover image
func (r *AlbumRepository) Update(ctx context.Context, album *models.Album) error {
	query := `
		UPDATE albums
		SET title = $1, description = $2, cover_image = $3
		WHERE id = $4
	`
	result, err := r.db.Exec(ctx, query, album.Title, album.Description, album.CoverImage, album.ID)
	if err != nil {
		return fmt.Errorf("failed to update album: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("album %s: %w", album.ID, ErrNotFound)
	}
	return nil
}

// Delete removes the album row. Join rows cascade; the images and
// tags the album referenced are untouched.
func (r *AlbumRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM albums WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("album %s: %w", id, ErrNotFound)
	}
	return nil
}

// SyncTags replaces the album's tag set with tagIDs
func (r *AlbumRepository) SyncTags(ctx context.Context, albumID string, tagIDs []string) error {
	return r.syncLinks(ctx, albumID, tagIDs, "albums_tags", "tag_id")
}

// SyncImages replaces the album's image set with imageIDs
func (r *AlbumRepository) SyncImages(ctx context.Context, albumID string, imageIDs []string) error {
	return r.syncLinks(ctx, albumID, imageIDs, "albums_images", "image_id")
}

// syncLinks applies replace-the-full-set semantics to one of the
// album join tables: rows outside the target set are removed, missing
// rows are inserted, rows in both are untouched.
func (r *AlbumRepository) syncLinks(ctx context.Context, albumID string, ids []string, table, column string) error {
	if ids == nil {
		ids = []string{}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE album_id = $1 AND NOT (%s = ANY($2::uuid[]))`, table, column),
		albumID, ids,
	)
	if err != nil {
		return fmt.Errorf("failed to remove stale links from %s: %w", table, err)
	}

	_, err = tx.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (album_id, %s) SELECT $1, unnest($2::uuid[]) ON CONFLICT DO NOTHING`, table, column),
		albumID, ids,
	)
	if err != nil {
		return fmt.Errorf("failed to insert links into %s: %w", table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit %s sync: %w", table, err)
	}
	return nil
}

// GetTagsForAlbums returns the tags of each given album, keyed by album ID
func (r *AlbumRepository) GetTagsForAlbums(ctx context.Context, albumIDs []string) (map[string][]*models.Tag, error) {
	tags := make(map[string][]*models.Tag)
	if len(albumIDs) == 0 {
		return tags, nil
	}

	query := `
		SELECT at.album_id, t.id, t.user_id, t.name, t.created_at
		FROM albums_tags at
		JOIN tags t ON t.id = at.tag_id
		WHERE at.album_id = ANY($1::uuid[])
		ORDER BY t.name
	`
	rows, err := r.db.Query(ctx, query, albumIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get album tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var albumID string
		var tag models.Tag
		if err := rows.Scan(&albumID, &tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan album tag: %w", err)
		}
		tags[albumID] = append(tags[albumID], &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating album tags: %w", err)
	}
	return tags, nil
}

// GetImagesForAlbums returns the images of each given album, keyed by album ID
func (r *AlbumRepository) GetImagesForAlbums(ctx context.Context, albumIDs []string) (map[string][]*models.Image, error) {
	images := make(map[string][]*models.Image)
	if len(albumIDs) == 0 {
		return images, nil
	}

	query := `
		SELECT ai.album_id, i.id, i.user_id, i.title, i.description, i.filename, i.size, i.created_at
		FROM albums_images ai
		JOIN images i ON i.id = ai.image_id
		WHERE ai.album_id = ANY($1::uuid[])
		ORDER BY i.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, albumIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get album images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var albumID string
		var image models.Image
		err := rows.Scan(
			&albumID, &image.ID, &image.UserID, &image.Title, &image.Description,
			&image.Filename, &image.Size, &image.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan album image: %w", err)
		}
		images[albumID] = append(images[albumID], &image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating album images: %w", err)
	}
	return images, nil
}
