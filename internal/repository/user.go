package repository

import (
	"context"
	"errors"
	"fmt"

	"photo-gallery-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Username, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username %q: %w", user.Username, ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, username, created_at
		FROM users
		WHERE id = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Stats returns aggregate counts for a user's dashboard
func (r *UserRepository) Stats(ctx context.Context, userID string) (*models.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM images WHERE user_id = $1),
			(SELECT COUNT(*) FROM albums WHERE user_id = $1),
			(SELECT COUNT(*) FROM tags WHERE user_id = $1),
			(SELECT COALESCE(SUM(size), 0) FROM images WHERE user_id = $1)
	`
	var stats models.DashboardStats
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.ImagesCount, &stats.AlbumsCount, &stats.TagsCount, &stats.ImagesSize,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return &stats, nil
}
