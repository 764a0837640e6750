package models

import "time"

// User represents a user in the system
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Image represents an uploaded image owned by a user.
// Filename is the storage key, not a full path. URL is derived
// from the storage backend and never persisted.
type Image struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Tags        []*Tag    `json:"tags,omitempty"`
}

// Album groups images and tags for a user. CoverImage is a
// denormalized filename pointer and is not validated against the
// album's image set.
type Album struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	CoverImage  *string   `json:"cover_image"`
	CreatedAt   time.Time `json:"created_at"`
	Tags        []*Tag    `json:"tags,omitempty"`
	Images      []*Image  `json:"images,omitempty"`
	ImagesCount int       `json:"images_count"`
}

// Tag is a user-scoped label, unique per owner
type Tag struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardStats holds per-user aggregate counts
type DashboardStats struct {
	ImagesCount int64 `json:"images_count"`
	AlbumsCount int64 `json:"albums_count"`
	TagsCount   int64 `json:"tags_count"`
	ImagesSize  int64 `json:"images_size"`
}
