package storage

import (
	"context"
	"fmt"

	appconfig "photo-gallery-backend/internal/config"
)

// New creates a Store from storage configuration.
func New(ctx context.Context, cfg appconfig.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "filesystem", "":
		return NewFileSystemStore(cfg.Root, cfg.BaseURL)
	case "s3":
		return NewS3Store(ctx, cfg)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
