package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/romangod6/sitemapgen/internal/models"
)

type Store interface {
	Initialize() error
	Close() error

	// Generation run operations
	CreateRun(ctx context.Context, run *models.GenerationRun) error
	UpdateRun(ctx context.Context, run *models.GenerationRun) error
	GetRun(ctx context.Context, id uuid.UUID) (*models.GenerationRun, error)
	// ListRuns returns runs newest first. A limit <= 0 returns every run
	// after offset.
	ListRuns(ctx context.Context, limit, offset int) ([]*models.GenerationRun, error)
	CountRuns(ctx context.Context) (int, error)
}

// Open connects to the store for driver ("sqlite", "postgres" or "memory").
func Open(driver, url string) (Store, error) {
	switch driver {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite", "sqlite3", "":
		return NewSQLiteStore(url)
	case "postgres", "postgresql":
		return NewPostgresStore(url)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
