package storage

import (
	"context"

	"github.com/all-dot-files/wifiprov/internal/models"
)

// Store aggregates all storage interfaces
type Store interface {
	Runs() RunStore
	Close() error
}

// RunStore records apply runs
type RunStore interface {
	// Add records a run
	Add(ctx context.Context, run models.Run) error
	// Get retrieves a run by id
	Get(ctx context.Context, id string) (*models.Run, error)
	// List returns up to limit runs, newest first; limit <= 0 means all
	List(ctx context.Context, limit int) ([]models.Run, error)
	// Prune keeps only the newest keep runs
	Prune(ctx context.Context, keep int) error
}
