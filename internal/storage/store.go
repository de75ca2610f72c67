package storage

import (
	"context"
	"errors"
	"fmt"

	"web-scraper-go/internal/models"
)

// ErrNotFound is returned when a job name is not present in the store.
var ErrNotFound = errors.New("job not found")

// Store persists named job definitions.
type Store interface {
	// List returns every job name in ascending lexicographic order.
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, name string) (models.JobDefinition, error)
	// Upsert inserts or fully replaces the job keyed by def.Name.
	Upsert(ctx context.Context, def models.JobDefinition) error
	Delete(ctx context.Context, name string) error
}

// PersistenceError reports a failed write of the backing storage. The
// mutation that triggered it has not been applied.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist jobs (%s %s): %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func notFound(name string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}
