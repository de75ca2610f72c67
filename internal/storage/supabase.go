package storage

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	supabase "github.com/nedpals/supabase-go"
	"go.uber.org/zap"

	"web-scraper-go/internal/models"
)

// SupabaseStore uses the nedpals/supabase-go SDK to persist jobs in a table
// with name, url and selector columns. name is the primary key.
type SupabaseStore struct {
	client *supabase.Client
	table  string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSupabaseStore creates a SupabaseStore. It reads SUPABASE_URL and SUPABASE_KEY
// from environment variables if empty values are provided.
func NewSupabaseStore(supabaseURL, supabaseKey, table string, logger *zap.Logger) (*SupabaseStore, error) {
	if supabaseURL == "" {
		supabaseURL = os.Getenv("SUPABASE_URL")
	}
	if supabaseKey == "" {
		supabaseKey = os.Getenv("SUPABASE_KEY")
	}
	if supabaseURL == "" || supabaseKey == "" {
		return nil, fmt.Errorf("supabase URL and key must be provided via config or SUPABASE_URL / SUPABASE_KEY env vars")
	}
	if table == "" {
		return nil, fmt.Errorf("supabase table must be provided")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// CreateClient returns *supabase.Client (no error)
	client := supabase.CreateClient(supabaseURL, supabaseKey)
	return &SupabaseStore{client: client, table: table, logger: logger}, nil
}

func (s *SupabaseStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []models.JobDefinition
	if err := s.client.DB.From(s.table).Select("name").ExecuteWithContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *SupabaseStore) Get(ctx context.Context, name string) (models.JobDefinition, error) {
	if err := ctx.Err(); err != nil {
		return models.JobDefinition{}, err
	}

	var rows []models.JobDefinition
	if err := s.client.DB.From(s.table).Select("*").Eq("name", name).ExecuteWithContext(ctx, &rows); err != nil {
		return models.JobDefinition{}, fmt.Errorf("failed to get job %q: %w", name, err)
	}
	if len(rows) == 0 {
		return models.JobDefinition{}, notFound(name)
	}
	return rows[0], nil
}

func (s *SupabaseStore) Upsert(ctx context.Context, def models.JobDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Update first; an empty representation means the row does not exist yet.
	var rows []models.JobDefinition
	if err := s.client.DB.From(s.table).Update(def).Eq("name", def.Name).ExecuteWithContext(ctx, &rows); err != nil {
		return &PersistenceError{Op: "update", Path: s.table, Err: err}
	}
	if len(rows) > 0 {
		s.logger.Info("job saved", zap.String("job", def.Name), zap.Bool("replaced", true))
		return nil
	}

	if err := s.client.DB.From(s.table).Insert(def).ExecuteWithContext(ctx, &rows); err != nil {
		return &PersistenceError{Op: "insert", Path: s.table, Err: err}
	}
	s.logger.Info("job saved", zap.String("job", def.Name), zap.Bool("replaced", false))
	return nil
}

func (s *SupabaseStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// DELETE answers 204 without a representation, so existence is checked first.
	var rows []models.JobDefinition
	if err := s.client.DB.From(s.table).Select("name").Eq("name", name).ExecuteWithContext(ctx, &rows); err != nil {
		return fmt.Errorf("failed to get job %q: %w", name, err)
	}
	if len(rows) == 0 {
		return notFound(name)
	}

	if err := s.client.DB.From(s.table).Delete().Eq("name", name).ExecuteWithContext(ctx, nil); err != nil {
		return &PersistenceError{Op: "delete", Path: s.table, Err: err}
	}

	s.logger.Info("job deleted", zap.String("job", name))
	return nil
}
