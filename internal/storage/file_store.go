package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"web-scraper-go/internal/models"
)

// FileStore keeps jobs in memory and rewrites the whole JSON file on every mutation.
type FileStore struct {
	path   string
	jobs   map[string]models.JobSpec
	mu     sync.Mutex
	logger *zap.Logger
}

// OpenFileStore loads the jobs file at path. A missing file yields an empty
// store; a file that cannot be read or parsed is an error.
func OpenFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &FileStore{
		path:   path,
		jobs:   make(map[string]models.JobSpec),
		logger: logger,
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	logger.Debug("job store loaded", zap.String("path", path), zap.Int("jobs", len(s.jobs)))
	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read jobs file %s: %w", s.path, err)
	}

	var jobs map[string]models.JobSpec
	if err := json.Unmarshal(data, &jobs); err != nil {
		return fmt.Errorf("failed to parse jobs file %s: %w", s.path, err)
	}

	for name, spec := range jobs {
		if err := spec.Definition(name).Validate(); err != nil {
			return fmt.Errorf("invalid job %q in %s: %w", name, s.path, err)
		}
		s.jobs[name] = spec
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) Get(ctx context.Context, name string) (models.JobDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spec, ok := s.jobs[name]
	if !ok {
		return models.JobDefinition{}, notFound(name)
	}
	return spec.Definition(name), nil
}

func (s *FileStore) Upsert(ctx context.Context, def models.JobDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.jobs[def.Name]
	s.jobs[def.Name] = def.Spec()

	if err := s.persist(); err != nil {
		if existed {
			s.jobs[def.Name] = prev
		} else {
			delete(s.jobs, def.Name)
		}
		return err
	}

	s.logger.Info("job saved", zap.String("job", def.Name), zap.Bool("replaced", existed))
	return nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.jobs[name]
	if !ok {
		return notFound(name)
	}
	delete(s.jobs, name)

	if err := s.persist(); err != nil {
		s.jobs[name] = prev
		return err
	}

	s.logger.Info("job deleted", zap.String("job", name))
	return nil
}

// persist writes the full job map to a temp file next to the target and
// renames it into place. Callers must hold s.mu.
func (s *FileStore) persist() error {
	data, err := json.MarshalIndent(s.jobs, "", "    ")
	if err != nil {
		return &PersistenceError{Op: "encode", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &PersistenceError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &PersistenceError{Op: "create", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Op: "chmod", Path: tmpName, Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Op: "write", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: "close", Path: tmpName, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: "rename", Path: s.path, Err: err}
	}
	return nil
}
