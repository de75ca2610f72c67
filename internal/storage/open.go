package storage

import (
	"fmt"

	"go.uber.org/zap"

	"web-scraper-go/internal/config"
)

// Open creates the job store selected by cfg.Backend.
func Open(cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		store, err := OpenFileStore(cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendSupabase:
		store, err := NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseTable, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
