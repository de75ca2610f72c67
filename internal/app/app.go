// Package app wires configuration, logging, the job store and the scrape
// executor for the command line entry points.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"web-scraper-go/internal/config"
	"web-scraper-go/internal/logging"
	"web-scraper-go/internal/scraper"
	"web-scraper-go/internal/storage"
	"web-scraper-go/pkg/httpclient"
)

// App holds the long-lived components shared by a command invocation.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Executor *scraper.Executor

	storeOnce sync.Once
	store     storage.Store
	storeErr  error
}

// Options tweak Load.
type Options struct {
	ConfigFile string
	Verbose    bool
	// SkipDotenv disables loading .env from the working directory.
	SkipDotenv bool
}

// Load reads .env and the configuration file, then builds the logger and executor.
// The job store is opened on first use.
func Load(opts Options) (*App, error) {
	if !opts.SkipDotenv {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg, err := config.LoadConfig(opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.Verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		File:        cfg.Logging.File,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	return New(cfg, logger), nil
}

// New builds an App from an already validated configuration.
func New(cfg *config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := httpclient.NewHttpClient(cfg.Scraper.RequestTimeout, cfg.Scraper.UserAgent, logger)
	fetcher := scraper.NewFetcher(client, logger.Named("fetcher"))

	return &App{
		Config:   cfg,
		Logger:   logger,
		Executor: scraper.NewExecutor(fetcher, logger.Named("executor")),
	}
}

// Store opens the configured job store once. A corrupted jobs file is
// reported here and is fatal to the caller.
func (a *App) Store() (storage.Store, error) {
	a.storeOnce.Do(func() {
		a.store, a.storeErr = storage.Open(a.Config.Store, a.Logger.Named("store"))
		if a.storeErr != nil {
			a.storeErr = fmt.Errorf("failed to open job store: %w", a.storeErr)
		}
	})
	return a.store, a.storeErr
}

// Close flushes the logger.
func (a *App) Close() {
	_ = a.Logger.Sync()
}
