package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/titanous/json5"
)

// Store backends
const (
	BackendFile     = "file"
	BackendSupabase = "supabase"
)

// ErrConfigExists is returned by WriteFile when it would replace an existing file.
var ErrConfigExists = errors.New("config file already exists")

// DefaultJobsFile is where saved jobs live when nothing else is configured.
const DefaultJobsFile = "configs.json"

// DefaultUserAgent identifies the scraper as a desktop browser so servers that
// reject unidentified clients still respond.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config holds the application configuration
type Config struct {
	Store   StoreConfig   `json:"store"`
	Scraper ScraperConfig `json:"scraper"`
	Logging LoggingConfig `json:"logging"`
}

// StoreConfig selects and configures the job store backend
type StoreConfig struct {
	Backend       string `json:"backend"`
	Path          string `json:"path"`
	SupabaseURL   string `json:"supabase_url"`
	SupabaseKey   string `json:"supabase_key"`
	SupabaseTable string `json:"supabase_table"`
}

// ScraperConfig holds fetch settings
type ScraperConfig struct {
	RequestTimeout time.Duration `json:"request_timeout"`
	UserAgent      string        `json:"user_agent"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Development bool   `json:"development"`
	File        string `json:"file"`
}

// envOverrides lists the environment variables that take precedence over the config file.
type envOverrides struct {
	StoreBackend   string        `envconfig:"SCRAPER_STORE_BACKEND"`
	StorePath      string        `envconfig:"SCRAPER_STORE_PATH"`
	SupabaseURL    string        `envconfig:"SUPABASE_URL"`
	SupabaseKey    string        `envconfig:"SUPABASE_KEY"`
	RequestTimeout time.Duration `envconfig:"SCRAPER_REQUEST_TIMEOUT"`
	UserAgent      string        `envconfig:"SCRAPER_USER_AGENT"`
	LogLevel       string        `envconfig:"SCRAPER_LOG_LEVEL"`
	LogFile        string        `envconfig:"SCRAPER_LOG_FILE"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:       BackendFile,
			Path:          DefaultJobsFile,
			SupabaseTable: "scrape_jobs",
		},
		Scraper: ScraperConfig{
			RequestTimeout: 10 * time.Second,
			UserAgent:      DefaultUserAgent,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Development: true,
		},
	}
}

// LoadConfig loads configuration from a JSON (or JSON5) file and applies
// environment overrides. A missing file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	case len(data) > 0:
		if err := json5.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}

	if env.StoreBackend != "" {
		c.Store.Backend = env.StoreBackend
	}
	if env.StorePath != "" {
		c.Store.Path = env.StorePath
	}
	if env.SupabaseURL != "" {
		c.Store.SupabaseURL = env.SupabaseURL
	}
	if env.SupabaseKey != "" {
		c.Store.SupabaseKey = env.SupabaseKey
	}
	if env.RequestTimeout > 0 {
		c.Scraper.RequestTimeout = env.RequestTimeout
	}
	if env.UserAgent != "" {
		c.Scraper.UserAgent = env.UserAgent
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.LogFile != "" {
		c.Logging.File = env.LogFile
	}
	return nil
}

// WriteFile writes the configuration as indented JSON. An existing file is
// only replaced when overwrite is set; the file is swapped in by rename so a
// failed write never leaves a truncated config behind.
func (c *Config) WriteFile(filename string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(filename); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, filename)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to check config file: %w", err)
		}
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Path == "" {
			return fmt.Errorf("store path is required for the file backend")
		}
	case BackendSupabase:
		if c.Store.SupabaseURL == "" {
			return fmt.Errorf("supabase URL is required")
		}
		if c.Store.SupabaseKey == "" {
			return fmt.Errorf("supabase key is required")
		}
		if c.Store.SupabaseTable == "" {
			return fmt.Errorf("supabase table is required")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Scraper.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}

	if c.Scraper.UserAgent == "" {
		return fmt.Errorf("user agent is required")
	}

	return nil
}
