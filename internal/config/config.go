// ABOUTME: Configuration loading and parsing for vitanote
// ABOUTME: Supports YAML or TOML files, .env files and ${VAR} expansion

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/2389/vitanote/internal/store"
)

// Config represents the complete vitanote configuration
type Config struct {
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Paging   PagingConfig   `yaml:"paging" toml:"paging"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// DatabaseConfig holds database location and driver configuration.
// An empty Dir lets the store resolve the platform data directory.
type DatabaseConfig struct {
	Dir    string `yaml:"dir" toml:"dir"`
	File   string `yaml:"file" toml:"file"`
	Driver string `yaml:"driver" toml:"driver"`
}

// PagingConfig holds range query and chat history sizing
type PagingConfig struct {
	DefaultPageSize     int `yaml:"default_page_size" toml:"default_page_size"`
	DefaultHistoryLimit int `yaml:"default_history_limit" toml:"default_history_limit"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			File:   store.DefaultFileName,
			Driver: store.DriverModernc,
		},
		Paging: PagingConfig{
			DefaultPageSize:     store.DefaultPageSize,
			DefaultHistoryLimit: store.DefaultHistoryLimit,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// A .env file next to the config is loaded first without overriding variables
// already set. Environment variables in the format ${VAR_NAME} are then
// expanded. Files ending in .toml are parsed as TOML, everything else as YAML.
// Keys absent from the file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	// Expand environment variables in the raw content
	expanded := expandEnvVars(string(data))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// loadDotEnv loads path into the environment if it exists.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Database.File == "" {
		return fmt.Errorf("database.file is required")
	}
	if strings.ContainsRune(c.Database.File, filepath.Separator) {
		return fmt.Errorf("database.file must be a file name, not a path (use database.dir)")
	}
	if !store.ValidDriver(c.Database.Driver) {
		return fmt.Errorf("database.driver must be %q or %q, got %q", store.DriverModernc, store.DriverCGO, c.Database.Driver)
	}

	if c.Paging.DefaultPageSize < 1 {
		return fmt.Errorf("paging.default_page_size must be at least 1")
	}
	if c.Paging.DefaultHistoryLimit < 1 {
		return fmt.Errorf("paging.default_history_limit must be at least 1")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json")
	}

	return nil
}

// StoreOptions translates the configuration into store options.
func (c *Config) StoreOptions() []store.Option {
	opts := []store.Option{
		store.WithFileName(c.Database.File),
		store.WithDriver(c.Database.Driver),
		store.WithPaging(c.Paging.DefaultPageSize, c.Paging.DefaultHistoryLimit),
	}
	if c.Database.Dir != "" {
		opts = append(opts, store.WithDirResolver(store.StaticDir(expandHome(c.Database.Dir))))
	}
	return opts
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
