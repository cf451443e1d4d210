package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the pkgdb configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the pkgdb configuration directory
const ConfigDirName = ".pkgdb"

// HomeEnvVar overrides the location of the pkgdb directory when set.
const HomeEnvVar = "PKGDB_HOME"

// Config holds all pkgdb configuration
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Stats   StatsConfig   `yaml:"stats"`
	Chart   ChartConfig   `yaml:"chart"`
}

// StorageConfig selects and locates the history database backend
type StorageConfig struct {
	Backend string `yaml:"backend"` // "sqlite" or "dolt"
	Path    string `yaml:"path"`    // db file (sqlite) or data dir (dolt); empty means inside the pkgdb dir
}

// FetchConfig holds configuration for the pypistats.org client
type FetchConfig struct {
	Workers        int    `yaml:"workers"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	BaseURL        string `yaml:"base_url"`
	UserAgent      string `yaml:"user_agent"`
}

// StatsConfig holds configuration for growth and sparkline computation
type StatsConfig struct {
	WeekLookbackDays  int `yaml:"week_lookback_days"`
	MonthLookbackDays int `yaml:"month_lookback_days"`
	SparklineWidth    int `yaml:"sparkline_width"`
}

// ChartConfig holds configuration for SVG chart rendering
type ChartConfig struct {
	Width         int      `yaml:"width"`
	Height        int      `yaml:"height"`
	Palette       []string `yaml:"palette"`
	MaxCategories int      `yaml:"max_categories"`
	MaxSeries     int      `yaml:"max_series"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Dir returns the pkgdb directory: $PKGDB_HOME if set, otherwise
// ~/.pkgdb. The directory is not created.
func Dir() (string, error) {
	if dir := os.Getenv(HomeEnvVar); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ConfigDirName), nil
}

// Load reads config from the pkgdb directory, falling back to defaults
// when no config file exists.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFromPath(filepath.Join(dir, ConfigFileName))
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFromPath reads config from a specific path. Returns ErrConfigNotFound
// when the file does not exist; callers that accept a missing file fall
// back to defaults themselves. Merges loaded config with defaults and
// validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// EnsureDir creates the pkgdb directory if it doesn't exist and returns
// its path.
func EnsureDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}

	info, err := os.Stat(dir)
	if err == nil {
		if info.IsDir() {
			return dir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating pkgdb directory: %w", err)
	}

	return dir, nil
}

// Validate checks that config values are valid.
// Returns an error if validation fails.
func Validate(cfg *Config) error {
	if !IsValidBackend(cfg.Storage.Backend) {
		return fmt.Errorf("%w: storage backend must be one of %v, got %q",
			ErrInvalidConfig, ValidBackends, cfg.Storage.Backend)
	}

	if cfg.Fetch.Workers <= 0 {
		return fmt.Errorf("%w: fetch workers must be positive, got %d",
			ErrInvalidConfig, cfg.Fetch.Workers)
	}

	if cfg.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: fetch timeout_seconds must be positive, got %d",
			ErrInvalidConfig, cfg.Fetch.TimeoutSeconds)
	}

	if cfg.Stats.WeekLookbackDays <= 0 {
		return fmt.Errorf("%w: week_lookback_days must be positive, got %d",
			ErrInvalidConfig, cfg.Stats.WeekLookbackDays)
	}

	if cfg.Stats.MonthLookbackDays < cfg.Stats.WeekLookbackDays {
		return fmt.Errorf("%w: month_lookback_days (%d) must be at least week_lookback_days (%d)",
			ErrInvalidConfig, cfg.Stats.MonthLookbackDays, cfg.Stats.WeekLookbackDays)
	}

	if cfg.Stats.SparklineWidth <= 0 {
		return fmt.Errorf("%w: sparkline_width must be positive, got %d",
			ErrInvalidConfig, cfg.Stats.SparklineWidth)
	}

	if cfg.Chart.Width <= 0 || cfg.Chart.Height <= 0 {
		return fmt.Errorf("%w: chart dimensions must be positive, got %dx%d",
			ErrInvalidConfig, cfg.Chart.Width, cfg.Chart.Height)
	}

	if cfg.Chart.MaxCategories <= 0 {
		return fmt.Errorf("%w: chart max_categories must be positive, got %d",
			ErrInvalidConfig, cfg.Chart.MaxCategories)
	}

	if cfg.Chart.MaxSeries <= 0 {
		return fmt.Errorf("%w: chart max_series must be positive, got %d",
			ErrInvalidConfig, cfg.Chart.MaxSeries)
	}

	return nil
}

// SaveDefault writes the default configuration to the pkgdb directory.
// Creates the directory if it doesn't exist.
func SaveDefault() (string, error) {
	dir, err := EnsureDir()
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(dir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# pkgdb configuration\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
