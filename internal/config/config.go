// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"

	"github.com/Versuscsdota/MirrorCRM/internal/grid"
	"github.com/Versuscsdota/MirrorCRM/internal/slot"
)

// Config holds the application configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Grid    GridConfig    `toml:"grid"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// APIConfig holds the Schedule Service connection settings.
type APIConfig struct {
	BaseURL string `toml:"base_url"` // e.g., "https://crm.example.com/api"
	Token   string `toml:"token"`    // bearer token, optional
	Timeout string `toml:"timeout"`  // e.g., "15s"
}

// GridConfig holds the time grid geometry.
type GridConfig struct {
	DayStart        string  `toml:"day_start"` // e.g., "08:00"
	DayEnd          string  `toml:"day_end"`   // e.g., "22:00"
	PxPerMinute     float64 `toml:"px_per_minute"`
	MinWidth        float64 `toml:"min_width"`
	RowHeight       float64 `toml:"row_height"`
	RowThreshold    float64 `toml:"row_threshold"`
	DefaultDuration int     `toml:"default_duration"` // minutes
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme        string `toml:"theme"`          // "light" or "dark", used until the user toggles
	CellsPerHour int    `toml:"cells_per_hour"` // 0 fits the day to the terminal width
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // "console" or "json"
	File   string `toml:"file"`   // TUI log file; empty logs nowhere while the TUI runs
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080/api",
			Timeout: "15s",
		},
		Grid: GridConfig{
			DayStart:        "08:00",
			DayEnd:          "22:00",
			PxPerMinute:     grid.DefaultPxPerMinute,
			MinWidth:        grid.DefaultMinWidth,
			RowHeight:       grid.DefaultRowHeight,
			RowThreshold:    grid.DefaultRowThreshold,
			DefaultDuration: slot.DefaultDuration,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme:        "light",
			CellsPerHour: 0,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mirrorcrm.db"
	}
	return filepath.Join(home, ".local", "share", "mirrorcrm", "mirrorcrm.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "mirrorcrm", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	// API overrides
	if v := os.Getenv("MIRRORCRM_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("MIRRORCRM_API_TOKEN"); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv("MIRRORCRM_API_TIMEOUT"); v != "" {
		cfg.API.Timeout = v
	}

	// Grid overrides
	if v := os.Getenv("MIRRORCRM_DAY_START"); v != "" {
		cfg.Grid.DayStart = v
	}
	if v := os.Getenv("MIRRORCRM_DAY_END"); v != "" {
		cfg.Grid.DayEnd = v
	}

	// Storage overrides
	if v := os.Getenv("MIRRORCRM_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	// UI overrides
	if v := os.Getenv("MIRRORCRM_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("MIRRORCRM_UI_CELLS_PER_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.UI.CellsPerHour = n
		}
	}

	// Log overrides
	if v := os.Getenv("MIRRORCRM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MIRRORCRM_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("MIRRORCRM_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url must be set")
	}
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}
	if _, err := c.API.TimeoutDuration(); err != nil {
		return err
	}

	if err := validateTime(c.Grid.DayStart, "day_start"); err != nil {
		return err
	}
	if err := validateTime(c.Grid.DayEnd, "day_end"); err != nil {
		return err
	}
	if c.Grid.DefaultDuration <= 0 {
		return errors.New("default_duration must be positive")
	}
	g, err := c.Geometry()
	if err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}

	if c.UI.Theme != "light" && c.UI.Theme != "dark" {
		return fmt.Errorf("invalid theme: %s", c.UI.Theme)
	}
	if c.UI.CellsPerHour < 0 {
		return errors.New("cells_per_hour must not be negative")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log format must be console or json, got %q", c.Log.Format)
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if err := slot.ValidateClock(t); err != nil {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

// TimeoutDuration parses the request timeout.
func (a APIConfig) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("api.timeout must be a duration like 15s, got %q", a.Timeout)
	}
	return d, nil
}

// Geometry builds the grid geometry from the [grid] section.
func (c *Config) Geometry() (grid.Geometry, error) {
	start, err := slot.MinutesFromClock(c.Grid.DayStart)
	if err != nil {
		return grid.Geometry{}, fmt.Errorf("day_start: %w", err)
	}
	end, err := slot.MinutesFromClock(c.Grid.DayEnd)
	if err != nil {
		return grid.Geometry{}, fmt.Errorf("day_end: %w", err)
	}
	if start >= end {
		return grid.Geometry{}, errors.New("day_start must be before day_end")
	}
	return grid.Geometry{
		DayStart:     start,
		DayEnd:       end,
		PxPerMinute:  c.Grid.PxPerMinute,
		MinWidth:     c.Grid.MinWidth,
		RowHeight:    c.Grid.RowHeight,
		RowThreshold: c.Grid.RowThreshold,
	}, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
