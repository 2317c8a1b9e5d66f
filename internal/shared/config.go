package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Pager    PagerConfig    `toml:"pager"`
	UI       UIConfig       `toml:"ui"`
	Database DatabaseConfig `toml:"database"`
	Export   ExportConfig   `toml:"export"`
}

// APIConfig contains settings for the video backend.
type APIConfig struct {
	BaseURL           string  `toml:"base_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// PagerConfig contains the paginated list settings shared by every list surface.
type PagerConfig struct {
	PageSize        int `toml:"page_size"`
	DebounceMS      int `toml:"debounce_ms"`
	ScrollThreshold int `toml:"scroll_threshold"`
	MoreRetries     int `toml:"more_retries"`
}

// UIConfig contains terminal interface settings.
type UIConfig struct {
	ScrollThresholdLines int    `toml:"scroll_threshold_lines"`
	LogPath              string `toml:"log_path"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ExportConfig contains settings for multi-page exports.
type ExportConfig struct {
	RateLimit float64 `toml:"rate_limit"`
	MaxPages  int     `toml:"max_pages"`
}

// Timeout returns the HTTP client timeout, defaulting to 30 seconds.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DebounceInterval returns the search quiet interval, defaulting to 500ms.
func (c PagerConfig) DebounceInterval() time.Duration {
	if c.DebounceMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports settings that would leave the client unusable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalidConfig)
	}
	if c.Pager.PageSize <= 0 {
		return fmt.Errorf("%w: pager.page_size must be positive, got %d", ErrInvalidConfig, c.Pager.PageSize)
	}
	if c.Pager.ScrollThreshold < 0 || c.UI.ScrollThresholdLines < 0 {
		return fmt.Errorf("%w: scroll thresholds cannot be negative", ErrInvalidConfig)
	}
	if c.Pager.MoreRetries < 0 {
		return fmt.Errorf("%w: pager.more_retries cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// LoadOrDefault loads the config at path when it exists and falls back to the defaults otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
