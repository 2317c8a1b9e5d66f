package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./vidx.db" {
			t.Errorf("expected database path ./vidx.db, got %s", config.Database.Path)
		}
		if config.API.BaseURL != "http://localhost:8080/api" {
			t.Errorf("expected base URL http://localhost:8080/api, got %s", config.API.BaseURL)
		}
		if config.Pager.PageSize != 10 {
			t.Errorf("expected page size 10, got %d", config.Pager.PageSize)
		}
		if config.Pager.ScrollThreshold != 200 {
			t.Errorf("expected scroll threshold 200, got %d", config.Pager.ScrollThreshold)
		}
		if got := config.Pager.DebounceInterval(); got != 500*time.Millisecond {
			t.Errorf("expected debounce 500ms, got %v", got)
		}
		if config.Pager.MoreRetries != 0 {
			t.Errorf("expected no automatic retries, got %d", config.Pager.MoreRetries)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("overrides defaults", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			testConfig := `[api]
base_url = "https://videos.example.com/api"
timeout_seconds = 5

[pager]
page_size = 25
debounce_ms = 250

[database]
path = "/custom/path.db"
`
			if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			config, err := LoadConfig(configPath)
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}

			if config.API.BaseURL != "https://videos.example.com/api" {
				t.Errorf("unexpected base URL %s", config.API.BaseURL)
			}
			if config.API.Timeout() != 5*time.Second {
				t.Errorf("expected 5s timeout, got %v", config.API.Timeout())
			}
			if config.Pager.PageSize != 25 {
				t.Errorf("expected page size 25, got %d", config.Pager.PageSize)
			}
			if config.Pager.DebounceInterval() != 250*time.Millisecond {
				t.Errorf("expected 250ms debounce, got %v", config.Pager.DebounceInterval())
			}
			if config.Pager.ScrollThreshold != 200 {
				t.Errorf("missing keys should keep defaults, got threshold %d", config.Pager.ScrollThreshold)
			}
			if config.Database.Path != "/custom/path.db" {
				t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
			}
		})

		t.Run("rejects invalid page size", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte("[pager]\npage_size = 0\n"), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			_, err := LoadConfig(configPath)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("rejects malformed toml", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte("[pager\n"), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("missing file", func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
				t.Error("expected error for missing file")
			}
		})
	})

	t.Run("LoadOrDefault", func(t *testing.T) {
		config, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.toml"))
		if err != nil {
			t.Fatalf("expected defaults, got error %v", err)
		}
		if config.Pager.PageSize != 10 {
			t.Errorf("expected default page size, got %d", config.Pager.PageSize)
		}
	})
}
