package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Config is the persisted config file schema.
type Config struct {
	URL                   string `toml:"url" env:"INKPAD_URL"`
	CommitPath            string `toml:"commit_path" env:"INKPAD_COMMIT_PATH"`
	ChoosePath            string `toml:"choose_path" env:"INKPAD_CHOOSE_PATH"`
	DebounceMillis        int    `toml:"debounce_ms" env:"INKPAD_DEBOUNCE_MS"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds" env:"INKPAD_REQUEST_TIMEOUT_SECONDS"`
	ToastMillis           int    `toml:"toast_ms" env:"INKPAD_TOAST_MS"`
	LogLevel              string `toml:"log_level" env:"INKPAD_LOG_LEVEL"`
	Source                string `toml:"-"`
}

func Default() Config {
	return Config{
		URL:                   "http://localhost:9090",
		CommitPath:            "/editor/onchange",
		ChoosePath:            "/editor/choose",
		DebounceMillis:        600,
		RequestTimeoutSeconds: 30,
		ToastMillis:           1500,
		LogLevel:              "info",
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".inkpad", "config.toml")
}

// Load reads the TOML file at path (missing file is fine) and then applies
// INKPAD_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, err
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg.normalized(), nil
}

// ApplyKVOverrides applies free-form -c key=value overrides.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "url":
			cfg.URL = val
		case "commit_path":
			cfg.CommitPath = val
		case "choose_path":
			cfg.ChoosePath = val
		case "debounce_ms", "debounce":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.DebounceMillis = n
			}
		case "request_timeout_seconds", "timeout":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.RequestTimeoutSeconds = n
			}
		case "toast_ms":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.ToastMillis = n
			}
		case "log_level":
			cfg.LogLevel = val
		}
	}
	return cfg.normalized()
}

func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMillis) * time.Millisecond
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c Config) ToastDuration() time.Duration {
	return time.Duration(c.ToastMillis) * time.Millisecond
}

// normalized fills zero or negative values back in from Default.
func (c Config) normalized() Config {
	def := Default()
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if c.URL == "" {
		c.URL = def.URL
	}
	if strings.TrimSpace(c.CommitPath) == "" {
		c.CommitPath = def.CommitPath
	}
	if strings.TrimSpace(c.ChoosePath) == "" {
		c.ChoosePath = def.ChoosePath
	}
	if c.DebounceMillis <= 0 {
		c.DebounceMillis = def.DebounceMillis
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = def.RequestTimeoutSeconds
	}
	if c.ToastMillis <= 0 {
		c.ToastMillis = def.ToastMillis
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = def.LogLevel
	}
	return c
}
