package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRuntime_OverridesWinOverFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("INKPAD_DEBOUNCE_MS", "300")
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("url = \"http://file.local\"\ndebounce_ms = 900\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadRuntime(cfgPath, []string{"timeout=5"})
	if err != nil {
		t.Fatalf("loadRuntime: %v", err)
	}
	if cfg.URL != "http://file.local" {
		t.Fatalf("URL = %q", cfg.URL)
	}
	if cfg.Debounce() != 300*time.Millisecond {
		t.Fatalf("env should override the file, Debounce() = %v", cfg.Debounce())
	}
	if cfg.RequestTimeout() != 5*time.Second {
		t.Fatalf("-c should override everything, RequestTimeout() = %v", cfg.RequestTimeout())
	}
}
