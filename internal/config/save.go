package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrExists 表示目标配置文件已存在且未要求覆盖。
var ErrExists = errors.New("config file already exists")

const fileHeader = "# inkpad configuration. INKPAD_* environment variables and -c key=value override these values.\n\n"

// Encode renders cfg as the TOML document Save writes.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path (DefaultPath when empty), creating the parent
// directory. The file is replaced via rename so readers never see half a file.
// It returns the path written.
func Save(path string, cfg Config, overwrite bool) (string, error) {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return "", errors.New("config path is empty and $HOME is not set")
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%w: %s", ErrExists, path)
		}
	}
	body, err := Encode(cfg)
	if err != nil {
		return path, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return path, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.toml")
	if err != nil {
		return path, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(fileHeader); err != nil {
		tmp.Close()
		return path, err
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return path, err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return path, err
	}
	if err := tmp.Close(); err != nil {
		return path, err
	}
	return path, os.Rename(tmp.Name(), path)
}
