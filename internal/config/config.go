// Package config loads the optional docpush config file. Flags always win
// over file values; the file only supplies defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// Config holds file-supplied defaults from ~/.config/docpush/config.json5.
type Config struct {
	Account   string `json:"account"`
	CodeFont  string `json:"codeFont"`
	ChunkSize int    `json:"chunkSize"`
	ImageDir  string `json:"imageDir"`
}

// Dir returns the docpush config directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "docpush"), nil
}

// Load reads the config file. A missing file yields a zero Config, not an
// error; a malformed file is reported.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return loadFile(filepath.Join(dir, "config.json5"))
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- fixed path under the user config dir
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}
