package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/setanarut/watercolor"
)

// Load reads a JSON config file on top of watercolor.DefaultConfig, so
// fields missing from the file keep their defaults.
func Load(filename string) (watercolor.Config, error) {
	cfg := watercolor.DefaultConfig()
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as indented JSON, creating the parent directory.
func Save(filename string, cfg watercolor.Config) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultPath returns ~/.config/watercolor/config.json.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "watercolor", "config.json")
}
