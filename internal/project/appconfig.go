package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/piwi3910/BarCut/internal/model"
)

// DefaultConfigDir returns the default configuration directory (~/.barcut).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".barcut"
	}
	return filepath.Join(home, ".barcut")
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig writes the application config to the given path as JSON.
// Secrets (API keys, archive credentials) are never written.
func SaveAppConfig(path string, config model.AppConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadAppConfig reads the application config from path, applying BARCUT_*
// environment overrides and defaults for anything left unset. A missing file
// is not an error: the config then comes from the environment and defaults.
func LoadAppConfig(path string) (model.AppConfig, error) {
	var cfg model.AppConfig

	_, statErr := os.Stat(path)
	switch {
	case path == "" || errors.Is(statErr, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return model.DefaultAppConfig(), fmt.Errorf("failed to read config from environment: %w", err)
		}
	case statErr != nil:
		return model.DefaultAppConfig(), fmt.Errorf("failed to stat config file: %w", statErr)
	default:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return model.DefaultAppConfig(), fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if cfg.RecentProjects == nil {
		cfg.RecentProjects = []string{}
	}
	return cfg, nil
}
