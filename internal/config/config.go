// Package config handles settings file loading and the process-wide live view.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default setting values.
const (
	DefaultSoundsEnabled  = true
	DefaultPositionCenter = true
)

// Settings holds the user-facing options of the notification overlay.
// Loaded from ~/.config/recnotify/settings.toml
type Settings struct {
	SoundsEnabled  bool `toml:"sounds_enabled" json:"sounds_enabled" yaml:"sounds_enabled"`    // Play audio cues
	PositionCenter bool `toml:"position_center" json:"position_center" yaml:"position_center"` // true=center, false=top-right
}

// DefaultSettings returns Settings with default values.
func DefaultSettings() Settings {
	return Settings{
		SoundsEnabled:  DefaultSoundsEnabled,
		PositionCenter: DefaultPositionCenter,
	}
}

// ConfigDir returns the recnotify configuration directory.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "recnotify"), nil
}

// SettingsPath returns the path to the settings file.
func SettingsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	return filepath.Join(dir, "settings.toml"), nil
}

// LoadSettings loads settings from the specified path.
// If path is empty, uses the default settings path.
// Returns default settings if the file doesn't exist.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		p, err := SettingsPath()
		if err != nil {
			return DefaultSettings(), err
		}
		path = p
	}

	// Start with defaults, then overlay with file contents
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings file: %w", err)
	}

	return s, nil
}

// SaveSettings writes the settings to the specified path.
// If path is empty, uses the default settings path.
func SaveSettings(path string, s Settings) error {
	if path == "" {
		p, err := SettingsPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return os.Rename(tmpPath, path)
}
