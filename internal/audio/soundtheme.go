package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// ErrSoundNotFound is returned when a sound name cannot be resolved to a file.
var ErrSoundNotFound = errors.New("sound not found")

// aliases maps the event table's sound names to freedesktop theme names.
var aliases = map[string]string{
	"DeviceConnect":      "device-added",
	"DeviceDisconnect":   "device-removed",
	"SystemHand":         "dialog-warning",
	"SystemAsterisk":     "dialog-information",
	"SystemNotification": "message-new-instant",
}

var soundExtensions = []string{".oga", ".ogg", ".wav"}

// ThemeName returns the freedesktop name for a sound alias.
func ThemeName(alias string) (string, bool) {
	name, ok := aliases[alias]
	return name, ok
}

// SoundTheme resolves sound names to files in the freedesktop sound theme.
type SoundTheme struct {
	theme string
	dirs  []string
}

// NewSoundTheme creates a lookup over dirs. With no dirs it searches the
// XDG data directories.
func NewSoundTheme(dirs ...string) *SoundTheme {
	if len(dirs) == 0 {
		dirs = append([]string{xdg.DataHome}, xdg.DataDirs...)
	}
	return &SoundTheme{theme: "freedesktop", dirs: dirs}
}

// Resolve returns the file for a sound alias.
// Unknown aliases and missing files are both ErrSoundNotFound; no other
// sound is substituted.
func (t *SoundTheme) Resolve(alias string) (string, error) {
	name, ok := ThemeName(alias)
	if !ok {
		return "", fmt.Errorf("%w: no theme name for %q", ErrSoundNotFound, alias)
	}

	for _, dir := range t.dirs {
		for _, ext := range soundExtensions {
			path := filepath.Join(dir, "sounds", t.theme, "stereo", name+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSoundNotFound, name)
}
