package daemon

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/recnotify/internal/config"
)

// Relayouter is notified when settings that affect placement change.
type Relayouter interface {
	Relayout()
}

// SettingsController applies settings changes. New values take effect on
// the next sound and immediately for popup placement.
type SettingsController struct {
	mu     sync.Mutex
	live   *config.Live
	ui     Relayouter
	path   string
	logger *slog.Logger
}

// NewSettingsController creates a controller. path is where Update persists
// settings; empty means the default settings path.
func NewSettingsController(live *config.Live, ui Relayouter, path string, logger *slog.Logger) *SettingsController {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsController{
		live:   live,
		ui:     ui,
		path:   path,
		logger: logger,
	}
}

// Current returns the live settings.
func (c *SettingsController) Current() config.Settings {
	return c.live.Load()
}

// Apply stores s in the live view and relayouts the popup.
// It reports whether anything changed.
func (c *SettingsController) Apply(s config.Settings) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applyLocked(s)
}

func (c *SettingsController) applyLocked(s config.Settings) bool {
	if c.live.Load() == s {
		return false
	}

	c.live.Store(s)
	if c.ui != nil {
		c.ui.Relayout()
	}
	c.logger.Info("settings applied",
		"sounds_enabled", s.SoundsEnabled,
		"position_center", s.PositionCenter,
	)
	return true
}

// Update persists s and applies it.
func (c *SettingsController) Update(s config.Settings) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := config.SaveSettings(c.path, s); err != nil {
		return err
	}
	c.applyLocked(s)
	return nil
}

// Reload re-reads the settings file and applies it.
func (c *SettingsController) Reload() error {
	s, err := config.LoadSettings(c.path)
	if err != nil {
		return err
	}
	c.Apply(s)
	return nil
}
