package config

import (
	"fmt"
	"strings"
	"time"
)

// DuplicateTitles values.
const (
	DuplicateReject = "reject"
	DuplicateSuffix = "suffix"
)

// Config is the effective termdesk configuration.
type Config struct {
	Host            HostConfig      `yaml:"host"`
	Launcher        LauncherConfig  `yaml:"launcher"`
	Focus           FocusConfig     `yaml:"focus"`
	Animation       AnimationConfig `yaml:"animation"`
	DuplicateTitles string          `yaml:"duplicate_titles"`
	Catalog         []CatalogEntry  `yaml:"catalog"`
	Logging         LoggingConfig   `yaml:"logging"`

	// X11 connection overrides for the global hotkey helper.
	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`
}

// HostConfig describes the host surface. Window geometry is expressed in
// virtual pixels; the terminal renderer maps CellWidth x CellHeight pixels
// onto one character cell.
type HostConfig struct {
	// Width and Height size the surface when it is not backed by a terminal.
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	CellWidth     int     `yaml:"cell_width"`
	CellHeight    int     `yaml:"cell_height"`
	MaximizeInset Margins `yaml:"maximize_inset"`
	// DockReserve is kept free at the bottom of maximized windows.
	DockReserve int `yaml:"dock_reserve"`
}

// Margins represents spacing on each side.
type Margins struct {
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
}

// LauncherConfig holds the launcher key bindings and timings.
type LauncherConfig struct {
	ToggleKey  string `yaml:"toggle_key"`
	DismissKey string `yaml:"dismiss_key"`
	// ModifierKey opens the launcher when held alone for DwellMS.
	ModifierKey string `yaml:"modifier_key"`
	DwellMS     int    `yaml:"dwell_ms"`
	AnimationMS int    `yaml:"animation_ms"`
	// GlobalToggleKey is grabbed by the X11 hotkey helper, in xgbutil
	// keybind syntax (e.g. "Mod4-space").
	GlobalToggleKey string `yaml:"global_toggle_key"`
}

// FocusConfig configures the title bar.
type FocusConfig struct {
	DefaultLabel string `yaml:"default_label"`
	DebounceMS   int    `yaml:"debounce_ms"`
}

// AnimationConfig holds transition lengths in milliseconds.
type AnimationConfig struct {
	MinimizeMS int `yaml:"minimize_ms"`
	RestoreMS  int `yaml:"restore_ms"`
	MaximizeMS int `yaml:"maximize_ms"`
	CloseMS    int `yaml:"close_ms"`
}

// CatalogEntry is a launcher template.
type CatalogEntry struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Color  string `yaml:"color,omitempty"`
	Icon   string `yaml:"icon,omitempty"`
}

// LoggingConfig configures the daemon log file.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Host: HostConfig{
			Width:       1280,
			Height:      800,
			CellWidth:   8,
			CellHeight:  16,
			DockReserve: 48,
		},
		Launcher: LauncherConfig{
			ToggleKey:       "ctrl+o",
			DismissKey:      "esc",
			ModifierKey:     "super",
			DwellMS:         200,
			AnimationMS:     150,
			GlobalToggleKey: "Mod4-space",
		},
		Focus: FocusConfig{
			DefaultLabel: "termdesk",
			DebounceMS:   10,
		},
		Animation: AnimationConfig{
			MinimizeMS: 250,
			RestoreMS:  250,
			MaximizeMS: 200,
			CloseMS:    150,
		},
		DuplicateTitles: DuplicateSuffix,
		Catalog:         BuiltinCatalog(),
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 5,
			MaxFiles:  3,
		},
	}
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	if c.Host.Width <= 0 {
		return &ValidationError{Path: "host.width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.Host.Height <= 0 {
		return &ValidationError{Path: "host.height", Err: fmt.Errorf("height must be > 0")}
	}
	if c.Host.CellWidth <= 0 {
		return &ValidationError{Path: "host.cell_width", Err: fmt.Errorf("cell_width must be > 0")}
	}
	if c.Host.CellHeight <= 0 {
		return &ValidationError{Path: "host.cell_height", Err: fmt.Errorf("cell_height must be > 0")}
	}
	m := c.Host.MaximizeInset
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return &ValidationError{Path: "host.maximize_inset", Err: fmt.Errorf("maximize_inset values must be >= 0")}
	}
	if c.Host.DockReserve < 0 {
		return &ValidationError{Path: "host.dock_reserve", Err: fmt.Errorf("dock_reserve must be >= 0")}
	}

	if strings.TrimSpace(c.Launcher.ToggleKey) == "" {
		return &ValidationError{Path: "launcher.toggle_key", Err: fmt.Errorf("toggle_key is required")}
	}
	if strings.TrimSpace(c.Launcher.DismissKey) == "" {
		return &ValidationError{Path: "launcher.dismiss_key", Err: fmt.Errorf("dismiss_key is required")}
	}
	if strings.TrimSpace(c.Launcher.ModifierKey) == "" {
		return &ValidationError{Path: "launcher.modifier_key", Err: fmt.Errorf("modifier_key is required")}
	}
	if c.Launcher.DwellMS <= 0 {
		return &ValidationError{Path: "launcher.dwell_ms", Err: fmt.Errorf("dwell_ms must be > 0")}
	}
	if c.Launcher.AnimationMS < 0 {
		return &ValidationError{Path: "launcher.animation_ms", Err: fmt.Errorf("animation_ms must be >= 0")}
	}

	if c.Focus.DebounceMS < 0 {
		return &ValidationError{Path: "focus.debounce_ms", Err: fmt.Errorf("debounce_ms must be >= 0")}
	}

	a := c.Animation
	if a.MinimizeMS < 0 || a.RestoreMS < 0 || a.MaximizeMS < 0 || a.CloseMS < 0 {
		return &ValidationError{Path: "animation", Err: fmt.Errorf("animation durations must be >= 0")}
	}

	switch c.DuplicateTitles {
	case DuplicateReject, DuplicateSuffix:
	default:
		return &ValidationError{Path: "duplicate_titles", Err: fmt.Errorf("duplicate_titles must be one of: reject, suffix")}
	}

	if len(c.Catalog) == 0 {
		return &ValidationError{Path: "catalog", Err: fmt.Errorf("catalog must not be empty")}
	}
	seen := make(map[string]struct{}, len(c.Catalog))
	for i, entry := range c.Catalog {
		path := fmt.Sprintf("catalog[%d]", i)
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			return &ValidationError{Path: path, Err: fmt.Errorf("title is required")}
		}
		if _, dup := seen[title]; dup {
			return &ValidationError{Path: path, Err: fmt.Errorf("duplicate title %q", title)}
		}
		seen[title] = struct{}{}
		if entry.Width <= 0 {
			return &ValidationError{Path: "catalog." + title + ".width", Err: fmt.Errorf("width must be > 0")}
		}
		if entry.Height <= 0 {
			return &ValidationError{Path: "catalog." + title + ".height", Err: fmt.Errorf("height must be > 0")}
		}
	}

	switch c.Logging.Level {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warning, error")}
	}
	if c.Logging.MaxSizeMB <= 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be > 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	return nil
}

// Dwell returns the modifier dwell interval.
func (c *Config) Dwell() time.Duration {
	return time.Duration(c.Launcher.DwellMS) * time.Millisecond
}

// Debounce returns the tab strip rebuild delay.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Focus.DebounceMS) * time.Millisecond
}

// LauncherAnimation returns the launcher show/hide duration.
func (c *Config) LauncherAnimation() time.Duration {
	return time.Duration(c.Launcher.AnimationMS) * time.Millisecond
}

// Inset returns the maximize inset with the dock reserve added at the bottom.
func (c *Config) Inset() Margins {
	m := c.Host.MaximizeInset
	m.Bottom += c.Host.DockReserve
	return m
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// Durations returns the window transition lengths.
func (a AnimationConfig) Durations() (minimize, restore, maximize, closing time.Duration) {
	return ms(a.MinimizeMS), ms(a.RestoreMS), ms(a.MaximizeMS), ms(a.CloseMS)
}
