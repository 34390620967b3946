package config

import (
	"fmt"
	"strings"
)

// ValidationError reports an invalid setting at a YAML path. When the
// setting came from a file, Source points at it.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// BuildEffectiveConfig applies raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if h := raw.Host; h != nil {
		set(&cfg.Host.Width, h.Width)
		set(&cfg.Host.Height, h.Height)
		set(&cfg.Host.CellWidth, h.CellWidth)
		set(&cfg.Host.CellHeight, h.CellHeight)
		set(&cfg.Host.DockReserve, h.DockReserve)
		if m := h.MaximizeInset; m != nil {
			set(&cfg.Host.MaximizeInset.Top, m.Top)
			set(&cfg.Host.MaximizeInset.Right, m.Right)
			set(&cfg.Host.MaximizeInset.Bottom, m.Bottom)
			set(&cfg.Host.MaximizeInset.Left, m.Left)
		}
	}

	if l := raw.Launcher; l != nil {
		set(&cfg.Launcher.ToggleKey, l.ToggleKey)
		set(&cfg.Launcher.DismissKey, l.DismissKey)
		set(&cfg.Launcher.ModifierKey, l.ModifierKey)
		set(&cfg.Launcher.DwellMS, l.DwellMS)
		set(&cfg.Launcher.AnimationMS, l.AnimationMS)
		set(&cfg.Launcher.GlobalToggleKey, l.GlobalToggleKey)
	}

	if f := raw.Focus; f != nil {
		set(&cfg.Focus.DefaultLabel, f.DefaultLabel)
		set(&cfg.Focus.DebounceMS, f.DebounceMS)
	}
	if strings.TrimSpace(cfg.Focus.DefaultLabel) == "" {
		cfg.Focus.DefaultLabel = DefaultConfig().Focus.DefaultLabel
	}

	if a := raw.Animation; a != nil {
		set(&cfg.Animation.MinimizeMS, a.MinimizeMS)
		set(&cfg.Animation.RestoreMS, a.RestoreMS)
		set(&cfg.Animation.MaximizeMS, a.MaximizeMS)
		set(&cfg.Animation.CloseMS, a.CloseMS)
	}

	if lg := raw.Logging; lg != nil {
		set(&cfg.Logging.Level, lg.Level)
		set(&cfg.Logging.File, lg.File)
		set(&cfg.Logging.MaxSizeMB, lg.MaxSizeMB)
		set(&cfg.Logging.MaxFiles, lg.MaxFiles)
	}
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	if cfg.Logging.Level == "warn" {
		cfg.Logging.Level = "warning"
	}

	set(&cfg.DuplicateTitles, raw.DuplicateTitles)
	cfg.DuplicateTitles = strings.ToLower(strings.TrimSpace(cfg.DuplicateTitles))
	set(&cfg.Display, raw.Display)
	set(&cfg.XAuthority, raw.XAuthority)

	if len(raw.Catalog) > 0 {
		cfg.Catalog = make([]CatalogEntry, len(raw.Catalog))
		for i, entry := range raw.Catalog {
			entry.Title = strings.TrimSpace(entry.Title)
			cfg.Catalog[i] = entry
		}
	}

	return cfg, nil
}
