package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawMargins struct {
	Top    *int `yaml:"top"`
	Right  *int `yaml:"right"`
	Bottom *int `yaml:"bottom"`
	Left   *int `yaml:"left"`
}

type RawHost struct {
	Width         *int        `yaml:"width"`
	Height        *int        `yaml:"height"`
	CellWidth     *int        `yaml:"cell_width"`
	CellHeight    *int        `yaml:"cell_height"`
	MaximizeInset *RawMargins `yaml:"maximize_inset"`
	DockReserve   *int        `yaml:"dock_reserve"`
}

type RawLauncher struct {
	ToggleKey       *string `yaml:"toggle_key"`
	DismissKey      *string `yaml:"dismiss_key"`
	ModifierKey     *string `yaml:"modifier_key"`
	DwellMS         *int    `yaml:"dwell_ms"`
	AnimationMS     *int    `yaml:"animation_ms"`
	GlobalToggleKey *string `yaml:"global_toggle_key"`
}

type RawFocus struct {
	DefaultLabel *string `yaml:"default_label"`
	DebounceMS   *int    `yaml:"debounce_ms"`
}

type RawAnimation struct {
	MinimizeMS *int `yaml:"minimize_ms"`
	RestoreMS  *int `yaml:"restore_ms"`
	MaximizeMS *int `yaml:"maximize_ms"`
	CloseMS    *int `yaml:"close_ms"`
}

type RawLogging struct {
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawConfig is one file as written. Nil fields were not set and inherit
// from earlier files or defaults.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Host            *RawHost       `yaml:"host"`
	Launcher        *RawLauncher   `yaml:"launcher"`
	Focus           *RawFocus      `yaml:"focus"`
	Animation       *RawAnimation  `yaml:"animation"`
	DuplicateTitles *string        `yaml:"duplicate_titles"`
	Catalog         []CatalogEntry `yaml:"catalog"`
	Logging         *RawLogging    `yaml:"logging"`
	Display         *string        `yaml:"display"`
	XAuthority      *string        `yaml:"xauthority"`
}

func pick[T any](base, override *T) *T {
	if override != nil {
		return override
	}
	return base
}

func (r RawConfig) merge(other RawConfig) RawConfig {
	out := r
	out.Include = nil

	if other.Host != nil {
		h := RawHost{}
		if out.Host != nil {
			h = *out.Host
		}
		h.Width = pick(h.Width, other.Host.Width)
		h.Height = pick(h.Height, other.Host.Height)
		h.CellWidth = pick(h.CellWidth, other.Host.CellWidth)
		h.CellHeight = pick(h.CellHeight, other.Host.CellHeight)
		h.DockReserve = pick(h.DockReserve, other.Host.DockReserve)
		if other.Host.MaximizeInset != nil {
			m := RawMargins{}
			if h.MaximizeInset != nil {
				m = *h.MaximizeInset
			}
			m.Top = pick(m.Top, other.Host.MaximizeInset.Top)
			m.Right = pick(m.Right, other.Host.MaximizeInset.Right)
			m.Bottom = pick(m.Bottom, other.Host.MaximizeInset.Bottom)
			m.Left = pick(m.Left, other.Host.MaximizeInset.Left)
			h.MaximizeInset = &m
		}
		out.Host = &h
	}

	if other.Launcher != nil {
		l := RawLauncher{}
		if out.Launcher != nil {
			l = *out.Launcher
		}
		l.ToggleKey = pick(l.ToggleKey, other.Launcher.ToggleKey)
		l.DismissKey = pick(l.DismissKey, other.Launcher.DismissKey)
		l.ModifierKey = pick(l.ModifierKey, other.Launcher.ModifierKey)
		l.DwellMS = pick(l.DwellMS, other.Launcher.DwellMS)
		l.AnimationMS = pick(l.AnimationMS, other.Launcher.AnimationMS)
		l.GlobalToggleKey = pick(l.GlobalToggleKey, other.Launcher.GlobalToggleKey)
		out.Launcher = &l
	}

	if other.Focus != nil {
		f := RawFocus{}
		if out.Focus != nil {
			f = *out.Focus
		}
		f.DefaultLabel = pick(f.DefaultLabel, other.Focus.DefaultLabel)
		f.DebounceMS = pick(f.DebounceMS, other.Focus.DebounceMS)
		out.Focus = &f
	}

	if other.Animation != nil {
		a := RawAnimation{}
		if out.Animation != nil {
			a = *out.Animation
		}
		a.MinimizeMS = pick(a.MinimizeMS, other.Animation.MinimizeMS)
		a.RestoreMS = pick(a.RestoreMS, other.Animation.RestoreMS)
		a.MaximizeMS = pick(a.MaximizeMS, other.Animation.MaximizeMS)
		a.CloseMS = pick(a.CloseMS, other.Animation.CloseMS)
		out.Animation = &a
	}

	if other.Logging != nil {
		lg := RawLogging{}
		if out.Logging != nil {
			lg = *out.Logging
		}
		lg.Level = pick(lg.Level, other.Logging.Level)
		lg.File = pick(lg.File, other.Logging.File)
		lg.MaxSizeMB = pick(lg.MaxSizeMB, other.Logging.MaxSizeMB)
		lg.MaxFiles = pick(lg.MaxFiles, other.Logging.MaxFiles)
		out.Logging = &lg
	}

	out.DuplicateTitles = pick(out.DuplicateTitles, other.DuplicateTitles)
	out.Display = pick(out.Display, other.Display)
	out.XAuthority = pick(out.XAuthority, other.XAuthority)

	// A catalog is replaced as a whole, never merged entry by entry.
	if other.Catalog != nil {
		out.Catalog = append([]CatalogEntry(nil), other.Catalog...)
	}
	return out
}
