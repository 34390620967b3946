package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/focus"
	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/launcher"
)

// ErrUnknownAction is returned for a COMMAND action that is neither a menu
// command nor a window action.
var ErrUnknownAction = errors.New("unknown action")

var _ ipc.Desktop = (*Session)(nil)

// Status implements ipc.Desktop.
func (s *Session) Status(ctx context.Context) (ipc.StatusData, error) {
	var out ipc.StatusData
	err := s.loop.Do(ctx, func() {
		minimized := 0
		for _, w := range s.registry.Windows() {
			if w.State() == desktop.StateMinimized {
				minimized++
			}
		}
		dockTitles := make([]string, 0, s.dock.Len())
		for _, e := range s.dock.Entries() {
			dockTitles = append(dockTitles, e.Title)
		}
		out = ipc.StatusData{
			WindowCount:     s.registry.Len(),
			MinimizedCount:  minimized,
			ActiveTitle:     s.registry.ActiveTitle(),
			Label:           s.focus.Label(),
			LauncherVisible: s.launcher.Visible(),
			Dock:            dockTitles,
			Host:            s.registry.Host(),
		}
	})
	return out, err
}

// ListWindows implements ipc.Desktop.
func (s *Session) ListWindows(ctx context.Context) (ipc.WindowsData, error) {
	var out ipc.WindowsData
	err := s.loop.Do(ctx, func() {
		out = ipc.WindowsData{
			Windows: s.registry.Snapshot(),
			Active:  s.registry.ActiveTitle(),
		}
	})
	return out, err
}

// ListCatalog implements ipc.Desktop.
func (s *Session) ListCatalog(ctx context.Context) (ipc.CatalogData, error) {
	var out ipc.CatalogData
	err := s.loop.Do(ctx, func() {
		out.Entries = s.launcher.Catalog()
	})
	return out, err
}

// CreateWindow implements ipc.Desktop. Missing sizes fall back to the
// default frame and a missing position is chosen like a launcher placement.
func (s *Session) CreateWindow(ctx context.Context, p ipc.CreateWindowPayload) (ipc.WindowData, error) {
	var (
		out  ipc.WindowData
		cerr error
	)
	err := s.Do(ctx, func() {
		def := launcher.Definition{
			Title:  p.Title,
			Width:  p.Width,
			Height: p.Height,
			Color:  p.Color,
			Icon:   p.Icon,
		}
		if def.Width <= 0 {
			def.Width = desktop.DefaultWindowWidth
		}
		if def.Height <= 0 {
			def.Height = desktop.DefaultWindowHeight
		}
		left, top := s.launcher.Placement(def)
		if p.Left != nil {
			left = *p.Left
		}
		if p.Top != nil {
			top = *p.Top
		}
		w, err := s.registry.CreateWindow(def.Title, def.Width, def.Height, left, top, def.Color, desktop.WithIcon(def.Icon))
		if err != nil {
			cerr = err
			return
		}
		out.Window = w.Info()
	})
	if err != nil {
		return out, err
	}
	return out, cerr
}

// Command implements ipc.Desktop. Window actions on unknown titles succeed
// without effect.
func (s *Session) Command(ctx context.Context, p ipc.CommandPayload) error {
	var cerr error
	err := s.Do(ctx, func() {
		cerr = s.command(p)
	})
	if err != nil {
		return err
	}
	return cerr
}

func (s *Session) command(p ipc.CommandPayload) error {
	if cmd, err := focus.ParseCommand(p.Action); err == nil {
		return s.focus.Dispatch(cmd)
	}

	action := ipc.WindowAction(strings.ToLower(strings.TrimSpace(p.Action)))
	switch action {
	case ipc.ActionClear:
		s.registry.ClearActive()
		return nil
	case ipc.ActionResetZ:
		s.registry.ResetZIndexes()
		return nil
	}

	w, ok := s.registry.Window(p.Title)
	switch action {
	case ipc.ActionFocus:
		s.focus.ActivateTab(p.Title)
	case ipc.ActionMinimize:
		if ok {
			s.registry.Minimize(w)
		}
	case ipc.ActionRestore:
		s.registry.RestoreByTitle(p.Title)
	case ipc.ActionMaximize:
		if ok {
			return s.registry.ToggleMaximize(w)
		}
	case ipc.ActionCloseOne:
		s.registry.CloseTitle(p.Title)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, p.Action)
	}
	return nil
}

// LauncherCommand implements ipc.Desktop.
func (s *Session) LauncherCommand(ctx context.Context, action ipc.LauncherAction) (ipc.LauncherData, error) {
	var out ipc.LauncherData
	err := s.Do(ctx, func() {
		switch action {
		case ipc.LauncherToggle:
			s.ToggleLauncher()
		case ipc.LauncherOpen:
			s.ShowLauncher()
		case ipc.LauncherClose:
			s.launcher.Hide()
		}
		out.Visible = s.launcher.Visible()
	})
	return out, err
}

// Launch implements ipc.Desktop.
func (s *Session) Launch(ctx context.Context, title string) (ipc.WindowData, error) {
	var (
		out  ipc.WindowData
		lerr error
	)
	err := s.Do(ctx, func() {
		w, err := s.launcher.Launch(title)
		if err != nil {
			lerr = err
			return
		}
		out.Window = w.Info()
	})
	if err != nil {
		return out, err
	}
	return out, lerr
}

// Key implements ipc.Desktop by feeding the launcher trigger.
func (s *Session) Key(ctx context.Context, p ipc.KeyPayload) error {
	return s.Do(ctx, func() {
		if p.Down {
			s.trigger.KeyDown(p.Key)
		} else {
			s.trigger.KeyUp(p.Key)
		}
	})
}
