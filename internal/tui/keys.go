package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/1broseidon/termdesk/internal/config"
)

// keyMap holds every desktop binding. The launcher keys come from config.
type keyMap struct {
	Launcher key.Binding
	Dismiss  key.Binding
	Menu     key.Binding
	New      key.Binding
	Close    key.Binding
	Minimize key.Binding
	Maximize key.Binding
	Cycle    key.Binding
	Navigate key.Binding
	Move     key.Binding
	Resize   key.Binding
	Dock     key.Binding
	Help     key.Binding
	Quit     key.Binding

	// Launcher and menu navigation.
	Up     key.Binding
	Down   key.Binding
	Select key.Binding

	// Keyboard move/resize mode.
	Left  key.Binding
	Right key.Binding
}

func newKeyMap(cfg config.LauncherConfig) keyMap {
	return keyMap{
		Launcher: key.NewBinding(
			key.WithKeys(normalizeBinding(cfg.ToggleKey)),
			key.WithHelp(normalizeBinding(cfg.ToggleKey), "launcher"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys(normalizeBinding(cfg.DismissKey)),
			key.WithHelp(normalizeBinding(cfg.DismissKey), "dismiss"),
		),
		Menu:     key.NewBinding(key.WithKeys("f10"), key.WithHelp("f10", "menu")),
		New:      key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new window")),
		Close:    key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close")),
		Minimize: key.NewBinding(key.WithKeys("alt+m"), key.WithHelp("alt+m", "minimize")),
		Maximize: key.NewBinding(key.WithKeys("alt+x"), key.WithHelp("alt+x", "maximize")),
		Cycle:    key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next window")),
		Navigate: key.NewBinding(
			key.WithKeys("alt+up", "alt+down", "alt+left", "alt+right"),
			key.WithHelp("alt+←↑↓→", "focus"),
		),
		Move:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "move")),
		Resize: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "resize")),
		Dock: key.NewBinding(
			key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7", "alt+8", "alt+9"),
			key.WithHelp("alt+1-9", "dock"),
		),
		Help: key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit: key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),

		Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Left:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Launcher, k.New, k.Close, k.Cycle, k.Menu, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Launcher, k.Dismiss, k.Menu, k.Help, k.Quit},
		{k.New, k.Close, k.Minimize, k.Maximize},
		{k.Cycle, k.Navigate, k.Dock},
		{k.Move, k.Resize},
	}
}

// normalizeBinding maps config spellings ("Ctrl+O", "escape") onto
// bubbletea key names.
func normalizeBinding(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	switch s {
	case "escape":
		return "esc"
	case "return":
		return "enter"
	}
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	return s
}

// dockIndex returns the zero-based dock slot of an alt+N key.
func dockIndex(k string) int {
	if len(k) == 5 && strings.HasPrefix(k, "alt+") && k[4] >= '1' && k[4] <= '9' {
		return int(k[4] - '1')
	}
	return -1
}
