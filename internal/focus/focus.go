// Package focus mirrors the registry's selection into the title bar: the
// branding label, the tab strip and the window menu commands.
package focus

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/1broseidon/termdesk/internal/desktop"
)

// DefaultLabel is shown when no window is active.
const DefaultLabel = "termdesk"

// DefaultDebounce coalesces bursts of registry events into one rebuild.
const DefaultDebounce = 10 * time.Millisecond

// ErrUnknownCommand is returned by ParseCommand for unknown menu actions.
var ErrUnknownCommand = errors.New("unknown command")

// TabKind distinguishes how a tab is drawn.
type TabKind int

const (
	TabBackground TabKind = iota
	TabActive
	TabMinimized
)

// String returns the string representation of the tab kind.
func (k TabKind) String() string {
	switch k {
	case TabActive:
		return "active"
	case TabMinimized:
		return "minimized"
	default:
		return "background"
	}
}

// Tab is one entry of the tab strip.
type Tab struct {
	Title string  `json:"title"`
	Icon  string  `json:"icon,omitempty"`
	Kind  TabKind `json:"-"`
}

// Command is a window menu action.
type Command string

const (
	CommandNew          Command = "new"
	CommandClose        Command = "close"
	CommandMinimizeAll  Command = "minimize-all"
	CommandRestoreAll   Command = "restore-all"
	CommandBringToFront Command = "bring-to-front"
	CommandCloseAll     Command = "close-all"
)

// Commands lists the menu actions in menu order.
var Commands = []Command{
	CommandNew,
	CommandClose,
	CommandMinimizeAll,
	CommandRestoreAll,
	CommandBringToFront,
	CommandCloseAll,
}

// ParseCommand resolves a menu action name.
func ParseCommand(name string) (Command, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range Commands {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// Options configures a Coordinator.
type Options struct {
	// DefaultLabel replaces DefaultLabel when set.
	DefaultLabel string
	// Debounce is the rebuild coalescing window. Zero rebuilds synchronously.
	Debounce time.Duration
	// Post runs a debounced rebuild on the goroutine that owns the
	// registry. It is required when Debounce is positive.
	Post func(func())
	// OnChange is called after the label or the tab strip changed.
	OnChange func()
	Logger   *slog.Logger
}

// Coordinator keeps the branding label and tab strip in step with a
// registry and relays menu commands onto it.
type Coordinator struct {
	registry     *desktop.Registry
	defaultLabel string
	label        string

	mu   sync.Mutex
	tabs []Tab

	debounced   func(func())
	post        func(func())
	onChange    func()
	logger      *slog.Logger
	unsubscribe func()
}

// New attaches a coordinator to registry.
func New(registry *desktop.Registry, opts Options) *Coordinator {
	if opts.DefaultLabel == "" {
		opts.DefaultLabel = DefaultLabel
	}
	if opts.Post == nil {
		opts.Post = func(f func()) { f() }
	}
	if opts.OnChange == nil {
		opts.OnChange = func() {}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	c := &Coordinator{
		registry:     registry,
		defaultLabel: opts.DefaultLabel,
		label:        opts.DefaultLabel,
		post:         opts.Post,
		onChange:     opts.OnChange,
		logger:       opts.Logger,
	}
	if opts.Debounce > 0 {
		c.debounced = debounce.New(opts.Debounce)
	}
	if title := registry.ActiveTitle(); title != "" {
		c.label = title
	}
	c.Rebuild()
	c.unsubscribe = registry.Subscribe(c)
	return c
}

// Close detaches the coordinator from the registry.
func (c *Coordinator) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// HandleEvent implements desktop.Listener.
func (c *Coordinator) HandleEvent(e desktop.Event) {
	if e.Kind == desktop.EventSelectionChanged {
		if e.Title == "" {
			c.label = c.defaultLabel
		} else {
			c.label = e.Title
		}
		c.onChange()
	}
	c.scheduleRebuild()
}

func (c *Coordinator) scheduleRebuild() {
	if c.debounced == nil {
		c.Rebuild()
		return
	}
	c.debounced(func() {
		c.post(c.Rebuild)
	})
}

// Label returns the branding label.
func (c *Coordinator) Label() string { return c.label }

// Tabs returns the last built tab strip.
func (c *Coordinator) Tabs() []Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Tab, len(c.tabs))
	copy(out, c.tabs)
	return out
}

// Rebuild recomputes the tab strip from the registry. It must run on the
// goroutine that owns the registry.
func (c *Coordinator) Rebuild() {
	windows := c.registry.Windows()
	tabs := make([]Tab, 0, len(windows))
	for _, w := range windows {
		kind := TabBackground
		switch {
		case w.State() == desktop.StateMinimized:
			kind = TabMinimized
		case w.Active():
			kind = TabActive
		}
		tabs = append(tabs, Tab{Title: w.Title(), Icon: w.Icon(), Kind: kind})
	}
	c.mu.Lock()
	c.tabs = tabs
	c.mu.Unlock()
	c.logger.Debug("tab strip rebuilt", "tabs", len(tabs))
	c.onChange()
}

// ActivateTab restores a minimized window or focuses a normal one. Unknown
// titles are ignored.
func (c *Coordinator) ActivateTab(title string) {
	w, ok := c.registry.Window(title)
	if !ok {
		return
	}
	if w.State() == desktop.StateMinimized {
		c.registry.RestoreByTitle(title)
		return
	}
	c.registry.Focus(w)
}

// Dispatch runs a menu command against the registry.
func (c *Coordinator) Dispatch(cmd Command) error {
	c.logger.Debug("menu command", "command", string(cmd))
	switch cmd {
	case CommandNew:
		_, err := c.registry.NewWindow()
		return err
	case CommandClose:
		c.registry.CloseActive()
	case CommandMinimizeAll:
		c.registry.MinimizeAll()
	case CommandRestoreAll:
		c.registry.RestoreAll()
	case CommandBringToFront:
		c.registry.BringToFront()
	case CommandCloseAll:
		c.registry.CloseAll()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, string(cmd))
	}
	return nil
}
