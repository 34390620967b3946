// Package app assembles one running desktop: the loop, the registry and
// every collaborator listening to it.
package app

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/termdesk/internal/animation"
	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/dock"
	"github.com/1broseidon/termdesk/internal/focus"
	"github.com/1broseidon/termdesk/internal/gesture"
	"github.com/1broseidon/termdesk/internal/launcher"
	"github.com/1broseidon/termdesk/internal/logging"
)

// loopBuffer is the desktop loop's submission queue length.
const loopBuffer = 64

// Options configures a Session.
type Options struct {
	Config *config.Config
	Logger *slog.Logger
	// Scheduler drives animations, the dwell timer and nothing else. Nil
	// uses real timers.
	Scheduler animation.Scheduler
	// Rand picks launcher placements.
	Rand *rand.Rand
	// GOOS selects the modifier alias table; empty uses the runtime's.
	GOOS string
}

// Session is a running desktop. Every accessor returning core objects
// must only be used from inside Apply or Do.
type Session struct {
	cfg    *config.Config
	logger *slog.Logger

	loop     *desktop.Loop
	animator *animation.Animator
	registry *desktop.Registry
	dock     *dock.Dock
	launcher *launcher.Launcher
	trigger  *launcher.Trigger
	focus    *focus.Coordinator
	gestures *gesture.Tracker

	changes chan struct{}

	// detach drops every registry subscription made by New.
	detach      []func()
	releaseOnce sync.Once
	started     atomic.Bool
}

// New builds a session. Call Run to start its loop.
func New(opts Options) *Session {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Session{
		cfg:     cfg,
		logger:  logger,
		loop:    desktop.NewLoop(loopBuffer),
		changes: make(chan struct{}, 1),
	}
	s.animator = animation.New(opts.Scheduler, s.post)

	minimize, restore, maximize, closing := cfg.Animation.Durations()
	inset := cfg.Inset()
	s.registry = desktop.NewRegistry(desktop.Options{
		Host: desktop.Rect{Width: cfg.Host.Width, Height: cfg.Host.Height},
		MaximizeInset: desktop.Insets{
			Top:    inset.Top,
			Right:  inset.Right,
			Bottom: inset.Bottom,
			Left:   inset.Left,
		},
		Duplicates: desktop.DuplicatePolicy(cfg.DuplicateTitles),
		Animator:   s.animator,
		Durations: desktop.Durations{
			Minimize: minimize,
			Restore:  restore,
			Maximize: maximize,
			Close:    closing,
		},
		Logger: logger.With("component", "registry"),
	})

	s.launcher = launcher.New(s.registry, launcher.Options{
		Catalog:  Catalog(cfg),
		Animator: s.animator,
		Duration: cfg.LauncherAnimation(),
		Rand:     opts.Rand,
		Logger:   logger.With("component", "launcher"),
	})
	s.gestures = gesture.NewTracker(s.registry)
	var undock func()
	s.dock, undock = dock.Attach(s.registry, opener(s.ShowLauncher), logger.With("component", "dock"))
	s.focus = focus.New(s.registry, focus.Options{
		DefaultLabel: cfg.Focus.DefaultLabel,
		Debounce:     cfg.Debounce(),
		Post:         s.post,
		Logger:       logger.With("component", "focus"),
	})
	s.trigger = launcher.NewTrigger(launcher.TriggerOptions{
		Modifier:  cfg.Launcher.ModifierKey,
		Dwell:     cfg.Dwell(),
		Scheduler: opts.Scheduler,
		Post:      s.post,
		Visible:   s.launcher.Visible,
		Open:      s.ShowLauncher,
		GOOS:      opts.GOOS,
	})
	unwatch := s.registry.Subscribe(desktop.ListenerFunc(func(desktop.Event) { s.changed() }))
	s.detach = []func(){unwatch, s.focus.Close, s.gestures.Close, undock}
	return s
}

// Catalog converts the configured catalog into launcher definitions.
func Catalog(cfg *config.Config) []launcher.Definition {
	out := make([]launcher.Definition, 0, len(cfg.Catalog))
	for _, e := range cfg.Catalog {
		out = append(out, launcher.Definition{
			Title:  e.Title,
			Width:  e.Width,
			Height: e.Height,
			Color:  e.Color,
			Icon:   e.Icon,
		})
	}
	return out
}

type opener func()

func (o opener) Show() { o() }

// Run executes the desktop loop until ctx is cancelled or Close is called.
// Once the loop has stopped, the session's collaborators are detached from
// the registry.
func (s *Session) Run(ctx context.Context) {
	s.started.Store(true)
	s.logger.Info("desktop loop started")
	s.loop.Run(ctx)
	s.release()
	s.logger.Info("desktop loop stopped")
}

// Close stops the loop and drops any pending dwell. A session that never
// ran is detached immediately; otherwise Run detaches it on exit.
func (s *Session) Close() {
	s.trigger.Reset()
	s.loop.Stop()
	if !s.started.Load() {
		s.release()
	}
}

func (s *Session) release() {
	s.releaseOnce.Do(func() {
		for _, fn := range s.detach {
			fn()
		}
	})
}

// Changes delivers a tick whenever desktop state may have changed. Ticks
// are coalesced; receivers should re-read the whole Frame.
func (s *Session) Changes() <-chan struct{} { return s.changes }

func (s *Session) changed() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// post re-enters the loop from a timer.
func (s *Session) post(fn func()) {
	s.loop.Post(func() {
		fn()
		s.changed()
	})
}

// Do runs fn on the loop and waits for it.
func (s *Session) Do(ctx context.Context, fn func()) error {
	return s.loop.Do(ctx, func() {
		fn()
		s.changed()
	})
}

// Apply runs fn on the loop and returns the frame it left behind.
func (s *Session) Apply(ctx context.Context, fn func()) (Frame, error) {
	var f Frame
	err := s.loop.Do(ctx, func() {
		if fn != nil {
			fn()
		}
		f = s.Frame()
	})
	return f, err
}

// Config returns the effective configuration.
func (s *Session) Config() *config.Config { return s.cfg }

// Logger returns the session's logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// Registry returns the window registry.
func (s *Session) Registry() *desktop.Registry { return s.registry }

func (s *Session) Dock() *dock.Dock { return s.dock }

func (s *Session) Launcher() *launcher.Launcher { return s.launcher }

func (s *Session) Trigger() *launcher.Trigger { return s.trigger }

func (s *Session) Focus() *focus.Coordinator { return s.focus }

func (s *Session) Gestures() *gesture.Tracker { return s.gestures }

// ShowLauncher aborts any gesture and opens the launcher.
func (s *Session) ShowLauncher() {
	s.gestures.Abort()
	s.launcher.Show()
}

// ToggleLauncher opens a hidden launcher and closes a visible one.
func (s *Session) ToggleLauncher() {
	if s.launcher.Visible() {
		s.launcher.Hide()
		return
	}
	s.ShowLauncher()
}

// LauncherView is the launcher part of a Frame.
type LauncherView struct {
	Visible    bool
	Query      string
	Entries    []launcher.Definition
	Cursor     int
	Transition animation.Kind
}

// Frame is an immutable picture of the desktop for rendering.
type Frame struct {
	Host desktop.Rect
	// Windows are in paint order, lowest z first. Minimized windows are
	// omitted unless their minimize transition is still settling.
	Windows []desktop.WindowInfo
	// Closing are exit ghosts still fading out.
	Closing   []desktop.WindowInfo
	Active    string
	Label     string
	Tabs      []focus.Tab
	Dock      []dock.Entry
	Launcher  LauncherView
	Gesture   gesture.Phase
	Animating bool
}

// Frame captures the current state. It must run on the loop.
func (s *Session) Frame() Frame {
	windows := make([]desktop.WindowInfo, 0, s.registry.Len())
	for _, info := range s.registry.Snapshot() {
		if info.State == desktop.StateMinimized && info.Transition == "" {
			continue
		}
		windows = append(windows, info)
	}
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].ZIndex < windows[j].ZIndex
	})

	return Frame{
		Host:    s.registry.Host(),
		Windows: windows,
		Closing: slices.Clone(s.registry.Closing()),
		Active:  s.registry.ActiveTitle(),
		Label:   s.focus.Label(),
		Tabs:    s.focus.Tabs(),
		Dock:    s.dock.Entries(),
		Launcher: LauncherView{
			Visible:    s.launcher.Visible(),
			Query:      s.launcher.Query(),
			Entries:    s.launcher.Filtered(),
			Cursor:     s.launcher.Cursor(),
			Transition: s.launcher.Transition(),
		},
		Gesture:   s.gestures.Phase(),
		Animating: s.animator.Busy(),
	}
}
