package app

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/1broseidon/termdesk/internal/animation"
	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/gesture"
	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/launcher"
)

func newSession(t *testing.T) (*Session, *animation.ManualScheduler) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Focus.DebounceMS = 0
	sched := animation.NewManualScheduler()
	s := New(Options{
		Config:    cfg,
		Scheduler: sched,
		Rand:      rand.New(rand.NewPCG(7, 11)),
		GOOS:      "linux",
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		s.Close()
		<-done
	})
	return s, sched
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func intPtr(v int) *int { return &v }

func TestCreateWindowDefaultsAndPosition(t *testing.T) {
	s, _ := newSession(t)
	ctx := testContext(t)

	got, err := s.CreateWindow(ctx, ipc.CreateWindowPayload{Title: "Alpha", Left: intPtr(10), Top: intPtr(20), Icon: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := desktop.Rect{Left: 10, Top: 20, Width: desktop.DefaultWindowWidth, Height: desktop.DefaultWindowHeight}
	if got.Window.Geometry != want {
		t.Fatalf("expected %+v, got %+v", want, got.Window.Geometry)
	}
	if got.Window.Icon != "A" || !got.Window.Active {
		t.Fatalf("expected active window with icon, got %+v", got.Window)
	}

	placed, err := s.CreateWindow(ctx, ipc.CreateWindowPayload{Title: "Beta", Width: 400, Height: 300})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	g := placed.Window.Geometry
	host := s.Config().Host
	if g.Left < launcher.MarginEdge || g.Left > host.Width-400-launcher.MarginEdge {
		t.Fatalf("left %d outside placement range", g.Left)
	}
	if g.Top < launcher.MarginEdge || g.Top > host.Height-300-launcher.MarginBottom {
		t.Fatalf("top %d outside placement range", g.Top)
	}

	dup, err := s.CreateWindow(ctx, ipc.CreateWindowPayload{Title: "Alpha"})
	if err != nil {
		t.Fatalf("create duplicate: %v", err)
	}
	if dup.Window.Title != "Alpha (2)" {
		t.Fatalf("expected suffixed title, got %q", dup.Window.Title)
	}
}

func TestCommandWindowActions(t *testing.T) {
	s, sched := newSession(t)
	ctx := testContext(t)

	for _, title := range []string{"A", "B"} {
		if _, err := s.CreateWindow(ctx, ipc.CreateWindowPayload{Title: title}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	if err := s.Command(ctx, ipc.CommandPayload{Action: "minimize", Title: "A"}); err != nil {
		t.Fatalf("minimize: %v", err)
	}
	status, err := s.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.MinimizedCount != 1 || len(status.Dock) != 1 || status.Dock[0] != "A" {
		t.Fatalf("expected A docked, got %+v", status)
	}
	if status.ActiveTitle != "B" || status.Label != "B" {
		t.Fatalf("expected B active and labelled, got %+v", status)
	}

	err = s.Command(ctx, ipc.CommandPayload{Action: "maximize", Title: "A"})
	if !errors.Is(err, desktop.ErrMinimized) {
		t.Fatalf("expected ErrMinimized, got %v", err)
	}

	if err := s.Command(ctx, ipc.CommandPayload{Action: "focus", Title: "A"}); err != nil {
		t.Fatalf("focus: %v", err)
	}
	status, _ = s.Status(ctx)
	if status.ActiveTitle != "A" || len(status.Dock) != 0 {
		t.Fatalf("expected focus to restore A, got %+v", status)
	}

	for _, title := range []string{"nope", ""} {
		for _, action := range []string{"focus", "minimize", "restore", "maximize", "close-window"} {
			if err := s.Command(ctx, ipc.CommandPayload{Action: action, Title: title}); err != nil {
				t.Fatalf("%s %q: expected lenient miss, got %v", action, title, err)
			}
		}
	}

	if err := s.Command(ctx, ipc.CommandPayload{Action: "explode"}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}

	if err := s.Command(ctx, ipc.CommandPayload{Action: "clear-focus"}); err != nil {
		t.Fatalf("clear-focus: %v", err)
	}
	status, _ = s.Status(ctx)
	if status.ActiveTitle != "" || status.Label != config.DefaultConfig().Focus.DefaultLabel {
		t.Fatalf("expected no active window, got %+v", status)
	}

	if err := s.Command(ctx, ipc.CommandPayload{Action: "close-all"}); err != nil {
		t.Fatalf("close-all: %v", err)
	}
	frame, err := s.Apply(ctx, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(frame.Windows) != 0 || len(frame.Closing) != 2 {
		t.Fatalf("expected two exit ghosts, got %d windows %d ghosts", len(frame.Windows), len(frame.Closing))
	}

	sched.Advance(time.Second)
	frame, _ = s.Apply(ctx, nil)
	if len(frame.Closing) != 0 || frame.Animating {
		t.Fatalf("expected ghosts to settle, got %+v", frame.Closing)
	}
}

func TestMenuCommandNew(t *testing.T) {
	s, _ := newSession(t)
	ctx := testContext(t)

	if err := s.Command(ctx, ipc.CommandPayload{Action: "new"}); err != nil {
		t.Fatalf("new: %v", err)
	}
	list, err := s.ListWindows(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Windows) != 1 || list.Windows[0].Title != "Window 1" || list.Active != "Window 1" {
		t.Fatalf("unexpected windows %+v", list)
	}
}

func TestModifierDwellOpensLauncher(t *testing.T) {
	s, sched := newSession(t)
	ctx := testContext(t)

	if err := s.Key(ctx, ipc.KeyPayload{Key: "Super_L", Down: true}); err != nil {
		t.Fatalf("key: %v", err)
	}
	sched.Advance(199 * time.Millisecond)
	frame, _ := s.Apply(ctx, nil)
	if frame.Launcher.Visible {
		t.Fatal("launcher opened before the dwell elapsed")
	}

	sched.Advance(time.Millisecond)
	frame, _ = s.Apply(ctx, nil)
	if !frame.Launcher.Visible {
		t.Fatal("expected launcher to open after the dwell")
	}

	if err := s.Key(ctx, ipc.KeyPayload{Key: "Super_L"}); err != nil {
		t.Fatalf("key up: %v", err)
	}
	var state launcher.TriggerState
	s.Do(ctx, func() { state = s.Trigger().State() })
	if state != launcher.TriggerIdle {
		t.Fatalf("expected idle trigger after release, got %s", state)
	}
}

func TestModifierChordDoesNotOpenLauncher(t *testing.T) {
	s, sched := newSession(t)
	ctx := testContext(t)

	s.Key(ctx, ipc.KeyPayload{Key: "super", Down: true})
	s.Key(ctx, ipc.KeyPayload{Key: "t", Down: true})
	sched.Advance(time.Second)
	frame, _ := s.Apply(ctx, nil)
	if frame.Launcher.Visible {
		t.Fatal("expected chord to cancel the dwell")
	}
}

func TestLaunchFromCatalog(t *testing.T) {
	s, _ := newSession(t)
	ctx := testContext(t)

	if _, err := s.Launch(ctx, "Nope"); !errors.Is(err, launcher.ErrUnknownEntry) {
		t.Fatalf("expected ErrUnknownEntry, got %v", err)
	}

	if _, err := s.LauncherCommand(ctx, ipc.LauncherOpen); err != nil {
		t.Fatalf("open: %v", err)
	}
	got, err := s.Launch(ctx, "Notes")
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	if got.Window.Icon != "N" || got.Window.Geometry.Width != 420 {
		t.Fatalf("expected Notes frame, got %+v", got.Window)
	}
	frame, _ := s.Apply(ctx, nil)
	if frame.Launcher.Visible {
		t.Fatal("expected launcher to hide after a launch")
	}

	catalog, err := s.ListCatalog(ctx)
	if err != nil || len(catalog.Entries) != len(config.BuiltinCatalog()) {
		t.Fatalf("unexpected catalog %+v %v", catalog, err)
	}
}

func TestCreatedWindowTabsCarryIcons(t *testing.T) {
	s, _ := newSession(t)
	ctx := testContext(t)

	def := config.BuiltinCatalog()[0]
	if _, err := s.Launch(ctx, def.Title); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if _, err := s.CreateWindow(ctx, ipc.CreateWindowPayload{Title: "Scratch", Icon: "S"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	frame, _ := s.Apply(ctx, nil)
	icons := map[string]string{}
	for _, tab := range frame.Tabs {
		icons[tab.Title] = tab.Icon
	}
	if icons[def.Title] != def.Icon {
		t.Fatalf("expected tab icon %q for %s, got %q", def.Icon, def.Title, icons[def.Title])
	}
	if icons["Scratch"] != "S" {
		t.Fatalf("expected tab icon %q, got %q", "S", icons["Scratch"])
	}
}

func TestShowLauncherAbortsGesture(t *testing.T) {
	s, _ := newSession(t)
	ctx := testContext(t)

	var sess *gesture.Session
	frame, err := s.Apply(ctx, func() {
		w, _ := s.Registry().CreateWindow("Alpha", 400, 300, 100, 100, "")
		sess = s.Gestures().BeginDrag(w, 150, 110)
		s.Gestures().Move(170, 130)
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if frame.Gesture != gesture.PhaseDragging {
		t.Fatalf("expected dragging, got %s", frame.Gesture)
	}

	data, err := s.LauncherCommand(ctx, ipc.LauncherToggle)
	if err != nil || !data.Visible {
		t.Fatalf("expected launcher visible, got %+v %v", data, err)
	}
	frame, _ = s.Apply(ctx, func() { s.Gestures().Move(400, 400) })
	if frame.Gesture != gesture.PhaseIdle || !sess.Ended() {
		t.Fatalf("expected gesture aborted, got %s", frame.Gesture)
	}
	if g := frame.Windows[0].Geometry; g.Left != 120 || g.Top != 120 {
		t.Fatalf("expected window left where the drag stopped, got %+v", g)
	}

	data, _ = s.LauncherCommand(ctx, ipc.LauncherToggle)
	if data.Visible {
		t.Fatal("expected second toggle to hide the launcher")
	}
}

func TestFramePaintOrder(t *testing.T) {
	s, sched := newSession(t)
	ctx := testContext(t)

	frame, _ := s.Apply(ctx, func() {
		for _, title := range []string{"A", "B", "C"} {
			s.Registry().CreateWindow(title, 400, 300, 0, 0, "")
		}
		s.Registry().FocusTitle("A")
		w, _ := s.Registry().Window("B")
		s.Registry().Minimize(w)
	})
	titles := func(f Frame) []string {
		var out []string
		for _, w := range f.Windows {
			out = append(out, w.Title)
		}
		return out
	}
	// B is still animating out.
	if got := titles(frame); len(got) != 3 || got[2] != "A" {
		t.Fatalf("expected A on top with B settling, got %v", got)
	}

	sched.Advance(time.Second)
	frame, _ = s.Apply(ctx, nil)
	if got := titles(frame); len(got) != 2 || got[0] != "C" || got[1] != "A" {
		t.Fatalf("expected [C A], got %v", got)
	}
	if len(frame.Dock) != 1 || frame.Dock[0].Title != "B" {
		t.Fatalf("expected B docked, got %+v", frame.Dock)
	}
	if len(frame.Tabs) != 3 {
		t.Fatalf("expected 3 tabs, got %+v", frame.Tabs)
	}
}

func TestChangesTicksAfterMutation(t *testing.T) {
	s, _ := newSession(t)
	ctx := testContext(t)

	// Drain anything left from construction.
	select {
	case <-s.Changes():
	default:
	}
	if err := s.Do(ctx, func() { s.Registry().NewWindow() }); err != nil {
		t.Fatalf("do: %v", err)
	}
	select {
	case <-s.Changes():
	case <-time.After(time.Second):
		t.Fatal("expected a change tick")
	}
}

func TestSessionServesIPC(t *testing.T) {
	s, _ := newSession(t)
	path := filepath.Join(t.TempDir(), "td.sock")
	srv := ipc.NewServer(path, s, s.Logger())
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer srv.Stop()

	client := ipc.NewClientAt(path)
	if _, err := client.Launch("Clock"); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if err := client.Command("minimize-all", ""); err != nil {
		t.Fatalf("minimize-all: %v", err)
	}
	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.WindowCount != 1 || status.MinimizedCount != 1 || status.Dock[0] != "Clock" {
		t.Fatalf("unexpected status %+v", status)
	}
	if err := client.Command("restore", "Clock"); err != nil {
		t.Fatalf("restore: %v", err)
	}
	windows, err := client.ListWindows()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if windows.Active != "Clock" || windows.Windows[0].StateName != "normal" {
		t.Fatalf("expected Clock restored and focused, got %+v", windows)
	}
}

func TestSessionClosedRejectsWork(t *testing.T) {
	s := New(Options{})
	s.Close()
	if err := s.Do(context.Background(), func() {}); !errors.Is(err, desktop.ErrLoopClosed) {
		t.Fatalf("expected ErrLoopClosed, got %v", err)
	}
}

func TestClosedSessionStopsListening(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Focus.DebounceMS = 0
	s := New(Options{Config: cfg, Scheduler: animation.NewManualScheduler()})

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(context.Background())
	}()
	s.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	select {
	case <-s.Changes():
	default:
	}

	// The loop is gone, so the registry can be driven directly.
	w, err := s.Registry().CreateWindow("Alpha", 400, 300, 0, 0, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	s.Registry().Minimize(w)

	if s.Dock().Len() != 0 {
		t.Fatalf("expected detached dock to stay empty, got %+v", s.Dock().Entries())
	}
	if tabs := s.Focus().Tabs(); len(tabs) != 0 {
		t.Fatalf("expected detached tab strip to stay empty, got %+v", tabs)
	}
	if label := s.Focus().Label(); label != cfg.Focus.DefaultLabel {
		t.Fatalf("expected default label, got %q", label)
	}
	select {
	case <-s.Changes():
		t.Fatal("expected no change ticks after close")
	default:
	}
}

func TestCloseWithoutRunDetaches(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Focus.DebounceMS = 0
	s := New(Options{Config: cfg})
	s.Close()
	if _, err := s.Registry().CreateWindow("Alpha", 400, 300, 0, 0, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if tabs := s.Focus().Tabs(); len(tabs) != 0 {
		t.Fatalf("expected no tabs after close, got %+v", tabs)
	}
}
