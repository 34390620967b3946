package tui

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/termdesk/internal/animation"
	"github.com/1broseidon/termdesk/internal/app"
	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/desktop"
)

func newTestModel(t *testing.T) (model, *app.Session) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Focus.DebounceMS = 0
	s := app.New(app.Options{
		Config:    cfg,
		Scheduler: animation.NewManualScheduler(),
		Rand:      rand.New(rand.NewPCG(1, 2)),
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

	m := send(t, newModel(s), tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, s
}

func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "f10":
		return tea.KeyMsg{Type: tea.KeyF10}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(col, row int) tea.MouseMsg {
	return tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestWindowSizeSetsHost(t *testing.T) {
	m, _ := newTestModel(t)
	want := desktop.Rect{Width: 800, Height: 39 * 16}
	if m.frame.Host != want {
		t.Fatalf("expected host %+v, got %+v", want, m.frame.Host)
	}
}

func TestNewWindowKeyAndView(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyMsg("ctrl+n"))

	if len(m.frame.Windows) != 1 || m.frame.Windows[0].Title != "Window 1" {
		t.Fatalf("expected Window 1, got %+v", m.frame.Windows)
	}
	if m.frame.Active != "Window 1" {
		t.Fatalf("expected Window 1 active, got %q", m.frame.Active)
	}

	plain := strings.Join(m.render().plain(), "\n")
	if !strings.Contains(plain, "Window 1") {
		t.Fatalf("expected rendered title, got:\n%s", plain)
	}
	if !strings.Contains(plain, "600×400 at 50,50") {
		t.Fatalf("expected geometry line, got:\n%s", plain)
	}
}

func TestMouseDragTitleBar(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyMsg("ctrl+n"))

	// Window 1 sits at (50,50): title row 4, columns 6..81.
	m = send(t, m, press(10, 4))
	if m.frame.Gesture.String() != "dragging" {
		t.Fatalf("expected dragging, got %s", m.frame.Gesture)
	}
	m = send(t, m, tea.MouseMsg{X: 20, Y: 6, Action: tea.MouseActionMotion})
	m = send(t, m, tea.MouseMsg{X: 20, Y: 6, Action: tea.MouseActionRelease})

	got := m.frame.Windows[0].Geometry
	if got.Left != 130 || got.Top != 82 {
		t.Fatalf("expected window at 130,82, got %+v", got)
	}
	if m.frame.Gesture.String() != "idle" {
		t.Fatalf("expected idle after release, got %s", m.frame.Gesture)
	}
}

func TestTitleButtons(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyMsg("ctrl+n"))

	m = send(t, m, press(77, 4))
	if got := m.frame.Windows[0].StateName; got != "maximized" {
		t.Fatalf("expected maximized, got %s", got)
	}
	m = send(t, m, press(0, 0))
	if m.mode != modeMenu {
		t.Fatalf("expected menu mode after clicking the menu button")
	}
	m = send(t, m, keyMsg("esc"))

	// Maximized frame fills the width, so its buttons move.
	x1, y1, x2, _ := m.grid.cells(m.frame.Windows[0].Geometry)
	if x1 != 0 {
		t.Fatalf("expected maximized window at column 0, got %d", x1)
	}
	m = send(t, m, press(x2-6, y1))
	if len(m.frame.Dock) != 1 || m.frame.Dock[0].Title != "Window 1" {
		t.Fatalf("expected Window 1 docked, got %+v", m.frame.Dock)
	}

	// Dock slot 0 follows the create button.
	m = send(t, m, press(4, 39))
	if len(m.frame.Dock) != 0 {
		t.Fatalf("expected dock emptied by restore, got %+v", m.frame.Dock)
	}
	if m.frame.Active != "Window 1" {
		t.Fatalf("expected restored window active, got %q", m.frame.Active)
	}
}

func TestCloseButton(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyMsg("ctrl+n"))
	m = send(t, m, press(79, 4))

	if len(m.frame.Windows) != 0 {
		t.Fatalf("expected window closed, got %+v", m.frame.Windows)
	}
	if len(m.frame.Closing) != 1 {
		t.Fatalf("expected one closing ghost, got %d", len(m.frame.Closing))
	}
}

func TestLauncherTypingAndSelect(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyMsg("ctrl+o"))
	if !m.frame.Launcher.Visible || !m.query.Focused() {
		t.Fatalf("expected launcher visible with focused query")
	}

	m = send(t, m, keyMsg("note"))
	if m.frame.Launcher.Query != "note" {
		t.Fatalf("expected query note, got %q", m.frame.Launcher.Query)
	}
	if len(m.frame.Launcher.Entries) != 1 || m.frame.Launcher.Entries[0].Title != "Notes" {
		t.Fatalf("expected only Notes, got %+v", m.frame.Launcher.Entries)
	}

	m = send(t, m, keyMsg("enter"))
	if m.frame.Launcher.Visible || m.query.Focused() {
		t.Fatalf("expected launcher hidden after select")
	}
	if m.frame.Active != "Notes" {
		t.Fatalf("expected Notes active, got %q", m.frame.Active)
	}
}

func TestLauncherDismissAndOutsideClick(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyMsg("ctrl+o"))
	m = send(t, m, keyMsg("esc"))
	if m.frame.Launcher.Visible {
		t.Fatal("expected esc to hide the launcher")
	}

	m = send(t, m, keyMsg("ctrl+o"))
	m = send(t, m, press(0, 2))
	if m.frame.Launcher.Visible {
		t.Fatal("expected outside click to hide the launcher")
	}
	if len(m.frame.Windows) != 0 {
		t.Fatalf("expected no windows, got %+v", m.frame.Windows)
	}
}

func TestDockCreateOpensLauncher(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, press(1, 39))
	if !m.frame.Launcher.Visible {
		t.Fatal("expected create button to open the launcher")
	}
}

func TestKeyboardMoveAndRevert(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyMsg("ctrl+n"))

	m = send(t, m, keyMsg("ctrl+g"))
	if m.mode != modeMove {
		t.Fatalf("expected move mode")
	}
	m = send(t, m, keyMsg("right"))
	m = send(t, m, keyMsg("right"))
	m = send(t, m, keyMsg("down"))
	m = send(t, m, keyMsg("enter"))
	got := m.frame.Windows[0].Geometry
	if got.Left != 66 || got.Top != 66 {
		t.Fatalf("expected 66,66 after nudges, got %+v", got)
	}

	m = send(t, m, keyMsg("ctrl+g"))
	m = send(t, m, keyMsg("down"))
	m = send(t, m, keyMsg("esc"))
	got = m.frame.Windows[0].Geometry
	if got.Left != 66 || got.Top != 66 {
		t.Fatalf("expected revert to 66,66, got %+v", got)
	}
	if m.mode != modeDesktop {
		t.Fatalf("expected desktop mode after revert")
	}
}

func TestMenuDispatch(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyMsg("f10"))
	m = send(t, m, keyMsg("enter"))
	if len(m.frame.Windows) != 1 {
		t.Fatalf("expected New from the menu, got %+v", m.frame.Windows)
	}

	m = send(t, m, keyMsg("f10"))
	for range 5 {
		m = send(t, m, keyMsg("down"))
	}
	m = send(t, m, keyMsg("enter"))
	if len(m.frame.Windows) != 0 {
		t.Fatalf("expected Close all from the menu, got %+v", m.frame.Windows)
	}
}

func TestBlurAbortsGesture(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyMsg("ctrl+n"))
	m = send(t, m, press(10, 4))
	m = send(t, m, tea.BlurMsg{})
	if m.frame.Gesture.String() != "idle" {
		t.Fatalf("expected blur to abort the drag, got %s", m.frame.Gesture)
	}
}

func TestBlurHidesLauncher(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, keyMsg("ctrl+o"))
	m = send(t, m, keyMsg("n"))
	if !m.frame.Launcher.Visible || !m.query.Focused() {
		t.Fatal("expected launcher open with a focused query")
	}

	m = send(t, m, tea.BlurMsg{})
	if m.frame.Launcher.Visible {
		t.Fatal("expected focus loss to hide the launcher")
	}
	if m.query.Focused() || m.query.Value() != "" {
		t.Fatalf("expected query reset, got %q", m.query.Value())
	}

	m = send(t, m, tea.FocusMsg{})
	m = send(t, m, keyMsg("ctrl+o"))
	if !m.frame.Launcher.Visible || m.frame.Launcher.Query != "" {
		t.Fatalf("expected launcher to reopen with an empty query, got %+v", m.frame.Launcher)
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}
