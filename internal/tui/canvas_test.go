package tui

import (
	"strings"
	"testing"

	"github.com/1broseidon/termdesk/internal/config"
)

func TestCanvasBoxAndText(t *testing.T) {
	c := newCanvas(8, 4, paint{})
	c.box(0, 0, 7, 3, singleBox, paint{})
	c.text(2, 1, 6, "hello world", paint{})

	want := []string{
		"┌──────┐",
		"│ hell │",
		"│      │",
		"└──────┘",
	}
	got := c.plain()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestCanvasClipsOutOfBounds(t *testing.T) {
	c := newCanvas(4, 2, paint{})
	c.box(-2, -1, 2, 5, doubleBox, paint{})
	c.fill(-5, -5, 10, 10, '.', paint{})
	c.set(9, 9, 'x', paint{})

	for _, row := range c.plain() {
		if row != "...." {
			t.Fatalf("expected clipped fill, got %q", row)
		}
	}
}

func TestCanvasLinesKeepText(t *testing.T) {
	c := newCanvas(6, 1, desktopPaint)
	c.text(0, 0, 6, "ab", labelPaint)
	line := c.lines()[0]
	if !strings.Contains(line, "ab") {
		t.Fatalf("expected text in styled line, got %q", line)
	}
}

func TestWindowColor(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", colorAccent},
		{"green", "2"},
		{"  Blue ", "4"},
		{"#ff8800", "#ff8800"},
		{"208", "208"},
		{"chartreuse", colorAccent},
	}
	for _, tt := range tests {
		if got := windowColor(tt.in); got != tt.want {
			t.Fatalf("windowColor(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestNormalizeBinding(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Ctrl+O", "ctrl+o"},
		{"escape", "esc"},
		{"Return", "enter"},
		{"control+ space", "ctrl+space"},
	}
	for _, tt := range tests {
		if got := normalizeBinding(tt.in); got != tt.want {
			t.Fatalf("normalizeBinding(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestDockIndex(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"alt+1", 0},
		{"alt+9", 8},
		{"alt+0", -1},
		{"ctrl+1", -1},
		{"alt+10", -1},
	}
	for _, tt := range tests {
		if got := dockIndex(tt.in); got != tt.want {
			t.Fatalf("dockIndex(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestKeyMapUsesConfiguredLauncherKeys(t *testing.T) {
	cfg := config.DefaultConfig().Launcher
	cfg.ToggleKey = "Ctrl+Space"
	k := newKeyMap(cfg)
	if got := k.Launcher.Keys(); len(got) != 1 || got[0] != "ctrl+space" {
		t.Fatalf("expected ctrl+space, got %v", got)
	}
	if len(k.FullHelp()) == 0 || len(k.ShortHelp()) == 0 {
		t.Fatal("expected help bindings")
	}
}
