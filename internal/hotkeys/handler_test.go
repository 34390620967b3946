package hotkeys

import (
	"errors"
	"slices"
	"testing"

	"github.com/1broseidon/termdesk/internal/ipc"
)

type fakeSender struct {
	keys    []ipc.KeyPayload
	toggles int
	err     error
}

func (f *fakeSender) ToggleLauncher() (*ipc.LauncherData, error) {
	f.toggles++
	return &ipc.LauncherData{Visible: true}, f.err
}

func (f *fakeSender) Key(key string, down bool) error {
	f.keys = append(f.keys, ipc.KeyPayload{Key: key, Down: down})
	return f.err
}

func TestModifierKeysyms(t *testing.T) {
	tests := []struct {
		name string
		goos string
		want []string
	}{
		{"super", "linux", []string{"Super_L", "Super_R"}},
		{"Alt", "linux", []string{"Alt_L", "Alt_R"}},
		{"ctrl", "linux", []string{"Control_L", "Control_R"}},
		{"f13", "linux", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ModifierKeysyms(tt.name, tt.goos)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestForwardDropsNonModifierReleases(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(nil, sender, nil)
	h.modifiers["super_l"] = true

	h.forward("Super_L", true)
	h.forward("space", true)
	h.forward("space", false)
	h.forward("Super_L", false)
	h.forward("", true)

	want := []ipc.KeyPayload{
		{Key: "super_l", Down: true},
		{Key: "space", Down: true},
		{Key: "super_l", Down: false},
	}
	if !slices.Equal(sender.keys, want) {
		t.Fatalf("expected %+v, got %+v", want, sender.keys)
	}
}

func TestForwardSurvivesSendErrors(t *testing.T) {
	sender := &fakeSender{err: errors.New("failed to connect to desktop")}
	h := NewHandler(nil, sender, nil)
	h.forward("a", true)
	if len(sender.keys) != 1 {
		t.Fatalf("expected the attempt to be made, got %d", len(sender.keys))
	}
}
