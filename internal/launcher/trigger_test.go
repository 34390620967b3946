package launcher

import (
	"reflect"
	"testing"
	"time"

	"github.com/1broseidon/termdesk/internal/animation"
)

type triggerHarness struct {
	trigger *Trigger
	sched   *animation.ManualScheduler
	opened  int
	visible bool
}

func newHarness(t *testing.T) *triggerHarness {
	t.Helper()
	h := &triggerHarness{sched: animation.NewManualScheduler()}
	h.trigger = NewTrigger(TriggerOptions{
		Modifier:  "super",
		Dwell:     200 * time.Millisecond,
		Scheduler: h.sched,
		Visible:   func() bool { return h.visible },
		Open:      func() { h.opened++ },
		GOOS:      "linux",
	})
	return h
}

func TestTriggerFiresAfterDwell(t *testing.T) {
	h := newHarness(t)

	h.trigger.KeyDown("Super_L")
	if h.trigger.State() != TriggerPending {
		t.Fatalf("expected pending, got %v", h.trigger.State())
	}
	h.sched.Advance(199 * time.Millisecond)
	if h.opened != 0 {
		t.Fatal("opened before the dwell elapsed")
	}
	h.sched.Advance(time.Millisecond)
	if h.opened != 1 || h.trigger.State() != TriggerFired {
		t.Fatalf("expected one open and fired state, got %d %v", h.opened, h.trigger.State())
	}

	h.trigger.KeyUp("Super_L")
	if h.trigger.State() != TriggerIdle {
		t.Fatalf("expected idle after release, got %v", h.trigger.State())
	}
}

func TestTriggerCancelledByOtherKey(t *testing.T) {
	h := newHarness(t)

	h.trigger.KeyDown("super_l")
	h.sched.Advance(100 * time.Millisecond)
	h.trigger.KeyDown("e")
	if h.trigger.State() != TriggerCancelled {
		t.Fatalf("expected cancelled, got %v", h.trigger.State())
	}
	if h.sched.Pending() != 0 {
		t.Fatal("expected the dwell timer to be stopped immediately")
	}
	h.sched.Advance(time.Second)
	if h.opened != 0 {
		t.Fatal("cancelled dwell still opened the launcher")
	}

	// Holding on after the interruption must not re-arm.
	h.trigger.KeyDown("super_l")
	h.sched.Advance(time.Second)
	if h.opened != 0 {
		t.Fatal("auto-repeat re-armed the dwell")
	}

	h.trigger.KeyUp("super_l")
	if h.trigger.State() != TriggerIdle {
		t.Fatalf("expected idle, got %v", h.trigger.State())
	}
}

func TestTriggerCancelledByRelease(t *testing.T) {
	h := newHarness(t)

	h.trigger.KeyDown("super_r")
	h.sched.Advance(150 * time.Millisecond)
	h.trigger.KeyUp("super_r")
	h.sched.Advance(time.Second)
	if h.opened != 0 || h.trigger.State() != TriggerIdle {
		t.Fatalf("expected no open and idle, got %d %v", h.opened, h.trigger.State())
	}
}

func TestTriggerSkipsWhenVisible(t *testing.T) {
	h := newHarness(t)
	h.visible = true

	h.trigger.KeyDown("super")
	h.sched.Advance(time.Second)
	if h.opened != 0 {
		t.Fatal("expected no open while the launcher is visible")
	}
	if h.trigger.State() != TriggerFired {
		t.Fatalf("expected fired, got %v", h.trigger.State())
	}
}

func TestTriggerReset(t *testing.T) {
	h := newHarness(t)
	h.trigger.KeyDown("super")
	h.trigger.Reset()
	h.sched.Advance(time.Second)
	if h.opened != 0 || h.trigger.State() != TriggerIdle {
		t.Fatalf("expected reset to drop the dwell, got %d %v", h.opened, h.trigger.State())
	}
}

func TestTriggerRepeatsAcrossPresses(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 3; i++ {
		h.trigger.KeyDown("super")
		h.sched.Advance(250 * time.Millisecond)
		h.trigger.KeyUp("super")
	}
	if h.opened != 3 {
		t.Fatalf("expected 3 opens, got %d", h.opened)
	}
}

func TestTriggerPostRoutesExpiry(t *testing.T) {
	sched := animation.NewManualScheduler()
	var queued []func()
	opened := 0
	tr := NewTrigger(TriggerOptions{
		Modifier:  "alt",
		Scheduler: sched,
		Post:      func(f func()) { queued = append(queued, f) },
		Open:      func() { opened++ },
	})

	tr.KeyDown("Alt_L")
	sched.Advance(DefaultDwell)
	if opened != 0 || len(queued) != 1 {
		t.Fatalf("expected expiry to be queued, got opened=%d queued=%d", opened, len(queued))
	}
	// A release that lands before the queued expiry runs wins.
	tr.KeyUp("alt_l")
	queued[0]()
	if opened != 0 {
		t.Fatal("stale expiry opened the launcher")
	}
}

func TestModifierAliases(t *testing.T) {
	tests := []struct {
		name string
		goos string
		want []string
	}{
		{"Super", "linux", []string{"super", "super_l", "super_r", "mod4"}},
		{"super_l", "linux", []string{"super", "super_l", "super_r", "mod4"}},
		{"alt", "linux", []string{"alt", "alt_l", "alt_r", "mod1"}},
		{"cmd", "darwin", []string{"cmd", "command", "meta", "meta_l", "meta_r", "super", "super_l", "super_r"}},
		{"super", "darwin", []string{"cmd", "command", "meta", "meta_l", "meta_r", "super", "super_l", "super_r"}},
		{"F13", "linux", []string{"f13"}},
		{"", "linux", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.goos, func(t *testing.T) {
			got := ModifierAliases(tt.name, tt.goos)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ModifierAliases(%q, %q) = %v, want %v", tt.name, tt.goos, got, tt.want)
			}
		})
	}
}
