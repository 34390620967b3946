package launcher

import (
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/termdesk/internal/animation"
)

// DefaultDwell is how long the modifier must be held alone.
const DefaultDwell = 200 * time.Millisecond

// TriggerState is the phase of the modifier dwell detector.
type TriggerState int

const (
	// TriggerIdle waits for the modifier to go down.
	TriggerIdle TriggerState = iota
	// TriggerPending has a dwell timer armed.
	TriggerPending
	// TriggerFired means the dwell elapsed; waits for the modifier to go up.
	TriggerFired
	// TriggerCancelled means another key interrupted the dwell; waits for
	// the modifier to go up.
	TriggerCancelled
)

// String returns the string representation of the state.
func (s TriggerState) String() string {
	switch s {
	case TriggerIdle:
		return "idle"
	case TriggerPending:
		return "pending"
	case TriggerFired:
		return "fired"
	case TriggerCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// TriggerOptions configures a Trigger.
type TriggerOptions struct {
	// Modifier names the dwell key, e.g. "super". Platform aliases are added.
	Modifier  string
	Dwell     time.Duration
	Scheduler animation.Scheduler
	// Post re-enters the owning loop when the dwell timer fires. Nil runs
	// the callback on the timer goroutine.
	Post func(func())
	// Visible reports whether the launcher is already open.
	Visible func() bool
	// Open is called when the dwell completes and the launcher is hidden.
	Open func()
	// GOOS selects the alias table; empty uses runtime.GOOS.
	GOOS string
}

// Trigger opens the launcher when the modifier is held alone for the dwell
// interval. Any other key, or releasing the modifier, cancels the pending
// timer immediately.
type Trigger struct {
	mu        sync.Mutex
	state     TriggerState
	timer     animation.Timer
	gen       uint64
	modifiers map[string]bool

	dwell   time.Duration
	sched   animation.Scheduler
	post    func(func())
	visible func() bool
	open    func()
}

// NewTrigger creates an idle trigger.
func NewTrigger(opts TriggerOptions) *Trigger {
	if opts.Dwell <= 0 {
		opts.Dwell = DefaultDwell
	}
	if opts.Scheduler == nil {
		opts.Scheduler = animation.RealScheduler
	}
	if opts.Post == nil {
		opts.Post = func(f func()) { f() }
	}
	if opts.Visible == nil {
		opts.Visible = func() bool { return false }
	}
	if opts.Open == nil {
		opts.Open = func() {}
	}
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	mods := make(map[string]bool)
	for _, name := range ModifierAliases(opts.Modifier, goos) {
		mods[name] = true
	}
	return &Trigger{
		modifiers: mods,
		dwell:     opts.Dwell,
		sched:     opts.Scheduler,
		post:      opts.Post,
		visible:   opts.Visible,
		open:      opts.Open,
	}
}

// State returns the current phase.
func (t *Trigger) State() TriggerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// IsModifier reports whether key is one of the modifier's names.
func (t *Trigger) IsModifier(key string) bool {
	return t.modifiers[normalizeKey(key)]
}

// KeyDown feeds a key press.
func (t *Trigger) KeyDown(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.IsModifier(key) {
		// Auto-repeat while held does not restart the dwell.
		if t.state != TriggerIdle {
			return
		}
		t.state = TriggerPending
		t.gen++
		gen := t.gen
		t.timer = t.sched.AfterFunc(t.dwell, func() {
			t.post(func() { t.expire(gen) })
		})
		return
	}

	if t.state == TriggerPending {
		t.stopLocked()
		t.state = TriggerCancelled
	}
}

// KeyUp feeds a key release. Releasing the modifier always returns to idle.
func (t *Trigger) KeyUp(key string) {
	if !t.IsModifier(key) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.state = TriggerIdle
}

// Reset drops any pending dwell, e.g. when the host loses focus.
func (t *Trigger) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.state = TriggerIdle
}

func (t *Trigger) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}

func (t *Trigger) expire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.state != TriggerPending {
		t.mu.Unlock()
		return
	}
	t.state = TriggerFired
	t.timer = nil
	t.mu.Unlock()

	if !t.visible() {
		t.open()
	}
}

// ModifierAliases returns every key name that counts as the given modifier
// on goos, lower-cased.
func ModifierAliases(name, goos string) []string {
	name = normalizeKey(name)
	if name == "" {
		return nil
	}
	var out []string
	switch name {
	case "super", "super_l", "super_r", "mod4", "win", "windows":
		out = []string{"super", "super_l", "super_r", "mod4"}
	case "meta", "meta_l", "meta_r":
		out = []string{"meta", "meta_l", "meta_r"}
	case "alt", "alt_l", "alt_r", "mod1":
		out = []string{"alt", "alt_l", "alt_r", "mod1"}
	case "ctrl", "control", "control_l", "control_r":
		out = []string{"ctrl", "control", "control_l", "control_r"}
	case "cmd", "command":
		out = []string{"cmd", "command"}
	default:
		out = []string{name}
	}
	if goos == "darwin" {
		switch name {
		case "super", "super_l", "super_r", "meta", "meta_l", "meta_r", "cmd", "command", "mod4", "win", "windows":
			out = []string{"cmd", "command", "meta", "meta_l", "meta_r", "super", "super_l", "super_r"}
		}
	}
	return out
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
