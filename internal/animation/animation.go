// Package animation runs timed visual transitions with explicit completion
// and cancellation.
//
// A transition's state change is always applied by the caller before Start;
// the animator only decides when the settle callback runs. Starting a new
// transition under the same key cancels the previous one, so a re-trigger or
// a close during an in-flight animation has a defined outcome: the old handle
// reports context.Canceled and its settle callback never runs.
package animation

import (
	"context"
	"sync"
	"time"
)

// Kind names a transition.
type Kind string

const (
	KindMinimize     Kind = "minimize"
	KindRestore      Kind = "restore"
	KindMaximize     Kind = "maximize"
	KindUnmaximize   Kind = "unmaximize"
	KindClose        Kind = "close"
	KindLauncherShow Kind = "launcher-show"
	KindLauncherHide Kind = "launcher-hide"
)

// Timer is a stoppable pending callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. The real implementation wraps time.AfterFunc;
// tests substitute a manual clock.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, f func()) Timer

// AfterFunc implements Scheduler.
func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer { return fn(d, f) }

// RealScheduler schedules on the runtime timer heap.
var RealScheduler Scheduler = SchedulerFunc(func(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
})

// Handle tracks one in-flight transition.
type Handle struct {
	Key  string
	Kind Kind

	done  chan struct{}
	once  sync.Once
	err   error
	timer Timer
	owner *Animator
}

// Done is closed once the transition settles or is cancelled.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Err returns nil after a normal settle, context.Canceled after Cancel, or
// nil while still running.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Cancel stops the transition. The settle callback will not run.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	if h.owner != nil {
		h.owner.release(h)
	}
	if h.timer != nil {
		h.timer.Stop()
	}
	h.finish(context.Canceled)
}

func (h *Handle) finish(err error) {
	h.once.Do(func() {
		h.err = err
		close(h.done)
	})
}

// Animator owns in-flight transitions keyed by an arbitrary string (usually
// a window title).
type Animator struct {
	mu       sync.Mutex
	sched    Scheduler
	post     func(func())
	inflight map[string]*Handle
}

// New creates an animator. post re-enters the owning event loop when a timer
// fires; nil runs the callback on the timer goroutine.
func New(sched Scheduler, post func(func())) *Animator {
	if sched == nil {
		sched = RealScheduler
	}
	if post == nil {
		post = func(f func()) { f() }
	}
	return &Animator{
		sched:    sched,
		post:     post,
		inflight: make(map[string]*Handle),
	}
}

// Start begins a transition of duration d. settle runs on the owning loop
// when the transition completes. A zero or negative duration settles before
// Start returns.
func (a *Animator) Start(key string, kind Kind, d time.Duration, settle func()) *Handle {
	h := &Handle{Key: key, Kind: kind, done: make(chan struct{}), owner: a}

	a.mu.Lock()
	prev := a.inflight[key]
	if d > 0 {
		a.inflight[key] = h
	} else {
		delete(a.inflight, key)
	}
	a.mu.Unlock()

	if prev != nil {
		prev.owner = nil
		prev.Cancel()
	}

	if d <= 0 {
		if settle != nil {
			settle()
		}
		h.finish(nil)
		return h
	}

	h.timer = a.sched.AfterFunc(d, func() {
		a.post(func() {
			if !a.release(h) {
				return
			}
			if settle != nil {
				settle()
			}
			h.finish(nil)
		})
	})
	return h
}

// Cancel cancels the in-flight transition for key, if any.
func (a *Animator) Cancel(key string) {
	a.mu.Lock()
	h := a.inflight[key]
	a.mu.Unlock()
	if h != nil {
		h.Cancel()
	}
}

// Active reports whether key has an in-flight transition.
func (a *Animator) Active(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.inflight[key]
	return ok
}

// Busy reports whether any transition is in flight.
func (a *Animator) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.inflight) > 0
}

// release removes h if it is still the current handle for its key.
func (a *Animator) release(h *Handle) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inflight[h.Key] != h {
		return false
	}
	delete(a.inflight, h.Key)
	return true
}
