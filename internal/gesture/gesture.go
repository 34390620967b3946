// Package gesture tracks pointer and keyboard drag/resize sessions on the
// host surface.
//
// A Tracker is installed once per host surface and receives every move and
// release, whether or not the pointer is still over the window being dragged.
// At most one Session is live; it ends on release, on Abort, or when the
// window it targets is closed or minimized.
package gesture

import (
	"github.com/1broseidon/termdesk/internal/desktop"
)

// Phase represents the current phase of the tracker.
type Phase int

const (
	// PhaseIdle means no gesture is in progress.
	PhaseIdle Phase = iota
	// PhaseDragging means a window is following the pointer.
	PhaseDragging
	// PhaseResizing means a window edge or corner is following the pointer.
	PhaseResizing
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Session is one drag or resize gesture. Deltas are always applied to the
// geometry captured when the gesture began.
type Session struct {
	Phase     Phase
	Title     string
	Direction desktop.Direction
	Start     desktop.Rect
	OriginX   int
	OriginY   int

	window  *desktop.Window
	tracker *Tracker
	ended   bool
	lastX   int
	lastY   int
}

// Window returns the window being manipulated.
func (s *Session) Window() *desktop.Window { return s.window }

// Ended reports whether End has run.
func (s *Session) Ended() bool { return s.ended }

// apply moves the window to the position implied by pointer (x, y).
func (s *Session) apply(x, y int) {
	s.lastX, s.lastY = x, y
	dx, dy := x-s.OriginX, y-s.OriginY
	switch s.Phase {
	case PhaseDragging:
		s.window.DragFrom(s.Start, dx, dy)
	case PhaseResizing:
		s.window.ResizeFrom(s.Start, s.Direction, dx, dy)
	}
}

// Nudge moves the virtual pointer by (dx, dy). Keyboard move mode drives
// sessions this way.
func (s *Session) Nudge(dx, dy int) {
	if s == nil || s.ended {
		return
	}
	s.apply(s.lastX+dx, s.lastY+dy)
}

// End detaches the session from its tracker. It is safe to call more than
// once and from any exit path.
func (s *Session) End() {
	if s == nil || s.ended {
		return
	}
	s.ended = true
	if s.tracker != nil && s.tracker.current == s {
		s.tracker.current = nil
	}
}

// Revert puts the window back at its starting geometry and ends the session.
func (s *Session) Revert() {
	if s == nil || s.ended {
		return
	}
	s.window.ResizeFrom(s.Start, desktop.SouthEast, 0, 0)
	s.End()
}

// Tracker owns the host-level move and release handling for one registry.
type Tracker struct {
	registry    *desktop.Registry
	current     *Session
	unsubscribe func()
}

// NewTracker creates a tracker bound to registry. Close releases its
// registry subscription.
func NewTracker(registry *desktop.Registry) *Tracker {
	t := &Tracker{registry: registry}
	t.unsubscribe = registry.Subscribe(desktop.ListenerFunc(t.handleEvent))
	return t
}

// Close aborts any live session and stops listening to the registry.
func (t *Tracker) Close() {
	t.Abort()
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
}

// BeginDrag starts moving w from pointer position (x, y). The window is
// focused first. Minimized windows cannot be dragged.
func (t *Tracker) BeginDrag(w *desktop.Window, x, y int) *Session {
	return t.begin(w, PhaseDragging, desktop.SouthEast, x, y)
}

// BeginResize starts resizing w from the given handle.
func (t *Tracker) BeginResize(w *desktop.Window, dir desktop.Direction, x, y int) *Session {
	return t.begin(w, PhaseResizing, dir, x, y)
}

func (t *Tracker) begin(w *desktop.Window, phase Phase, dir desktop.Direction, x, y int) *Session {
	if w == nil || w.State() == desktop.StateMinimized {
		return nil
	}
	t.Abort()
	t.registry.Focus(w)
	s := &Session{
		Phase:     phase,
		Title:     w.Title(),
		Direction: dir,
		Start:     w.Geometry(),
		OriginX:   x,
		OriginY:   y,
		window:    w,
		tracker:   t,
		lastX:     x,
		lastY:     y,
	}
	t.current = s
	return s
}

// Move feeds a pointer position into the live session. It reports whether a
// session consumed it.
func (t *Tracker) Move(x, y int) bool {
	if t.current == nil {
		return false
	}
	t.current.apply(x, y)
	return true
}

// Release applies the final position and ends the session. A release with
// no live session is ignored.
func (t *Tracker) Release(x, y int) bool {
	s := t.current
	if s == nil {
		return false
	}
	defer s.End()
	s.apply(x, y)
	return true
}

// Abort ends the live session where it is.
func (t *Tracker) Abort() {
	if t.current != nil {
		t.current.End()
	}
}

// Current returns the live session.
func (t *Tracker) Current() (*Session, bool) {
	return t.current, t.current != nil
}

// Phase returns the phase of the live session, or PhaseIdle.
func (t *Tracker) Phase() Phase {
	if t.current == nil {
		return PhaseIdle
	}
	return t.current.Phase
}

func (t *Tracker) handleEvent(e desktop.Event) {
	if t.current == nil || e.Title != t.current.Title {
		return
	}
	switch e.Kind {
	case desktop.EventClosed, desktop.EventMinimized:
		t.current.End()
	}
}
