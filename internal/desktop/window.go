package desktop

import "github.com/1broseidon/termdesk/internal/animation"

// WindowState represents the current state of a window.
type WindowState int

const (
	// StateNormal is a visible, freely positioned window.
	StateNormal WindowState = iota
	// StateMinimized is hidden from the surface and shown in the dock.
	StateMinimized
	// StateMaximized fills the host surface minus the maximize inset.
	StateMaximized
)

// String returns a string representation of the window state.
func (s WindowState) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateMinimized:
		return "minimized"
	case StateMaximized:
		return "maximized"
	default:
		return "unknown"
	}
}

// Opacity markers applied by focus arbitration.
const (
	OpacityActive = 1.0
	OpacityDimmed = 0.85
)

// Window is a single floating panel.
//
// A Window never checks title uniqueness and never removes itself; both are
// the owning Registry's job.
type Window struct {
	title    string
	icon     string
	color    string
	geometry Rect
	saved    *Rect
	state    WindowState
	zIndex   int
	active   bool
	opacity  float64
	visible  bool

	// transition is the visual phase still settling on a timer; the state
	// change itself has already happened.
	transition animation.Kind

	maximizeArea func() Rect
	notify       func(*Window, EventKind)
	closeRequest func(*Window)
}

// NewWindow creates a detached window. Registries use CreateWindow instead.
func NewWindow(title string, width, height, left, top int, color string) *Window {
	return &Window{
		title:    title,
		color:    color,
		geometry: Rect{Left: left, Top: top, Width: width, Height: height},
		state:    StateNormal,
		opacity:  OpacityActive,
		visible:  true,
	}
}

func (w *Window) Title() string { return w.title }
func (w *Window) Icon() string { return w.icon }
func (w *Window) Color() string { return w.color }
func (w *Window) Geometry() Rect { return w.geometry }
func (w *Window) State() WindowState { return w.state }
func (w *Window) ZIndex() int { return w.zIndex }
func (w *Window) Active() bool { return w.active }
func (w *Window) Opacity() float64 { return w.opacity }
func (w *Window) Visible() bool { return w.visible }
func (w *Window) Transition() animation.Kind { return w.transition }

// SavedGeometry returns the pre-maximize frame. It is present iff the
// window is maximized.
func (w *Window) SavedGeometry() (Rect, bool) {
	if w.saved == nil {
		return Rect{}, false
	}
	return *w.saved, true
}

// SetIcon sets the dock icon reported with minimize notifications.
func (w *Window) SetIcon(icon string) { w.icon = icon }

// Focus marks the window active. Z-order is the registry's concern.
func (w *Window) Focus() {
	w.active = true
	w.opacity = OpacityActive
}

func (w *Window) blur() {
	w.active = false
	w.opacity = OpacityDimmed
}

// Minimize hides the window and reports it to the owner. A maximized window
// is returned to its saved frame first so the saved geometry never outlives
// the Maximized state.
func (w *Window) Minimize() {
	if w.state == StateMinimized {
		return
	}
	if w.state == StateMaximized {
		w.geometry = *w.saved
		w.saved = nil
	}
	w.state = StateMinimized
	w.visible = false
	w.emit(EventMinimized)
}

// Restore brings a minimized window back. It is a no-op in any other state.
func (w *Window) Restore() {
	if w.state != StateMinimized {
		return
	}
	w.state = StateNormal
	w.visible = true
	w.emit(EventRestored)
}

// ToggleMaximize switches between Normal and Maximized, restoring the saved
// frame exactly on the way back. Minimized windows are rejected.
func (w *Window) ToggleMaximize() error {
	switch w.state {
	case StateMinimized:
		return ErrMinimized
	case StateMaximized:
		w.geometry = *w.saved
		w.saved = nil
		w.state = StateNormal
		w.emit(EventUnmaximized)
	default:
		saved := w.geometry
		w.saved = &saved
		if w.maximizeArea != nil {
			w.geometry = w.maximizeArea()
		}
		w.state = StateMaximized
		w.emit(EventMaximized)
	}
	return nil
}

// Drag translates the window. Positions are not clamped to the host.
func (w *Window) Drag(dx, dy int) {
	w.DragFrom(w.geometry, dx, dy)
}

// DragFrom positions the window at start translated by the delta. Gesture
// sessions use it so accumulated deltas never drift.
func (w *Window) DragFrom(start Rect, dx, dy int) {
	if w.state == StateMinimized {
		return
	}
	w.geometry.Left = start.Left + dx
	w.geometry.Top = start.Top + dy
}

// Resize grows or shrinks the window from the given handle.
func (w *Window) Resize(dir Direction, dx, dy int) {
	w.ResizeFrom(w.geometry, dir, dx, dy)
}

// ResizeFrom applies a resize delta to start. North and west handles move
// the top/left edge while the opposite edge stays fixed; both dimensions are
// clamped to the minimum size and the edge shift is derived from the clamped
// size.
func (w *Window) ResizeFrom(start Rect, dir Direction, dx, dy int) {
	if w.state == StateMinimized {
		return
	}
	w.geometry = resizeRect(start, dir, dx, dy)
}

func resizeRect(start Rect, dir Direction, dx, dy int) Rect {
	out := start
	switch {
	case dir.east():
		out.Width = max(MinWidth, start.Width+dx)
	case dir.west():
		out.Width = max(MinWidth, start.Width-dx)
		out.Left = start.Left + (start.Width - out.Width)
	}
	switch {
	case dir.south():
		out.Height = max(MinHeight, start.Height+dy)
	case dir.north():
		out.Height = max(MinHeight, start.Height-dy)
		out.Top = start.Top + (start.Height - out.Height)
	}
	return out
}

// Close asks the owner to remove the window.
func (w *Window) Close() {
	if w.closeRequest != nil {
		w.closeRequest(w)
	}
}

func (w *Window) emit(kind EventKind) {
	if w.notify != nil {
		w.notify(w, kind)
	}
}

// WindowInfo is an immutable copy of a window's observable state.
type WindowInfo struct {
	Title      string         `json:"title"`
	Icon       string         `json:"icon,omitempty"`
	Color      string         `json:"color,omitempty"`
	Geometry   Rect           `json:"geometry"`
	Saved      *Rect          `json:"saved_geometry,omitempty"`
	State      WindowState    `json:"-"`
	StateName  string         `json:"state"`
	ZIndex     int            `json:"z_index"`
	Active     bool           `json:"active"`
	Opacity    float64        `json:"opacity"`
	Transition animation.Kind `json:"transition,omitempty"`
}

// Info returns a snapshot of the window.
func (w *Window) Info() WindowInfo {
	info := WindowInfo{
		Title:      w.title,
		Icon:       w.icon,
		Color:      w.color,
		Geometry:   w.geometry,
		State:      w.state,
		StateName:  w.state.String(),
		ZIndex:     w.zIndex,
		Active:     w.active,
		Opacity:    w.opacity,
		Transition: w.transition,
	}
	if w.saved != nil {
		saved := *w.saved
		info.Saved = &saved
	}
	return info
}
