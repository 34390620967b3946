package desktop

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"cogentcore.org/core/base/ordmap"

	"github.com/1broseidon/termdesk/internal/animation"
)

// Z-order bases.
const (
	zBase      = 100
	zResetBase = 1000
)

// Default frame for windows created by the generic "new window" command.
const (
	DefaultWindowWidth  = 600
	DefaultWindowHeight = 400
)

// DuplicatePolicy decides what CreateWindow does with a title that is
// already registered.
type DuplicatePolicy string

const (
	// DuplicateReject fails with ErrDuplicateTitle.
	DuplicateReject DuplicatePolicy = "reject"
	// DuplicateSuffix registers the window as "Title (2)", "Title (3)", ...
	DuplicateSuffix DuplicatePolicy = "suffix"
)

// Durations are the transition lengths the registry asks the animator for.
type Durations struct {
	Minimize time.Duration
	Restore  time.Duration
	Maximize time.Duration
	Close    time.Duration
}

// Options configures a Registry.
type Options struct {
	// Host is the full host surface.
	Host Rect
	// MaximizeInset is subtracted from Host to form the maximized frame.
	MaximizeInset Insets
	Duplicates    DuplicatePolicy
	Animator      *animation.Animator
	Durations     Durations
	Logger        *slog.Logger
}

// Registry owns the live windows of one host surface.
type Registry struct {
	windows     *ordmap.Map[string, *Window]
	activeTitle string
	zCounter    int
	newSeq      int

	host       Rect
	inset      Insets
	duplicates DuplicatePolicy
	durations  Durations
	animator   *animation.Animator
	logger     *slog.Logger
	bus        Bus

	// closing holds windows already removed whose exit transition is still
	// on screen.
	closing *ordmap.Map[string, WindowInfo]
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.Duplicates == "" {
		opts.Duplicates = DuplicateSuffix
	}
	if opts.Animator == nil {
		opts.Animator = animation.New(nil, nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		windows:    ordmap.New[string, *Window](),
		closing:    ordmap.New[string, WindowInfo](),
		zCounter:   zBase,
		host:       opts.Host,
		inset:      opts.MaximizeInset,
		duplicates: opts.Duplicates,
		durations:  opts.Durations,
		animator:   opts.Animator,
		logger:     opts.Logger,
	}
}

// Subscribe registers a listener for lifecycle events.
func (r *Registry) Subscribe(l Listener) (unsubscribe func()) {
	return r.bus.Subscribe(l)
}

// SetHost updates the host surface. Maximized windows are re-fitted.
func (r *Registry) SetHost(host Rect) {
	r.host = host
	for _, w := range r.windows.Values() {
		if w.state == StateMaximized {
			w.geometry = r.maximizeArea()
		}
	}
}

// Host returns the host surface.
func (r *Registry) Host() Rect { return r.host }

func (r *Registry) maximizeArea() Rect {
	return r.host.Inset(r.inset)
}

// CreateOption adjusts a window before it is registered and announced.
type CreateOption func(*Window)

// WithIcon sets the window's icon glyph.
func WithIcon(icon string) CreateOption {
	return func(w *Window) { w.icon = icon }
}

// CreateWindow registers a new window and focuses it. The returned window's
// title may differ from the requested one under DuplicateSuffix.
func (r *Registry) CreateWindow(title string, width, height, left, top int, color string, opts ...CreateOption) (*Window, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("window title is required")
	}
	if _, exists := r.windows.ValueByKeyTry(title); exists {
		if r.duplicates == DuplicateReject {
			r.logger.Warn("rejected duplicate window", "title", title)
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTitle, title)
		}
		title = r.uniqueTitle(title)
	}

	w := NewWindow(title, max(width, MinWidth), max(height, MinHeight), left, top, color)
	for _, opt := range opts {
		opt(w)
	}
	w.maximizeArea = r.maximizeArea
	w.notify = r.handleWindowEvent
	w.closeRequest = r.Close
	r.animator.Cancel(closeKey(title))
	r.closing.DeleteKey(title)
	r.windows.Add(title, w)

	r.logger.Info("window created", "title", title, "geometry", w.geometry)
	r.bus.Publish(Event{Kind: EventCreated, Title: title})
	r.Focus(w)
	return w, nil
}

func (r *Registry) uniqueTitle(base string) string {
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		if _, exists := r.windows.ValueByKeyTry(candidate); !exists {
			return candidate
		}
	}
}

// NewWindow creates a default-sized "Window N" at a cascaded position.
func (r *Registry) NewWindow() (*Window, error) {
	var title string
	for {
		r.newSeq++
		title = fmt.Sprintf("Window %d", r.newSeq)
		if _, exists := r.windows.ValueByKeyTry(title); !exists {
			break
		}
	}
	step := r.windows.Len() % 10
	offset := 50 + step*30
	return r.CreateWindow(title, DefaultWindowWidth, DefaultWindowHeight, r.host.Left+offset, r.host.Top+offset, "")
}

// Window returns the window registered under title.
func (r *Registry) Window(title string) (*Window, bool) {
	return r.windows.ValueByKeyTry(title)
}

// Windows returns the live windows in insertion order.
func (r *Registry) Windows() []*Window {
	return r.windows.Values()
}

// Len returns the number of live windows.
func (r *Registry) Len() int { return r.windows.Len() }

// Active returns the focused window, if any.
func (r *Registry) Active() (*Window, bool) {
	if r.activeTitle == "" {
		return nil, false
	}
	return r.windows.ValueByKeyTry(r.activeTitle)
}

// ActiveTitle returns the focused window's title or "".
func (r *Registry) ActiveTitle() string { return r.activeTitle }

func (r *Registry) owns(w *Window) bool {
	if w == nil {
		return false
	}
	got, ok := r.windows.ValueByKeyTry(w.title)
	return ok && got == w
}

// Focus raises w above every other window and makes it the only active one.
// This is the only path that changes z-order besides ResetZIndexes.
func (r *Registry) Focus(w *Window) {
	if !r.owns(w) {
		return
	}
	r.zCounter = max(r.zCounter+1, zBase)
	w.zIndex = r.zCounter
	w.Focus()
	for _, other := range r.windows.Values() {
		if other != w {
			other.blur()
		}
	}
	r.activeTitle = w.title
	r.logger.Debug("window focused", "title", w.title, "z", w.zIndex)
	r.bus.Publish(Event{Kind: EventSelectionChanged, Title: w.title})
}

// FocusTitle focuses the window with the given title. Unknown titles are
// ignored.
func (r *Registry) FocusTitle(title string) {
	if w, ok := r.windows.ValueByKeyTry(title); ok {
		r.Focus(w)
	}
}

// ClearActive deactivates every window without focusing another one.
func (r *Registry) ClearActive() {
	for _, w := range r.windows.Values() {
		w.blur()
	}
	r.activeTitle = ""
	r.bus.Publish(Event{Kind: EventSelectionChanged})
}

// Close removes w. When w was active, the most recently created remaining
// window is focused; this is insertion order, not focus history.
func (r *Registry) Close(w *Window) {
	if !r.owns(w) {
		return
	}
	title := w.title
	wasActive := r.activeTitle == title

	r.animator.Cancel(title)
	r.windows.DeleteKey(title)
	w.active = false
	w.notify = nil
	w.closeRequest = nil
	if wasActive {
		r.activeTitle = ""
	}

	ghost := w.Info()
	ghost.Transition = animation.KindClose
	r.closing.Add(title, ghost)
	r.animator.Start(closeKey(title), animation.KindClose, r.durations.Close, func() {
		r.closing.DeleteKey(title)
	})

	r.logger.Info("window closed", "title", title)
	r.bus.Publish(Event{Kind: EventClosed, Title: title, Icon: w.icon})

	if wasActive {
		if n := r.windows.Len(); n > 0 {
			r.Focus(r.windows.ValueByIndex(n - 1))
		} else {
			r.bus.Publish(Event{Kind: EventSelectionChanged})
		}
	}
}

// CloseTitle closes the window with the given title, if present.
func (r *Registry) CloseTitle(title string) {
	if w, ok := r.windows.ValueByKeyTry(title); ok {
		r.Close(w)
	}
}

// CloseActive closes the focused window, if any.
func (r *Registry) CloseActive() {
	if w, ok := r.Active(); ok {
		r.Close(w)
	}
}

// Minimize minimizes w.
func (r *Registry) Minimize(w *Window) {
	if r.owns(w) {
		w.Minimize()
	}
}

// Restore restores w from the dock without focusing it.
func (r *Registry) Restore(w *Window) {
	if r.owns(w) {
		w.Restore()
	}
}

// ToggleMaximize maximizes or un-maximizes w.
func (r *Registry) ToggleMaximize(w *Window) error {
	if !r.owns(w) {
		return nil
	}
	return w.ToggleMaximize()
}

// RestoreByTitle restores and focuses a minimized window. Unknown titles and
// windows that are not minimized are ignored.
func (r *Registry) RestoreByTitle(title string) {
	w, ok := r.windows.ValueByKeyTry(title)
	if !ok || w.state != StateMinimized {
		return
	}
	w.Restore()
	r.Focus(w)
}

// MinimizeAll minimizes every window.
func (r *Registry) MinimizeAll() {
	for _, w := range r.Windows() {
		r.Minimize(w)
	}
}

// RestoreAll restores every minimized window.
func (r *Registry) RestoreAll() {
	for _, w := range r.Windows() {
		r.Restore(w)
	}
}

// CloseAll closes every window.
func (r *Registry) CloseAll() {
	for _, w := range r.Windows() {
		r.Close(w)
	}
}

// BringToFront re-raises the active window, or the most recently created
// visible one when nothing is active.
func (r *Registry) BringToFront() {
	if w, ok := r.Active(); ok {
		r.Focus(w)
		return
	}
	windows := r.Windows()
	for i := len(windows) - 1; i >= 0; i-- {
		if windows[i].state != StateMinimized {
			r.Focus(windows[i])
			return
		}
	}
}

// ResetZIndexes renumbers windows from 1000 in insertion order and resumes
// the counter at the new maximum. Visual stacking is not preserved.
func (r *Registry) ResetZIndexes() {
	z := zResetBase
	for i, w := range r.Windows() {
		z = zResetBase + i
		w.zIndex = z
	}
	if r.windows.Len() > 0 {
		r.zCounter = z
	}
}

// WindowAt returns the topmost visible window containing the point.
func (r *Registry) WindowAt(x, y int) (*Window, bool) {
	var top *Window
	for _, w := range r.windows.Values() {
		if !w.visible || !w.geometry.Contains(x, y) {
			continue
		}
		if top == nil || w.zIndex > top.zIndex {
			top = w
		}
	}
	return top, top != nil
}

// Snapshot returns copies of every live window in insertion order.
func (r *Registry) Snapshot() []WindowInfo {
	out := make([]WindowInfo, 0, r.windows.Len())
	for _, w := range r.windows.Values() {
		out = append(out, w.Info())
	}
	return out
}

// Closing returns windows whose exit transition has not settled yet.
func (r *Registry) Closing() []WindowInfo {
	return r.closing.Values()
}

// handleWindowEvent is wired into every window this registry creates.
func (r *Registry) handleWindowEvent(w *Window, kind EventKind) {
	switch kind {
	case EventMinimized:
		r.transition(w, animation.KindMinimize, r.durations.Minimize)
		r.logger.Debug("window minimized", "title", w.title)
		r.bus.Publish(Event{Kind: EventMinimized, Title: w.title, Icon: w.icon})
		if r.activeTitle == w.title {
			w.blur()
			r.activeTitle = ""
			r.bus.Publish(Event{Kind: EventSelectionChanged})
		}
	case EventRestored:
		r.transition(w, animation.KindRestore, r.durations.Restore)
		r.bus.Publish(Event{Kind: EventRestored, Title: w.title, Icon: w.icon})
	case EventMaximized:
		r.transition(w, animation.KindMaximize, r.durations.Maximize)
		r.bus.Publish(Event{Kind: EventMaximized, Title: w.title})
	case EventUnmaximized:
		r.transition(w, animation.KindUnmaximize, r.durations.Maximize)
		r.bus.Publish(Event{Kind: EventUnmaximized, Title: w.title})
	}
}

func (r *Registry) transition(w *Window, kind animation.Kind, d time.Duration) {
	w.transition = kind
	r.animator.Start(w.title, kind, d, func() {
		w.transition = ""
	})
}

// Animating reports whether any transition is still settling.
func (r *Registry) Animating() bool {
	return r.animator.Busy()
}

func closeKey(title string) string { return "close:" + title }
