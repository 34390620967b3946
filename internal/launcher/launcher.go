// Package launcher implements the catalog overlay that creates new windows,
// and the modifier dwell trigger that can open it.
package launcher

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/1broseidon/termdesk/internal/animation"
	"github.com/1broseidon/termdesk/internal/desktop"
)

// ErrUnknownEntry is returned when a catalog title does not exist.
var ErrUnknownEntry = errors.New("unknown catalog entry")

// Placement margins. The bottom margin is larger to keep new windows clear
// of the dock.
const (
	MarginEdge   = 50
	MarginBottom = 100
)

const animationKey = "launcher"

// Definition is one catalog template.
type Definition struct {
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Color  string `json:"color,omitempty"`
	Icon   string `json:"icon,omitempty"`
}

// Desktop is the window-creation capability the launcher needs.
type Desktop interface {
	CreateWindow(title string, width, height, left, top int, color string, opts ...desktop.CreateOption) (*desktop.Window, error)
	Host() desktop.Rect
}

// Options configures a Launcher.
type Options struct {
	Catalog  []Definition
	Animator *animation.Animator
	// Duration of the show and hide transitions.
	Duration time.Duration
	// Rand picks window placements. Nil uses the global source.
	Rand   *rand.Rand
	Logger *slog.Logger
}

// Launcher is the full-surface overlay listing the catalog.
type Launcher struct {
	desk     Desktop
	catalog  []Definition
	visible  bool
	query    string
	filtered []Definition
	cursor   int

	animator   *animation.Animator
	duration   time.Duration
	transition animation.Kind
	rng        *rand.Rand
	logger     *slog.Logger
}

// New creates a hidden launcher over an immutable copy of the catalog.
func New(desk Desktop, opts Options) *Launcher {
	if opts.Animator == nil {
		opts.Animator = animation.New(nil, nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	catalog := slices.Clone(opts.Catalog)
	return &Launcher{
		desk:     desk,
		catalog:  catalog,
		filtered: catalog,
		animator: opts.Animator,
		duration: opts.Duration,
		rng:      opts.Rand,
		logger:   opts.Logger,
	}
}

// Visible reports whether the overlay is shown.
func (l *Launcher) Visible() bool { return l.visible }

// Query returns the current search text.
func (l *Launcher) Query() string { return l.query }

// Catalog returns the full catalog in order.
func (l *Launcher) Catalog() []Definition { return slices.Clone(l.catalog) }

// Filtered returns the entries matching the current query.
func (l *Launcher) Filtered() []Definition { return slices.Clone(l.filtered) }

// Cursor returns the highlighted index within Filtered, or -1 when nothing
// matches.
func (l *Launcher) Cursor() int {
	if len(l.filtered) == 0 {
		return -1
	}
	return l.cursor
}

// Transition returns the show/hide transition still settling, if any.
func (l *Launcher) Transition() animation.Kind { return l.transition }

// Show opens the overlay. The enter transition runs in the background.
func (l *Launcher) Show() {
	if l.visible {
		return
	}
	l.visible = true
	l.cursor = 0
	l.animate(animation.KindLauncherShow)
	l.logger.Debug("launcher shown")
}

// Hide closes the overlay and resets the query.
func (l *Launcher) Hide() {
	if !l.visible {
		return
	}
	l.visible = false
	l.query = ""
	l.filtered = l.catalog
	l.cursor = 0
	l.animate(animation.KindLauncherHide)
	l.logger.Debug("launcher hidden")
}

// Toggle shows a hidden launcher and hides a visible one.
func (l *Launcher) Toggle() {
	if l.visible {
		l.Hide()
	} else {
		l.Show()
	}
}

func (l *Launcher) animate(kind animation.Kind) {
	l.transition = kind
	l.animator.Start(animationKey, kind, l.duration, func() {
		l.transition = ""
	})
}

// SetQuery filters the catalog to titles containing text, ignoring case.
// Catalog order is preserved; empty text selects everything.
func (l *Launcher) SetQuery(text string) {
	l.query = text
	l.filtered = Filter(l.catalog, text)
	l.cursor = 0
}

// Filter returns the definitions whose title contains query, ignoring case.
func Filter(catalog []Definition, query string) []Definition {
	if query == "" {
		return catalog
	}
	needle := strings.ToLower(query)
	out := make([]Definition, 0, len(catalog))
	for _, def := range catalog {
		if strings.Contains(strings.ToLower(def.Title), needle) {
			out = append(out, def)
		}
	}
	return out
}

// MoveCursor shifts the highlight by delta, wrapping at both ends.
func (l *Launcher) MoveCursor(delta int) {
	n := len(l.filtered)
	if n == 0 {
		return
	}
	l.cursor = ((l.cursor+delta)%n + n) % n
}

// Lookup finds a catalog entry by exact title.
func (l *Launcher) Lookup(title string) (Definition, error) {
	for _, def := range l.catalog {
		if def.Title == title {
			return def, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %q", ErrUnknownEntry, title)
}

// Select creates a window from def at a random placement inside the host
// and hides the launcher. A failed creation leaves the launcher open.
func (l *Launcher) Select(def Definition) (*desktop.Window, error) {
	left, top := l.Placement(def)
	w, err := l.desk.CreateWindow(def.Title, def.Width, def.Height, left, top, def.Color, desktop.WithIcon(def.Icon))
	if err != nil {
		return nil, fmt.Errorf("launch %q: %w", def.Title, err)
	}
	l.logger.Info("launched window", "entry", def.Title, "title", w.Title(), "left", left, "top", top)
	l.Hide()
	return w, nil
}

// SelectIndex selects the i-th entry of the filtered view. Out-of-range
// indexes are ignored.
func (l *Launcher) SelectIndex(i int) (*desktop.Window, error) {
	if i < 0 || i >= len(l.filtered) {
		return nil, nil
	}
	return l.Select(l.filtered[i])
}

// SelectCursor selects the highlighted entry.
func (l *Launcher) SelectCursor() (*desktop.Window, error) {
	return l.SelectIndex(l.Cursor())
}

// Launch selects the catalog entry with the given title.
func (l *Launcher) Launch(title string) (*desktop.Window, error) {
	def, err := l.Lookup(title)
	if err != nil {
		return nil, err
	}
	return l.Select(def)
}

// Placement picks a position for def:
//
//	left in [50, max(50, hostWidth-width-50)]
//	top  in [50, max(50, hostHeight-height-100)]
//
// relative to the host origin.
func (l *Launcher) Placement(def Definition) (left, top int) {
	host := l.desk.Host()
	left = host.Left + l.between(MarginEdge, max(MarginEdge, host.Width-def.Width-MarginEdge))
	top = host.Top + l.between(MarginEdge, max(MarginEdge, host.Height-def.Height-MarginBottom))
	return left, top
}

// between returns a uniform integer in [lo, hi].
func (l *Launcher) between(lo, hi int) int {
	span := hi - lo + 1
	if l.rng != nil {
		return lo + l.rng.IntN(span)
	}
	return lo + rand.IntN(span)
}
