// Package dock keeps the strip of minimized windows in step with a
// desktop registry.
package dock

import (
	"log/slog"

	"cogentcore.org/core/base/ordmap"

	"github.com/1broseidon/termdesk/internal/desktop"
)

// Entry is one minimized window shown in the dock.
type Entry struct {
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`
}

// Restorer restores a minimized window by title.
type Restorer interface {
	RestoreByTitle(title string)
}

// Opener opens the window launcher.
type Opener interface {
	Show()
}

// Dock is an ordered set of entries plus a create action. It is always
// visible, even when empty.
type Dock struct {
	entries  *ordmap.Map[string, Entry]
	restorer Restorer
	opener   Opener
	logger   *slog.Logger
}

// New creates an empty dock. Either collaborator may be nil.
func New(restorer Restorer, opener Opener, logger *slog.Logger) *Dock {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dock{
		entries:  ordmap.New[string, Entry](),
		restorer: restorer,
		opener:   opener,
		logger:   logger,
	}
}

// Attach builds a dock that mirrors registry: minimizing a window adds its
// entry; restoring or closing it removes the entry.
func Attach(registry *desktop.Registry, opener Opener, logger *slog.Logger) (*Dock, func()) {
	d := New(registry, opener, logger)
	for _, w := range registry.Windows() {
		if w.State() == desktop.StateMinimized {
			d.AddEntry(w.Title(), w.Icon())
		}
	}
	return d, registry.Subscribe(d)
}

// HandleEvent implements desktop.Listener.
func (d *Dock) HandleEvent(e desktop.Event) {
	switch e.Kind {
	case desktop.EventMinimized:
		d.AddEntry(e.Title, e.Icon)
	case desktop.EventRestored, desktop.EventClosed:
		d.RemoveEntry(e.Title)
	}
}

// AddEntry adds title to the dock. Adding an existing title keeps its
// position and updates the icon.
func (d *Dock) AddEntry(title, icon string) {
	d.entries.Add(title, Entry{Title: title, Icon: icon})
}

// RemoveEntry removes title. Unknown titles are ignored.
func (d *Dock) RemoveEntry(title string) {
	d.entries.DeleteKey(title)
}

// Activate restores the window behind the entry. Unknown titles are ignored.
func (d *Dock) Activate(title string) {
	if _, ok := d.entries.ValueByKeyTry(title); !ok {
		return
	}
	d.logger.Debug("dock entry activated", "title", title)
	if d.restorer != nil {
		d.restorer.RestoreByTitle(title)
	}
}

// ActivateIndex activates the i-th entry. Out-of-range indexes are ignored.
func (d *Dock) ActivateIndex(i int) {
	if i < 0 || i >= d.entries.Len() {
		return
	}
	d.Activate(d.entries.KeyByIndex(i))
}

// Create runs the dock's create action, which opens the launcher rather
// than creating a window directly.
func (d *Dock) Create() {
	if d.opener != nil {
		d.opener.Show()
	}
}

// Entries returns the entries in the order they were added.
func (d *Dock) Entries() []Entry {
	return d.entries.Values()
}

// Has reports whether title is docked.
func (d *Dock) Has(title string) bool {
	_, ok := d.entries.ValueByKeyTry(title)
	return ok
}

// Len returns the number of entries.
func (d *Dock) Len() int { return d.entries.Len() }

// Visible reports whether the dock is shown. The create action keeps it on
// screen at all times.
func (d *Dock) Visible() bool { return true }
