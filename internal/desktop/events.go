package desktop

// EventKind identifies a lifecycle notification.
type EventKind int

const (
	// EventCreated fires after a window is registered, before it is focused.
	EventCreated EventKind = iota
	// EventSelectionChanged fires after every focus change. Title is empty
	// when no window is active.
	EventSelectionChanged
	// EventMinimized fires when a window enters the Minimized state.
	EventMinimized
	// EventRestored fires when a window leaves the Minimized state.
	EventRestored
	// EventMaximized fires when a window enters the Maximized state.
	EventMaximized
	// EventUnmaximized fires when a window returns from Maximized to Normal.
	EventUnmaximized
	// EventClosed fires after a window has been removed from the registry.
	EventClosed
)

// String returns a string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventSelectionChanged:
		return "selection-changed"
	case EventMinimized:
		return "minimized"
	case EventRestored:
		return "restored"
	case EventMaximized:
		return "maximized"
	case EventUnmaximized:
		return "unmaximized"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event is a lifecycle notification published by the Registry.
type Event struct {
	Kind  EventKind
	Title string
	Icon  string
}

// Listener receives registry events.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// HandleEvent implements Listener.
func (f ListenerFunc) HandleEvent(e Event) { f(e) }

// Bus delivers events synchronously to listeners in subscription order.
// A listener that triggers further events sees them delivered depth-first
// before the outer delivery continues.
type Bus struct {
	nextID    int
	listeners []subscription
}

type subscription struct {
	id int
	l  Listener
}

// Subscribe registers l and returns a function that removes it.
func (b *Bus) Subscribe(l Listener) (unsubscribe func()) {
	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, subscription{id: id, l: l})
	return func() {
		for i, s := range b.listeners {
			if s.id == id {
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e to the listeners registered at the time of the call.
func (b *Bus) Publish(e Event) {
	subs := append([]subscription(nil), b.listeners...)
	for _, s := range subs {
		s.l.HandleEvent(e)
	}
}
