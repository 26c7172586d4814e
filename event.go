package vghistory

import "sync"

// EventType names an event stream.
type EventType string

// Reason is what caused a history transition.
type Reason = EventType

// Event types.  The first three are also the possible transition reasons.
const (
	EventPushState    EventType = "pushstate"
	EventReplaceState EventType = "replacestate"
	EventPopState     EventType = "popstate"
	EventChange       EventType = "change"
)

// Event describes one history transition.
type Event struct {
	Type          EventType
	Reason        Reason
	URI           string
	NavigationKey int64
	Native        interface{} // the browser's popstate event, nil for pushstate and replacestate
}

// Listener receives events.
type Listener func(ev Event)

// ListenerID identifies a registered Listener so it can be removed.
type ListenerID uint64

type busEntry struct {
	id  ListenerID
	typ EventType
	fn  Listener
}

// bus dispatches events to listeners by type.  There is no limit on listeners.
// A listener added or removed during dispatch does not change who receives the
// event being dispatched.
type bus struct {
	mu      sync.Mutex
	lastID  ListenerID
	entries []busEntry
}

func (b *bus) add(typ EventType, fn Listener) ListenerID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastID++
	b.entries = append(b.entries, busEntry{id: b.lastID, typ: typ, fn: fn})
	return b.lastID
}

func (b *bus) remove(id ListenerID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.entries {
		if b.entries[i].id == id {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (b *bus) count(typ EventType) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.entries {
		if e.typ == typ {
			n++
		}
	}
	return n
}

func (b *bus) emit(ev Event) {
	b.mu.Lock()
	fns := make([]Listener, 0, len(b.entries))
	for _, e := range b.entries {
		if e.typ == ev.Type {
			fns = append(fns, e.fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
