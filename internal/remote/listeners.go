package remote

import (
	"sync"
	"sync/atomic"
)

// Listener is one registered subscriber callback.
type Listener struct {
	Kind   EventKind
	fn     func(Event)
	active atomic.Bool
}

// Deliver calls the callback unless the listener was cancelled.
func (l *Listener) Deliver(ev Event) {
	if l.active.Load() {
		l.fn(ev)
	}
}

// Listeners is the set of subscribers attached to one path, in registration
// order. It is not tied to a dispatcher: backends decide where Deliver runs.
type Listeners struct {
	mu   sync.Mutex
	list []*Listener
}

// Add registers fn for kind and returns the listener.
func (s *Listeners) Add(kind EventKind, fn func(Event)) *Listener {
	l := &Listener{Kind: kind, fn: fn}
	l.active.Store(true)

	s.mu.Lock()
	s.list = append(s.list, l)
	s.mu.Unlock()
	return l
}

// Remove cancels l. Deliveries already queued for l are skipped.
// It reports whether the set is now empty.
func (s *Listeners) Remove(l *Listener) bool {
	l.active.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.list {
		if c == l {
			s.list = append(s.list[:i:i], s.list[i+1:]...)
			break
		}
	}
	return len(s.list) == 0
}

// Len returns the number of active listeners.
func (s *Listeners) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list)
}

// Snapshot returns the active listeners in registration order.
func (s *Listeners) Snapshot() []*Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Listener(nil), s.list...)
}

// Route pairs every event with the listeners subscribed to its kind, in
// event order and then registration order.
func (s *Listeners) Route(events []Event) []Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Delivery
	for _, ev := range events {
		for _, l := range s.list {
			if l.Kind == ev.Kind {
				out = append(out, Delivery{Listener: l, Event: ev})
			}
		}
	}
	return out
}

// Delivery is a routed event waiting to be handed to its listener.
type Delivery struct {
	Listener *Listener
	Event    Event
}

// Changes computes the events a location emits when its subtree goes from
// before to after: the child events plus a Value event when anything changed.
// key is the location's last path segment.
func Changes(before, after any, key string) []Event {
	if Equal(before, after) {
		return nil
	}
	events := DiffChildren(before, after)
	return append(events, Event{Kind: Value, Key: key, Value: Encode(after)})
}

// Replay returns the events a fresh listener of kind receives for the
// current subtree v.
func Replay(kind EventKind, v any, key string) []Event {
	switch kind {
	case ChildAdded:
		return ChildEvents(v)
	case Value:
		return []Event{{Kind: Value, Key: key, Value: Encode(v)}}
	}
	return nil
}
