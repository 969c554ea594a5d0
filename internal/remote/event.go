package remote

import "encoding/json"

// EventKind names a subscription channel.
type EventKind string

const (
	ChildAdded   EventKind = "child_added"
	ChildChanged EventKind = "child_changed"
	ChildRemoved EventKind = "child_removed"
	Value        EventKind = "value"
)

// Valid reports whether k is one of the known kinds.
func (k EventKind) Valid() bool {
	switch k {
	case ChildAdded, ChildChanged, ChildRemoved, Value:
		return true
	}
	return false
}

// Event is one notification delivered to a subscriber.
// For child events Key is the child key and Value its new content (the last
// content for ChildRemoved). For Value events Key is the last path segment of
// the ref and Value its whole subtree, "null" when absent.
type Event struct {
	Kind  EventKind
	Key   string
	Value json.RawMessage
}
