package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// Tree values are the decoded JSON of a subtree: map[string]any for objects,
// json.Number, string and bool for leaves, nil for absent. Arrays are stored
// as objects keyed by index and empty objects are pruned to nil, the way the
// realtime store keeps them. Trees are persistent: SetAt copies the maps on
// the written path and never mutates its input.

var null = json.RawMessage("null")

// Null returns the encoding of an absent value.
func Null() json.RawMessage {
	return append(json.RawMessage(nil), null...)
}

// IsNull reports whether raw encodes an absent value.
func IsNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), null)
}

// Decode parses raw into a normalised tree.
func Decode(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return Normalize(v), nil
}

// ToTree converts an arbitrary Go value into a normalised tree through its
// JSON encoding. json.RawMessage and []byte are decoded directly.
func ToTree(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return Decode(v)
	case []byte:
		return Decode(v)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return Decode(raw)
}

// Encode returns the JSON encoding of a tree, "null" for nil.
func Encode(v any) json.RawMessage {
	if v == nil {
		return Null()
	}
	raw, err := json.Marshal(v)
	if err != nil {
		// Trees only hold JSON-decoded values.
		return Null()
	}
	return raw
}

// Normalize converts arrays to index-keyed objects and prunes nil children
// and empty objects.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, c := range t {
			if n := Normalize(c); n != nil {
				out[k] = n
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []any:
		out := make(map[string]any, len(t))
		for i, c := range t {
			if n := Normalize(c); n != nil {
				out[strconv.Itoa(i)] = n
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case float64:
		return json.Number(strconv.FormatFloat(t, 'f', -1, 64))
	}
	return v
}

// GetAt returns the subtree at segs, nil when absent.
func GetAt(root any, segs []string) any {
	cur := root
	for _, s := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[s]
	}
	return cur
}

// SetAt returns a new root with the subtree at segs replaced by v. Ancestors
// that end up empty are pruned; a scalar ancestor is replaced by an object.
func SetAt(root any, segs []string, v any) any {
	if len(segs) == 0 {
		return v
	}

	m, _ := root.(map[string]any)
	out := make(map[string]any, len(m)+1)
	for k, c := range m {
		out[k] = c
	}

	child := SetAt(m[segs[0]], segs[1:], v)
	if child == nil {
		delete(out, segs[0])
	} else {
		out[segs[0]] = child
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// Keys returns the sorted child keys of v; leaves have none.
func Keys(v any) []string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether two trees hold the same content.
func Equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// DiffChildren compares the children of two snapshots of the same location
// and returns the child events that turn before into after, in key order.
func DiffChildren(before, after any) []Event {
	bm, _ := before.(map[string]any)
	am, _ := after.(map[string]any)

	union := make(map[string]struct{}, len(bm)+len(am))
	for k := range bm {
		union[k] = struct{}{}
	}
	for k := range am {
		union[k] = struct{}{}
	}
	keys := make([]string, 0, len(union))
	for k := range union {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var events []Event
	for _, k := range keys {
		b, inBefore := bm[k]
		a, inAfter := am[k]
		switch {
		case inBefore && !inAfter:
			events = append(events, Event{Kind: ChildRemoved, Key: k, Value: Encode(b)})
		case !inBefore && inAfter:
			events = append(events, Event{Kind: ChildAdded, Key: k, Value: Encode(a)})
		case !Equal(a, b):
			events = append(events, Event{Kind: ChildChanged, Key: k, Value: Encode(a)})
		}
	}
	return events
}

// ChildEvents returns one ChildAdded event per existing child of v, in key
// order. It is the replay a new ChildAdded subscriber receives.
func ChildEvents(v any) []Event {
	keys := Keys(v)
	events := make([]Event, 0, len(keys))
	m, _ := v.(map[string]any)
	for _, k := range keys {
		events = append(events, Event{Kind: ChildAdded, Key: k, Value: Encode(m[k])})
	}
	return events
}
