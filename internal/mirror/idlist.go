package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
)

// FieldStore is the owner of the field an IDList is encoded in.
// *Record satisfies it.
type FieldStore interface {
	Field(name string) (json.RawMessage, bool)
	SetField(ctx context.Context, name string, value any) error
}

// Codec converts between a field's raw value and its ordered ids.
type Codec interface {
	Decode(raw json.RawMessage) ([]string, error)
	Encode(ids []string) (any, error)
}

// CommaCodec stores ids as a comma separated string. Empty tokens are
// skipped when decoding.
type CommaCodec struct{}

func (CommaCodec) Decode(raw json.RawMessage) ([]string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("comma list: %w", err)
	}

	var ids []string
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			ids = append(ids, tok)
		}
	}
	return ids, nil
}

func (CommaCodec) Encode(ids []string) (any, error) {
	return strings.Join(ids, ","), nil
}

// JSONCodec stores ids as a JSON array encoded into a string field. A field
// holding a bare array is read as well.
type JSONCodec struct{}

func (JSONCodec) Decode(raw json.RawMessage) ([]string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		raw = json.RawMessage(s)
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("json list: %w", err)
	}
	return ids, nil
}

func (JSONCodec) Encode(ids []string) (any, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// IDList is a locally cached view of an ordered id list stored in one field
// of its owner. Ids that do not resolve stay in the stored list but are left
// out of Values.
type IDList[T any] struct {
	field   string
	owner   FieldStore
	codec   Codec
	resolve func(id string) (T, bool)
	idOf    func(T) string
	log     *logger.Logger

	mu     sync.Mutex
	valid  bool
	ids    []string
	values []T
}

// NewIDList binds a list to field of owner.
func NewIDList[T any](field string, owner FieldStore, codec Codec, resolve func(string) (T, bool), idOf func(T) string, log *logger.Logger) *IDList[T] {
	return &IDList[T]{
		field:   field,
		owner:   owner,
		codec:   codec,
		resolve: resolve,
		idOf:    idOf,
		log:     logger.OrNop(log),
	}
}

// StringIDs returns the resolver and selector for a list of plain strings.
func StringIDs() (func(string) (string, bool), func(string) string) {
	return func(id string) (string, bool) { return id, true },
		func(s string) string { return s }
}

// TryRepopulate reparses the field unless it is absent or the cached view
// is still valid.
func (l *IDList[T]) TryRepopulate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.repopulateLocked()
}

func (l *IDList[T]) repopulateLocked() {
	raw, ok := l.owner.Field(l.field)
	if !ok || isEmptyField(raw) {
		return
	}
	if l.valid {
		return
	}
	l.valid = true

	ids, err := l.codec.Decode(raw)
	if err != nil {
		l.log.Warn().Err(err).Str("field", l.field).Msg("unparsable id list, using an empty one")
		l.ids, l.values = nil, nil
		return
	}

	l.ids = ids
	l.values = make([]T, 0, len(ids))
	for _, id := range ids {
		v, ok := l.resolve(id)
		if !ok {
			l.log.Warn().Str("field", l.field).Str("id", id).Msg("id did not resolve")
			continue
		}
		l.values = append(l.values, v)
	}
}

func isEmptyField(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == `""`
}

// Invalidate marks the cached view stale. Owners call it whenever their
// record is replaced.
func (l *IDList[T]) Invalidate() {
	l.mu.Lock()
	l.valid = false
	l.mu.Unlock()
}

// Values returns the resolved objects in list order.
func (l *IDList[T]) Values() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.repopulateLocked()
	return append([]T(nil), l.values...)
}

// IDs returns the stored ids in list order, resolved or not.
func (l *IDList[T]) IDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.repopulateLocked()
	return append([]string(nil), l.ids...)
}

// Contains reports whether id is in the stored list.
func (l *IDList[T]) Contains(id string) bool {
	for _, c := range l.IDs() {
		if c == id {
			return true
		}
	}
	return false
}

// Add appends obj and writes the list back.
func (l *IDList[T]) Add(ctx context.Context, obj T) error {
	l.mu.Lock()
	l.repopulateLocked()
	l.ids = append(l.ids, l.idOf(obj))
	l.values = append(l.values, obj)
	payload, err := l.codec.Encode(l.ids)
	l.mu.Unlock()

	return l.sync(ctx, payload, err)
}

// Remove deletes every occurrence of obj and writes the list back. It
// reports whether the stored list contained obj.
func (l *IDList[T]) Remove(ctx context.Context, obj T) (bool, error) {
	id := l.idOf(obj)

	l.mu.Lock()
	l.repopulateLocked()

	ids := l.ids[:0:0]
	for _, c := range l.ids {
		if c != id {
			ids = append(ids, c)
		}
	}
	removed := len(ids) != len(l.ids)
	l.ids = ids

	values := l.values[:0:0]
	for _, v := range l.values {
		if l.idOf(v) != id {
			values = append(values, v)
		}
	}
	l.values = values

	payload, err := l.codec.Encode(l.ids)
	l.mu.Unlock()

	return removed, l.sync(ctx, payload, err)
}

// Clear empties the list and writes it back.
func (l *IDList[T]) Clear(ctx context.Context) error {
	l.mu.Lock()
	l.ids, l.values = nil, nil
	l.valid = true
	payload, err := l.codec.Encode(nil)
	l.mu.Unlock()

	return l.sync(ctx, payload, err)
}

func (l *IDList[T]) sync(ctx context.Context, payload any, encodeErr error) error {
	if encodeErr != nil {
		return fmt.Errorf("encode %s: %w", l.field, encodeErr)
	}
	return l.owner.SetField(ctx, l.field, payload)
}
