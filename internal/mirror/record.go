package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
)

// Record is the low-level state of a materialized object: the current and
// previous decoded record plus the handle it was read from. Domain objects
// embed a *Record and add typed accessors.
type Record[D any] struct {
	ref remote.Ref

	mu      sync.RWMutex
	raw     json.RawMessage
	fields  map[string]json.RawMessage
	data    D
	prev    D
	hasPrev bool
}

// NewRecord decodes raw into a new record. The initial data is not a
// previous value: Previous reports false until the first real update.
func NewRecord[D any](ref remote.Ref, raw json.RawMessage) (*Record[D], error) {
	r := &Record[D]{ref: ref}

	canon, fields, data, err := decodeRecord[D](raw)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", ref.Path(), err)
	}
	r.raw, r.fields, r.data = canon, fields, data
	return r, nil
}

func decodeRecord[D any](raw json.RawMessage) (json.RawMessage, map[string]json.RawMessage, D, error) {
	var data D

	tree, err := remote.Decode(raw)
	if err != nil {
		return nil, nil, data, err
	}
	canon := remote.Encode(tree)

	if err := json.Unmarshal(canon, &data); err != nil {
		return nil, nil, data, fmt.Errorf("decode record: %w", err)
	}

	fields := map[string]json.RawMessage{}
	if m, ok := tree.(map[string]any); ok {
		for k, v := range m {
			fields[k] = remote.Encode(v)
		}
	}
	return canon, fields, data, nil
}

// Apply replaces the record with raw. Re-applying content identical to the
// current record is a no-op that reports false; otherwise the current data
// becomes the previous one and Apply reports true.
func (r *Record[D]) Apply(raw json.RawMessage) (bool, error) {
	canon, fields, data, err := decodeRecord[D](raw)
	if err != nil {
		return false, fmt.Errorf("record %s: %w", r.ref.Path(), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if bytes.Equal(canon, r.raw) {
		return false, nil
	}
	r.prev, r.hasPrev = r.data, true
	r.raw, r.fields, r.data = canon, fields, data
	return true, nil
}

// Data returns the current decoded record.
func (r *Record[D]) Data() D {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data
}

// Previous returns the record as it was before the last effective Apply.
func (r *Record[D]) Previous() (D, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.prev, r.hasPrev
}

// Raw returns the canonical encoding of the current record.
func (r *Record[D]) Raw() json.RawMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(json.RawMessage(nil), r.raw...)
}

// Field returns the raw value of a top-level field, false when absent.
func (r *Record[D]) Field(name string) (json.RawMessage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.fields[name]
	return v, ok
}

// SetField writes one top-level field. The local record changes only when
// the store echoes the write back.
func (r *Record[D]) SetField(ctx context.Context, name string, value any) error {
	if err := r.ref.Child(name).Set(ctx, value); err != nil {
		return fmt.Errorf("set %s on %s: %w", name, r.ref.Path(), err)
	}
	return nil
}

// Destroy removes the record from the store.
func (r *Record[D]) Destroy(ctx context.Context) error {
	if err := r.ref.Remove(ctx); err != nil {
		return fmt.Errorf("remove %s: %w", r.ref.Path(), err)
	}
	return nil
}

// Ref returns the record's location.
func (r *Record[D]) Ref() remote.Ref {
	return r.ref
}

// ID returns the record's key.
func (r *Record[D]) ID() string {
	return remote.LastSegment(r.ref.Path())
}

// UpdateLowLevel implements Object for types that need no extra work on
// update.
func (r *Record[D]) UpdateLowLevel(raw json.RawMessage) (bool, error) {
	return r.Apply(raw)
}
