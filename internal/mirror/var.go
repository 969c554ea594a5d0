package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
)

// Decoder turns the raw value of a Var into its materialized form.
type Decoder[T any] func(raw json.RawMessage) (T, error)

// JSONDecoder decodes the value with encoding/json.
func JSONDecoder[T any]() Decoder[T] {
	return func(raw json.RawMessage) (T, error) {
		var v T
		err := json.Unmarshal(raw, &v)
		return v, err
	}
}

// StringDecoder accepts a JSON string and renders any other scalar with its
// JSON text, so a blob written as a number still reads.
func StringDecoder(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	return string(bytes.TrimSpace(raw)), nil
}

// Var mirrors a single value.
//
// Added fires when the value appears, Changed when it is replaced with
// different content and Removed, with the last value, when it disappears.
type Var[T any] struct {
	common[T]

	decode Decoder[T]

	mu    sync.RWMutex
	raw   json.RawMessage
	value T
	has   bool
}

// NewVar starts mirroring ref. Cancelling ctx closes the Var.
func NewVar[T any](ctx context.Context, ref remote.Ref, decode Decoder[T], opts Options) *Var[T] {
	opts = opts.withDefaults()

	v := &Var[T]{decode: decode}
	v.init(ctx, ref, opts)
	v.start(v.hydrate, v.attach)
	return v
}

func (v *Var[T]) hydrate(_ context.Context, raw json.RawMessage) error {
	_, err := v.store(raw)
	return err
}

func (v *Var[T]) attach() {
	v.subscribe(remote.Value, v.onValue)
}

type varTransition int

const (
	varSame varTransition = iota
	varAdded
	varChanged
	varRemoved
)

// store records raw and reports how the value moved.
func (v *Var[T]) store(raw json.RawMessage) (varTransition, error) {
	tree, err := remote.Decode(raw)
	if err != nil {
		return varSame, err
	}
	canon := remote.Encode(tree)

	var value T
	if tree != nil {
		if value, err = v.decode(canon); err != nil {
			return varSame, fmt.Errorf("decode %s: %w", v.ref.Path(), err)
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.raw != nil && bytes.Equal(canon, v.raw) {
		return varSame, nil
	}

	had := v.has
	v.raw = canon
	v.has = tree != nil
	if v.has {
		v.value = value
	}

	switch {
	case had && !v.has:
		return varRemoved, nil
	case !had && v.has:
		return varAdded, nil
	case had && v.has:
		return varChanged, nil
	}
	return varSame, nil
}

func (v *Var[T]) onValue(ev remote.Event) {
	if !v.accepting(ev) {
		return
	}

	v.mu.RLock()
	last := v.value
	v.mu.RUnlock()

	move, err := v.store(ev.Value)
	if err != nil {
		v.log.Err(err).Str("func", "Var.onValue").Msg("malformed value")
		return
	}

	switch move {
	case varAdded:
		v.added.Fire(v.mustGet())
	case varChanged:
		v.changed.Fire(v.mustGet())
	case varRemoved:
		v.removed.Fire(last)
	}
}

func (v *Var[T]) mustGet() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Get returns the last materialized value. ok is false before readiness and
// while the remote value is absent.
func (v *Var[T]) Get() (T, bool) {
	var zero T
	if !v.IsReady() {
		return zero, false
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.has {
		return zero, false
	}
	return v.value, true
}

// Set overwrites the remote value; nil deletes it. The local value only
// follows once the store reports the change.
func (v *Var[T]) Set(ctx context.Context, value any) error {
	if err := v.ref.Set(ctx, value); err != nil {
		return fmt.Errorf("set %s: %w", v.ref.Path(), err)
	}
	return nil
}
