package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
)

// Object is a materialized record held by a Collection.
type Object interface {
	// UpdateLowLevel replaces the object's backing record in place and
	// reports whether its content changed. It must be idempotent for
	// identical input.
	UpdateLowLevel(raw json.RawMessage) (bool, error)
}

// Factory materializes the record at key. raw always carries an "id" field
// equal to key. The factory may block, for instance until nested primitives
// are ready; ctx is cancelled when the collection closes.
type Factory[T Object] func(ctx context.Context, key string, raw json.RawMessage, ref remote.Ref) (T, error)

// Collection mirrors the children of one path into materialized objects.
//
// The index and the insertion-order view always hold the same keys. A key is
// materialized at most once while present: a repeated added event for a
// known key is handled as a change of the existing object. Removed objects
// that have a Close method are closed once the removed subscribers return.
type Collection[T Object] struct {
	common[T]

	factory       Factory[T]
	createTimeout time.Duration

	mu      sync.RWMutex
	index   map[string]T
	order   []string
	pending map[string]chan T

	// keys seen in events while attach reconciles, nil otherwise
	touched map[string]struct{}
}

// NewCollection starts mirroring ref. The returned collection hydrates in
// the background; use Wait or Ready to learn when it is usable. Cancelling
// ctx closes the collection.
func NewCollection[T Object](ctx context.Context, ref remote.Ref, factory Factory[T], opts Options) *Collection[T] {
	opts = opts.withDefaults()

	c := &Collection[T]{
		factory:       factory,
		createTimeout: opts.CreateTimeout,
		index:         make(map[string]T),
		pending:       make(map[string]chan T),
	}
	c.init(ctx, ref, opts)
	c.start(c.hydrate, c.attach)
	return c
}

func (c *Collection[T]) hydrate(ctx context.Context, raw json.RawMessage) error {
	tree, err := remote.Decode(raw)
	if err != nil {
		return err
	}
	if tree != nil {
		if _, ok := tree.(map[string]any); !ok {
			c.log.Warn().Msg("collection path holds a scalar, hydrating empty")
			return nil
		}
	}

	m, _ := tree.(map[string]any)
	for _, key := range remote.Keys(tree) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := c.Get(key); ok {
			continue
		}

		obj, err := c.materialize(ctx, key, remote.Encode(m[key]))
		if err != nil {
			c.log.Err(err).Str("func", "Collection.hydrate").Str("key", key).Msg("skipping record")
			continue
		}
		ch, inserted := c.insert(key, obj)
		if !inserted {
			closeObject(obj)
			continue
		}
		resolve(ch, obj)
	}

	c.log.Info().Int("records", c.Len()).Msg("hydrated")
	return nil
}

func (c *Collection[T]) attach() {
	c.mu.Lock()
	c.touched = make(map[string]struct{})
	c.mu.Unlock()

	c.subscribe(remote.ChildRemoved, c.onRemoved)
	c.subscribe(remote.ChildChanged, c.onChanged)
	c.subscribe(remote.ChildAdded, c.onAdded)
	c.reconcile()
}

// reconcile drops records deleted after the hydration read but before the
// removal subscription existed. Keys mentioned by an event since attach
// started are left to that event.
func (c *Collection[T]) reconcile() {
	before := c.Keys()
	if len(before) == 0 {
		c.stopTracking()
		return
	}

	raw, err := c.ref.Once(c.ctx)
	if err != nil {
		c.stopTracking()
		if c.ctx.Err() == nil {
			c.log.Warn().Err(err).Str("func", "Collection.reconcile").Msg("reconcile read failed")
		}
		return
	}
	tree, err := remote.Decode(raw)
	if err != nil {
		c.stopTracking()
		c.log.Warn().Err(err).Str("func", "Collection.reconcile").Msg("malformed reconcile snapshot")
		return
	}
	current, _ := tree.(map[string]any)

	var gone []T
	c.mu.Lock()
	for _, key := range before {
		if _, ok := current[key]; ok {
			continue
		}
		if _, ok := c.touched[key]; ok {
			continue
		}
		if obj, ok := c.detachLocked(key); ok {
			gone = append(gone, obj)
		}
	}
	c.touched = nil
	c.mu.Unlock()

	for _, obj := range gone {
		c.log.Debug().Msg("record removed during hydration dropped")
		c.removed.Fire(obj)
		closeObject(obj)
	}
}

func (c *Collection[T]) stopTracking() {
	c.mu.Lock()
	c.touched = nil
	c.mu.Unlock()
}

func (c *Collection[T]) touch(key string) {
	c.mu.Lock()
	if c.touched != nil {
		c.touched[key] = struct{}{}
	}
	c.mu.Unlock()
}

func (c *Collection[T]) materialize(ctx context.Context, key string, raw json.RawMessage) (T, error) {
	raw, err := withID(raw, key)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.factory(ctx, key, raw, c.ref.Child(key))
}

// insert adds obj under key unless the key is already present. It returns
// the pending creation waiting for the key, if any.
func (c *Collection[T]) insert(key string, obj T) (chan T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.index[key]; exists {
		return nil, false
	}
	c.index[key] = obj
	c.order = append(c.order, key)

	ch := c.pending[key]
	delete(c.pending, key)
	return ch, true
}

func resolve[T any](ch chan T, obj T) {
	if ch == nil {
		return
	}
	select {
	case ch <- obj:
	default:
	}
}

func (c *Collection[T]) onAdded(ev remote.Event) {
	if !c.accepting(ev) {
		return
	}
	c.touch(ev.Key)
	if _, exists := c.Get(ev.Key); exists {
		c.change(ev)
		return
	}

	obj, err := c.materialize(c.ctx, ev.Key, ev.Value)
	if err != nil {
		c.log.Err(err).Str("func", "Collection.onAdded").Str("key", ev.Key).Msg("materialization failed")
		return
	}

	ch, inserted := c.insert(ev.Key, obj)
	if !inserted {
		closeObject(obj)
		c.change(ev)
		return
	}
	c.added.Fire(obj)
	resolve(ch, obj)
}

func (c *Collection[T]) onChanged(ev remote.Event) {
	if !c.accepting(ev) {
		return
	}
	c.touch(ev.Key)
	c.change(ev)
}

func (c *Collection[T]) change(ev remote.Event) {
	obj, ok := c.Get(ev.Key)
	if !ok {
		c.log.Debug().Str("key", ev.Key).Msg("change for unknown key ignored")
		return
	}

	raw, err := withID(ev.Value, ev.Key)
	if err != nil {
		c.log.Err(err).Str("func", "Collection.change").Str("key", ev.Key).Msg("malformed record")
		return
	}
	changed, err := obj.UpdateLowLevel(raw)
	if err != nil {
		c.log.Err(err).Str("func", "Collection.change").Str("key", ev.Key).Msg("update failed")
		return
	}
	if changed {
		c.changed.Fire(obj)
	}
}

func (c *Collection[T]) onRemoved(ev remote.Event) {
	if !c.accepting(ev) {
		return
	}

	c.mu.Lock()
	if c.touched != nil {
		c.touched[ev.Key] = struct{}{}
	}
	obj, ok := c.detachLocked(ev.Key)
	c.mu.Unlock()

	if !ok {
		c.log.Debug().Str("key", ev.Key).Msg("remove for unknown key ignored")
		return
	}
	c.removed.Fire(obj)
	closeObject(obj)
}

// detachLocked removes key from the index and the order. c.mu must be held.
func (c *Collection[T]) detachLocked(key string) (T, bool) {
	obj, ok := c.index[key]
	if !ok {
		return obj, false
	}
	delete(c.index, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return obj, true
}

// Create writes a new record under a freshly minted key and returns the
// object once the store echoes that key back through hydration or an added
// event. A write failure, ctx, the create timeout and Close all reject the
// creation; the pending entry is always released.
func (c *Collection[T]) Create(ctx context.Context, initial any) (T, error) {
	var zero T

	if c.ctx.Err() != nil {
		return zero, ErrClosed
	}

	key := c.ref.PushKey()
	record, err := remote.ToTree(initial)
	if err != nil {
		return zero, fmt.Errorf("create in %s: %w", c.purpose, err)
	}
	fields, ok := record.(map[string]any)
	if !ok {
		if record != nil {
			return zero, fmt.Errorf("create in %s: %w", c.purpose, remote.ErrNotObject)
		}
		fields = map[string]any{}
	}
	fields["id"] = key

	ch := make(chan T, 1)
	c.mu.Lock()
	c.pending[key] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.pending[key] == ch {
			delete(c.pending, key)
		}
		c.mu.Unlock()
	}()

	c.log.Debug().Str("key", key).Msg("creating record")
	if err := c.ref.Child(key).Set(ctx, fields); err != nil {
		return zero, fmt.Errorf("create %s in %s: %w", key, c.purpose, err)
	}

	timer := time.NewTimer(c.createTimeout)
	defer timer.Stop()

	select {
	case obj := <-ch:
		return obj, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-c.ctx.Done():
		return zero, ErrClosed
	case <-timer.C:
		c.log.Warn().Str("key", key).Dur("timeout", c.createTimeout).Msg("created record never observed")
		return zero, fmt.Errorf("create %s in %s: %w", key, c.purpose, ErrCreateTimeout)
	}
}

// Get returns the object stored under key.
func (c *Collection[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	obj, ok := c.index[key]
	return obj, ok
}

// All returns the objects in first-observed order. The slice is a copy.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.index[k])
	}
	return out
}

// Keys returns the keys in first-observed order.
func (c *Collection[T]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Table returns a copy of the key to object index.
func (c *Collection[T]) Table() map[string]T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]T, len(c.index))
	for k, v := range c.index {
		out[k] = v
	}
	return out
}

// Len returns the number of mirrored records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.index)
}

// Close stops mirroring and closes every object that has a Close method.
func (c *Collection[T]) Close() {
	c.common.Close()

	for _, obj := range c.All() {
		closeObject(obj)
	}
}

func closeObject[T any](obj T) {
	if cl, ok := any(obj).(interface{ Close() }); ok {
		cl.Close()
	}
}

// withID returns raw with an "id" field set to key when raw is an object
// lacking one.
func withID(raw json.RawMessage, key string) (json.RawMessage, error) {
	tree, err := remote.Decode(raw)
	if err != nil {
		return nil, err
	}
	m, ok := tree.(map[string]any)
	if !ok {
		return raw, nil
	}
	if id, _ := m["id"].(string); id != "" {
		return raw, nil
	}
	m["id"] = key
	return remote.Encode(m), nil
}
