package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/go-campaign-mirror/internal/events"
	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
)

// Ready is the payload of ready notifications.
type Ready = struct{}

// Readiness is anything whose readiness can be awaited.
type Readiness interface {
	// Wait blocks until the primitive is ready, its hydration failed, or ctx
	// is done.
	Wait(ctx context.Context) error
}

// common is the lifecycle shared by Collection and Var:
// Uninitialized -> Hydrating -> Ready, with a terminal hydration failure.
type common[T any] struct {
	ref     remote.Ref
	purpose string
	log     *logger.Logger

	ready   *events.Gated[Ready]
	added   *events.Registry[T]
	changed *events.Registry[T]
	removed *events.Registry[T]

	isReady atomic.Bool
	done    chan struct{}
	err     error

	ctx    context.Context
	cancel context.CancelFunc

	subMu  sync.Mutex
	unsubs []func()
	closed bool
}

func (c *common[T]) init(ctx context.Context, ref remote.Ref, opts Options) {
	c.ref = ref
	c.purpose = opts.Purpose
	c.log = &logger.Logger{Logger: opts.Logger.Component("mirror").With().
		Str("purpose", opts.Purpose).
		Str("path", ref.Path()).
		Logger()}

	c.ready = events.NewGated[Ready](opts.Purpose+" ready", c.log)
	c.added = events.NewRegistry[T](opts.Purpose+" added", c.log)
	c.changed = events.NewRegistry[T](opts.Purpose+" changed", c.log)
	c.removed = events.NewRegistry[T](opts.Purpose+" removed", c.log)

	c.done = make(chan struct{})
	c.ctx, c.cancel = context.WithCancel(ctx)
	context.AfterFunc(c.ctx, c.unsubscribeAll)
}

// start runs the one-shot read, the hydration hook, the readiness
// transition and attach, in that order, on a new goroutine.
func (c *common[T]) start(hydrate func(ctx context.Context, raw json.RawMessage) error, attach func()) {
	go func() {
		c.log.Debug().Msg("hydrating")

		raw, err := c.ref.Once(c.ctx)
		if err == nil {
			err = hydrate(c.ctx, raw)
		}
		if err == nil && c.ctx.Err() != nil {
			err = ErrClosed
		}
		if err != nil {
			c.err = fmt.Errorf("%w: %s: %w", ErrHydration, c.purpose, err)
			c.log.Err(err).Str("func", "mirror.start").Msg("hydration failed")
			close(c.done)
			return
		}

		c.isReady.Store(true)
		c.log.Info().Msg("ready")
		c.ready.Open(Ready{})

		attach()
		close(c.done)
		c.log.Debug().Msg("subscriptions attached")
	}()
}

// subscribe attaches fn to kind unless the primitive was closed.
func (c *common[T]) subscribe(kind remote.EventKind, fn func(remote.Event)) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	if c.closed {
		return
	}
	c.unsubs = append(c.unsubs, c.ref.Subscribe(kind, fn))
}

func (c *common[T]) unsubscribeAll() {
	c.subMu.Lock()
	unsubs := c.unsubs
	c.unsubs = nil
	c.closed = true
	c.subMu.Unlock()

	for _, u := range unsubs {
		u()
	}
}

// accepting reports whether incremental events may mutate state.
func (c *common[T]) accepting(ev remote.Event) bool {
	if !c.isReady.Load() {
		c.log.Debug().Str("kind", string(ev.Kind)).Str("key", ev.Key).Msg("event before ready, dropped")
		return false
	}
	if c.ctx.Err() != nil {
		return false
	}
	return true
}

// IsReady reports whether hydration completed.
func (c *common[T]) IsReady() bool {
	return c.isReady.Load()
}

// Ready returns the ready gate. Subscribers added after readiness are
// invoked immediately.
func (c *common[T]) Ready() *events.Gated[Ready] {
	return c.ready
}

// Done is closed once hydration failed, or once the primitive is ready and
// its incremental subscriptions are attached.
func (c *common[T]) Done() <-chan struct{} {
	return c.done
}

// Err returns the hydration error, nil while hydrating or once ready.
func (c *common[T]) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Wait blocks until the primitive is ready. It returns an error wrapping
// ErrHydration if hydration failed, or ctx.Err().
func (c *common[T]) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Added notifies about records that appeared after readiness.
func (c *common[T]) Added() *events.Registry[T] {
	return c.added
}

// Changed notifies about records whose content changed.
func (c *common[T]) Changed() *events.Registry[T] {
	return c.changed
}

// Removed notifies about records that disappeared; the payload is the
// detached object.
func (c *common[T]) Removed() *events.Registry[T] {
	return c.removed
}

// Ref returns the mirrored location.
func (c *common[T]) Ref() remote.Ref {
	return c.ref
}

// Purpose returns the diagnostic label.
func (c *common[T]) Purpose() string {
	return c.purpose
}

// Close detaches every subscription and cancels pending materialization.
// The local copy stays readable.
func (c *common[T]) Close() {
	c.cancel()
	c.unsubscribeAll()
}
