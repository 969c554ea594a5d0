package events

import (
	"sync"

	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
)

// Gated is a Registry with a one-shot latch. Before the gate is opened it
// behaves like a plain Registry. [Gated.Open] arms the latch and notifies the
// subscribers registered so far; any subscriber added afterwards is invoked
// immediately, in-line, with the value passed to Open, and is also kept for
// later calls to Fire.
type Gated[T any] struct {
	reg *Registry[T]

	mu    sync.Mutex
	armed bool
	value T
}

// NewGated creates a closed gate.
func NewGated[T any](purpose string, log *logger.Logger) *Gated[T] {
	return &Gated[T]{reg: NewRegistry[T](purpose, log)}
}

// Open arms the gate with v and fires every subscriber registered before the
// call. It returns false without firing when the gate was already open.
func (g *Gated[T]) Open(v T) bool {
	g.mu.Lock()
	if g.armed {
		g.mu.Unlock()
		return false
	}
	g.armed = true
	g.value = v
	pending := g.reg.snapshot()
	g.mu.Unlock()

	g.reg.log.Debug().Str("purpose", g.reg.purpose).Msg("gate opened")
	g.reg.fire(pending, v)
	return true
}

// IsOpen reports whether Open has been called.
func (g *Gated[T]) IsOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.armed
}

// On registers fn. If the gate is already open, fn is also invoked right away
// with the value the gate was opened with.
func (g *Gated[T]) On(fn func(T)) Handle {
	g.mu.Lock()
	h := g.reg.On(fn)
	armed, v := g.armed, g.value
	g.mu.Unlock()

	if armed {
		g.reg.log.Debug().Str("purpose", g.reg.purpose).Msg("already open, invoking late subscriber")
		g.reg.invoke(slot[T]{handle: h, fn: fn}, v)
	}
	return h
}

// Off removes the slot identified by h.
func (g *Gated[T]) Off(h Handle) {
	g.reg.Off(h)
}

// Fire invokes every registered subscriber with v regardless of the latch.
func (g *Gated[T]) Fire(v T) {
	g.reg.Fire(v)
}
