package events

import (
	"fmt"
	"sync"

	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
)

// Handle identifies one registration slot returned by [Registry.On].
// The zero Handle never identifies a live slot.
type Handle uint64

type slot[T any] struct {
	handle Handle
	fn     func(T)
}

// Registry delivers values to every registered function in registration order.
// Registering the same function twice occupies two slots and it is invoked
// twice per Fire.
type Registry[T any] struct {
	purpose string
	log     *logger.Logger

	mu    sync.RWMutex
	next  Handle
	slots []slot[T]
}

// NewRegistry creates an empty Registry. purpose is used only in diagnostics.
func NewRegistry[T any](purpose string, log *logger.Logger) *Registry[T] {
	return &Registry[T]{
		purpose: purpose,
		log:     logger.OrNop(log),
	}
}

// On appends fn and returns the handle of its slot.
func (r *Registry[T]) On(fn func(T)) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.slots = append(r.slots, slot[T]{handle: r.next, fn: fn})
	r.log.Debug().Str("purpose", r.purpose).Uint64("handle", uint64(r.next)).Msg("subscriber added")

	return r.next
}

// Off removes the slot identified by h. Unknown handles are ignored.
// It is safe to call Off from inside a subscriber during Fire: the running
// Fire works on a snapshot and is not affected.
func (r *Registry[T]) Off(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.slots) - 1; i >= 0; i-- {
		if r.slots[i].handle == h {
			r.slots = append(r.slots[:i:i], r.slots[i+1:]...)
		}
	}
	r.log.Debug().Str("purpose", r.purpose).Uint64("handle", uint64(h)).Msg("subscriber removed")
}

// Len reports the number of registered slots.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}

// Fire invokes every function registered at call time, in registration order,
// with v. A panicking subscriber is recovered and logged; the remaining
// subscribers still run.
func (r *Registry[T]) Fire(v T) {
	r.fire(r.snapshot(), v)
}

func (r *Registry[T]) snapshot() []slot[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]slot[T], len(r.slots))
	copy(out, r.slots)
	return out
}

func (r *Registry[T]) fire(slots []slot[T], v T) {
	r.log.Debug().Str("purpose", r.purpose).Int("subscribers", len(slots)).Msg("firing")
	for _, s := range slots {
		r.invoke(s, v)
	}
}

func (r *Registry[T]) invoke(s slot[T], v T) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn().
				Str("purpose", r.purpose).
				Uint64("handle", uint64(s.handle)).
				Str("panic", fmt.Sprint(rec)).
				Msg("subscriber panicked")
		}
	}()
	s.fn(v)
}
