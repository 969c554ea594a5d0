package remote

import (
	"fmt"
	"sync"

	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
)

// Dispatcher runs queued deliveries one at a time, in enqueue order, on its
// own goroutine. The queue is unbounded so producers holding a store lock
// never block on a slow subscriber.
type Dispatcher struct {
	log *logger.Logger

	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
	done   chan struct{}
}

// NewDispatcher starts the delivery goroutine.
func NewDispatcher(log *logger.Logger) *Dispatcher {
	d := &Dispatcher{
		log:  logger.OrNop(log),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go d.run()
	return d
}

// Enqueue schedules fn. It returns false once the dispatcher is closed.
func (d *Dispatcher) Enqueue(fn func()) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	d.queue = append(d.queue, fn)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return true
}

// Close stops accepting work, drains what is queued and waits for the
// delivery goroutine to exit. It is safe to call more than once but not from
// inside a delivery.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		d.mu.Lock()
		batch := d.queue
		d.queue = nil
		closed := d.closed
		d.mu.Unlock()

		for _, fn := range batch {
			d.deliver(fn)
		}
		if closed && len(batch) == 0 {
			return
		}
		if len(batch) == 0 {
			<-d.wake
		}
	}
}

func (d *Dispatcher) deliver(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			d.log.Warn().Str("panic", fmt.Sprint(rec)).Msg("event delivery panicked")
		}
	}()
	fn()
}
