package mirror

import (
	"context"
	"sync/atomic"

	"github.com/MKhiriev/go-campaign-mirror/internal/events"
	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"golang.org/x/sync/errgroup"
)

// WaitAll waits for every part concurrently. It returns the first failure
// and stops waiting for the rest once one fails.
func WaitAll(ctx context.Context, parts ...Readiness) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range parts {
		g.Go(func() error {
			return p.Wait(gctx)
		})
	}
	return g.Wait()
}

// Composite is ready once all of its parts are ready. It opens its gate
// exactly once, whatever order the parts finish in.
type Composite struct {
	purpose string
	log     *logger.Logger
	ready   *events.Gated[Ready]

	isReady atomic.Bool
	done    chan struct{}
	err     error
}

// NewComposite starts waiting for parts. Cancelling ctx abandons the wait
// and fails the composite with ctx's error.
func NewComposite(ctx context.Context, purpose string, log *logger.Logger, parts ...Readiness) *Composite {
	log = logger.OrNop(log).Component("mirror")

	c := &Composite{
		purpose: purpose,
		log:     log,
		ready:   events.NewGated[Ready](purpose+" ready", log),
		done:    make(chan struct{}),
	}

	go func() {
		if err := WaitAll(ctx, parts...); err != nil {
			c.err = err
			c.log.Err(err).Str("func", "mirror.NewComposite").Str("purpose", purpose).Msg("composite readiness failed")
			close(c.done)
			return
		}

		c.isReady.Store(true)
		close(c.done)
		c.log.Info().Str("purpose", purpose).Int("parts", len(parts)).Msg("all parts ready")
		c.ready.Open(Ready{})
	}()

	return c
}

// Ready returns the composite's gate.
func (c *Composite) Ready() *events.Gated[Ready] {
	return c.ready
}

// IsReady reports whether every part is ready.
func (c *Composite) IsReady() bool {
	return c.isReady.Load()
}

// Done is closed once the composite is ready or failed.
func (c *Composite) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until every part is ready, one failed, or ctx is done.
func (c *Composite) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
