package mirror

import (
	"time"

	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
)

// DefaultCreateTimeout bounds how long Collection.Create waits for the store
// to echo a created record back.
const DefaultCreateTimeout = 30 * time.Second

// Options configures a primitive.
type Options struct {
	// Purpose labels the primitive in logs.
	Purpose string
	// Logger receives diagnostics. nil means silent.
	Logger *logger.Logger
	// CreateTimeout overrides DefaultCreateTimeout for collections.
	CreateTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.CreateTimeout <= 0 {
		o.CreateTimeout = DefaultCreateTimeout
	}
	o.Logger = logger.OrNop(o.Logger)
	return o
}

// Child derives options for a nested primitive, keeping the logger and
// timeouts.
func (o Options) Child(purpose string) Options {
	o.Purpose = purpose
	return o
}
