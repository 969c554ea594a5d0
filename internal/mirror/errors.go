package mirror

import "errors"

var (
	// ErrCreateTimeout is returned by Collection.Create when the created key
	// is not observed within the configured timeout.
	ErrCreateTimeout = errors.New("created record was not observed in time")
	// ErrClosed is returned by operations on a closed primitive.
	ErrClosed = errors.New("mirror closed")
	// ErrHydration wraps the failure of the initial read or hydration step.
	// It is terminal: the primitive never becomes ready.
	ErrHydration = errors.New("initial hydration failed")
	// ErrNotReady is returned by operations that require a ready primitive.
	ErrNotReady = errors.New("mirror is not ready")
)
