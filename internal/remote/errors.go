package remote

import (
	"errors"
	"fmt"
)

var (
	ErrAuthUnsupported = errors.New("backend does not support authentication")
	ErrInvalidPath     = errors.New("invalid path")
	ErrInvalidKind     = errors.New("invalid event kind")
	ErrClosed          = errors.New("backend closed")
	ErrNotObject       = errors.New("value at path is not an object")
)

// HTTPError is returned by HTTP backends for a non-2xx response.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote responded with status %d: %s", e.StatusCode, e.Message)
}
