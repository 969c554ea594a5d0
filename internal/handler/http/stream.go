package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
)

type streamPayload struct {
	Path string          `json:"path"`
	Data json.RawMessage `json:"data"`
}

// stream serves path as a server-sent event stream. Every change is sent as
// a "put" of the whole subtree at "/"; bursts collapse into the latest value.
// The stream ends with "auth_revoked" when the token expires.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request, path string) {
	log := logger.FromRequest(r)

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, r, ErrNoStreaming)
		return
	}

	// Value callbacks arrive on a single goroutine, so draining before the
	// send never blocks.
	latest := make(chan json.RawMessage, 1)
	unsubscribe := h.tree.Subscribe(path, remote.Value, func(ev remote.Event) {
		select {
		case <-latest:
		default:
		}
		latest <- ev.Value
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	var expired <-chan time.Time
	if exp, ok := tokenExpiry(r.Context()); ok {
		timer := time.NewTimer(time.Until(exp))
		defer timer.Stop()
		expired = timer.C
	}

	log.Debug().Str("path", path).Msg("stream opened")
	defer log.Debug().Str("path", path).Msg("stream closed")

	ctx := r.Context()
	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case v := <-latest:
			err = writeEvent(w, "put", streamPayload{Path: "/", Data: v})
		case <-keepAlive.C:
			err = writeEvent(w, "keep-alive", nil)
		case <-expired:
			_ = writeEvent(w, "auth_revoked", ErrTokenExpired.Error())
			flusher.Flush()
			return
		}
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("stream write failed")
			return
		}
		flusher.Flush()
	}
}

func writeEvent(w http.ResponseWriter, name string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", name, err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, raw)
	return err
}
