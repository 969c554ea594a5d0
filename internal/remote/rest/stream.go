package rest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
)

// stream mirrors one path over a text/event-stream connection and fans its
// changes out to the path's listeners.
type stream struct {
	client *Client
	path   string
	log    *logger.Logger

	listeners remote.Listeners

	mu       sync.Mutex
	tree     any
	synced   bool
	dropConn context.CancelFunc

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// newStream returns an idle stream; start opens the connection.
func newStream(c *Client, path string) *stream {
	ctx, cancel := context.WithCancel(context.Background())
	s := &stream{
		client: c,
		path:   path,
		log:    &logger.Logger{Logger: c.log.With().Str("stream", path).Logger()},
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	return s
}

func (s *stream) start() {
	go s.run(s.ctx)
}

// add registers a listener and, once the stream holds a snapshot, queues
// that snapshot's replay for it.
func (s *stream) add(kind remote.EventKind, fn func(remote.Event)) *remote.Listener {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.listeners.Add(kind, fn)
	if s.synced {
		s.replay(l)
	}
	return l
}

func (s *stream) remove(l *remote.Listener) bool {
	return s.listeners.Remove(l)
}

// reconnect drops the current connection so the stream reopens with the
// client's current token.
func (s *stream) reconnect() {
	s.mu.Lock()
	if s.dropConn != nil {
		s.dropConn()
	}
	s.mu.Unlock()
}

func (s *stream) stop() {
	s.cancel()
	<-s.done
}

func (s *stream) run(ctx context.Context) {
	defer close(s.done)

	attempt := 0
	for {
		received, err := s.connect(ctx)
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, errStreamCancelled) {
			s.log.Warn().Msg("stream cancelled by server, giving up")
			return
		}
		if received {
			attempt = 0
		}
		attempt++

		delay := retryDelay(attempt, s.client.baseDelay, s.client.maxDelay)
		s.log.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("stream interrupted, reconnecting")
		if waitWithContext(ctx, delay) != nil {
			return
		}
	}
}

// connect holds one connection open until it fails or ends. It reports
// whether any event was received.
func (s *stream) connect(ctx context.Context) (bool, error) {
	connCtx, drop := context.WithCancel(ctx)
	defer drop()

	s.mu.Lock()
	s.dropConn = drop
	s.mu.Unlock()

	resp, err := s.client.request(connCtx, s.client.stream).
		SetHeader("Accept", "text/event-stream").
		SetDoNotParseResponse(true).
		Get(jsonURL(s.path))
	if err != nil {
		return false, fmt.Errorf("open stream: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(body, 4096))
		return false, fmt.Errorf("open stream: %w", httpError(resp.StatusCode(), msg))
	}

	s.log.Debug().Msg("stream connected")
	received := false
	err = readEvents(body, func(name string, data []byte) error {
		received = true
		return s.handle(name, data)
	})
	if connCtx.Err() != nil && ctx.Err() == nil {
		return received, errors.New("connection dropped for reauthentication")
	}
	return received, err
}

type streamPayload struct {
	Path string          `json:"path"`
	Data json.RawMessage `json:"data"`
}

func (s *stream) handle(name string, data []byte) error {
	switch name {
	case "put", "patch":
	case "keep-alive":
		return nil
	case "cancel":
		return errStreamCancelled
	case "auth_revoked":
		return errAuthRevoked
	default:
		s.log.Debug().Str("event", name).Msg("ignoring unknown stream event")
		return nil
	}

	var p streamPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode %s event: %w", name, err)
	}
	v, err := remote.Decode(p.Data)
	if err != nil {
		return fmt.Errorf("decode %s data: %w", name, err)
	}
	base := remote.SplitPath(p.Path)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.tree
	if name == "put" {
		next = remote.SetAt(next, base, v)
	} else {
		fields, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("patch event: %w", remote.ErrNotObject)
		}
		for _, k := range remote.Keys(fields) {
			next = remote.SetAt(next, append(append([]string(nil), base...), remote.SplitPath(k)...), fields[k])
		}
	}

	if !s.synced {
		s.tree, s.synced = next, true
		s.replayAll()
		return nil
	}

	prev := s.tree
	s.tree = next
	for _, dl := range s.listeners.Route(remote.Changes(prev, next, remote.LastSegment(s.path))) {
		dl := dl
		s.client.disp.Enqueue(func() { dl.Listener.Deliver(dl.Event) })
	}
	return nil
}

// replayAll must run with s.mu held.
func (s *stream) replayAll() {
	for _, l := range s.listeners.Snapshot() {
		s.replay(l)
	}
}

// replay must run with s.mu held.
func (s *stream) replay(l *remote.Listener) {
	for _, ev := range remote.Replay(l.Kind, s.tree, remote.LastSegment(s.path)) {
		ev := ev
		s.client.disp.Enqueue(func() { l.Deliver(ev) })
	}
}

// readEvents parses a text/event-stream body and calls fn for every
// complete event until the body ends or fn fails.
func readEvents(r io.Reader, fn func(name string, data []byte) error) error {
	br := bufio.NewReader(r)

	var (
		name string
		data strings.Builder
	)
	for {
		line, err := br.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			if name != "" || data.Len() > 0 {
				if name == "" {
					name = "message"
				}
				if ferr := fn(name, []byte(data.String())); ferr != nil {
					return ferr
				}
			}
			name = ""
			data.Reset()
		case strings.HasPrefix(line, ":"):
		default:
			field, value, _ := strings.Cut(line, ":")
			value = strings.TrimPrefix(value, " ")
			switch field {
			case "event":
				name = value
			case "data":
				if data.Len() > 0 {
					data.WriteByte('\n')
				}
				data.WriteString(value)
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
	}
}

func retryDelay(attempt int, base, maxDelay time.Duration) time.Duration {
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxDelay {
			return maxDelay
		}
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

func waitWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
