package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
	"github.com/MKhiriev/go-campaign-mirror/internal/utils"
	"github.com/MKhiriev/go-campaign-mirror/models"
)

const (
	defaultBaseURL   = "http://localhost:8080"
	defaultTimeout   = 15 * time.Second
	defaultBaseDelay = 100 * time.Millisecond
	defaultMaxDelay  = 5 * time.Second
)

// Config configures a Client.
type Config struct {
	// BaseURL is the database root, e.g. https://campaign.example.com.
	BaseURL string
	// AuthToken is sent as the auth query parameter until Authenticate
	// replaces it.
	AuthToken string
	// Timeout bounds plain requests. Streams are not bounded.
	Timeout time.Duration
	// BaseDelay and MaxDelay shape the reconnect backoff of streams.
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Logger    *logger.Logger
}

// Client is a REST backend. It implements remote.Backend and
// remote.Authenticator.
type Client struct {
	http   *resty.Client
	stream *resty.Client
	log    *logger.Logger
	disp   *remote.Dispatcher

	baseDelay time.Duration
	maxDelay  time.Duration

	tokenMu sync.RWMutex
	token   string

	mu      sync.Mutex
	streams map[string]*stream
	closed  bool
}

var (
	_ remote.Backend       = (*Client)(nil)
	_ remote.Authenticator = (*Client)(nil)
)

// New returns a client for cfg.BaseURL. No connection is made until a ref
// is read or subscribed.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = defaultMaxDelay
	}
	log := logger.OrNop(cfg.Logger).Component("rest")
	base := strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		http:      utils.NewHTTPClient(base, cfg.Timeout).Client,
		stream:    utils.NewHTTPClient(base, 0).Client,
		log:       log,
		disp:      remote.NewDispatcher(log),
		baseDelay: cfg.BaseDelay,
		maxDelay:  cfg.MaxDelay,
		token:     strings.TrimSpace(cfg.AuthToken),
		streams:   make(map[string]*stream),
	}
}

// Ref returns a handle on path.
func (c *Client) Ref(path string) remote.Ref {
	return &ref{client: c, path: remote.NormalizePath(path)}
}

// Authenticate adopts token for every later request and reconnects open
// streams with it. The claims are read from the token itself; the server
// verifies them on use.
func (c *Client) Authenticate(_ context.Context, token string) (models.Auth, error) {
	auth, err := utils.ParseAuthClaims(token)
	if err != nil {
		return models.Auth{}, fmt.Errorf("authenticate: %w", err)
	}
	c.setToken(token)

	c.mu.Lock()
	for _, s := range c.streams {
		s.reconnect()
	}
	c.mu.Unlock()

	c.log.Info().Str("player_id", auth.PlayerID).Msg("authenticated")
	return auth, nil
}

// Close stops every stream and waits for queued events to be delivered.
// Later subscriptions are no-ops and requests fail with remote.ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	streams := c.streams
	c.streams = make(map[string]*stream)
	c.mu.Unlock()

	for _, s := range streams {
		s.stop()
	}
	c.disp.Close()
	c.log.Info().Msg("rest client closed")
	return nil
}

func (c *Client) setToken(token string) {
	c.tokenMu.Lock()
	c.token = strings.TrimSpace(token)
	c.tokenMu.Unlock()
}

func (c *Client) Token() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.token
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) request(ctx context.Context, r *resty.Client) *resty.Request {
	req := r.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString())
	if token := c.Token(); token != "" {
		req.SetQueryParam("auth", token)
	}
	return req
}

func jsonURL(path string) string {
	if path == "/" {
		return "/.json"
	}
	return path + ".json"
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	if c.isClosed() {
		return nil, remote.ErrClosed
	}

	resp, err := c.request(ctx, c.http).Get(jsonURL(path))
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}

	body := resp.Body()
	if len(body) == 0 {
		return remote.Null(), nil
	}
	return append(json.RawMessage(nil), body...), nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) error {
	if c.isClosed() {
		return remote.ErrClosed
	}
	if err := remote.ValidatePath(path); err != nil {
		return err
	}

	req := c.request(ctx, c.http)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		req.SetHeader("Content-Type", "application/json").SetBody(payload)
	}

	resp, err := req.Execute(method, jsonURL(path))
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("write rejected")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) subscribe(path string, kind remote.EventKind, fn func(remote.Event)) func() {
	if !kind.Valid() {
		c.log.Warn().Str("path", path).Str("kind", string(kind)).Msg("ignoring subscription with unknown kind")
		return func() {}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return func() {}
	}
	s, ok := c.streams[path]
	if !ok {
		s = newStream(c, path)
		c.streams[path] = s
	}
	l := s.add(kind, fn)
	if !ok {
		s.start()
	}
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			empty := s.remove(l)
			if empty && c.streams[path] == s {
				delete(c.streams, path)
			} else {
				empty = false
			}
			c.mu.Unlock()

			if empty {
				s.stop()
			}
		})
	}
}
