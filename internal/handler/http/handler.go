package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
)

const defaultKeepAlive = 30 * time.Second

// Tree is the realtime JSON tree served by the handler. memory.Store
// implements it.
type Tree interface {
	Get(path string) (json.RawMessage, error)
	Set(ctx context.Context, path string, value any) error
	Update(ctx context.Context, path string, fields map[string]any) error
	Remove(ctx context.Context, path string) error
	Subscribe(path string, kind remote.EventKind, fn func(remote.Event)) func()
}

// Options configures a Handler.
type Options struct {
	// TokenSignKey enables token verification when non-empty.
	TokenSignKey string
	TokenIssuer  string
	// KeepAlive is the interval between keep-alive events on open streams.
	KeepAlive time.Duration
	// Version is reported by GET /version.
	Version string
}

type Handler struct {
	tree Tree

	signKey   string
	issuer    string
	keepAlive time.Duration
	version   string

	logger *logger.Logger
}

func NewHandler(tree Tree, opts Options, logger *logger.Logger) *Handler {
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = defaultKeepAlive
	}

	logger.Info().Bool("auth", opts.TokenSignKey != "").Msg("http handler created")
	return &Handler{
		tree:      tree,
		signKey:   opts.TokenSignKey,
		issuer:    opts.TokenIssuer,
		keepAlive: opts.KeepAlive,
		version:   opts.Version,
		logger:    logger,
	}
}
