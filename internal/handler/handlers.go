package handler

import (
	"github.com/MKhiriev/go-campaign-mirror/internal/config"
	"github.com/MKhiriev/go-campaign-mirror/internal/handler/http"
	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
)

type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers builds the transport handlers over tree for the configured
// addresses. version is reported by the HTTP version endpoint.
func NewHandlers(tree http.Tree, cfg *config.ServerConfig, version string, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(tree, http.Options{
			TokenSignKey: cfg.App.TokenSignKey,
			TokenIssuer:  cfg.App.TokenIssuer,
			KeepAlive:    cfg.Server.KeepAlive,
			Version:      version,
		}, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
