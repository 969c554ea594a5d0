package handler

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-campaign-mirror/internal/config"
	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandlers_HTTP(t *testing.T) {
	cfg := &config.ServerConfig{
		App:    config.App{TokenSignKey: "secret", TokenIssuer: "test"},
		Server: config.Server{HTTPAddress: ":8080", KeepAlive: time.Second},
	}

	h, err := NewHandlers(memory.NewStore(nil, nil), cfg, "1.0.0", logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, h)
	assert.NotNil(t, h.HTTP)
	assert.NotNil(t, h.HTTP.Init())
}

func TestNewHandlers_NoAddress(t *testing.T) {
	h, err := NewHandlers(memory.NewStore(nil, nil), &config.ServerConfig{}, "", logger.Nop())

	assert.Nil(t, h)
	assert.ErrorIs(t, err, errNoHandlersAreCreated)
}
