package server

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-campaign-mirror/internal/config"
	"github.com/MKhiriev/go-campaign-mirror/internal/handler"
	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandlers(t *testing.T) (*handler.Handlers, *config.ServerConfig) {
	t.Helper()
	store := memory.NewStore(logger.Nop(), nil)
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.ServerConfig{Server: config.Server{HTTPAddress: "127.0.0.1:0", KeepAlive: time.Minute}}
	handlers, err := handler.NewHandlers(store, cfg, "test", logger.Nop())
	require.NoError(t, err)
	return handlers, cfg
}

func TestNewServer_NoHandlers(t *testing.T) {
	s, err := NewServer(nil, &config.ServerConfig{}, logger.Nop())

	assert.Nil(t, s)
	assert.ErrorIs(t, err, errNoListener)
}

func TestServer_RunStopsOnContextCancel(t *testing.T) {
	handlers, cfg := newTestHandlers(t)
	s, err := NewServer(handlers, cfg, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.(*server).run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHTTPServer_ShutdownEndsOpenStreams(t *testing.T) {
	handlers, cfg := newTestHandlers(t)
	srv := newHTTPServer(handlers.HTTP.Init(), cfg.Server.HTTPAddress, logger.Nop())
	require.NoError(t, srv.listen())
	go srv.RunServer()

	base := "http://" + srv.listener.Addr().String()

	resp, err := http.Get(base + "/version")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "test", string(body))

	req, err := http.NewRequest(http.MethodGet, base+"/players.json", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/event-stream")
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()

	line, err := bufio.NewReader(stream.Body).ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "event: put"))

	stopped := make(chan struct{})
	go func() {
		srv.Shutdown()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown waited on the open stream")
	}

	_, err = io.ReadAll(stream.Body)
	assert.NoError(t, err)
}
