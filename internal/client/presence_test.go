package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-campaign-mirror/internal/campaign"
	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote/memory"
)

func readyClient(t *testing.T, tree *memory.Store) *campaign.Client {
	t.Helper()
	c := campaign.NewClient(context.Background(), tree, campaign.Options{CreateTimeout: 2 * time.Second})
	t.Cleanup(c.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Wait(ctx))
	return c
}

func onlineFlag(t *testing.T, tree *memory.Store) string {
	t.Helper()
	raw, err := tree.Get("/players/p1/online")
	require.NoError(t, err)
	return string(raw)
}

func TestPresence_MarksOnlineThenOffline(t *testing.T) {
	tree := seedTree(t)
	c := readyClient(t, tree)
	_, err := c.Login(context.Background(), signedToken(t, "p1"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		newPresence(c, logger.Nop()).Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return onlineFlag(t, tree) == "true" }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("presence did not stop")
	}
	assert.Equal(t, "false", onlineFlag(t, tree))
}

func TestPresence_NoPlayerReturnsImmediately(t *testing.T) {
	tree := seedTree(t)
	c := readyClient(t, tree)

	done := make(chan struct{})
	go func() {
		newPresence(c, nil).Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("presence should not run without a logged in player")
	}
	assert.Equal(t, "null", onlineFlag(t, tree))
}
