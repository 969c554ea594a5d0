package campaign

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-campaign-mirror/internal/remote/memory"
	"github.com/MKhiriev/go-campaign-mirror/internal/utils"
	"github.com/MKhiriev/go-campaign-mirror/models"
	"github.com/stretchr/testify/require"
)

func seedCampaign(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore(nil, nil)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set(ctx, "/", map[string]any{
		"campaign": map[string]any{"name": "Tomb of Horrors", "playerpageid": "pg1"},
		"players": map[string]any{
			"p1": map[string]any{"displayname": "Alice", "d20userid": "u1", "globalvolume": "55", "color": "#ff0000"},
			"p2": map[string]any{"displayname": "Bob", "d20userid": "u2", "chatbeepenabled": false},
		},
		"macros": map[string]any{
			"player": map[string]any{
				"p1": map[string]any{
					"m1": map[string]any{"name": "attack", "action": "/r 1d20", "visibleto": "p1,p2"},
				},
			},
		},
		"characters": map[string]any{
			"c1": map[string]any{
				"name":         "Grog",
				"controlledby": "p1,all",
				"tags":         `["hero","npc"]`,
				"bio":          1700000000,
			},
		},
		"char-attribs": map[string]any{
			"char": map[string]any{
				"c1": map[string]any{
					"a1": map[string]any{"name": "hp", "current": "10", "max": "12"},
				},
			},
		},
		"char-abils": map[string]any{
			"char": map[string]any{
				"c1": map[string]any{
					"b1": map[string]any{"name": "rage", "order": "2"},
				},
			},
		},
		"char-blobs": map[string]any{
			"c1": map[string]any{"bio": "Once upon a time"},
		},
		"chat": map[string]any{
			"m1": map[string]any{"content": "hello", "playerid": "p1", "who": "Alice", "type": "general"},
		},
	}))
	return s
}

func newReadyClient(t *testing.T, s *memory.Store) *Client {
	t.Helper()
	c := NewClient(context.Background(), s, Options{CreateTimeout: 2 * time.Second})
	t.Cleanup(c.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Wait(ctx))
	return c
}

func tokenFor(t *testing.T, playerID string) string {
	t.Helper()
	token, err := utils.GenerateCampaignToken("test", models.AuthClaims{PlayerID: playerID, UserID: 7}, time.Hour, "secret")
	require.NoError(t, err)
	return token.SignedString
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}
