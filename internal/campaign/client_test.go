package campaign

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
	"github.com/MKhiriev/go-campaign-mirror/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_HydratesCampaign(t *testing.T) {
	c := newReadyClient(t, seedCampaign(t))

	assert.True(t, c.IsReady())
	assert.ElementsMatch(t, []string{"p1", "p2"}, c.Players().Keys())
	assert.Equal(t, []string{"c1"}, c.Characters().Keys())
	assert.Equal(t, 1, c.Chat().Len())

	camp, ok := c.Campaign().Get()
	require.True(t, ok)
	assert.Equal(t, models.CampaignData{Name: "Tomb of Horrors", PlayerPageID: "pg1"}, camp)

	p1, ok := c.Players().Get("p1")
	require.True(t, ok)
	assert.True(t, p1.Macros().IsReady(), "players are handed out with their macros ready")
	assert.Equal(t, []string{"m1"}, p1.Macros().Keys())

	ch, ok := c.Characters().Get("c1")
	require.True(t, ok)
	assert.True(t, ch.Attributes().IsReady())
	assert.True(t, ch.Abilities().IsReady())
}

func TestClient_ReadyFiresOnceForLateSubscribers(t *testing.T) {
	c := newReadyClient(t, seedCampaign(t))

	calls := 0
	c.Ready().On(func(struct{}) { calls++ })
	assert.Equal(t, 1, calls)
}

func TestClient_NotLoggedIn(t *testing.T) {
	c := newReadyClient(t, seedCampaign(t))

	assert.False(t, c.IsLoggedIn())

	_, err := c.CurrentPlayerID()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = c.CurrentPlayer()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = c.Say(context.Background(), "hi", "", "")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	p1, _ := c.Players().Get("p1")
	assert.False(t, p1.IsUs())

	ch, _ := c.Characters().Get("c1")
	assert.False(t, ch.CanAccessBlobs())
}

func TestClient_LoginResolvesCurrentPlayer(t *testing.T) {
	c := newReadyClient(t, seedCampaign(t))

	auth, err := c.Login(context.Background(), tokenFor(t, "p1"))
	require.NoError(t, err)
	assert.Equal(t, "p1", auth.PlayerID)
	assert.True(t, c.IsLoggedIn())

	id, err := c.CurrentPlayerID()
	require.NoError(t, err)
	assert.Equal(t, "p1", id)

	us, err := c.CurrentPlayer()
	require.NoError(t, err)
	assert.Equal(t, "Alice", us.DisplayName())

	p1, _ := c.Players().Get("p1")
	p2, _ := c.Players().Get("p2")
	assert.Same(t, p1, us)
	assert.True(t, p1.IsUs())
	assert.False(t, p2.IsUs())
}

func TestClient_LoginUnknownPlayer(t *testing.T) {
	c := newReadyClient(t, seedCampaign(t))

	_, err := c.Login(context.Background(), tokenFor(t, "ghost"))
	require.NoError(t, err)

	_, err = c.CurrentPlayer()
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestClient_LoginRejectsMalformedToken(t *testing.T) {
	c := newReadyClient(t, seedCampaign(t))

	_, err := c.Login(context.Background(), "not-a-jwt")
	assert.Error(t, err)
	assert.False(t, c.IsLoggedIn())
}

type plainBackend struct {
	remote.Backend
}

func TestClient_LoginWithoutAuthenticator(t *testing.T) {
	c := NewClient(context.Background(), plainBackend{Backend: seedCampaign(t)}, Options{})
	t.Cleanup(c.Close)

	_, err := c.Login(context.Background(), tokenFor(t, "p1"))
	assert.ErrorIs(t, err, remote.ErrAuthUnsupported)
}

func TestClient_SayRoundTrip(t *testing.T) {
	s := seedCampaign(t)
	c := newReadyClient(t, s)
	_, err := c.Login(context.Background(), tokenFor(t, "p2"))
	require.NoError(t, err)

	var added []*ChatMessage
	done := make(chan struct{}, 1)
	c.Chat().Added().On(func(m *ChatMessage) {
		added = append(added, m)
		done <- struct{}{}
	})

	msg, err := c.Say(context.Background(), "roll for initiative", "", "")
	require.NoError(t, err)
	<-done

	assert.Equal(t, "roll for initiative", msg.Content())
	assert.Equal(t, "p2", msg.PlayerID())
	assert.Equal(t, "not a bot", msg.SpeakingAs())
	assert.Equal(t, models.ChatTypeGeneral, msg.Type())
	require.Len(t, added, 1)
	assert.Same(t, msg, added[0])

	author, ok := msg.Player()
	require.True(t, ok)
	assert.Equal(t, "Bob", author.DisplayName())

	raw, err := s.Get("/chat/" + msg.ID())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+msg.ID()+`","content":"roll for initiative","playerid":"p2","who":"not a bot","type":"general"}`, string(raw))

	keys := c.Chat().Keys()
	assert.Equal(t, []string{"m1", msg.ID()}, keys)
}

func TestClient_SayCustomSpeaker(t *testing.T) {
	c := newReadyClient(t, seedCampaign(t))
	_, err := c.Login(context.Background(), tokenFor(t, "p1"))
	require.NoError(t, err)

	msg, err := c.Say(context.Background(), "waves", "Grog", models.ChatTypeEmote)
	require.NoError(t, err)
	assert.Equal(t, "Grog", msg.SpeakingAs())
	assert.Equal(t, models.ChatTypeEmote, msg.Type())
}

func TestClient_CloseStopsEveryCollection(t *testing.T) {
	s := seedCampaign(t)
	c := newReadyClient(t, s)
	p1, _ := c.Players().Get("p1")

	c.Close()

	require.NoError(t, s.Set(context.Background(), "/players/p3", map[string]any{"displayname": "Cleo"}))
	require.NoError(t, s.Set(context.Background(), "/macros/player/p1/m2", map[string]any{"name": "late"}))

	time.Sleep(50 * time.Millisecond)
	_, ok := c.Players().Get("p3")
	assert.False(t, ok)
	assert.Equal(t, 1, p1.Macros().Len())
}
