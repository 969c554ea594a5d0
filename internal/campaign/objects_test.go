package campaign

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayer_Accessors(t *testing.T) {
	s := seedCampaign(t)
	c := newReadyClient(t, s)

	p1, ok := c.Players().Get("p1")
	require.True(t, ok)
	assert.Equal(t, "p1", p1.ID())
	assert.Equal(t, "#ff0000", p1.Color())
	assert.Equal(t, "u1", p1.UserAccountID())
	assert.Equal(t, int64(55), p1.GlobalVolume(), "numeric strings parse")
	assert.True(t, p1.ChatBeepEnabled(), "unset beep defaults to on")

	p2, _ := c.Players().Get("p2")
	assert.False(t, p2.ChatBeepEnabled())
	assert.Equal(t, int64(0), p2.GlobalVolume())
}

func TestPlayer_SetterEchoes(t *testing.T) {
	s := seedCampaign(t)
	c := newReadyClient(t, s)
	p1, _ := c.Players().Get("p1")

	changed := make(chan *Player, 1)
	c.Players().Changed().On(func(p *Player) { changed <- p })

	require.NoError(t, p1.SetDisplayName(context.Background(), "Alicia"))
	got := <-changed

	assert.Same(t, p1, got, "object identity survives updates")
	assert.Equal(t, "Alicia", p1.DisplayName())
	prev, ok := p1.Previous()
	require.True(t, ok)
	assert.Equal(t, "Alice", prev.DisplayName)
}

func TestPlayer_MacrosFollowStore(t *testing.T) {
	s := seedCampaign(t)
	c := newReadyClient(t, s)
	p1, _ := c.Players().Get("p1")

	m1, ok := p1.Macros().Get("m1")
	require.True(t, ok)
	assert.Equal(t, "attack", m1.Name())
	assert.Equal(t, "/r 1d20", m1.Action())
	assert.Len(t, m1.VisibleTo().Values(), 2)

	require.NoError(t, s.Set(context.Background(), "/macros/player/p1/m1/visibleto", "p2"))
	eventually(t, func() bool {
		ids := m1.VisibleTo().IDs()
		return len(ids) == 1 && ids[0] == "p2"
	}, "visibility list follows the record")

	require.NoError(t, s.Set(context.Background(), "/macros/player/p1/m2", map[string]any{"name": "heal"}))
	eventually(t, func() bool { return p1.Macros().Len() == 2 }, "new macro mirrored")
}

func TestCharacter_Lists(t *testing.T) {
	c := newReadyClient(t, seedCampaign(t))
	ch, ok := c.Characters().Get("c1")
	require.True(t, ok)

	assert.Equal(t, []string{"hero", "npc"}, ch.Tags().Values())
	assert.Equal(t, []string{"p1", "all"}, ch.ControlledBy().IDs())

	controllers := ch.ControlledBy().Values()
	require.Len(t, controllers, 1)
	assert.Equal(t, "p1", controllers[0].ID())
	assert.Empty(t, ch.InPlayerJournals().Values())
}

func TestCharacter_ListWritesRoundTrip(t *testing.T) {
	s := seedCampaign(t)
	c := newReadyClient(t, s)
	ch, _ := c.Characters().Get("c1")
	p2, _ := c.Players().Get("p2")

	require.NoError(t, ch.InPlayerJournals().Add(context.Background(), p2))
	raw, err := s.Get("/characters/c1/inplayerjournals")
	require.NoError(t, err)
	assert.Equal(t, `"p2"`, string(raw))

	require.NoError(t, ch.Tags().Add(context.Background(), "boss"))
	raw, err = s.Get("/characters/c1/tags")
	require.NoError(t, err)
	assert.Equal(t, `"[\"hero\",\"npc\",\"boss\"]"`, string(raw))

	eventually(t, func() bool {
		return len(ch.InPlayerJournals().Values()) == 1 && len(ch.Tags().IDs()) == 3
	}, "lists reparsed after the echo")
}

func TestCharacter_CanAccessBlobs(t *testing.T) {
	s := seedCampaign(t)

	c := newReadyClient(t, s)
	_, err := c.Login(context.Background(), tokenFor(t, "p1"))
	require.NoError(t, err)
	ch, _ := c.Characters().Get("c1")
	assert.True(t, ch.CanAccessBlobs())

	other := newReadyClient(t, s)
	_, err = other.Login(context.Background(), tokenFor(t, "p2"))
	require.NoError(t, err)
	ch2, _ := other.Characters().Get("c1")
	assert.False(t, ch2.CanAccessBlobs())
}

func TestCharacter_SubCollections(t *testing.T) {
	s := seedCampaign(t)
	c := newReadyClient(t, s)
	ch, _ := c.Characters().Get("c1")

	hp, ok := ch.Attributes().Get("a1")
	require.True(t, ok)
	assert.Equal(t, "hp", hp.Name())
	assert.Equal(t, "10", hp.Current())
	assert.Equal(t, "12", hp.Max())

	rage, ok := ch.Abilities().Get("b1")
	require.True(t, ok)
	assert.Equal(t, int64(2), rage.Order())

	require.NoError(t, hp.SetCurrent(context.Background(), "7"))
	eventually(t, func() bool { return hp.Current() == "7" }, "attribute update mirrored")
}

func TestCharacter_Blobs(t *testing.T) {
	s := seedCampaign(t)
	c := newReadyClient(t, s)
	ch, _ := c.Characters().Get("c1")

	waitCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, ch.Bio().Wait(waitCtx))
	require.NoError(t, ch.GMNotes().Wait(waitCtx))

	bio, ok := ch.Bio().Get()
	require.True(t, ok)
	assert.Equal(t, "Once upon a time", bio)

	_, ok = ch.GMNotes().Get()
	assert.False(t, ok, "absent blob")

	require.NoError(t, ch.GMNotes().Set(context.Background(), "secret door"))
	eventually(t, func() bool {
		v, ok := ch.GMNotes().Get()
		return ok && v == "secret door"
	}, "blob write mirrored")
}

func TestCharacter_AddedWithNestedReady(t *testing.T) {
	s := seedCampaign(t)
	c := newReadyClient(t, s)

	type snapshot struct {
		attrsReady bool
		attrs      int
	}
	seen := make(chan snapshot, 1)
	c.Characters().Added().On(func(ch *Character) {
		seen <- snapshot{attrsReady: ch.Attributes().IsReady(), attrs: ch.Attributes().Len()}
	})

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "/char-attribs/char/c2/a9", map[string]any{"name": "str"}))
	require.NoError(t, s.Set(ctx, "/characters/c2", map[string]any{"name": "Pike"}))

	got := <-seen
	assert.True(t, got.attrsReady)
	assert.Equal(t, 1, got.attrs)
}

func TestCharacter_RemovedKeepsIdentity(t *testing.T) {
	s := seedCampaign(t)
	c := newReadyClient(t, s)
	ch, _ := c.Characters().Get("c1")

	removed := make(chan *Character, 1)
	c.Characters().Removed().On(func(r *Character) { removed <- r })

	require.NoError(t, ch.Destroy(context.Background()))
	assert.Same(t, ch, <-removed)
	assert.Equal(t, "Grog", ch.Name())
	assert.Zero(t, c.Characters().Len())
}
