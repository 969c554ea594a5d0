package campaign

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-campaign-mirror/internal/events"
	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/mirror"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
	"github.com/MKhiriev/go-campaign-mirror/models"
)

const (
	defaultSpeaker = "not a bot"
)

// Options configures a Client.
type Options struct {
	// Logger receives diagnostics. nil means silent.
	Logger *logger.Logger
	// CreateTimeout bounds how long Say and other creations wait for their
	// record to be echoed back. Zero uses mirror.DefaultCreateTimeout.
	CreateTimeout time.Duration
}

// Client mirrors one campaign.
type Client struct {
	backend remote.Backend
	log     *logger.Logger
	opts    mirror.Options

	ctx    context.Context
	cancel context.CancelFunc

	players    *mirror.Collection[*Player]
	characters *mirror.Collection[*Character]
	chat       *mirror.Collection[*ChatMessage]
	campaign   *mirror.Var[models.CampaignData]
	ready      *mirror.Composite

	mu       sync.RWMutex
	loggedIn bool
	auth     models.Auth
	us       *Player
}

// NewClient starts mirroring the campaign served by backend. Cancelling ctx
// or calling Close stops every collection.
func NewClient(ctx context.Context, backend remote.Backend, opts Options) *Client {
	log := logger.OrNop(opts.Logger).Component("campaign")
	log.Debug().Msg("creating campaign client")

	c := &Client{
		backend: backend,
		log:     log,
		opts:    mirror.Options{Logger: opts.Logger, CreateTimeout: opts.CreateTimeout},
	}
	c.ctx, c.cancel = context.WithCancel(ctx)

	c.players = mirror.NewCollection(c.ctx, backend.Ref(playersPath), c.newPlayer, c.opts.Child("players"))
	c.characters = mirror.NewCollection(c.ctx, backend.Ref(charactersPath), c.newCharacter, c.opts.Child("characters"))
	c.chat = mirror.NewCollection(c.ctx, backend.Ref(chatPath), c.newChatMessage, c.opts.Child("chat"))
	c.campaign = mirror.NewVar(c.ctx, backend.Ref(campaignPath), mirror.JSONDecoder[models.CampaignData](), c.opts.Child("campaign"))

	c.ready = mirror.NewComposite(c.ctx, "client", opts.Logger, c.characters, c.players, c.chat, c.campaign)
	c.ready.Ready().On(func(mirror.Ready) {
		c.log.Info().Msg("campaign client ready")
	})

	return c
}

// Ready is opened once players, characters, chat and the campaign value
// are all ready.
func (c *Client) Ready() *events.Gated[mirror.Ready] {
	return c.ready.Ready()
}

// IsReady reports whether the client is ready.
func (c *Client) IsReady() bool {
	return c.ready.IsReady()
}

// Wait blocks until the client is ready, a collection failed to hydrate,
// or ctx is done.
func (c *Client) Wait(ctx context.Context) error {
	return c.ready.Wait(ctx)
}

// Players returns the players collection.
func (c *Client) Players() *mirror.Collection[*Player] {
	return c.players
}

// Characters returns the characters collection.
func (c *Client) Characters() *mirror.Collection[*Character] {
	return c.characters
}

// Chat returns the chat log.
func (c *Client) Chat() *mirror.Collection[*ChatMessage] {
	return c.chat
}

// Campaign returns the campaign settings value.
func (c *Client) Campaign() *mirror.Var[models.CampaignData] {
	return c.campaign
}

// Login authenticates with a custom token and remembers the player it
// belongs to.
func (c *Client) Login(ctx context.Context, token string) (models.Auth, error) {
	c.log.Info().Msg("logging in")

	authenticator, ok := c.backend.(remote.Authenticator)
	if !ok {
		return models.Auth{}, remote.ErrAuthUnsupported
	}

	auth, err := authenticator.Authenticate(ctx, token)
	if err != nil {
		c.log.Warn().Err(err).Msg("auth failed")
		return models.Auth{}, fmt.Errorf("login: %w", err)
	}

	c.mu.Lock()
	c.auth = auth
	c.loggedIn = true
	c.us = nil
	c.mu.Unlock()

	c.log.Info().Str("player_id", auth.PlayerID).Msg("successfully authenticated")
	return auth, nil
}

// IsLoggedIn reports whether Login succeeded.
func (c *Client) IsLoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loggedIn
}

// CurrentPlayerID returns the id of the logged in player.
func (c *Client) CurrentPlayerID() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loggedIn {
		return "", ErrNotLoggedIn
	}
	return c.auth.PlayerID, nil
}

// CurrentPlayer returns the logged in player's object.
func (c *Client) CurrentPlayer() (*Player, error) {
	id, err := c.CurrentPlayerID()
	if err != nil {
		return nil, err
	}
	if !c.players.IsReady() {
		return nil, ErrPlayersNotReady
	}

	c.mu.RLock()
	us := c.us
	c.mu.RUnlock()
	if us != nil {
		return us, nil
	}

	p, ok := c.players.Get(id)
	if !ok {
		c.log.Error().Str("player_id", id).Msg("cannot find local player")
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}

	c.mu.Lock()
	if c.auth.PlayerID == id {
		c.us = p
	}
	c.mu.Unlock()
	return p, nil
}

// Say posts a chat message as the logged in player and returns it once the
// store echoes it back. An empty who or typ falls back to the defaults.
func (c *Client) Say(ctx context.Context, content, who, typ string) (*ChatMessage, error) {
	id, err := c.CurrentPlayerID()
	if err != nil {
		return nil, err
	}
	if who == "" {
		who = defaultSpeaker
	}
	if typ == "" {
		typ = models.ChatTypeGeneral
	}

	msg, err := c.chat.Create(ctx, models.ChatMessageData{
		Content:  content,
		PlayerID: id,
		Who:      who,
		Type:     typ,
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to send message")
		return nil, fmt.Errorf("say: %w", err)
	}
	return msg, nil
}

// Close stops mirroring. It does not close the backend.
func (c *Client) Close() {
	c.cancel()
	c.players.Close()
	c.characters.Close()
	c.chat.Close()
	c.campaign.Close()
}

func (c *Client) findPlayer(id string) (*Player, bool) {
	return c.players.Get(id)
}

func playerID(p *Player) string {
	return p.ID()
}
