package campaign

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-campaign-mirror/internal/mirror"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
	"github.com/MKhiriev/go-campaign-mirror/models"
)

// Player is a participant of the campaign.
type Player struct {
	*mirror.Record[models.PlayerData]

	client *Client
	macros *mirror.Collection[*Macro]
}

func (c *Client) newPlayer(ctx context.Context, key string, raw json.RawMessage, ref remote.Ref) (*Player, error) {
	rec, err := mirror.NewRecord[models.PlayerData](ref, raw)
	if err != nil {
		return nil, err
	}

	p := &Player{Record: rec, client: c}
	p.macros = mirror.NewCollection(ctx, c.backend.Ref(macrosPath(key)), c.newMacro, c.opts.Child("player macros"))

	if err = p.macros.Wait(ctx); err != nil {
		p.macros.Close()
		return nil, fmt.Errorf("player %s macros: %w", key, err)
	}
	return p, nil
}

// Macros returns the player's macros.
func (p *Player) Macros() *mirror.Collection[*Macro] {
	return p.macros
}

// Close stops mirroring the player's macros.
func (p *Player) Close() {
	p.macros.Close()
}

// IsUs reports whether the player shares the logged in player's user
// account. It is false before login.
func (p *Player) IsUs() bool {
	us, err := p.client.CurrentPlayer()
	if err != nil {
		return false
	}
	return p.UserAccountID() == us.UserAccountID()
}

func (p *Player) Color() string {
	return p.Data().Color
}

func (p *Player) SetColor(ctx context.Context, color string) error {
	return p.SetField(ctx, "color", color)
}

func (p *Player) UserAccountID() string {
	return p.Data().D20UserID
}

func (p *Player) SetUserAccountID(ctx context.Context, id string) error {
	return p.SetField(ctx, "d20userid", id)
}

func (p *Player) Username() string {
	return p.Data().D20Username
}

func (p *Player) SetUsername(ctx context.Context, username string) error {
	return p.SetField(ctx, "d20username", username)
}

func (p *Player) DisplayName() string {
	return p.Data().DisplayName
}

func (p *Player) SetDisplayName(ctx context.Context, name string) error {
	return p.SetField(ctx, "displayname", name)
}

// GlobalVolume returns the volume setting, 0 when unset or unparsable.
func (p *Player) GlobalVolume() int64 {
	v, _ := p.Data().GlobalVolume.Get()
	return v
}

func (p *Player) SetGlobalVolume(ctx context.Context, volume int64) error {
	return p.SetField(ctx, "globalvolume", volume)
}

func (p *Player) IsOnline() bool {
	return p.Data().Online
}

func (p *Player) SetOnline(ctx context.Context, online bool) error {
	return p.SetField(ctx, "online", online)
}

func (p *Player) SpeakingAs() string {
	return p.Data().SpeakingAs
}

func (p *Player) SetSpeakingAs(ctx context.Context, who string) error {
	return p.SetField(ctx, "speakingas", who)
}

// ChatBeepEnabled defaults to true when the player never set it.
func (p *Player) ChatBeepEnabled() bool {
	if _, ok := p.Field("chatbeepenabled"); !ok {
		return true
	}
	return p.Data().ChatBeepEnabled
}

func (p *Player) SetChatBeepEnabled(ctx context.Context, enabled bool) error {
	return p.SetField(ctx, "chatbeepenabled", enabled)
}
