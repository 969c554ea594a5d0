package campaign

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-campaign-mirror/internal/mirror"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
	"github.com/MKhiriev/go-campaign-mirror/models"
)

// ChatMessage is one entry of the chat log.
type ChatMessage struct {
	*mirror.Record[models.ChatMessageData]

	client *Client
}

func (c *Client) newChatMessage(_ context.Context, _ string, raw json.RawMessage, ref remote.Ref) (*ChatMessage, error) {
	rec, err := mirror.NewRecord[models.ChatMessageData](ref, raw)
	if err != nil {
		return nil, err
	}
	return &ChatMessage{Record: rec, client: c}, nil
}

func (m *ChatMessage) Content() string {
	return m.Data().Content
}

func (m *ChatMessage) Type() string {
	return m.Data().Type
}

// SpeakingAs returns the name the message was posted under.
func (m *ChatMessage) SpeakingAs() string {
	return m.Data().Who
}

func (m *ChatMessage) Avatar() string {
	return m.Data().Avatar
}

func (m *ChatMessage) InlineRolls() []models.InlineRoll {
	return m.Data().InlineRolls
}

func (m *ChatMessage) PlayerID() string {
	return m.Data().PlayerID
}

// Player returns the author, false when the author is not a known player.
func (m *ChatMessage) Player() (*Player, bool) {
	return m.client.findPlayer(m.PlayerID())
}
