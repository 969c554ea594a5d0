package models

import "encoding/json"

// ChatMessageData is the record stored under /chat/{id}.
type ChatMessageData struct {
	ID          string       `json:"id,omitempty"`
	Avatar      string       `json:"avatar,omitempty"`
	Content     string       `json:"content,omitempty"`
	InlineRolls []InlineRoll `json:"inlinerolls,omitempty"`
	PlayerID    string       `json:"playerid,omitempty"`
	Type        string       `json:"type,omitempty"`
	Who         string       `json:"who,omitempty"`
}

// Chat message types written by the client.
const (
	ChatTypeGeneral = "general"
	ChatTypeEmote   = "emote"
	ChatTypeWhisper = "whisper"
)

// InlineRoll is one [[roll]] expression evaluated inside a chat message.
type InlineRoll struct {
	Expression string            `json:"expression,omitempty"`
	Results    InlineRollResults `json:"results"`
	RollID     string            `json:"rollid,omitempty"`
	Signature  string            `json:"signature,omitempty"`
}

type InlineRollResults struct {
	ResultType string     `json:"resultType,omitempty"`
	Rolls      []RollData `json:"rolls,omitempty"`
	Total      float64    `json:"total"`
	Type       string     `json:"type,omitempty"`
}

// RollData is either a dice roll (Type "R") or a math fragment (Type "M").
// Results differs between roll engines, so it is kept undecoded.
type RollData struct {
	Dice    int             `json:"dice,omitempty"`
	Sides   int             `json:"sides,omitempty"`
	Type    string          `json:"type,omitempty"`
	Expr    string          `json:"expr,omitempty"`
	Results json.RawMessage `json:"results,omitempty"`
}
