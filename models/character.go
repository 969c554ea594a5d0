package models

import "encoding/json"

// CharacterData is the record stored under /characters/{id}.
type CharacterData struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`

	// Tags is a JSON array of strings, usually encoded into a string.
	Tags json.RawMessage `json:"tags,omitempty"`

	// ControlledBy and InPlayerJournals are comma separated player ids.
	// The literal "all" grants every player.
	ControlledBy     string `json:"controlledby,omitempty"`
	InPlayerJournals string `json:"inplayerjournals,omitempty"`
	Archived         bool   `json:"archived,omitempty"`

	// Blob stamps are unix timestamps of the last write to the matching
	// /char-blobs entry, or an empty string when the blob was never written.
	Bio          FlexInt `json:"bio"`
	GMNotes      FlexInt `json:"gmnotes"`
	DefaultToken FlexInt `json:"defaulttoken"`

	AttrOrder string `json:"attrorder,omitempty"`
	AbilOrder string `json:"abilorder,omitempty"`
}

// AttributeData is the record stored under /char-attribs/char/{charID}/{id}.
type AttributeData struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Current string `json:"current,omitempty"`
	Max     string `json:"max,omitempty"`
}

// AbilityData is the record stored under /char-abils/char/{charID}/{id}.
type AbilityData struct {
	ID            string  `json:"id,omitempty"`
	Name          string  `json:"name,omitempty"`
	Description   string  `json:"description,omitempty"`
	Action        string  `json:"action,omitempty"`
	IsTokenAction bool    `json:"istokenaction,omitempty"`
	Order         FlexInt `json:"order"`
}
