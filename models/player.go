package models

// PlayerData is the record stored under /players/{id}.
type PlayerData struct {
	ID              string  `json:"id,omitempty"`
	Color           string  `json:"color,omitempty"`
	D20UserID       string  `json:"d20userid,omitempty"`
	D20Username     string  `json:"d20username,omitempty"`
	DisplayName     string  `json:"displayname,omitempty"`
	Online          bool    `json:"online,omitempty"`
	SpeakingAs      string  `json:"speakingas,omitempty"`
	ChatBeepEnabled bool    `json:"chatbeepenabled,omitempty"`
	GlobalVolume    FlexInt `json:"globalvolume"`
}

// MacroData is the record stored under /macros/player/{playerID}/{id}.
type MacroData struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name,omitempty"`
	Action        string `json:"action,omitempty"`
	IsTokenAction bool   `json:"istokenaction,omitempty"`
	// VisibleTo is a comma separated list of player ids.
	VisibleTo string `json:"visibleto,omitempty"`
}
