package models

// CampaignData is the singleton record stored under /campaign.
// Only the fields the client reads are typed; the rest stays in the raw value.
type CampaignData struct {
	Name           string `json:"name,omitempty"`
	PlayerPageID   string `json:"playerpageid,omitempty"`
	TurnOrder      string `json:"turnorder,omitempty"`
	InitiativePage string `json:"initiativepage,omitempty"`
}
