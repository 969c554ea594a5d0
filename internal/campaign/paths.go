package campaign

import "fmt"

const (
	charactersPath = "/characters"
	playersPath    = "/players"
	chatPath       = "/chat"
	campaignPath   = "/campaign"
)

func attributesPath(characterID string) string {
	return fmt.Sprintf("/char-attribs/char/%s", characterID)
}

func abilitiesPath(characterID string) string {
	return fmt.Sprintf("/char-abils/char/%s", characterID)
}

func blobPath(characterID, blob string) string {
	return fmt.Sprintf("/char-blobs/%s/%s", characterID, blob)
}

func macrosPath(playerID string) string {
	return fmt.Sprintf("/macros/player/%s", playerID)
}
