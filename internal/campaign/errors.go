package campaign

import "errors"

var (
	// ErrNotLoggedIn is returned by operations that need a player identity.
	ErrNotLoggedIn = errors.New("client must be logged in to do this operation")

	// ErrPlayersNotReady is returned when the current player is requested
	// before the players collection hydrated.
	ErrPlayersNotReady = errors.New("players are not ready yet")

	// ErrPlayerNotFound is returned when the logged in player id has no
	// record in the players collection.
	ErrPlayerNotFound = errors.New("current player not found")
)
