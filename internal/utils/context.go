package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// PlayerIDCtxKey is the key used to store the authenticated player id in the
// context of a dev server request.
//
//	ctx := context.WithValue(ctx, utils.PlayerIDCtxKey, "-Mabc")
var PlayerIDCtxKey = contextKey("playerID")

// GetPlayerIDFromContext retrieves the authenticated player id from ctx.
// ok is false when the value is missing, empty or has an unexpected type.
func GetPlayerIDFromContext(ctx context.Context) (string, bool) {
	playerID, ok := ctx.Value(PlayerIDCtxKey).(string)
	return playerID, ok && playerID != ""
}
