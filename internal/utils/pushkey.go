package utils

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// PushKey returns a new child key for an append-style write. Keys are
// lowercase ULIDs: unique without a round trip, and lexicographic order
// follows creation time so ordered listings keep insertion order.
func PushKey() string {
	return strings.ToLower(ulid.Make().String())
}
