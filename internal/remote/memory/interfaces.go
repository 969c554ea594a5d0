package memory

import (
	"context"
	"encoding/json"
)

//go:generate mockgen -source=interfaces.go -destination=../../mock/persister_mock.go -package=mock

// Persister journals accepted writes and replays them on start.
type Persister interface {
	// Persist records writes atomically, in order.
	Persist(ctx context.Context, writes []Write) error
	// Load returns every journalled write in the order it must be replayed.
	Load(ctx context.Context) ([]Write, error)
}

// Write is one subtree replacement. A null Value deletes the subtree.
type Write struct {
	Path  string
	Value json.RawMessage
}
