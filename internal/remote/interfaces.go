package remote

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-campaign-mirror/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_mock.go -package=mock

// Ref is a handle on one path of the remote store.
type Ref interface {
	// Path returns the normalised absolute path, "/" for the root.
	Path() string
	// Child returns the handle for key below this path.
	Child(key string) Ref
	// Once reads the current subtree. An absent path reads as JSON null.
	Once(ctx context.Context) (json.RawMessage, error)
	// Subscribe registers fn for events of kind on this path and returns a
	// function that cancels the subscription. ChildAdded subscriptions first
	// receive every existing child; Value subscriptions first receive the
	// current value. Events of one Ref are delivered in order, one at a time.
	Subscribe(kind EventKind, fn func(Event)) (unsubscribe func())
	// Set replaces the subtree with value. A nil value deletes it.
	Set(ctx context.Context, value any) error
	// Update merges fields into the subtree; a nil field value deletes it.
	Update(ctx context.Context, fields map[string]any) error
	// PushKey mints a unique, time-ordered child key without a round trip.
	PushKey() string
	// Remove deletes the subtree.
	Remove(ctx context.Context) error
}

// Authenticator exchanges a custom token for an authenticated session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Auth, error)
}

// Backend is a store that hands out refs and can be shut down.
type Backend interface {
	Ref(path string) Ref
	Close() error
}
