package memory

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
	"github.com/MKhiriev/go-campaign-mirror/internal/utils"
)

type ref struct {
	store *Store
	path  string
}

func (r *ref) Path() string {
	return r.path
}

func (r *ref) Child(key string) remote.Ref {
	return &ref{store: r.store, path: remote.JoinPath(r.path, key)}
}

func (r *ref) Once(ctx context.Context) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.Get(r.path)
}

func (r *ref) Subscribe(kind remote.EventKind, fn func(remote.Event)) func() {
	return r.store.Subscribe(r.path, kind, fn)
}

func (r *ref) Set(ctx context.Context, value any) error {
	return r.store.Set(ctx, r.path, value)
}

func (r *ref) Update(ctx context.Context, fields map[string]any) error {
	return r.store.Update(ctx, r.path, fields)
}

func (r *ref) PushKey() string {
	return utils.PushKey()
}

func (r *ref) Remove(ctx context.Context) error {
	return r.store.Remove(ctx, r.path)
}
