package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
	"github.com/MKhiriev/go-campaign-mirror/internal/utils"
)

type ref struct {
	client *Client
	path   string
}

func (r *ref) Path() string {
	return r.path
}

func (r *ref) Child(key string) remote.Ref {
	return &ref{client: r.client, path: remote.JoinPath(r.path, key)}
}

func (r *ref) Once(ctx context.Context) (json.RawMessage, error) {
	return r.client.get(ctx, r.path)
}

func (r *ref) Subscribe(kind remote.EventKind, fn func(remote.Event)) func() {
	return r.client.subscribe(r.path, kind, fn)
}

func (r *ref) Set(ctx context.Context, value any) error {
	if value == nil {
		return r.Remove(ctx)
	}
	return r.client.send(ctx, http.MethodPut, r.path, value)
}

func (r *ref) Update(ctx context.Context, fields map[string]any) error {
	for k := range fields {
		if err := remote.ValidatePath(k); err != nil {
			return err
		}
	}
	return r.client.send(ctx, http.MethodPatch, r.path, fields)
}

func (r *ref) PushKey() string {
	return utils.PushKey()
}

func (r *ref) Remove(ctx context.Context) error {
	return r.client.send(ctx, http.MethodDelete, r.path, nil)
}
