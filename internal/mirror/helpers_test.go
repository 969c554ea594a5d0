package mirror

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote/memory"
	"github.com/stretchr/testify/require"
)

type testData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type testObj struct {
	*Record[testData]
	closed atomic.Bool
}

func (o *testObj) Close() { o.closed.Store(true) }

type factoryProbe struct {
	calls atomic.Int32
}

func (p *factoryProbe) factory(_ context.Context, _ string, raw json.RawMessage, ref remote.Ref) (*testObj, error) {
	p.calls.Add(1)
	rec, err := NewRecord[testData](ref, raw)
	if err != nil {
		return nil, err
	}
	return &testObj{Record: rec}, nil
}

func newTestMemory(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore(nil, nil)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func waitReady(t *testing.T, r Readiness) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Wait(ctx))
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}

func keysOf(objs []*testObj) []string {
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		out = append(out, o.ID())
	}
	return out
}
