package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/MKhiriev/go-campaign-mirror/internal/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestVar_HydratesAndFollows(t *testing.T) {
	s := newTestMemory(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "/char-blobs/c1/bio", "first"))

	v := NewVar(ctx, s.Ref("/char-blobs/c1/bio"), StringDecoder, Options{Purpose: "bio"})
	t.Cleanup(v.Close)
	waitReady(t, v)

	got, ok := v.Get()
	require.True(t, ok)
	assert.Equal(t, "first", got)

	var mu sync.Mutex
	var log []string
	v.Added().On(func(val string) { mu.Lock(); log = append(log, "added:"+val); mu.Unlock() })
	v.Changed().On(func(val string) { mu.Lock(); log = append(log, "changed:"+val); mu.Unlock() })
	v.Removed().On(func(val string) { mu.Lock(); log = append(log, "removed:"+val); mu.Unlock() })

	require.NoError(t, v.Set(ctx, "second"))
	require.NoError(t, v.Set(ctx, "second"))
	require.NoError(t, v.Set(ctx, nil))
	require.NoError(t, v.Set(ctx, "third"))

	eventually(t, func() bool {
		got, ok := v.Get()
		return ok && got == "third"
	}, "value follows the store")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"changed:second", "removed:second", "added:third"}, log)
}

func TestVar_AbsentValue(t *testing.T) {
	s := newTestMemory(t)

	v := NewVar(context.Background(), s.Ref("/campaign"), JSONDecoder[map[string]any](), Options{})
	t.Cleanup(v.Close)
	waitReady(t, v)

	_, ok := v.Get()
	assert.False(t, ok)
}

func TestVar_SetHasNoOptimisticUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	ref := mock.NewMockRef(ctrl)

	ref.EXPECT().Path().Return("/campaign/name").AnyTimes()
	ref.EXPECT().Once(gomock.Any()).Return(json.RawMessage(`"old"`), nil)
	ref.EXPECT().Subscribe(gomock.Any(), gomock.Any()).Return(func() {}).AnyTimes()
	ref.EXPECT().Set(gomock.Any(), "new").Return(nil)

	v := NewVar(context.Background(), ref, StringDecoder, Options{})
	t.Cleanup(func() { v.Close(); <-v.Done() })
	waitReady(t, v)

	require.NoError(t, v.Set(context.Background(), "new"))

	got, _ := v.Get()
	assert.Equal(t, "old", got)
}

func TestVar_SetFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	ref := mock.NewMockRef(ctrl)

	ref.EXPECT().Path().Return("/v").AnyTimes()
	ref.EXPECT().Once(gomock.Any()).Return(json.RawMessage(`1`), nil)
	ref.EXPECT().Subscribe(gomock.Any(), gomock.Any()).Return(func() {}).AnyTimes()
	ref.EXPECT().Set(gomock.Any(), gomock.Any()).Return(errors.New("offline"))

	v := NewVar(context.Background(), ref, JSONDecoder[int](), Options{})
	t.Cleanup(func() { v.Close(); <-v.Done() })
	waitReady(t, v)

	err := v.Set(context.Background(), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
}

func TestVar_GetBeforeReady(t *testing.T) {
	ctrl := gomock.NewController(t)
	ref := mock.NewMockRef(ctrl)

	release := make(chan struct{})
	ref.EXPECT().Path().Return("/v").AnyTimes()
	ref.EXPECT().Once(gomock.Any()).DoAndReturn(func(ctx context.Context) (json.RawMessage, error) {
		<-release
		return json.RawMessage(`"x"`), nil
	})
	ref.EXPECT().Subscribe(gomock.Any(), gomock.Any()).Return(func() {}).AnyTimes()

	v := NewVar(context.Background(), ref, StringDecoder, Options{})
	t.Cleanup(func() { v.Close(); <-v.Done() })

	_, ok := v.Get()
	assert.False(t, ok)

	close(release)
	waitReady(t, v)
	got, ok := v.Get()
	assert.True(t, ok)
	assert.Equal(t, "x", got)
}

func TestStringDecoder(t *testing.T) {
	s, err := StringDecoder(json.RawMessage(`"text"`))
	require.NoError(t, err)
	assert.Equal(t, "text", s)

	s, err = StringDecoder(json.RawMessage(`1577836800`))
	require.NoError(t, err)
	assert.Equal(t, "1577836800", s)
}
