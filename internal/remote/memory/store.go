package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
	"github.com/MKhiriev/go-campaign-mirror/internal/utils"
	"github.com/MKhiriev/go-campaign-mirror/models"
)

// Store is an in-memory JSON tree with realtime subscriptions.
type Store struct {
	log       *logger.Logger
	persister Persister

	mu     sync.RWMutex
	root   any
	subs   map[string]*remote.Listeners
	closed bool

	disp *remote.Dispatcher
}

// NewStore returns an empty store. persister may be nil.
func NewStore(log *logger.Logger, persister Persister) *Store {
	log = logger.OrNop(log).Component("memory")
	return &Store{
		log:       log,
		persister: persister,
		subs:      make(map[string]*remote.Listeners),
		disp:      remote.NewDispatcher(log),
	}
}

// Restore replays the persister's journal into the tree. It must run before
// the store is shared; it emits no events.
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	writes, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("load journal: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	root := s.root
	for _, w := range writes {
		v, err := remote.Decode(w.Value)
		if err != nil {
			return fmt.Errorf("replay %s: %w", w.Path, err)
		}
		root = remote.SetAt(root, remote.SplitPath(w.Path), v)
	}
	s.root = root

	s.log.Info().Int("writes", len(writes)).Msg("journal restored")
	return nil
}

// Ref returns a handle on path.
func (s *Store) Ref(path string) remote.Ref {
	return &ref{store: s, path: remote.NormalizePath(path)}
}

// Get returns the encoded subtree at path, "null" when absent.
func (s *Store) Get(path string) (json.RawMessage, error) {
	if err := remote.ValidatePath(path); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, remote.ErrClosed
	}
	return remote.Encode(remote.GetAt(s.root, remote.SplitPath(path))), nil
}

// Set replaces the subtree at path.
func (s *Store) Set(ctx context.Context, path string, value any) error {
	v, err := remote.ToTree(value)
	if err != nil {
		return err
	}
	return s.apply(ctx, []pendingWrite{{path: remote.NormalizePath(path), value: v}})
}

// Update merges fields into the subtree at path. Field names may be nested
// paths relative to path. All fields are applied as one write.
// On an existing scalar the merge fails with remote.ErrNotObject.
func (s *Store) Update(ctx context.Context, path string, fields map[string]any) error {
	path = remote.NormalizePath(path)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	writes := make([]pendingWrite, 0, len(keys))
	for _, k := range keys {
		v, err := remote.ToTree(fields[k])
		if err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
		writes = append(writes, pendingWrite{path: remote.JoinPath(path, k), value: v})
	}

	s.mu.RLock()
	cur := remote.GetAt(s.root, remote.SplitPath(path))
	s.mu.RUnlock()
	if _, isObject := cur.(map[string]any); cur != nil && !isObject {
		return fmt.Errorf("update %s: %w", path, remote.ErrNotObject)
	}

	return s.apply(ctx, writes)
}

// Remove deletes the subtree at path.
func (s *Store) Remove(ctx context.Context, path string) error {
	return s.apply(ctx, []pendingWrite{{path: remote.NormalizePath(path)}})
}

// Subscribe registers fn for kind events on path and schedules the replay
// of the current state. The returned function cancels the subscription.
func (s *Store) Subscribe(path string, kind remote.EventKind, fn func(remote.Event)) func() {
	path = remote.NormalizePath(path)
	if !kind.Valid() {
		s.log.Warn().Str("path", path).Str("kind", string(kind)).Msg("ignoring subscription with unknown kind")
		return func() {}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}

	ls, ok := s.subs[path]
	if !ok {
		ls = &remote.Listeners{}
		s.subs[path] = ls
	}
	l := ls.Add(kind, fn)

	current := remote.GetAt(s.root, remote.SplitPath(path))
	for _, ev := range remote.Replay(kind, current, remote.LastSegment(path)) {
		ev := ev
		s.disp.Enqueue(func() { l.Deliver(ev) })
	}

	s.log.Debug().Str("path", path).Str("kind", string(kind)).Msg("subscribed")

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if ls.Remove(l) && s.subs[path] == ls {
				delete(s.subs, path)
			}
		})
	}
}

// Authenticate accepts any well-formed campaign token and reports its claims.
func (s *Store) Authenticate(_ context.Context, token string) (models.Auth, error) {
	return utils.ParseAuthClaims(token)
}

// Close stops event delivery after draining queued events. Later writes and
// reads fail with remote.ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.subs = make(map[string]*remote.Listeners)
	s.mu.Unlock()

	s.disp.Close()
	s.log.Info().Msg("store closed")
	return nil
}

type pendingWrite struct {
	path  string
	value any
}

func (s *Store) apply(ctx context.Context, writes []pendingWrite) error {
	for _, w := range writes {
		if err := remote.ValidatePath(w.path); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return remote.ErrClosed
	}

	next := s.root
	for _, w := range writes {
		next = remote.SetAt(next, remote.SplitPath(w.path), w.value)
	}
	if remote.Equal(s.root, next) {
		return nil
	}

	if s.persister != nil {
		journal := make([]Write, len(writes))
		for i, w := range writes {
			journal[i] = Write{Path: w.path, Value: remote.Encode(w.value)}
		}
		if err := s.persister.Persist(ctx, journal); err != nil {
			s.log.Err(err).Str("func", "memory.apply").Msg("journal write failed, rejecting write")
			return fmt.Errorf("persist write: %w", err)
		}
	}

	prev := s.root
	s.root = next
	s.notify(prev, next, writes)
	return nil
}

// notify must run with s.mu held so deliveries are queued in write order.
func (s *Store) notify(prev, next any, writes []pendingWrite) {
	paths := make([]string, 0, len(s.subs))
	for p := range s.subs {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		segs := remote.SplitPath(p)
		if !touches(segs, writes) {
			continue
		}

		events := remote.Changes(remote.GetAt(prev, segs), remote.GetAt(next, segs), remote.LastSegment(p))
		for _, dl := range s.subs[p].Route(events) {
			dl := dl
			s.disp.Enqueue(func() { dl.Listener.Deliver(dl.Event) })
		}
	}
}

func touches(segs []string, writes []pendingWrite) bool {
	for _, w := range writes {
		ws := remote.SplitPath(w.path)
		if remote.IsPrefix(ws, segs) || remote.IsPrefix(segs, ws) {
			return true
		}
	}
	return false
}
