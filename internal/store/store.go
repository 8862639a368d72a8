// Package store implements the durable keyed store: a typed, observable
// mapping from a string key to a JSON value. Handles opened on the same key
// within one process see each other's writes immediately; writes made by
// other processes arrive through the backend's watch.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/julianstephens/chronos/internal/logger"
)

// Backend persists raw values. Implementations live in the memory, sqlite
// and postgres subpackages.
type Backend interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Watch calls onChange with the key of every change committed by another
	// writer until ctx is cancelled. An empty key means "anything may have
	// changed". Watch must not block.
	Watch(ctx context.Context, onChange func(key string)) error
	Close() error
}

// Revision is one superseded value of a key.
type Revision struct {
	Rev        int64
	Value      []byte
	ReplacedAt time.Time
}

// Historian is implemented by backends that retain superseded values.
type Historian interface {
	History(ctx context.Context, key string, limit int) ([]Revision, error)
}

// observer is the untyped side of a Key[T] the store dispatches to.
type observer interface {
	adopt(raw []byte, ok bool)
}

// Store fans changes out to every open handle.
type Store struct {
	backend Backend

	mu        sync.Mutex
	observers map[string]map[observer]struct{}

	cancel context.CancelFunc
	closed bool
}

// New wraps backend and starts watching it for external changes.
func New(backend Backend) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		backend:   backend,
		observers: make(map[string]map[observer]struct{}),
		cancel:    cancel,
	}
	if err := backend.Watch(ctx, s.externalChange); err != nil {
		logger.Warn("Store watch unavailable, cross-process changes will not propagate", "error", err)
	}
	return s
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Close stops the watch and closes the backend.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	return s.backend.Close()
}

func (s *Store) register(key string, o observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.observers[key] == nil {
		s.observers[key] = make(map[observer]struct{})
	}
	s.observers[key][o] = struct{}{}
}

func (s *Store) unregister(key string, o observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.observers[key], o)
	if len(s.observers[key]) == 0 {
		delete(s.observers, key)
	}
}

func (s *Store) peers(key string, except observer) []observer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]observer, 0, len(s.observers[key]))
	for o := range s.observers[key] {
		if o != except {
			out = append(out, o)
		}
	}
	return out
}

func (s *Store) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.observers))
	for k := range s.observers {
		out = append(out, k)
	}
	return out
}

// broadcast is the in-process change signal: peers adopt the new raw value
// directly, so they stay in sync even when the backend write failed.
func (s *Store) broadcast(key string, from observer, raw []byte, ok bool) {
	for _, o := range s.peers(key, from) {
		o.adopt(raw, ok)
	}
}

func (s *Store) externalChange(key string) {
	if key == "" {
		for _, k := range s.keys() {
			s.reload(k)
		}
		return
	}
	s.reload(key)
}

func (s *Store) reload(key string) {
	observers := s.peers(key, nil)
	if len(observers) == 0 {
		return
	}
	raw, ok, err := s.backend.Get(context.Background(), key)
	if err != nil {
		logger.Warn("Failed to re-read changed key", "key", key, "error", err)
		return
	}
	for _, o := range observers {
		o.adopt(raw, ok)
	}
}

// Key is a typed handle on one store key.
type Key[T any] struct {
	store    *Store
	name     string
	fallback []byte

	mu     sync.RWMutex
	raw    []byte // nil means "use fallback"
	subs   map[int]func(T)
	nextID int
}

// Open returns a handle on key, loading the persisted value synchronously. A
// missing or unparseable value leaves the handle on fallback.
func Open[T any](s *Store, key string, fallback T) *Key[T] {
	fb, err := json.Marshal(fallback)
	if err != nil {
		// Only reachable with a T that cannot be encoded at all.
		panic("store: fallback for " + key + " is not JSON-encodable: " + err.Error())
	}
	k := &Key[T]{
		store:    s,
		name:     key,
		fallback: fb,
		subs:     make(map[int]func(T)),
	}

	raw, ok, err := s.backend.Get(context.Background(), key)
	switch {
	case err != nil:
		logger.Warn("Failed to load key, using fallback", "key", key, "error", err)
	case ok && k.valid(raw):
		k.raw = raw
	case ok:
		logger.Warn("Malformed persisted value, using fallback", "key", key)
	}

	s.register(key, k)
	return k
}

// Name returns the store key.
func (k *Key[T]) Name() string {
	return k.name
}

func (k *Key[T]) valid(raw []byte) bool {
	var v T
	return json.Unmarshal(raw, &v) == nil
}

func (k *Key[T]) decode(raw []byte) T {
	var v T
	if raw == nil {
		raw = k.fallback
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		// raw was validated on adoption; only the fallback path can land here
		logger.Error("Failed to decode value", "key", k.name, "error", err)
	}
	return v
}

// Get returns a fresh copy of the current value. Callers may mutate it freely.
func (k *Key[T]) Get() T {
	k.mu.RLock()
	raw := k.raw
	k.mu.RUnlock()
	return k.decode(raw)
}

// Set replaces the value. Persistence failures are logged and swallowed: the
// in-memory value and all in-process observers still update.
func (k *Key[T]) Set(v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to encode value, write dropped", "key", k.name, "error", err)
		return
	}

	k.mu.Lock()
	k.raw = raw
	k.mu.Unlock()

	if err := k.store.backend.Put(context.Background(), k.name, raw); err != nil {
		logger.Error("Failed to persist value, continuing in memory", "key", k.name, "error", err)
	}

	k.notify(v)
	k.store.broadcast(k.name, k, raw, true)
}

// Update applies fn to a copy of the current value and stores the result.
// It is not atomic with respect to other processes: the last write wins.
func (k *Key[T]) Update(fn func(T) T) T {
	next := fn(k.Get())
	k.Set(next)
	return next
}

// Remove deletes the persisted value. Every handle on the key reverts to its
// own fallback.
func (k *Key[T]) Remove() {
	k.mu.Lock()
	k.raw = nil
	k.mu.Unlock()

	if err := k.store.backend.Delete(context.Background(), k.name); err != nil {
		logger.Error("Failed to delete value", "key", k.name, "error", err)
	}

	k.notify(k.decode(nil))
	k.store.broadcast(k.name, k, nil, false)
}

// Subscribe registers fn to run after every change to the value, whatever
// its source. fn must not mutate its argument. The returned func cancels
// the subscription.
func (k *Key[T]) Subscribe(fn func(T)) func() {
	k.mu.Lock()
	id := k.nextID
	k.nextID++
	k.subs[id] = fn
	k.mu.Unlock()

	return func() {
		k.mu.Lock()
		delete(k.subs, id)
		k.mu.Unlock()
	}
}

// Close detaches the handle from change propagation.
func (k *Key[T]) Close() {
	k.store.unregister(k.name, k)
	k.mu.Lock()
	k.subs = make(map[int]func(T))
	k.mu.Unlock()
}

func (k *Key[T]) adopt(raw []byte, ok bool) {
	if ok && !k.valid(raw) {
		logger.Warn("Ignoring malformed value from change notification", "key", k.name)
		return
	}
	if !ok {
		raw = nil
	}

	k.mu.Lock()
	k.raw = raw
	k.mu.Unlock()

	k.notify(k.decode(raw))
}

func (k *Key[T]) notify(v T) {
	k.mu.RLock()
	subs := make([]func(T), 0, len(k.subs))
	for _, fn := range k.subs {
		subs = append(subs, fn)
	}
	k.mu.RUnlock()

	for _, fn := range subs {
		fn(v)
	}
}
