package render

import (
	"context"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/reportkit"
)

var (
	_ reportkit.Cache = (*MemStore)(nil)
	_ reportkit.Cache = (*EnvelopeStore)(nil)
)

// MemStore is an in-memory reportkit.Cache for tests and single-process
// deployments. Expired entries are dropped lazily on access.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
}

type memEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]memEntry)}
}

func (s *MemStore) get(key string) (string, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return "", false
	}
	return e.value, true
}

// Exists implements reportkit.Cache.
func (s *MemStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.get(key)
	return ok, nil
}

// Fetch implements reportkit.Cache.
func (s *MemStore) Fetch(_ context.Context, key string) (string, error) {
	v, ok := s.get(key)
	if !ok {
		return "", reportkit.ErrCacheMiss
	}
	return v, nil
}

// Write implements reportkit.Cache.
func (s *MemStore) Write(_ context.Context, key, value string, ttl time.Duration) error {
	e := memEntry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, including not-yet-collected
// expired ones.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// ByteStore is a byte-oriented external key/value store (e.g., Redis,
// Memcached). Get returns nil, nil when the key doesn't exist.
type ByteStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Envelope is the stored form of a cached artifact in an EnvelopeStore.
type Envelope struct {
	Content   string    `msgpack:"content"`
	CreatedAt time.Time `msgpack:"created_at"`
}

// EnvelopeStore adapts a ByteStore to reportkit.Cache by encoding each
// artifact as a msgpack envelope, so the underlying store keeps opaque
// bytes while the cache stamps creation metadata.
type EnvelopeStore struct {
	inner ByteStore
	now   func() time.Time
}

// NewEnvelopeStore wraps a byte-oriented store.
func NewEnvelopeStore(inner ByteStore) *EnvelopeStore {
	return &EnvelopeStore{inner: inner, now: time.Now}
}

// Exists implements reportkit.Cache.
func (s *EnvelopeStore) Exists(ctx context.Context, key string) (bool, error) {
	data, err := s.inner.Get(ctx, key)
	if err != nil {
		return false, reportkit.NewStoreError("exists", key, err)
	}
	return data != nil, nil
}

// Fetch implements reportkit.Cache.
func (s *EnvelopeStore) Fetch(ctx context.Context, key string) (string, error) {
	env, err := s.Entry(ctx, key)
	if err != nil {
		return "", err
	}
	return env.Content, nil
}

// Entry returns the full stored envelope, metadata included.
func (s *EnvelopeStore) Entry(ctx context.Context, key string) (*Envelope, error) {
	data, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, reportkit.NewStoreError("fetch", key, err)
	}
	if data == nil {
		return nil, reportkit.ErrCacheMiss
	}
	env := &Envelope{}
	if err := msgpack.Unmarshal(data, env); err != nil {
		return nil, reportkit.NewStoreError("fetch", key, err)
	}
	return env, nil
}

// Write implements reportkit.Cache.
func (s *EnvelopeStore) Write(ctx context.Context, key, value string, ttl time.Duration) error {
	data, err := msgpack.Marshal(&Envelope{Content: value, CreatedAt: s.now()})
	if err != nil {
		return reportkit.NewStoreError("write", key, err)
	}
	if err := s.inner.Set(ctx, key, data, ttl); err != nil {
		return reportkit.NewStoreError("write", key, err)
	}
	return nil
}
