package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Adapter stores raw entries. Implementations must be safe for concurrent
// use. Get reports a missing key with found=false and a nil error.
type Adapter interface {
	Name() string
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set stores value; a zero ttl means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Add stores value only when key is absent.
	Add(ctx context.Context, key string, value []byte, ttl time.Duration) (added bool, err error)
	Delete(ctx context.Context, keys ...string) (removed int, err error)
	// Clear removes every key starting with prefix.
	Clear(ctx context.Context, prefix string) error
	Close() error
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// MemoryAdapter keeps entries in a map. Expired entries are dropped lazily
// when touched or swept by Purge.
type MemoryAdapter struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// MemoryOption configures a MemoryAdapter.
type MemoryOption func(*MemoryAdapter)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryAdapter) { m.now = now }
}

// NewMemoryAdapter creates an empty in-process adapter.
func NewMemoryAdapter(opts ...MemoryOption) *MemoryAdapter {
	m := &MemoryAdapter{entries: make(map[string]memoryEntry), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryAdapter) Name() string { return "memory" }

func (m *MemoryAdapter) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.lookup(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), e.data...), true, nil
}

func (m *MemoryAdapter) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = m.entry(value, ttl)
	return nil
}

func (m *MemoryAdapter) Add(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lookup(key); ok {
		return false, nil
	}
	m.entries[key] = m.entry(value, ttl)
	return true, nil
}

func (m *MemoryAdapter) Delete(_ context.Context, keys ...string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for _, k := range keys {
		if _, ok := m.lookup(k); ok {
			delete(m.entries, k)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryAdapter) Clear(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}

// Purge drops every expired entry and returns how many were removed.
func (m *MemoryAdapter) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryAdapter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryAdapter) Close() error { return nil }

// lookup must be called with mu held.
func (m *MemoryAdapter) lookup(key string) (memoryEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if e.expired(m.now()) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

func (m *MemoryAdapter) entry(value []byte, ttl time.Duration) memoryEntry {
	e := memoryEntry{data: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	return e
}
