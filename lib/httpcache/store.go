// Package httpcache caches HTTP responses of the crawlers behind an injected
// Store with a time-to-live, so repeated crawls within a day hit the network once.
package httpcache

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"
)

// DefaultTTL is how long responses stay fresh unless configured otherwise.
const DefaultTTL = 24 * time.Hour

const (
	cacheFilePermissions = 0o600

	// BackendFile stores one file per response.
	BackendFile = "file"
	// BackendSQLite stores responses in a single SQLite database.
	BackendSQLite = "sqlite"
	// BackendMemory keeps responses for the current run only.
	BackendMemory = "memory"
	// BackendNone disables caching.
	BackendNone = "none"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown cache backend")

// Store is a key/value store whose values expire after a time-to-live.
// Implementations are safe for concurrent use.
type Store interface {
	// Get returns the fresh value stored under key.
	Get(key string) ([]byte, bool)
	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error
	// Clear removes every stored value.
	Clear() error
	// Close releases the resources held by the store.
	Close() error
}

// Open returns the Store for backend rooted at dir.
func Open(backend, dir string, ttl time.Duration) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(dir, ttl)
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(dir, "http_cache.sqlite"), ttl)
	case BackendMemory:
		return NewMemoryStore(ttl), nil
	case BackendNone:
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// NopStore stores nothing.
type NopStore struct{}

// Get always misses.
func (NopStore) Get(string) ([]byte, bool) { return nil, false }

// Put discards the value.
func (NopStore) Put(string, []byte) error { return nil }

// Clear does nothing.
func (NopStore) Clear() error { return nil }

// Close does nothing.
func (NopStore) Close() error { return nil }

type memoryEntry struct {
	value    []byte
	storedAt time.Time
}

// MemoryStore keeps values in memory for the life of the process.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore returns an empty MemoryStore. A ttl of zero never expires values.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

// Get returns the fresh value stored under key.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}

	if expired(entry.storedAt, s.ttl, s.now()) {
		delete(s.entries, key)

		return nil, false
	}

	return entry.value, true
}

// Put stores a copy of value under key.
func (s *MemoryStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{value: append([]byte(nil), value...), storedAt: s.now()}

	return nil
}

// Clear removes every value.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]memoryEntry)

	return nil
}

// Close does nothing.
func (s *MemoryStore) Close() error { return nil }

func expired(storedAt time.Time, ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(storedAt) > ttl
}
