package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/parwely/brands-intelligence-platform/internal/domain"
	"github.com/parwely/brands-intelligence-platform/internal/metrics"
)

// defaultMaxEntries bounds the memory cache; oldest-expiry entries are
// evicted first when the cap is hit.
const defaultMaxEntries = 4096

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process ResultCache with per-entry TTLs. Expired
// entries are dropped lazily on read and swept on write when the cache
// is full. Safe for concurrent use.
type Memory struct {
	clock      clockwork.Clock
	maxEntries int

	mu      sync.Mutex
	entries map[string]memoryEntry
}

var _ domain.ResultCache = (*Memory)(nil)

// NewMemory creates an in-process cache. maxEntries <= 0 uses the
// default cap.
func NewMemory(clock clockwork.Clock, maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Memory{
		clock:      clock,
		maxEntries: maxEntries,
		entries:    make(map[string]memoryEntry),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.clock.Now().Before(entry.expiresAt) {
		delete(m.entries, key)
		metrics.CacheEntries.Set(float64(len(m.entries)))
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.evictLocked()
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: m.clock.Now().Add(ttl)}
	metrics.CacheEntries.Set(float64(len(m.entries)))
	return nil
}

// Len reports the current entry count, including not-yet-swept expired
// entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// evictLocked drops expired entries, then the entry closest to expiry
// if the cache is still full. Caller holds the lock.
func (m *Memory) evictLocked() {
	now := m.clock.Now()
	for key, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
	if len(m.entries) < m.maxEntries {
		return
	}

	var oldestKey string
	var oldestExpiry time.Time
	for key, entry := range m.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldestExpiry) {
			oldestKey = key
			oldestExpiry = entry.expiresAt
		}
	}
	delete(m.entries, oldestKey)
}
