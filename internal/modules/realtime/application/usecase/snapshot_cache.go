package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"mesaYaReservas/internal/modules/realtime/application/port"
	"mesaYaReservas/internal/modules/realtime/domain"
)

// SnapshotLoader reads the current state of one feed entity.
type SnapshotLoader func(ctx context.Context) (any, error)

// SnapshotCache keeps the last snapshot per entity so a burst of connecting
// dashboards reads the store once. Entries expire after ttl and are dropped
// as soon as a message for the entity is broadcast.
type SnapshotCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]snapshotCacheEntry
}

type snapshotCacheEntry struct {
	data      any
	fetchedAt time.Time
}

func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]snapshotCacheEntry),
	}
}

// Get returns the cached snapshot for entity or calls load and caches its
// result. Load errors are not cached.
func (c *SnapshotCache) Get(ctx context.Context, entity string, load SnapshotLoader) (any, error) {
	key := strings.ToLower(strings.TrimSpace(entity))
	if data, ok := c.lookup(key); ok {
		return data, nil
	}
	data, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if c.ttl > 0 {
		c.mu.Lock()
		c.entries[key] = snapshotCacheEntry{data: data, fetchedAt: c.now()}
		c.mu.Unlock()
	}
	return data, nil
}

func (c *SnapshotCache) lookup(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.fetchedAt) >= c.ttl {
		return nil, false
	}
	return entry.data, true
}

// Invalidate drops the snapshot of entity.
func (c *SnapshotCache) Invalidate(entity string) {
	key := strings.ToLower(strings.TrimSpace(entity))
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Observe wraps next so every broadcast invalidates the snapshot of the
// message entity before delivery.
func (c *SnapshotCache) Observe(next port.Broadcaster) port.Broadcaster {
	return invalidatingBroadcaster{cache: c, next: next}
}

type invalidatingBroadcaster struct {
	cache *SnapshotCache
	next  port.Broadcaster
}

func (b invalidatingBroadcaster) Broadcast(ctx context.Context, msg *domain.Message) {
	if msg != nil {
		b.cache.Invalidate(msg.Entity)
	}
	b.next.Broadcast(ctx, msg)
}
