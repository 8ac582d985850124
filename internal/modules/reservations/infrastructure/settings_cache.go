package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"mesaYaReservas/internal/modules/reservations/application/port"
)

const settingsCachePrefix = "mesaya:settings:"

// CachedSettingsStore memoizes settings reads for ttl. With a Redis client the
// cache is shared between instances; otherwise it lives in process memory.
// Cache failures fall through to the wrapped store.
type CachedSettingsStore struct {
	next port.SettingsStore
	rdb  *redis.Client
	ttl  time.Duration
	now  func() time.Time

	mu    sync.Mutex
	local map[string]cachedValues
}

type cachedValues struct {
	values  map[string]string
	expires time.Time
}

func NewCachedSettingsStore(next port.SettingsStore, rdb *redis.Client, ttl time.Duration) *CachedSettingsStore {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedSettingsStore{
		next:  next,
		rdb:   rdb,
		ttl:   ttl,
		now:   time.Now,
		local: make(map[string]cachedValues),
	}
}

func (c *CachedSettingsStore) GetValues(ctx context.Context, keys []string) (map[string]string, error) {
	cacheKey := settingsCacheKey(keys)
	if values, ok := c.lookup(ctx, cacheKey); ok {
		return values, nil
	}

	values, err := c.next.GetValues(ctx, keys)
	if err != nil {
		return nil, err
	}
	c.store(ctx, cacheKey, values)
	return values, nil
}

// Invalidate drops every cached settings entry.
func (c *CachedSettingsStore) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.local = make(map[string]cachedValues)
	c.mu.Unlock()

	if c.rdb == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, settingsCachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			slog.Warn("settings cache delete failed", slog.String("key", iter.Val()), slog.Any("error", err))
		}
	}
	if err := iter.Err(); err != nil {
		slog.Warn("settings cache scan failed", slog.Any("error", err))
	}
}

func (c *CachedSettingsStore) lookup(ctx context.Context, key string) (map[string]string, bool) {
	if c.rdb == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		entry, ok := c.local[key]
		if !ok || !c.now().Before(entry.expires) {
			return nil, false
		}
		return copyValues(entry.values), true
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("settings cache read failed", slog.Any("error", err))
		}
		return nil, false
	}
	var values map[string]string
	if err := json.Unmarshal(raw, &values); err != nil {
		slog.Warn("settings cache entry corrupt", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return values, true
}

func (c *CachedSettingsStore) store(ctx context.Context, key string, values map[string]string) {
	if c.rdb == nil {
		c.mu.Lock()
		c.local[key] = cachedValues{values: copyValues(values), expires: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return
	}

	encoded, err := json.Marshal(values)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
		slog.Warn("settings cache write failed", slog.Any("error", err))
	}
}

func settingsCacheKey(keys []string) string {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	return settingsCachePrefix + strings.Join(sorted, ",")
}

func copyValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

var _ port.SettingsStore = (*CachedSettingsStore)(nil)
