package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"mesaYaReservas/internal/modules/reservations/application/port"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisDateLockerRenewsWhileHeld(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	const ttl = 300 * time.Millisecond
	locker := NewRedisDateLocker(rdb, ttl)

	unlock, err := locker.Lock(context.Background(), "2025-06-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Without renewal the lease would be gone after the second step.
	for i := 0; i < 4; i++ {
		time.Sleep(ttl / 2)
		mr.FastForward(ttl / 2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := locker.Lock(ctx, "2025-06-01"); !errors.Is(err, port.ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout while the first holder is active, got %v", err)
	}

	unlock()
	unlock()
	if mr.Exists("mesaya:lock:reservations:2025-06-01") {
		t.Fatal("expected lease released on unlock")
	}

	again, err := locker.Lock(context.Background(), "2025-06-01")
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	again()
}

func TestRedisDateLockerLeaseExpiresWhenHolderDies(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	locker := NewRedisDateLocker(rdb, time.Second)

	if err := mr.Set("mesaya:lock:reservations:2025-06-01", "crashed-holder"); err != nil {
		t.Fatalf("seed lease: %v", err)
	}
	mr.SetTTL("mesaya:lock:reservations:2025-06-01", time.Second)
	mr.FastForward(2 * time.Second)

	unlock, err := locker.Lock(context.Background(), "2025-06-01")
	if err != nil {
		t.Fatalf("expected expired lease to be taken over, got %v", err)
	}
	unlock()
}

func TestRedisDateLockerReleaseKeepsForeignLease(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	locker := NewRedisDateLocker(rdb, time.Second)

	unlock, err := locker.Lock(context.Background(), "2025-06-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Another holder took the key after ours was lost.
	if err := mr.Set("mesaya:lock:reservations:2025-06-01", "other-holder"); err != nil {
		t.Fatalf("overwrite lease: %v", err)
	}
	unlock()

	got, err := mr.Get("mesaya:lock:reservations:2025-06-01")
	if err != nil || got != "other-holder" {
		t.Fatalf("expected foreign lease untouched, got %q (%v)", got, err)
	}
}

func TestCachedSettingsStoreSharesRedisEntries(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	store := &countingSettingsStore{values: map[string]string{"res_mode": "capacity"}}

	first := NewCachedSettingsStore(store, rdb, time.Minute)
	second := NewCachedSettingsStore(store, rdb, time.Minute)

	if _, err := first.GetValues(context.Background(), []string{"res_mode"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values, err := second.GetValues(context.Background(), []string{"res_mode"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values["res_mode"] != "capacity" || store.calls != 1 {
		t.Fatalf("expected shared cache hit, got %v after %d store calls", values, store.calls)
	}
	if ttl := mr.TTL(settingsCachePrefix + "res_mode"); ttl != time.Minute {
		t.Fatalf("expected entry ttl of 1m, got %s", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := second.GetValues(context.Background(), []string{"res_mode"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.calls != 2 {
		t.Fatalf("expected store read after expiry, got %d calls", store.calls)
	}

	store.values["res_mode"] = "tables"
	first.Invalidate(context.Background())
	values, _ = second.GetValues(context.Background(), []string{"res_mode"})
	if values["res_mode"] != "tables" || store.calls != 3 {
		t.Fatalf("expected fresh value after invalidate, got %v after %d calls", values, store.calls)
	}
}

func TestCachedSettingsStoreFallsThroughOnCorruptEntry(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	store := &countingSettingsStore{values: map[string]string{"res_mode": "capacity"}}
	cache := NewCachedSettingsStore(store, rdb, time.Minute)

	if err := mr.Set(settingsCachePrefix+"res_mode", "{not json"); err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	values, err := cache.GetValues(context.Background(), []string{"res_mode"})
	if err != nil || values["res_mode"] != "capacity" || store.calls != 1 {
		t.Fatalf("expected store read on corrupt entry, got %v (%v) after %d calls", values, err, store.calls)
	}
}
