package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"mesaYaReservas/internal/modules/reservations/application/port"
)

// LocalDateLocker serializes submissions per date inside one process.
type LocalDateLocker struct {
	mu    sync.Mutex
	dates map[string]*dateLock
}

type dateLock struct {
	ch   chan struct{}
	refs int
}

func NewLocalDateLocker() *LocalDateLocker {
	return &LocalDateLocker{dates: make(map[string]*dateLock)}
}

func (l *LocalDateLocker) Lock(ctx context.Context, date string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.dates[date]
	if !ok {
		entry = &dateLock{ch: make(chan struct{}, 1)}
		l.dates[date] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(date, entry, false)
		return nil, fmt.Errorf("%w: %v", port.ErrLockTimeout, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(date, entry, true) })
	}, nil
}

func (l *LocalDateLocker) release(date string, entry *dateLock, held bool) {
	if held {
		<-entry.ch
	}
	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.dates, date)
	}
	l.mu.Unlock()
}

var (
	releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`)
	renewScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return 0
`)
)

// RedisDateLocker serializes submissions per date across instances with a
// SET NX lease. The holder renews the lease every ttl/3 until it unlocks, so
// the lease only expires when the holder dies.
type RedisDateLocker struct {
	rdb  *redis.Client
	ttl  time.Duration
	poll time.Duration
}

func NewRedisDateLocker(rdb *redis.Client, ttl time.Duration) *RedisDateLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisDateLocker{rdb: rdb, ttl: ttl, poll: 50 * time.Millisecond}
}

func (l *RedisDateLocker) Lock(ctx context.Context, date string) (func(), error) {
	key := "mesaya:lock:reservations:" + date
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()
	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(waitCtx, key, token, l.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("%w: %s", port.ErrLockTimeout, date)
		case <-ticker.C:
		}
	}

	renewCtx, stopRenew := context.WithCancel(context.Background())
	renewed := make(chan struct{})
	go l.keepAlive(renewCtx, key, token, date, renewed)

	var once sync.Once
	return func() {
		once.Do(func() {
			stopRenew()
			<-renewed
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.rdb, []string{key}, token).Err(); err != nil && err != redis.Nil {
				slog.Warn("reservation lock release failed", slog.String("date", date), slog.Any("error", err))
			}
		})
	}, nil
}

// keepAlive extends the lease while ctx is live. It stops early when the key
// no longer carries token.
func (l *RedisDateLocker) keepAlive(ctx context.Context, key, token, date string, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		n, err := renewScript.Run(ctx, l.rdb, []string{key}, token, l.ttl.Milliseconds()).Int()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("reservation lock renewal failed", slog.String("date", date), slog.Any("error", err))
			continue
		}
		if n == 0 {
			slog.Warn("reservation lock lost before release", slog.String("date", date))
			return
		}
	}
}

var (
	_ port.DateLocker = (*LocalDateLocker)(nil)
	_ port.DateLocker = (*RedisDateLocker)(nil)
)
