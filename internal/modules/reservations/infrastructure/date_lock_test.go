package infrastructure

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mesaYaReservas/internal/modules/reservations/application/port"
)

func TestLocalDateLockerSerializesSameDate(t *testing.T) {
	t.Parallel()

	locker := NewLocalDateLocker()
	unlock, err := locker.Lock(context.Background(), "2025-06-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := locker.Lock(ctx, "2025-06-01"); !errors.Is(err, port.ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout while held, got %v", err)
	}

	other, err := locker.Lock(context.Background(), "2025-06-02")
	if err != nil {
		t.Fatalf("expected other dates to lock independently, got %v", err)
	}
	other()

	unlock()
	unlock()
	again, err := locker.Lock(context.Background(), "2025-06-01")
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	again()

	locker.mu.Lock()
	defer locker.mu.Unlock()
	if len(locker.dates) != 0 {
		t.Fatalf("expected no lingering entries, got %d", len(locker.dates))
	}
}

func TestLocalDateLockerMutualExclusion(t *testing.T) {
	t.Parallel()

	locker := NewLocalDateLocker()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "2025-06-01")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	if maxSeen != 1 {
		t.Fatalf("expected one holder at a time, got %d", maxSeen)
	}
}
