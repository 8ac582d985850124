package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mesaYaReservas/internal/modules/reservations/domain"
	tables "mesaYaReservas/internal/modules/tables/domain"
)

var errStoreDown = errors.New("store down")

type fakeSettingsStore struct {
	values map[string]string
	err    error
	calls  int
}

func (f *fakeSettingsStore) GetValues(_ context.Context, keys []string) (map[string]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := f.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

type fakeTableStore struct {
	tables []tables.Table
	err    error
	calls  int
}

func (f *fakeTableStore) ListActiveTables(_ context.Context, minCapacity int) ([]tables.Table, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]tables.Table, 0, len(f.tables))
	for _, t := range f.tables {
		if t.Active && t.Capacity >= minCapacity {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeReservationStore struct {
	mu        sync.Mutex
	items     []domain.Reservation
	listErr   error
	createErr error
	listCalls int
	nextID    int
}

func (f *fakeReservationStore) ListReservationsForDate(_ context.Context, date string) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Reservation
	for _, r := range f.items {
		if r.Date == date && r.Status != domain.ReservationStatusCancelled {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) CreateReservation(_ context.Context, r domain.Reservation) (domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.Reservation{}, f.createErr
	}
	f.nextID++
	r.ID = fmt.Sprintf("res-%d", f.nextID)
	f.items = append(f.items, r)
	return r, nil
}

func (f *fakeReservationStore) ListReservationsBetween(_ context.Context, from, to string) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Reservation
	for _, r := range f.items {
		if r.Date >= from && r.Date <= to {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) ListRecentReservations(_ context.Context, limit int) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Reservation, 0, limit)
	for i := len(f.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.items[i])
	}
	return out, nil
}

func (f *fakeReservationStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

type fakePublisher struct {
	events []domain.ReservationEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event domain.ReservationEvent) error {
	f.events = append(f.events, event)
	return f.err
}

type fakeLocker struct {
	locked   []string
	unlocked int
	err      error
}

func (f *fakeLocker) Lock(_ context.Context, date string) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	f.locked = append(f.locked, date)
	return func() { f.unlocked++ }, nil
}
