package usecase

import (
	"context"
	"fmt"

	"mesaYaReservas/internal/modules/reservations/application/port"
	"mesaYaReservas/internal/modules/reservations/domain"
)

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 100
)

// ListReservationsUseCase serves the back office listings.
type ListReservationsUseCase struct {
	store port.ReservationStore
}

func NewListReservationsUseCase(store port.ReservationStore) *ListReservationsUseCase {
	return &ListReservationsUseCase{store: store}
}

// Between lists reservations of the inclusive date range. An empty to means
// a single day.
func (uc *ListReservationsUseCase) Between(ctx context.Context, from, to string) ([]domain.Reservation, error) {
	start, err := domain.ParseDate(from)
	if err != nil {
		return nil, err
	}
	end := start
	if to != "" {
		if end, err = domain.ParseDate(to); err != nil {
			return nil, err
		}
	}
	if end < start {
		return nil, fmt.Errorf("%w: range end %s before start %s", domain.ErrValidation, end, start)
	}

	items, err := uc.store.ListReservationsBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreRead, err)
	}
	return items, nil
}

// Recent lists the latest created reservations. limit is clamped to [1, 100]
// and defaults to 5.
func (uc *ListReservationsUseCase) Recent(ctx context.Context, limit int) ([]domain.Reservation, error) {
	switch {
	case limit <= 0:
		limit = defaultRecentLimit
	case limit > maxRecentLimit:
		limit = maxRecentLimit
	}
	items, err := uc.store.ListRecentReservations(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreRead, err)
	}
	return items, nil
}
