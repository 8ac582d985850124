package port

import (
	"context"
	"errors"

	"mesaYaReservas/internal/modules/reservations/domain"
)

// ErrLockTimeout is returned when a date lock could not be acquired in time.
var ErrLockTimeout = errors.New("reservation date lock timeout")

// EventPublisher announces persisted reservations to other services.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ReservationEvent) error
}

// DateLocker serializes the check-then-insert sequence for one date.
// The returned unlock func must be called exactly once.
type DateLocker interface {
	Lock(ctx context.Context, date string) (unlock func(), err error)
}
