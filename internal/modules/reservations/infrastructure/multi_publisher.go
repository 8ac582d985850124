package infrastructure

import (
	"context"
	"errors"

	"mesaYaReservas/internal/modules/reservations/application/port"
	"mesaYaReservas/internal/modules/reservations/domain"
)

// MultiPublisher sends each event to every publisher and joins their errors.
type MultiPublisher []port.EventPublisher

func (m MultiPublisher) Publish(ctx context.Context, event domain.ReservationEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ port.EventPublisher = MultiPublisher(nil)
