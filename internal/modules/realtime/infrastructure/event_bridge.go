package infrastructure

import (
	"context"

	"mesaYaReservas/internal/modules/realtime/domain"
	reservationport "mesaYaReservas/internal/modules/reservations/application/port"
	reservations "mesaYaReservas/internal/modules/reservations/domain"
)

// MessageFromEvent converts a reservation event into a feed message.
func MessageFromEvent(event reservations.ReservationEvent) *domain.Message {
	metadata := make(map[string]string, len(event.Metadata))
	for k, v := range event.Metadata {
		metadata[k] = v
	}
	return &domain.Message{
		Topic:      event.Topic,
		Entity:     event.Entity,
		Action:     event.Action,
		ResourceID: event.ResourceID,
		Metadata:   metadata,
		Data:       event.Data,
		Timestamp:  event.OccurredAt,
	}
}

// LocalPublisher hands reservation events straight to the in-process feed,
// through the same registry the broker consumers use.
type LocalPublisher struct {
	registry *HandlerRegistry
	topic    string
}

func NewLocalPublisher(registry *HandlerRegistry, topic string) *LocalPublisher {
	return &LocalPublisher{registry: registry, topic: topic}
}

func (p *LocalPublisher) Publish(ctx context.Context, event reservations.ReservationEvent) error {
	return p.registry.Dispatch(ctx, p.topic, MessageFromEvent(event))
}

var _ reservationport.EventPublisher = (*LocalPublisher)(nil)
