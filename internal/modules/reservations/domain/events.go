package domain

import "time"

const (
	// EventEntity is the entity name used on the event bus and the live feed.
	EventEntity = "reservations"
	// ActionCreated is emitted after a reservation is persisted.
	ActionCreated = "created"
)

// ReservationEvent is the envelope published on the event bus. It follows the
// entity/action/resourceId shape consumed by the live feed.
type ReservationEvent struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Topic      string            `json:"topic"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       Reservation       `json:"data"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// NewReservationCreatedEvent wraps a persisted reservation.
func NewReservationCreatedEvent(r Reservation, now time.Time) ReservationEvent {
	metadata := map[string]string{
		"date":   r.Date,
		"status": string(r.Status),
	}
	if r.TableID != "" {
		metadata["tableId"] = r.TableID
	}
	return ReservationEvent{
		Entity:     EventEntity,
		Action:     ActionCreated,
		ResourceID: r.ID,
		Topic:      EventEntity + "." + ActionCreated,
		Metadata:   metadata,
		Data:       r,
		OccurredAt: now.UTC(),
	}
}
