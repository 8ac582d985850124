package port

import (
	"context"

	"mesaYaReservas/internal/modules/reservations/domain"
	tables "mesaYaReservas/internal/modules/tables/domain"
)

// TableStore reads the dining room tables.
type TableStore interface {
	// ListActiveTables returns active tables seating at least minCapacity,
	// ordered by capacity ascending.
	ListActiveTables(ctx context.Context, minCapacity int) ([]tables.Table, error)
}

// ReservationStore reads and writes reservations.
type ReservationStore interface {
	// ListReservationsForDate returns the non-cancelled reservations of a day.
	ListReservationsForDate(ctx context.Context, date string) ([]domain.Reservation, error)
	// CreateReservation persists r and returns it with its id and creation time.
	CreateReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error)
	// ListReservationsBetween returns reservations with from <= date <= to
	// ordered by date and time.
	ListReservationsBetween(ctx context.Context, from, to string) ([]domain.Reservation, error)
	// ListRecentReservations returns the latest created reservations first.
	ListRecentReservations(ctx context.Context, limit int) ([]domain.Reservation, error)
}

// SettingsStore is the key/value content store holding the res_* settings.
// Missing keys are simply absent from the returned map.
type SettingsStore interface {
	GetValues(ctx context.Context, keys []string) (map[string]string, error)
}

// TableWriter maintains the dining room tables.
type TableWriter interface {
	UpsertTable(ctx context.Context, table tables.Table) error
}

// SettingsWriter stores one setting value as site content.
type SettingsWriter interface {
	SetValue(ctx context.Context, key, value string) error
}
