package domain

import (
	"time"

	"mesaYaReservas/internal/shared/normalization"
)

// Reservation is a booking for a calendar day and a local wall clock time.
// TableID is empty in capacity mode.
type Reservation struct {
	ID        string            `json:"id"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	PartySize int               `json:"partySize"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Status    ReservationStatus `json:"status"`
	TableID   string            `json:"tableId,omitempty"`
	CreatedAt time.Time         `json:"createdAt,omitempty"`
}

// Interval returns the time range the reservation occupies in loc.
func (r Reservation) Interval(loc *time.Location) (TimeRange, error) {
	return NewTimeRange(r.Date, r.Time, loc)
}

// NormalizeReservation constructs a Reservation from a store row. Both the
// snake_case column names and camelCase API names are understood.
func NormalizeReservation(raw map[string]any) (Reservation, bool) {
	id := normalization.AsString(raw["id"])
	if id == "" {
		return Reservation{}, false
	}

	reservation := Reservation{
		ID:        id,
		Date:      normalization.AsString(raw["date"]),
		Time:      normalization.AsString(raw["time"]),
		PartySize: firstPositive(normalization.AsInt(raw["party_size"]), normalization.AsInt(raw["partySize"])),
		Name:      normalization.AsString(raw["name"]),
		Email:     normalization.AsString(raw["email"]),
		Phone:     normalization.AsString(raw["phone"]),
		Status:    NormalizeReservationStatus(raw["status"]),
		TableID:   firstNonEmpty(normalization.AsString(raw["table_id"]), normalization.AsString(raw["tableId"])),
	}
	if day, err := ParseDate(reservation.Date); err == nil {
		reservation.Date = day
	}
	if clock, err := ParseClock(reservation.Time); err == nil {
		reservation.Time = clock
	}

	created := firstNonEmpty(normalization.AsString(raw["created_at"]), normalization.AsString(raw["createdAt"]))
	if created != "" {
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			reservation.CreatedAt = ts
		}
	}

	return reservation, true
}

// BuildReservationList projects store rows into reservations, skipping rows
// that cannot be normalized.
func BuildReservationList(items []any) []Reservation {
	result := make([]Reservation, 0, len(items))
	for _, item := range items {
		if rawMap, ok := item.(map[string]any); ok {
			if reservation, ok := NormalizeReservation(rawMap); ok {
				result = append(result, reservation)
			}
		}
	}
	return result
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
