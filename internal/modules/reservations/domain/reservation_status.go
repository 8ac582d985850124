package domain

import "strings"

// ReservationStatus is the lifecycle state stored with each reservation.
type ReservationStatus string

const (
	ReservationStatusUnknown   ReservationStatus = ""
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

var reservationStatusAliases = map[string]ReservationStatus{
	"pending":   ReservationStatusPending,
	"confirmed": ReservationStatusConfirmed,
	"cancelled": ReservationStatusCancelled,
	"canceled":  ReservationStatusCancelled,
}

// NormalizeReservationStatus returns the canonical status for value. Unknown
// statuses are lowercased and returned as-is to avoid data loss.
func NormalizeReservationStatus(value any) ReservationStatus {
	s, ok := value.(string)
	if !ok {
		return ReservationStatusUnknown
	}
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return ReservationStatusUnknown
	}
	if status, ok := reservationStatusAliases[trimmed]; ok {
		return status
	}
	return ReservationStatus(trimmed)
}

// Occupies reports whether a reservation in this status holds its slot.
// Only cancelled reservations release it.
func (s ReservationStatus) Occupies() bool {
	return s != ReservationStatusCancelled
}

// StatusForAutoConfirm picks the status of a newly accepted reservation.
func StatusForAutoConfirm(autoConfirm bool) ReservationStatus {
	if autoConfirm {
		return ReservationStatusConfirmed
	}
	return ReservationStatusPending
}
