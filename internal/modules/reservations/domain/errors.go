package domain

import "errors"

var (
	// ErrValidation marks a request with missing or malformed fields.
	ErrValidation = errors.New("all fields are required")
	// ErrNoCapacity means no table (or the whole venue) can host the party at any time.
	ErrNoCapacity = errors.New("no capacity for this party size")
	// ErrFullyBooked means the party fits in principle but the requested slot is taken.
	ErrFullyBooked = errors.New("fully booked at that time")
	// ErrStoreRead wraps failures reading settings, tables or reservations.
	ErrStoreRead = errors.New("could not verify availability")
	// ErrStoreWrite wraps failures persisting an accepted reservation.
	ErrStoreWrite = errors.New("reservation was not saved")
)

// Reason is the machine readable failure code exposed to clients.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonValidation  Reason = "validation"
	ReasonNoCapacity  Reason = "no_capacity"
	ReasonFullyBooked Reason = "fully_booked"
	ReasonStoreRead   Reason = "store_read"
	ReasonStoreWrite  Reason = "store_write"
	ReasonUnknown     Reason = "unknown"
)

// ReasonOf classifies err into a Reason.
func ReasonOf(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrValidation):
		return ReasonValidation
	case errors.Is(err, ErrNoCapacity):
		return ReasonNoCapacity
	case errors.Is(err, ErrFullyBooked):
		return ReasonFullyBooked
	case errors.Is(err, ErrStoreRead):
		return ReasonStoreRead
	case errors.Is(err, ErrStoreWrite):
		return ReasonStoreWrite
	default:
		return ReasonUnknown
	}
}
