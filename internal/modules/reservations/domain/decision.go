package domain

// Decision is the outcome of an availability check. Rejected decisions carry
// ErrNoCapacity or ErrFullyBooked in Err.
type Decision struct {
	Accepted bool
	TableID  string
	Err      error
}

func Accept(tableID string) Decision {
	return Decision{Accepted: true, TableID: tableID}
}

func Reject(err error) Decision {
	return Decision{Err: err}
}

// SubmissionResult is the structured answer returned to the guest.
type SubmissionResult struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	TableID       string            `json:"tableId,omitempty"`
	Status        ReservationStatus `json:"status,omitempty"`
	ReservationID string            `json:"reservationId,omitempty"`
	Reason        Reason            `json:"reason,omitempty"`
}

// AvailabilityResult answers a dry-run availability check.
type AvailabilityResult struct {
	Available bool              `json:"available"`
	Message   string            `json:"message"`
	Mode      AllocationMode    `json:"mode,omitempty"`
	TableID   string            `json:"tableId,omitempty"`
	Status    ReservationStatus `json:"status,omitempty"`
	Reason    Reason            `json:"reason,omitempty"`
}
