package usecase

import (
	"fmt"
	"time"

	"mesaYaReservas/internal/modules/reservations/domain"
)

// CapacityAccumulator admits a party while the covers seated at the same time
// stay within the venue ceiling.
type CapacityAccumulator struct {
	loc *time.Location
}

func NewCapacityAccumulator(loc *time.Location) *CapacityAccumulator {
	return &CapacityAccumulator{loc: loc}
}

// Check sums the party sizes of non-cancelled reservations overlapping request.
// Reaching maxCapacity exactly is allowed.
func (a *CapacityAccumulator) Check(request domain.TimeRange, partySize, maxCapacity int, existing []domain.Reservation) domain.Decision {
	if partySize > maxCapacity {
		return domain.Reject(fmt.Errorf("%w: party of %d exceeds capacity %d", domain.ErrNoCapacity, partySize, maxCapacity))
	}

	seated := 0
	for _, r := range existing {
		if !r.Status.Occupies() {
			continue
		}
		if conflicts(r, request, a.loc) {
			seated += r.PartySize
		}
	}

	if seated+partySize > maxCapacity {
		return domain.Reject(fmt.Errorf("%w: no capacity available at that time (%d of %d covers taken)", domain.ErrFullyBooked, seated, maxCapacity))
	}
	return domain.Accept("")
}
