package usecase

import (
	"fmt"
	"log/slog"
	"time"

	"mesaYaReservas/internal/modules/reservations/domain"
	tables "mesaYaReservas/internal/modules/tables/domain"
)

// TableAllocator assigns the smallest active table that fits the party and is
// free for the whole requested interval.
type TableAllocator struct {
	loc *time.Location
}

func NewTableAllocator(loc *time.Location) *TableAllocator {
	return &TableAllocator{loc: loc}
}

// Allocate decides on a table for partySize. existing holds the reservations
// of the requested date; cancelled ones and those without a table are ignored.
func (a *TableAllocator) Allocate(request domain.TimeRange, partySize int, candidates []tables.Table, existing []domain.Reservation) domain.Decision {
	eligible := tables.EligibleTables(candidates, partySize)
	if len(eligible) == 0 {
		return domain.Reject(domain.ErrNoCapacity)
	}

	busy := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		if r.TableID == "" || !r.Status.Occupies() {
			continue
		}
		if _, ok := busy[r.TableID]; ok {
			continue
		}
		if conflicts(r, request, a.loc) {
			busy[r.TableID] = struct{}{}
		}
	}

	for _, t := range eligible {
		if _, taken := busy[t.ID]; !taken {
			return domain.Accept(t.ID)
		}
	}
	return domain.Reject(fmt.Errorf("%w: no tables available at that time", domain.ErrFullyBooked))
}

// conflicts reports whether r overlaps request. A stored reservation whose
// date or time cannot be parsed is counted as conflicting.
func conflicts(r domain.Reservation, request domain.TimeRange, loc *time.Location) bool {
	interval, err := r.Interval(loc)
	if err != nil {
		slog.Warn("reservation with unreadable slot treated as conflicting",
			slog.String("reservationId", r.ID),
			slog.String("date", r.Date),
			slog.String("time", r.Time),
		)
		return true
	}
	return interval.Overlaps(request)
}
