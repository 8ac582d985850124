package domain

import (
	"testing"
	"time"
)

func TestBuildReservationList(t *testing.T) {
	items := []any{
		map[string]any{
			"id": "res-1", "date": "2024-06-01", "time": "20:00:00", "party_size": float64(4),
			"status": "pending", "table_id": float64(7), "created_at": "2024-05-30T10:00:00.123Z",
		},
		map[string]any{"id": "res-2", "date": "2024-06-01", "time": "21:00", "partySize": 2, "status": "confirmed"},
		map[string]any{"date": "2024-06-01"},
	}

	list := BuildReservationList(items)
	if len(list) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list))
	}
	first := list[0]
	if first.Time != "20:00" {
		t.Fatalf("expected time without seconds, got %s", first.Time)
	}
	if first.PartySize != 4 || first.TableID != "7" {
		t.Fatalf("unexpected first reservation: %+v", first)
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be parsed")
	}
	if list[1].Status != ReservationStatusConfirmed || list[1].TableID != "" {
		t.Fatalf("unexpected second reservation: %+v", list[1])
	}
}

func TestReservationInterval(t *testing.T) {
	r := Reservation{Date: "2024-06-01", Time: "20:00"}
	interval, err := r.Interval(time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := interval.End.Sub(interval.Start); got != ServiceDuration {
		t.Fatalf("expected %s duration, got %s", ServiceDuration, got)
	}
}

func TestNewReservationCreatedEvent(t *testing.T) {
	r := Reservation{ID: "res-9", Date: "2024-06-01", Time: "20:00", Status: ReservationStatusPending, TableID: "t-1"}
	event := NewReservationCreatedEvent(r, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	if event.Topic != "reservations.created" {
		t.Fatalf("unexpected topic %s", event.Topic)
	}
	if event.ResourceID != "res-9" || event.Metadata["tableId"] != "t-1" {
		t.Fatalf("unexpected event %+v", event)
	}
}
