package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"mesaYaReservas/internal/modules/reservations/domain"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *PostgRESTStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewPostgRESTStore(NewRESTClient(server.URL, "anon-key", 0, nil))
}

func TestPostgRESTListActiveTables(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/restaurant_tables" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("capacity") != "gte.3" || q.Get("is_active") != "eq.true" || q.Get("order") != "capacity.asc" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("apikey") != "anon-key" || r.Header.Get("Authorization") != "Bearer anon-key" {
			t.Errorf("missing api key headers")
		}
		_, _ = io.WriteString(w, `[{"id":4,"name":"Ventana","capacity":4,"is_active":true},{"id":6,"capacity":6,"is_active":true}]`)
	})

	got, err := store.ListActiveTables(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "4" || got[0].Capacity != 4 || got[0].Name != "Ventana" {
		t.Fatalf("unexpected tables %+v", got)
	}
}

func TestPostgRESTListReservationsForDate(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("date") != "eq.2025-06-01" || q.Get("status") != "neq.cancelled" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `[{"id":"r1","date":"2025-06-01","time":"19:00:00","party_size":2,"status":"confirmed","table_id":4}]`)
	})

	got, err := store.ListReservationsForDate(context.Background(), "2025-06-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Time != "19:00" || got[0].TableID != "4" || got[0].PartySize != 2 {
		t.Fatalf("unexpected reservations %+v", got)
	}
}

func TestPostgRESTCreateReservation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Prefer") != "return=representation" {
			t.Errorf("expected representation preference")
		}
		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if row["table_id"] != float64(4) || row["party_size"] != float64(2) || row["status"] != "pending" {
			t.Errorf("unexpected row %v", row)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"id":"new-1","date":"2025-06-01","time":"20:00:00","party_size":2,"status":"pending","table_id":4,"created_at":"2025-05-01T09:00:00Z"}]`)
	})

	created, err := store.CreateReservation(context.Background(), domain.Reservation{
		Date: "2025-06-01", Time: "20:00", PartySize: 2, Name: "Ana", Email: "a@x.com", Phone: "600000000",
		Status: domain.ReservationStatusPending, TableID: "4",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "new-1" || created.CreatedAt.IsZero() {
		t.Fatalf("unexpected created reservation %+v", created)
	}
}

func TestPostgRESTGetValues(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "in.(res_mode,res_max_capacity)" {
			t.Errorf("unexpected key filter %s", r.URL.Query().Get("key"))
		}
		_, _ = io.WriteString(w, `[{"key":"res_mode","value":{"text":"capacity"}},{"key":"res_max_capacity","value":{"es":"40"}}]`)
	})

	values, err := store.GetValues(context.Background(), []string{domain.KeyMode, domain.KeyMaxCapacity})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values[domain.KeyMode] != "capacity" || values[domain.KeyMaxCapacity] != "40" {
		t.Fatalf("unexpected values %v", values)
	}
}

func TestPostgRESTStatusErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   error
	}{
		{status: http.StatusUnauthorized, want: ErrUnauthorized},
		{status: http.StatusInternalServerError, want: ErrUnexpectedStatus},
	}
	for _, tc := range cases {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = io.WriteString(w, `{"message":"nope"}`)
		})
		if _, err := store.ListActiveTables(context.Background(), 2); !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}
