package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"mesaYaReservas/internal/modules/reservations/application/port"
	"mesaYaReservas/internal/modules/reservations/domain"
	tables "mesaYaReservas/internal/modules/tables/domain"
	"mesaYaReservas/internal/shared/normalization"
)

const (
	tablesResource       = "restaurant_tables"
	reservationsResource = "reservations"
	contentResource      = "site_content"
)

// PostgRESTStore reads and writes the Supabase tables through PostgREST.
type PostgRESTStore struct {
	rest *RESTClient
}

func NewPostgRESTStore(rest *RESTClient) *PostgRESTStore {
	return &PostgRESTStore{rest: rest}
}

func (s *PostgRESTStore) ListActiveTables(ctx context.Context, minCapacity int) ([]tables.Table, error) {
	query := url.Values{}
	query.Set("select", "id,name,capacity,is_active")
	query.Set("is_active", "eq.true")
	query.Set("capacity", "gte."+strconv.Itoa(minCapacity))
	query.Set("order", "capacity.asc")

	rows, err := s.fetchRows(ctx, tablesResource, query)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables.BuildTableList(rows), nil
}

func (s *PostgRESTStore) ListReservationsForDate(ctx context.Context, date string) ([]domain.Reservation, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("date", "eq."+date)
	query.Set("status", "neq."+string(domain.ReservationStatusCancelled))
	query.Set("order", "time.asc")

	rows, err := s.fetchRows(ctx, reservationsResource, query)
	if err != nil {
		return nil, fmt.Errorf("list reservations for %s: %w", date, err)
	}
	return domain.BuildReservationList(rows), nil
}

func (s *PostgRESTStore) CreateReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	row := map[string]any{
		"date":       r.Date,
		"time":       r.Time,
		"party_size": r.PartySize,
		"name":       r.Name,
		"email":      r.Email,
		"phone":      r.Phone,
		"status":     string(r.Status),
		"table_id":   nil,
	}
	if r.TableID != "" {
		row["table_id"] = tableIDValue(r.TableID)
	}
	body, err := json.Marshal(row)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("encode reservation: %w", err)
	}

	req, err := s.rest.NewRequest(ctx, http.MethodPost, reservationsResource, nil, bytes.NewReader(body))
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("build insert request: %w", err)
	}
	req.Header.Set("Prefer", "return=representation")

	var rows []any
	if err := s.rest.DoJSON(req, &rows); err != nil {
		return domain.Reservation{}, fmt.Errorf("insert reservation: %w", err)
	}
	created := domain.BuildReservationList(rows)
	if len(created) == 0 {
		return r, nil
	}
	return created[0], nil
}

func (s *PostgRESTStore) ListReservationsBetween(ctx context.Context, from, to string) ([]domain.Reservation, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Add("date", "gte."+from)
	query.Add("date", "lte."+to)
	query.Set("order", "date.asc,time.asc")

	rows, err := s.fetchRows(ctx, reservationsResource, query)
	if err != nil {
		return nil, fmt.Errorf("list reservations %s..%s: %w", from, to, err)
	}
	return domain.BuildReservationList(rows), nil
}

func (s *PostgRESTStore) ListRecentReservations(ctx context.Context, limit int) ([]domain.Reservation, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "created_at.desc")
	query.Set("limit", strconv.Itoa(limit))

	rows, err := s.fetchRows(ctx, reservationsResource, query)
	if err != nil {
		return nil, fmt.Errorf("list recent reservations: %w", err)
	}
	return domain.BuildReservationList(rows), nil
}

func (s *PostgRESTStore) GetValues(ctx context.Context, keys []string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return values, nil
	}
	query := url.Values{}
	query.Set("select", "key,value")
	query.Set("key", "in.("+strings.Join(keys, ",")+")")

	rows, err := s.fetchRows(ctx, contentResource, query)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	for _, item := range rows {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		key := normalization.AsString(row["key"])
		if key == "" {
			continue
		}
		if text := normalization.ContentText(row["value"]); text != "" {
			values[key] = text
		}
	}
	return values, nil
}

func (s *PostgRESTStore) UpsertTable(ctx context.Context, t tables.Table) error {
	return s.upsert(ctx, tablesResource, "id", map[string]any{
		"id":        tableIDValue(t.ID),
		"name":      t.Name,
		"capacity":  t.Capacity,
		"is_active": t.Active,
	})
}

func (s *PostgRESTStore) SetValue(ctx context.Context, key, value string) error {
	return s.upsert(ctx, contentResource, "key", map[string]any{
		"key":   key,
		"value": map[string]string{"text": value},
	})
}

func (s *PostgRESTStore) upsert(ctx context.Context, resource, conflict string, row map[string]any) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode %s row: %w", resource, err)
	}
	query := url.Values{}
	query.Set("on_conflict", conflict)
	req, err := s.rest.NewRequest(ctx, http.MethodPost, resource, query, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build upsert request: %w", err)
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates")
	if err := s.rest.DoJSON(req, nil); err != nil {
		return fmt.Errorf("upsert %s: %w", resource, err)
	}
	return nil
}

func (s *PostgRESTStore) fetchRows(ctx context.Context, resource string, query url.Values) ([]any, error) {
	req, err := s.rest.NewRequest(ctx, http.MethodGet, resource, query, nil)
	if err != nil {
		return nil, err
	}
	var rows []any
	if err := s.rest.DoJSON(req, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// tableIDValue sends numeric ids as numbers so bigint columns accept them.
func tableIDValue(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

var (
	_ port.TableStore       = (*PostgRESTStore)(nil)
	_ port.ReservationStore = (*PostgRESTStore)(nil)
	_ port.SettingsStore    = (*PostgRESTStore)(nil)
	_ port.TableWriter      = (*PostgRESTStore)(nil)
	_ port.SettingsWriter   = (*PostgRESTStore)(nil)
)
