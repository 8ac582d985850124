package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mesaYaReservas/internal/modules/reservations/application/port"
	"mesaYaReservas/internal/modules/reservations/domain"
	"mesaYaReservas/internal/modules/reservations/infrastructure/migrations"
	tables "mesaYaReservas/internal/modules/tables/domain"
	"mesaYaReservas/internal/platform/database"
	"mesaYaReservas/internal/shared/normalization"
)

const reservationColumns = "id, date, time, party_size, name, email, phone, status, table_id, created_at"

// SQLiteStore keeps tables, reservations and settings in a local SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteStore opens path and applies the embedded migrations.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := database.OpenSQLite(ctx, path, migrations.SQLite())
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) ListActiveTables(ctx context.Context, minCapacity int) ([]tables.Table, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, capacity, is_active FROM restaurant_tables
		 WHERE is_active = 1 AND capacity >= ? ORDER BY capacity ASC, id ASC`, minCapacity)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var result []tables.Table
	for rows.Next() {
		var t tables.Table
		if err := rows.Scan(&t.ID, &t.Name, &t.Capacity, &t.Active); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) UpsertTable(ctx context.Context, t tables.Table) error {
	if strings.TrimSpace(t.ID) == "" || t.Capacity <= 0 {
		return fmt.Errorf("%w: table needs an id and a positive capacity", domain.ErrValidation)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO restaurant_tables (id, name, capacity, is_active) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, capacity = excluded.capacity, is_active = excluded.is_active`,
		t.ID, t.Name, t.Capacity, t.Active)
	if err != nil {
		return fmt.Errorf("upsert table %s: %w", t.ID, err)
	}
	return nil
}

func (s *SQLiteStore) ListReservationsForDate(ctx context.Context, date string) ([]domain.Reservation, error) {
	return s.queryReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE date = ? AND status <> ? ORDER BY time ASC`,
		date, string(domain.ReservationStatusCancelled))
}

func (s *SQLiteStore) ListReservationsBetween(ctx context.Context, from, to string) ([]domain.Reservation, error) {
	return s.queryReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE date >= ? AND date <= ? ORDER BY date ASC, time ASC`,
		from, to)
}

func (s *SQLiteStore) ListRecentReservations(ctx context.Context, limit int) ([]domain.Reservation, error) {
	return s.queryReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

func (s *SQLiteStore) CreateReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	r.ID = uuid.NewString()
	r.CreatedAt = s.now().UTC()

	var tableID any
	if r.TableID != "" {
		tableID = r.TableID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reservations (`+reservationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Date, r.Time, r.PartySize, r.Name, r.Email, r.Phone, string(r.Status), tableID, r.CreatedAt.UnixMilli())
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("insert reservation: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) GetValues(ctx context.Context, keys []string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return values, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, key := range keys {
		args[i] = key
	}

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM site_content WHERE key IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		if text := normalization.ContentText(raw); text != "" {
			values[key] = text
		}
	}
	return values, rows.Err()
}

func (s *SQLiteStore) SetValue(ctx context.Context, key, value string) error {
	encoded, err := contentValue(value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO site_content (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, encoded)
	if err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) queryReservations(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	var result []domain.Reservation
	for rows.Next() {
		var (
			r       domain.Reservation
			status  string
			tableID sql.NullString
			created int64
		)
		if err := rows.Scan(&r.ID, &r.Date, &r.Time, &r.PartySize, &r.Name, &r.Email, &r.Phone, &status, &tableID, &created); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		r.Status = domain.NormalizeReservationStatus(status)
		r.TableID = tableID.String
		r.CreatedAt = time.UnixMilli(created).UTC()
		result = append(result, r)
	}
	return result, rows.Err()
}

// contentValue wraps a setting the way site_content rows store text.
func contentValue(value string) (string, error) {
	encoded, err := json.Marshal(map[string]string{"text": value})
	if err != nil {
		return "", fmt.Errorf("encode setting: %w", err)
	}
	return string(encoded), nil
}

var (
	_ port.TableStore       = (*SQLiteStore)(nil)
	_ port.ReservationStore = (*SQLiteStore)(nil)
	_ port.SettingsStore    = (*SQLiteStore)(nil)
	_ port.TableWriter      = (*SQLiteStore)(nil)
	_ port.SettingsWriter   = (*SQLiteStore)(nil)
)
