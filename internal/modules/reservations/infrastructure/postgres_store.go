package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"mesaYaReservas/internal/modules/reservations/application/port"
	"mesaYaReservas/internal/modules/reservations/domain"
	"mesaYaReservas/internal/modules/reservations/infrastructure/migrations"
	tables "mesaYaReservas/internal/modules/tables/domain"
	"mesaYaReservas/internal/platform/database"
	"mesaYaReservas/internal/shared/normalization"
)

const pgReservationColumns = `id::text, to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI'), party_size,
	name, email, phone, status, COALESCE(table_id, ''), created_at`

// PostgresStore talks to the reservations schema directly through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgresStore connects to databaseURL and applies pending migrations.
func OpenPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := database.NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.ApplyPostgresMigrations(ctx, pool, migrations.Postgres()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresStore) ListActiveTables(ctx context.Context, minCapacity int) ([]tables.Table, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, capacity, is_active FROM restaurant_tables
		 WHERE is_active AND capacity >= $1 ORDER BY capacity ASC, id ASC`, minCapacity)
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

func (s *PostgresStore) UpsertTable(ctx context.Context, t tables.Table) error {
	if t.ID == "" || t.Capacity <= 0 {
		return fmt.Errorf("%w: table needs an id and a positive capacity", domain.ErrValidation)
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO restaurant_tables (id, name, capacity, is_active) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, capacity = EXCLUDED.capacity, is_active = EXCLUDED.is_active`,
		t.ID, t.Name, t.Capacity, t.Active)
	if err != nil {
		return fmt.Errorf("upsert table %s: %w", t.ID, err)
	}
	return nil
}

func (s *PostgresStore) ListReservationsForDate(ctx context.Context, date string) ([]domain.Reservation, error) {
	return s.queryReservations(ctx,
		`SELECT `+pgReservationColumns+` FROM reservations WHERE date = $1::date AND status <> $2 ORDER BY time ASC`,
		date, string(domain.ReservationStatusCancelled))
}

func (s *PostgresStore) ListReservationsBetween(ctx context.Context, from, to string) ([]domain.Reservation, error) {
	return s.queryReservations(ctx,
		`SELECT `+pgReservationColumns+` FROM reservations WHERE date BETWEEN $1::date AND $2::date ORDER BY date ASC, time ASC`,
		from, to)
}

func (s *PostgresStore) ListRecentReservations(ctx context.Context, limit int) ([]domain.Reservation, error) {
	return s.queryReservations(ctx,
		`SELECT `+pgReservationColumns+` FROM reservations ORDER BY created_at DESC LIMIT $1`, limit)
}

func (s *PostgresStore) CreateReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	id := uuid.New()
	var tableID any
	if r.TableID != "" {
		tableID = r.TableID
	}

	var created time.Time
	err := s.pool.QueryRow(ctx,
		`INSERT INTO reservations (id, date, time, party_size, name, email, phone, status, table_id)
		 VALUES ($1, $2::date, $3::time, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		id, r.Date, r.Time, r.PartySize, r.Name, r.Email, r.Phone, string(r.Status), tableID,
	).Scan(&created)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("insert reservation: %w", err)
	}
	r.ID = id.String()
	r.CreatedAt = created.UTC()
	return r, nil
}

func (s *PostgresStore) GetValues(ctx context.Context, keys []string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return values, nil
	}
	rows, err := s.pool.Query(ctx, `SELECT key, value::text FROM site_content WHERE key = ANY($1)`, keys)
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

func (s *PostgresStore) SetValue(ctx context.Context, key, value string) error {
	encoded, err := contentValue(value)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO site_content (key, value) VALUES ($1, $2::jsonb)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, encoded)
	if err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) queryReservations(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	var result []domain.Reservation
	for rows.Next() {
		var (
			r       domain.Reservation
			status  string
			created time.Time
		)
		if err := rows.Scan(&r.ID, &r.Date, &r.Time, &r.PartySize, &r.Name, &r.Email, &r.Phone, &status, &r.TableID, &created); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		r.Status = domain.NormalizeReservationStatus(status)
		r.CreatedAt = created.UTC()
		result = append(result, r)
	}
	return result, rows.Err()
}

var (
	_ port.TableStore       = (*PostgresStore)(nil)
	_ port.ReservationStore = (*PostgresStore)(nil)
	_ port.SettingsStore    = (*PostgresStore)(nil)
	_ port.TableWriter      = (*PostgresStore)(nil)
	_ port.SettingsWriter   = (*PostgresStore)(nil)
)
