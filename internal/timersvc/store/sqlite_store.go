package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avvvet/timer-service/internal/timersvc/models"
	"github.com/google/uuid"
)

// timestamps are kept as unix milliseconds so they survive the driver
// without relying on column affinity
const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS timer_slot (
		slot        INTEGER PRIMARY KEY CHECK (slot = 1),
		id          TEXT NOT NULL,
		name        TEXT NOT NULL,
		target_date INTEGER NOT NULL,
		created_at  INTEGER NOT NULL,
		updated_at  INTEGER NOT NULL
	)`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return unavailable("create timer_slot", err)
	}
	return nil
}

func (s *SQLiteStore) Find(ctx context.Context) (*models.Timer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, target_date, created_at, updated_at
		FROM timer_slot
		WHERE slot = 1
	`)

	t, err := scanSQLiteTimer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("find timer", err)
	}
	return t, nil
}

func (s *SQLiteStore) Replace(ctx context.Context, t *models.Timer) (*models.Timer, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO timer_slot (slot, id, name, target_date, created_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET
			id = excluded.id,
			name = excluded.name,
			target_date = excluded.target_date,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
		RETURNING id, name, target_date, created_at, updated_at
	`, uuid.NewString(), t.Name, t.TargetDate.UnixMilli(), t.CreatedAt.UnixMilli(), t.UpdatedAt.UnixMilli())

	saved, err := scanSQLiteTimer(row)
	if err != nil {
		return nil, unavailable("replace timer", err)
	}
	return saved, nil
}

func (s *SQLiteStore) Swap(ctx context.Context, id string, t *models.Timer) (*models.Timer, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE timer_slot
		SET name = ?, target_date = ?, updated_at = ?
		WHERE slot = 1 AND id = ?
		RETURNING id, name, target_date, created_at, updated_at
	`, t.Name, t.TargetDate.UnixMilli(), t.UpdatedAt.UnixMilli(), id)

	saved, err := scanSQLiteTimer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("update timer", err)
	}
	return saved, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM timer_slot`); err != nil {
		return unavailable("clear timer", err)
	}
	return nil
}

func scanSQLiteTimer(row *sql.Row) (*models.Timer, error) {
	var (
		t                              models.Timer
		targetMs, createdMs, updatedMs int64
	)
	if err := row.Scan(&t.ID, &t.Name, &targetMs, &createdMs, &updatedMs); err != nil {
		return nil, err
	}

	t.TargetDate = time.UnixMilli(targetMs).UTC()
	t.CreatedAt = time.UnixMilli(createdMs).UTC()
	t.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return &t, nil
}
