package store

import (
	"context"
	"errors"

	"github.com/avvvet/timer-service/internal/timersvc/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS timer_slot (
		slot        SMALLINT PRIMARY KEY DEFAULT 1 CHECK (slot = 1),
		id          TEXT NOT NULL,
		name        TEXT NOT NULL,
		target_date TIMESTAMPTZ NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the slot table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, postgresSchema); err != nil {
		return unavailable("create timer_slot", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context) (*models.Timer, error) {
	query := `
		SELECT id, name, target_date, created_at, updated_at
		FROM timer_slot
		WHERE slot = 1
	`

	t, err := scanTimer(s.db.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("find timer", err)
	}
	return t, nil
}

func (s *PostgresStore) Replace(ctx context.Context, t *models.Timer) (*models.Timer, error) {
	query := `
		INSERT INTO timer_slot (slot, id, name, target_date, created_at, updated_at)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (slot) DO UPDATE SET
			id = EXCLUDED.id,
			name = EXCLUDED.name,
			target_date = EXCLUDED.target_date,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
		RETURNING id, name, target_date, created_at, updated_at
	`

	row := s.db.QueryRow(ctx, query, uuid.NewString(), t.Name, t.TargetDate, t.CreatedAt, t.UpdatedAt)
	saved, err := scanTimer(row)
	if err != nil {
		return nil, unavailable("replace timer", err)
	}
	return saved, nil
}

func (s *PostgresStore) Swap(ctx context.Context, id string, t *models.Timer) (*models.Timer, error) {
	query := `
		UPDATE timer_slot
		SET name = $2, target_date = $3, updated_at = $4
		WHERE slot = 1 AND id = $1
		RETURNING id, name, target_date, created_at, updated_at
	`

	saved, err := scanTimer(s.db.QueryRow(ctx, query, id, t.Name, t.TargetDate, t.UpdatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("update timer", err)
	}
	return saved, nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM timer_slot`); err != nil {
		return unavailable("clear timer", err)
	}
	return nil
}

func scanTimer(row pgx.Row) (*models.Timer, error) {
	t := &models.Timer{}
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.TargetDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.TargetDate = t.TargetDate.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}
