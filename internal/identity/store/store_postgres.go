package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"caseline/internal/identity/models"
	"caseline/pkg/domain"
	"caseline/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// Postgres persists identity accounts in PostgreSQL. Schema:
// migrations/0001_init.sql.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed identity store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) CreateVictim(ctx context.Context, v *models.Victim) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO victims (id, name, email, phone, password_hash, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		uuid.UUID(v.ID), v.Name, v.Email, v.Phone, v.PasswordHash, v.CreatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create victim: %w", err)
	}
	return nil
}

func (s *Postgres) FindVictimByEmail(ctx context.Context, email string) (*models.Victim, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, password_hash, created_at
		FROM victims WHERE email = $1`, email)

	var (
		v  models.Victim
		id uuid.UUID
	)
	err := row.Scan(&id, &v.Name, &v.Email, &v.Phone, &v.PasswordHash, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan victim: %w", err)
	}
	v.ID = domain.VictimID(id)
	return &v, nil
}

func (s *Postgres) CreateOfficer(ctx context.Context, o *models.Officer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO officers (id, name, email, badge_number, rank, station_id, password_hash, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		uuid.UUID(o.ID), o.Name, o.Email, o.BadgeNumber, o.Rank,
		uuid.UUID(o.StationID), o.PasswordHash, o.CreatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create officer: %w", err)
	}
	return nil
}

func (s *Postgres) FindOfficerByEmail(ctx context.Context, email string) (*models.Officer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, badge_number, rank, station_id, password_hash, created_at
		FROM officers WHERE email = $1`, email)

	var (
		o             models.Officer
		id, stationID uuid.UUID
	)
	err := row.Scan(&id, &o.Name, &o.Email, &o.BadgeNumber, &o.Rank, &stationID, &o.PasswordHash, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan officer: %w", err)
	}
	o.ID = domain.OfficerID(id)
	o.StationID = domain.StationID(stationID)
	return &o, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
