package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"caseline/internal/complaint/models"
	"caseline/pkg/domain"
	"caseline/pkg/platform/sentinel"
)

// PostgresStore persists complaints and their status history in PostgreSQL.
// Schema: migrations/0001_init.sql.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const complaintColumns = `id, victim_id, station_id, assigned_officer_id, title, description,
	incident_location, category, severity, status, default_visibility,
	last_to_status, last_remarks, last_officer_id, last_at,
	last_history_applied, last_timeline_applied, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, c *models.Complaint) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO complaints (`+complaintColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		uuid.UUID(c.ID), uuid.UUID(c.VictimID), uuid.UUID(c.StationID), nullUUID(uuid.UUID(c.AssignedOfficerID)),
		c.Title, c.Description, c.IncidentLocation, string(c.Category), string(c.Severity),
		string(c.Status), string(c.DefaultVisibility),
		nil, nil, nil, nil, false, false, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create complaint: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ComplaintID) (*models.Complaint, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, uuid.UUID(id))
	return scanComplaint(row)
}

func (s *PostgresStore) ListByVictim(ctx context.Context, victimID domain.VictimID) ([]*models.Complaint, error) {
	return s.list(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE victim_id = $1 ORDER BY created_at DESC`,
		uuid.UUID(victimID))
}

func (s *PostgresStore) ListByStation(ctx context.Context, stationID domain.StationID) ([]*models.Complaint, error) {
	return s.list(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE station_id = $1 ORDER BY created_at DESC`,
		uuid.UUID(stationID))
}

func (s *PostgresStore) list(ctx context.Context, query string, arg any) ([]*models.Complaint, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	var out []*models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Execute locks the complaint row (SELECT ... FOR UPDATE), runs validate and
// mutate against the current state, and persists the result in the same
// transaction. This is the compare-and-swap for status writes: a concurrent
// transition sees the already-updated row and fails its own validation.
func (s *PostgresStore) Execute(ctx context.Context, id domain.ComplaintID, validate func(*models.Complaint) error, mutate func(*models.Complaint)) (*models.Complaint, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transition tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE id = $1 FOR UPDATE`, uuid.UUID(id))
	c, err := scanComplaint(row)
	if err != nil {
		return nil, err
	}

	if validate != nil {
		if err := validate(c); err != nil {
			return nil, err
		}
	}
	if mutate != nil {
		mutate(c)
	}

	var (
		lastTo, lastRemarks       sql.NullString
		lastOfficer               uuid.NullUUID
		lastAt                    sql.NullTime
		historyApplied, tlApplied bool
	)
	if lt := c.LastTransition; lt != nil {
		lastTo = sql.NullString{String: string(lt.ToStatus), Valid: true}
		lastRemarks = sql.NullString{String: lt.Remarks, Valid: true}
		lastOfficer = uuid.NullUUID{UUID: uuid.UUID(lt.OfficerID), Valid: true}
		lastAt = sql.NullTime{Time: lt.At, Valid: true}
		historyApplied = lt.HistoryApplied
		tlApplied = lt.TimelineApplied
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE complaints SET
			assigned_officer_id = $2, status = $3,
			last_to_status = $4, last_remarks = $5, last_officer_id = $6, last_at = $7,
			last_history_applied = $8, last_timeline_applied = $9, updated_at = $10
		WHERE id = $1`,
		uuid.UUID(c.ID), nullUUID(uuid.UUID(c.AssignedOfficerID)), string(c.Status),
		lastTo, lastRemarks, lastOfficer, lastAt, historyApplied, tlApplied, c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update complaint: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transition tx: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) AppendHistory(ctx context.Context, entry models.StatusHistoryEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO complaint_status_history (complaint_id, status, officer_id, remarks, created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		uuid.UUID(entry.ComplaintID), string(entry.Status), uuid.UUID(entry.OfficerID),
		entry.Remarks, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append status history: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListHistory(ctx context.Context, id domain.ComplaintID) ([]models.StatusHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT complaint_id, status, officer_id, remarks, created_at
		FROM complaint_status_history WHERE complaint_id = $1 ORDER BY id`, uuid.UUID(id))
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	var out []models.StatusHistoryEntry
	for rows.Next() {
		var (
			entry       models.StatusHistoryEntry
			complaintID uuid.UUID
			officerID   uuid.UUID
			status      string
		)
		if err := rows.Scan(&complaintID, &status, &officerID, &entry.Remarks, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		entry.ComplaintID = domain.ComplaintID(complaintID)
		entry.Status = models.Status(status)
		entry.OfficerID = domain.OfficerID(officerID)
		out = append(out, entry)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComplaint(row rowScanner) (*models.Complaint, error) {
	var (
		c                                             models.Complaint
		id, victimID, stationID                       uuid.UUID
		assignedOfficer, lastOfficer                  uuid.NullUUID
		category, severity, status, defaultVisibility string
		lastTo, lastRemarks                           sql.NullString
		lastAt                                        sql.NullTime
		historyApplied, tlApplied                     bool
		createdAt, updatedAt                          time.Time
	)
	err := row.Scan(&id, &victimID, &stationID, &assignedOfficer, &c.Title, &c.Description,
		&c.IncidentLocation, &category, &severity, &status, &defaultVisibility,
		&lastTo, &lastRemarks, &lastOfficer, &lastAt,
		&historyApplied, &tlApplied, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan complaint: %w", err)
	}

	c.ID = domain.ComplaintID(id)
	c.VictimID = domain.VictimID(victimID)
	c.StationID = domain.StationID(stationID)
	if assignedOfficer.Valid {
		c.AssignedOfficerID = domain.OfficerID(assignedOfficer.UUID)
	}
	c.Category = models.Category(category)
	c.Severity = models.Severity(severity)
	c.Status = models.Status(status)
	c.DefaultVisibility = models.Visibility(defaultVisibility)
	c.CreatedAt = createdAt
	c.UpdatedAt = updatedAt

	if lastTo.Valid {
		c.LastTransition = &models.TransitionRecord{
			ToStatus:        models.Status(lastTo.String),
			Remarks:         lastRemarks.String,
			OfficerID:       domain.OfficerID(lastOfficer.UUID),
			At:              lastAt.Time,
			HistoryApplied:  historyApplied,
			TimelineApplied: tlApplied,
		}
	}
	return &c, nil
}

func nullUUID(u uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: u, Valid: u != uuid.Nil}
}
