// Package repository implements data persistence for holds, appointments
// and payments. Repositories support both PostgreSQL and MySQL; holds are
// never deleted, expiry is evaluated against expires_at in every query.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
	"github.com/allisson/booking/internal/database"
	apperrors "github.com/allisson/booking/internal/errors"
)

// PostgreSQLHoldRepository implements Hold persistence for PostgreSQL databases.
type PostgreSQLHoldRepository struct {
	db *sql.DB
}

// NewPostgreSQLHoldRepository creates a new PostgreSQL Hold repository instance.
func NewPostgreSQLHoldRepository(db *sql.DB) *PostgreSQLHoldRepository {
	return &PostgreSQLHoldRepository{db: db}
}

// Create inserts a new hold.
func (p *PostgreSQLHoldRepository) Create(ctx context.Context, hold *bookingDomain.Hold) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO holds (id, org_id, lead_id, slot_start, slot_end, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		hold.ID,
		hold.OrgID,
		hold.LeadID,
		hold.SlotStart,
		hold.SlotEnd,
		hold.ExpiresAt,
		hold.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create hold")
	}
	return nil
}

// GetByID retrieves a hold by its id.
func (p *PostgreSQLHoldRepository) GetByID(ctx context.Context, holdID uuid.UUID) (*bookingDomain.Hold, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, org_id, lead_id, slot_start, slot_end, expires_at, created_at
			  FROM holds
			  WHERE id = $1`

	var hold bookingDomain.Hold
	err := querier.QueryRowContext(ctx, query, holdID).Scan(
		&hold.ID,
		&hold.OrgID,
		&hold.LeadID,
		&hold.SlotStart,
		&hold.SlotEnd,
		&hold.ExpiresAt,
		&hold.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get hold")
	}

	return &hold, nil
}

// ListActiveOverlapping returns unexpired holds overlapping [start, end) for
// an org. Rows are locked with FOR UPDATE so concurrent booking requests for
// the same slot serialize on the conflict check.
func (p *PostgreSQLHoldRepository) ListActiveOverlapping(
	ctx context.Context,
	orgID uuid.UUID,
	start, end, now time.Time,
) ([]*bookingDomain.Hold, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, org_id, lead_id, slot_start, slot_end, expires_at, created_at
			  FROM holds
			  WHERE org_id = $1 AND expires_at >= $2 AND slot_start < $3 AND slot_end > $4
			  FOR UPDATE`

	rows, err := querier.QueryContext(ctx, query, orgID, now, end, start)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list overlapping holds")
	}
	defer rows.Close() //nolint:errcheck

	var holds []*bookingDomain.Hold
	for rows.Next() {
		var hold bookingDomain.Hold
		err := rows.Scan(
			&hold.ID,
			&hold.OrgID,
			&hold.LeadID,
			&hold.SlotStart,
			&hold.SlotEnd,
			&hold.ExpiresAt,
			&hold.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan hold")
		}
		holds = append(holds, &hold)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list overlapping holds")
	}

	return holds, nil
}

// ListActiveIntervals returns the busy intervals of all unexpired holds for an org.
func (p *PostgreSQLHoldRepository) ListActiveIntervals(
	ctx context.Context,
	orgID uuid.UUID,
	now time.Time,
) ([]bookingDomain.BusyInterval, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT slot_start, slot_end
			  FROM holds
			  WHERE org_id = $1 AND expires_at >= $2
			  ORDER BY slot_start ASC`

	rows, err := querier.QueryContext(ctx, query, orgID, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list hold intervals")
	}
	defer rows.Close() //nolint:errcheck

	var intervals []bookingDomain.BusyInterval
	for rows.Next() {
		var interval bookingDomain.BusyInterval
		if err := rows.Scan(&interval.Start, &interval.End); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan hold interval")
		}
		intervals = append(intervals, interval)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list hold intervals")
	}

	return intervals, nil
}
