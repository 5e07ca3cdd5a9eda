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

// MySQLHoldRepository implements Hold persistence for MySQL databases.
type MySQLHoldRepository struct {
	db *sql.DB
}

// NewMySQLHoldRepository creates a new MySQL Hold repository instance.
func NewMySQLHoldRepository(db *sql.DB) *MySQLHoldRepository {
	return &MySQLHoldRepository{db: db}
}

// Create inserts a new hold.
func (m *MySQLHoldRepository) Create(ctx context.Context, hold *bookingDomain.Hold) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO holds (id, org_id, lead_id, slot_start, slot_end, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := hold.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal hold id")
	}
	orgID, err := hold.OrgID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal org id")
	}
	leadID, err := hold.LeadID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal lead id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		orgID,
		leadID,
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
func (m *MySQLHoldRepository) GetByID(ctx context.Context, holdID uuid.UUID) (*bookingDomain.Hold, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, org_id, lead_id, slot_start, slot_end, expires_at, created_at
			  FROM holds
			  WHERE id = ?`

	id, err := holdID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal hold id")
	}

	var hold bookingDomain.Hold
	var rawID, rawOrgID, rawLeadID []byte
	err = querier.QueryRowContext(ctx, query, id).Scan(
		&rawID,
		&rawOrgID,
		&rawLeadID,
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

	if err := scanHoldIDs(&hold, rawID, rawOrgID, rawLeadID); err != nil {
		return nil, err
	}
	return &hold, nil
}

// ListActiveOverlapping returns unexpired holds overlapping [start, end) for
// an org, locked with FOR UPDATE so concurrent booking requests for the same
// slot serialize on the conflict check.
func (m *MySQLHoldRepository) ListActiveOverlapping(
	ctx context.Context,
	orgID uuid.UUID,
	start, end, now time.Time,
) ([]*bookingDomain.Hold, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, org_id, lead_id, slot_start, slot_end, expires_at, created_at
			  FROM holds
			  WHERE org_id = ? AND expires_at >= ? AND slot_start < ? AND slot_end > ?
			  FOR UPDATE`

	rawOrgID, err := orgID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal org id")
	}

	rows, err := querier.QueryContext(ctx, query, rawOrgID, now, end, start)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list overlapping holds")
	}
	defer rows.Close() //nolint:errcheck

	var holds []*bookingDomain.Hold
	for rows.Next() {
		var hold bookingDomain.Hold
		var rawID, rawOrg, rawLead []byte
		err := rows.Scan(
			&rawID,
			&rawOrg,
			&rawLead,
			&hold.SlotStart,
			&hold.SlotEnd,
			&hold.ExpiresAt,
			&hold.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan hold")
		}
		if err := scanHoldIDs(&hold, rawID, rawOrg, rawLead); err != nil {
			return nil, err
		}
		holds = append(holds, &hold)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list overlapping holds")
	}

	return holds, nil
}

// ListActiveIntervals returns the busy intervals of all unexpired holds for an org.
func (m *MySQLHoldRepository) ListActiveIntervals(
	ctx context.Context,
	orgID uuid.UUID,
	now time.Time,
) ([]bookingDomain.BusyInterval, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT slot_start, slot_end
			  FROM holds
			  WHERE org_id = ? AND expires_at >= ?
			  ORDER BY slot_start ASC`

	rawOrgID, err := orgID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal org id")
	}

	rows, err := querier.QueryContext(ctx, query, rawOrgID, now)
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

// scanHoldIDs decodes the binary UUID columns of a hold row.
func scanHoldIDs(hold *bookingDomain.Hold, rawID, rawOrgID, rawLeadID []byte) error {
	var err error
	if hold.ID, err = uuid.FromBytes(rawID); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal hold id")
	}
	if hold.OrgID, err = uuid.FromBytes(rawOrgID); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal org id")
	}
	if hold.LeadID, err = uuid.FromBytes(rawLeadID); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal lead id")
	}
	return nil
}
