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

// PostgreSQLAppointmentRepository implements Appointment persistence for PostgreSQL databases.
type PostgreSQLAppointmentRepository struct {
	db *sql.DB
}

// NewPostgreSQLAppointmentRepository creates a new PostgreSQL Appointment repository instance.
func NewPostgreSQLAppointmentRepository(db *sql.DB) *PostgreSQLAppointmentRepository {
	return &PostgreSQLAppointmentRepository{db: db}
}

// Create inserts a new appointment.
func (p *PostgreSQLAppointmentRepository) Create(ctx context.Context, appointment *bookingDomain.Appointment) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO appointments (id, org_id, lead_id, hold_id, start_at, end_at, status, calendar_event_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		appointment.ID,
		appointment.OrgID,
		appointment.LeadID,
		appointment.HoldID,
		appointment.StartAt,
		appointment.EndAt,
		appointment.Status,
		appointment.CalendarEventID,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create appointment")
	}
	return nil
}

// GetByID retrieves an appointment by its id.
func (p *PostgreSQLAppointmentRepository) GetByID(
	ctx context.Context,
	appointmentID uuid.UUID,
) (*bookingDomain.Appointment, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, org_id, lead_id, hold_id, start_at, end_at, status, calendar_event_id, created_at, updated_at
			  FROM appointments
			  WHERE id = $1`

	var appointment bookingDomain.Appointment
	err := querier.QueryRowContext(ctx, query, appointmentID).Scan(
		&appointment.ID,
		&appointment.OrgID,
		&appointment.LeadID,
		&appointment.HoldID,
		&appointment.StartAt,
		&appointment.EndAt,
		&appointment.Status,
		&appointment.CalendarEventID,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get appointment")
	}

	return &appointment, nil
}

// ListActiveOverlapping returns blocking appointments overlapping [start, end)
// for an org, locked with FOR UPDATE for the conflict check. Pending
// appointments whose hold already expired at now do not block: they are dead
// weight awaiting cleanup, not active bookings.
func (p *PostgreSQLAppointmentRepository) ListActiveOverlapping(
	ctx context.Context,
	orgID uuid.UUID,
	start, end, now time.Time,
) ([]*bookingDomain.Appointment, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT a.id, a.org_id, a.lead_id, a.hold_id, a.start_at, a.end_at, a.status, a.calendar_event_id, a.created_at, a.updated_at
			  FROM appointments a
			  JOIN holds h ON a.hold_id = h.id
			  WHERE a.org_id = $1
			    AND a.start_at < $2 AND a.end_at > $3
			    AND (a.status = 'confirmed'
			         OR (a.status IN ('pending_hold', 'pending_payment') AND h.expires_at >= $4))
			  FOR UPDATE OF a`

	rows, err := querier.QueryContext(ctx, query, orgID, end, start, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list overlapping appointments")
	}
	defer rows.Close() //nolint:errcheck

	var appointments []*bookingDomain.Appointment
	for rows.Next() {
		var appointment bookingDomain.Appointment
		err := rows.Scan(
			&appointment.ID,
			&appointment.OrgID,
			&appointment.LeadID,
			&appointment.HoldID,
			&appointment.StartAt,
			&appointment.EndAt,
			&appointment.Status,
			&appointment.CalendarEventID,
			&appointment.CreatedAt,
			&appointment.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan appointment")
		}
		appointments = append(appointments, &appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list overlapping appointments")
	}

	return appointments, nil
}

// ListActiveIntervals returns the busy intervals of all blocking appointments
// for an org, skipping pending appointments whose hold expired at now.
func (p *PostgreSQLAppointmentRepository) ListActiveIntervals(
	ctx context.Context,
	orgID uuid.UUID,
	now time.Time,
) ([]bookingDomain.BusyInterval, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT a.start_at, a.end_at
			  FROM appointments a
			  JOIN holds h ON a.hold_id = h.id
			  WHERE a.org_id = $1
			    AND (a.status = 'confirmed'
			         OR (a.status IN ('pending_hold', 'pending_payment') AND h.expires_at >= $2))
			  ORDER BY a.start_at ASC`

	rows, err := querier.QueryContext(ctx, query, orgID, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list appointment intervals")
	}
	defer rows.Close() //nolint:errcheck

	var intervals []bookingDomain.BusyInterval
	for rows.Next() {
		var interval bookingDomain.BusyInterval
		if err := rows.Scan(&interval.Start, &interval.End); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan appointment interval")
		}
		intervals = append(intervals, interval)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list appointment intervals")
	}

	return intervals, nil
}

// UpdateStatus moves an appointment to a new status.
func (p *PostgreSQLAppointmentRepository) UpdateStatus(
	ctx context.Context,
	appointmentID uuid.UUID,
	status bookingDomain.AppointmentStatus,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE appointments
			  SET status = $1, updated_at = NOW()
			  WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, status, appointmentID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update appointment status")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// SetCalendarEventID stores the provider event id created by calendar sync.
func (p *PostgreSQLAppointmentRepository) SetCalendarEventID(
	ctx context.Context,
	appointmentID uuid.UUID,
	eventID string,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE appointments
			  SET calendar_event_id = $1, updated_at = NOW()
			  WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, eventID, appointmentID)
	if err != nil {
		return apperrors.Wrap(err, "failed to set calendar event id")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// CancelExpired cancels pending appointments whose hold has expired and
// returns how many were cancelled.
func (p *PostgreSQLAppointmentRepository) CancelExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE appointments a
			  SET status = 'cancelled', updated_at = NOW()
			  FROM holds h
			  WHERE a.hold_id = h.id
			    AND a.status IN ('pending_hold', 'pending_payment')
			    AND h.expires_at < $1`

	result, err := querier.ExecContext(ctx, query, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to cancel expired appointments")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count cancelled appointments")
	}
	return affected, nil
}
