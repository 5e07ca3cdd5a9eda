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

// MySQLAppointmentRepository implements Appointment persistence for MySQL databases.
type MySQLAppointmentRepository struct {
	db *sql.DB
}

// NewMySQLAppointmentRepository creates a new MySQL Appointment repository instance.
func NewMySQLAppointmentRepository(db *sql.DB) *MySQLAppointmentRepository {
	return &MySQLAppointmentRepository{db: db}
}

// Create inserts a new appointment.
func (m *MySQLAppointmentRepository) Create(ctx context.Context, appointment *bookingDomain.Appointment) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO appointments (id, org_id, lead_id, hold_id, start_at, end_at, status, calendar_event_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := appointment.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal appointment id")
	}
	orgID, err := appointment.OrgID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal org id")
	}
	leadID, err := appointment.LeadID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal lead id")
	}
	holdID, err := appointment.HoldID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal hold id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		orgID,
		leadID,
		holdID,
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
func (m *MySQLAppointmentRepository) GetByID(
	ctx context.Context,
	appointmentID uuid.UUID,
) (*bookingDomain.Appointment, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, org_id, lead_id, hold_id, start_at, end_at, status, calendar_event_id, created_at, updated_at
			  FROM appointments
			  WHERE id = ?`

	id, err := appointmentID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal appointment id")
	}

	var appointment bookingDomain.Appointment
	var rawID, rawOrgID, rawLeadID, rawHoldID []byte
	err = querier.QueryRowContext(ctx, query, id).Scan(
		&rawID,
		&rawOrgID,
		&rawLeadID,
		&rawHoldID,
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

	if err := scanAppointmentIDs(&appointment, rawID, rawOrgID, rawLeadID, rawHoldID); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// ListActiveOverlapping returns blocking appointments overlapping [start, end)
// for an org, locked with FOR UPDATE for the conflict check. Pending
// appointments whose hold already expired at now do not block: they are dead
// weight awaiting cleanup, not active bookings.
func (m *MySQLAppointmentRepository) ListActiveOverlapping(
	ctx context.Context,
	orgID uuid.UUID,
	start, end, now time.Time,
) ([]*bookingDomain.Appointment, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT a.id, a.org_id, a.lead_id, a.hold_id, a.start_at, a.end_at, a.status, a.calendar_event_id, a.created_at, a.updated_at
			  FROM appointments a
			  JOIN holds h ON a.hold_id = h.id
			  WHERE a.org_id = ?
			    AND a.start_at < ? AND a.end_at > ?
			    AND (a.status = 'confirmed'
			         OR (a.status IN ('pending_hold', 'pending_payment') AND h.expires_at >= ?))
			  FOR UPDATE`

	rawOrgID, err := orgID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal org id")
	}

	rows, err := querier.QueryContext(ctx, query, rawOrgID, end, start, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list overlapping appointments")
	}
	defer rows.Close() //nolint:errcheck

	var appointments []*bookingDomain.Appointment
	for rows.Next() {
		var appointment bookingDomain.Appointment
		var rawID, rawOrg, rawLead, rawHold []byte
		err := rows.Scan(
			&rawID,
			&rawOrg,
			&rawLead,
			&rawHold,
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
		if err := scanAppointmentIDs(&appointment, rawID, rawOrg, rawLead, rawHold); err != nil {
			return nil, err
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
func (m *MySQLAppointmentRepository) ListActiveIntervals(
	ctx context.Context,
	orgID uuid.UUID,
	now time.Time,
) ([]bookingDomain.BusyInterval, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT a.start_at, a.end_at
			  FROM appointments a
			  JOIN holds h ON a.hold_id = h.id
			  WHERE a.org_id = ?
			    AND (a.status = 'confirmed'
			         OR (a.status IN ('pending_hold', 'pending_payment') AND h.expires_at >= ?))
			  ORDER BY a.start_at ASC`

	rawOrgID, err := orgID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal org id")
	}

	rows, err := querier.QueryContext(ctx, query, rawOrgID, now)
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
func (m *MySQLAppointmentRepository) UpdateStatus(
	ctx context.Context,
	appointmentID uuid.UUID,
	status bookingDomain.AppointmentStatus,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE appointments
			  SET status = ?, updated_at = NOW()
			  WHERE id = ?`

	id, err := appointmentID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal appointment id")
	}

	result, err := querier.ExecContext(ctx, query, status, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update appointment status")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// SetCalendarEventID stores the provider event id created by calendar sync.
func (m *MySQLAppointmentRepository) SetCalendarEventID(
	ctx context.Context,
	appointmentID uuid.UUID,
	eventID string,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE appointments
			  SET calendar_event_id = ?, updated_at = NOW()
			  WHERE id = ?`

	id, err := appointmentID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal appointment id")
	}

	result, err := querier.ExecContext(ctx, query, eventID, id)
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
func (m *MySQLAppointmentRepository) CancelExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE appointments a
			  JOIN holds h ON a.hold_id = h.id
			  SET a.status = 'cancelled', a.updated_at = NOW()
			  WHERE a.status IN ('pending_hold', 'pending_payment')
			    AND h.expires_at < ?`

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

// scanAppointmentIDs decodes the binary UUID columns of an appointment row.
func scanAppointmentIDs(
	appointment *bookingDomain.Appointment,
	rawID, rawOrgID, rawLeadID, rawHoldID []byte,
) error {
	var err error
	if appointment.ID, err = uuid.FromBytes(rawID); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal appointment id")
	}
	if appointment.OrgID, err = uuid.FromBytes(rawOrgID); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal org id")
	}
	if appointment.LeadID, err = uuid.FromBytes(rawLeadID); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal lead id")
	}
	if appointment.HoldID, err = uuid.FromBytes(rawHoldID); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal hold id")
	}
	return nil
}
