package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
	"github.com/allisson/booking/internal/database"
	apperrors "github.com/allisson/booking/internal/errors"
)

// MySQLPaymentRepository implements Payment persistence for MySQL databases.
type MySQLPaymentRepository struct {
	db *sql.DB
}

// NewMySQLPaymentRepository creates a new MySQL Payment repository instance.
func NewMySQLPaymentRepository(db *sql.DB) *MySQLPaymentRepository {
	return &MySQLPaymentRepository{db: db}
}

// Create inserts a new payment record.
func (m *MySQLPaymentRepository) Create(ctx context.Context, payment *bookingDomain.Payment) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO payments (id, org_id, appointment_id, amount_cents, currency, intent_id, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := payment.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal payment id")
	}
	orgID, err := payment.OrgID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal org id")
	}
	appointmentID, err := payment.AppointmentID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal appointment id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		orgID,
		appointmentID,
		payment.AmountCents,
		payment.Currency,
		payment.IntentID,
		payment.Status,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create payment")
	}
	return nil
}

// GetByIntentID retrieves a payment by its provider intent id.
func (m *MySQLPaymentRepository) GetByIntentID(
	ctx context.Context,
	intentID string,
) (*bookingDomain.Payment, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, org_id, appointment_id, amount_cents, currency, intent_id, status, created_at, updated_at
			  FROM payments
			  WHERE intent_id = ?`

	var payment bookingDomain.Payment
	var rawID, rawOrgID, rawAppointmentID []byte
	err := querier.QueryRowContext(ctx, query, intentID).Scan(
		&rawID,
		&rawOrgID,
		&rawAppointmentID,
		&payment.AmountCents,
		&payment.Currency,
		&payment.IntentID,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get payment by intent id")
	}

	if payment.ID, err = uuid.FromBytes(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal payment id")
	}
	if payment.OrgID, err = uuid.FromBytes(rawOrgID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal org id")
	}
	if payment.AppointmentID, err = uuid.FromBytes(rawAppointmentID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal appointment id")
	}

	return &payment, nil
}

// UpdateStatus moves a payment to a new status.
func (m *MySQLPaymentRepository) UpdateStatus(
	ctx context.Context,
	paymentID uuid.UUID,
	status bookingDomain.PaymentStatus,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE payments
			  SET status = ?, updated_at = NOW()
			  WHERE id = ?`

	id, err := paymentID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal payment id")
	}

	result, err := querier.ExecContext(ctx, query, status, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update payment status")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
