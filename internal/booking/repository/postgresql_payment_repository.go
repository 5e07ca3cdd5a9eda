package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
	"github.com/allisson/booking/internal/database"
	apperrors "github.com/allisson/booking/internal/errors"
)

// PostgreSQLPaymentRepository implements Payment persistence for PostgreSQL databases.
type PostgreSQLPaymentRepository struct {
	db *sql.DB
}

// NewPostgreSQLPaymentRepository creates a new PostgreSQL Payment repository instance.
func NewPostgreSQLPaymentRepository(db *sql.DB) *PostgreSQLPaymentRepository {
	return &PostgreSQLPaymentRepository{db: db}
}

// Create inserts a new payment record.
func (p *PostgreSQLPaymentRepository) Create(ctx context.Context, payment *bookingDomain.Payment) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO payments (id, org_id, appointment_id, amount_cents, currency, intent_id, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		payment.ID,
		payment.OrgID,
		payment.AppointmentID,
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
func (p *PostgreSQLPaymentRepository) GetByIntentID(
	ctx context.Context,
	intentID string,
) (*bookingDomain.Payment, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, org_id, appointment_id, amount_cents, currency, intent_id, status, created_at, updated_at
			  FROM payments
			  WHERE intent_id = $1`

	var payment bookingDomain.Payment
	err := querier.QueryRowContext(ctx, query, intentID).Scan(
		&payment.ID,
		&payment.OrgID,
		&payment.AppointmentID,
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

	return &payment, nil
}

// UpdateStatus moves a payment to a new status.
func (p *PostgreSQLPaymentRepository) UpdateStatus(
	ctx context.Context,
	paymentID uuid.UUID,
	status bookingDomain.PaymentStatus,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE payments
			  SET status = $1, updated_at = NOW()
			  WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, status, paymentID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update payment status")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
