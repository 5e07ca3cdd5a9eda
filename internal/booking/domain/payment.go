package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the state of a deposit payment.
type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment records a deposit payment attempt for an appointment.
type Payment struct {
	ID            uuid.UUID
	OrgID         uuid.UUID
	AppointmentID uuid.UUID
	// AmountCents is the deposit amount in the smallest currency unit.
	AmountCents int64
	Currency    string
	// IntentID is the payment provider's intent identifier.
	IntentID  string
	Status    PaymentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DepositAmountCents computes the deposit for a total price given a percent
// (0-100). A zero percent means no deposit is required.
func DepositAmountCents(totalCents int64, percent int) int64 {
	if percent <= 0 {
		return 0
	}
	if percent >= 100 {
		return totalCents
	}
	return totalCents * int64(percent) / 100
}
