package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
	eventDomain "github.com/allisson/booking/internal/event/domain"
	orgDomain "github.com/allisson/booking/internal/org/domain"
	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
)

// HoldRepository defines the interface for hold persistence operations.
type HoldRepository interface {
	Create(ctx context.Context, hold *bookingDomain.Hold) error
	GetByID(ctx context.Context, holdID uuid.UUID) (*bookingDomain.Hold, error)
	ListActiveOverlapping(ctx context.Context, orgID uuid.UUID, start, end, now time.Time) ([]*bookingDomain.Hold, error)
	ListActiveIntervals(ctx context.Context, orgID uuid.UUID, now time.Time) ([]bookingDomain.BusyInterval, error)
}

// AppointmentRepository defines the interface for appointment persistence operations.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *bookingDomain.Appointment) error
	GetByID(ctx context.Context, appointmentID uuid.UUID) (*bookingDomain.Appointment, error)
	ListActiveOverlapping(ctx context.Context, orgID uuid.UUID, start, end, now time.Time) ([]*bookingDomain.Appointment, error)
	ListActiveIntervals(ctx context.Context, orgID uuid.UUID, now time.Time) ([]bookingDomain.BusyInterval, error)
	UpdateStatus(ctx context.Context, appointmentID uuid.UUID, status bookingDomain.AppointmentStatus) error
	SetCalendarEventID(ctx context.Context, appointmentID uuid.UUID, eventID string) error
	CancelExpired(ctx context.Context, now time.Time) (int64, error)
}

// PaymentRepository defines the interface for payment persistence operations.
type PaymentRepository interface {
	Create(ctx context.Context, payment *bookingDomain.Payment) error
	GetByIntentID(ctx context.Context, intentID string) (*bookingDomain.Payment, error)
	UpdateStatus(ctx context.Context, paymentID uuid.UUID, status bookingDomain.PaymentStatus) error
}

// OrgRepository defines the org-level lookups the booking flow needs.
type OrgRepository interface {
	GetConfig(ctx context.Context, orgID uuid.UUID) (*orgDomain.Config, error)
	GetLead(ctx context.Context, leadID uuid.UUID) (*orgDomain.Lead, error)
	UpdateLeadStatus(ctx context.Context, leadID uuid.UUID, status orgDomain.LeadStatus) error
}

// EventRepository defines the interface for appending audit events.
type EventRepository interface {
	Create(ctx context.Context, event *eventDomain.Event) error
}

// FollowupStarter kicks off the follow-up message sequence for a lead. It is
// a no-op when the org disabled follow-ups or the lead's status stops them.
type FollowupStarter interface {
	Start(ctx context.Context, lead *orgDomain.Lead) error
}

// TaskQueue enqueues deferred work for the task runner.
type TaskQueue interface {
	Enqueue(
		ctx context.Context,
		orgID uuid.UUID,
		leadID *uuid.UUID,
		taskType string,
		payload tasksDomain.Payload,
		runAt time.Time,
	) (*tasksDomain.Task, error)
}

// CreateHoldInput carries the parameters for placing a hold on a slot.
type CreateHoldInput struct {
	OrgID     uuid.UUID
	LeadID    uuid.UUID
	SlotStart time.Time
	SlotEnd   time.Time
	// PriceCents is the quoted service price the deposit is computed from
	// (0 means no deposit).
	PriceCents int64
}

// CreateHoldOutput is the result of a successful hold placement.
type CreateHoldOutput struct {
	Hold        *bookingDomain.Hold
	Appointment *bookingDomain.Appointment
	// DepositAmountCents is the up-front amount derived from the org's
	// deposit percent.
	DepositAmountCents int64
}

// BeginPaymentInput carries the parameters for starting a deposit payment.
type BeginPaymentInput struct {
	OrgID         uuid.UUID
	HoldID        uuid.UUID
	AppointmentID uuid.UUID
	AmountCents   int64
	Currency      string
}

// BeginPaymentOutput is the result of a started deposit payment.
type BeginPaymentOutput struct {
	Payment *bookingDomain.Payment
	// ClientSecret is handed to the client to complete the payment with the
	// provider.
	ClientSecret string
}

// BookingUseCase defines the interface for the booking flow: availability,
// holds, payments and expiry cleanup.
type BookingUseCase interface {
	// ListSlots returns the bookable slots for an org, excluding calendar
	// busy time, active holds and non-terminal appointments.
	ListSlots(ctx context.Context, orgID uuid.UUID) ([]bookingDomain.Slot, error)

	// CreateHold atomically places a hold and its pending appointment on a
	// slot. Overlap with any active hold or non-terminal appointment returns
	// ErrConflict.
	CreateHold(ctx context.Context, input CreateHoldInput) (*CreateHoldOutput, error)

	// BeginPayment starts a deposit payment for a held slot. An expired hold
	// returns ErrExpired.
	BeginPayment(ctx context.Context, input BeginPaymentInput) (*BeginPaymentOutput, error)

	// ConfirmPayment applies a provider success notification: the payment is
	// marked succeeded, the appointment confirmed, and follow-on tasks are
	// enqueued. Idempotent for already-confirmed payments.
	ConfirmPayment(ctx context.Context, intentID string) error

	// FailPayment applies a provider failure notification: the payment is
	// marked failed and the appointment cancelled.
	FailPayment(ctx context.Context, intentID string) error

	// CleanupExpiredHolds cancels pending appointments whose hold expired
	// and returns how many were cancelled.
	CleanupExpiredHolds(ctx context.Context) (int64, error)
}
