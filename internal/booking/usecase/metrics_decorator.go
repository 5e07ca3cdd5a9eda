package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
	"github.com/allisson/booking/internal/metrics"
)

// bookingUseCaseWithMetrics decorates BookingUseCase with metrics instrumentation.
type bookingUseCaseWithMetrics struct {
	next    BookingUseCase
	metrics metrics.BusinessMetrics
}

// NewBookingUseCaseWithMetrics wraps a BookingUseCase with metrics recording.
func NewBookingUseCaseWithMetrics(useCase BookingUseCase, m metrics.BusinessMetrics) BookingUseCase {
	return &bookingUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// ListSlots records metrics for availability listings.
func (b *bookingUseCaseWithMetrics) ListSlots(ctx context.Context, orgID uuid.UUID) ([]bookingDomain.Slot, error) {
	start := time.Now()
	slots, err := b.next.ListSlots(ctx, orgID)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "booking", "slots_list", status)
	b.metrics.RecordDuration(ctx, "booking", "slots_list", time.Since(start), status)

	return slots, err
}

// CreateHold records metrics for hold placements.
func (b *bookingUseCaseWithMetrics) CreateHold(ctx context.Context, input CreateHoldInput) (*CreateHoldOutput, error) {
	start := time.Now()
	output, err := b.next.CreateHold(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "booking", "hold_create", status)
	b.metrics.RecordDuration(ctx, "booking", "hold_create", time.Since(start), status)

	return output, err
}

// BeginPayment records metrics for payment starts.
func (b *bookingUseCaseWithMetrics) BeginPayment(
	ctx context.Context,
	input BeginPaymentInput,
) (*BeginPaymentOutput, error) {
	start := time.Now()
	output, err := b.next.BeginPayment(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "booking", "payment_begin", status)
	b.metrics.RecordDuration(ctx, "booking", "payment_begin", time.Since(start), status)

	return output, err
}

// ConfirmPayment records metrics for payment confirmations.
func (b *bookingUseCaseWithMetrics) ConfirmPayment(ctx context.Context, intentID string) error {
	start := time.Now()
	err := b.next.ConfirmPayment(ctx, intentID)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "booking", "payment_confirm", status)
	b.metrics.RecordDuration(ctx, "booking", "payment_confirm", time.Since(start), status)

	return err
}

// FailPayment records metrics for payment failures.
func (b *bookingUseCaseWithMetrics) FailPayment(ctx context.Context, intentID string) error {
	start := time.Now()
	err := b.next.FailPayment(ctx, intentID)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "booking", "payment_fail", status)
	b.metrics.RecordDuration(ctx, "booking", "payment_fail", time.Since(start), status)

	return err
}

// CleanupExpiredHolds records metrics for expiry cleanup runs.
func (b *bookingUseCaseWithMetrics) CleanupExpiredHolds(ctx context.Context) (int64, error) {
	start := time.Now()
	cancelled, err := b.next.CleanupExpiredHolds(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "booking", "holds_cleanup", status)
	b.metrics.RecordDuration(ctx, "booking", "holds_cleanup", time.Since(start), status)

	return cancelled, err
}
