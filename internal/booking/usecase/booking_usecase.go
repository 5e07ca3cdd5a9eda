// Package usecase implements the booking flow: availability listing, hold
// placement, deposit payments and hold expiry cleanup. Use cases coordinate
// repositories, external collaborators and the task queue inside database
// transactions managed by TxManager.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
	bookingService "github.com/allisson/booking/internal/booking/service"
	"github.com/allisson/booking/internal/clock"
	"github.com/allisson/booking/internal/database"
	apperrors "github.com/allisson/booking/internal/errors"
	eventDomain "github.com/allisson/booking/internal/event/domain"
	orgDomain "github.com/allisson/booking/internal/org/domain"
	"github.com/allisson/booking/internal/provider"
	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
)

// DefaultCurrency is used when a payment request carries no currency.
const DefaultCurrency = "usd"

// bookingUseCase implements the BookingUseCase interface.
type bookingUseCase struct {
	txManager       database.TxManager
	holdRepo        HoldRepository
	appointmentRepo AppointmentRepository
	paymentRepo     PaymentRepository
	orgRepo         OrgRepository
	eventRepo       EventRepository
	taskQueue       TaskQueue
	followups       FollowupStarter
	calendar        provider.Calendar
	payments        provider.Payments
	clock           clock.Clock
	logger          *slog.Logger
	holdTTL         time.Duration
	daysAhead       int
}

// NewBookingUseCase creates a new booking use case instance.
func NewBookingUseCase(
	txManager database.TxManager,
	holdRepo HoldRepository,
	appointmentRepo AppointmentRepository,
	paymentRepo PaymentRepository,
	orgRepo OrgRepository,
	eventRepo EventRepository,
	taskQueue TaskQueue,
	followups FollowupStarter,
	calendar provider.Calendar,
	payments provider.Payments,
	clk clock.Clock,
	logger *slog.Logger,
	holdTTL time.Duration,
	daysAhead int,
) BookingUseCase {
	if holdTTL <= 0 {
		holdTTL = bookingDomain.HoldTTL
	}
	if daysAhead <= 0 {
		daysAhead = bookingService.DefaultDaysAhead
	}
	return &bookingUseCase{
		txManager:       txManager,
		holdRepo:        holdRepo,
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		orgRepo:         orgRepo,
		eventRepo:       eventRepo,
		taskQueue:       taskQueue,
		followups:       followups,
		calendar:        calendar,
		payments:        payments,
		clock:           clk,
		logger:          logger,
		holdTTL:         holdTTL,
		daysAhead:       daysAhead,
	}
}

// ListSlots returns the bookable slots for an org. Calendar lookups fail
// open: on provider error the busy set from the calendar is treated as empty,
// an availability_degraded event is emitted and slot generation continues
// with holds and appointments only.
func (b *bookingUseCase) ListSlots(ctx context.Context, orgID uuid.UUID) ([]bookingDomain.Slot, error) {
	config, err := b.orgRepo.GetConfig(ctx, orgID)
	if err != nil {
		return nil, err
	}

	now := b.clock.Now()
	windowEnd := now.Add(time.Duration(config.LeadTimeHours) * time.Hour).AddDate(0, 0, b.daysAhead)

	var busy []bookingDomain.BusyInterval

	calendarBusy, err := b.calendar.GetFreeBusy(ctx, orgID, now, windowEnd)
	if err != nil {
		b.logger.Warn("calendar free/busy lookup failed, continuing without it",
			slog.String("org_id", orgID.String()),
			slog.String("error", err.Error()),
		)
		b.emitEvent(ctx, orgID, nil, eventDomain.TypeAvailabilityDegraded, map[string]any{
			"error": err.Error(),
		})
	} else {
		busy = append(busy, calendarBusy...)
	}

	holdIntervals, err := b.holdRepo.ListActiveIntervals(ctx, orgID, now)
	if err != nil {
		return nil, err
	}
	busy = append(busy, holdIntervals...)

	appointmentIntervals, err := b.appointmentRepo.ListActiveIntervals(ctx, orgID, now)
	if err != nil {
		return nil, err
	}
	busy = append(busy, appointmentIntervals...)

	return bookingService.GenerateSlots(config.Strategy(), busy, now, b.daysAhead), nil
}

// CreateHold atomically places a hold and its pending appointment on a slot.
//
// The overlap check and both inserts run in one transaction; on PostgreSQL
// the overlap queries lock matching rows with FOR UPDATE so two concurrent
// requests for the same slot serialize and the loser observes the winner's
// hold. Expired holds never block: both overlap checks compare the backing
// hold's expires_at against the current instant, so a pending appointment
// orphaned by an expired hold frees its slot before cleanup runs.
func (b *bookingUseCase) CreateHold(ctx context.Context, input CreateHoldInput) (*CreateHoldOutput, error) {
	now := b.clock.Now()

	if !input.SlotEnd.After(input.SlotStart) {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "slot_end must be after slot_start")
	}
	if input.SlotStart.Before(now) {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "slot_start must be in the future")
	}

	var output *CreateHoldOutput

	err := b.txManager.WithTx(ctx, func(txCtx context.Context) error {
		config, err := b.orgRepo.GetConfig(txCtx, input.OrgID)
		if err != nil {
			return err
		}
		if input.SlotEnd.Sub(input.SlotStart) != config.Strategy().Duration() {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "slot length does not match the org's slot duration")
		}

		lead, err := b.orgRepo.GetLead(txCtx, input.LeadID)
		if err != nil {
			return err
		}
		if lead.OrgID != input.OrgID {
			return apperrors.ErrNotFound
		}

		holds, err := b.holdRepo.ListActiveOverlapping(txCtx, input.OrgID, input.SlotStart, input.SlotEnd, now)
		if err != nil {
			return err
		}
		if len(holds) > 0 {
			return apperrors.Wrap(apperrors.ErrConflict, "slot is held by another booking")
		}

		appointments, err := b.appointmentRepo.ListActiveOverlapping(txCtx, input.OrgID, input.SlotStart, input.SlotEnd, now)
		if err != nil {
			return err
		}
		if len(appointments) > 0 {
			return apperrors.Wrap(apperrors.ErrConflict, "slot overlaps an existing appointment")
		}

		hold := &bookingDomain.Hold{
			ID:        uuid.Must(uuid.NewV7()),
			OrgID:     input.OrgID,
			LeadID:    input.LeadID,
			SlotStart: input.SlotStart,
			SlotEnd:   input.SlotEnd,
			ExpiresAt: now.Add(b.holdTTL),
			CreatedAt: now,
		}
		if err := b.holdRepo.Create(txCtx, hold); err != nil {
			return err
		}

		appointment := &bookingDomain.Appointment{
			ID:        uuid.Must(uuid.NewV7()),
			OrgID:     input.OrgID,
			LeadID:    input.LeadID,
			HoldID:    hold.ID,
			StartAt:   input.SlotStart,
			EndAt:     input.SlotEnd,
			Status:    bookingDomain.AppointmentStatusPendingHold,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := b.appointmentRepo.Create(txCtx, appointment); err != nil {
			return err
		}

		if err := b.createEvent(txCtx, input.OrgID, &input.LeadID, eventDomain.TypeHoldCreated, map[string]any{
			"hold_id":        hold.ID.String(),
			"appointment_id": appointment.ID.String(),
			"slot_start":     hold.SlotStart.Format(time.RFC3339),
			"slot_end":       hold.SlotEnd.Format(time.RFC3339),
			"expires_at":     hold.ExpiresAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}

		output = &CreateHoldOutput{
			Hold:               hold,
			Appointment:        appointment,
			DepositAmountCents: bookingDomain.DepositAmountCents(input.PriceCents, config.DepositPercent),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// BeginPayment starts a deposit payment for a held slot.
//
// The provider round trip happens before the transaction opens so a slow
// payment gateway never sits on row locks. A crash between intent creation
// and commit leaves an unused intent at the provider; it is never confirmed,
// so no payment record depends on it.
func (b *bookingUseCase) BeginPayment(ctx context.Context, input BeginPaymentInput) (*BeginPaymentOutput, error) {
	now := b.clock.Now()
	currency := input.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	hold, err := b.holdRepo.GetByID(ctx, input.HoldID)
	if err != nil {
		return nil, err
	}
	if hold.OrgID != input.OrgID {
		return nil, apperrors.ErrNotFound
	}
	if hold.Expired(now) {
		return nil, apperrors.Wrap(apperrors.ErrExpired, "hold has expired")
	}

	appointment, err := b.appointmentRepo.GetByID(ctx, input.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.OrgID != input.OrgID || appointment.HoldID != input.HoldID {
		return nil, apperrors.ErrNotFound
	}
	if !appointment.Status.CanTransitionTo(bookingDomain.AppointmentStatusPendingPayment) {
		return nil, apperrors.Wrap(apperrors.ErrConflict, "appointment is not awaiting payment")
	}

	intent, err := b.payments.CreatePaymentIntent(ctx, input.OrgID, input.AmountCents, currency, map[string]string{
		"appointment_id": appointment.ID.String(),
		"hold_id":        hold.ID.String(),
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrProvider, err.Error())
	}

	var output *BeginPaymentOutput

	err = b.txManager.WithTx(ctx, func(txCtx context.Context) error {
		// Re-check under the transaction: the appointment may have moved
		// since the unlocked read above.
		current, err := b.appointmentRepo.GetByID(txCtx, input.AppointmentID)
		if err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(bookingDomain.AppointmentStatusPendingPayment) {
			return apperrors.Wrap(apperrors.ErrConflict, "appointment is not awaiting payment")
		}
		if err := b.appointmentRepo.UpdateStatus(txCtx, current.ID, bookingDomain.AppointmentStatusPendingPayment); err != nil {
			return err
		}

		payment := &bookingDomain.Payment{
			ID:            uuid.Must(uuid.NewV7()),
			OrgID:         input.OrgID,
			AppointmentID: appointment.ID,
			AmountCents:   input.AmountCents,
			Currency:      currency,
			IntentID:      intent.IntentID,
			Status:        bookingDomain.PaymentStatusInitiated,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := b.paymentRepo.Create(txCtx, payment); err != nil {
			return err
		}

		if err := b.createEvent(txCtx, input.OrgID, &appointment.LeadID, eventDomain.TypePaymentInitiated, map[string]any{
			"appointment_id": appointment.ID.String(),
			"intent_id":      intent.IntentID,
			"amount_cents":   input.AmountCents,
			"currency":       currency,
		}); err != nil {
			return err
		}

		output = &BeginPaymentOutput{
			Payment:      payment,
			ClientSecret: intent.ClientSecret,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// ConfirmPayment applies a provider success notification.
func (b *bookingUseCase) ConfirmPayment(ctx context.Context, intentID string) error {
	now := b.clock.Now()

	return b.txManager.WithTx(ctx, func(txCtx context.Context) error {
		payment, err := b.paymentRepo.GetByIntentID(txCtx, intentID)
		if err != nil {
			return err
		}
		// Webhook deliveries can repeat.
		if payment.Status == bookingDomain.PaymentStatusSucceeded {
			return nil
		}

		appointment, err := b.appointmentRepo.GetByID(txCtx, payment.AppointmentID)
		if err != nil {
			return err
		}
		if !appointment.Status.CanTransitionTo(bookingDomain.AppointmentStatusConfirmed) {
			return apperrors.Wrap(apperrors.ErrConflict, "appointment cannot be confirmed")
		}

		if err := b.paymentRepo.UpdateStatus(txCtx, payment.ID, bookingDomain.PaymentStatusSucceeded); err != nil {
			return err
		}
		if err := b.appointmentRepo.UpdateStatus(txCtx, appointment.ID, bookingDomain.AppointmentStatusConfirmed); err != nil {
			return err
		}
		if err := b.orgRepo.UpdateLeadStatus(txCtx, appointment.LeadID, orgDomain.LeadStatusPaid); err != nil {
			return err
		}

		calendarPayload := tasksDomain.CalendarSyncPayload{AppointmentID: appointment.ID.String()}
		if _, err := b.taskQueue.Enqueue(
			txCtx, appointment.OrgID, &appointment.LeadID, tasksDomain.TypeCalendarSync, calendarPayload, now,
		); err != nil {
			return err
		}

		remindersPayload := tasksDomain.ScheduleRemindersPayload{AppointmentID: appointment.ID.String()}
		if _, err := b.taskQueue.Enqueue(
			txCtx, appointment.OrgID, &appointment.LeadID, tasksDomain.TypeScheduleReminders, remindersPayload, now,
		); err != nil {
			return err
		}

		adminPayload := tasksDomain.NotifyAdminPayload{
			Subject: "Booking confirmed",
			Body: fmt.Sprintf(
				"Appointment %s is confirmed for %s, deposit of %d cents received.",
				appointment.ID, appointment.StartAt.Format(time.RFC3339), payment.AmountCents,
			),
		}
		if _, err := b.taskQueue.Enqueue(
			txCtx, appointment.OrgID, &appointment.LeadID, tasksDomain.TypeNotifyAdmin, adminPayload, now,
		); err != nil {
			return err
		}

		return b.createEvent(txCtx, appointment.OrgID, &appointment.LeadID, eventDomain.TypePaymentConfirmed, map[string]any{
			"appointment_id": appointment.ID.String(),
			"intent_id":      intentID,
			"amount_cents":   payment.AmountCents,
		})
	})
}

// FailPayment applies a provider failure notification.
func (b *bookingUseCase) FailPayment(ctx context.Context, intentID string) error {
	return b.txManager.WithTx(ctx, func(txCtx context.Context) error {
		payment, err := b.paymentRepo.GetByIntentID(txCtx, intentID)
		if err != nil {
			return err
		}
		if payment.Status == bookingDomain.PaymentStatusFailed {
			return nil
		}

		appointment, err := b.appointmentRepo.GetByID(txCtx, payment.AppointmentID)
		if err != nil {
			return err
		}

		if err := b.paymentRepo.UpdateStatus(txCtx, payment.ID, bookingDomain.PaymentStatusFailed); err != nil {
			return err
		}

		if appointment.Status.CanTransitionTo(bookingDomain.AppointmentStatusCancelled) {
			if err := b.appointmentRepo.UpdateStatus(txCtx, appointment.ID, bookingDomain.AppointmentStatusCancelled); err != nil {
				return err
			}
			if err := b.createEvent(
				txCtx, appointment.OrgID, &appointment.LeadID, eventDomain.TypeAppointmentCancelled,
				map[string]any{"appointment_id": appointment.ID.String(), "reason": "payment_failed"},
			); err != nil {
				return err
			}

			// A failed deposit drops the lead back into the nurture sequence.
			lead, err := b.orgRepo.GetLead(txCtx, appointment.LeadID)
			if err != nil {
				return err
			}
			if err := b.followups.Start(txCtx, lead); err != nil {
				return err
			}
		}

		return b.createEvent(txCtx, appointment.OrgID, &appointment.LeadID, eventDomain.TypePaymentFailed, map[string]any{
			"appointment_id": appointment.ID.String(),
			"intent_id":      intentID,
		})
	})
}

// CleanupExpiredHolds cancels pending appointments whose hold expired.
func (b *bookingUseCase) CleanupExpiredHolds(ctx context.Context) (int64, error) {
	var cancelled int64

	err := b.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		cancelled, err = b.appointmentRepo.CancelExpired(txCtx, b.clock.Now())
		return err
	})
	if err != nil {
		return 0, err
	}

	return cancelled, nil
}

// createEvent appends an audit event inside the current transaction.
func (b *bookingUseCase) createEvent(
	ctx context.Context,
	orgID uuid.UUID,
	leadID *uuid.UUID,
	eventType string,
	metadata map[string]any,
) error {
	data, err := json.Marshal(metadata)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal event metadata")
	}
	return b.eventRepo.Create(ctx, &eventDomain.Event{
		ID:        uuid.Must(uuid.NewV7()),
		OrgID:     orgID,
		LeadID:    leadID,
		Type:      eventType,
		Metadata:  string(data),
		CreatedAt: b.clock.Now(),
	})
}

// emitEvent appends an audit event outside a transaction, best effort.
func (b *bookingUseCase) emitEvent(
	ctx context.Context,
	orgID uuid.UUID,
	leadID *uuid.UUID,
	eventType string,
	metadata map[string]any,
) {
	if err := b.createEvent(ctx, orgID, leadID, eventType, metadata); err != nil {
		b.logger.Error("failed to append event",
			slog.String("org_id", orgID.String()),
			slog.String("type", eventType),
			slog.String("error", err.Error()),
		)
	}
}
