package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
	"github.com/allisson/booking/internal/clock"
	apperrors "github.com/allisson/booking/internal/errors"
	eventDomain "github.com/allisson/booking/internal/event/domain"
	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
)

// Reminder offsets before the appointment start.
const (
	customerReminderLong  = 24 * time.Hour
	customerReminderShort = 2 * time.Hour
	internalReminderLead  = 24 * time.Hour
)

// ScheduleRemindersHandler fans a confirmed appointment out into timed
// send_reminder tasks: 24h and 2h before start for the customer, 24h before
// start for the org. Reminder times already in the past are skipped.
type ScheduleRemindersHandler struct {
	appointmentRepo AppointmentRepository
	enqueuer        TaskEnqueuer
	eventRepo       EventRepository
	clock           clock.Clock
	logger          *slog.Logger
}

// NewScheduleRemindersHandler creates a new schedule_reminders handler.
func NewScheduleRemindersHandler(
	appointmentRepo AppointmentRepository,
	enqueuer TaskEnqueuer,
	eventRepo EventRepository,
	clk clock.Clock,
	logger *slog.Logger,
) *ScheduleRemindersHandler {
	return &ScheduleRemindersHandler{
		appointmentRepo: appointmentRepo,
		enqueuer:        enqueuer,
		eventRepo:       eventRepo,
		clock:           clk,
		logger:          logger,
	}
}

// Handle enqueues the reminder tasks for a confirmed appointment.
func (h *ScheduleRemindersHandler) Handle(
	ctx context.Context,
	task *tasksDomain.Task,
	payload tasksDomain.Payload,
) error {
	p, ok := payload.(tasksDomain.ScheduleRemindersPayload)
	if !ok {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "unexpected payload type for schedule_reminders")
	}

	appointmentID, err := uuid.Parse(p.AppointmentID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "invalid appointment id")
	}

	appointment, err := h.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment.Status != bookingDomain.AppointmentStatusConfirmed {
		h.logger.Info("skipping reminders for non-confirmed appointment",
			slog.String("appointment_id", appointment.ID.String()),
			slog.String("status", string(appointment.Status)),
		)
		return nil
	}

	now := h.clock.Now()
	reminders := []struct {
		runAt    time.Time
		audience tasksDomain.ReminderAudience
	}{
		{appointment.StartAt.Add(-customerReminderLong), tasksDomain.ReminderAudienceCustomer},
		{appointment.StartAt.Add(-customerReminderShort), tasksDomain.ReminderAudienceCustomer},
		{appointment.StartAt.Add(-internalReminderLead), tasksDomain.ReminderAudienceInternal},
	}

	scheduled := 0
	for _, reminder := range reminders {
		if !reminder.runAt.After(now) {
			continue
		}
		reminderPayload := tasksDomain.SendReminderPayload{
			AppointmentID: appointment.ID.String(),
			Audience:      reminder.audience,
		}
		if _, err := h.enqueuer.Enqueue(
			ctx, appointment.OrgID, &appointment.LeadID, tasksDomain.TypeSendReminder, reminderPayload, reminder.runAt,
		); err != nil {
			return err
		}
		scheduled++
	}

	return appendEvent(ctx, h.eventRepo, h.clock, appointment.OrgID, &appointment.LeadID,
		eventDomain.TypeRemindersScheduled, map[string]any{
			"appointment_id": appointment.ID.String(),
			"scheduled":      scheduled,
		})
}
