package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/allisson/booking/internal/clock"
	apperrors "github.com/allisson/booking/internal/errors"
	eventDomain "github.com/allisson/booking/internal/event/domain"
	"github.com/allisson/booking/internal/provider"
	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
)

// CalendarSyncHandler mirrors a confirmed appointment into the org's
// external calendar and stores the provider event id. Re-deliveries are
// idempotent: an appointment that already carries an event id is skipped.
type CalendarSyncHandler struct {
	appointmentRepo AppointmentRepository
	orgRepo         OrgRepository
	calendar        provider.Calendar
	eventRepo       EventRepository
	clock           clock.Clock
	logger          *slog.Logger
}

// NewCalendarSyncHandler creates a new calendar_sync handler.
func NewCalendarSyncHandler(
	appointmentRepo AppointmentRepository,
	orgRepo OrgRepository,
	calendar provider.Calendar,
	eventRepo EventRepository,
	clk clock.Clock,
	logger *slog.Logger,
) *CalendarSyncHandler {
	return &CalendarSyncHandler{
		appointmentRepo: appointmentRepo,
		orgRepo:         orgRepo,
		calendar:        calendar,
		eventRepo:       eventRepo,
		clock:           clk,
		logger:          logger,
	}
}

// Handle creates the calendar event for an appointment.
func (h *CalendarSyncHandler) Handle(
	ctx context.Context,
	task *tasksDomain.Task,
	payload tasksDomain.Payload,
) error {
	p, ok := payload.(tasksDomain.CalendarSyncPayload)
	if !ok {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "unexpected payload type for calendar_sync")
	}

	appointmentID, err := uuid.Parse(p.AppointmentID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "invalid appointment id")
	}

	appointment, err := h.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment.CalendarEventID != "" {
		h.logger.Info("appointment already synced to calendar",
			slog.String("appointment_id", appointment.ID.String()),
			slog.String("calendar_event_id", appointment.CalendarEventID),
		)
		return nil
	}

	lead, err := h.orgRepo.GetLead(ctx, appointment.LeadID)
	if err != nil {
		return err
	}

	eventID, err := h.calendar.CreateEvent(ctx, appointment.OrgID, provider.CalendarEvent{
		Summary:     fmt.Sprintf("Appointment: %s", lead.Name),
		Description: fmt.Sprintf("Booked appointment for %s (%s, %s)", lead.Name, lead.Email, lead.Phone),
		Start:       appointment.StartAt,
		End:         appointment.EndAt,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to create calendar event")
	}

	if err := h.appointmentRepo.SetCalendarEventID(ctx, appointment.ID, eventID); err != nil {
		return err
	}

	return appendEvent(ctx, h.eventRepo, h.clock, appointment.OrgID, &appointment.LeadID,
		eventDomain.TypeCalendarEventCreated, map[string]any{
			"appointment_id":    appointment.ID.String(),
			"calendar_event_id": eventID,
		})
}
