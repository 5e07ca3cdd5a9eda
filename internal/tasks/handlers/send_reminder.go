package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
	"github.com/allisson/booking/internal/clock"
	apperrors "github.com/allisson/booking/internal/errors"
	eventDomain "github.com/allisson/booking/internal/event/domain"
	orgDomain "github.com/allisson/booking/internal/org/domain"
	"github.com/allisson/booking/internal/provider"
	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
)

// SendReminderHandler delivers a due appointment reminder: SMS to the
// customer or email to the org's notification address. The appointment is
// re-checked at send time so reminders for since-cancelled appointments are
// dropped silently.
type SendReminderHandler struct {
	appointmentRepo AppointmentRepository
	orgRepo         OrgRepository
	messenger       provider.Messenger
	eventRepo       EventRepository
	clock           clock.Clock
	logger          *slog.Logger
}

// NewSendReminderHandler creates a new send_reminder handler.
func NewSendReminderHandler(
	appointmentRepo AppointmentRepository,
	orgRepo OrgRepository,
	messenger provider.Messenger,
	eventRepo EventRepository,
	clk clock.Clock,
	logger *slog.Logger,
) *SendReminderHandler {
	return &SendReminderHandler{
		appointmentRepo: appointmentRepo,
		orgRepo:         orgRepo,
		messenger:       messenger,
		eventRepo:       eventRepo,
		clock:           clk,
		logger:          logger,
	}
}

// Handle sends the reminder for a still-confirmed appointment.
func (h *SendReminderHandler) Handle(
	ctx context.Context,
	task *tasksDomain.Task,
	payload tasksDomain.Payload,
) error {
	p, ok := payload.(tasksDomain.SendReminderPayload)
	if !ok {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "unexpected payload type for send_reminder")
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
		h.logger.Info("dropping reminder for non-confirmed appointment",
			slog.String("appointment_id", appointment.ID.String()),
			slog.String("status", string(appointment.Status)),
		)
		return nil
	}

	lead, err := h.orgRepo.GetLead(ctx, appointment.LeadID)
	if err != nil {
		return err
	}

	switch p.Audience {
	case tasksDomain.ReminderAudienceCustomer:
		if err := h.sendCustomerReminder(ctx, appointment, lead); err != nil {
			return err
		}
	case tasksDomain.ReminderAudienceInternal:
		if err := h.sendInternalReminder(ctx, appointment, lead); err != nil {
			return err
		}
	default:
		return apperrors.Wrap(apperrors.ErrInvalidInput, "unknown reminder audience "+string(p.Audience))
	}

	return appendEvent(ctx, h.eventRepo, h.clock, appointment.OrgID, &appointment.LeadID,
		eventDomain.TypeReminderSent, map[string]any{
			"appointment_id": appointment.ID.String(),
			"audience":       p.Audience,
		})
}

func (h *SendReminderHandler) sendCustomerReminder(
	ctx context.Context,
	appointment *bookingDomain.Appointment,
	lead *orgDomain.Lead,
) error {
	body := fmt.Sprintf(
		"Hi %s, this is a reminder of your appointment on %s.",
		lead.Name,
		appointment.StartAt.Format("Mon Jan 2 at 15:04 MST"),
	)
	if err := h.messenger.SendSMS(ctx, appointment.OrgID, lead.Phone, body); err != nil {
		return apperrors.Wrap(err, "failed to send customer reminder")
	}

	return h.orgRepo.CreateMessage(ctx, &orgDomain.Message{
		ID:        uuid.Must(uuid.NewV7()),
		OrgID:     appointment.OrgID,
		LeadID:    lead.ID,
		Channel:   orgDomain.MessageChannelSMS,
		Recipient: lead.Phone,
		Body:      body,
		CreatedAt: h.clock.Now(),
	})
}

func (h *SendReminderHandler) sendInternalReminder(
	ctx context.Context,
	appointment *bookingDomain.Appointment,
	lead *orgDomain.Lead,
) error {
	config, err := h.orgRepo.GetConfig(ctx, appointment.OrgID)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Upcoming appointment: %s", lead.Name)
	body := fmt.Sprintf(
		"<p>%s (%s, %s) has an appointment from %s to %s.</p>",
		lead.Name,
		lead.Email,
		lead.Phone,
		appointment.StartAt.Format(time.RFC1123),
		appointment.EndAt.Format(time.RFC1123),
	)
	if err := h.messenger.SendEmail(ctx, config.NotificationEmail, subject, body); err != nil {
		return apperrors.Wrap(err, "failed to send internal reminder")
	}

	return h.orgRepo.CreateMessage(ctx, &orgDomain.Message{
		ID:        uuid.Must(uuid.NewV7()),
		OrgID:     appointment.OrgID,
		LeadID:    lead.ID,
		Channel:   orgDomain.MessageChannelEmail,
		Recipient: config.NotificationEmail,
		Subject:   subject,
		Body:      body,
		CreatedAt: h.clock.Now(),
	})
}
