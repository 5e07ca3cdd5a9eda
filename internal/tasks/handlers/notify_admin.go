package handlers

import (
	"context"

	"github.com/allisson/booking/internal/clock"
	apperrors "github.com/allisson/booking/internal/errors"
	eventDomain "github.com/allisson/booking/internal/event/domain"
	"github.com/allisson/booking/internal/provider"
	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
)

// NotifyAdminHandler emails the org's notification address.
type NotifyAdminHandler struct {
	orgRepo   OrgRepository
	messenger provider.Messenger
	eventRepo EventRepository
	clock     clock.Clock
}

// NewNotifyAdminHandler creates a new notify_admin handler.
func NewNotifyAdminHandler(
	orgRepo OrgRepository,
	messenger provider.Messenger,
	eventRepo EventRepository,
	clk clock.Clock,
) *NotifyAdminHandler {
	return &NotifyAdminHandler{
		orgRepo:   orgRepo,
		messenger: messenger,
		eventRepo: eventRepo,
		clock:     clk,
	}
}

// Handle sends the notification email.
func (h *NotifyAdminHandler) Handle(
	ctx context.Context,
	task *tasksDomain.Task,
	payload tasksDomain.Payload,
) error {
	p, ok := payload.(tasksDomain.NotifyAdminPayload)
	if !ok {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "unexpected payload type for notify_admin")
	}

	config, err := h.orgRepo.GetConfig(ctx, task.OrgID)
	if err != nil {
		return err
	}

	if err := h.messenger.SendEmail(ctx, config.NotificationEmail, p.Subject, p.Body); err != nil {
		return apperrors.Wrap(err, "failed to send admin notification")
	}

	return appendEvent(ctx, h.eventRepo, h.clock, task.OrgID, task.LeadID,
		eventDomain.TypeAdminNotified, map[string]any{
			"subject": p.Subject,
		})
}
