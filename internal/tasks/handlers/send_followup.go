package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/booking/internal/clock"
	apperrors "github.com/allisson/booking/internal/errors"
	eventDomain "github.com/allisson/booking/internal/event/domain"
	orgDomain "github.com/allisson/booking/internal/org/domain"
	"github.com/allisson/booking/internal/provider"
	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
)

// FollowupStep is one message in an org's follow-up sequence. Delay is
// measured from the previous step (or from the sequence start for the first).
type FollowupStep struct {
	Delay   time.Duration
	Channel orgDomain.MessageChannel
	Subject string
	Body    string
}

// DefaultFollowupPlan nudges a lead three times before giving up.
var DefaultFollowupPlan = []FollowupStep{
	{
		Delay:   24 * time.Hour,
		Channel: orgDomain.MessageChannelSMS,
		Body:    "Hi! You recently asked about booking an appointment with us. Slots are still available, reply or book online anytime.",
	},
	{
		Delay:   48 * time.Hour,
		Channel: orgDomain.MessageChannelSMS,
		Body:    "Just checking in! We'd love to get you booked. Reply STOP to opt out.",
	},
	{
		Delay:   96 * time.Hour,
		Channel: orgDomain.MessageChannelEmail,
		Subject: "Still thinking it over?",
		Body:    "<p>Your appointment slot options are still open. Book whenever you're ready.</p>",
	},
}

// SendFollowupHandler delivers one follow-up message to a lead and chains
// the next step of the sequence through the queue. The lead's status is
// re-checked at send time: booked, paid, opted-out and lost leads stop the
// sequence.
type SendFollowupHandler struct {
	orgRepo   OrgRepository
	messenger provider.Messenger
	enqueuer  TaskEnqueuer
	eventRepo EventRepository
	clock     clock.Clock
	logger    *slog.Logger
	plan      []FollowupStep
}

// NewSendFollowupHandler creates a new send_followup handler.
func NewSendFollowupHandler(
	orgRepo OrgRepository,
	messenger provider.Messenger,
	enqueuer TaskEnqueuer,
	eventRepo EventRepository,
	clk clock.Clock,
	logger *slog.Logger,
	plan []FollowupStep,
) *SendFollowupHandler {
	if len(plan) == 0 {
		plan = DefaultFollowupPlan
	}
	return &SendFollowupHandler{
		orgRepo:   orgRepo,
		messenger: messenger,
		enqueuer:  enqueuer,
		eventRepo: eventRepo,
		clock:     clk,
		logger:    logger,
		plan:      plan,
	}
}

// Start enqueues the first follow-up for a lead. It is a no-op if the org
// has follow-ups disabled or the lead already stopped.
func (h *SendFollowupHandler) Start(ctx context.Context, lead *orgDomain.Lead) error {
	config, err := h.orgRepo.GetConfig(ctx, lead.OrgID)
	if err != nil {
		return err
	}
	if !config.FollowupEnabled || lead.Status.FollowupStopped() {
		return nil
	}

	first := h.plan[0]
	payload := tasksDomain.SendFollowupPayload{
		LeadID:  lead.ID.String(),
		Step:    1,
		Channel: string(first.Channel),
		Subject: first.Subject,
		Body:    first.Body,
	}
	_, err = h.enqueuer.Enqueue(
		ctx, lead.OrgID, &lead.ID, tasksDomain.TypeSendFollowup, payload, h.clock.Now().Add(first.Delay),
	)
	return err
}

// Handle sends one follow-up message and chains the next step.
func (h *SendFollowupHandler) Handle(
	ctx context.Context,
	task *tasksDomain.Task,
	payload tasksDomain.Payload,
) error {
	p, ok := payload.(tasksDomain.SendFollowupPayload)
	if !ok {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "unexpected payload type for send_followup")
	}

	leadID, err := uuid.Parse(p.LeadID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "invalid lead id")
	}

	lead, err := h.orgRepo.GetLead(ctx, leadID)
	if err != nil {
		return err
	}

	if lead.Status.FollowupStopped() {
		return appendEvent(ctx, h.eventRepo, h.clock, lead.OrgID, &lead.ID,
			eventDomain.TypeFollowupStopped, map[string]any{
				"step":   p.Step,
				"reason": string(lead.Status),
			})
	}

	config, err := h.orgRepo.GetConfig(ctx, lead.OrgID)
	if err != nil {
		return err
	}
	if !config.FollowupEnabled {
		h.logger.Info("follow-ups disabled for org", slog.String("org_id", lead.OrgID.String()))
		return nil
	}

	if err := h.send(ctx, lead, p); err != nil {
		return err
	}

	if err := appendEvent(ctx, h.eventRepo, h.clock, lead.OrgID, &lead.ID,
		eventDomain.TypeFollowupSent, map[string]any{
			"step":    p.Step,
			"channel": p.Channel,
		}); err != nil {
		return err
	}

	return h.chainNext(ctx, lead, p.Step)
}

// send delivers the follow-up over the requested channel and records it.
func (h *SendFollowupHandler) send(ctx context.Context, lead *orgDomain.Lead, p tasksDomain.SendFollowupPayload) error {
	channel := orgDomain.MessageChannel(p.Channel)
	recipient := lead.Phone

	switch channel {
	case orgDomain.MessageChannelSMS:
		if err := h.messenger.SendSMS(ctx, lead.OrgID, lead.Phone, p.Body); err != nil {
			return apperrors.Wrap(err, "failed to send follow-up sms")
		}
	case orgDomain.MessageChannelEmail:
		recipient = lead.Email
		if err := h.messenger.SendEmail(ctx, lead.Email, p.Subject, p.Body); err != nil {
			return apperrors.Wrap(err, "failed to send follow-up email")
		}
	default:
		return apperrors.Wrap(apperrors.ErrInvalidInput, "unknown follow-up channel "+p.Channel)
	}

	return h.orgRepo.CreateMessage(ctx, &orgDomain.Message{
		ID:        uuid.Must(uuid.NewV7()),
		OrgID:     lead.OrgID,
		LeadID:    lead.ID,
		Channel:   channel,
		Recipient: recipient,
		Subject:   p.Subject,
		Body:      p.Body,
		CreatedAt: h.clock.Now(),
	})
}

// chainNext enqueues the following step of the sequence, if any.
func (h *SendFollowupHandler) chainNext(ctx context.Context, lead *orgDomain.Lead, currentStep int) error {
	if currentStep < 1 || currentStep >= len(h.plan) {
		return nil
	}
	next := h.plan[currentStep]
	payload := tasksDomain.SendFollowupPayload{
		LeadID:  lead.ID.String(),
		Step:    currentStep + 1,
		Channel: string(next.Channel),
		Subject: next.Subject,
		Body:    next.Body,
	}
	_, err := h.enqueuer.Enqueue(
		ctx, lead.OrgID, &lead.ID, tasksDomain.TypeSendFollowup, payload, h.clock.Now().Add(next.Delay),
	)
	return err
}
