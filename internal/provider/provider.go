// Package provider defines the external collaborator interfaces consumed by
// the booking core: calendar free/busy and event creation, payment intents,
// and outbound messaging. Token refresh and vendor selection are the
// collaborator's responsibility; the core treats each as a single capability.
//
// The Log* implementations are wired by default: they log the call and
// succeed, so the core can run end to end without live credentials.
package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
)

// CalendarEvent describes an event to create in the org's calendar.
type CalendarEvent struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// Calendar exposes the org's external calendar.
type Calendar interface {
	// GetFreeBusy returns the busy intervals between timeMin and timeMax.
	GetFreeBusy(ctx context.Context, orgID uuid.UUID, timeMin, timeMax time.Time) ([]bookingDomain.BusyInterval, error)
	// CreateEvent creates a calendar event and returns the provider event id.
	CreateEvent(ctx context.Context, orgID uuid.UUID, event CalendarEvent) (string, error)
}

// PaymentIntent is the provider-side handle for a payment attempt.
type PaymentIntent struct {
	IntentID     string
	ClientSecret string
}

// Payments creates payment intents for deposits.
type Payments interface {
	CreatePaymentIntent(
		ctx context.Context,
		orgID uuid.UUID,
		amountCents int64,
		currency string,
		metadata map[string]string,
	) (*PaymentIntent, error)
}

// Messenger sends outbound SMS and email on behalf of an org.
type Messenger interface {
	SendSMS(ctx context.Context, orgID uuid.UUID, to, body string) error
	SendEmail(ctx context.Context, to, subject, html string) error
}

// LogCalendar is a Calendar that logs calls and reports an empty schedule.
type LogCalendar struct {
	logger *slog.Logger
}

// NewLogCalendar creates a logging no-op Calendar.
func NewLogCalendar(logger *slog.Logger) *LogCalendar {
	return &LogCalendar{logger: logger}
}

// GetFreeBusy logs the lookup and returns no busy intervals.
func (c *LogCalendar) GetFreeBusy(
	ctx context.Context,
	orgID uuid.UUID,
	timeMin, timeMax time.Time,
) ([]bookingDomain.BusyInterval, error) {
	if c.logger != nil {
		c.logger.Info("calendar free/busy lookup",
			slog.String("org_id", orgID.String()),
			slog.Time("time_min", timeMin),
			slog.Time("time_max", timeMax),
		)
	}
	return nil, nil
}

// CreateEvent logs the event and returns a generated event id.
func (c *LogCalendar) CreateEvent(ctx context.Context, orgID uuid.UUID, event CalendarEvent) (string, error) {
	eventID := uuid.Must(uuid.NewV7()).String()
	if c.logger != nil {
		c.logger.Info("calendar event created",
			slog.String("org_id", orgID.String()),
			slog.String("event_id", eventID),
			slog.String("summary", event.Summary),
			slog.Time("start", event.Start),
			slog.Time("end", event.End),
		)
	}
	return eventID, nil
}

// LogPayments is a Payments that logs calls and returns generated intents.
type LogPayments struct {
	logger *slog.Logger
}

// NewLogPayments creates a logging no-op Payments.
func NewLogPayments(logger *slog.Logger) *LogPayments {
	return &LogPayments{logger: logger}
}

// CreatePaymentIntent logs the request and returns a generated intent.
func (p *LogPayments) CreatePaymentIntent(
	ctx context.Context,
	orgID uuid.UUID,
	amountCents int64,
	currency string,
	metadata map[string]string,
) (*PaymentIntent, error) {
	intentID := "pi_" + uuid.Must(uuid.NewV7()).String()
	if p.logger != nil {
		p.logger.Info("payment intent created",
			slog.String("org_id", orgID.String()),
			slog.String("intent_id", intentID),
			slog.Int64("amount_cents", amountCents),
			slog.String("currency", currency),
		)
	}
	return &PaymentIntent{
		IntentID:     intentID,
		ClientSecret: intentID + "_secret",
	}, nil
}

// LogMessenger is a Messenger that logs messages instead of sending them.
type LogMessenger struct {
	logger *slog.Logger
}

// NewLogMessenger creates a logging no-op Messenger.
func NewLogMessenger(logger *slog.Logger) *LogMessenger {
	return &LogMessenger{logger: logger}
}

// SendSMS logs the SMS.
func (m *LogMessenger) SendSMS(ctx context.Context, orgID uuid.UUID, to, body string) error {
	if m.logger != nil {
		m.logger.Info("sms sent",
			slog.String("org_id", orgID.String()),
			slog.String("to", to),
			slog.Int("body_length", len(body)),
		)
	}
	return nil
}

// SendEmail logs the email.
func (m *LogMessenger) SendEmail(ctx context.Context, to, subject, html string) error {
	if m.logger != nil {
		m.logger.Info("email sent",
			slog.String("to", to),
			slog.String("subject", subject),
		)
	}
	return nil
}
