package provider

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCalendar(t *testing.T) {
	calendar := NewLogCalendar(nil)
	orgID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	busy, err := calendar.GetFreeBusy(context.Background(), orgID, now, now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, busy)

	eventID, err := calendar.CreateEvent(context.Background(), orgID, CalendarEvent{
		Summary: "Appointment",
		Start:   now,
		End:     now.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, eventID)
}

func TestLogPayments(t *testing.T) {
	payments := NewLogPayments(nil)
	orgID := uuid.Must(uuid.NewV7())

	intent, err := payments.CreatePaymentIntent(context.Background(), orgID, 2500, "usd", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, intent.IntentID)
	assert.NotEmpty(t, intent.ClientSecret)
	assert.NotEqual(t, intent.IntentID, intent.ClientSecret)
}

func TestLogMessenger(t *testing.T) {
	messenger := NewLogMessenger(nil)
	orgID := uuid.Must(uuid.NewV7())

	assert.NoError(t, messenger.SendSMS(context.Background(), orgID, "+15551234567", "see you soon"))
	assert.NoError(t, messenger.SendEmail(context.Background(), "admin@example.com", "new booking", "<p>hi</p>"))
}
