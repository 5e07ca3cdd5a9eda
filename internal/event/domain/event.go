// Package domain defines the append-only event log. Events are emitted on
// every state transition for observability and are never mutated or deleted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the booking flow and task handlers.
const (
	TypeHoldCreated          = "hold_created"
	TypePaymentInitiated     = "payment_initiated"
	TypePaymentConfirmed     = "payment_confirmed"
	TypePaymentFailed        = "payment_failed"
	TypeAppointmentCancelled = "appointment_cancelled"
	TypeAvailabilityDegraded = "availability_degraded"
	TypeTaskError            = "task_error"
	TypeRemindersScheduled   = "reminders_scheduled"
	TypeReminderSent         = "reminder_sent"
	TypeCalendarEventCreated = "calendar_event_created"
	TypeFollowupSent         = "followup_sent"
	TypeFollowupStopped      = "followup_stopped"
	TypeAdminNotified        = "admin_notified"
)

// Event is a single append-only audit record.
type Event struct {
	ID    uuid.UUID
	OrgID uuid.UUID
	// LeadID is nil for events not tied to a specific lead.
	LeadID *uuid.UUID
	Type   string
	// Metadata is a JSON object with event-specific details.
	Metadata  string
	CreatedAt time.Time
}
