package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment.
// Transitions are strictly forward; confirmed and cancelled are terminal.
type AppointmentStatus string

const (
	AppointmentStatusPendingHold    AppointmentStatus = "pending_hold"
	AppointmentStatusPendingPayment AppointmentStatus = "pending_payment"
	AppointmentStatusConfirmed      AppointmentStatus = "confirmed"
	AppointmentStatusCancelled      AppointmentStatus = "cancelled"
)

// ActiveAppointmentStatuses are the statuses that block a slot.
var ActiveAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPendingHold,
	AppointmentStatusPendingPayment,
	AppointmentStatusConfirmed,
}

// CanTransitionTo reports whether the status machine permits moving from s
// to next. No transition out of confirmed or cancelled exists.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPendingHold:
		return next == AppointmentStatusPendingPayment || next == AppointmentStatusCancelled
	case AppointmentStatusPendingPayment:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusCancelled
	default:
		return false
	}
}

// Terminal reports whether the status admits no further transitions.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusConfirmed || s == AppointmentStatusCancelled
}

// Appointment is a booked (or in-progress) time range for a lead. It is
// created atomically alongside a Hold with status pending_hold.
type Appointment struct {
	ID     uuid.UUID
	OrgID  uuid.UUID
	LeadID uuid.UUID
	// HoldID references the hold this appointment was created with.
	HoldID uuid.UUID
	// StartAt and EndAt mirror the hold's slot range.
	StartAt time.Time
	EndAt   time.Time
	Status  AppointmentStatus
	// CalendarEventID is set once the calendar sync task has created the
	// provider event (empty until then).
	CalendarEventID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
