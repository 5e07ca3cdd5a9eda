// Package domain defines org-level models: the org itself, its booking
// configuration, captured leads and the outbound message log.
package domain

import (
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
)

// Org is a tenant: a service business accepting bookings.
type Org struct {
	ID   uuid.UUID
	Name string
	// Slug is the stable public identifier used in URLs.
	Slug string
	// Timezone is an IANA zone name used for display purposes.
	Timezone  string
	CreatedAt time.Time
}

// Config holds the per-org booking configuration.
type Config struct {
	ID    uuid.UUID
	OrgID uuid.UUID

	// Slot generation strategy.
	SlotDurationMinutes int
	LeadTimeHours       int
	BufferMinutes       int
	MaxPerDay           int
	WorkStartHour       int
	WorkEndHour         int

	// DepositPercent is the share of the service price collected up front
	// (0 disables deposits).
	DepositPercent int
	// NotificationEmail receives internal reminders and admin notifications.
	NotificationEmail string
	// FollowupEnabled turns on automated follow-up messages for leads.
	FollowupEnabled bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Strategy maps the org configuration to a slot generation strategy.
func (c *Config) Strategy() bookingDomain.SlotStrategy {
	return bookingDomain.SlotStrategy{
		DurationMinutes: c.SlotDurationMinutes,
		LeadTimeHours:   c.LeadTimeHours,
		BufferMinutes:   c.BufferMinutes,
		MaxPerDay:       c.MaxPerDay,
		WorkStartHour:   c.WorkStartHour,
		WorkEndHour:     c.WorkEndHour,
	}
}
