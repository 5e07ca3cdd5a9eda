package domain

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus tracks where a lead sits in the funnel. Follow-up automation
// stops once a lead has booked, paid, opted out or been marked lost.
type LeadStatus string

const (
	LeadStatusNew      LeadStatus = "new"
	LeadStatusBooked   LeadStatus = "booked"
	LeadStatusPaid     LeadStatus = "paid"
	LeadStatusOptedOut LeadStatus = "opted_out"
	LeadStatusLost     LeadStatus = "lost"
)

// FollowupStopped reports whether automated follow-ups must not be sent to a
// lead in this status.
func (s LeadStatus) FollowupStopped() bool {
	switch s {
	case LeadStatusBooked, LeadStatusPaid, LeadStatusOptedOut, LeadStatusLost:
		return true
	default:
		return false
	}
}

// Lead is a prospective customer captured by an org.
type Lead struct {
	ID        uuid.UUID
	OrgID     uuid.UUID
	Name      string
	Email     string
	Phone     string
	Status    LeadStatus
	CreatedAt time.Time
}
