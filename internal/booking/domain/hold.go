package domain

import (
	"time"

	"github.com/google/uuid"
)

// HoldTTL is the default lifetime of a hold.
const HoldTTL = 10 * time.Minute

// Hold is a short-lived exclusive reservation on a time range, preventing
// double-booking during checkout. Holds are never explicitly deleted;
// "expired" is computed against expires_at at query time.
type Hold struct {
	ID        uuid.UUID
	OrgID     uuid.UUID
	LeadID    uuid.UUID
	SlotStart time.Time
	SlotEnd   time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the hold no longer blocks its slot.
func (h *Hold) Expired(now time.Time) bool {
	return h.ExpiresAt.Before(now)
}
