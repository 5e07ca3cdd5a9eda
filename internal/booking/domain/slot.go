// Package domain defines the core booking domain models: candidate slots,
// slot generation strategies, busy intervals, holds and appointments.
// Holds are short-lived exclusive reservations; expiry is a query-time
// predicate (expires_at < now), never a lifecycle event.
package domain

import (
	"time"
)

// SlotStrategy describes how candidate slots are generated for an org.
// It is configuration, not a persisted entity.
type SlotStrategy struct {
	// DurationMinutes is the length of each slot.
	DurationMinutes int
	// LeadTimeHours is the minimum notice before the earliest bookable slot.
	LeadTimeHours int
	// BufferMinutes is the gap inserted between consecutive candidate starts.
	BufferMinutes int
	// MaxPerDay caps the number of slots offered per day (0 means unlimited).
	MaxPerDay int
	// WorkStartHour and WorkEndHour bound the working day (24h clock).
	WorkStartHour int
	WorkEndHour   int
	// DaysOff lists weekdays that are skipped entirely. Nil means the
	// default Saturday/Sunday weekend.
	DaysOff []time.Weekday
}

// OffDay reports whether d is skipped by this strategy.
func (s SlotStrategy) OffDay(d time.Weekday) bool {
	if s.DaysOff == nil {
		return d == time.Saturday || d == time.Sunday
	}
	for _, off := range s.DaysOff {
		if off == d {
			return true
		}
	}
	return false
}

// Duration returns the slot length as a time.Duration.
func (s SlotStrategy) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// Step returns the cursor increment between candidate starts.
func (s SlotStrategy) Step() time.Duration {
	return time.Duration(s.DurationMinutes+s.BufferMinutes) * time.Minute
}

// Slot is a candidate appointment window. Slots are ephemeral, computed on
// demand and never stored.
type Slot struct {
	Start time.Time
	End   time.Time
}

// BusyInterval is a time range already occupied, from calendar data, active
// holds, or non-cancelled appointments.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [start, end) overlaps the busy interval using
// half-open semantics.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && end.After(b.Start)
}
