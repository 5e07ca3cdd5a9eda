// Package service implements the availability generator: a pure function
// from (strategy, busy intervals, now) to an ordered sequence of open slots.
// Callers fetch busy intervals from calendar/hold/appointment sources
// beforehand; an empty busy set means "no constraint".
package service

import (
	"time"

	"github.com/allisson/booking/internal/booking/domain"
)

// DefaultDaysAhead is the availability horizon used when the caller does not
// override it.
const DefaultDaysAhead = 14

// GenerateSlots computes the ordered list of open slots for the given
// strategy within [now, now+daysAhead).
//
// Candidate starts advance in steps of duration+buffer beginning at
// now+lead_time snapped up to the next hour boundary. Days listed as off are
// skipped entirely. A candidate whose end would pass the working-day end is
// rejected and the cursor moves to the next day's start (never truncated).
// Candidates overlapping a busy interval (half-open comparison) are skipped.
// Once a day reaches max_per_day accepted slots the rest of that day is
// skipped without affecting later days.
func GenerateSlots(
	strategy domain.SlotStrategy,
	busy []domain.BusyInterval,
	now time.Time,
	daysAhead int,
) []domain.Slot {
	if strategy.DurationMinutes <= 0 || strategy.WorkEndHour <= strategy.WorkStartHour {
		return nil
	}
	if daysAhead <= 0 {
		daysAhead = DefaultDaysAhead
	}

	horizon := now.Add(time.Duration(daysAhead) * 24 * time.Hour)
	cursor := snapToHour(now.Add(time.Duration(strategy.LeadTimeHours) * time.Hour))

	var slots []domain.Slot
	var currentDay time.Time
	dayCount := 0

	for cursor.Before(horizon) {
		if strategy.OffDay(cursor.Weekday()) {
			cursor = nextDayStart(cursor, strategy)
			continue
		}

		if cursor.Hour() < strategy.WorkStartHour {
			cursor = dayStart(cursor, strategy)
		}

		end := cursor.Add(strategy.Duration())
		if end.After(dayEnd(cursor, strategy)) {
			cursor = nextDayStart(cursor, strategy)
			continue
		}

		if day := dateOf(cursor); !day.Equal(currentDay) {
			currentDay = day
			dayCount = 0
		}

		if strategy.MaxPerDay > 0 && dayCount >= strategy.MaxPerDay {
			cursor = nextDayStart(cursor, strategy)
			continue
		}

		if overlapsAny(busy, cursor, end) {
			cursor = cursor.Add(strategy.Step())
			continue
		}

		slots = append(slots, domain.Slot{Start: cursor, End: end})
		dayCount++
		cursor = cursor.Add(strategy.Step())
	}

	return slots
}

// overlapsAny reports whether [start, end) overlaps any busy interval.
func overlapsAny(busy []domain.BusyInterval, start, end time.Time) bool {
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// snapToHour rounds t up to the next whole hour (identity if already on one).
func snapToHour(t time.Time) time.Time {
	snapped := t.Truncate(time.Hour)
	if snapped.Before(t) {
		snapped = snapped.Add(time.Hour)
	}
	return snapped
}

// dateOf truncates t to midnight of its day.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dayStart returns the working-day start for t's date.
func dayStart(t time.Time, strategy domain.SlotStrategy) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), strategy.WorkStartHour, 0, 0, 0, t.Location())
}

// dayEnd returns the working-day end for t's date.
func dayEnd(t time.Time, strategy domain.SlotStrategy) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), strategy.WorkEndHour, 0, 0, 0, t.Location())
}

// nextDayStart returns the working-day start of the day after t.
func nextDayStart(t time.Time, strategy domain.SlotStrategy) time.Time {
	next := t.AddDate(0, 0, 1)
	return dayStart(next, strategy)
}
