package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/booking/internal/booking/domain"
)

// defaultStrategy mirrors a typical org configuration: two-hour slots with a
// 30 minute buffer, 48h notice, three slots per day, working 8-17.
func defaultStrategy() domain.SlotStrategy {
	return domain.SlotStrategy{
		DurationMinutes: 120,
		LeadTimeHours:   48,
		BufferMinutes:   30,
		MaxPerDay:       3,
		WorkStartHour:   8,
		WorkEndHour:     17,
	}
}

// monday is a fixed Monday 09:00 UTC reference instant.
var monday = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestGenerateSlots_FirstSlotRespectsLeadTime(t *testing.T) {
	slots := GenerateSlots(defaultStrategy(), nil, monday, 14)
	require.NotEmpty(t, slots)

	earliest := monday.Add(48 * time.Hour)
	first := slots[0]

	// First slot starts at the first working-hour boundary at or after now+48h.
	assert.False(t, first.Start.Before(earliest))
	assert.Equal(t, time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), first.Start)
	assert.Equal(t, time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC), first.End)
}

func TestGenerateSlots_CandidatesAdvanceByDurationPlusBuffer(t *testing.T) {
	slots := GenerateSlots(defaultStrategy(), nil, monday, 14)
	require.GreaterOrEqual(t, len(slots), 3)

	// Wednesday: 09:00-11:00, 11:30-13:30, 14:00-16:00.
	assert.Equal(t, time.Date(2026, 3, 4, 11, 30, 0, 0, time.UTC), slots[1].Start)
	assert.Equal(t, time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC), slots[2].Start)
}

func TestGenerateSlots_NoSlotOverlapsBusyInterval(t *testing.T) {
	busy := []domain.BusyInterval{
		{
			Start: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
		},
		{
			Start: time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 5, 17, 0, 0, 0, time.UTC),
		},
	}

	slots := GenerateSlots(defaultStrategy(), busy, monday, 14)
	require.NotEmpty(t, slots)

	for _, slot := range slots {
		for _, b := range busy {
			assert.False(t, b.Overlaps(slot.Start, slot.End),
				"slot %v-%v overlaps busy %v-%v", slot.Start, slot.End, b.Start, b.End)
		}
	}
}

func TestGenerateSlots_MaxPerDayCap(t *testing.T) {
	strategy := defaultStrategy()
	strategy.MaxPerDay = 2

	slots := GenerateSlots(strategy, nil, monday, 14)
	require.NotEmpty(t, slots)

	perDay := map[string]int{}
	for _, slot := range slots {
		perDay[slot.Start.Format("2006-01-02")]++
	}
	for day, count := range perDay {
		assert.LessOrEqual(t, count, 2, "day %s exceeds cap", day)
	}
}

func TestGenerateSlots_WeekendsSkipped(t *testing.T) {
	slots := GenerateSlots(defaultStrategy(), nil, monday, 14)
	require.NotEmpty(t, slots)

	for _, slot := range slots {
		wd := slot.Start.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}

func TestGenerateSlots_CustomDaysOff(t *testing.T) {
	strategy := defaultStrategy()
	strategy.DaysOff = []time.Weekday{time.Wednesday, time.Thursday}

	slots := GenerateSlots(strategy, nil, monday, 14)
	require.NotEmpty(t, slots)

	for _, slot := range slots {
		wd := slot.Start.Weekday()
		assert.NotEqual(t, time.Wednesday, wd)
		assert.NotEqual(t, time.Thursday, wd)
	}

	// Saturday is bookable under the custom off days.
	var sawSaturday bool
	for _, slot := range slots {
		if slot.Start.Weekday() == time.Saturday {
			sawSaturday = true
		}
	}
	assert.True(t, sawSaturday)
}

func TestGenerateSlots_EndOfDayRejectedNotTruncated(t *testing.T) {
	slots := GenerateSlots(defaultStrategy(), nil, monday, 14)
	require.NotEmpty(t, slots)

	for _, slot := range slots {
		// Every slot keeps the full duration and ends within working hours.
		assert.Equal(t, 2*time.Hour, slot.End.Sub(slot.Start))
		end := time.Date(slot.Start.Year(), slot.Start.Month(), slot.Start.Day(), 17, 0, 0, 0, time.UTC)
		assert.False(t, slot.End.After(end))
	}
}

func TestGenerateSlots_WithinHorizon(t *testing.T) {
	slots := GenerateSlots(defaultStrategy(), nil, monday, 7)
	require.NotEmpty(t, slots)

	horizon := monday.Add(7 * 24 * time.Hour)
	for _, slot := range slots {
		assert.True(t, slot.Start.Before(horizon))
	}
}

func TestGenerateSlots_Ordered(t *testing.T) {
	slots := GenerateSlots(defaultStrategy(), nil, monday, 14)
	require.NotEmpty(t, slots)

	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].Start.After(slots[i-1].Start))
	}
}

func TestGenerateSlots_HeldSlotNotOffered(t *testing.T) {
	// A hold for an exact slot must remove that slot from the results.
	held := domain.BusyInterval{
		Start: time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC),
	}

	slots := GenerateSlots(defaultStrategy(), []domain.BusyInterval{held}, monday, 14)
	require.NotEmpty(t, slots)

	for _, slot := range slots {
		assert.False(t, slot.Start.Equal(held.Start) && slot.End.Equal(held.End))
	}
}

func TestGenerateSlots_SnapsMidHourLeadTime(t *testing.T) {
	// now 09:10 + 48h = 09:10, snapped up to 10:00.
	now := monday.Add(10 * time.Minute)

	slots := GenerateSlots(defaultStrategy(), nil, now, 14)
	require.NotEmpty(t, slots)
	assert.Equal(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC), slots[0].Start)
}

func TestGenerateSlots_LeadTimeLandsBeforeWorkingHours(t *testing.T) {
	strategy := defaultStrategy()
	strategy.LeadTimeHours = 0

	// 05:00 Monday, before the working day: first slot at 08:00 same day.
	now := time.Date(2026, 3, 2, 5, 0, 0, 0, time.UTC)
	slots := GenerateSlots(strategy, nil, now, 14)
	require.NotEmpty(t, slots)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), slots[0].Start)
}

func TestGenerateSlots_LeadTimeLandsAfterWorkingHours(t *testing.T) {
	strategy := defaultStrategy()
	strategy.LeadTimeHours = 0

	// 16:00 Monday: a two-hour slot would end 18:00 > 17:00, so the first
	// slot moves to Tuesday 08:00.
	now := time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)
	slots := GenerateSlots(strategy, nil, now, 14)
	require.NotEmpty(t, slots)
	assert.Equal(t, time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC), slots[0].Start)
}

func TestGenerateSlots_LeadTimeLandsOnWeekend(t *testing.T) {
	strategy := defaultStrategy()
	strategy.LeadTimeHours = 0

	// Saturday: first slot on Monday.
	now := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	slots := GenerateSlots(strategy, nil, now, 14)
	require.NotEmpty(t, slots)
	assert.Equal(t, time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC), slots[0].Start)
}

func TestGenerateSlots_FullyBusyHorizonReturnsEmpty(t *testing.T) {
	busy := []domain.BusyInterval{
		{Start: monday.Add(-24 * time.Hour), End: monday.Add(30 * 24 * time.Hour)},
	}

	slots := GenerateSlots(defaultStrategy(), busy, monday, 14)
	assert.Empty(t, slots)
}

func TestGenerateSlots_EmptyBusySetMeansNoConstraint(t *testing.T) {
	withNil := GenerateSlots(defaultStrategy(), nil, monday, 14)
	withEmpty := GenerateSlots(defaultStrategy(), []domain.BusyInterval{}, monday, 14)

	assert.Equal(t, withNil, withEmpty)
	assert.NotEmpty(t, withNil)
}

func TestGenerateSlots_InvalidStrategy(t *testing.T) {
	t.Run("zero duration", func(t *testing.T) {
		strategy := defaultStrategy()
		strategy.DurationMinutes = 0
		assert.Nil(t, GenerateSlots(strategy, nil, monday, 14))
	})

	t.Run("inverted working hours", func(t *testing.T) {
		strategy := defaultStrategy()
		strategy.WorkStartHour = 17
		strategy.WorkEndHour = 8
		assert.Nil(t, GenerateSlots(strategy, nil, monday, 14))
	})
}

func TestGenerateSlots_DefaultHorizonApplied(t *testing.T) {
	slots := GenerateSlots(defaultStrategy(), nil, monday, 0)
	require.NotEmpty(t, slots)

	horizon := monday.Add(DefaultDaysAhead * 24 * time.Hour)
	for _, slot := range slots {
		assert.True(t, slot.Start.Before(horizon))
	}
}
