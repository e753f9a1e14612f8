package planner

import (
	"testing"
	"time"

	"alcyxob/training-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func supplement(offset int, class domain.SupplementClass) domain.PlannedWorkout {
	d := day(offset)
	return domain.PlannedWorkout{Date: d, DayOfWeek: int(d.Weekday()), SupplementClass: class, TargetDurationMinutes: 45}
}

func TestSuggestHeavyConditioningPrefersMondayAwayFromHardDays(t *testing.T) {
	p := Default()
	schedule := []domain.PlannedWorkout{
		workout(3, domain.CategoryThreshold, 90), // Thursday
		workout(5, domain.CategoryVO2Max, 75),    // Saturday
		workout(8, domain.CategoryThreshold, 90), // next Tuesday
	}

	got := p.SuggestSupplements(SupplementRequest{
		Class:          domain.SupplementHeavyConditioning,
		From:           monday,
		LookAheadWeeks: 1,
		Schedule:       schedule,
		Availability:   NewAvailability(nil, nil),
	})

	require.NotEmpty(t, got)
	assert.Equal(t, day(0), got[0].Date)
	assert.Equal(t, 80, got[0].Score)
	assert.Equal(t, domain.DayTypeRest, got[0].DayType)

	dates := make([]time.Time, 0, len(got))
	for _, s := range got {
		dates = append(dates, s.Date)
		assert.Greater(t, s.Score, SupplementMinScore)
	}
	assert.NotContains(t, dates, day(2), "Wednesday is the day before a hard session")
	assert.NotContains(t, dates, day(3), "hard days are not allowed for heavy conditioning")
	assert.NotContains(t, dates, day(4))
	assert.Equal(t, []time.Time{day(0), day(1), day(6)}, dates)
}

func TestSuggestSupplementsSkipsBlockedDays(t *testing.T) {
	p := Default()
	avail := NewAvailability([]domain.DayAvailability{{DayOfWeek: int(time.Monday), Status: domain.StatusBlocked}}, nil)

	got := p.SuggestSupplements(SupplementRequest{
		Class:          domain.SupplementFlexibility,
		From:           monday,
		LookAheadWeeks: 2,
		Availability:   avail,
	})
	require.Len(t, got, 12)
	for _, s := range got {
		assert.NotEqual(t, time.Monday, s.Date.Weekday())
	}
}

func TestSuggestSupplementsHonoursSpacingAndWeeklyLimit(t *testing.T) {
	p := Default()
	schedule := []domain.PlannedWorkout{
		supplement(0, domain.SupplementHeavyConditioning),
		supplement(3, domain.SupplementHeavyConditioning),
	}

	got := p.SuggestSupplements(SupplementRequest{
		Class:          domain.SupplementHeavyConditioning,
		From:           monday,
		LookAheadWeeks: 2,
		Schedule:       schedule,
		Availability:   NewAvailability(nil, nil),
	})

	require.NotEmpty(t, got)
	for _, s := range got {
		assert.False(t, s.Date.Before(day(7)), "first week already holds two heavy sessions: %s", s.Date)
	}

	schedule = schedule[:1]
	got = p.SuggestSupplements(SupplementRequest{
		Class:          domain.SupplementHeavyConditioning,
		From:           monday,
		LookAheadWeeks: 1,
		Schedule:       schedule,
		Availability:   NewAvailability(nil, nil),
	})
	for _, s := range got {
		assert.NotEqual(t, day(0), s.Date)
		assert.NotEqual(t, day(1), s.Date, "too close to Monday's session")
	}
}

func TestSuggestSupplementsUnknownClass(t *testing.T) {
	assert.Nil(t, Default().SuggestSupplements(SupplementRequest{Class: "pilates", From: monday}))
}

func TestSuggestSupplementsDefaultWindow(t *testing.T) {
	got := Default().SuggestSupplements(SupplementRequest{Class: domain.SupplementCore, From: monday})
	assert.Len(t, got, DefaultLookAheadWeeks*7)
}

func TestPolicyConstantSupplementRules(t *testing.T) {
	heavy := SupplementRules[domain.SupplementHeavyConditioning]
	assert.Equal(t, 48, heavy.MinHoursBeforeHard)
	assert.Equal(t, 2, heavy.MaxPerWeek)
	assert.Equal(t, 30, SupplementMinScore)
	for _, class := range domain.SupplementClasses {
		_, ok := SupplementRules[class]
		assert.True(t, ok, "missing rule for %s", class)
	}
}
