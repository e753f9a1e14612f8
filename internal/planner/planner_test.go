package planner

import (
	"context"
	"testing"
	"time"

	"alcyxob/training-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 2024-01-01 is a Monday.
var monday = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time { return domain.AddDays(monday, offset) }

func intPtr(v int) *int { return &v }

func workout(offset int, category domain.WorkoutCategory, minutes int) domain.PlannedWorkout {
	d := day(offset)
	return domain.PlannedWorkout{
		ID:                    primitive.NewObjectID(),
		Date:                  d,
		WeekNumber:            1,
		DayOfWeek:             int(d.Weekday()),
		Name:                  string(category),
		Category:              category,
		TargetDurationMinutes: minutes,
		TargetTSS:             float64(minutes),
	}
}

func blockedWednesday() Availability {
	return NewAvailability([]domain.DayAvailability{
		{DayOfWeek: int(time.Wednesday), Status: domain.StatusBlocked},
	}, nil)
}

func TestResolveOverrideWinsOverWeeklyPattern(t *testing.T) {
	weekly := []domain.DayAvailability{{DayOfWeek: int(time.Wednesday), Status: domain.StatusBlocked}}
	overrides := domain.OverridesByDate([]domain.DateOverride{
		{Date: day(2), Status: domain.StatusPreferred, MaxDurationMinutes: intPtr(60)},
	})

	got := Resolve(day(2), weekly, overrides)
	assert.Equal(t, domain.StatusPreferred, got.Status)
	assert.True(t, got.IsOverride)
	require.NotNil(t, got.MaxDurationMinutes)
	assert.Equal(t, 60, *got.MaxDurationMinutes)

	nextWednesday := Resolve(day(9), weekly, overrides)
	assert.Equal(t, domain.StatusBlocked, nextWednesday.Status)
	assert.False(t, nextWednesday.IsOverride)
}

func TestResolveDefaultsToAvailableAndIsDeterministic(t *testing.T) {
	avail := NewAvailability(nil, nil)
	first := avail.Resolve(day(4).Add(17 * time.Hour))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, avail.Resolve(day(4)))
	}
	assert.Equal(t, domain.StatusAvailable, first.Status)
	assert.Equal(t, day(4), first.Date)
}

func TestResolveRange(t *testing.T) {
	got := blockedWednesday().ResolveRange(day(0), day(6))
	require.Len(t, got, 7)
	for i, r := range got {
		if i == 2 {
			assert.Equal(t, domain.StatusBlocked, r.Status)
			continue
		}
		assert.Equal(t, domain.StatusAvailable, r.Status, "day %d", i)
	}
	assert.Nil(t, blockedWednesday().ResolveRange(day(3), day(1)))
}

func TestRedistributeHardWorkoutMovesToThursday(t *testing.T) {
	p := Default()
	threshold := workout(2, domain.CategoryThreshold, 75)

	res := p.RedistributeWeek(WeekInput{
		WeekStart:    monday,
		Workouts:     []domain.PlannedWorkout{threshold},
		Availability: blockedWednesday(),
		Preferences:  domain.DefaultPreferences(),
	})

	require.Len(t, res.Moves, 1)
	assert.Equal(t, day(2), res.Moves[0].OriginalDate)
	assert.Equal(t, day(3), res.Moves[0].NewDate)
	assert.Equal(t, threshold.ID, res.Moves[0].PlannedWorkoutID)
	assert.True(t, res.CanActivate)
}

func TestRedistributeAvoidsDoublingHardDays(t *testing.T) {
	p := Default()
	moved := workout(2, domain.CategoryThreshold, 75)
	thursday := workout(3, domain.CategoryVO2Max, 60)

	res := p.RedistributeWeek(WeekInput{
		WeekStart:    monday,
		Workouts:     []domain.PlannedWorkout{moved, thursday},
		Availability: blockedWednesday(),
		Preferences:  domain.DefaultPreferences(),
	})

	require.Len(t, res.Moves, 1)
	assert.Equal(t, day(1), res.Moves[0].NewDate)
}

func TestRedistributeReplacesRestDayWithoutMovingIt(t *testing.T) {
	p := Default()
	moved := workout(2, domain.CategoryTempo, 60)
	rest := workout(3, domain.CategoryRest, 0)
	avail := blockedWednesday()

	res := p.RedistributeWeek(WeekInput{
		WeekStart:    monday,
		Workouts:     []domain.PlannedWorkout{moved, rest},
		Availability: avail,
		Preferences:  domain.DefaultPreferences(),
	})

	require.Len(t, res.Moves, 1)
	assert.Equal(t, moved.ID, res.Moves[0].PlannedWorkoutID)
	assert.Equal(t, day(3), res.Moves[0].NewDate)
	assert.Contains(t, res.Moves[0].Reason, "replacing the rest day")
	assert.Empty(t, res.Warnings)
	for _, w := range res.Workouts {
		assert.NotEqual(t, domain.StatusBlocked, avail.Resolve(w.Date).Status, "%s left on %s", w.Category, w.Date)
		switch w.ID {
		case moved.ID:
			assert.Equal(t, day(3), w.Date)
			assert.Equal(t, int(time.Thursday), w.DayOfWeek)
		case rest.ID:
			assert.Equal(t, day(3), w.Date)
		}
	}
}

func TestRankCandidatesTieBreak(t *testing.T) {
	original := day(3)
	cands := []Candidate{
		{Date: day(0), Score: 56},
		{Date: day(1), Score: 56},
		{Date: day(6), Score: 56},
		{Date: day(5), Score: 56},
		{Date: day(2), Score: 60},
	}
	rankCandidates(cands, original)

	var order []time.Time
	for _, c := range cands {
		order = append(order, c.Date)
	}
	assert.Equal(t, []time.Time{day(2), day(5), day(6), day(0), day(1)}, order)
}

func TestRedistributePrefersWeekendForLongRide(t *testing.T) {
	p := Default()
	long := workout(2, domain.CategoryEndurance, 180)

	res := p.RedistributeWeek(WeekInput{
		WeekStart:    monday,
		Workouts:     []domain.PlannedWorkout{long},
		Availability: blockedWednesday(),
		Preferences:  domain.TrainingPreferences{PreferWeekendLongRides: true},
	})
	require.Len(t, res.Moves, 1)
	assert.Equal(t, day(5), res.Moves[0].NewDate)

	res = p.RedistributeWeek(WeekInput{
		WeekStart:    monday,
		Workouts:     []domain.PlannedWorkout{long},
		Availability: blockedWednesday(),
		Preferences:  domain.TrainingPreferences{PreferWeekendLongRides: false},
	})
	require.Len(t, res.Moves, 1)
	assert.Equal(t, day(3), res.Moves[0].NewDate)
}

func TestRedistributeRespectsDurationLimit(t *testing.T) {
	p := Default()
	avail := NewAvailability(
		[]domain.DayAvailability{{DayOfWeek: int(time.Wednesday), Status: domain.StatusBlocked}},
		[]domain.DateOverride{{Date: day(3), Status: domain.StatusAvailable, MaxDurationMinutes: intPtr(30)}},
	)

	res := p.RedistributeWeek(WeekInput{
		WeekStart:    monday,
		Workouts:     []domain.PlannedWorkout{workout(2, domain.CategoryTempo, 90)},
		Availability: avail,
		Preferences:  domain.DefaultPreferences(),
	})
	require.Len(t, res.Moves, 1)
	assert.Equal(t, day(1), res.Moves[0].NewDate)
}

func TestRedistributeLeavesWorkoutWhenNoDayQualifies(t *testing.T) {
	p := Default()
	var weekly []domain.DayAvailability
	for d := 0; d < 7; d++ {
		weekly = append(weekly, domain.DayAvailability{DayOfWeek: d, Status: domain.StatusBlocked})
	}
	w := workout(2, domain.CategoryThreshold, 60)

	res := p.RedistributeWeek(WeekInput{
		WeekStart:    monday,
		Workouts:     []domain.PlannedWorkout{w},
		Availability: NewAvailability(weekly, nil),
		Preferences:  domain.DefaultPreferences(),
	})

	require.Len(t, res.Moves, 1)
	assert.False(t, res.Moves[0].Resolved())
	assert.Equal(t, NoAlternativeDayMessage, res.Moves[0].Reason)
	assert.False(t, res.CanActivate)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], NoAlternativeDayMessage)
}

func TestRedistributeLaterMovesSeeEarlierPlacements(t *testing.T) {
	p := Default()
	avail := NewAvailability([]domain.DayAvailability{
		{DayOfWeek: int(time.Tuesday), Status: domain.StatusBlocked},
		{DayOfWeek: int(time.Wednesday), Status: domain.StatusBlocked},
	}, nil)
	first := workout(1, domain.CategoryThreshold, 60)
	second := workout(2, domain.CategoryVO2Max, 60)

	res := p.RedistributeWeek(WeekInput{
		WeekStart:    monday,
		Workouts:     []domain.PlannedWorkout{second, first},
		Availability: avail,
		Preferences:  domain.DefaultPreferences(),
	})

	require.Len(t, res.Moves, 2)
	assert.Equal(t, first.ID, res.Moves[0].PlannedWorkoutID)
	assert.NotEqual(t, res.Moves[0].NewDate, res.Moves[1].NewDate)
	gap := domain.DaysBetween(res.Moves[0].NewDate, res.Moves[1].NewDate)
	assert.NotContains(t, []int{-1, 0, 1}, gap, "hard days must not end up back to back")
}

func TestRedistributeNeverPlacesOnBlockedDay(t *testing.T) {
	p := Default()
	patterns := [][]int{
		{int(time.Wednesday)},
		{int(time.Monday), int(time.Wednesday), int(time.Friday)},
		{int(time.Tuesday), int(time.Thursday), int(time.Saturday), int(time.Sunday)},
	}
	week := []domain.PlannedWorkout{
		workout(0, domain.CategoryEndurance, 60),
		workout(1, domain.CategoryThreshold, 75),
		workout(2, domain.CategoryTempo, 60),
		workout(3, domain.CategoryVO2Max, 60),
		workout(4, domain.CategoryRest, 0),
		workout(5, domain.CategoryEndurance, 180),
		workout(6, domain.CategoryRecovery, 45),
	}
	for _, blocked := range patterns {
		var weekly []domain.DayAvailability
		for _, d := range blocked {
			weekly = append(weekly, domain.DayAvailability{DayOfWeek: d, Status: domain.StatusBlocked})
		}
		avail := NewAvailability(weekly, nil)
		res := p.RedistributeWeek(WeekInput{WeekStart: monday, Workouts: week, Availability: avail})
		for _, m := range res.Moves {
			if m.Resolved() {
				assert.NotEqual(t, domain.StatusBlocked, avail.Resolve(m.NewDate).Status, "blocked %v moved to %s", blocked, m.NewDate)
			} else {
				assert.Equal(t, NoAlternativeDayMessage, m.Reason)
				assert.False(t, res.CanActivate)
			}
		}
	}
}

func TestScorePreferredNeverLowerThanAvailable(t *testing.T) {
	p := Default()
	week := []domain.PlannedWorkout{
		workout(1, domain.CategoryThreshold, 60),
		workout(4, domain.CategoryRest, 0),
	}
	moved := workout(2, domain.CategoryVO2Max, 60)
	week = append(week, moved)

	for offset := 0; offset < 7; offset++ {
		if offset == 2 {
			continue
		}
		base := NewAvailability(nil, []domain.DateOverride{{Date: day(offset), Status: domain.StatusAvailable}})
		pref := NewAvailability(nil, []domain.DateOverride{{Date: day(offset), Status: domain.StatusPreferred}})
		a := scoreOn(p.ScoreCandidates(moved, monday, week, base, domain.DefaultPreferences()), day(offset))
		b := scoreOn(p.ScoreCandidates(moved, monday, week, pref, domain.DefaultPreferences()), day(offset))
		assert.GreaterOrEqual(t, b, a, "offset %d", offset)
	}
}

func scoreOn(cands []Candidate, d time.Time) int {
	for _, c := range cands {
		if c.Date.Equal(d) {
			return c.Score
		}
	}
	return -1 << 31
}

func TestCheckPreferencesWarnings(t *testing.T) {
	p := Default()
	prefs := domain.TrainingPreferences{
		MaxWorkoutsPerWeek: intPtr(2),
		MaxHardDaysPerWeek: intPtr(1),
		MinRestDaysPerWeek: 4,
	}
	res := p.RedistributeWeek(WeekInput{
		WeekStart: monday,
		Workouts: []domain.PlannedWorkout{
			workout(0, domain.CategoryThreshold, 60),
			workout(2, domain.CategoryVO2Max, 60),
			workout(4, domain.CategoryEndurance, 90),
			workout(5, domain.CategoryEndurance, 90),
		},
		Availability: NewAvailability(nil, nil),
		Preferences:  prefs,
	})
	assert.Empty(t, res.Moves)
	assert.True(t, res.CanActivate)
	assert.Len(t, res.Warnings, 3)
}

func TestRedistributePlanProcessesWeeksIndependently(t *testing.T) {
	p := New(DefaultScoringWeights(), 4)
	w1 := workout(2, domain.CategoryThreshold, 60)
	w2 := workout(9, domain.CategoryThreshold, 60)
	w2.WeekNumber = 2

	res, err := p.RedistributePlan(context.Background(), PlanInput{
		StartDate:    monday,
		Workouts:     []domain.PlannedWorkout{w2, w1},
		Availability: blockedWednesday(),
		Preferences:  domain.DefaultPreferences(),
	})
	require.NoError(t, err)
	require.Len(t, res.Moves, 2)
	assert.Equal(t, day(3), res.Moves[0].NewDate)
	assert.Equal(t, day(10), res.Moves[1].NewDate)
	assert.True(t, res.CanActivate)
	assert.Len(t, res.Workouts, 2)
}

func TestRedistributePlanHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Default().RedistributePlan(ctx, PlanInput{
		StartDate: monday,
		Workouts:  []domain.PlannedWorkout{workout(2, domain.CategoryThreshold, 60)},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPolicyConstantDefaultWeights(t *testing.T) {
	// Product-tuned values; a change here is a policy decision, not a bug fix.
	w := DefaultScoringWeights()
	assert.Equal(t, 50, w.Base)
	assert.Equal(t, 15, w.PreferredBonus)
	assert.Equal(t, 50, w.HardDoublePenalty)
	assert.Equal(t, 10, w.RestSwapBonus)
	assert.Equal(t, 20, w.OccupiedPenalty)
	assert.Equal(t, 10, w.EmptyBonus)
	assert.Equal(t, 30, w.BackToBackPenalty)
	assert.Equal(t, 20, w.HeavyRecoveryPenalty)
	assert.Equal(t, 20, w.WeekendLongBonus)
	assert.Equal(t, 2, w.OffsetPenaltyPerDay)
	assert.Equal(t, 40, w.DurationLimitPenalty)
}

func TestPolicyConstantWeightsMerge(t *testing.T) {
	w := DefaultScoringWeights().Merge(ScoringWeights{PreferredBonus: 25})
	assert.Equal(t, 25, w.PreferredBonus)
	assert.Equal(t, 50, w.Base)
}
