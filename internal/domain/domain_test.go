package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRankAndDayType(t *testing.T) {
	assert.Equal(t, 0, CategoryRest.Rank())
	assert.Equal(t, 0, WorkoutCategory("").Rank())
	assert.Equal(t, 9, CategoryRacing.Rank())
	assert.Less(t, CategoryEndurance.Rank(), CategoryVO2Max.Rank())

	cases := map[WorkoutCategory]DayType{
		"":                DayTypeRest,
		CategoryRest:      DayTypeRest,
		CategoryRecovery:  DayTypeEasy,
		CategoryEndurance: DayTypeEasy,
		CategoryTempo:     DayTypeModerate,
		CategorySweetSpot: DayTypeModerate,
		CategoryThreshold: DayTypeHard,
		CategoryRacing:    DayTypeHard,
	}
	for c, want := range cases {
		assert.Equal(t, want, c.DayType(), "category %q", c)
	}
}

func TestSimilarCategoriesAreSymmetric(t *testing.T) {
	for c, similar := range similarCategories {
		for _, s := range similar {
			assert.True(t, s.SameOrSimilar(c), "%s ~ %s is not symmetric", c, s)
		}
	}
	assert.True(t, CategoryTempo.SameOrSimilar(CategoryTempo))
	assert.False(t, CategoryEndurance.SameOrSimilar(CategoryVO2Max))
}

func TestPlannedWorkoutClassification(t *testing.T) {
	empty := PlannedWorkout{}
	assert.True(t, empty.IsEmpty())
	assert.True(t, empty.IsRest())

	heavy := PlannedWorkout{SupplementClass: SupplementHeavyConditioning}
	assert.True(t, heavy.IsHard())
	assert.False(t, heavy.IsHardPrimary())
	assert.Equal(t, CategoryStrength, heavy.EffectiveCategory())

	vo2 := PlannedWorkout{Category: CategoryVO2Max}
	assert.True(t, vo2.IsHardPrimary())
	assert.False(t, vo2.IsRest())
}

func TestSupplementCodeLookup(t *testing.T) {
	class, ok := SupplementClassForCode("str-heavy-lower")
	require.True(t, ok)
	assert.Equal(t, SupplementHeavyConditioning, class)

	_, ok = SupplementClassForCode("str-unknown")
	assert.False(t, ok)
}

func TestActivityEffectiveTSS(t *testing.T) {
	tss := 55.0
	recorded := Activity{DurationMinutes: 60, TSS: &tss}
	got, ok := recorded.EffectiveTSS(250)
	require.True(t, ok)
	assert.Equal(t, 55.0, got)

	np := 200.0
	derived := Activity{DurationMinutes: 120, NormalizedPower: &np}
	got, ok = derived.EffectiveTSS(250)
	require.True(t, ok)
	assert.InDelta(t, 128.0, got, 0.001)

	_, ok = derived.EffectiveTSS(0)
	assert.False(t, ok)
}

func TestTrainingPlanWeeks(t *testing.T) {
	plan := TrainingPlan{
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Phases: []PhaseBlock{
			{Phase: PhaseBase, StartWeek: 1, EndWeek: 4},
			{Phase: PhaseTaper, StartWeek: 5, EndWeek: 6},
		},
	}
	assert.Equal(t, 1, plan.WeekOf(plan.StartDate))
	assert.Equal(t, 2, plan.WeekOf(AddDays(plan.StartDate, 7)))
	assert.Equal(t, 0, plan.WeekOf(AddDays(plan.StartDate, -1)))
	assert.Equal(t, AddDays(plan.StartDate, 14), plan.WeekStart(3))
	assert.Equal(t, PhaseTaper, plan.PhaseForWeek(5))
	assert.Equal(t, TrainingPhase(""), plan.PhaseForWeek(9))
}

func TestAvailabilityValidation(t *testing.T) {
	assert.Error(t, DayAvailability{DayOfWeek: 7, Status: StatusAvailable}.Validate())
	assert.Error(t, DayAvailability{DayOfWeek: 1, Status: "maybe"}.Validate())
	assert.NoError(t, DayAvailability{DayOfWeek: 0, Status: StatusBlocked}.Validate())
}
