package planner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"alcyxob/training-planner/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// NoAlternativeDayMessage is reported for a workout that could not be relocated.
const NoAlternativeDayMessage = "No suitable alternative day found — may need manual adjustment."

// Move is a proposed change of date for one planned workout. An unresolved
// workout is reported as an identity move (OriginalDate == NewDate).
type Move struct {
	PlannedWorkoutID primitive.ObjectID  `json:"plannedWorkoutId,omitempty"`
	WorkoutID        *primitive.ObjectID `json:"workoutId,omitempty"`
	Name             string              `json:"name,omitempty"`
	OriginalDate     time.Time           `json:"originalDate"`
	NewDate          time.Time           `json:"newDate"`
	Reason           string              `json:"reason"`
	Score            int                 `json:"score,omitempty"`
}

// Resolved reports whether the move actually relocates the workout.
func (m Move) Resolved() bool {
	return !m.OriginalDate.Equal(m.NewDate)
}

// Result is the outcome of a redistribution pass.
type Result struct {
	Moves       []Move   `json:"moves"`
	Warnings    []string `json:"warnings"`
	CanActivate bool     `json:"canActivate"`
	// Workouts is the schedule after applying every move, in date order.
	Workouts []domain.PlannedWorkout `json:"workouts"`
}

// WeekInput is everything needed to redistribute one plan week.
type WeekInput struct {
	WeekStart    time.Time
	Workouts     []domain.PlannedWorkout
	Availability Availability
	Preferences  domain.TrainingPreferences
}

// PlanInput describes a whole plan; weeks are derived from each workout's WeekNumber.
type PlanInput struct {
	StartDate    time.Time
	Workouts     []domain.PlannedWorkout
	Availability Availability
	Preferences  domain.TrainingPreferences
}

// Planner holds the scoring policy. It is safe for concurrent use.
type Planner struct {
	weights     ScoringWeights
	parallelism int
}

// New creates a Planner. A non-positive parallelism processes weeks one at a time.
func New(weights ScoringWeights, parallelism int) *Planner {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &Planner{weights: weights, parallelism: parallelism}
}

// Default returns a Planner with the shipped policy constants.
func Default() *Planner {
	return New(DefaultScoringWeights(), 1)
}

// Weights exposes the active scoring policy.
func (p *Planner) Weights() ScoringWeights {
	return p.weights
}

// RedistributeWeek moves every workout scheduled on a blocked day to the best
// remaining day of the same week. Displaced workouts are handled in date order and
// each placement sees the schedule produced by the ones before it.
func (p *Planner) RedistributeWeek(in WeekInput) Result {
	state := newWeekState(in.WeekStart, in.Workouts)
	res := Result{CanActivate: true}

	var displaced []int
	for _, sl := range state.slots {
		if sl.workout.IsRest() {
			continue
		}
		if in.Availability.Blocked(sl.workout.Date) {
			displaced = append(displaced, sl.key)
		}
	}

	for _, key := range displaced {
		var moves []Move
		var warnings []string
		state, moves, warnings = p.place(state, key, in.Availability, in.Preferences)
		res.Moves = append(res.Moves, moves...)
		res.Warnings = append(res.Warnings, warnings...)
		for _, m := range moves {
			if !m.Resolved() {
				res.CanActivate = false
			}
		}
	}

	res.Warnings = append(res.Warnings, checkPreferences(state, in.Availability, in.Preferences)...)
	res.Workouts = state.workouts()
	return res
}

// place is one step of the week fold: it relocates slot key and returns the new state.
func (p *Planner) place(state weekState, key int, avail Availability, prefs domain.TrainingPreferences) (weekState, []Move, []string) {
	w, _ := state.get(key)
	cands := p.candidates(w, key, state, avail, prefs)

	if len(cands) == 0 || cands[0].Score <= 0 {
		stay := Move{
			PlannedWorkoutID: w.ID,
			WorkoutID:        w.WorkoutID,
			Name:             w.Name,
			OriginalDate:     w.Date,
			NewDate:          w.Date,
			Reason:           NoAlternativeDayMessage,
		}
		warning := fmt.Sprintf("%s on %s: %s", describe(w), w.Date.Format("Mon Jan 2"), NoAlternativeDayMessage)
		return state, []Move{stay}, []string{warning}
	}

	best := cands[0]
	var moves []Move
	var warnings []string

	reason := fmt.Sprintf("%s is unavailable; moved to %s", w.Date.Format("Monday"), best.Date.Format("Monday"))
	occupants := state.on(best.Date, key)
	switch {
	case len(occupants) > 0 && allRest(occupants):
		// The rest marker stays on its own date; the vacated date is blocked.
		reason += ", replacing the rest day"
	case len(occupants) > 0:
		warnings = append(warnings, fmt.Sprintf("%s doubled up with %s on %s",
			describe(w), describe(occupants[0]), best.Date.Format("Mon Jan 2")))
	}

	state = state.withDate(key, best.Date)
	moves = append(moves, Move{
		PlannedWorkoutID: w.ID,
		WorkoutID:        w.WorkoutID,
		Name:             w.Name,
		OriginalDate:     w.Date,
		NewDate:          best.Date,
		Reason:           reason,
		Score:            best.Score,
	})
	return state, moves, warnings
}

// RedistributePlan runs RedistributeWeek for every week of the plan. Weeks are
// independent and run concurrently up to the planner's parallelism; the merged result
// is ordered by week.
func (p *Planner) RedistributePlan(ctx context.Context, in PlanInput) (Result, error) {
	start := domain.DateOnly(in.StartDate)
	byWeek := make(map[int][]domain.PlannedWorkout)
	for _, w := range in.Workouts {
		n := w.WeekNumber
		if n <= 0 {
			n = domain.DaysBetween(start, w.Date)/7 + 1
		}
		byWeek[n] = append(byWeek[n], w)
	}
	weeks := make([]int, 0, len(byWeek))
	for n := range byWeek {
		weeks = append(weeks, n)
	}
	sort.Ints(weeks)

	results := make([]Result, len(weeks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)
	for i, n := range weeks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.RedistributeWeek(WeekInput{
				WeekStart:    domain.AddDays(start, (n-1)*7),
				Workouts:     byWeek[n],
				Availability: in.Availability,
				Preferences:  in.Preferences,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	merged := Result{CanActivate: true, Moves: []Move{}, Warnings: []string{}}
	for i, r := range results {
		merged.Moves = append(merged.Moves, r.Moves...)
		for _, warning := range r.Warnings {
			merged.Warnings = append(merged.Warnings, fmt.Sprintf("Week %d: %s", weeks[i], warning))
		}
		merged.Workouts = append(merged.Workouts, r.Workouts...)
		merged.CanActivate = merged.CanActivate && r.CanActivate
	}
	return merged, nil
}

// checkPreferences reports weekly limits the final schedule exceeds.
func checkPreferences(state weekState, avail Availability, prefs domain.TrainingPreferences) []string {
	var warnings []string
	var workouts, hardDays, trainingDays int
	var minutes int
	for _, d := range state.days() {
		day := state.on(d, -1)
		dayMinutes := 0
		trained, hard := false, false
		for _, w := range day {
			if w.IsRest() {
				continue
			}
			workouts++
			trained = true
			hard = hard || w.IsHard()
			dayMinutes += w.TargetDurationMinutes
		}
		minutes += dayMinutes
		if trained {
			trainingDays++
		}
		if hard {
			hardDays++
		}
		r := avail.Resolve(d)
		if r.Status != domain.StatusBlocked && r.MaxDurationMinutes != nil && dayMinutes > *r.MaxDurationMinutes {
			warnings = append(warnings, fmt.Sprintf("%s has %d min scheduled but only %d min available",
				d.Format("Mon Jan 2"), dayMinutes, *r.MaxDurationMinutes))
		}
	}

	if limit := prefs.MaxWorkoutsPerWeek; limit != nil && workouts > *limit {
		warnings = append(warnings, fmt.Sprintf("%d workouts scheduled, above the limit of %d", workouts, *limit))
	}
	if limit := prefs.MaxHoursPerWeek; limit != nil && float64(minutes)/60.0 > *limit {
		warnings = append(warnings, fmt.Sprintf("%.1f hours scheduled, above the limit of %.1f", float64(minutes)/60.0, *limit))
	}
	if limit := prefs.MaxHardDaysPerWeek; limit != nil && hardDays > *limit {
		warnings = append(warnings, fmt.Sprintf("%d hard days scheduled, above the limit of %d", hardDays, *limit))
	}
	if rest := 7 - trainingDays; rest < prefs.MinRestDaysPerWeek {
		warnings = append(warnings, fmt.Sprintf("only %d rest days, below the minimum of %d", rest, prefs.MinRestDaysPerWeek))
	}
	return warnings
}

func describe(w domain.PlannedWorkout) string {
	if w.Name != "" {
		return w.Name
	}
	if c := w.EffectiveCategory(); c != "" {
		return string(c) + " workout"
	}
	return "workout"
}
