package adaptation

import (
	"math"
	"sort"

	"alcyxob/training-planner/internal/domain"
)

// MinMatchScore is the lowest score at which an activity is paired with a workout.
const MinMatchScore = 40.0

// Match pairs a planned workout with the activity that fulfilled it.
type Match struct {
	Planned  domain.PlannedWorkout
	Activity domain.Activity
	Score    float64
}

// MatchResult partitions the inputs of MatchActivities.
type MatchResult struct {
	Matches []Match
	// Skipped holds planned workouts no activity fulfilled, in date order.
	Skipped []domain.PlannedWorkout
	// Unplanned holds activities no workout claimed, in date order.
	Unplanned []domain.Activity
}

// MatchActivities pairs activities with planned workouts greedily: workouts are visited
// in date order and each claims the best unclaimed activity within one day of it.
// Rest and empty days are ignored. ftp is used to derive TSS for activities without one.
func MatchActivities(planned []domain.PlannedWorkout, activities []domain.Activity, ftp float64) MatchResult {
	workouts := make([]domain.PlannedWorkout, 0, len(planned))
	for _, w := range planned {
		if !w.IsRest() {
			workouts = append(workouts, w)
		}
	}
	sort.SliceStable(workouts, func(i, j int) bool { return workouts[i].Date.Before(workouts[j].Date) })

	pool := make([]domain.Activity, len(activities))
	copy(pool, activities)
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].Date.Before(pool[j].Date) })
	claimed := make([]bool, len(pool))

	var res MatchResult
	for _, w := range workouts {
		best, bestScore := -1, 0.0
		for i := range pool {
			if claimed[i] {
				continue
			}
			score, ok := MatchScore(w, pool[i], ftp)
			if !ok || score < MinMatchScore {
				continue
			}
			if best < 0 || score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			res.Skipped = append(res.Skipped, w)
			continue
		}
		claimed[best] = true
		res.Matches = append(res.Matches, Match{Planned: w, Activity: pool[best], Score: bestScore})
	}
	for i, a := range pool {
		if !claimed[i] {
			res.Unplanned = append(res.Unplanned, a)
		}
	}
	return res
}

// MatchScore rates how well activity a fulfils workout w. ok is false when the two are
// more than one day apart. Metrics missing on either side contribute nothing.
func MatchScore(w domain.PlannedWorkout, a domain.Activity, ftp float64) (float64, bool) {
	days := domain.DaysBetween(w.Date, a.Date)
	if days < -1 || days > 1 {
		return 0, false
	}
	score := 40 * (1 - math.Abs(float64(days)))
	score += 30 * similarity(float64(w.TargetDurationMinutes), float64(a.DurationMinutes))
	if tss, ok := a.EffectiveTSS(ftp); ok {
		score += 30 * similarity(w.TargetTSS, tss)
	}
	return score, true
}

// similarity is min/max of two positive quantities, 0 when either is unknown.
func similarity(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	return math.Min(a, b) / math.Max(a, b)
}
