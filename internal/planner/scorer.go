package planner

import (
	"sort"
	"time"

	"alcyxob/training-planner/internal/domain"
)

// Candidate is a scored destination date for a displaced workout.
type Candidate struct {
	Date    time.Time `json:"date"`
	Score   int       `json:"score"`
	Reasons []string  `json:"reasons,omitempty"`
}

// scoreInput bundles what the scorer reads besides the candidate date.
type scoreInput struct {
	workout     domain.PlannedWorkout
	key         int
	state       weekState
	resolved    domain.ResolvedAvailability
	preferences domain.TrainingPreferences
}

func (w ScoringWeights) score(in scoreInput) Candidate {
	d := in.resolved.Date
	c := Candidate{Date: d, Score: w.Base}
	note := func(delta int, reason string) {
		c.Score += delta
		c.Reasons = append(c.Reasons, reason)
	}

	if in.resolved.Status == domain.StatusPreferred {
		note(w.PreferredBonus, "preferred day")
	}

	hard := in.workout.IsHard()
	occupants := in.state.on(d, in.key)
	switch {
	case len(occupants) == 0:
		note(w.EmptyBonus, "empty day")
	case hard && anyHard(occupants):
		note(-w.HardDoublePenalty, "would double up hard days")
	case allRest(occupants):
		note(w.RestSwapBonus, "swap with rest day")
	default:
		note(-w.OccupiedPenalty, "day already occupied")
	}

	if hard {
		if in.state.hasHard(domain.AddDays(d, -1), in.key) || in.state.hasHard(domain.AddDays(d, 1), in.key) {
			note(-w.BackToBackPenalty, "back-to-back hard days")
		}
		if in.workout.SupplementClass == domain.SupplementHeavyConditioning &&
			in.state.hasHardPrimary(domain.AddDays(d, 2), in.key) {
			note(-w.HeavyRecoveryPenalty, "hard bike day two days later")
		}
	}

	if in.workout.EffectiveCategory().IsLong() && in.preferences.PreferWeekendLongRides && domain.IsWeekend(d) {
		note(w.WeekendLongBonus, "weekend long session")
	}

	if offset := abs(domain.DaysBetween(in.workout.Date, d)); offset > 0 {
		note(-w.OffsetPenaltyPerDay*offset, "moved away from original day")
	}

	if limit := in.resolved.MaxDurationMinutes; limit != nil && *limit < in.workout.TargetDurationMinutes {
		note(-w.DurationLimitPenalty, "exceeds available time")
	}
	return c
}

// rankCandidates sorts by score descending. Equal scores prefer postponing over
// pulling a workout forward, then the earliest date. The postponement preference is a
// scheduling policy layered over the plain earliest-date tie-break.
func rankCandidates(cands []Candidate, original time.Time) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		aLater, bLater := a.Date.After(original), b.Date.After(original)
		if aLater != bLater {
			return aLater
		}
		return a.Date.Before(b.Date)
	})
}

// candidates scores every non-blocked date of the week other than the workout's own.
func (p *Planner) candidates(w domain.PlannedWorkout, key int, state weekState, avail Availability, prefs domain.TrainingPreferences) []Candidate {
	var out []Candidate
	for _, d := range state.days() {
		if d.Equal(w.Date) {
			continue
		}
		resolved := avail.Resolve(d)
		if resolved.Status == domain.StatusBlocked {
			continue
		}
		out = append(out, p.weights.score(scoreInput{
			workout:     w,
			key:         key,
			state:       state,
			resolved:    resolved,
			preferences: prefs,
		}))
	}
	rankCandidates(out, w.Date)
	return out
}

// ScoreCandidates ranks every candidate date in the week starting at weekStart for
// moving w, given the other workouts of that week.
func (p *Planner) ScoreCandidates(w domain.PlannedWorkout, weekStart time.Time, week []domain.PlannedWorkout, avail Availability, prefs domain.TrainingPreferences) []Candidate {
	w.Date = domain.DateOnly(w.Date)
	state := newWeekState(weekStart, week)
	key := -1
	for _, sl := range state.slots {
		if sameWorkout(sl.workout, w) {
			key = sl.key
			break
		}
	}
	return p.candidates(w, key, state, avail, prefs)
}

func sameWorkout(a, b domain.PlannedWorkout) bool {
	if !a.ID.IsZero() || !b.ID.IsZero() {
		return a.ID == b.ID
	}
	return a.Date.Equal(b.Date) && a.Category == b.Category && a.Name == b.Name &&
		a.SupplementClass == b.SupplementClass
}

func anyHard(ws []domain.PlannedWorkout) bool {
	for _, w := range ws {
		if w.IsHard() {
			return true
		}
	}
	return false
}

func allRest(ws []domain.PlannedWorkout) bool {
	for _, w := range ws {
		if !w.IsRest() {
			return false
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
