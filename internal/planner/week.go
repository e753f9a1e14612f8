package planner

import (
	"sort"
	"time"

	"alcyxob/training-planner/internal/domain"
)

// slot is one workout of a week, tagged with a stable key so it can be followed
// across moves even when it has no persisted ID.
type slot struct {
	key     int
	workout domain.PlannedWorkout
}

// weekState is an immutable snapshot of a week's schedule. Every change returns a
// new state; earlier states stay valid.
type weekState struct {
	start time.Time
	slots []slot
}

func newWeekState(start time.Time, workouts []domain.PlannedWorkout) weekState {
	slots := make([]slot, len(workouts))
	for i, w := range workouts {
		w.Date = domain.DateOnly(w.Date)
		slots[i] = slot{key: i, workout: w}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].workout.Date.Before(slots[j].workout.Date)
	})
	return weekState{start: domain.DateOnly(start), slots: slots}
}

// days returns the seven dates of the week.
func (s weekState) days() []time.Time {
	out := make([]time.Time, 7)
	for i := range out {
		out[i] = domain.AddDays(s.start, i)
	}
	return out
}

func (s weekState) contains(date time.Time) bool {
	n := domain.DaysBetween(s.start, date)
	return n >= 0 && n < 7
}

// on returns the non-empty workouts dated on date, skipping the slot with key except.
func (s weekState) on(date time.Time, except int) []domain.PlannedWorkout {
	var out []domain.PlannedWorkout
	for _, sl := range s.slots {
		if sl.key == except || sl.workout.IsEmpty() {
			continue
		}
		if sl.workout.Date.Equal(date) {
			out = append(out, sl.workout)
		}
	}
	return out
}

func (s weekState) hasHard(date time.Time, except int) bool {
	for _, w := range s.on(date, except) {
		if w.IsHard() {
			return true
		}
	}
	return false
}

func (s weekState) hasHardPrimary(date time.Time, except int) bool {
	for _, w := range s.on(date, except) {
		if w.IsHardPrimary() {
			return true
		}
	}
	return false
}

func (s weekState) get(key int) (domain.PlannedWorkout, bool) {
	for _, sl := range s.slots {
		if sl.key == key {
			return sl.workout, true
		}
	}
	return domain.PlannedWorkout{}, false
}

// withDate returns a copy of the state in which slot key is dated on date.
func (s weekState) withDate(key int, date time.Time) weekState {
	slots := make([]slot, len(s.slots))
	copy(slots, s.slots)
	for i := range slots {
		if slots[i].key == key {
			w := slots[i].workout
			w.Date = date
			w.DayOfWeek = int(date.Weekday())
			slots[i].workout = w
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].workout.Date.Before(slots[j].workout.Date)
	})
	return weekState{start: s.start, slots: slots}
}

// workouts returns the week's workouts in date order.
func (s weekState) workouts() []domain.PlannedWorkout {
	out := make([]domain.PlannedWorkout, len(s.slots))
	for i, sl := range s.slots {
		out[i] = sl.workout
	}
	return out
}
