package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlannedWorkout is one calendar slot of a TrainingPlan.
// A plan holds at most one PlannedWorkout per date; a slot with no WorkoutID and no
// category is an empty day.
type PlannedWorkout struct {
	ID                    primitive.ObjectID  `bson:"_id,omitempty" json:"id" yaml:"-"`
	PlanID                primitive.ObjectID  `bson:"planId" json:"planId" yaml:"-"`
	AthleteID             primitive.ObjectID  `bson:"athleteId" json:"athleteId" yaml:"-"`
	Date                  time.Time           `bson:"date" json:"date" yaml:"date"`
	WeekNumber            int                 `bson:"weekNumber" json:"weekNumber" yaml:"weekNumber"`
	DayOfWeek             int                 `bson:"dayOfWeek" json:"dayOfWeek" yaml:"dayOfWeek"`
	WorkoutID             *primitive.ObjectID `bson:"workoutId,omitempty" json:"workoutId,omitempty" yaml:"-"`
	Name                  string              `bson:"name,omitempty" json:"name,omitempty" yaml:"name,omitempty"`
	Category              WorkoutCategory     `bson:"category,omitempty" json:"category,omitempty" yaml:"category,omitempty"`
	SupplementClass       SupplementClass     `bson:"supplementClass,omitempty" json:"supplementClass,omitempty" yaml:"supplementClass,omitempty"`
	TargetTSS             float64             `bson:"targetTss" json:"targetTss" yaml:"targetTss"`
	TargetDurationMinutes int                 `bson:"targetDurationMinutes" json:"targetDurationMinutes" yaml:"targetDurationMinutes"`
	Notes                 string              `bson:"notes,omitempty" json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt             time.Time           `bson:"createdAt" json:"createdAt" yaml:"-"`
	UpdatedAt             time.Time           `bson:"updatedAt" json:"updatedAt" yaml:"-"`
}

// IsEmpty reports whether the slot holds no session at all.
func (w *PlannedWorkout) IsEmpty() bool {
	return w.WorkoutID == nil && w.Category == "" && w.SupplementClass == ""
}

// IsRest reports whether the slot is a rest day or empty.
func (w *PlannedWorkout) IsRest() bool {
	return w.IsEmpty() || (w.Category == CategoryRest && w.SupplementClass == "")
}

// IsSupplement reports whether the slot is an auxiliary session rather than a primary one.
func (w *PlannedWorkout) IsSupplement() bool {
	return w.SupplementClass != ""
}

// EffectiveCategory is the category used for intensity rules; supplements fall back to
// their class mapping when no explicit category was stored.
func (w *PlannedWorkout) EffectiveCategory() WorkoutCategory {
	if w.Category != "" {
		return w.Category
	}
	return w.SupplementClass.Category()
}

// IsHard reports whether the session counts as a hard day for scheduling.
// Heavy conditioning is hard regardless of its category rank.
func (w *PlannedWorkout) IsHard() bool {
	return w.SupplementClass == SupplementHeavyConditioning || w.EffectiveCategory().IsHard()
}

// IsHardPrimary reports whether the slot is a hard non-supplement session (a hard bike day).
func (w *PlannedWorkout) IsHardPrimary() bool {
	return !w.IsSupplement() && w.EffectiveCategory().IsHard()
}
