// internal/domain/workout_template.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutTemplate is a reusable workout in the coach's library.
// Planned workouts reference templates by ID to pick up their category and targets.
type WorkoutTemplate struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID               primitive.ObjectID `bson:"coachId" json:"coachId"` // Coach who created/owns this template
	Code                  string             `bson:"code,omitempty" json:"code,omitempty"`
	Name                  string             `bson:"name" json:"name"`
	Description           string             `bson:"description,omitempty" json:"description,omitempty"`
	Sport                 Sport              `bson:"sport" json:"sport"`
	Category              WorkoutCategory    `bson:"category" json:"category"`
	SupplementClass       SupplementClass    `bson:"supplementClass,omitempty" json:"supplementClass,omitempty"`
	TargetTSS             float64            `bson:"targetTss" json:"targetTss"`
	TargetDurationMinutes int                `bson:"targetDurationMinutes" json:"targetDurationMinutes"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ResolvedSupplementClass returns the explicit class, falling back to the built-in code table.
func (t *WorkoutTemplate) ResolvedSupplementClass() SupplementClass {
	if t.SupplementClass != "" {
		return t.SupplementClass
	}
	if c, ok := SupplementClassForCode(t.Code); ok {
		return c
	}
	return ""
}

// ApplyTo fills the planned-side metrics of w that the planner left unset.
func (t *WorkoutTemplate) ApplyTo(w *PlannedWorkout) {
	if w.Category == "" {
		w.Category = t.Category
	}
	if w.SupplementClass == "" {
		w.SupplementClass = t.ResolvedSupplementClass()
	}
	if w.TargetTSS == 0 {
		w.TargetTSS = t.TargetTSS
	}
	if w.TargetDurationMinutes == 0 {
		w.TargetDurationMinutes = t.TargetDurationMinutes
	}
	if w.Name == "" {
		w.Name = t.Name
	}
}
