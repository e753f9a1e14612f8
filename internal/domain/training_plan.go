// internal/domain/training_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingPhase is the periodization block a week belongs to.
type TrainingPhase string

const (
	PhaseBase     TrainingPhase = "base"
	PhaseBuild    TrainingPhase = "build"
	PhasePeak     TrainingPhase = "peak"
	PhaseTaper    TrainingPhase = "taper"
	PhaseRecovery TrainingPhase = "recovery"
	PhaseRace     TrainingPhase = "race"
)

// PhaseBlock assigns a phase to an inclusive range of plan weeks.
type PhaseBlock struct {
	Phase     TrainingPhase `bson:"phase" json:"phase"`
	StartWeek int           `bson:"startWeek" json:"startWeek"`
	EndWeek   int           `bson:"endWeek" json:"endWeek"`
}

// TrainingPlan represents a multi-week periodized plan built by a coach for an athlete.
type TrainingPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"`     // Who created the plan
	AthleteID   primitive.ObjectID `bson:"athleteId" json:"athleteId"` // Who the plan is for
	Name        string             `bson:"name" json:"name"`           // e.g., "Gran Fondo Build"
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"` // First day of week 1
	Weeks       int                `bson:"weeks" json:"weeks"`
	Phases      []PhaseBlock       `bson:"phases,omitempty" json:"phases,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"` // Is this the currently active plan for the athlete?
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WeekStart returns the first day of the given 1-based plan week.
func (p *TrainingPlan) WeekStart(weekNumber int) time.Time {
	return AddDays(p.StartDate, (weekNumber-1)*7)
}

// WeekOf returns the 1-based plan week containing date.
func (p *TrainingPlan) WeekOf(date time.Time) int {
	days := DaysBetween(p.StartDate, date)
	if days < 0 {
		return 0
	}
	return days/7 + 1
}

// PhaseForWeek returns the phase of the block covering weekNumber, or "" if none does.
func (p *TrainingPlan) PhaseForWeek(weekNumber int) TrainingPhase {
	for _, b := range p.Phases {
		if weekNumber >= b.StartWeek && weekNumber <= b.EndWeek {
			return b.Phase
		}
	}
	return ""
}
