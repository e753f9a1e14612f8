package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdaptationType labels how an actual session diverged from plan.
type AdaptationType string

const (
	AdaptationCompletedAsPlanned AdaptationType = "completed_as_planned"
	AdaptationTimeTruncated      AdaptationType = "time_truncated"
	AdaptationTimeExtended       AdaptationType = "time_extended"
	AdaptationIntensitySwap      AdaptationType = "intensity_swap"
	AdaptationUpgraded           AdaptationType = "upgraded"
	AdaptationDowngraded         AdaptationType = "downgraded"
	AdaptationSkipped            AdaptationType = "skipped"
	AdaptationUnplanned          AdaptationType = "unplanned"
)

// Assessment is the severity scale shared by stimulus analysis and the final rating.
type Assessment string

const (
	AssessmentBeneficial   Assessment = "beneficial"
	AssessmentAcceptable   Assessment = "acceptable"
	AssessmentMinorConcern Assessment = "minor_concern"
	AssessmentConcerning   Assessment = "concerning"
)

// StimulusAmount is a quantity of training stimulus of one category.
type StimulusAmount struct {
	Category        WorkoutCategory `bson:"category,omitempty" json:"category,omitempty"`
	DurationMinutes int             `bson:"durationMinutes" json:"durationMinutes"`
	TSS             float64         `bson:"tss" json:"tss"`
}

// IsZero reports whether the amount carries no stimulus.
func (s StimulusAmount) IsZero() bool {
	return s.DurationMinutes == 0 && s.TSS == 0
}

// StimulusAnalysis records what was lost and gained relative to plan.
type StimulusAnalysis struct {
	Missing       StimulusAmount `bson:"missing" json:"missing"`
	Gained        StimulusAmount `bson:"gained" json:"gained"`
	NetAssessment Assessment     `bson:"netAssessment" json:"netAssessment"`
}

// AdaptationRecord is the diagnosis of one planned/actual pairing. Records are never
// mutated; a new reconciliation pass supersedes them.
type AdaptationRecord struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id" yaml:"-"`
	PassID           string              `bson:"passId" json:"passId" yaml:"-"`
	PlanID           primitive.ObjectID  `bson:"planId" json:"planId" yaml:"-"`
	AthleteID        primitive.ObjectID  `bson:"athleteId" json:"athleteId" yaml:"-"`
	Date             time.Time           `bson:"date" json:"date" yaml:"date"`
	PlannedWorkoutID *primitive.ObjectID `bson:"plannedWorkoutId,omitempty" json:"plannedWorkoutId,omitempty" yaml:"-"`
	ActivityID       *primitive.ObjectID `bson:"activityId,omitempty" json:"activityId,omitempty" yaml:"-"`

	AdaptationType AdaptationType `bson:"adaptationType" json:"adaptationType" yaml:"adaptationType"`

	PlannedTSS      float64         `bson:"plannedTss" json:"plannedTss" yaml:"plannedTss"`
	ActualTSS       float64         `bson:"actualTss" json:"actualTss" yaml:"actualTss"`
	PlannedDuration int             `bson:"plannedDuration" json:"plannedDuration" yaml:"plannedDuration"`
	ActualDuration  int             `bson:"actualDuration" json:"actualDuration" yaml:"actualDuration"`
	PlannedCategory WorkoutCategory `bson:"plannedCategory,omitempty" json:"plannedCategory,omitempty" yaml:"plannedCategory,omitempty"`
	ActualCategory  WorkoutCategory `bson:"actualCategory,omitempty" json:"actualCategory,omitempty" yaml:"actualCategory,omitempty"`

	TSSDelta      float64 `bson:"tssDelta" json:"tssDelta" yaml:"tssDelta"`
	DurationDelta int     `bson:"durationDelta" json:"durationDelta" yaml:"durationDelta"`
	// TSSDeltaPct is nil when either side has no TSS.
	TSSDeltaPct      *float64 `bson:"tssDeltaPct,omitempty" json:"tssDeltaPct,omitempty" yaml:"tssDeltaPct,omitempty"`
	DurationDeltaPct float64  `bson:"durationDeltaPct" json:"durationDeltaPct" yaml:"durationDeltaPct"`
	RankDelta        int      `bson:"rankDelta" json:"rankDelta" yaml:"rankDelta"`

	StimulusAchievedPct float64          `bson:"stimulusAchievedPct" json:"stimulusAchievedPct" yaml:"stimulusAchievedPct"`
	StimulusAnalysis    StimulusAnalysis `bson:"stimulusAnalysis" json:"stimulusAnalysis" yaml:"-"`
	Assessment          Assessment       `bson:"assessment" json:"assessment" yaml:"assessment"`
	Explanation         string           `bson:"explanation" json:"explanation" yaml:"explanation"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt" yaml:"-"`
}
