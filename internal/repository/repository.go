package repository

import (
	"context"
	"time"

	"alcyxob/training-planner/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
	ErrDuplicate    = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// DateChange relocates one planned workout.
type DateChange struct {
	PlannedWorkoutID primitive.ObjectID
	Date             time.Time
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddAthleteIDToCoach(ctx context.Context, coachID, athleteID primitive.ObjectID) error
	GetAthletesByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	SetCoachForAthlete(ctx context.Context, athleteID, coachID primitive.ObjectID) error
	UpdateThresholds(ctx context.Context, athleteID primitive.ObjectID, th domain.Thresholds) error
}

// WorkoutTemplateRepository defines the interface for the workout library.
type WorkoutTemplateRepository interface {
	Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.WorkoutTemplate, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.WorkoutTemplate, error)
	Update(ctx context.Context, template *domain.WorkoutTemplate) error
	Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error // Ensure coach owns the template
}

// TrainingPlanRepository defines the interface for interacting with training plan data.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	GetByAthleteAndCoachID(ctx context.Context, athleteID, coachID primitive.ObjectID) ([]domain.TrainingPlan, error)
	GetActiveForAthlete(ctx context.Context, athleteID primitive.ObjectID) (*domain.TrainingPlan, error)
	// Activate marks planID active and every other plan of the athlete inactive.
	Activate(ctx context.Context, planID, athleteID primitive.ObjectID) error
}

// PlannedWorkoutRepository defines the interface for the calendar slots of a plan.
type PlannedWorkoutRepository interface {
	Create(ctx context.Context, workout *domain.PlannedWorkout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlannedWorkout, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlannedWorkout, error)
	// GetByPlanIDInRange returns slots dated from..to inclusive, in date order.
	GetByPlanIDInRange(ctx context.Context, planID primitive.ObjectID, from, to time.Time) ([]domain.PlannedWorkout, error)
	GetByAthleteInRange(ctx context.Context, athleteID primitive.ObjectID, from, to time.Time) ([]domain.PlannedWorkout, error)
	// ApplyDateChanges moves each listed slot of the plan to its new date.
	ApplyDateChanges(ctx context.Context, planID primitive.ObjectID, changes []DateChange) error
}

// AvailabilityRepository stores one AvailabilityConfig per athlete.
type AvailabilityRepository interface {
	GetByAthleteID(ctx context.Context, athleteID primitive.ObjectID) (*domain.AvailabilityConfig, error)
	Upsert(ctx context.Context, cfg *domain.AvailabilityConfig) error
	SetOverride(ctx context.Context, athleteID primitive.ObjectID, override domain.DateOverride) error
	DeleteOverride(ctx context.Context, athleteID primitive.ObjectID, date time.Time) error
}

// ActivityRepository defines the interface for recorded activities. Activities are never updated.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Activity, error)
	GetByAthleteInRange(ctx context.Context, athleteID primitive.ObjectID, from, to time.Time) ([]domain.Activity, error)
}

// AdaptationRepository stores reconciliation results.
type AdaptationRepository interface {
	// ReplacePass stores records under passID and removes older passes for the same
	// plan and date range.
	ReplacePass(ctx context.Context, planID primitive.ObjectID, from, to time.Time, passID string, records []domain.AdaptationRecord) error
	GetByPlanID(ctx context.Context, planID primitive.ObjectID, from, to time.Time) ([]domain.AdaptationRecord, error)
}

// UploadRepository defines the interface for interacting with upload metadata.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Upload, error)
	GetByObjectKey(ctx context.Context, key string) (*domain.Upload, error)
	LinkActivity(ctx context.Context, uploadID, activityID primitive.ObjectID) error
}
