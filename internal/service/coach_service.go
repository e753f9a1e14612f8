package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrAthleteNotFound        = errors.New("athlete user not found")
	ErrAthleteNotRole         = errors.New("user found but is not an athlete")
	ErrAthleteAlreadyAssigned = errors.New("athlete is already coached by someone else")
	ErrAthleteNotManaged      = errors.New("athlete is not managed by this coach")
	ErrPlanNotFound           = errors.New("training plan not found")
	ErrPlanAccessDenied       = errors.New("access denied to this training plan")
	ErrInvalidPlan            = errors.New("plan requires a name, a start date, and at least one week")
	ErrDateOccupied           = errors.New("plan already has a workout on this date")
	ErrDateOutsidePlan        = errors.New("date lies outside the plan")
	ErrInvalidWorkout         = errors.New("invalid planned workout")
)

// PlanInput carries the editable fields of a training plan.
type PlanInput struct {
	Name        string
	Description string
	StartDate   time.Time
	Weeks       int
	Phases      []domain.PhaseBlock
}

// PlannedWorkoutInput carries the fields of a new calendar slot.
type PlannedWorkoutInput struct {
	Date                  time.Time
	WorkoutID             *primitive.ObjectID
	Name                  string
	Category              domain.WorkoutCategory
	SupplementClass       domain.SupplementClass
	TargetTSS             float64
	TargetDurationMinutes int
	Notes                 string
}

type CoachService interface {
	// Roster
	AddAthleteByEmail(ctx context.Context, coachID primitive.ObjectID, athleteEmail string) (*domain.User, error)
	GetManagedAthletes(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	SetAthleteThresholds(ctx context.Context, coachID, athleteID primitive.ObjectID, th domain.Thresholds) error

	// Plans
	CreatePlan(ctx context.Context, coachID, athleteID primitive.ObjectID, in PlanInput) (*domain.TrainingPlan, error)
	GetPlansForAthlete(ctx context.Context, coachID, athleteID primitive.ObjectID) ([]domain.TrainingPlan, error)

	// Calendar
	AddPlannedWorkout(ctx context.Context, coachID, planID primitive.ObjectID, in PlannedWorkoutInput) (*domain.PlannedWorkout, error)
	GetPlannedWorkouts(ctx context.Context, coachID, planID primitive.ObjectID) ([]domain.PlannedWorkout, error)
}

// coachService implements the CoachService interface.
type coachService struct {
	userRepo    repository.UserRepository
	planRepo    repository.TrainingPlanRepository
	plannedRepo repository.PlannedWorkoutRepository
	templates   TemplateSource
}

// NewCoachService creates a new instance of coachService.
func NewCoachService(
	userRepo repository.UserRepository,
	planRepo repository.TrainingPlanRepository,
	plannedRepo repository.PlannedWorkoutRepository,
	templates TemplateSource,
) CoachService {
	return &coachService{
		userRepo:    userRepo,
		planRepo:    planRepo,
		plannedRepo: plannedRepo,
		templates:   templates,
	}
}

// === Roster ===

// AddAthleteByEmail finds an athlete by email and puts them on the coach's roster.
func (s *coachService) AddAthleteByEmail(ctx context.Context, coachID primitive.ObjectID, athleteEmail string) (*domain.User, error) {
	athleteEmail = strings.ToLower(strings.TrimSpace(athleteEmail))
	if coachID == primitive.NilObjectID || athleteEmail == "" {
		return nil, errors.New("coach ID and athlete email are required")
	}

	athlete, err := s.userRepo.GetByEmail(ctx, athleteEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}
	if athlete.Role != domain.RoleAthlete {
		return nil, ErrAthleteNotRole
	}

	if athlete.CoachID != nil && *athlete.CoachID != primitive.NilObjectID {
		if *athlete.CoachID == coachID {
			athlete.PasswordHash = ""
			return athlete, nil
		}
		return nil, ErrAthleteAlreadyAssigned
	}

	if err = s.userRepo.AddAthleteIDToCoach(ctx, coachID, athlete.ID); err != nil {
		return nil, err
	}
	if err = s.userRepo.SetCoachForAthlete(ctx, athlete.ID, coachID); err != nil {
		return nil, err
	}

	athlete.CoachID = &coachID
	athlete.PasswordHash = ""
	return athlete, nil
}

// GetManagedAthletes retrieves the coach's roster.
func (s *coachService) GetManagedAthletes(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	athletes, err := s.userRepo.GetAthletesByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	for i := range athletes {
		athletes[i].PasswordHash = ""
	}
	return athletes, nil
}

// SetAthleteThresholds records FTP and threshold pace for a managed athlete.
func (s *coachService) SetAthleteThresholds(ctx context.Context, coachID, athleteID primitive.ObjectID, th domain.Thresholds) error {
	if th.FTPWatts < 0 || th.ThresholdPaceSecPerKm < 0 {
		return errors.New("thresholds must not be negative")
	}
	if _, err := s.managedAthlete(ctx, coachID, athleteID); err != nil {
		return err
	}
	return s.userRepo.UpdateThresholds(ctx, athleteID, th)
}

// === Plans ===

// CreatePlan creates an inactive plan for a managed athlete.
func (s *coachService) CreatePlan(ctx context.Context, coachID, athleteID primitive.ObjectID, in PlanInput) (*domain.TrainingPlan, error) {
	if in.Name == "" || in.StartDate.IsZero() || in.Weeks <= 0 {
		return nil, ErrInvalidPlan
	}
	for _, b := range in.Phases {
		if b.StartWeek < 1 || b.EndWeek < b.StartWeek || b.EndWeek > in.Weeks {
			return nil, fmt.Errorf("%w: phase %q covers weeks %d-%d", ErrInvalidPlan, b.Phase, b.StartWeek, b.EndWeek)
		}
	}
	if _, err := s.managedAthlete(ctx, coachID, athleteID); err != nil {
		return nil, err
	}

	plan := &domain.TrainingPlan{
		CoachID:     coachID,
		AthleteID:   athleteID,
		Name:        in.Name,
		Description: in.Description,
		StartDate:   domain.DateOnly(in.StartDate),
		Weeks:       in.Weeks,
		Phases:      in.Phases,
	}
	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID
	return plan, nil
}

// GetPlansForAthlete lists the plans the coach built for the athlete.
func (s *coachService) GetPlansForAthlete(ctx context.Context, coachID, athleteID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	if _, err := s.managedAthlete(ctx, coachID, athleteID); err != nil {
		return nil, err
	}
	return s.planRepo.GetByAthleteAndCoachID(ctx, athleteID, coachID)
}

// === Calendar ===

// AddPlannedWorkout places a workout on a free date of the plan. Template-backed slots
// pick up the template's category and targets where the input leaves them unset.
func (s *coachService) AddPlannedWorkout(ctx context.Context, coachID, planID primitive.ObjectID, in PlannedWorkoutInput) (*domain.PlannedWorkout, error) {
	plan, err := coachPlan(ctx, s.planRepo, coachID, planID)
	if err != nil {
		return nil, err
	}
	if err := validateWorkoutInput(in); err != nil {
		return nil, err
	}

	date := domain.DateOnly(in.Date)
	week := plan.WeekOf(date)
	if week < 1 || week > plan.Weeks {
		return nil, ErrDateOutsidePlan
	}

	existing, err := s.plannedRepo.GetByPlanIDInRange(ctx, planID, date, date)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrDateOccupied
	}

	w := &domain.PlannedWorkout{
		PlanID:                planID,
		AthleteID:             plan.AthleteID,
		Date:                  date,
		WeekNumber:            week,
		DayOfWeek:             int(date.Weekday()),
		WorkoutID:             in.WorkoutID,
		Name:                  in.Name,
		Category:              in.Category,
		SupplementClass:       in.SupplementClass,
		TargetTSS:             in.TargetTSS,
		TargetDurationMinutes: in.TargetDurationMinutes,
		Notes:                 in.Notes,
	}
	if in.WorkoutID != nil {
		tmpl, err := s.templates.Get(ctx, *in.WorkoutID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrTemplateNotFound
			}
			return nil, err
		}
		if tmpl.CoachID != coachID {
			return nil, ErrTemplateAccessDenied
		}
		tmpl.ApplyTo(w)
	}

	id, err := s.plannedRepo.Create(ctx, w)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDateOccupied
		}
		return nil, err
	}
	w.ID = id
	return w, nil
}

// GetPlannedWorkouts lists the calendar of a plan in date order.
func (s *coachService) GetPlannedWorkouts(ctx context.Context, coachID, planID primitive.ObjectID) ([]domain.PlannedWorkout, error) {
	if _, err := coachPlan(ctx, s.planRepo, coachID, planID); err != nil {
		return nil, err
	}
	return s.plannedRepo.GetByPlanID(ctx, planID)
}

func (s *coachService) managedAthlete(ctx context.Context, coachID, athleteID primitive.ObjectID) (*domain.User, error) {
	if coachID == primitive.NilObjectID || athleteID == primitive.NilObjectID {
		return nil, errors.New("coach ID and athlete ID are required")
	}
	athlete, err := s.userRepo.GetByID(ctx, athleteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}
	if athlete.CoachID == nil || *athlete.CoachID != coachID {
		return nil, ErrAthleteNotManaged
	}
	return athlete, nil
}

func validateWorkoutInput(in PlannedWorkoutInput) error {
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidWorkout)
	}
	if in.Category != "" && !in.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidWorkout, in.Category)
	}
	if in.SupplementClass != "" && !in.SupplementClass.Valid() {
		return fmt.Errorf("%w: unknown supplement class %q", ErrInvalidWorkout, in.SupplementClass)
	}
	if in.TargetTSS < 0 || in.TargetDurationMinutes < 0 {
		return fmt.Errorf("%w: targets must not be negative", ErrInvalidWorkout)
	}
	if in.WorkoutID == nil && in.Category == "" && in.SupplementClass == "" {
		return fmt.Errorf("%w: a template, category, or supplement class is required", ErrInvalidWorkout)
	}
	return nil
}

// coachPlan loads a plan and checks the coach built it.
func coachPlan(ctx context.Context, plans repository.TrainingPlanRepository, coachID, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := loadPlan(ctx, plans, planID)
	if err != nil {
		return nil, err
	}
	if plan.CoachID != coachID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

// athletePlan loads a plan and checks it belongs to the athlete.
func athletePlan(ctx context.Context, plans repository.TrainingPlanRepository, athleteID, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := loadPlan(ctx, plans, planID)
	if err != nil {
		return nil, err
	}
	if plan.AthleteID != athleteID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

func loadPlan(ctx context.Context, plans repository.TrainingPlanRepository, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	if planID == primitive.NilObjectID {
		return nil, ErrPlanNotFound
	}
	plan, err := plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}
