package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/observability"
	"alcyxob/training-planner/internal/planner"
	"alcyxob/training-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxSupplementLookAheadWeeks = 12

var (
	ErrCannotActivate         = errors.New("plan has workouts on blocked days with no alternative day")
	ErrInvalidSupplementClass = errors.New("unknown supplement class")
	ErrInvalidLookAheadWindow = errors.New("look-ahead must be between 1 and 12 weeks")
)

type ScheduleService interface {
	// PreviewRedistribution proposes moves without changing the plan.
	PreviewRedistribution(ctx context.Context, coachID, planID primitive.ObjectID) (*planner.Result, error)
	// ApplyRedistribution stores every resolved move. Unresolved workouts stay put.
	ApplyRedistribution(ctx context.Context, coachID, planID primitive.ObjectID) (*planner.Result, error)
	// ActivatePlan applies redistribution and makes the plan the athlete's active plan.
	// It returns ErrCannotActivate, together with the result, when a workout is stuck.
	ActivatePlan(ctx context.Context, coachID, planID primitive.ObjectID) (*planner.Result, error)
	SuggestSupplements(ctx context.Context, athleteID primitive.ObjectID, class domain.SupplementClass, from time.Time, weeks int) ([]planner.SupplementSuggestion, error)
}

type scheduleService struct {
	planRepo         repository.TrainingPlanRepository
	plannedRepo      repository.PlannedWorkoutRepository
	availabilityRepo repository.AvailabilityRepository
	templates        TemplateSource
	planner          *planner.Planner
	lookAheadWeeks   int
	now              func() time.Time
}

func NewScheduleService(
	planRepo repository.TrainingPlanRepository,
	plannedRepo repository.PlannedWorkoutRepository,
	availabilityRepo repository.AvailabilityRepository,
	templates TemplateSource,
	p *planner.Planner,
	lookAheadWeeks int,
) ScheduleService {
	if lookAheadWeeks <= 0 {
		lookAheadWeeks = planner.DefaultLookAheadWeeks
	}
	return &scheduleService{
		planRepo:         planRepo,
		plannedRepo:      plannedRepo,
		availabilityRepo: availabilityRepo,
		templates:        templates,
		planner:          p,
		lookAheadWeeks:   lookAheadWeeks,
		now:              time.Now,
	}
}

func (s *scheduleService) PreviewRedistribution(ctx context.Context, coachID, planID primitive.ObjectID) (*planner.Result, error) {
	plan, err := coachPlan(ctx, s.planRepo, coachID, planID)
	if err != nil {
		return nil, err
	}
	res, _, err := s.redistribute(ctx, plan)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *scheduleService) ApplyRedistribution(ctx context.Context, coachID, planID primitive.ObjectID) (*planner.Result, error) {
	plan, err := coachPlan(ctx, s.planRepo, coachID, planID)
	if err != nil {
		return nil, err
	}
	res, before, err := s.redistribute(ctx, plan)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, plan.ID, before, res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *scheduleService) ActivatePlan(ctx context.Context, coachID, planID primitive.ObjectID) (*planner.Result, error) {
	plan, err := coachPlan(ctx, s.planRepo, coachID, planID)
	if err != nil {
		return nil, err
	}
	res, before, err := s.redistribute(ctx, plan)
	if err != nil {
		return nil, err
	}
	if !res.CanActivate {
		return &res, ErrCannotActivate
	}
	if err := s.apply(ctx, plan.ID, before, res); err != nil {
		return nil, err
	}
	if err := s.planRepo.Activate(ctx, plan.ID, plan.AthleteID); err != nil {
		return nil, fmt.Errorf("activate plan %s: %w", plan.ID.Hex(), err)
	}
	log.Printf("INFO: Activated plan %s for athlete %s (%d moves)", plan.ID.Hex(), plan.AthleteID.Hex(), len(res.Moves))
	return &res, nil
}

// SuggestSupplements ranks dates for one supplement class against the athlete's active plan.
func (s *scheduleService) SuggestSupplements(ctx context.Context, athleteID primitive.ObjectID, class domain.SupplementClass, from time.Time, weeks int) ([]planner.SupplementSuggestion, error) {
	if !class.Valid() {
		return nil, ErrInvalidSupplementClass
	}
	if weeks == 0 {
		weeks = s.lookAheadWeeks
	}
	if weeks < 1 || weeks > maxSupplementLookAheadWeeks {
		return nil, ErrInvalidLookAheadWindow
	}
	if from.IsZero() {
		from = s.now()
	}
	from = domain.DateOnly(from)

	var schedule []domain.PlannedWorkout
	plan, err := s.planRepo.GetActiveForAthlete(ctx, athleteID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// Without a plan every day is a rest day.
	case err != nil:
		return nil, err
	default:
		// Spacing and look-ahead rules reach a week past either end of the window.
		schedule, err = s.plannedRepo.GetByPlanIDInRange(ctx, plan.ID, domain.AddDays(from, -7), domain.AddDays(from, weeks*7+7))
		if err != nil {
			return nil, err
		}
		if err := s.templates.Enrich(ctx, schedule); err != nil {
			return nil, err
		}
	}

	cfg, err := loadAvailability(ctx, s.availabilityRepo, athleteID)
	if err != nil {
		return nil, err
	}

	suggestions := s.planner.SuggestSupplements(planner.SupplementRequest{
		Class:          class,
		From:           from,
		LookAheadWeeks: weeks,
		Schedule:       schedule,
		Availability:   planner.AvailabilityFromConfig(cfg),
	})
	if suggestions == nil {
		suggestions = []planner.SupplementSuggestion{}
	}
	return suggestions, nil
}

// redistribute runs the planner over the whole plan and returns the result together
// with the workouts as loaded.
func (s *scheduleService) redistribute(ctx context.Context, plan *domain.TrainingPlan) (planner.Result, []domain.PlannedWorkout, error) {
	workouts, err := s.plannedRepo.GetByPlanID(ctx, plan.ID)
	if err != nil {
		return planner.Result{}, nil, err
	}
	if err := s.templates.Enrich(ctx, workouts); err != nil {
		return planner.Result{}, nil, err
	}
	cfg, err := loadAvailability(ctx, s.availabilityRepo, plan.AthleteID)
	if err != nil {
		return planner.Result{}, nil, err
	}

	res, err := s.planner.RedistributePlan(ctx, planner.PlanInput{
		StartDate:    plan.StartDate,
		Workouts:     workouts,
		Availability: planner.AvailabilityFromConfig(cfg),
		Preferences:  cfg.Preferences,
	})
	if err != nil {
		return planner.Result{}, nil, err
	}

	moved, unresolved := countMoves(res.Moves)
	observability.RecordRedistribution(moved, unresolved, res.CanActivate)
	return res, workouts, nil
}

// countMoves splits moves into scored relocations and workouts left in place.
func countMoves(moves []planner.Move) (moved, unresolved int) {
	for _, m := range moves {
		switch {
		case !m.Resolved():
			unresolved++
		case m.Score > 0:
			moved++
		}
	}
	return moved, unresolved
}

// apply persists the final date of every workout the pass relocated.
func (s *scheduleService) apply(ctx context.Context, planID primitive.ObjectID, before []domain.PlannedWorkout, res planner.Result) error {
	changes := dateChanges(before, res.Workouts)
	if len(changes) == 0 {
		return nil
	}
	if err := s.plannedRepo.ApplyDateChanges(ctx, planID, changes); err != nil {
		log.Printf("ERROR: Failed to apply %d date changes to plan %s: %v", len(changes), planID.Hex(), err)
		return err
	}
	return nil
}

// dateChanges diffs the final schedule against the stored one. A workout moved more
// than once in a pass yields a single change to its last date.
func dateChanges(before, after []domain.PlannedWorkout) []repository.DateChange {
	original := make(map[primitive.ObjectID]time.Time, len(before))
	for _, w := range before {
		original[w.ID] = w.Date
	}
	var changes []repository.DateChange
	for _, w := range after {
		if w.ID.IsZero() {
			continue
		}
		if d, ok := original[w.ID]; ok && !d.Equal(w.Date) {
			changes = append(changes, repository.DateChange{PlannedWorkoutID: w.ID, Date: w.Date})
		}
	}
	return changes
}
