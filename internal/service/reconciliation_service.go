package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"alcyxob/training-planner/internal/adaptation"
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/observability"
	"alcyxob/training-planner/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReconciliationSummary is the outcome of one reconciliation pass.
type ReconciliationSummary struct {
	PassID  string                    `json:"passId"`
	From    time.Time                 `json:"from"`
	To      time.Time                 `json:"to"`
	Fitness adaptation.Fitness        `json:"fitness"`
	Form    string                    `json:"form"`
	Records []domain.AdaptationRecord `json:"records"`
}

type ReconciliationService interface {
	// ReconcilePlan compares the plan with what the athlete actually did between from and
	// to (inclusive, clamped to the plan) and replaces earlier records for that range.
	// Zero dates default to the plan start and today.
	ReconcilePlan(ctx context.Context, athleteID, planID primitive.ObjectID, from, to time.Time) (*ReconciliationSummary, error)
	GetAdaptations(ctx context.Context, athleteID, planID primitive.ObjectID, from, to time.Time) ([]domain.AdaptationRecord, error)
}

type reconciliationService struct {
	userRepo       repository.UserRepository
	planRepo       repository.TrainingPlanRepository
	plannedRepo    repository.PlannedWorkoutRepository
	activityRepo   repository.ActivityRepository
	adaptationRepo repository.AdaptationRepository
	templates      TemplateSource
	historyDays    int
	now            func() time.Time
}

func NewReconciliationService(
	userRepo repository.UserRepository,
	planRepo repository.TrainingPlanRepository,
	plannedRepo repository.PlannedWorkoutRepository,
	activityRepo repository.ActivityRepository,
	adaptationRepo repository.AdaptationRepository,
	templates TemplateSource,
	historyDays int,
) ReconciliationService {
	if historyDays <= 0 {
		historyDays = 90
	}
	return &reconciliationService{
		userRepo:       userRepo,
		planRepo:       planRepo,
		plannedRepo:    plannedRepo,
		activityRepo:   activityRepo,
		adaptationRepo: adaptationRepo,
		templates:      templates,
		historyDays:    historyDays,
		now:            time.Now,
	}
}

func (s *reconciliationService) ReconcilePlan(ctx context.Context, athleteID, planID primitive.ObjectID, from, to time.Time) (*ReconciliationSummary, error) {
	started := time.Now()
	plan, err := athletePlan(ctx, s.planRepo, athleteID, planID)
	if err != nil {
		return nil, err
	}
	from, to, err = s.window(plan, from, to)
	if err != nil {
		return nil, err
	}

	athlete, err := s.userRepo.GetByID(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	th := athlete.Thresholds()

	planned, err := s.plannedRepo.GetByPlanIDInRange(ctx, planID, from, to)
	if err != nil {
		return nil, err
	}
	if err := s.templates.Enrich(ctx, planned); err != nil {
		return nil, err
	}

	historyFrom := domain.AddDays(to, -s.historyDays)
	if from.Before(historyFrom) {
		historyFrom = from
	}
	history, err := s.activityRepo.GetByAthleteInRange(ctx, athleteID, historyFrom, to)
	if err != nil {
		return nil, err
	}
	var inRange []domain.Activity
	for _, a := range history {
		if !a.Date.Before(from) {
			inRange = append(inRange, a)
		}
	}

	fitness := adaptation.CurrentFitness(history, th.FTPWatts, to)
	passID := uuid.NewString()
	records := adaptation.Reconcile(adaptation.Input{
		PlanID:     planID,
		AthleteID:  athleteID,
		PassID:     passID,
		Planned:    planned,
		Activities: inRange,
		Thresholds: th,
		TSB:        fitness.TSB,
		PhaseFor: func(d time.Time) domain.TrainingPhase {
			return plan.PhaseForWeek(plan.WeekOf(d))
		},
		CreatedAt: s.now().UTC(),
	})

	if err := s.adaptationRepo.ReplacePass(ctx, planID, from, to, passID, records); err != nil {
		log.Printf("ERROR: Failed to store reconciliation pass %s for plan %s: %v", passID, planID.Hex(), err)
		return nil, fmt.Errorf("store reconciliation pass: %w", err)
	}

	for _, r := range records {
		observability.RecordAdaptation(string(r.AdaptationType), string(r.Assessment))
	}
	observability.ObserveReconciliation(time.Since(started))
	log.Printf("INFO: Reconciled plan %s %s..%s: %d records (pass %s)",
		planID.Hex(), domain.DateKey(from), domain.DateKey(to), len(records), passID)

	return &ReconciliationSummary{
		PassID:  passID,
		From:    from,
		To:      to,
		Fitness: fitness,
		Form:    adaptation.FormDescription(fitness.TSB),
		Records: records,
	}, nil
}

func (s *reconciliationService) GetAdaptations(ctx context.Context, athleteID, planID primitive.ObjectID, from, to time.Time) ([]domain.AdaptationRecord, error) {
	plan, err := athletePlan(ctx, s.planRepo, athleteID, planID)
	if err != nil {
		return nil, err
	}
	from, to, err = s.window(plan, from, to)
	if err != nil {
		return nil, err
	}
	return s.adaptationRepo.GetByPlanID(ctx, planID, from, to)
}

// window clamps a requested range to the plan's calendar.
func (s *reconciliationService) window(plan *domain.TrainingPlan, from, to time.Time) (time.Time, time.Time, error) {
	planStart := domain.DateOnly(plan.StartDate)
	planEnd := domain.AddDays(plan.WeekStart(plan.Weeks+1), -1)
	if from.IsZero() {
		from = planStart
	}
	if to.IsZero() {
		to = s.now()
	}
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if from.Before(planStart) {
		from = planStart
	}
	if to.After(planEnd) {
		to = planEnd
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return from, to, nil
}
