package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/planner"
	"alcyxob/training-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxCalendarDays bounds a single calendar request.
const maxCalendarDays = 366

var (
	ErrInvalidAvailability = errors.New("invalid availability")
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrOverrideNotFound    = errors.New("no override on this date")
)

type AvailabilityService interface {
	GetAvailability(ctx context.Context, athleteID primitive.ObjectID) (*domain.AvailabilityConfig, error)
	UpdateAvailability(ctx context.Context, athleteID primitive.ObjectID, weekly []domain.DayAvailability, prefs domain.TrainingPreferences) (*domain.AvailabilityConfig, error)
	SetOverride(ctx context.Context, athleteID primitive.ObjectID, override domain.DateOverride) error
	DeleteOverride(ctx context.Context, athleteID primitive.ObjectID, date time.Time) error
	Calendar(ctx context.Context, athleteID primitive.ObjectID, from, to time.Time) ([]domain.ResolvedAvailability, error)
}

type availabilityService struct {
	availabilityRepo repository.AvailabilityRepository
}

func NewAvailabilityService(availabilityRepo repository.AvailabilityRepository) AvailabilityService {
	return &availabilityService{availabilityRepo: availabilityRepo}
}

// GetAvailability returns the stored document, or the defaults when the athlete never
// saved one: every day available, one rest day a week.
func (s *availabilityService) GetAvailability(ctx context.Context, athleteID primitive.ObjectID) (*domain.AvailabilityConfig, error) {
	return loadAvailability(ctx, s.availabilityRepo, athleteID)
}

// UpdateAvailability replaces the weekly pattern and preferences. Overrides are kept.
func (s *availabilityService) UpdateAvailability(ctx context.Context, athleteID primitive.ObjectID, weekly []domain.DayAvailability, prefs domain.TrainingPreferences) (*domain.AvailabilityConfig, error) {
	seen := make(map[int]bool, len(weekly))
	for _, d := range weekly {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAvailability, err)
		}
		if seen[d.DayOfWeek] {
			return nil, fmt.Errorf("%w: dayOfWeek %d listed twice", ErrInvalidAvailability, d.DayOfWeek)
		}
		seen[d.DayOfWeek] = true
	}
	if err := validatePreferences(prefs); err != nil {
		return nil, err
	}

	cfg := &domain.AvailabilityConfig{
		AthleteID:          athleteID,
		WeeklyAvailability: weekly,
		Preferences:        prefs,
	}
	if err := s.availabilityRepo.Upsert(ctx, cfg); err != nil {
		return nil, err
	}
	return s.availabilityRepo.GetByAthleteID(ctx, athleteID)
}

// SetOverride replaces the rule for one date; an existing override on that date is replaced.
func (s *availabilityService) SetOverride(ctx context.Context, athleteID primitive.ObjectID, override domain.DateOverride) error {
	override.Date = domain.DateOnly(override.Date)
	if err := override.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAvailability, err)
	}
	return s.availabilityRepo.SetOverride(ctx, athleteID, override)
}

func (s *availabilityService) DeleteOverride(ctx context.Context, athleteID primitive.ObjectID, date time.Time) error {
	err := s.availabilityRepo.DeleteOverride(ctx, athleteID, domain.DateOnly(date))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrOverrideNotFound
	}
	return err
}

// Calendar resolves each date of from..to inclusive.
func (s *availabilityService) Calendar(ctx context.Context, athleteID primitive.ObjectID, from, to time.Time) ([]domain.ResolvedAvailability, error) {
	if err := checkRange(from, to, maxCalendarDays); err != nil {
		return nil, err
	}
	cfg, err := loadAvailability(ctx, s.availabilityRepo, athleteID)
	if err != nil {
		return nil, err
	}
	return planner.AvailabilityFromConfig(cfg).ResolveRange(from, to), nil
}

func loadAvailability(ctx context.Context, repo repository.AvailabilityRepository, athleteID primitive.ObjectID) (*domain.AvailabilityConfig, error) {
	cfg, err := repo.GetByAthleteID(ctx, athleteID)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.AvailabilityConfig{
			AthleteID:          athleteID,
			WeeklyAvailability: []domain.DayAvailability{},
			DateOverrides:      []domain.DateOverride{},
			Preferences:        domain.DefaultPreferences(),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func validatePreferences(p domain.TrainingPreferences) error {
	if p.MaxWorkoutsPerWeek != nil && *p.MaxWorkoutsPerWeek < 0 ||
		p.MaxHoursPerWeek != nil && *p.MaxHoursPerWeek < 0 ||
		p.MaxHardDaysPerWeek != nil && *p.MaxHardDaysPerWeek < 0 ||
		p.MinRestDaysPerWeek < 0 || p.MinRestDaysPerWeek > 7 {
		return fmt.Errorf("%w: preferences out of range", ErrInvalidAvailability)
	}
	return nil
}

func checkRange(from, to time.Time, maxDays int) error {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return ErrInvalidDateRange
	}
	if domain.DaysBetween(from, to) >= maxDays {
		return fmt.Errorf("%w: at most %d days", ErrInvalidDateRange, maxDays)
	}
	return nil
}
