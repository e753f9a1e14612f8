package service

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrTemplateNotFound     = errors.New("workout template not found")
	ErrTemplateAccessDenied = errors.New("access denied to modify or delete this workout template")
	ErrValidationFailed     = errors.New("workout template validation failed")
)

// TemplateSource resolves workout templates for the scheduling services.
// *catalog.Cache satisfies it.
type TemplateSource interface {
	Get(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
	Enrich(ctx context.Context, workouts []domain.PlannedWorkout) error
	Invalidate(id primitive.ObjectID)
}

// TemplateInput carries the editable fields of a workout template.
type TemplateInput struct {
	Code                  string
	Name                  string
	Description           string
	Sport                 domain.Sport
	Category              domain.WorkoutCategory
	SupplementClass       domain.SupplementClass
	TargetTSS             float64
	TargetDurationMinutes int
}

func (in TemplateInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if in.Category == "" || !in.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidationFailed, in.Category)
	}
	if in.SupplementClass != "" && !in.SupplementClass.Valid() {
		return fmt.Errorf("%w: unknown supplement class %q", ErrValidationFailed, in.SupplementClass)
	}
	if in.TargetTSS < 0 || in.TargetDurationMinutes < 0 {
		return fmt.Errorf("%w: targets must not be negative", ErrValidationFailed)
	}
	return nil
}

func (in TemplateInput) applyTo(t *domain.WorkoutTemplate) {
	t.Code = in.Code
	t.Name = in.Name
	t.Description = in.Description
	t.Sport = in.Sport
	t.Category = in.Category
	t.SupplementClass = in.SupplementClass
	t.TargetTSS = in.TargetTSS
	t.TargetDurationMinutes = in.TargetDurationMinutes
}

type CatalogService interface {
	CreateTemplate(ctx context.Context, coachID primitive.ObjectID, in TemplateInput) (*domain.WorkoutTemplate, error)
	GetTemplateByID(ctx context.Context, coachID, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error)
	GetTemplatesByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.WorkoutTemplate, error)
	UpdateTemplate(ctx context.Context, coachID, templateID primitive.ObjectID, in TemplateInput) (*domain.WorkoutTemplate, error)
	DeleteTemplate(ctx context.Context, coachID, templateID primitive.ObjectID) error
}

// catalogService implements the CatalogService interface. Writes go to the repository
// and invalidate the shared template cache.
type catalogService struct {
	templateRepo repository.WorkoutTemplateRepository
	cache        TemplateSource
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(templateRepo repository.WorkoutTemplateRepository, cache TemplateSource) CatalogService {
	return &catalogService{
		templateRepo: templateRepo,
		cache:        cache,
	}
}

// CreateTemplate adds a workout to the coach's library.
func (s *catalogService) CreateTemplate(ctx context.Context, coachID primitive.ObjectID, in TemplateInput) (*domain.WorkoutTemplate, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required to create a workout template")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	template := &domain.WorkoutTemplate{CoachID: coachID}
	in.applyTo(template)

	templateID, err := s.templateRepo.Create(ctx, template)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: code %q already used", ErrValidationFailed, in.Code)
		}
		return nil, err
	}
	template.ID = templateID
	return template, nil
}

// GetTemplateByID returns one of the coach's templates.
func (s *catalogService) GetTemplateByID(ctx context.Context, coachID, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	template, err := s.cache.Get(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if template.CoachID != coachID {
		return nil, ErrTemplateAccessDenied
	}
	return template, nil
}

// GetTemplatesByCoach retrieves the coach's whole library.
func (s *catalogService) GetTemplatesByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID cannot be nil")
	}
	return s.templateRepo.GetByCoachID(ctx, coachID)
}

// UpdateTemplate replaces the fields of a template the coach owns.
func (s *catalogService) UpdateTemplate(ctx context.Context, coachID, templateID primitive.ObjectID, in TemplateInput) (*domain.WorkoutTemplate, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if existing.CoachID != coachID {
		return nil, ErrTemplateAccessDenied
	}

	in.applyTo(existing)
	if err = s.templateRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	s.cache.Invalidate(templateID)
	return existing, nil
}

// DeleteTemplate removes a template the coach owns. Planned workouts that referenced it
// keep the category and targets copied onto them when they were scheduled.
func (s *catalogService) DeleteTemplate(ctx context.Context, coachID, templateID primitive.ObjectID) error {
	if coachID == primitive.NilObjectID || templateID == primitive.NilObjectID {
		return errors.New("coach ID and template ID are required")
	}

	// The repository filters on coachId too, so a foreign template reads as not found.
	if err := s.templateRepo.Delete(ctx, templateID, coachID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	s.cache.Invalidate(templateID)
	return nil
}
