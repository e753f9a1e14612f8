package catalog

import (
	"context"
	"testing"
	"time"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type countingRepo struct {
	repository.WorkoutTemplateRepository
	templates map[primitive.ObjectID]domain.WorkoutTemplate
	byID      int
	byIDs     int
}

func (r *countingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	r.byID++
	t, ok := r.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *countingRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	r.byIDs++
	var out []domain.WorkoutTemplate
	for _, id := range ids {
		if t, ok := r.templates[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func newFixture() (*countingRepo, domain.WorkoutTemplate) {
	t := domain.WorkoutTemplate{
		ID:                    primitive.NewObjectID(),
		Code:                  "str-heavy-lower",
		Name:                  "Heavy legs",
		Category:              domain.CategoryStrength,
		TargetTSS:             40,
		TargetDurationMinutes: 50,
	}
	return &countingRepo{templates: map[primitive.ObjectID]domain.WorkoutTemplate{t.ID: t}}, t
}

func TestCacheServesFromMemoryUntilExpiry(t *testing.T) {
	repo, tmpl := newFixture()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
	cache := NewCache(repo, 10*time.Minute, clock)
	ctx := context.Background()

	got, err := cache.Get(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Heavy legs", got.Name)

	clock.now = clock.now.Add(9 * time.Minute)
	_, err = cache.Get(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.byID)

	clock.now = clock.now.Add(2 * time.Minute)
	_, err = cache.Get(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.byID)
}

func TestCacheInvalidate(t *testing.T) {
	repo, tmpl := newFixture()
	cache := NewCache(repo, time.Hour, &fakeClock{now: time.Now()})
	ctx := context.Background()

	_, err := cache.Get(ctx, tmpl.ID)
	require.NoError(t, err)
	cache.Invalidate(tmpl.ID)
	_, err = cache.Get(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.byID)

	cache.InvalidateAll()
	_, err = cache.Get(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.byID)
}

func TestCacheGetMissingTemplate(t *testing.T) {
	repo, _ := newFixture()
	cache := NewCache(repo, time.Hour, nil)
	_, err := cache.Get(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEnrichFillsPlannedMetrics(t *testing.T) {
	repo, tmpl := newFixture()
	cache := NewCache(repo, time.Hour, &fakeClock{now: time.Now()})

	id := tmpl.ID
	workouts := []domain.PlannedWorkout{
		{WorkoutID: &id},
		{WorkoutID: &id, TargetTSS: 55},
		{Category: domain.CategoryRest},
	}
	require.NoError(t, cache.Enrich(context.Background(), workouts))

	assert.Equal(t, domain.CategoryStrength, workouts[0].Category)
	assert.Equal(t, domain.SupplementHeavyConditioning, workouts[0].SupplementClass)
	assert.Equal(t, 40.0, workouts[0].TargetTSS)
	assert.Equal(t, 55.0, workouts[1].TargetTSS)
	assert.Equal(t, domain.CategoryRest, workouts[2].Category)
	assert.Equal(t, 1, repo.byIDs, "duplicate IDs are loaded once")

	require.NoError(t, cache.Enrich(context.Background(), workouts[:1]))
	assert.Equal(t, 1, repo.byIDs)
}
