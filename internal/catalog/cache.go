// Package catalog serves workout templates to the scheduling core through a small
// read-through cache.
package catalog

import (
	"context"
	"sync"
	"time"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/observability"
	"alcyxob/training-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type entry struct {
	template domain.WorkoutTemplate
	expires  time.Time
}

// Cache is a read-through, per-template TTL cache in front of the template store.
// Construct one per process and share it; it is safe for concurrent use.
type Cache struct {
	repo  repository.WorkoutTemplateRepository
	clock Clock
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[primitive.ObjectID]entry
}

// NewCache creates a cache. A nil clock uses the wall clock.
func NewCache(repo repository.WorkoutTemplateRepository, ttl time.Duration, clock Clock) *Cache {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Cache{
		repo:    repo,
		clock:   clock,
		ttl:     ttl,
		entries: make(map[primitive.ObjectID]entry),
	}
}

// Get returns one template, loading it on a miss.
func (c *Cache) Get(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	if t, ok := c.lookup(id); ok {
		observability.RecordCatalogLookup(true)
		return &t, nil
	}
	observability.RecordCatalogLookup(false)
	t, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(*t)
	return t, nil
}

// Lookup returns the templates for ids, loading every miss with a single query.
// Unknown IDs are absent from the result.
func (c *Cache) Lookup(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.WorkoutTemplate, error) {
	out := make(map[primitive.ObjectID]domain.WorkoutTemplate, len(ids))
	var missing []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if t, ok := c.lookup(id); ok {
			observability.RecordCatalogLookup(true)
			out[id] = t
			continue
		}
		observability.RecordCatalogLookup(false)
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := c.repo.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, t := range loaded {
		c.store(t)
		out[t.ID] = t
	}
	return out, nil
}

// Enrich fills the planned-side metrics of workouts that reference a template.
func (c *Cache) Enrich(ctx context.Context, workouts []domain.PlannedWorkout) error {
	var ids []primitive.ObjectID
	for _, w := range workouts {
		if w.WorkoutID != nil {
			ids = append(ids, *w.WorkoutID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	templates, err := c.Lookup(ctx, ids)
	if err != nil {
		return err
	}
	for i := range workouts {
		if workouts[i].WorkoutID == nil {
			continue
		}
		if t, ok := templates[*workouts[i].WorkoutID]; ok {
			t.ApplyTo(&workouts[i])
		}
	}
	return nil
}

// Invalidate drops one template; the next read reloads it.
func (c *Cache) Invalidate(id primitive.ObjectID) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[primitive.ObjectID]entry)
	c.mu.Unlock()
}

func (c *Cache) lookup(id primitive.ObjectID) (domain.WorkoutTemplate, bool) {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok || !c.clock.Now().Before(e.expires) {
		return domain.WorkoutTemplate{}, false
	}
	return e.template, true
}

func (c *Cache) store(t domain.WorkoutTemplate) {
	c.mu.Lock()
	c.entries[t.ID] = entry{template: t, expires: c.clock.Now().Add(c.ttl)}
	c.mu.Unlock()
}
