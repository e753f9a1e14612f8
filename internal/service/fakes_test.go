package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"time"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/repository"
	"alcyxob/training-planner/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stand-ins for the Mongo repositories and S3.

func inRange(d, from, to time.Time) bool {
	d = domain.DateOnly(d)
	return !d.Before(domain.DateOnly(from)) && !d.After(domain.DateOnly(to))
}

type memUsers struct{ byID map[primitive.ObjectID]*domain.User }

func newMemUsers() *memUsers { return &memUsers{byID: map[primitive.ObjectID]*domain.User{}} }

func (r *memUsers) Create(_ context.Context, u *domain.User) (primitive.ObjectID, error) {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	r.byID[u.ID] = &cp
	return u.ID, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUsers) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) AddAthleteIDToCoach(_ context.Context, coachID, athleteID primitive.ObjectID) error {
	c, ok := r.byID[coachID]
	if !ok {
		return repository.ErrNotFound
	}
	c.AthleteIDs = append(c.AthleteIDs, athleteID)
	return nil
}

func (r *memUsers) GetAthletesByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range r.byID {
		if u.CoachID != nil && *u.CoachID == coachID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUsers) SetCoachForAthlete(_ context.Context, athleteID, coachID primitive.ObjectID) error {
	a, ok := r.byID[athleteID]
	if !ok {
		return repository.ErrNotFound
	}
	a.CoachID = &coachID
	return nil
}

func (r *memUsers) UpdateThresholds(_ context.Context, athleteID primitive.ObjectID, th domain.Thresholds) error {
	a, ok := r.byID[athleteID]
	if !ok {
		return repository.ErrNotFound
	}
	a.FTPWatts = th.FTPWatts
	a.ThresholdPaceSecPerKm = th.ThresholdPaceSecPerKm
	return nil
}

type memTemplates struct{ byID map[primitive.ObjectID]domain.WorkoutTemplate }

func newMemTemplates() *memTemplates {
	return &memTemplates{byID: map[primitive.ObjectID]domain.WorkoutTemplate{}}
}

func (r *memTemplates) Create(_ context.Context, t *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	t.ID = primitive.NewObjectID()
	r.byID[t.ID] = *t
	return t.ID, nil
}

func (r *memTemplates) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *memTemplates) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	var out []domain.WorkoutTemplate
	for _, id := range ids {
		if t, ok := r.byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTemplates) GetByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	out := []domain.WorkoutTemplate{}
	for _, t := range r.byID {
		if t.CoachID == coachID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTemplates) Update(_ context.Context, t *domain.WorkoutTemplate) error {
	if _, ok := r.byID[t.ID]; !ok {
		return repository.ErrNotFound
	}
	r.byID[t.ID] = *t
	return nil
}

func (r *memTemplates) Delete(_ context.Context, id, coachID primitive.ObjectID) error {
	t, ok := r.byID[id]
	if !ok || t.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type memPlans struct{ byID map[primitive.ObjectID]*domain.TrainingPlan }

func newMemPlans() *memPlans { return &memPlans{byID: map[primitive.ObjectID]*domain.TrainingPlan{}} }

func (r *memPlans) Create(_ context.Context, p *domain.TrainingPlan) (primitive.ObjectID, error) {
	p.ID = primitive.NewObjectID()
	cp := *p
	r.byID[p.ID] = &cp
	return p.ID, nil
}

func (r *memPlans) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPlans) GetByAthleteAndCoachID(_ context.Context, athleteID, coachID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	out := []domain.TrainingPlan{}
	for _, p := range r.byID {
		if p.AthleteID == athleteID && p.CoachID == coachID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPlans) GetActiveForAthlete(_ context.Context, athleteID primitive.ObjectID) (*domain.TrainingPlan, error) {
	for _, p := range r.byID {
		if p.AthleteID == athleteID && p.IsActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memPlans) Activate(_ context.Context, planID, athleteID primitive.ObjectID) error {
	if _, ok := r.byID[planID]; !ok {
		return repository.ErrNotFound
	}
	for _, p := range r.byID {
		if p.AthleteID == athleteID {
			p.IsActive = p.ID == planID
		}
	}
	return nil
}

type memPlanned struct{ byID map[primitive.ObjectID]*domain.PlannedWorkout }

func newMemPlanned() *memPlanned {
	return &memPlanned{byID: map[primitive.ObjectID]*domain.PlannedWorkout{}}
}

func (r *memPlanned) Create(_ context.Context, w *domain.PlannedWorkout) (primitive.ObjectID, error) {
	w.ID = primitive.NewObjectID()
	w.Date = domain.DateOnly(w.Date)
	cp := *w
	r.byID[w.ID] = &cp
	return w.ID, nil
}

func (r *memPlanned) GetByID(_ context.Context, id primitive.ObjectID) (*domain.PlannedWorkout, error) {
	w, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *memPlanned) filter(keep func(*domain.PlannedWorkout) bool) []domain.PlannedWorkout {
	out := []domain.PlannedWorkout{}
	for _, w := range r.byID {
		if keep(w) {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (r *memPlanned) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.PlannedWorkout, error) {
	return r.filter(func(w *domain.PlannedWorkout) bool { return w.PlanID == planID }), nil
}

func (r *memPlanned) GetByPlanIDInRange(_ context.Context, planID primitive.ObjectID, from, to time.Time) ([]domain.PlannedWorkout, error) {
	return r.filter(func(w *domain.PlannedWorkout) bool { return w.PlanID == planID && inRange(w.Date, from, to) }), nil
}

func (r *memPlanned) GetByAthleteInRange(_ context.Context, athleteID primitive.ObjectID, from, to time.Time) ([]domain.PlannedWorkout, error) {
	return r.filter(func(w *domain.PlannedWorkout) bool { return w.AthleteID == athleteID && inRange(w.Date, from, to) }), nil
}

func (r *memPlanned) ApplyDateChanges(_ context.Context, planID primitive.ObjectID, changes []repository.DateChange) error {
	for _, c := range changes {
		w, ok := r.byID[c.PlannedWorkoutID]
		if !ok || w.PlanID != planID {
			return repository.ErrNotFound
		}
		w.Date = domain.DateOnly(c.Date)
		w.DayOfWeek = int(w.Date.Weekday())
	}
	return nil
}

type memAvailability struct {
	byAthlete map[primitive.ObjectID]*domain.AvailabilityConfig
}

func newMemAvailability() *memAvailability {
	return &memAvailability{byAthlete: map[primitive.ObjectID]*domain.AvailabilityConfig{}}
}

func (r *memAvailability) GetByAthleteID(_ context.Context, athleteID primitive.ObjectID) (*domain.AvailabilityConfig, error) {
	c, ok := r.byAthlete[athleteID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memAvailability) get(athleteID primitive.ObjectID) *domain.AvailabilityConfig {
	c, ok := r.byAthlete[athleteID]
	if !ok {
		c = &domain.AvailabilityConfig{AthleteID: athleteID, Preferences: domain.DefaultPreferences()}
		r.byAthlete[athleteID] = c
	}
	return c
}

func (r *memAvailability) Upsert(_ context.Context, cfg *domain.AvailabilityConfig) error {
	c := r.get(cfg.AthleteID)
	c.WeeklyAvailability = cfg.WeeklyAvailability
	c.Preferences = cfg.Preferences
	return nil
}

func (r *memAvailability) SetOverride(_ context.Context, athleteID primitive.ObjectID, o domain.DateOverride) error {
	c := r.get(athleteID)
	kept := c.DateOverrides[:0]
	for _, existing := range c.DateOverrides {
		if !existing.Date.Equal(o.Date) {
			kept = append(kept, existing)
		}
	}
	c.DateOverrides = append(kept, o)
	return nil
}

func (r *memAvailability) DeleteOverride(_ context.Context, athleteID primitive.ObjectID, date time.Time) error {
	c, ok := r.byAthlete[athleteID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := c.DateOverrides[:0]
	for _, existing := range c.DateOverrides {
		if !existing.Date.Equal(date) {
			kept = append(kept, existing)
		}
	}
	c.DateOverrides = kept
	return nil
}

type memActivities struct{ byID map[primitive.ObjectID]domain.Activity }

func newMemActivities() *memActivities {
	return &memActivities{byID: map[primitive.ObjectID]domain.Activity{}}
}

func (r *memActivities) Create(_ context.Context, a *domain.Activity) (primitive.ObjectID, error) {
	a.ID = primitive.NewObjectID()
	r.byID[a.ID] = *a
	return a.ID, nil
}

func (r *memActivities) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Activity, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *memActivities) GetByAthleteInRange(_ context.Context, athleteID primitive.ObjectID, from, to time.Time) ([]domain.Activity, error) {
	out := []domain.Activity{}
	for _, a := range r.byID {
		if a.AthleteID == athleteID && inRange(a.Date, from, to) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type memAdaptations struct{ records []domain.AdaptationRecord }

func (r *memAdaptations) ReplacePass(_ context.Context, planID primitive.ObjectID, from, to time.Time, passID string, records []domain.AdaptationRecord) error {
	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.PlanID == planID && rec.PassID != passID && inRange(rec.Date, from, to) {
			continue
		}
		kept = append(kept, rec)
	}
	for _, rec := range records {
		rec.ID = primitive.NewObjectID()
		rec.PlanID = planID
		rec.PassID = passID
		kept = append(kept, rec)
	}
	r.records = kept
	return nil
}

func (r *memAdaptations) GetByPlanID(_ context.Context, planID primitive.ObjectID, from, to time.Time) ([]domain.AdaptationRecord, error) {
	out := []domain.AdaptationRecord{}
	for _, rec := range r.records {
		if rec.PlanID == planID && inRange(rec.Date, from, to) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memUploads struct{ byID map[primitive.ObjectID]domain.Upload }

func newMemUploads() *memUploads { return &memUploads{byID: map[primitive.ObjectID]domain.Upload{}} }

func (r *memUploads) Create(_ context.Context, u *domain.Upload) (primitive.ObjectID, error) {
	u.ID = primitive.NewObjectID()
	r.byID[u.ID] = *u
	return u.ID, nil
}

func (r *memUploads) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Upload, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *memUploads) GetByObjectKey(_ context.Context, key string) (*domain.Upload, error) {
	for _, u := range r.byID {
		if u.S3ObjectKey == key {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUploads) LinkActivity(_ context.Context, uploadID, activityID primitive.ObjectID) error {
	u, ok := r.byID[uploadID]
	if !ok {
		return repository.ErrNotFound
	}
	u.ActivityID = &activityID
	r.byID[uploadID] = u
	return nil
}

type memStorage struct {
	objects   map[string][]byte
	presigned []string
}

func newMemStorage() *memStorage { return &memStorage{objects: map[string][]byte{}} }

func (s *memStorage) GeneratePresignedUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	s.presigned = append(s.presigned, key)
	return "https://s3.test/bucket/" + key + "?X-Amz-Signature=test", nil
}

func (s *memStorage) GetObject(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memStorage) DeleteObject(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}
