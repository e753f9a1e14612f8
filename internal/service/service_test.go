package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/training-planner/internal/catalog"
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/planner"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ctx = context.Background()
	// Monday of plan week 1.
	planStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

func day(n int) time.Time { return domain.AddDays(planStart, n) }

func f64(v float64) *float64 { return &v }

type env struct {
	users       *memUsers
	templates   *memTemplates
	plans       *memPlans
	planned     *memPlanned
	avail       *memAvailability
	activities  *memActivities
	adaptations *memAdaptations
	uploads     *memUploads
	store       *memStorage

	coach        CoachService
	catalog      CatalogService
	availability AvailabilityService
	schedule     ScheduleService
	activity     ActivityService
	reconcile    *reconciliationService

	coachID   primitive.ObjectID
	athleteID primitive.ObjectID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		users:       newMemUsers(),
		templates:   newMemTemplates(),
		plans:       newMemPlans(),
		planned:     newMemPlanned(),
		avail:       newMemAvailability(),
		activities:  newMemActivities(),
		adaptations: &memAdaptations{},
		uploads:     newMemUploads(),
		store:       newMemStorage(),
	}
	cache := catalog.NewCache(e.templates, time.Minute, nil)

	e.coach = NewCoachService(e.users, e.plans, e.planned, cache)
	e.catalog = NewCatalogService(e.templates, cache)
	e.availability = NewAvailabilityService(e.avail)
	e.schedule = NewScheduleService(e.plans, e.planned, e.avail, cache, planner.Default(), 0)
	e.activity = NewActivityService(e.users, e.activities, e.uploads, e.store)
	e.reconcile = NewReconciliationService(e.users, e.plans, e.planned, e.activities, e.adaptations, cache, 90).(*reconciliationService)
	e.reconcile.now = func() time.Time { return day(13) }

	var err error
	e.coachID, err = e.users.Create(ctx, &domain.User{Name: "Coach", Email: "coach@example.com", Role: domain.RoleCoach})
	require.NoError(t, err)
	e.athleteID, err = e.users.Create(ctx, &domain.User{Name: "Rider", Email: "rider@example.com", Role: domain.RoleAthlete, FTPWatts: 250})
	require.NoError(t, err)
	_, err = e.coach.AddAthleteByEmail(ctx, e.coachID, "rider@example.com")
	require.NoError(t, err)
	return e
}

func (e *env) newPlan(t *testing.T) *domain.TrainingPlan {
	t.Helper()
	plan, err := e.coach.CreatePlan(ctx, e.coachID, e.athleteID, PlanInput{
		Name:      "Spring build",
		StartDate: planStart,
		Weeks:     2,
		Phases:    []domain.PhaseBlock{{Phase: domain.PhaseBuild, StartWeek: 1, EndWeek: 2}},
	})
	require.NoError(t, err)
	return plan
}

func (e *env) addWorkout(t *testing.T, planID primitive.ObjectID, in PlannedWorkoutInput) *domain.PlannedWorkout {
	t.Helper()
	w, err := e.coach.AddPlannedWorkout(ctx, e.coachID, planID, in)
	require.NoError(t, err)
	return w
}

// --- auth ---

func TestAuthRegisterAndLogin(t *testing.T) {
	users := newMemUsers()
	auth := NewAuthService(users, "test-secret", time.Hour)

	u, err := auth.Register(ctx, "Ana", "Ana@Example.com", "s3cret", domain.RoleAthlete)
	require.NoError(t, err)
	assert.Empty(t, u.PasswordHash)
	assert.Equal(t, "ana@example.com", u.Email)

	_, err = auth.Register(ctx, "Ana again", "ana@example.com", "other", domain.RoleAthlete)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = auth.Register(ctx, "Bob", "bob@example.com", "pw", domain.Role("admin"))
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, _, err = auth.Login(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	token, logged, err := auth.Login(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleAthlete, claims.Role)
}

// --- coach ---

func TestAddAthleteByEmail(t *testing.T) {
	e := newEnv(t)

	_, err := e.coach.AddAthleteByEmail(ctx, e.coachID, "coach@example.com")
	assert.ErrorIs(t, err, ErrAthleteNotRole)

	_, err = e.coach.AddAthleteByEmail(ctx, e.coachID, "nobody@example.com")
	assert.ErrorIs(t, err, ErrAthleteNotFound)

	again, err := e.coach.AddAthleteByEmail(ctx, e.coachID, "rider@example.com")
	require.NoError(t, err)
	assert.Equal(t, e.athleteID, again.ID)

	otherCoach, err := e.users.Create(ctx, &domain.User{Email: "other@example.com", Role: domain.RoleCoach})
	require.NoError(t, err)
	_, err = e.coach.AddAthleteByEmail(ctx, otherCoach, "rider@example.com")
	assert.ErrorIs(t, err, ErrAthleteAlreadyAssigned)

	roster, err := e.coach.GetManagedAthletes(ctx, e.coachID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, e.athleteID, roster[0].ID)
}

func TestCreatePlanValidation(t *testing.T) {
	e := newEnv(t)

	_, err := e.coach.CreatePlan(ctx, e.coachID, e.athleteID, PlanInput{Name: "x", StartDate: planStart})
	assert.ErrorIs(t, err, ErrInvalidPlan)

	_, err = e.coach.CreatePlan(ctx, e.coachID, e.athleteID, PlanInput{
		Name: "x", StartDate: planStart, Weeks: 2,
		Phases: []domain.PhaseBlock{{Phase: domain.PhaseBase, StartWeek: 1, EndWeek: 3}},
	})
	assert.ErrorIs(t, err, ErrInvalidPlan)

	stranger, err := e.users.Create(ctx, &domain.User{Email: "stranger@example.com", Role: domain.RoleAthlete})
	require.NoError(t, err)
	_, err = e.coach.CreatePlan(ctx, e.coachID, stranger, PlanInput{Name: "x", StartDate: planStart, Weeks: 1})
	assert.ErrorIs(t, err, ErrAthleteNotManaged)
}

func TestAddPlannedWorkout(t *testing.T) {
	e := newEnv(t)
	plan := e.newPlan(t)

	tmpl, err := e.catalog.CreateTemplate(ctx, e.coachID, TemplateInput{
		Code: "str-heavy-lower", Name: "Heavy legs", Category: domain.CategoryStrength,
		TargetTSS: 40, TargetDurationMinutes: 50,
	})
	require.NoError(t, err)

	w := e.addWorkout(t, plan.ID, PlannedWorkoutInput{Date: day(2), WorkoutID: &tmpl.ID})
	assert.Equal(t, 1, w.WeekNumber)
	assert.Equal(t, int(time.Wednesday), w.DayOfWeek)
	assert.Equal(t, domain.CategoryStrength, w.Category)
	assert.Equal(t, domain.SupplementHeavyConditioning, w.SupplementClass)
	assert.Equal(t, 50, w.TargetDurationMinutes)

	_, err = e.coach.AddPlannedWorkout(ctx, e.coachID, plan.ID, PlannedWorkoutInput{Date: day(2), Category: domain.CategoryEndurance})
	assert.ErrorIs(t, err, ErrDateOccupied)

	_, err = e.coach.AddPlannedWorkout(ctx, e.coachID, plan.ID, PlannedWorkoutInput{Date: day(14), Category: domain.CategoryEndurance})
	assert.ErrorIs(t, err, ErrDateOutsidePlan)

	_, err = e.coach.AddPlannedWorkout(ctx, e.coachID, plan.ID, PlannedWorkoutInput{Date: day(3), Category: "sprinting"})
	assert.ErrorIs(t, err, ErrInvalidWorkout)

	_, err = e.coach.AddPlannedWorkout(ctx, primitive.NewObjectID(), plan.ID, PlannedWorkoutInput{Date: day(3), Category: domain.CategoryEndurance})
	assert.ErrorIs(t, err, ErrPlanAccessDenied)
}

// --- catalog ---

func TestCatalogUpdateInvalidatesCache(t *testing.T) {
	e := newEnv(t)
	in := TemplateInput{Name: "Sweet spot 3x15", Category: domain.CategorySweetSpot, TargetTSS: 75, TargetDurationMinutes: 75}
	tmpl, err := e.catalog.CreateTemplate(ctx, e.coachID, in)
	require.NoError(t, err)

	got, err := e.catalog.GetTemplateByID(ctx, e.coachID, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sweet spot 3x15", got.Name)

	in.Name = "Sweet spot 2x20"
	_, err = e.catalog.UpdateTemplate(ctx, e.coachID, tmpl.ID, in)
	require.NoError(t, err)

	got, err = e.catalog.GetTemplateByID(ctx, e.coachID, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sweet spot 2x20", got.Name)

	_, err = e.catalog.GetTemplateByID(ctx, primitive.NewObjectID(), tmpl.ID)
	assert.ErrorIs(t, err, ErrTemplateAccessDenied)

	assert.ErrorIs(t, e.catalog.DeleteTemplate(ctx, primitive.NewObjectID(), tmpl.ID), ErrTemplateNotFound)
	require.NoError(t, e.catalog.DeleteTemplate(ctx, e.coachID, tmpl.ID))
	_, err = e.catalog.GetTemplateByID(ctx, e.coachID, tmpl.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestCatalogRejectsUnknownCategory(t *testing.T) {
	e := newEnv(t)
	_, err := e.catalog.CreateTemplate(ctx, e.coachID, TemplateInput{Name: "x", Category: "sprinting"})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

// --- availability ---

func TestAvailabilityDefaultsAndCalendar(t *testing.T) {
	e := newEnv(t)

	cfg, err := e.availability.GetAvailability(ctx, e.athleteID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPreferences(), cfg.Preferences)

	_, err = e.availability.UpdateAvailability(ctx, e.athleteID, []domain.DayAvailability{{DayOfWeek: 7, Status: domain.StatusBlocked}}, domain.DefaultPreferences())
	assert.ErrorIs(t, err, ErrInvalidAvailability)
	_, err = e.availability.UpdateAvailability(ctx, e.athleteID, []domain.DayAvailability{
		{DayOfWeek: 1, Status: domain.StatusBlocked},
		{DayOfWeek: 1, Status: domain.StatusAvailable},
	}, domain.DefaultPreferences())
	assert.ErrorIs(t, err, ErrInvalidAvailability)

	_, err = e.availability.UpdateAvailability(ctx, e.athleteID, []domain.DayAvailability{
		{DayOfWeek: int(time.Monday), Status: domain.StatusBlocked},
		{DayOfWeek: int(time.Saturday), Status: domain.StatusPreferred},
	}, domain.DefaultPreferences())
	require.NoError(t, err)
	require.NoError(t, e.availability.SetOverride(ctx, e.athleteID, domain.DateOverride{Date: day(7), Status: domain.StatusAvailable, Notes: "rest week"}))

	cal, err := e.availability.Calendar(ctx, e.athleteID, day(0), day(7))
	require.NoError(t, err)
	require.Len(t, cal, 8)
	assert.Equal(t, domain.StatusBlocked, cal[0].Status)
	assert.Equal(t, domain.StatusPreferred, cal[5].Status)
	assert.Equal(t, domain.StatusAvailable, cal[7].Status)
	assert.True(t, cal[7].IsOverride)

	require.NoError(t, e.availability.DeleteOverride(ctx, e.athleteID, day(7)))
	cal, err = e.availability.Calendar(ctx, e.athleteID, day(7), day(7))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBlocked, cal[0].Status)

	_, err = e.availability.Calendar(ctx, e.athleteID, day(7), day(0))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

// --- schedule ---

func TestActivatePlanAppliesMoves(t *testing.T) {
	e := newEnv(t)
	plan := e.newPlan(t)
	_, err := e.availability.UpdateAvailability(ctx, e.athleteID, []domain.DayAvailability{
		{DayOfWeek: int(time.Wednesday), Status: domain.StatusBlocked},
	}, domain.DefaultPreferences())
	require.NoError(t, err)
	w := e.addWorkout(t, plan.ID, PlannedWorkoutInput{Date: day(2), Category: domain.CategoryEndurance, TargetTSS: 50, TargetDurationMinutes: 60})

	preview, err := e.schedule.PreviewRedistribution(ctx, e.coachID, plan.ID)
	require.NoError(t, err)
	assert.True(t, preview.CanActivate)
	stored, _ := e.planned.GetByID(ctx, w.ID)
	assert.Equal(t, day(2), stored.Date, "preview must not write")

	res, err := e.schedule.ActivatePlan(ctx, e.coachID, plan.ID)
	require.NoError(t, err)
	assert.True(t, res.CanActivate)

	stored, _ = e.planned.GetByID(ctx, w.ID)
	assert.NotEqual(t, time.Wednesday, stored.Date.Weekday())
	assert.Equal(t, 1, plan.WeekOf(stored.Date))
	assert.Equal(t, int(stored.Date.Weekday()), stored.DayOfWeek)

	active, err := e.plans.GetActiveForAthlete(ctx, e.athleteID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, active.ID)
}

func TestActivatePlanLeavesRestDayInPlace(t *testing.T) {
	e := newEnv(t)
	plan := e.newPlan(t)
	_, err := e.availability.UpdateAvailability(ctx, e.athleteID, []domain.DayAvailability{
		{DayOfWeek: int(time.Wednesday), Status: domain.StatusBlocked},
	}, domain.DefaultPreferences())
	require.NoError(t, err)
	w := e.addWorkout(t, plan.ID, PlannedWorkoutInput{Date: day(2), Category: domain.CategoryTempo, TargetTSS: 60, TargetDurationMinutes: 60})
	rest := e.addWorkout(t, plan.ID, PlannedWorkoutInput{Date: day(3), Category: domain.CategoryRest})

	res, err := e.schedule.ActivatePlan(ctx, e.coachID, plan.ID)
	require.NoError(t, err)
	require.Len(t, res.Moves, 1)
	assert.Equal(t, w.ID, res.Moves[0].PlannedWorkoutID)

	stored, _ := e.planned.GetByID(ctx, w.ID)
	assert.Equal(t, day(3), stored.Date)
	stored, _ = e.planned.GetByID(ctx, rest.ID)
	assert.Equal(t, day(3), stored.Date)
}

func TestCountMoves(t *testing.T) {
	moves := []planner.Move{
		{OriginalDate: day(2), NewDate: day(3), Score: 58},
		{OriginalDate: day(4), NewDate: day(4), Reason: planner.NoAlternativeDayMessage},
		{OriginalDate: day(3), NewDate: day(2)},
	}
	moved, unresolved := countMoves(moves)
	assert.Equal(t, 1, moved)
	assert.Equal(t, 1, unresolved)
}

func TestActivatePlanFailsWhenWorkoutIsStuck(t *testing.T) {
	e := newEnv(t)
	plan := e.newPlan(t)
	var week []domain.DayAvailability
	for d := 0; d < 7; d++ {
		week = append(week, domain.DayAvailability{DayOfWeek: d, Status: domain.StatusBlocked})
	}
	_, err := e.availability.UpdateAvailability(ctx, e.athleteID, week, domain.DefaultPreferences())
	require.NoError(t, err)
	w := e.addWorkout(t, plan.ID, PlannedWorkoutInput{Date: day(2), Category: domain.CategoryThreshold, TargetTSS: 80, TargetDurationMinutes: 60})

	res, err := e.schedule.ActivatePlan(ctx, e.coachID, plan.ID)
	assert.ErrorIs(t, err, ErrCannotActivate)
	require.NotNil(t, res)
	assert.False(t, res.CanActivate)
	require.Len(t, res.Moves, 1)
	assert.Equal(t, planner.NoAlternativeDayMessage, res.Moves[0].Reason)

	stored, _ := e.planned.GetByID(ctx, w.ID)
	assert.Equal(t, day(2), stored.Date)
	_, err = e.plans.GetActiveForAthlete(ctx, e.athleteID)
	assert.Error(t, err)
}

func TestSuggestSupplementsSkipsBlockedDays(t *testing.T) {
	e := newEnv(t)
	_, err := e.availability.UpdateAvailability(ctx, e.athleteID, []domain.DayAvailability{
		{DayOfWeek: int(time.Wednesday), Status: domain.StatusBlocked},
	}, domain.DefaultPreferences())
	require.NoError(t, err)

	got, err := e.schedule.SuggestSupplements(ctx, e.athleteID, domain.SupplementCore, planStart, 1)
	require.NoError(t, err)
	assert.Len(t, got, 6)
	for _, s := range got {
		assert.NotEqual(t, time.Wednesday, s.Date.Weekday())
	}

	_, err = e.schedule.SuggestSupplements(ctx, e.athleteID, "pilates", planStart, 1)
	assert.ErrorIs(t, err, ErrInvalidSupplementClass)
	_, err = e.schedule.SuggestSupplements(ctx, e.athleteID, domain.SupplementCore, planStart, 13)
	assert.ErrorIs(t, err, ErrInvalidLookAheadWindow)
}

func TestDateChangesKeepsLastDate(t *testing.T) {
	id := primitive.NewObjectID()
	before := []domain.PlannedWorkout{{ID: id, Date: day(1)}, {ID: primitive.NewObjectID(), Date: day(2)}}
	after := []domain.PlannedWorkout{{ID: id, Date: day(3)}, before[1], {Date: day(1)}}

	changes := dateChanges(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, id, changes[0].PlannedWorkoutID)
	assert.Equal(t, day(3), changes[0].Date)
}

// --- activities ---

func TestRequestUploadURL(t *testing.T) {
	e := newEnv(t)

	_, err := e.activity.RequestUploadURL(ctx, e.athleteID, "ride.gpx")
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	resp, err := e.activity.RequestUploadURL(ctx, e.athleteID, "ride.FIT")
	require.NoError(t, err)
	assert.Contains(t, resp.ObjectKey, "activities/"+e.athleteID.Hex()+"/")
	assert.Contains(t, resp.UploadURL, resp.ObjectKey)
}

func TestConfirmUploadErrors(t *testing.T) {
	e := newEnv(t)

	_, err := e.activity.ConfirmUpload(ctx, e.athleteID, "activities/someone-else/x.fit", "x.fit", 10)
	assert.ErrorIs(t, err, ErrUploadNotOwned)

	key := "activities/" + e.athleteID.Hex() + "/missing.fit"
	_, err = e.activity.ConfirmUpload(ctx, e.athleteID, key, "missing.fit", 10)
	assert.ErrorIs(t, err, ErrUploadConfirmationFailed)

	key = "activities/" + e.athleteID.Hex() + "/garbage.fit"
	e.store.objects[key] = []byte("definitely not a FIT file")
	_, err = e.activity.ConfirmUpload(ctx, e.athleteID, key, "garbage.fit", 25)
	assert.ErrorIs(t, err, ErrActivityFileInvalid)
	assert.Empty(t, e.activities.byID)

	// The rejected upload stays on record, and a retry reuses it.
	require.Len(t, e.uploads.byID, 1)
	_, err = e.activity.ConfirmUpload(ctx, e.athleteID, key, "garbage.fit", 25)
	assert.ErrorIs(t, err, ErrActivityFileInvalid)
	assert.Len(t, e.uploads.byID, 1)
	for _, u := range e.uploads.byID {
		assert.Nil(t, u.ActivityID)
	}
}

func TestConfirmUploadIsIdempotent(t *testing.T) {
	e := newEnv(t)
	existing := &domain.Activity{AthleteID: e.athleteID, Source: domain.SourceFITUpload, Sport: domain.SportRide, Date: day(1), DurationMinutes: 60}
	id, err := e.activities.Create(ctx, existing)
	require.NoError(t, err)
	key := "activities/" + e.athleteID.Hex() + "/done.fit"
	_, err = e.uploads.Create(ctx, &domain.Upload{AthleteID: e.athleteID, ActivityID: &id, S3ObjectKey: key})
	require.NoError(t, err)

	got, err := e.activity.ConfirmUpload(ctx, e.athleteID, key, "done.fit", 100)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Len(t, e.activities.byID, 1)
}

func TestCreateManualActivityDerivesTSS(t *testing.T) {
	e := newEnv(t)

	a, err := e.activity.CreateManualActivity(ctx, e.athleteID, ManualActivityInput{
		Sport: domain.SportRide, Date: day(1), DurationMinutes: 90, IntensityFactor: f64(0.8),
	})
	require.NoError(t, err)
	require.NotNil(t, a.TSS)
	assert.InDelta(t, 96.0, *a.TSS, 0.001)
	assert.Equal(t, domain.SourceManual, a.Source)

	_, err = e.activity.CreateManualActivity(ctx, e.athleteID, ManualActivityInput{Sport: "swim", Date: day(1), DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrInvalidActivity)
	_, err = e.activity.CreateManualActivity(ctx, e.athleteID, ManualActivityInput{Date: day(1)})
	assert.ErrorIs(t, err, ErrInvalidActivity)

	list, err := e.activity.GetActivities(ctx, e.athleteID, day(0), day(6))
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// --- reconciliation ---

func TestReconcilePlanWeek(t *testing.T) {
	e := newEnv(t)
	plan := e.newPlan(t)
	e.addWorkout(t, plan.ID, PlannedWorkoutInput{Date: day(1), Category: domain.CategoryEndurance, TargetTSS: 50, TargetDurationMinutes: 60})
	e.addWorkout(t, plan.ID, PlannedWorkoutInput{Date: day(3), Category: domain.CategoryThreshold, TargetTSS: 80, TargetDurationMinutes: 60})

	_, err := e.activities.Create(ctx, &domain.Activity{AthleteID: e.athleteID, Sport: domain.SportRide, Date: day(1), DurationMinutes: 40, TSS: f64(35)})
	require.NoError(t, err)
	_, err = e.activities.Create(ctx, &domain.Activity{AthleteID: e.athleteID, Sport: domain.SportRide, Date: day(5), DurationMinutes: 90, TSS: f64(60)})
	require.NoError(t, err)

	sum, err := e.reconcile.ReconcilePlan(ctx, e.athleteID, plan.ID, day(0), day(6))
	require.NoError(t, err)
	require.Len(t, sum.Records, 3)
	assert.NotEmpty(t, sum.PassID)
	assert.NotEmpty(t, sum.Form)

	truncated, skipped, unplanned := sum.Records[0], sum.Records[1], sum.Records[2]
	assert.Equal(t, domain.AdaptationTimeTruncated, truncated.AdaptationType)
	assert.Equal(t, day(1), truncated.Date)
	assert.InDelta(t, -33.3, truncated.DurationDeltaPct, 0.05)

	assert.Equal(t, domain.AdaptationSkipped, skipped.AdaptationType)
	assert.Equal(t, domain.AssessmentConcerning, skipped.Assessment)

	assert.Equal(t, domain.AdaptationUnplanned, unplanned.AdaptationType)
	assert.Equal(t, domain.CategoryEndurance, unplanned.ActualCategory)

	// A second pass supersedes the first rather than adding to it.
	again, err := e.reconcile.ReconcilePlan(ctx, e.athleteID, plan.ID, day(0), day(6))
	require.NoError(t, err)
	stored, err := e.reconcile.GetAdaptations(ctx, e.athleteID, plan.ID, day(0), day(6))
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for _, r := range stored {
		assert.Equal(t, again.PassID, r.PassID)
	}
}

func TestReconcileWindowIsClampedToPlan(t *testing.T) {
	e := newEnv(t)
	plan := e.newPlan(t)

	sum, err := e.reconcile.ReconcilePlan(ctx, e.athleteID, plan.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, planStart, sum.From)
	assert.Equal(t, day(13), sum.To)

	sum, err = e.reconcile.ReconcilePlan(ctx, e.athleteID, plan.ID, day(-30), day(60))
	require.NoError(t, err)
	assert.Equal(t, planStart, sum.From)
	assert.Equal(t, day(13), sum.To)

	_, err = e.reconcile.ReconcilePlan(ctx, e.athleteID, plan.ID, day(20), day(30))
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = e.reconcile.ReconcilePlan(ctx, primitive.NewObjectID(), plan.ID, day(0), day(6))
	assert.ErrorIs(t, err, ErrPlanAccessDenied)
}
