package adaptation

import (
	"sort"
	"time"

	"alcyxob/training-planner/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Input is a snapshot of one plan window to reconcile.
type Input struct {
	PlanID     primitive.ObjectID
	AthleteID  primitive.ObjectID
	PassID     string
	Planned    []domain.PlannedWorkout
	Activities []domain.Activity
	Thresholds domain.Thresholds
	// TSB is the athlete's current form.
	TSB float64
	// PhaseFor returns the training phase a date falls in. Optional.
	PhaseFor  func(time.Time) domain.TrainingPhase
	CreatedAt time.Time
}

// Reconcile matches activities to workouts and diagnoses every resulting pairing.
// Records are returned in date order.
func Reconcile(in Input) []domain.AdaptationRecord {
	matched := MatchActivities(in.Planned, in.Activities, in.Thresholds.FTPWatts)

	records := make([]domain.AdaptationRecord, 0, len(matched.Matches)+len(matched.Skipped)+len(matched.Unplanned))
	for _, m := range matched.Matches {
		records = append(records, in.diagnose(&m.Planned, &m.Activity))
	}
	for _, w := range matched.Skipped {
		records = append(records, in.diagnose(&w, nil))
	}
	for _, a := range matched.Unplanned {
		records = append(records, in.diagnose(nil, &a))
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return records
}

// diagnose builds the record for one pairing; at most one side may be nil.
func (in Input) diagnose(w *domain.PlannedWorkout, a *domain.Activity) domain.AdaptationRecord {
	rec := domain.AdaptationRecord{
		PassID:    in.PassID,
		PlanID:    in.PlanID,
		AthleteID: in.AthleteID,
		CreatedAt: in.CreatedAt,
	}

	var actual *Session
	if a != nil {
		id := a.ID
		rec.ActivityID = &id
		rec.Date = domain.DateOnly(a.Date)
	}

	if w == nil {
		s := ActualSession(*a, in.Thresholds, defaultCategory(a.Sport))
		rec.AdaptationType = domain.AdaptationUnplanned
		rec.ActualCategory = s.Category
		rec.ActualDuration = s.DurationMinutes
		rec.ActualTSS = s.TSS
		rec.RankDelta = s.Category.Rank()
		rec.StimulusAnalysis = domain.StimulusAnalysis{
			Gained:        amount(s),
			NetAssessment: domain.AssessmentAcceptable,
		}
		if s.Category.IsHard() {
			rec.StimulusAnalysis.NetAssessment = domain.AssessmentMinorConcern
		}
		rec.Assessment, rec.Explanation = Assess(rec, in.context(rec.Date))
		return rec
	}

	id := w.ID
	rec.PlannedWorkoutID = &id
	rec.Date = domain.DateOnly(w.Date)

	planned := PlannedSession(*w)
	if a != nil {
		s := ActualSession(*a, in.Thresholds, planned.Category)
		actual = &s
	}
	c := Classify(planned, actual)

	rec.AdaptationType = c.Type
	rec.PlannedCategory = planned.Category
	rec.PlannedDuration = planned.DurationMinutes
	rec.PlannedTSS = planned.TSS
	rec.DurationDeltaPct = round1(c.DurationDeltaPct)
	rec.RankDelta = c.RankDelta
	if c.TSSDeltaPct != nil {
		v := round1(*c.TSSDeltaPct)
		rec.TSSDeltaPct = &v
	}
	if actual != nil {
		rec.ActualCategory = actual.Category
		rec.ActualDuration = actual.DurationMinutes
		rec.ActualTSS = actual.TSS
		rec.DurationDelta = actual.DurationMinutes - planned.DurationMinutes
		if planned.HasTSS && actual.HasTSS {
			rec.TSSDelta = round1(actual.TSS - planned.TSS)
		}
	} else {
		rec.DurationDelta = -planned.DurationMinutes
		rec.TSSDelta = -planned.TSS
	}
	rec.StimulusAchievedPct = StimulusAchieved(planned, actual)
	rec.StimulusAnalysis = AnalyzeStimulus(planned, actual, c)
	rec.Assessment, rec.Explanation = Assess(rec, in.context(rec.Date))
	return rec
}

func (in Input) context(d time.Time) Context {
	ctx := Context{TSB: in.TSB}
	if in.PhaseFor != nil {
		ctx.Phase = in.PhaseFor(d)
	}
	return ctx
}

// defaultCategory is assumed for unplanned activities with no intensity metrics.
func defaultCategory(s domain.Sport) domain.WorkoutCategory {
	if s == domain.SportRide || s == domain.SportRun {
		return domain.CategoryEndurance
	}
	return ""
}
