package adaptation

import (
	"fmt"
	"math"

	"alcyxob/training-planner/internal/domain"
)

// OvertrainingTSB is the form value below which harder-than-planned work is flagged.
const OvertrainingTSB = -20.0

// Context is the athlete state an assessment is made in.
type Context struct {
	Phase domain.TrainingPhase
	TSB   float64
}

// Assess rates an adaptation record and explains the rating in one sentence. It reads
// only the record and the context, so unchanged inputs always produce the same output.
func Assess(rec domain.AdaptationRecord, ctx Context) (domain.Assessment, string) {
	planned, actual := label(rec.PlannedCategory), label(rec.ActualCategory)
	net := rec.StimulusAnalysis.NetAssessment

	switch rec.AdaptationType {
	case domain.AdaptationCompletedAsPlanned:
		return domain.AssessmentAcceptable, fmt.Sprintf("Completed the %s session as planned.", planned)

	case domain.AdaptationTimeTruncated:
		pct, what := loadChange(rec)
		return notBeneficial(net), fmt.Sprintf("Cut the %s session short with a ~%d%% shortfall in %s.", planned, pct, what)

	case domain.AdaptationTimeExtended:
		pct, what := loadChange(rec)
		if ctx.Phase == domain.PhaseTaper || ctx.Phase == domain.PhaseRecovery {
			return domain.AssessmentMinorConcern, fmt.Sprintf("Extended the %s session by ~%d%% in %s during a %s phase, which should stay light.", planned, pct, what, ctx.Phase)
		}
		return domain.AssessmentAcceptable, fmt.Sprintf("Extended the %s session by ~%d%% in %s.", planned, pct, what)

	case domain.AdaptationIntensitySwap:
		return notBeneficial(net), fmt.Sprintf("Swapped the planned %s session for %s at a comparable load.", planned, actual)

	case domain.AdaptationUpgraded:
		if ctx.TSB < OvertrainingTSB {
			return domain.AssessmentConcerning, fmt.Sprintf("Went harder than planned (%s instead of %s) while already fatigued at TSB %.0f: risk of overtraining.", actual, planned, ctx.TSB)
		}
		return domain.AssessmentAcceptable, fmt.Sprintf("Went harder than planned (%s instead of %s).", actual, planned)

	case domain.AdaptationDowngraded:
		return domain.AssessmentMinorConcern, fmt.Sprintf("Went easier than planned (%s instead of %s).", actual, planned)

	case domain.AdaptationSkipped:
		switch {
		case rec.PlannedCategory.IsHard():
			return domain.AssessmentConcerning, fmt.Sprintf("Skipped the key %s session.", planned)
		case rec.PlannedCategory.Rank() <= domain.CategoryRecovery.Rank():
			return domain.AssessmentAcceptable, fmt.Sprintf("Skipped the %s session; little stimulus was lost.", planned)
		default:
			return domain.AssessmentMinorConcern, fmt.Sprintf("Skipped the %s session.", planned)
		}

	case domain.AdaptationUnplanned:
		if rec.ActualCategory.IsHard() {
			if ctx.TSB < OvertrainingTSB {
				return domain.AssessmentConcerning, fmt.Sprintf("Added an unplanned %s session while already fatigued at TSB %.0f: risk of overtraining.", actual, ctx.TSB)
			}
			return domain.AssessmentMinorConcern, fmt.Sprintf("Added an unplanned %s session.", actual)
		}
		return domain.AssessmentAcceptable, fmt.Sprintf("Added an unplanned %s session.", actual)
	}
	return domain.AssessmentMinorConcern, "Unrecognized adaptation."
}

// loadChange returns the rounded magnitude of the load change and what it measures.
func loadChange(rec domain.AdaptationRecord) (int, string) {
	if rec.TSSDeltaPct != nil {
		return int(math.Round(math.Abs(*rec.TSSDeltaPct))), "training stress"
	}
	return int(math.Round(math.Abs(rec.DurationDeltaPct))), "duration"
}

func notBeneficial(a domain.Assessment) domain.Assessment {
	if a == domain.AssessmentBeneficial {
		return domain.AssessmentAcceptable
	}
	return a
}

func label(c domain.WorkoutCategory) string {
	if c == "" {
		return "uncategorized"
	}
	return string(c)
}
