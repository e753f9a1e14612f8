package adaptation

import (
	"math"

	"alcyxob/training-planner/internal/domain"
)

// AnalyzeStimulus quantifies what was lost and gained against plan. When the category
// held, only the difference counts. Any change of category, including to a similar
// one, makes the whole planned session missing and the whole actual session gained.
func AnalyzeStimulus(planned Session, actual *Session, c Classification) domain.StimulusAnalysis {
	var a domain.StimulusAnalysis
	switch {
	case actual == nil:
		a.Missing = amount(planned)
	case planned.Category == actual.Category:
		a.Missing.Category = planned.Category
		a.Gained.Category = planned.Category
		if d := planned.DurationMinutes - actual.DurationMinutes; d > 0 {
			a.Missing.DurationMinutes = d
		} else {
			a.Gained.DurationMinutes = -d
		}
		if planned.HasTSS && actual.HasTSS {
			if d := planned.TSS - actual.TSS; d > 0 {
				a.Missing.TSS = d
			} else {
				a.Gained.TSS = -d
			}
		}
	default:
		a.Missing = amount(planned)
		a.Gained = amount(*actual)
	}
	a.NetAssessment = NetAssessment(c)
	return a
}

// NetAssessment rates a classification by load change and intensity shift. Duration
// change stands in for load when TSS is unknown.
func NetAssessment(c Classification) domain.Assessment {
	load := c.DurationDeltaPct
	if c.TSSDeltaPct != nil {
		load = *c.TSSDeltaPct
	}
	rank := absInt(c.RankDelta)
	switch {
	case load > 10 && c.RankDelta >= 0:
		return domain.AssessmentBeneficial
	case math.Abs(load) <= 20 && rank <= 1:
		return domain.AssessmentAcceptable
	case math.Abs(load) <= 40 || rank <= 2:
		return domain.AssessmentMinorConcern
	default:
		return domain.AssessmentConcerning
	}
}

// StimulusAchieved is the share of the planned stimulus delivered, 0-100. Stress score
// is used when both sides have it, duration otherwise. Dropping to an unrelated easier
// category halves the credit.
func StimulusAchieved(planned Session, actual *Session) float64 {
	if actual == nil {
		return 0
	}
	var ratio float64
	switch {
	case planned.HasTSS && actual.HasTSS && planned.TSS > 0:
		ratio = actual.TSS / planned.TSS
	case planned.DurationMinutes > 0:
		ratio = float64(actual.DurationMinutes) / float64(planned.DurationMinutes)
	default:
		ratio = 1
	}
	ratio = math.Min(ratio, 1)
	if actual.Category.Rank() < planned.Category.Rank() && !planned.Category.SameOrSimilar(actual.Category) {
		ratio /= 2
	}
	return round1(ratio * 100)
}

func amount(s Session) domain.StimulusAmount {
	out := domain.StimulusAmount{Category: s.Category, DurationMinutes: s.DurationMinutes}
	if s.HasTSS {
		out.TSS = s.TSS
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
