// Package adaptation compares what an athlete actually did with what was planned and
// diagnoses the deviation. Like the planner, it performs no I/O.
package adaptation

import (
	"math"

	"alcyxob/training-planner/internal/domain"
)

// Session is one side of a planned/actual comparison.
type Session struct {
	Category        domain.WorkoutCategory
	DurationMinutes int
	TSS             float64
	// HasTSS is false when no stress score is known for the session.
	HasTSS bool
}

// PlannedSession extracts the planned side of a comparison.
func PlannedSession(w domain.PlannedWorkout) Session {
	return Session{
		Category:        w.EffectiveCategory(),
		DurationMinutes: w.TargetDurationMinutes,
		TSS:             w.TargetTSS,
		HasTSS:          w.TargetTSS > 0,
	}
}

// ActualSession extracts the performed side of a comparison. The category is inferred
// from intensity metrics, falling back to fallback when none are recorded.
func ActualSession(a domain.Activity, th domain.Thresholds, fallback domain.WorkoutCategory) Session {
	tss, ok := a.EffectiveTSS(th.FTPWatts)
	return Session{
		Category:        InferCategory(a, th, fallback),
		DurationMinutes: a.DurationMinutes,
		TSS:             tss,
		HasTSS:          ok,
	}
}

// Classification is the outcome of the decision procedure for one pair.
type Classification struct {
	Type             domain.AdaptationType
	DurationDeltaPct float64
	// TSSDeltaPct is nil when either side lacks TSS.
	TSSDeltaPct *float64
	RankDelta   int
}

// Classify labels a planned/actual pair. A nil actual means nothing was recorded.
func Classify(planned Session, actual *Session) Classification {
	if actual == nil {
		c := Classification{
			Type:             domain.AdaptationSkipped,
			DurationDeltaPct: -100,
			RankDelta:        -planned.Category.Rank(),
		}
		if planned.HasTSS {
			c.TSSDeltaPct = floatPtr(-100)
		}
		return c
	}

	c := Classification{
		DurationDeltaPct: deltaPct(float64(planned.DurationMinutes), float64(actual.DurationMinutes)),
		RankDelta:        actual.Category.Rank() - planned.Category.Rank(),
	}
	if planned.HasTSS && actual.HasTSS && planned.TSS > 0 {
		c.TSSDeltaPct = floatPtr(deltaPct(planned.TSS, actual.TSS))
	}

	similar := planned.Category.SameOrSimilar(actual.Category)
	dur := c.DurationDeltaPct
	rankClose := absInt(c.RankDelta) <= 1

	// Unknown TSS never disqualifies a rule and never triggers one on its own.
	tssWithin := func(limit float64) bool { return c.TSSDeltaPct == nil || math.Abs(*c.TSSDeltaPct) <= limit }
	tssAbove := func(limit float64) bool { return c.TSSDeltaPct != nil && *c.TSSDeltaPct > limit }
	tssBelow := func(limit float64) bool { return c.TSSDeltaPct != nil && *c.TSSDeltaPct < limit }

	switch {
	case math.Abs(dur) <= 10 && tssWithin(15) && similar:
		c.Type = domain.AdaptationCompletedAsPlanned
	case dur < -15 && similar && rankClose:
		c.Type = domain.AdaptationTimeTruncated
	case dur > 15 && similar && rankClose:
		c.Type = domain.AdaptationTimeExtended
	case !similar && tssWithin(15):
		c.Type = domain.AdaptationIntensitySwap
	case c.RankDelta > 0 || tssAbove(25):
		c.Type = domain.AdaptationUpgraded
	case c.RankDelta < 0 || tssBelow(-25):
		c.Type = domain.AdaptationDowngraded
	default:
		c.Type = domain.AdaptationIntensitySwap
	}
	return c
}

// InferCategory estimates the training category of an activity from its intensity.
// Runs use pace relative to threshold pace, everything else uses Intensity Factor, and
// both fall back to TSS per hour.
func InferCategory(a domain.Activity, th domain.Thresholds, fallback domain.WorkoutCategory) domain.WorkoutCategory {
	if a.Sport == domain.SportRun && a.AveragePace != nil && *a.AveragePace > 0 && th.ThresholdPaceSecPerKm > 0 {
		return paceBand(th.ThresholdPaceSecPerKm / *a.AveragePace)
	}
	if intensity, ok := a.Intensity(th.FTPWatts); ok {
		return intensityBand(intensity)
	}
	if a.TSS != nil && a.DurationMinutes > 0 {
		return tssPerHourBand(*a.TSS / (float64(a.DurationMinutes) / 60.0))
	}
	return fallback
}

type band struct {
	below    float64
	category domain.WorkoutCategory
}

var intensityBands = []band{
	{0.55, domain.CategoryRecovery},
	{0.75, domain.CategoryEndurance},
	{0.85, domain.CategoryTempo},
	{0.95, domain.CategorySweetSpot},
	{1.05, domain.CategoryThreshold},
	{1.20, domain.CategoryVO2Max},
}

// paceBands are keyed by threshold pace / actual pace, so faster running scores higher.
var paceBands = []band{
	{0.78, domain.CategoryRecovery},
	{0.88, domain.CategoryEndurance},
	{0.94, domain.CategoryTempo},
	{1.01, domain.CategoryThreshold},
	{1.10, domain.CategoryVO2Max},
}

var tssPerHourBands = []band{
	{40, domain.CategoryRecovery},
	{65, domain.CategoryEndurance},
	{80, domain.CategoryTempo},
	{90, domain.CategorySweetSpot},
	{100, domain.CategoryThreshold},
	{120, domain.CategoryVO2Max},
}

func lookup(bands []band, v float64) domain.WorkoutCategory {
	for _, b := range bands {
		if v < b.below {
			return b.category
		}
	}
	return domain.CategoryAnaerobic
}

func intensityBand(v float64) domain.WorkoutCategory  { return lookup(intensityBands, v) }
func paceBand(v float64) domain.WorkoutCategory       { return lookup(paceBands, v) }
func tssPerHourBand(v float64) domain.WorkoutCategory { return lookup(tssPerHourBands, v) }

// deltaPct is the change from planned to actual in percent. An unknown (zero) plan
// yields zero so the comparison is effectively skipped.
func deltaPct(planned, actual float64) float64 {
	if planned <= 0 {
		return 0
	}
	return (actual - planned) / planned * 100
}

func floatPtr(v float64) *float64 { return &v }

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
