package adaptation

import (
	"time"

	"alcyxob/training-planner/internal/domain"
)

// Fitness is the training-load picture on one day.
type Fitness struct {
	Date time.Time `json:"date"`
	CTL  float64   `json:"ctl"` // chronic load, 42-day EMA
	ATL  float64   `json:"atl"` // acute load, 7-day EMA
	TSB  float64   `json:"tsb"` // form, CTL - ATL
}

const (
	ctlDecay = 2.0 / (42.0 + 1.0)
	atlDecay = 2.0 / (7.0 + 1.0)
)

// FitnessTrend computes daily CTL/ATL/TSB from the activities' stress scores, from the
// first activity through `through`. Days without activities count as zero load and
// activities without a derivable TSS are ignored.
func FitnessTrend(activities []domain.Activity, ftp float64, through time.Time) []Fitness {
	loads := make(map[string]float64)
	var start time.Time
	for _, a := range activities {
		tss, ok := a.EffectiveTSS(ftp)
		if !ok {
			continue
		}
		d := domain.DateOnly(a.Date)
		if start.IsZero() || d.Before(start) {
			start = d
		}
		loads[domain.DateKey(d)] += tss
	}
	end := domain.DateOnly(through)
	if start.IsZero() || end.Before(start) {
		return nil
	}

	var out []Fitness
	var ctl, atl float64
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		load := loads[domain.DateKey(d)]
		ctl += ctlDecay * (load - ctl)
		atl += atlDecay * (load - atl)
		out = append(out, Fitness{Date: d, CTL: ctl, ATL: atl, TSB: ctl - atl})
	}
	return out
}

// CurrentFitness returns the fitness on asOf, or the zero value with no history.
func CurrentFitness(activities []domain.Activity, ftp float64, asOf time.Time) Fitness {
	trend := FitnessTrend(activities, ftp, asOf)
	if len(trend) == 0 {
		return Fitness{Date: domain.DateOnly(asOf)}
	}
	return trend[len(trend)-1]
}

// FormDescription describes a TSB value in words.
func FormDescription(tsb float64) string {
	switch {
	case tsb > 25:
		return "Very fresh (possibly detrained)"
	case tsb > 10:
		return "Fresh and ready to race"
	case tsb > 0:
		return "Neutral - good for training"
	case tsb > -10:
		return "Slightly fatigued"
	case tsb > -25:
		return "Tired but building fitness"
	default:
		return "Very fatigued - rest needed"
	}
}
