// Package planner relocates planned workouts away from unavailable days and
// suggests placements for supplementary sessions. Everything here is a pure
// function over in-memory snapshots.
package planner

import (
	"time"

	"alcyxob/training-planner/internal/domain"
)

// Resolve returns the effective availability of date. A date override always wins;
// otherwise the weekday rule applies, and a weekday without a rule is available.
func Resolve(date time.Time, weekly []domain.DayAvailability, overrides map[string]domain.DateOverride) domain.ResolvedAvailability {
	date = domain.DateOnly(date)
	if o, ok := overrides[domain.DateKey(date)]; ok {
		return domain.ResolvedAvailability{
			Date:               date,
			Status:             o.Status,
			MaxDurationMinutes: o.MaxDurationMinutes,
			Notes:              o.Notes,
			IsOverride:         true,
		}
	}
	wd := int(date.Weekday())
	for _, d := range weekly {
		if d.DayOfWeek == wd {
			return domain.ResolvedAvailability{
				Date:               date,
				Status:             d.Status,
				MaxDurationMinutes: d.MaxDurationMinutes,
				Notes:              d.Notes,
			}
		}
	}
	return domain.ResolvedAvailability{Date: date, Status: domain.StatusAvailable}
}

// Availability is a prepared snapshot of an athlete's weekly pattern and overrides.
type Availability struct {
	weekly    []domain.DayAvailability
	overrides map[string]domain.DateOverride
}

// NewAvailability builds a snapshot. The inputs are copied.
func NewAvailability(weekly []domain.DayAvailability, overrides []domain.DateOverride) Availability {
	w := make([]domain.DayAvailability, len(weekly))
	copy(w, weekly)
	return Availability{weekly: w, overrides: domain.OverridesByDate(overrides)}
}

// AvailabilityFromConfig builds a snapshot from the stored per-athlete document.
func AvailabilityFromConfig(cfg *domain.AvailabilityConfig) Availability {
	if cfg == nil {
		return Availability{}
	}
	return NewAvailability(cfg.WeeklyAvailability, cfg.DateOverrides)
}

// Resolve returns the effective availability of date.
func (a Availability) Resolve(date time.Time) domain.ResolvedAvailability {
	return Resolve(date, a.weekly, a.overrides)
}

// Blocked reports whether date resolves to blocked.
func (a Availability) Blocked(date time.Time) bool {
	return a.Resolve(date).Status == domain.StatusBlocked
}

// ResolveRange resolves every date from `from` to `to`, inclusive.
func (a Availability) ResolveRange(from, to time.Time) []domain.ResolvedAvailability {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if to.Before(from) {
		return nil
	}
	out := make([]domain.ResolvedAvailability, 0, domain.DaysBetween(from, to)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, a.Resolve(d))
	}
	return out
}
