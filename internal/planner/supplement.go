package planner

import (
	"fmt"
	"sort"
	"time"

	"alcyxob/training-planner/internal/domain"
)

// SupplementRule is the placement policy of one supplement class.
type SupplementRule struct {
	AllowedDayTypes []domain.DayType
	// AvoidBefore lists day types the session must not be placed the day before.
	AvoidBefore []domain.DayType
	// MinHoursBeforeHard is the minimum separation from the next hard primary session.
	MinHoursBeforeHard int
	MaxPerWeek         int
	// MinSpacingDays is the minimum distance in days between sessions of the same class.
	MinSpacingDays    int
	PreferredDayTypes []domain.DayType
}

// SupplementRules is the static rule table, keyed by class.
var SupplementRules = map[domain.SupplementClass]SupplementRule{
	domain.SupplementHeavyConditioning: {
		AllowedDayTypes:    []domain.DayType{domain.DayTypeRest, domain.DayTypeEasy},
		AvoidBefore:        []domain.DayType{domain.DayTypeHard},
		MinHoursBeforeHard: 48,
		MaxPerWeek:         2,
		MinSpacingDays:     2,
		PreferredDayTypes:  []domain.DayType{domain.DayTypeRest},
	},
	domain.SupplementLightConditioning: {
		AllowedDayTypes:    []domain.DayType{domain.DayTypeRest, domain.DayTypeEasy, domain.DayTypeModerate},
		AvoidBefore:        []domain.DayType{domain.DayTypeHard},
		MinHoursBeforeHard: 24,
		MaxPerWeek:         3,
		MinSpacingDays:     1,
		PreferredDayTypes:  []domain.DayType{domain.DayTypeEasy},
	},
	domain.SupplementCore: {
		AllowedDayTypes:   []domain.DayType{domain.DayTypeRest, domain.DayTypeEasy, domain.DayTypeModerate, domain.DayTypeHard},
		MaxPerWeek:        4,
		MinSpacingDays:    1,
		PreferredDayTypes: []domain.DayType{domain.DayTypeEasy, domain.DayTypeModerate},
	},
	domain.SupplementFlexibility: {
		AllowedDayTypes:   []domain.DayType{domain.DayTypeRest, domain.DayTypeEasy, domain.DayTypeModerate, domain.DayTypeHard},
		MaxPerWeek:        7,
		MinSpacingDays:    1,
		PreferredDayTypes: []domain.DayType{domain.DayTypeRest, domain.DayTypeHard},
	},
}

// SupplementRequest asks for placements of one supplement session.
type SupplementRequest struct {
	Class          domain.SupplementClass
	From           time.Time
	LookAheadWeeks int
	// Schedule holds the primary and supplement sessions already planned in the window.
	Schedule     []domain.PlannedWorkout
	Availability Availability
}

// SupplementSuggestion is a scored placement for a supplement session.
type SupplementSuggestion struct {
	Date    time.Time      `json:"date"`
	Score   int            `json:"score"`
	DayType domain.DayType `json:"dayType"`
	Reasons []string       `json:"reasons,omitempty"`
}

// SuggestSupplements scans the look-ahead window and returns every date scoring above
// SupplementMinScore, best first; equal scores are ordered by date.
func (p *Planner) SuggestSupplements(req SupplementRequest) []SupplementSuggestion {
	rule, ok := SupplementRules[req.Class]
	if !ok {
		return nil
	}
	weeks := req.LookAheadWeeks
	if weeks <= 0 {
		weeks = DefaultLookAheadWeeks
	}
	from := domain.DateOnly(req.From)
	days := weeks * 7

	sched := newDaySchedule(req.Schedule)
	var out []SupplementSuggestion
	for i := 0; i < days; i++ {
		d := domain.AddDays(from, i)
		if req.Availability.Blocked(d) {
			continue
		}
		if sched.sameClassInWeek(req.Class, domain.AddDays(from, (i/7)*7)) >= rule.MaxPerWeek {
			continue
		}
		if sched.sameClassWithin(req.Class, d, rule.MinSpacingDays) {
			continue
		}
		dayType := sched.dayType(d)
		if !containsDayType(rule.AllowedDayTypes, dayType) {
			continue
		}

		s := SupplementSuggestion{Date: d, Score: SupplementBase, DayType: dayType}
		note := func(delta int, reason string) {
			s.Score += delta
			s.Reasons = append(s.Reasons, reason)
		}
		if containsDayType(rule.PreferredDayTypes, dayType) {
			note(SupplementPreferredDayBonus, fmt.Sprintf("preferred %s day", dayType))
		}
		if dayType == domain.DayTypeRest {
			note(SupplementRestDayBonus, "rest day")
		}
		if containsDayType(rule.AvoidBefore, sched.dayType(domain.AddDays(d, 1))) {
			note(-SupplementAvoidBeforePenalty, "day before a hard session")
		}
		if rule.MinHoursBeforeHard > 0 {
			if hours, ok := sched.hoursUntilHard(d, rule.MinHoursBeforeHard); ok && hours < rule.MinHoursBeforeHard {
				note(-SupplementRecoveryHoursPenalty, fmt.Sprintf("only %dh before a hard session", hours))
			}
		}
		if req.Class == domain.SupplementHeavyConditioning && sched.hardPrimaryOn(domain.AddDays(d, 2)) {
			note(-SupplementHeavyRecoveryPenalty, "hard bike day two days later")
		}
		if s.Score > SupplementMinScore {
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// daySchedule indexes sessions by date key.
type daySchedule map[string][]domain.PlannedWorkout

func newDaySchedule(ws []domain.PlannedWorkout) daySchedule {
	s := make(daySchedule)
	for _, w := range ws {
		if w.IsEmpty() {
			continue
		}
		k := domain.DateKey(w.Date)
		s[k] = append(s[k], w)
	}
	return s
}

// dayType is the type of the hardest primary session on d.
func (s daySchedule) dayType(d time.Time) domain.DayType {
	best := domain.DayTypeRest
	for _, w := range s[domain.DateKey(d)] {
		if w.IsSupplement() {
			continue
		}
		if t := w.EffectiveCategory().DayType(); dayTypeOrder(t) > dayTypeOrder(best) {
			best = t
		}
	}
	return best
}

func (s daySchedule) hardPrimaryOn(d time.Time) bool {
	for _, w := range s[domain.DateKey(d)] {
		if w.IsHardPrimary() {
			return true
		}
	}
	return false
}

// hoursUntilHard returns the separation to the next hard primary session within
// horizon hours of d, counting whole days.
func (s daySchedule) hoursUntilHard(d time.Time, horizon int) (int, bool) {
	for n := 1; n*24 <= horizon; n++ {
		if s.hardPrimaryOn(domain.AddDays(d, n)) {
			return n * 24, true
		}
	}
	return 0, false
}

func (s daySchedule) sameClassWithin(class domain.SupplementClass, d time.Time, spacing int) bool {
	for n := -(spacing - 1); n <= spacing-1; n++ {
		for _, w := range s[domain.DateKey(domain.AddDays(d, n))] {
			if w.SupplementClass == class {
				return true
			}
		}
	}
	return false
}

func (s daySchedule) sameClassInWeek(class domain.SupplementClass, weekStart time.Time) int {
	count := 0
	for i := 0; i < 7; i++ {
		for _, w := range s[domain.DateKey(domain.AddDays(weekStart, i))] {
			if w.SupplementClass == class {
				count++
			}
		}
	}
	return count
}

func dayTypeOrder(t domain.DayType) int {
	switch t {
	case domain.DayTypeEasy:
		return 1
	case domain.DayTypeModerate:
		return 2
	case domain.DayTypeHard:
		return 3
	}
	return 0
}

func containsDayType(list []domain.DayType, t domain.DayType) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}
