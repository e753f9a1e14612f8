package planner

// ScoringWeights are the policy constants of the candidate-day scorer. They were tuned
// by hand and are expected to change with product feedback; override them through config.
type ScoringWeights struct {
	Base              int `mapstructure:"base"`
	PreferredBonus    int `mapstructure:"preferred_bonus"`
	HardDoublePenalty int `mapstructure:"hard_double_penalty"`
	RestSwapBonus     int `mapstructure:"rest_swap_bonus"`
	OccupiedPenalty   int `mapstructure:"occupied_penalty"`
	EmptyBonus        int `mapstructure:"empty_bonus"`
	BackToBackPenalty int `mapstructure:"back_to_back_penalty"`
	// HeavyRecoveryPenalty applies to heavy conditioning when a hard bike day falls two days later.
	HeavyRecoveryPenalty int `mapstructure:"heavy_recovery_penalty"`
	WeekendLongBonus     int `mapstructure:"weekend_long_bonus"`
	OffsetPenaltyPerDay  int `mapstructure:"offset_penalty_per_day"`
	DurationLimitPenalty int `mapstructure:"duration_limit_penalty"`
}

// DefaultScoringWeights returns the shipped policy constants.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Base:                 50,
		PreferredBonus:       15,
		HardDoublePenalty:    50,
		RestSwapBonus:        10,
		OccupiedPenalty:      20,
		EmptyBonus:           10,
		BackToBackPenalty:    30,
		HeavyRecoveryPenalty: 20,
		WeekendLongBonus:     20,
		OffsetPenaltyPerDay:  2,
		DurationLimitPenalty: 40,
	}
}

// Merge returns w with every non-zero field of o applied on top.
func (w ScoringWeights) Merge(o ScoringWeights) ScoringWeights {
	pick := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	pick(&w.Base, o.Base)
	pick(&w.PreferredBonus, o.PreferredBonus)
	pick(&w.HardDoublePenalty, o.HardDoublePenalty)
	pick(&w.RestSwapBonus, o.RestSwapBonus)
	pick(&w.OccupiedPenalty, o.OccupiedPenalty)
	pick(&w.EmptyBonus, o.EmptyBonus)
	pick(&w.BackToBackPenalty, o.BackToBackPenalty)
	pick(&w.HeavyRecoveryPenalty, o.HeavyRecoveryPenalty)
	pick(&w.WeekendLongBonus, o.WeekendLongBonus)
	pick(&w.OffsetPenaltyPerDay, o.OffsetPenaltyPerDay)
	pick(&w.DurationLimitPenalty, o.DurationLimitPenalty)
	return w
}

// Supplement placement constants.
const (
	SupplementBase                 = 50
	SupplementPreferredDayBonus    = 20
	SupplementRestDayBonus         = 10
	SupplementAvoidBeforePenalty   = 30
	SupplementRecoveryHoursPenalty = 25
	SupplementHeavyRecoveryPenalty = 20
	// SupplementMinScore is exclusive: only candidates scoring above it are suggested.
	SupplementMinScore = 30
	// DefaultLookAheadWeeks is the supplement search window when none is requested.
	DefaultLookAheadWeeks = 4
)
