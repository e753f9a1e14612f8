package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AvailabilityStatus is the scheduling state of a calendar day.
type AvailabilityStatus string

const (
	StatusAvailable AvailabilityStatus = "available"
	StatusBlocked   AvailabilityStatus = "blocked"
	StatusPreferred AvailabilityStatus = "preferred"
)

func (s AvailabilityStatus) Valid() bool {
	return s == StatusAvailable || s == StatusBlocked || s == StatusPreferred
}

// DayAvailability is the recurring rule for one weekday (0 = Sunday ... 6 = Saturday).
type DayAvailability struct {
	DayOfWeek          int                `bson:"dayOfWeek" json:"dayOfWeek" yaml:"dayOfWeek"`
	Status             AvailabilityStatus `bson:"status" json:"status" yaml:"status"`
	MaxDurationMinutes *int               `bson:"maxDurationMinutes,omitempty" json:"maxDurationMinutes,omitempty" yaml:"maxDurationMinutes,omitempty"`
	Notes              string             `bson:"notes,omitempty" json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Validate rejects out-of-range records before they reach the scheduling core.
func (d DayAvailability) Validate() error {
	if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
		return fmt.Errorf("dayOfWeek %d out of range 0-6", d.DayOfWeek)
	}
	if !d.Status.Valid() {
		return fmt.Errorf("unknown availability status %q", d.Status)
	}
	if d.MaxDurationMinutes != nil && *d.MaxDurationMinutes < 0 {
		return fmt.Errorf("maxDurationMinutes must not be negative")
	}
	return nil
}

// DateOverride replaces the weekly rule for one specific calendar date.
type DateOverride struct {
	Date               time.Time          `bson:"date" json:"date" yaml:"date"`
	Status             AvailabilityStatus `bson:"status" json:"status" yaml:"status"`
	MaxDurationMinutes *int               `bson:"maxDurationMinutes,omitempty" json:"maxDurationMinutes,omitempty" yaml:"maxDurationMinutes,omitempty"`
	Notes              string             `bson:"notes,omitempty" json:"notes,omitempty" yaml:"notes,omitempty"`
}

func (o DateOverride) Validate() error {
	if o.Date.IsZero() {
		return fmt.Errorf("override date is required")
	}
	if !o.Status.Valid() {
		return fmt.Errorf("unknown availability status %q", o.Status)
	}
	if o.MaxDurationMinutes != nil && *o.MaxDurationMinutes < 0 {
		return fmt.Errorf("maxDurationMinutes must not be negative")
	}
	return nil
}

// ResolvedAvailability is the effective status of a single date.
type ResolvedAvailability struct {
	Date               time.Time          `json:"date"`
	Status             AvailabilityStatus `json:"status"`
	MaxDurationMinutes *int               `json:"maxDurationMinutes,omitempty"`
	Notes              string             `json:"notes,omitempty"`
	IsOverride         bool               `json:"isOverride"`
}

// TrainingPreferences are the athlete's weekly volume limits. Nil limits are unset.
type TrainingPreferences struct {
	MaxWorkoutsPerWeek     *int     `bson:"maxWorkoutsPerWeek,omitempty" json:"maxWorkoutsPerWeek,omitempty" yaml:"maxWorkoutsPerWeek,omitempty"`
	MaxHoursPerWeek        *float64 `bson:"maxHoursPerWeek,omitempty" json:"maxHoursPerWeek,omitempty" yaml:"maxHoursPerWeek,omitempty"`
	MaxHardDaysPerWeek     *int     `bson:"maxHardDaysPerWeek,omitempty" json:"maxHardDaysPerWeek,omitempty" yaml:"maxHardDaysPerWeek,omitempty"`
	MinRestDaysPerWeek     int      `bson:"minRestDaysPerWeek" json:"minRestDaysPerWeek" yaml:"minRestDaysPerWeek"`
	PreferWeekendLongRides bool     `bson:"preferWeekendLongRides" json:"preferWeekendLongRides" yaml:"preferWeekendLongRides"`
}

// DefaultPreferences are applied to athletes who never saved their own.
func DefaultPreferences() TrainingPreferences {
	return TrainingPreferences{
		MinRestDaysPerWeek:     1,
		PreferWeekendLongRides: true,
	}
}

// AvailabilityConfig is the per-athlete availability document.
type AvailabilityConfig struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AthleteID          primitive.ObjectID  `bson:"athleteId" json:"athleteId"`
	WeeklyAvailability []DayAvailability   `bson:"weeklyAvailability" json:"weeklyAvailability"`
	DateOverrides      []DateOverride      `bson:"dateOverrides" json:"dateOverrides"`
	Preferences        TrainingPreferences `bson:"preferences" json:"preferences"`
	UpdatedAt          time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// OverrideMap indexes the overrides by date key. Later entries win on duplicate dates.
func (c *AvailabilityConfig) OverrideMap() map[string]DateOverride {
	return OverridesByDate(c.DateOverrides)
}

// OverridesByDate indexes overrides by their date key.
func OverridesByDate(overrides []DateOverride) map[string]DateOverride {
	m := make(map[string]DateOverride, len(overrides))
	for _, o := range overrides {
		m[DateKey(o.Date)] = o
	}
	return m
}
