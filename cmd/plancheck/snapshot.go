package main

import (
	"fmt"
	"os"
	"time"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/planner"

	"gopkg.in/yaml.v3"
)

// Snapshot is an offline copy of one athlete's plan window.
type Snapshot struct {
	WeekStart     time.Time                   `yaml:"weekStart"`
	Weekly        []domain.DayAvailability    `yaml:"weekly"`
	Overrides     []domain.DateOverride       `yaml:"overrides"`
	Preferences   *domain.TrainingPreferences `yaml:"preferences"`
	Workouts      []domain.PlannedWorkout     `yaml:"workouts"`
	Activities    []domain.Activity           `yaml:"activities"`
	FTP           float64                     `yaml:"ftp"`
	ThresholdPace float64                     `yaml:"thresholdPace"`
	// TSB is the athlete's form. When unset it is derived from the activities.
	TSB   *float64             `yaml:"tsb"`
	Phase domain.TrainingPhase `yaml:"phase"`
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return parseSnapshot(data)
}

func parseSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	return &s, nil
}

// normalize validates the snapshot and fills the derived calendar fields.
func (s *Snapshot) normalize() error {
	for _, d := range s.Weekly {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("weekly: %w", err)
		}
	}
	for _, o := range s.Overrides {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("overrides: %w", err)
		}
	}
	if s.Preferences == nil {
		prefs := domain.DefaultPreferences()
		s.Preferences = &prefs
	}

	for i := range s.Workouts {
		w := &s.Workouts[i]
		if w.Date.IsZero() {
			return fmt.Errorf("workouts[%d]: date is required", i)
		}
		if w.Category != "" && !w.Category.Valid() {
			return fmt.Errorf("workouts[%d]: unknown category %q", i, w.Category)
		}
		w.Date = domain.DateOnly(w.Date)
		w.DayOfWeek = int(w.Date.Weekday())
	}
	for i := range s.Activities {
		a := &s.Activities[i]
		if a.Date.IsZero() {
			return fmt.Errorf("activities[%d]: date is required", i)
		}
		a.Date = domain.DateOnly(a.Date)
		if a.Sport == "" {
			a.Sport = domain.SportRide
		}
	}

	if s.WeekStart.IsZero() {
		s.WeekStart = s.earliestDate()
	}
	s.WeekStart = domain.DateOnly(s.WeekStart)
	for i := range s.Workouts {
		if s.Workouts[i].WeekNumber <= 0 {
			s.Workouts[i].WeekNumber = domain.DaysBetween(s.WeekStart, s.Workouts[i].Date)/7 + 1
		}
	}
	return nil
}

func (s *Snapshot) earliestDate() time.Time {
	var first time.Time
	consider := func(d time.Time) {
		if first.IsZero() || d.Before(first) {
			first = d
		}
	}
	for _, w := range s.Workouts {
		consider(w.Date)
	}
	for _, a := range s.Activities {
		consider(a.Date)
	}
	if first.IsZero() {
		return domain.DateOnly(time.Now())
	}
	return first
}

func (s *Snapshot) availability() planner.Availability {
	return planner.NewAvailability(s.Weekly, s.Overrides)
}

func (s *Snapshot) thresholds() domain.Thresholds {
	return domain.Thresholds{FTPWatts: s.FTP, ThresholdPaceSecPerKm: s.ThresholdPace}
}

// lastDate is the latest date the snapshot mentions.
func (s *Snapshot) lastDate() time.Time {
	last := s.WeekStart
	for _, w := range s.Workouts {
		if w.Date.After(last) {
			last = w.Date
		}
	}
	for _, a := range s.Activities {
		if a.Date.After(last) {
			last = a.Date
		}
	}
	return last
}
