// Package fitfile turns Garmin FIT activity files into activities.
package fitfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"alcyxob/training-planner/internal/domain"

	"github.com/tormoder/fit"
)

const secondsPerHour = 3600.0

// ErrNoSession is returned for activity files without a session message.
var ErrNoSession = errors.New("activity file has no session message")

// Summary holds the session totals read from a FIT file.
type Summary struct {
	Sport           domain.Sport
	Start           time.Time
	TimerSeconds    float64
	DistanceMeters  float64
	AvgPowerWatts   float64
	NormalizedPower float64
	AvgHeartRate    float64
	AvgSpeedMps     float64
}

// Decode reads a FIT activity and derives an activity for the athlete's thresholds.
func Decode(r io.Reader, th domain.Thresholds) (*domain.Activity, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}
	if len(activity.Sessions) == 0 {
		return nil, ErrNoSession
	}
	return summarize(activity.Sessions[0]).Activity(th), nil
}

func summarize(session *fit.SessionMsg) Summary {
	s := Summary{
		Sport:          sportOf(session.Sport),
		Start:          validTimeOrZero(session.StartTime),
		TimerSeconds:   safePositive(session.GetTotalTimerTimeScaled()),
		DistanceMeters: safePositive(session.GetTotalDistanceScaled()),
		AvgPowerWatts:  float64(validUint16(session.AvgPower)),
		AvgHeartRate:   float64(validUint8(session.AvgHeartRate)),
	}
	if s.Start.IsZero() {
		s.Start = validTimeOrZero(session.Timestamp)
	}
	s.NormalizedPower = float64(validUint16(session.NormalizedPower))
	if s.NormalizedPower == 0 {
		s.NormalizedPower = s.AvgPowerWatts
	}
	s.AvgSpeedMps = safePositive(session.GetEnhancedAvgSpeedScaled())
	if s.AvgSpeedMps == 0 {
		s.AvgSpeedMps = safePositive(session.GetAvgSpeedScaled())
	}
	if s.AvgSpeedMps == 0 && s.TimerSeconds > 0 {
		s.AvgSpeedMps = s.DistanceMeters / s.TimerSeconds
	}
	return s
}

// Activity derives the stored activity. Power metrics produce IF and TSS when FTP is
// known; runs get an average pace. Metrics that cannot be derived stay nil.
func (s Summary) Activity(th domain.Thresholds) *domain.Activity {
	a := &domain.Activity{
		Source:          domain.SourceFITUpload,
		Sport:           s.Sport,
		Date:            domain.DateOnly(s.Start),
		DurationMinutes: int(math.Round(s.TimerSeconds / 60)),
	}
	if s.AvgHeartRate > 0 {
		a.AverageHeartRate = ptr(s.AvgHeartRate)
	}
	if s.NormalizedPower > 0 {
		a.NormalizedPower = ptr(s.NormalizedPower)
		if th.FTPWatts > 0 {
			intensity := s.NormalizedPower / th.FTPWatts
			a.IntensityFactor = ptr(round2(intensity))
			if s.TimerSeconds > 0 {
				a.TSS = ptr(math.Round(s.TimerSeconds / secondsPerHour * intensity * intensity * 100))
			}
		}
	}
	if s.Sport == domain.SportRun && s.AvgSpeedMps > 0 {
		a.AveragePace = ptr(math.Round(1000 / s.AvgSpeedMps))
	}
	return a
}

func sportOf(sport fit.Sport) domain.Sport {
	switch sport {
	case fit.SportCycling:
		return domain.SportRide
	case fit.SportRunning:
		return domain.SportRun
	default:
		return domain.SportOther
	}
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func validUint8(v uint8) uint8 {
	if v == math.MaxUint8 {
		return 0
	}
	return v
}

func validUint16(v uint16) uint16 {
	if v == math.MaxUint16 {
		return 0
	}
	return v
}

func safePositive(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func ptr(v float64) *float64 { return &v }
