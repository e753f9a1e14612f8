package fitfile

import (
	"bytes"
	"math"
	"testing"
	"time"

	"alcyxob/training-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"
)

func TestRideSummaryDerivesIntensityAndTSS(t *testing.T) {
	s := Summary{
		Sport:           domain.SportRide,
		Start:           time.Date(2024, 3, 7, 17, 45, 0, 0, time.UTC),
		TimerSeconds:    5400,
		NormalizedPower: 200,
		AvgHeartRate:    142,
	}
	a := s.Activity(domain.Thresholds{FTPWatts: 250})

	assert.Equal(t, domain.SourceFITUpload, a.Source)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), a.Date)
	assert.Equal(t, 90, a.DurationMinutes)
	require.NotNil(t, a.IntensityFactor)
	assert.Equal(t, 0.8, *a.IntensityFactor)
	require.NotNil(t, a.TSS)
	assert.Equal(t, 96.0, *a.TSS)
	assert.Nil(t, a.AveragePace)
}

func TestSummaryWithoutFTPLeavesLoadUnknown(t *testing.T) {
	a := Summary{Sport: domain.SportRide, TimerSeconds: 3600, NormalizedPower: 200}.Activity(domain.Thresholds{})
	require.NotNil(t, a.NormalizedPower)
	assert.Nil(t, a.IntensityFactor)
	assert.Nil(t, a.TSS)

	tss, ok := a.EffectiveTSS(250)
	assert.True(t, ok)
	assert.InDelta(t, 64.0, tss, 0.01)
}

func TestRunSummaryDerivesPace(t *testing.T) {
	a := Summary{Sport: domain.SportRun, TimerSeconds: 3000, AvgSpeedMps: 3.333}.Activity(domain.Thresholds{})
	require.NotNil(t, a.AveragePace)
	assert.Equal(t, 300.0, *a.AveragePace)
	assert.Nil(t, a.TSS)
}

func TestSportMapping(t *testing.T) {
	assert.Equal(t, domain.SportRide, sportOf(fit.SportCycling))
	assert.Equal(t, domain.SportRun, sportOf(fit.SportRunning))
	assert.Equal(t, domain.SportOther, sportOf(fit.SportSwimming))
}

func TestInvalidSentinelsAreZeroed(t *testing.T) {
	assert.Zero(t, validUint16(math.MaxUint16))
	assert.Zero(t, validUint8(math.MaxUint8))
	assert.Zero(t, safePositive(math.NaN()))
	assert.Equal(t, 12.5, safePositive(12.5))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not a fit file")), domain.Thresholds{})
	assert.Error(t, err)
}
