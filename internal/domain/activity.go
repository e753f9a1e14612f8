package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sport distinguishes how intensity is measured for an activity.
type Sport string

const (
	SportRide  Sport = "ride"
	SportRun   Sport = "run"
	SportOther Sport = "other"
)

// ActivitySource records how an activity entered the system.
type ActivitySource string

const (
	SourceManual    ActivitySource = "manual"
	SourceFITUpload ActivitySource = "fit_upload"
	SourceSync      ActivitySource = "sync"
)

// Activity is a completed, recorded session. Immutable once created.
type Activity struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"-"`
	AthleteID        primitive.ObjectID `bson:"athleteId" json:"athleteId" yaml:"-"`
	Source           ActivitySource     `bson:"source" json:"source" yaml:"-"`
	Sport            Sport              `bson:"sport" json:"sport" yaml:"sport"`
	Name             string             `bson:"name,omitempty" json:"name,omitempty" yaml:"name,omitempty"`
	Date             time.Time          `bson:"date" json:"date" yaml:"date"`
	DurationMinutes  int                `bson:"durationMinutes" json:"durationMinutes" yaml:"durationMinutes"`
	TSS              *float64           `bson:"tss,omitempty" json:"tss,omitempty" yaml:"tss,omitempty"`
	IntensityFactor  *float64           `bson:"intensityFactor,omitempty" json:"intensityFactor,omitempty" yaml:"intensityFactor,omitempty"`
	NormalizedPower  *float64           `bson:"normalizedPower,omitempty" json:"normalizedPower,omitempty" yaml:"normalizedPower,omitempty"`
	AveragePace      *float64           `bson:"averagePace,omitempty" json:"averagePace,omitempty" yaml:"averagePace,omitempty"` // seconds per km
	AverageHeartRate *float64           `bson:"averageHeartRate,omitempty" json:"averageHeartRate,omitempty" yaml:"averageHeartRate,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt" yaml:"-"`
}

// Intensity returns the Intensity Factor of the activity: the recorded value, else
// normalized power over FTP. ok is false when neither is available.
func (a *Activity) Intensity(ftp float64) (float64, bool) {
	if a.IntensityFactor != nil && *a.IntensityFactor > 0 {
		return *a.IntensityFactor, true
	}
	if a.NormalizedPower != nil && *a.NormalizedPower > 0 && ftp > 0 {
		return *a.NormalizedPower / ftp, true
	}
	return 0, false
}

// EffectiveTSS returns the recorded TSS or, failing that, duration x IF² x 100.
func (a *Activity) EffectiveTSS(ftp float64) (float64, bool) {
	if a.TSS != nil {
		return *a.TSS, true
	}
	if intensity, ok := a.Intensity(ftp); ok && a.DurationMinutes > 0 {
		return float64(a.DurationMinutes) / 60.0 * intensity * intensity * 100.0, true
	}
	return 0, false
}
