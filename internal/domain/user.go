package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleCoach   Role = "coach"
	RoleAthlete Role = "athlete"
)

// User represents a user in the system (either a Coach or an Athlete).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Coach-specific ---
	AthleteIDs []primitive.ObjectID `bson:"athleteIds,omitempty" json:"athleteIds,omitempty"`

	// --- Athlete-specific ---
	CoachID *primitive.ObjectID `bson:"coachId,omitempty" json:"coachId,omitempty"`
	// FTPWatts is the cycling threshold used to normalize power into an Intensity Factor.
	FTPWatts float64 `bson:"ftpWatts,omitempty" json:"ftpWatts,omitempty"`
	// ThresholdPaceSecPerKm is the running equivalent of FTP.
	ThresholdPaceSecPerKm float64 `bson:"thresholdPaceSecPerKm,omitempty" json:"thresholdPaceSecPerKm,omitempty"`
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

func (u *User) IsAthlete() bool {
	return u.Role == RoleAthlete
}

// Thresholds returns the athlete's intensity anchors.
func (u *User) Thresholds() Thresholds {
	return Thresholds{FTPWatts: u.FTPWatts, ThresholdPaceSecPerKm: u.ThresholdPaceSecPerKm}
}

// Thresholds carries the per-athlete values needed to turn raw metrics into intensity.
// Zero means unknown.
type Thresholds struct {
	FTPWatts              float64 `json:"ftpWatts" yaml:"ftp"`
	ThresholdPaceSecPerKm float64 `json:"thresholdPaceSecPerKm" yaml:"thresholdPace"`
}
