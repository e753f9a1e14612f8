package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Upload stores metadata about an activity file uploaded by an athlete.
// The actual file resides in S3.
type Upload struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AthleteID   primitive.ObjectID  `bson:"athleteId" json:"athleteId"`                       // Link to the athlete who uploaded
	ActivityID  *primitive.ObjectID `bson:"activityId,omitempty" json:"activityId,omitempty"` // Set once the file was imported
	S3ObjectKey string              `bson:"s3ObjectKey" json:"-"`                             // The unique key in the S3 bucket - internal use
	FileName    string              `bson:"fileName" json:"fileName"`                         // Original filename provided by athlete
	ContentType string              `bson:"contentType" json:"contentType"`
	Size        int64               `bson:"size" json:"size"` // File size in bytes
	UploadedAt  time.Time           `bson:"uploadedAt" json:"uploadedAt"`
}
