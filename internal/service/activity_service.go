package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/fitfile"
	"alcyxob/training-planner/internal/observability"
	"alcyxob/training-planner/internal/repository"
	"alcyxob/training-planner/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrUploadURLError           = errors.New("failed to generate upload URL")
	ErrUploadConfirmationFailed = errors.New("failed to confirm upload")
	ErrUploadNotOwned           = errors.New("object key does not belong to this athlete")
	ErrUnsupportedFile          = errors.New("only .fit activity files are supported")
	ErrActivityFileInvalid      = errors.New("activity file could not be decoded")
	ErrInvalidActivity          = errors.New("invalid activity")
)

const fitContentType = "application/vnd.ant.fit"

// UploadURLResponse is returned to the athlete before uploading a file.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // Reported back on confirm
}

// ManualActivityInput is an activity typed in by the athlete.
type ManualActivityInput struct {
	Sport            domain.Sport
	Name             string
	Date             time.Time
	DurationMinutes  int
	TSS              *float64
	IntensityFactor  *float64
	NormalizedPower  *float64
	AveragePace      *float64
	AverageHeartRate *float64
}

type ActivityService interface {
	// FIT import
	RequestUploadURL(ctx context.Context, athleteID primitive.ObjectID, fileName string) (*UploadURLResponse, error)
	ConfirmUpload(ctx context.Context, athleteID primitive.ObjectID, objectKey, fileName string, fileSize int64) (*domain.Activity, error)

	CreateManualActivity(ctx context.Context, athleteID primitive.ObjectID, in ManualActivityInput) (*domain.Activity, error)
	GetActivities(ctx context.Context, athleteID primitive.ObjectID, from, to time.Time) ([]domain.Activity, error)
}

// activityService implements the ActivityService interface.
type activityService struct {
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	uploadRepo   repository.UploadRepository
	fileStorage  storage.FileStorage
}

// NewActivityService creates a new instance of activityService.
func NewActivityService(
	userRepo repository.UserRepository,
	activityRepo repository.ActivityRepository,
	uploadRepo repository.UploadRepository,
	fileStorage storage.FileStorage,
) ActivityService {
	return &activityService{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		uploadRepo:   uploadRepo,
		fileStorage:  fileStorage,
	}
}

// === FIT import ===

// RequestUploadURL generates a pre-signed URL for the athlete to PUT a FIT file.
func (s *activityService) RequestUploadURL(ctx context.Context, athleteID primitive.ObjectID, fileName string) (*UploadURLResponse, error) {
	if athleteID == primitive.NilObjectID {
		return nil, errors.New("athlete ID is required")
	}
	if ext := strings.ToLower(path.Ext(fileName)); ext != "" && ext != ".fit" {
		return nil, ErrUnsupportedFile
	}

	objectKey := storage.ActivityObjectKey(athleteID.Hex(), fileName)
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, fitContentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}
	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmUpload imports a file the athlete finished uploading: it records the upload,
// downloads and decodes the FIT file, and stores the derived activity.
// Confirming the same key twice returns the activity imported the first time.
func (s *activityService) ConfirmUpload(ctx context.Context, athleteID primitive.ObjectID, objectKey, fileName string, fileSize int64) (*domain.Activity, error) {
	if athleteID == primitive.NilObjectID || objectKey == "" {
		return nil, errors.New("athlete ID and object key are required")
	}
	if !strings.HasPrefix(objectKey, fmt.Sprintf("activities/%s/", athleteID.Hex())) {
		return nil, ErrUploadNotOwned
	}

	existing, err := s.uploadRepo.GetByObjectKey(ctx, objectKey)
	switch {
	case err == nil && existing.ActivityID != nil:
		return s.activityRepo.GetByID(ctx, *existing.ActivityID)
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	athlete, err := s.userRepo.GetByID(ctx, athleteID)
	if err != nil {
		return nil, err
	}

	body, err := s.fileStorage.GetObject(ctx, objectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: object %s was never uploaded", ErrUploadConfirmationFailed, objectKey)
		}
		return nil, ErrUploadConfirmationFailed
	}
	defer body.Close()

	// The upload is recorded before decoding so a rejected file still leaves a trace;
	// a retry reuses the same record.
	var uploadID primitive.ObjectID
	if existing != nil {
		uploadID = existing.ID
	} else {
		uploadID, err = s.uploadRepo.Create(ctx, &domain.Upload{
			AthleteID:   athleteID,
			S3ObjectKey: objectKey,
			FileName:    fileName,
			ContentType: fitContentType,
			Size:        fileSize,
		})
		if err != nil {
			log.Printf("ERROR: Failed to save upload metadata for '%s': %v", objectKey, err)
			return nil, ErrUploadConfirmationFailed
		}
	}

	activity, err := fitfile.Decode(body, athlete.Thresholds())
	if err != nil {
		log.Printf("WARN: Failed to decode FIT file '%s': %v", objectKey, err)
		return nil, fmt.Errorf("%w: %v", ErrActivityFileInvalid, err)
	}
	activity.AthleteID = athleteID
	activity.Name = strings.TrimSuffix(fileName, path.Ext(fileName))

	activityID, err := s.activityRepo.Create(ctx, activity)
	if err != nil {
		return nil, err
	}
	activity.ID = activityID

	if err := s.uploadRepo.LinkActivity(ctx, uploadID, activityID); err != nil {
		// The activity is stored; only the link back from the upload is missing.
		log.Printf("ERROR: Failed to link upload %s to activity %s: %v", uploadID.Hex(), activityID.Hex(), err)
	}

	observability.RecordActivityImported(string(domain.SourceFITUpload), activity.Date)
	return activity, nil
}

// CreateManualActivity stores an activity entered by hand. TSS is derived from IF or NP
// when it was not given.
func (s *activityService) CreateManualActivity(ctx context.Context, athleteID primitive.ObjectID, in ManualActivityInput) (*domain.Activity, error) {
	if in.Date.IsZero() || in.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: date and a positive duration are required", ErrInvalidActivity)
	}
	for _, v := range []*float64{in.TSS, in.IntensityFactor, in.NormalizedPower, in.AveragePace, in.AverageHeartRate} {
		if v != nil && *v < 0 {
			return nil, fmt.Errorf("%w: metrics must not be negative", ErrInvalidActivity)
		}
	}
	switch in.Sport {
	case domain.SportRide, domain.SportRun, domain.SportOther:
	case "":
		in.Sport = domain.SportOther
	default:
		return nil, fmt.Errorf("%w: unknown sport %q", ErrInvalidActivity, in.Sport)
	}

	activity := &domain.Activity{
		AthleteID:        athleteID,
		Source:           domain.SourceManual,
		Sport:            in.Sport,
		Name:             in.Name,
		Date:             domain.DateOnly(in.Date),
		DurationMinutes:  in.DurationMinutes,
		TSS:              in.TSS,
		IntensityFactor:  in.IntensityFactor,
		NormalizedPower:  in.NormalizedPower,
		AveragePace:      in.AveragePace,
		AverageHeartRate: in.AverageHeartRate,
	}
	if activity.TSS == nil {
		athlete, err := s.userRepo.GetByID(ctx, athleteID)
		if err != nil {
			return nil, err
		}
		if tss, ok := activity.EffectiveTSS(athlete.FTPWatts); ok {
			activity.TSS = &tss
		}
	}

	id, err := s.activityRepo.Create(ctx, activity)
	if err != nil {
		return nil, err
	}
	activity.ID = id
	observability.RecordActivityImported(string(domain.SourceManual), activity.Date)
	return activity, nil
}

// GetActivities lists the athlete's activities dated from..to inclusive.
func (s *activityService) GetActivities(ctx context.Context, athleteID primitive.ObjectID, from, to time.Time) ([]domain.Activity, error) {
	if err := checkRange(from, to, maxCalendarDays); err != nil {
		return nil, err
	}
	return s.activityRepo.GetByAthleteInRange(ctx, athleteID, from, to)
}
