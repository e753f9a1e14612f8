package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ErrObjectNotFound is returned when the key does not exist in the bucket.
var ErrObjectNotFound = errors.New("object not found in storage")

// FileStorage defines the object storage operations used for activity files.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows a PUT of the object
	// directly to the storage provider. The client must send the same Content-Type.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GetObject opens the object for reading. The caller closes the reader.
	GetObject(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// ActivityObjectKey builds a unique key for an athlete's uploaded file, keeping the
// original extension: activities/<athlete>/<uuid>.fit
func ActivityObjectKey(athleteID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if ext == "" {
		ext = ".fit"
	}
	return fmt.Sprintf("activities/%s/%s%s", athleteID, uuid.NewString(), ext)
}
