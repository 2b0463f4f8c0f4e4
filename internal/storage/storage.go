package storage

//go:generate mockgen -source=storage.go -destination=../mock/storage_mock.go -package=mock

import (
	"context"
	"errors"
	"time"

	"alcyxob/fitness-sync/internal/domain"
)

// Default expiry duration for presigned snapshot links
const DefaultPresignedURLExpiry = 15 * time.Minute

// ContentTypeJSON is used for every snapshot object.
const ContentTypeJSON = "application/json"

var ErrObjectNotFound = errors.New("snapshot not found in storage")

// SnapshotStore archives the child list read before a save, so a batch that
// fails halfway can be compared with what the parent looked like before it.
type SnapshotStore interface {
	// PutSnapshot uploads body under key and returns its metadata.
	PutSnapshot(ctx context.Context, key string, body []byte, contentType string) (*domain.Snapshot, error)

	// GetSnapshot downloads a previously stored snapshot.
	GetSnapshot(ctx context.Context, key string) ([]byte, error)

	// DeleteSnapshot removes a snapshot that is no longer needed.
	DeleteSnapshot(ctx context.Context, key string) error

	// PresignedDownloadURL creates a temporary GET link for a snapshot.
	PresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// SnapshotKey builds the object key of a batch snapshot:
// <parentKind>/<parentID>/<batchID>.json
func SnapshotKey(parentKind, parentID, batchID string) string {
	return parentKind + "/" + parentID + "/" + batchID + ".json"
}
