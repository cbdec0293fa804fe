package storage

import (
	"context"
	"io"
	"time"
)

// Default expiry duration for presigned download URLs. Overridable per
// deployment via s3.download_url_expiry; this is the single default for every
// call site.
const DefaultDownloadURLExpiry = 168 * time.Hour

// ObjectInfo describes one stored object as reported by a prefix listing.
type ObjectInfo struct {
	Key          string
	LastModified time.Time
}

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// Upload writes an object under the given key. The key is returned on
	// success so callers can persist the exact reference.
	Upload(ctx context.Context, objectKey string, body io.Reader, contentType string) (string, error)

	// List returns every object whose key starts with prefix, with the
	// store-assigned last-modified timestamps.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET
	// requests for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}
