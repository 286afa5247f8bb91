package object

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound indicates the storage key does not reference a stored object.
var ErrNotFound = errors.New("object not found")

// UploadTarget is a short-lived, write-capable destination for exactly one file.
// FileID is the opaque storage handle a client passes back when registering
// the uploaded document.
type UploadTarget struct {
	FileID    string
	URL       string
	ExpiresIn time.Duration
}

// ObjectStore defines the blob-storage boundary: issuing upload targets,
// resolving temporary download URLs, and reading stored bytes.
type ObjectStore interface {
	GenerateUploadTarget(ctx context.Context, userID string, fileName string) (UploadTarget, error)
	ResolveDownloadURL(ctx context.Context, fileID string) (string, error)
	Open(ctx context.Context, fileID string) (io.ReadCloser, error)
	SaveWithKey(ctx context.Context, fileID string, contentType string, r io.Reader) (int64, error)
}
