package local

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"visadocs-backend/internal/shared/storage/object"
	"visadocs-backend/internal/shared/util"
)

const targetTTL = 15 * time.Minute

// Store implements ObjectStore using the local filesystem. Upload targets and
// download URLs point back at the API's local upload/file routes.
type Store struct {
	baseDir string
	baseURL string
}

// New creates a new local object store rooted at baseDir. baseURL is the
// externally reachable API base used to mint upload and download URLs.
func New(baseDir, baseURL string) object.ObjectStore {
	return &Store{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}
}

// GenerateUploadTarget mints a storage key under the user's namespace and the
// local PUT route that accepts the bytes.
func (s *Store) GenerateUploadTarget(ctx context.Context, userID string, fileName string) (object.UploadTarget, error) {
	if err := ctx.Err(); err != nil {
		return object.UploadTarget{}, err
	}

	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return object.UploadTarget{}, fmt.Errorf("sanitize file name: %w", err)
	}

	fileID := util.HashUserKey(userID) + "/" + randomID() + "_" + sanitized
	return object.UploadTarget{
		FileID:    fileID,
		URL:       s.baseURL + "/api/v1/uploads/local/" + fileID,
		ExpiresIn: targetTTL,
	}, nil
}

// ResolveDownloadURL returns the local file route for a stored object.
func (s *Store) ResolveDownloadURL(ctx context.Context, fileID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fullPath, err := s.fullPath(fileID)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return "", object.ErrNotFound
		}
		return "", err
	}
	return s.baseURL + "/api/v1/files/" + fileID, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath, err := s.fullPath(fileID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, object.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// SaveWithKey writes the reader to disk at a specific storage key.
func (s *Store) SaveWithKey(ctx context.Context, fileID string, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	fullPath, err := s.fullPath(fileID)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return 0, fmt.Errorf("write body: %w", err)
	}
	_ = contentType
	return written, nil
}

func (s *Store) fullPath(fileID string) (string, error) {
	clean := filepath.Clean(fileID)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(s.baseDir, clean), nil
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

var _ object.ObjectStore = (*Store)(nil)
