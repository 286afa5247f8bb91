package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"visadocs-backend/internal/queue"
	"visadocs-backend/internal/shared/metrics"
	"visadocs-backend/internal/shared/storage/object"
	"visadocs-backend/internal/shared/telemetry"
)

// Service contains business logic for documents.
type Service struct {
	Repo     Repo
	Store    object.ObjectStore
	Dispatch queue.Client
}

// Register creates a document in processing state for a previously uploaded
// file and schedules its analysis. It returns before the analysis runs.
func (s *Service) Register(ctx context.Context, userID, docType, fileName, fileID string) (Document, error) {
	if userID == "" {
		return Document{}, errors.New("userID is required")
	}
	if !ValidType(docType) {
		return Document{}, fmt.Errorf("%w: type must be one of I-94, I-20, H-1B", ErrInvalidInput)
	}
	if strings.TrimSpace(fileName) == "" {
		return Document{}, fmt.Errorf("%w: fileName is required", ErrInvalidInput)
	}
	if strings.TrimSpace(fileID) == "" {
		return Document{}, fmt.Errorf("%w: fileId is required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	doc := Document{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       docType,
		FileName:   strings.TrimSpace(fileName),
		FileID:     strings.TrimSpace(fileID),
		UploadedAt: now,
		Status:     StatusProcessing,
		CreatedAt:  now,
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	metrics.IncDocumentsUploaded()

	if s.Dispatch != nil {
		msg := queue.Message{
			DocumentID: doc.ID,
			RequestID:  telemetry.RequestIDFromContext(ctx),
			EnqueuedAt: now.Format(time.RFC3339),
			Version:    1,
		}
		if err := s.Dispatch.Send(ctx, msg); err != nil {
			// The document stays in processing; analysis errors never reach
			// the registering caller.
			telemetry.Error("documents.dispatch_failed", map[string]any{
				"document_id": doc.ID,
				"user_id":     userID,
				"err":         err.Error(),
			})
		}
	}

	return doc, nil
}

// List returns all documents owned by the user, newest-first.
func (s *Service) List(ctx context.Context, userID string) ([]Document, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Get returns a document owned by the user together with a resolved download
// URL for its stored file. The URL is empty when resolution fails.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, string, error) {
	if userID == "" || documentID == "" {
		return Document{}, "", ErrNotFound
	}

	doc, err := s.Repo.GetByUser(ctx, userID, documentID)
	if err != nil {
		return Document{}, "", err
	}

	fileURL := ""
	if s.Store != nil {
		url, err := s.Store.ResolveDownloadURL(ctx, doc.FileID)
		if err != nil {
			telemetry.Warn("documents.file_url_unresolved", map[string]any{
				"document_id": doc.ID,
				"file_id":     doc.FileID,
				"err":         err.Error(),
			})
		} else {
			fileURL = url
		}
	}

	return doc, fileURL, nil
}
