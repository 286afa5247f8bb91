package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"visadocs-backend/internal/deadlines"
	"visadocs-backend/internal/documents"
	"visadocs-backend/internal/llm"
	"visadocs-backend/internal/shared/metrics"
	"visadocs-backend/internal/shared/storage/object"
	"visadocs-backend/internal/shared/telemetry"
)

const deadlineDescription = "Important date from your document"

// Service runs document analysis: fetch the stored file, send it to the
// model, persist the result, and fan out deadlines from the key dates.
type Service struct {
	Docs      documents.Repo
	Deadlines deadlines.Repo
	Store     object.ObjectStore
	LLM       llm.Client
}

// ProcessDocument drives one document from processing to a terminal status.
// A nil return means the outcome is settled, including a persisted failure;
// an error means nothing was recorded and the job is safe to retry.
func (s *Service) ProcessDocument(ctx context.Context, documentID string) error {
	if documentID == "" {
		return errors.New("documentID is required")
	}

	doc, err := s.Docs.Get(ctx, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			telemetry.Warn("analysis.document_missing", map[string]any{
				"request_id":  telemetry.RequestIDFromContext(ctx),
				"document_id": documentID,
			})
			return nil
		}
		return fmt.Errorf("document lookup id=%s: %w", documentID, err)
	}

	// Redelivered jobs for settled documents are no-ops.
	if doc.Status != documents.StatusProcessing {
		telemetry.Info("analysis.skip_settled", map[string]any{
			"request_id":  telemetry.RequestIDFromContext(ctx),
			"document_id": documentID,
			"status":      doc.Status,
		})
		return nil
	}

	startedAt := time.Now().UTC()
	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.status", map[string]any{
		"request_id":    telemetry.RequestIDFromContext(ctx),
		"user_id":       doc.UserID,
		"document_id":   doc.ID,
		"document_type": doc.Type,
		"status":        documents.StatusProcessing,
	})

	if s.Store == nil {
		return s.failAnalysis(ctx, doc, errors.New("missing object store"))
	}
	if s.LLM == nil {
		return s.failAnalysis(ctx, doc, errors.New("missing llm client"))
	}

	data, err := s.loadFile(ctx, doc.FileID)
	if err != nil {
		return s.failAnalysis(ctx, doc, fmt.Errorf("load file %s: %w", doc.FileID, err))
	}

	raw, err := s.LLM.AnalyzeDocument(ctx, llm.AnalyzeInput{
		MimeType: http.DetectContentType(data),
		Data:     data,
		Prompt:   AnalysisPrompt(doc.Type),
	})
	if err != nil {
		return s.failAnalysis(ctx, doc, fmt.Errorf("llm analyze: %w", err))
	}

	result, parsed := ParseResult(raw)
	if !parsed {
		metrics.IncAnalysisDegraded()
		telemetry.Warn("analysis.degraded", map[string]any{
			"request_id":  telemetry.RequestIDFromContext(ctx),
			"user_id":     doc.UserID,
			"document_id": doc.ID,
		})
	}

	if err := s.Docs.SetAnalysisResult(ctx, doc.ID, &result); err != nil {
		return s.failAnalysis(ctx, doc, fmt.Errorf("set analysis result failed: %w", err))
	}

	fanned := s.fanOutDeadlines(ctx, doc, result.KeyDates)

	completedAt := time.Now().UTC()
	metrics.IncAnalysisCompleted()
	metrics.AddDeadlinesFannedOut(fanned)
	metrics.ObserveAnalysisDurationMs(float64(completedAt.Sub(startedAt).Milliseconds()))
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        telemetry.RequestIDFromContext(ctx),
		"user_id":           doc.UserID,
		"document_id":       doc.ID,
		"status":            documents.StatusCompleted,
		"status_transition": "processing->completed",
		"degraded":          !parsed,
		"deadlines_created": fanned,
		"duration_ms":       completedAt.Sub(startedAt).Milliseconds(),
	})
	return nil
}

func (s *Service) loadFile(ctx context.Context, fileID string) ([]byte, error) {
	rc, err := s.Store.Open(ctx, fileID)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("stored file is empty")
	}
	return data, nil
}

// fanOutDeadlines creates one deadline per key date, in output order. A single
// insert failure is logged and skipped; the result itself is already saved.
func (s *Service) fanOutDeadlines(ctx context.Context, doc documents.Document, keyDates []documents.KeyDate) int {
	created := 0
	for _, kd := range keyDates {
		importance := kd.Importance
		if !deadlines.ValidImportance(importance) {
			importance = deadlines.ImportanceInfo
		}
		d := deadlines.Deadline{
			ID:           uuid.NewString(),
			UserID:       doc.UserID,
			DocumentID:   doc.ID,
			Title:        kd.Label,
			Description:  deadlineDescription,
			DueDate:      kd.Date,
			Importance:   importance,
			Completed:    false,
			ReminderSent: false,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.Deadlines.Create(ctx, d); err != nil {
			telemetry.Error("analysis.deadline_create_failed", map[string]any{
				"request_id":  telemetry.RequestIDFromContext(ctx),
				"user_id":     doc.UserID,
				"document_id": doc.ID,
				"error":       err.Error(),
			})
			continue
		}
		created++
	}
	return created
}

func (s *Service) failAnalysis(ctx context.Context, doc documents.Document, cause error) error {
	if err := s.Docs.MarkFailed(ctx, doc.ID); err != nil {
		return fmt.Errorf("mark failed: %w (cause: %v)", err, cause)
	}
	metrics.IncAnalysisFailed()
	telemetry.Error("analysis.status", map[string]any{
		"request_id":        telemetry.RequestIDFromContext(ctx),
		"user_id":           doc.UserID,
		"document_id":       doc.ID,
		"status":            documents.StatusFailed,
		"status_transition": "processing->failed",
		"error":             cause.Error(),
	})
	return nil
}
