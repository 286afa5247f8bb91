package documents

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo used when no database is
// configured and in tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]Document // documentID -> document
	byID []string            // insertion order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		docs: make(map[string]Document),
	}
}

// Create stores a new document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = cloneDocument(doc)
	r.byID = append(r.byID, doc.ID)
	return nil
}

// Get fetches a document by ID regardless of owner.
func (r *MemoryRepo) Get(ctx context.Context, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[documentID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return cloneDocument(doc), nil
}

// GetByUser fetches a document by ID scoped to its owner.
func (r *MemoryRepo) GetByUser(ctx context.Context, userID, documentID string) (Document, error) {
	doc, err := r.Get(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if doc.UserID != userID {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// ListByUser lists a user's documents newest-first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Document
	for i := len(r.byID) - 1; i >= 0; i-- {
		doc, ok := r.docs[r.byID[i]]
		if ok && doc.UserID == userID {
			out = append(out, cloneDocument(doc))
		}
	}
	return out, nil
}

// SetAnalysisResult stores a completed analysis for a processing document.
func (r *MemoryRepo) SetAnalysisResult(ctx context.Context, documentID string, result *AnalysisResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[documentID]
	if !ok || doc.Status != StatusProcessing {
		return nil
	}
	doc.Status = StatusCompleted
	doc.AnalysisResult = cloneResult(result)
	r.docs[documentID] = doc
	return nil
}

// MarkFailed transitions a processing document to failed.
func (r *MemoryRepo) MarkFailed(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[documentID]
	if !ok || doc.Status != StatusProcessing {
		return nil
	}
	doc.Status = StatusFailed
	doc.AnalysisResult = nil
	r.docs[documentID] = doc
	return nil
}

func cloneDocument(doc Document) Document {
	doc.AnalysisResult = cloneResult(doc.AnalysisResult)
	return doc
}

func cloneResult(result *AnalysisResult) *AnalysisResult {
	if result == nil {
		return nil
	}
	out := *result
	out.KeyDates = append([]KeyDate(nil), result.KeyDates...)
	out.NextSteps = append([]string(nil), result.NextSteps...)
	out.Warnings = append([]string(nil), result.Warnings...)
	if result.Details != nil {
		out.Details = make(map[string]any, len(result.Details))
		for k, v := range result.Details {
			out.Details[k] = v
		}
	}
	return &out
}

var _ Repo = (*MemoryRepo)(nil)
