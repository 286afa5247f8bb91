package documents

import "context"

// Repo defines persistence operations for documents.
//
// SetAnalysisResult and MarkFailed only apply to documents still in
// processing; the status never leaves a terminal state.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	Get(ctx context.Context, documentID string) (Document, error)
	GetByUser(ctx context.Context, userID, documentID string) (Document, error)
	ListByUser(ctx context.Context, userID string) ([]Document, error)
	SetAnalysisResult(ctx context.Context, documentID string, result *AnalysisResult) error
	MarkFailed(ctx context.Context, documentID string) error
}
