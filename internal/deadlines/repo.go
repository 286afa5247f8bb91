package deadlines

import "context"

// Repo defines persistence operations for deadlines. ListByUser returns the
// store's native newest-first order; the service re-sorts by due date.
type Repo interface {
	Create(ctx context.Context, d Deadline) error
	GetByUser(ctx context.Context, userID, deadlineID string) (Deadline, error)
	ListByUser(ctx context.Context, userID string) ([]Deadline, error)
	SetCompleted(ctx context.Context, userID, deadlineID string, completed bool) error
	Delete(ctx context.Context, userID, deadlineID string) error
}
