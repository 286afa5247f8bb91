package deadlines

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo used when no database is
// configured and in tests.
type MemoryRepo struct {
	mu        sync.RWMutex
	deadlines map[string]Deadline // deadlineID -> deadline
	byID      []string            // insertion order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		deadlines: make(map[string]Deadline),
	}
}

// Create stores a new deadline.
func (r *MemoryRepo) Create(ctx context.Context, d Deadline) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deadlines[d.ID] = d
	r.byID = append(r.byID, d.ID)
	return nil
}

// GetByUser fetches a deadline by ID scoped to its owner.
func (r *MemoryRepo) GetByUser(ctx context.Context, userID, deadlineID string) (Deadline, error) {
	if err := ctx.Err(); err != nil {
		return Deadline{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.deadlines[deadlineID]
	if !ok || d.UserID != userID {
		return Deadline{}, ErrNotFound
	}
	return d, nil
}

// ListByUser lists a user's deadlines newest-first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Deadline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Deadline
	for i := len(r.byID) - 1; i >= 0; i-- {
		d, ok := r.deadlines[r.byID[i]]
		if ok && d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

// SetCompleted updates the completion flag of an owned deadline.
func (r *MemoryRepo) SetCompleted(ctx context.Context, userID, deadlineID string, completed bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deadlines[deadlineID]
	if !ok || d.UserID != userID {
		return ErrNotFound
	}
	d.Completed = completed
	r.deadlines[deadlineID] = d
	return nil
}

// Delete removes an owned deadline.
func (r *MemoryRepo) Delete(ctx context.Context, userID, deadlineID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deadlines[deadlineID]
	if !ok || d.UserID != userID {
		return ErrNotFound
	}
	delete(r.deadlines, deadlineID)
	for i, id := range r.byID {
		if id == deadlineID {
			r.byID = append(r.byID[:i], r.byID[i+1:]...)
			break
		}
	}
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
