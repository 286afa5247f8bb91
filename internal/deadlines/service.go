package deadlines

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dueDateLayout = "2006-01-02"

// Service contains business logic for deadlines.
type Service struct {
	Repo Repo
}

// List returns all deadlines owned by the user, sorted ascending by due date.
// The store's native order is newest-first; the sort happens here.
func (s *Service) List(ctx context.Context, userID string) ([]Deadline, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	out, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortByDueDate(out)
	return out, nil
}

// Create inserts a user-created deadline with no originating document.
func (s *Service) Create(ctx context.Context, userID, title, description, dueDate, importance string) (Deadline, error) {
	if userID == "" {
		return Deadline{}, errors.New("userID is required")
	}
	if strings.TrimSpace(title) == "" {
		return Deadline{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(dueDate) == "" {
		return Deadline{}, fmt.Errorf("%w: dueDate is required", ErrInvalidInput)
	}
	if !ValidImportance(importance) {
		return Deadline{}, fmt.Errorf("%w: importance must be one of critical, important, info", ErrInvalidInput)
	}

	d := Deadline{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        strings.TrimSpace(title),
		Description:  description,
		DueDate:      strings.TrimSpace(dueDate),
		Importance:   importance,
		Completed:    false,
		ReminderSent: false,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, d); err != nil {
		return Deadline{}, err
	}
	return d, nil
}

// ToggleCompletion flips the completed flag of an owned deadline and returns
// the updated record.
func (s *Service) ToggleCompletion(ctx context.Context, userID, deadlineID string) (Deadline, error) {
	if userID == "" || deadlineID == "" {
		return Deadline{}, ErrNotFound
	}

	d, err := s.Repo.GetByUser(ctx, userID, deadlineID)
	if err != nil {
		return Deadline{}, err
	}
	if err := s.Repo.SetCompleted(ctx, userID, deadlineID, !d.Completed); err != nil {
		return Deadline{}, err
	}
	d.Completed = !d.Completed
	return d, nil
}

// Delete removes an owned deadline.
func (s *Service) Delete(ctx context.Context, userID, deadlineID string) error {
	if userID == "" || deadlineID == "" {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, userID, deadlineID)
}

// sortByDueDate orders ascending by parsed calendar date. Dates that do not
// parse sort after valid ones, by string as a tiebreak. The sort is stable so
// equal dates keep the store's order.
func sortByDueDate(items []Deadline) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, okI := parseDueDate(items[i].DueDate)
		tj, okJ := parseDueDate(items[j].DueDate)
		if okI && okJ {
			if ti.Equal(tj) {
				return false
			}
			return ti.Before(tj)
		}
		if okI != okJ {
			return okI
		}
		return items[i].DueDate < items[j].DueDate
	})
}

func parseDueDate(raw string) (time.Time, bool) {
	t, err := time.Parse(dueDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
