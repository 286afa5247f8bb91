package deadlines

import "time"

// Deadline importance levels, matching the key-date importance of a document
// analysis.
const (
	ImportanceCritical  = "critical"
	ImportanceImportant = "important"
	ImportanceInfo      = "info"
)

// Deadline is a user-scoped, date-bearing task item. DocumentID is set when
// the deadline was derived from a document analysis and empty for deadlines
// the user created directly.
type Deadline struct {
	ID           string
	UserID       string
	DocumentID   string
	Title        string
	Description  string
	DueDate      string // ISO-8601 calendar date, stored as text
	Importance   string
	Completed    bool
	ReminderSent bool
	CreatedAt    time.Time
}

// ValidImportance reports whether importance is one of the accepted levels.
func ValidImportance(importance string) bool {
	switch importance {
	case ImportanceCritical, ImportanceImportant, ImportanceInfo:
		return true
	default:
		return false
	}
}
