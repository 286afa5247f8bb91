package documents

import "time"

// Document types accepted by the upload gateway.
const (
	TypeI94 = "I-94"
	TypeI20 = "I-20"
	TypeH1B = "H-1B"
)

// Document lifecycle states. A document starts in processing and moves exactly
// once to completed or failed.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Key date importance levels.
const (
	ImportanceCritical  = "critical"
	ImportanceImportant = "important"
	ImportanceInfo      = "info"
)

// Document represents an uploaded immigration document owned by a user.
// AnalysisResult is present iff Status is completed.
type Document struct {
	ID             string
	UserID         string
	Type           string
	FileName       string
	FileID         string
	UploadedAt     time.Time
	Status         string
	AnalysisResult *AnalysisResult
	CreatedAt      time.Time
}

// KeyDate is one dated fact extracted from a document.
type KeyDate struct {
	Label      string `json:"label"`
	Date       string `json:"date"`
	Importance string `json:"importance"`
}

// AnalysisResult is the structured output of a completed analysis. Details is
// an open mapping of document-type-specific fields whose shape depends on the
// model output.
type AnalysisResult struct {
	Summary   string         `json:"summary"`
	KeyDates  []KeyDate      `json:"keyDates"`
	NextSteps []string       `json:"nextSteps"`
	Warnings  []string       `json:"warnings"`
	Details   map[string]any `json:"details"`
}

// ValidType reports whether docType is one of the accepted document types.
func ValidType(docType string) bool {
	switch docType {
	case TypeI94, TypeI20, TypeH1B:
		return true
	default:
		return false
	}
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
