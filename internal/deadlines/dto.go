package deadlines

import "time"

// DeadlineResponse is the outward-facing representation of a deadline.
// DocumentID is null for user-created deadlines.
type DeadlineResponse struct {
	DeadlineID   string    `json:"deadlineId"`
	DocumentID   *string   `json:"documentId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DueDate      string    `json:"dueDate"`
	Importance   string    `json:"importance"`
	Completed    bool      `json:"completed"`
	ReminderSent bool      `json:"reminderSent"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toResponse(d Deadline) DeadlineResponse {
	resp := DeadlineResponse{
		DeadlineID:   d.ID,
		Title:        d.Title,
		Description:  d.Description,
		DueDate:      d.DueDate,
		Importance:   d.Importance,
		Completed:    d.Completed,
		ReminderSent: d.ReminderSent,
		CreatedAt:    d.CreatedAt,
	}
	if d.DocumentID != "" {
		documentID := d.DocumentID
		resp.DocumentID = &documentID
	}
	return resp
}
