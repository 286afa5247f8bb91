package queue

import (
	"context"
	"fmt"

	"visadocs-backend/internal/shared/telemetry"
)

// Processor consumes one analysis job. Satisfied by the analysis service.
type Processor interface {
	ProcessDocument(ctx context.Context, documentID string) error
}

// InProcessDispatcher runs each job on its own goroutine, detached from the
// request that produced it. Jobs do not survive a process restart, matching
// the registration call's fire-and-forget contract.
type InProcessDispatcher struct {
	Proc Processor
}

// NewInProcessDispatcher constructs an InProcessDispatcher.
func NewInProcessDispatcher(proc Processor) *InProcessDispatcher {
	return &InProcessDispatcher{Proc: proc}
}

// Send schedules the job and returns immediately. Processing errors are
// logged, never returned: the worker persists failure as document status.
func (d *InProcessDispatcher) Send(ctx context.Context, msg Message) error {
	if d.Proc == nil {
		return fmt.Errorf("no processor configured")
	}
	if msg.DocumentID == "" {
		return fmt.Errorf("documentId is required")
	}

	// Detach from the request context so the job outlives the HTTP call.
	jobCtx := telemetry.WithRequestID(context.Background(), msg.RequestID)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				telemetry.Error("queue.job_panic", map[string]any{
					"document_id": msg.DocumentID,
					"request_id":  msg.RequestID,
					"panic":       fmt.Sprint(r),
				})
			}
		}()
		if err := d.Proc.ProcessDocument(jobCtx, msg.DocumentID); err != nil {
			telemetry.Error("queue.job_failed", map[string]any{
				"document_id": msg.DocumentID,
				"request_id":  msg.RequestID,
				"err":         err.Error(),
			})
		}
	}()
	return nil
}

var _ Client = (*InProcessDispatcher)(nil)
