package queue

import "context"

// Client dispatches analysis jobs. Implementations are the in-process
// dispatcher (best-effort, default) and SQS (durable across restarts).
type Client interface {
	Send(ctx context.Context, msg Message) error
}
