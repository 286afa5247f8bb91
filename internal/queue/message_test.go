package queue

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		DocumentID: "doc-123",
		RequestID:  "request-456",
		EnqueuedAt: "2026-01-30T22:00:00Z",
		Version:    1,
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if !reflect.DeepEqual(got, msg) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	if _, err := DecodeMessage([]byte("not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

type recordingProcessor struct {
	mu   sync.Mutex
	ids  []string
	done chan struct{}
}

func (p *recordingProcessor) ProcessDocument(ctx context.Context, documentID string) error {
	p.mu.Lock()
	p.ids = append(p.ids, documentID)
	p.mu.Unlock()
	close(p.done)
	return nil
}

func TestInProcessDispatcherRunsJob(t *testing.T) {
	proc := &recordingProcessor{done: make(chan struct{})}
	d := NewInProcessDispatcher(proc)

	err := d.Send(context.Background(), Message{DocumentID: "doc-1", RequestID: "req-1", Version: 1})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case <-proc.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("job did not run")
	}

	proc.mu.Lock()
	defer proc.mu.Unlock()
	if len(proc.ids) != 1 || proc.ids[0] != "doc-1" {
		t.Fatalf("unexpected processed ids: %v", proc.ids)
	}
}

func TestInProcessDispatcherRejectsEmptyDocumentID(t *testing.T) {
	d := NewInProcessDispatcher(&recordingProcessor{done: make(chan struct{})})
	if err := d.Send(context.Background(), Message{}); err == nil {
		t.Fatalf("expected error for empty document id")
	}
}
