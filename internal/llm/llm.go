package llm

import (
	"context"
	"errors"
)

// Client abstracts LLM providers for document analysis.
type Client interface {
	AnalyzeDocument(ctx context.Context, input AnalyzeInput) (string, error)
}

// AnalyzeInput captures the inputs needed for document analysis. Data is the
// raw file content; the provider handles encoding.
type AnalyzeInput struct {
	MimeType string
	Data     []byte
	Prompt   string
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// AnalyzeDocument returns ErrNotImplemented.
func (PlaceholderClient) AnalyzeDocument(ctx context.Context, input AnalyzeInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotImplemented
}
