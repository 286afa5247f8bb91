package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"visadocs-backend/internal/llm"
)

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "gemini-2.5-flash"); err == nil {
		t.Fatalf("expected error for missing api key")
	}
	if _, err := NewClient("key", " "); err == nil {
		t.Fatalf("expected error for missing model")
	}
}

func TestAnalyzeDocumentSendsInlineData(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"summary\":\"ok\"}"}]}}]}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", "gemini-2.5-flash")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.baseURL = srv.URL

	out, err := client.AnalyzeDocument(context.Background(), llm.AnalyzeInput{
		MimeType: "application/pdf",
		Data:     []byte("%PDF-1.4 fake"),
		Prompt:   "Analyze this immigration document",
	})
	if err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}
	if out != `{"summary":"ok"}` {
		t.Fatalf("unexpected output: %s", out)
	}
	if !strings.HasSuffix(gotPath, "/gemini-2.5-flash:generateContent") {
		t.Fatalf("unexpected path: %s", gotPath)
	}

	contents := gotBody["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	inline := parts[0].(map[string]any)["inline_data"].(map[string]any)
	if inline["mime_type"] != "application/pdf" {
		t.Fatalf("unexpected mime type: %v", inline["mime_type"])
	}
	decoded, err := base64.StdEncoding.DecodeString(inline["data"].(string))
	if err != nil || string(decoded) != "%PDF-1.4 fake" {
		t.Fatalf("unexpected inline data: %v %q", err, decoded)
	}
	if parts[1].(map[string]any)["text"] != "Analyze this immigration document" {
		t.Fatalf("unexpected prompt part: %v", parts[1])
	}
}

func TestAnalyzeDocumentSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", "gemini-2.5-flash")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.baseURL = srv.URL

	_, err = client.AnalyzeDocument(context.Background(), llm.AnalyzeInput{
		MimeType: "application/pdf",
		Data:     []byte("x"),
		Prompt:   "p",
	})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestAnalyzeDocumentEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", "gemini-2.5-flash")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.baseURL = srv.URL

	_, err = client.AnalyzeDocument(context.Background(), llm.AnalyzeInput{
		MimeType: "application/pdf",
		Data:     []byte("x"),
		Prompt:   "p",
	})
	if err == nil || !strings.Contains(err.Error(), "missing candidates") {
		t.Fatalf("expected missing candidates error, got %v", err)
	}
}

func TestAnalyzeDocumentRejectsEmptyData(t *testing.T) {
	client, err := NewClient("test-key", "gemini-2.5-flash")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.AnalyzeDocument(context.Background(), llm.AnalyzeInput{Prompt: "p"}); err == nil {
		t.Fatalf("expected error for empty data")
	}
}
