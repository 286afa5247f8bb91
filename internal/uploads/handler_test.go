package uploads

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"visadocs-backend/internal/shared/server/middleware"
	localstore "visadocs-backend/internal/shared/storage/object/local"
	"visadocs-backend/internal/shared/util"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := localstore.New(t.TempDir(), "http://localhost:8080")
	handler := NewHandler(store)

	r := gin.New()
	r.Use(middleware.Auth())
	api := r.Group("/api/v1")
	handler.RegisterRoutes(api)
	return r
}

func presignFile(t *testing.T, router *gin.Engine, guestID string) presignResponse {
	t.Helper()

	payload := `{"fileName":"i94.pdf","contentType":"application/pdf","sizeBytes":2048}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/presign", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out presignResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode presign response: %v", err)
	}
	return out
}

func TestPresignIssuesNamespacedFileID(t *testing.T) {
	router := newTestRouter(t)

	out := presignFile(t, router, "test-guest")
	if out.UploadURL == "" || out.ExpiresInSeconds <= 0 {
		t.Fatalf("unexpected presign response: %+v", out)
	}
	wantPrefix := util.HashUserKey("guest:test-guest") + "/"
	if !strings.HasPrefix(out.FileID, wantPrefix) {
		t.Fatalf("expected fileId under user namespace, got %s", out.FileID)
	}
	if !strings.HasSuffix(out.FileID, "_i94.pdf") {
		t.Fatalf("expected sanitized file name suffix, got %s", out.FileID)
	}
}

func TestPresignRequiresIdentity(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"fileName":"i94.pdf","contentType":"application/pdf","sizeBytes":2048}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/presign", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestPresignValidation(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name    string
		payload string
	}{
		{name: "missing file name", payload: `{"contentType":"application/pdf","sizeBytes":10}`},
		{name: "disallowed content type", payload: `{"fileName":"a.zip","contentType":"application/zip","sizeBytes":10}`},
		{name: "zero size", payload: `{"fileName":"a.pdf","contentType":"application/pdf","sizeBytes":0}`},
		{name: "oversize", payload: `{"fileName":"a.pdf","contentType":"application/pdf","sizeBytes":10485770}`},
	}
	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/presign", strings.NewReader(tt.payload))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Guest-Id", "test-guest")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", resp.Code, resp.Body.String())
			}
		})
	}
}

func TestLocalUploadRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	out := presignFile(t, router, "test-guest")
	content := []byte("%PDF-1.4 fake document body")

	reqPut := httptest.NewRequest(http.MethodPut, "/api/v1/uploads/local/"+out.FileID, bytes.NewReader(content))
	reqPut.Header.Set("Content-Type", "application/pdf")
	reqPut.Header.Set("X-Guest-Id", "test-guest")
	respPut := httptest.NewRecorder()
	router.ServeHTTP(respPut, reqPut)

	if respPut.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", respPut.Code, respPut.Body.String())
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/files/"+out.FileID, nil)
	reqGet.Header.Set("X-Guest-Id", "test-guest")
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}
	if !bytes.Equal(respGet.Body.Bytes(), content) {
		t.Fatalf("downloaded bytes differ from upload")
	}
}

func TestFileAccessScopedToOwner(t *testing.T) {
	router := newTestRouter(t)

	out := presignFile(t, router, "test-guest")

	reqPut := httptest.NewRequest(http.MethodPut, "/api/v1/uploads/local/"+out.FileID, strings.NewReader("data"))
	reqPut.Header.Set("X-Guest-Id", "test-guest")
	respPut := httptest.NewRecorder()
	router.ServeHTTP(respPut, reqPut)
	if respPut.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respPut.Code)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/files/"+out.FileID, nil)
	reqGet.Header.Set("X-Guest-Id", "other-guest")
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for foreign file, got %d", respGet.Code)
	}
}
