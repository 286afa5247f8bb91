package uploads

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"visadocs-backend/internal/shared/server/middleware"
	"visadocs-backend/internal/shared/server/respond"
	"visadocs-backend/internal/shared/storage/object"
	"visadocs-backend/internal/shared/telemetry"
	"visadocs-backend/internal/shared/util"
)

const maxUploadBytes = 10 << 20

var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
}

// Handler issues upload targets and, for the local store, accepts and serves
// the bytes directly.
type Handler struct {
	Store object.ObjectStore
}

// NewHandler constructs a Handler.
func NewHandler(store object.ObjectStore) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/presign", h.presign)
	rg.PUT("/uploads/local/*fileId", h.putLocal)
	rg.GET("/files/*fileId", h.getFile)
}

type presignRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type presignResponse struct {
	UploadURL        string `json:"uploadUrl"`
	FileID           string `json:"fileId"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

func (h *Handler) presign(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.FileName = strings.TrimSpace(req.FileName)
	req.ContentType = strings.TrimSpace(req.ContentType)

	if req.FileName == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fileName is required", nil)
		return
	}
	if _, ok := allowedContentTypes[req.ContentType]; !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "contentType is not allowed", nil)
		return
	}
	if req.SizeBytes <= 0 || req.SizeBytes > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "sizeBytes exceeds limit", nil)
		return
	}

	target, err := h.Store.GenerateUploadTarget(c.Request.Context(), userID, req.FileName)
	if err != nil {
		telemetry.Error("uploads.presign_failed", map[string]any{
			"err":         err.Error(),
			"contentType": req.ContentType,
			"sizeBytes":   req.SizeBytes,
			"request_id":  c.GetString("requestId"),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate upload url", nil)
		return
	}

	respond.JSON(c, http.StatusOK, presignResponse{
		UploadURL:        target.URL,
		FileID:           target.FileID,
		ExpiresInSeconds: int64(target.ExpiresIn.Seconds()),
	})
}

// putLocal accepts file bytes for a previously issued local upload target.
func (h *Handler) putLocal(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	fileID, ok := h.ownedFileID(c, userID)
	if !ok {
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	defer body.Close()

	written, err := h.Store.SaveWithKey(c.Request.Context(), fileID, c.ContentType(), body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file exceeds size limit", nil)
			return
		}
		telemetry.Error("uploads.save_failed", map[string]any{
			"err":        err.Error(),
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store file", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"fileId": fileID, "sizeBytes": written})
}

// getFile streams a stored object back to its owner.
func (h *Handler) getFile(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	fileID, ok := h.ownedFileID(c, userID)
	if !ok {
		return
	}

	rc, err := h.Store.Open(c.Request.Context(), fileID)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read file", nil)
		return
	}
	defer rc.Close()

	c.Status(http.StatusOK)
	c.Header("Content-Type", "application/octet-stream")
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Warn("uploads.stream_interrupted", map[string]any{
			"err":        err.Error(),
			"request_id": c.GetString("requestId"),
		})
	}
}

// ownedFileID extracts the storage key from the wildcard path and verifies it
// sits under the caller's hashed namespace.
func (h *Handler) ownedFileID(c *gin.Context, userID string) (string, bool) {
	fileID := strings.TrimPrefix(c.Param("fileId"), "/")
	if fileID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fileId is required", nil)
		return "", false
	}
	if !strings.HasPrefix(fileID, util.HashUserKey(userID)+"/") {
		respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		return "", false
	}
	return fileID, true
}
