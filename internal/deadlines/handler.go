package deadlines

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"visadocs-backend/internal/shared/server/middleware"
	"visadocs-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches deadline routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/deadlines", h.list)
	rg.POST("/deadlines", h.create)
	rg.POST("/deadlines/:id/toggle", h.toggle)
	rg.DELETE("/deadlines/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		// Queries degrade to empty results without an identity.
		respond.OK(c, []DeadlineResponse{})
		return
	}

	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list deadlines", nil)
		return
	}

	resp := make([]DeadlineResponse, 0, len(items))
	for _, d := range items {
		resp = append(resp, toResponse(d))
	}
	respond.OK(c, resp)
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Importance  string `json:"importance"`
}

func (h *Handler) create(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	d, err := h.Svc.Create(c.Request.Context(), userID, req.Title, req.Description, req.DueDate, req.Importance)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create deadline", nil)
		}
		return
	}

	respond.Created(c, toResponse(d))
}

func (h *Handler) toggle(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	d, err := h.Svc.ToggleCompletion(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "deadline not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to toggle deadline", nil)
		}
		return
	}

	respond.OK(c, toResponse(d))
}

func (h *Handler) delete(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "deadline not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete deadline", nil)
		}
		return
	}

	respond.JSON(c, http.StatusNoContent, nil)
}
