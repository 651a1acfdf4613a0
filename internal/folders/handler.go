package folders

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"diagnosis-backend/internal/shared/server/middleware"
	"diagnosis-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the folders service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches folder routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/folders", h.create)
	rg.GET("/folders", h.list)
	rg.PATCH("/folders/:id", h.rename)
	rg.DELETE("/folders/:id", h.delete)
}

type folderRequest struct {
	Name string `json:"name"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	folder, err := h.Svc.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	respond.JSON(c, http.StatusCreated, folder)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	list, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list folders", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"folders": list})
}

func (h *Handler) rename(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	folder, err := h.Svc.Rename(c.Request.Context(), userID, c.Param("id"), req.Name)
	if err != nil {
		h.respondError(c, err, "failed to rename folder")
		return
	}
	respond.JSON(c, http.StatusOK, folder)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete folder")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "folder not found", nil)
	case errors.Is(err, ErrNotEmpty):
		respond.Error(c, http.StatusConflict, "folder_not_empty", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
