package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the read-only questionnaire.
type Handler struct {
	Catalog *Catalog
}

// NewHandler constructs a Handler.
func NewHandler(cat *Catalog) *Handler {
	return &Handler{Catalog: cat}
}

// RegisterRoutes attaches catalog routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/catalog", h.get)
}

func (h *Handler) get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"questions": h.Catalog.Questions,
		"topics":    h.Catalog.Topics(),
		"standards": h.Catalog.Standards,
	})
}
