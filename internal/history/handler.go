package history

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paragraph-backend/internal/shared/server/respond"
)

// Handler exposes the history endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/history", h.list)
	rg.DELETE("/history", h.clear)
}

func (h *Handler) list(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "history_list_failed", "failed to load history", nil)
		return
	}
	if records == nil {
		records = []Record{}
	}
	respond.OK(c, gin.H{"history": records})
}

func (h *Handler) clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context()); err != nil {
		respond.Error(c, http.StatusInternalServerError, "history_clear_failed", "failed to clear history", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
