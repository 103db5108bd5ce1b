package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paragraph-backend/internal/shared/server/respond"
)

// Handler exposes the settings endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings", h.get)
	rg.PUT("/settings", h.update)
}

func (h *Handler) get(c *gin.Context) {
	eff, err := h.svc.Get(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "settings_get_failed", "failed to load settings", nil)
		return
	}
	respond.OK(c, eff)
}

func (h *Handler) update(c *gin.Context) {
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "request body is not valid JSON", nil)
		return
	}
	eff, err := h.svc.Update(c.Request.Context(), patch)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "settings_update_failed", "failed to save settings", nil)
		return
	}
	respond.OK(c, eff)
}
