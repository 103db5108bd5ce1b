package journals

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"paragraph-backend/internal/shared/server/respond"
)

// Handler exposes the journal endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/journals", h.list)
	rg.POST("/journals", h.register)
	rg.GET("/journals/export", h.export)
	rg.POST("/journals/import", h.importProfiles)
	rg.GET("/journals/:name", h.get)
	rg.DELETE("/journals/:name", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	profiles, err := h.svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "journals_list_failed", "failed to list journals", nil)
		return
	}
	if profiles == nil {
		profiles = []Profile{}
	}
	respond.OK(c, gin.H{"journals": profiles})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("name"))
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "journal_not_found", "journal does not exist", nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "journal_get_failed", "failed to load journal", nil)
		return
	}
	respond.OK(c, p)
}

type registerRequest struct {
	Name              string `json:"name"`
	FullName          string `json:"full_name"`
	AimsScope         string `json:"aims_scope"`
	CustomMethodology string `json:"custom_methodology"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "request body is not valid JSON", nil)
		return
	}
	p, err := h.svc.Register(c.Request.Context(), req.Name, req.FullName, req.AimsScope, req.CustomMethodology)
	if errors.Is(err, ErrInvalidInput) {
		respond.Error(c, http.StatusBadRequest, "invalid_journal", err.Error(), nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "journal_register_failed", err.Error(), nil)
		return
	}
	respond.JSON(c, http.StatusCreated, p)
}

func (h *Handler) remove(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("name"))
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "journal_not_found", "journal does not exist", nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "journal_delete_failed", "failed to delete journal", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) export(c *gin.Context) {
	profiles, err := h.svc.Export(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "journals_export_failed", "failed to export journals", nil)
		return
	}
	respond.OK(c, profiles)
}

type importRequest struct {
	Journals []Profile `json:"journals"`
	Merge    bool      `json:"merge"`
}

func (h *Handler) importProfiles(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "request body is not valid JSON", nil)
		return
	}
	count, err := h.svc.Import(c.Request.Context(), req.Journals, req.Merge)
	if errors.Is(err, ErrInvalidInput) {
		respond.Error(c, http.StatusBadRequest, "invalid_journal", err.Error(), nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "journals_import_failed", "failed to import journals", nil)
		return
	}
	respond.OK(c, gin.H{"imported": count})
}
