package analysis

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"paragraph-backend/internal/shared/server/respond"
	"paragraph-backend/internal/shared/telemetry"
)

// Handler exposes the synchronous analyze endpoint and the async job API.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.POST("/analyses", h.submit)
	rg.GET("/analyses", h.list)
	rg.GET("/analyses/:id", h.get)
}

type analyzeRequest struct {
	Text        string `json:"text"`
	JournalName string `json:"journal_name"`
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "request body is not valid JSON", nil)
		return
	}

	result, err := h.svc.Analyze(c.Request.Context(), req.Text, req.JournalName)
	if errors.Is(err, ErrEmptyText) {
		respond.Error(c, http.StatusBadRequest, "empty_text", "text is required", nil)
		return
	}
	if err != nil {
		telemetry.Error("analysis.analyze_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "analyze_failed", "analysis failed", nil)
		return
	}
	respond.OK(c, result)
}

type submitRequest struct {
	Text        string  `json:"text"`
	JournalName string  `json:"journal_name"`
	DocumentID  *string `json:"document_id"`
}

func (h *Handler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "request body is not valid JSON", nil)
		return
	}

	job, err := h.svc.Submit(c.Request.Context(), req.Text, req.JournalName, req.DocumentID)
	if errors.Is(err, ErrEmptyText) {
		respond.Error(c, http.StatusBadRequest, "empty_text", "text or document_id is required", nil)
		return
	}
	if errors.Is(err, ErrDocumentUnavailable) {
		respond.Error(c, http.StatusBadRequest, "invalid_document", "document text could not be loaded", nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "submit_failed", "failed to submit analysis", nil)
		return
	}
	respond.JSON(c, http.StatusAccepted, job)
}

func (h *Handler) get(c *gin.Context) {
	job, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrAnalysisNotFound) {
		respond.Error(c, http.StatusNotFound, "analysis_not_found", "analysis does not exist", nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "analysis_get_failed", "failed to load analysis", nil)
		return
	}
	respond.OK(c, job)
}

func (h *Handler) list(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	jobs, err := h.svc.List(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "analyses_list_failed", "failed to list analyses", nil)
		return
	}
	if jobs == nil {
		jobs = []Analysis{}
	}
	respond.OK(c, gin.H{"analyses": jobs})
}
