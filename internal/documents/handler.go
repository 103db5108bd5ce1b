package documents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"paragraph-backend/internal/shared/server/respond"
	"paragraph-backend/internal/shared/telemetry"
)

// Handler exposes the document upload and retrieval endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.GET("/documents/:id/text", h.text)
	rg.DELETE("/documents/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "missing_file", "multipart field 'file' is required", nil)
		return
	}
	if fileHeader.Size > MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_file", "could not read uploaded file", nil)
		return
	}
	defer f.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	doc, err := h.svc.Upload(c.Request.Context(), fileHeader.Filename, mimeType, f)
	if errors.Is(err, ErrUnsupportedType) {
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "only PDF, plain text and markdown are supported", nil)
		return
	}
	if errors.Is(err, ErrTooLarge) {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit", nil)
		return
	}
	if err != nil {
		telemetry.Error("documents.upload_failed", map[string]any{"file": fileHeader.Filename, "error": err.Error()})
		respond.Error(c, http.StatusUnprocessableEntity, "upload_failed", "could not process the document", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, doc)
}

func (h *Handler) list(c *gin.Context) {
	docs, err := h.svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "documents_list_failed", "failed to list documents", nil)
		return
	}
	respond.OK(c, gin.H{"documents": docs})
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "document_not_found", "document does not exist", nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "document_get_failed", "failed to load document", nil)
		return
	}
	respond.OK(c, doc)
}

func (h *Handler) text(c *gin.Context) {
	text, err := h.svc.GetText(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "document_not_found", "document does not exist", nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "document_text_failed", "failed to load extracted text", nil)
		return
	}
	respond.OK(c, gin.H{"text": text})
}

func (h *Handler) remove(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "document_not_found", "document does not exist", nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "document_delete_failed", "failed to delete document", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
