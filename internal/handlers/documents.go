package handlers

import (
	"archive/zip"
	"errors"
	"io"
	"net/http"
	"strconv"

	"docugen/internal/services"
	"docugen/internal/transform"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documents *services.DocumentService
	batches   *services.BatchService
}

func NewDocumentHandler(documents *services.DocumentService, batches *services.BatchService) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		batches:   batches,
	}
}

// Generate produces one document from a template and submitted values.
func (h *DocumentHandler) Generate(c *gin.Context) {
	var req services.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	req.TemplateID = c.Param("templateId")

	if req.UserName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_name is required"})
		return
	}

	document, err := h.documents.Generate(c.Request.Context(), req)
	if err != nil {
		var validationErr *transform.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      "Validation failed",
				"violations": validationErr.Violations,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate document"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"document": document,
		"message":  "Document generated successfully",
	})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	document, err := h.documents.GetDocument(c.Param("documentId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	c.JSON(http.StatusOK, document)
}

func (h *DocumentHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	documents, err := h.documents.ListDocuments(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": documents, "total": len(documents)})
}

// Download streams a generated document.
func (h *DocumentHandler) Download(c *gin.Context) {
	rc, document, err := h.documents.DocumentReader(c.Request.Context(), c.Param("documentId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="`+document.Filename+`"`)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		// Headers are already out; nothing useful to send.
		c.Abort()
	}
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documents.DeleteDocument(c.Request.Context(), c.Param("documentId")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

// GenerateBatch produces one document per selected template from a single
// merged input set. The response reports per-template outcomes.
func (h *DocumentHandler) GenerateBatch(c *gin.Context) {
	var req services.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if req.UserName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_name is required"})
		return
	}
	if len(req.TemplateIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template_ids is required"})
		return
	}

	job, documents, err := h.batches.Process(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process batch"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"batch":     job,
		"documents": documents,
	})
}

// BatchStatus returns one batch job with its documents.
func (h *DocumentHandler) BatchStatus(c *gin.Context) {
	job, err := h.batches.GetBatch(c.Param("batchId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
		return
	}

	documents, err := h.batches.BatchDocuments(job.BatchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list batch documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"batch": job, "documents": documents})
}

// BatchDownload streams every document of a batch as one ZIP archive.
func (h *DocumentHandler) BatchDownload(c *gin.Context) {
	job, err := h.batches.GetBatch(c.Param("batchId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
		return
	}

	documents, err := h.batches.BatchDocuments(job.BatchID)
	if err != nil || len(documents) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Batch has no documents"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="batch_`+job.BatchID+`.zip"`)
	c.Header("Content-Type", "application/zip")
	c.Status(http.StatusOK)

	zw := zip.NewWriter(c.Writer)
	defer zw.Close()

	for _, document := range documents {
		rc, _, err := h.documents.DocumentReader(c.Request.Context(), document.ID)
		if err != nil {
			continue
		}

		entry, err := zw.Create(document.Filename)
		if err != nil {
			rc.Close()
			return
		}
		if _, err := io.Copy(entry, rc); err != nil {
			rc.Close()
			return
		}
		rc.Close()
	}
}
