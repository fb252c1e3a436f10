package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"docugen/internal/docx"
	"docugen/internal/services"

	"github.com/gin-gonic/gin"
)

// Uploaded templates are capped at 10 MB.
const maxTemplateSize = 10 << 20

type TemplateHandler struct {
	templates *services.TemplateService
}

func NewTemplateHandler(templates *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// Upload accepts a multipart .docx upload plus template metadata.
func (h *TemplateHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("template")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	if filepath.Ext(header.Filename) != ".docx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only .docx files are supported"})
		return
	}
	if header.Size > maxTemplateSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template file is too large"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxTemplateSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	if len(data) > maxTemplateSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template file is too large"})
		return
	}

	template, err := h.templates.UploadTemplate(
		c.Request.Context(),
		data,
		header.Filename,
		c.PostForm("name"),
		c.PostForm("type"),
		c.PostForm("description"),
	)
	if err != nil {
		var extractErr *docx.ExtractionError
		if errors.As(err, &extractErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to process document: " + extractErr.Reason})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload template"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"template": template,
		"message":  "Template uploaded successfully",
	})
}

// List returns templates; non-admin callers see active templates only.
func (h *TemplateHandler) List(c *gin.Context) {
	activeOnly := !strings.EqualFold(c.Query("include_inactive"), "true")

	templates, err := h.templates.ListTemplates(activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list templates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates, "total": len(templates)})
}

func (h *TemplateHandler) Get(c *gin.Context) {
	template, err := h.templates.GetTemplate(c.Param("templateId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, template)
}

// Fields returns the merged, form-ready field list for one template.
func (h *TemplateHandler) Fields(c *gin.Context) {
	views, err := h.templates.GetFields(c.Param("templateId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": views})
}

// MergedFields returns one merged field list across several templates,
// driven by a comma-separated ids query parameter.
func (h *TemplateHandler) MergedFields(c *gin.Context) {
	raw := c.Query("ids")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ids are required"})
		return
	}

	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ids are required"})
		return
	}

	views, err := h.templates.GetMergedFields(ids)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": views})
}

// UpdateField applies admin edits to one field's metadata.
func (h *TemplateHandler) UpdateField(c *gin.Context) {
	fieldID, err := strconv.ParseUint(c.Param("fieldId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field id"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	field, err := h.templates.UpdateField(c.Param("templateId"), uint(fieldID), updates)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Field not found"})
		return
	}
	c.JSON(http.StatusOK, field)
}

// Update applies admin edits to template metadata.
func (h *TemplateHandler) Update(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	template, err := h.templates.UpdateTemplate(c.Param("templateId"), updates)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, template)
}

// SetActive toggles a template's public visibility.
func (h *TemplateHandler) SetActive(c *gin.Context) {
	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_active is required"})
		return
	}

	if err := h.templates.SetActive(c.Param("templateId"), *req.IsActive); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template updated"})
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.DeleteTemplate(c.Request.Context(), c.Param("templateId")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}

// Download streams the original template file.
func (h *TemplateHandler) Download(c *gin.Context) {
	data, template, err := h.templates.TemplateFile(c.Request.Context(), c.Param("templateId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+template.Name+`.docx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", data)
}
