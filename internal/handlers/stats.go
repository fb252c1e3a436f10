package handlers

import (
	"net/http"

	"docugen/internal"
	"docugen/internal/models"

	"github.com/gin-gonic/gin"
)

// GetStats reports record counts for the admin dashboard.
func GetStats(c *gin.Context) {
	var templates, activeTemplates, documents, batches int64

	if err := internal.DB.Model(&models.DocumentTemplate{}).Count(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}
	internal.DB.Model(&models.DocumentTemplate{}).Where("is_active = ?", true).Count(&activeTemplates)
	internal.DB.Model(&models.GeneratedDocument{}).Count(&documents)
	internal.DB.Model(&models.BatchJob{}).Count(&batches)

	c.JSON(http.StatusOK, gin.H{
		"templates":           templates,
		"active_templates":    activeTemplates,
		"generated_documents": documents,
		"batch_jobs":          batches,
	})
}
