package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"docugen/internal/models"
	"docugen/internal/services"

	"github.com/gin-gonic/gin"
)

type LogsHandler struct {
	activityLogService *services.ActivityLogService
}

func NewLogsHandler(activityLogService *services.ActivityLogService) *LogsHandler {
	return &LogsHandler{
		activityLogService: activityLogService,
	}
}

type LogsResponse struct {
	Logs       interface{} `json:"logs"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// GetAllLogs returns activity logs with pagination
func (h *LogsHandler) GetAllLogs(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "50")
	pageStr := c.DefaultQuery("page", "1")
	path := c.Query("path")

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil || page <= 0 {
		page = 1
	}

	offset := (page - 1) * limit

	var logs []models.ActivityLog
	var total int64

	if path != "" {
		logs, total, err = h.activityLogService.GetLogsByPath(path, limit, offset)
	} else {
		logs, total, err = h.activityLogService.GetAllLogs(limit, offset)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, LogsResponse{
		Logs:       logs,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	})
}

// GetHistory returns POST submissions with the data users sent
func (h *LogsHandler) GetHistory(c *gin.Context) {
	logs, _, err := h.activityLogService.GetAllLogs(100, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	history := make([]gin.H, 0)
	for _, log := range logs {
		if log.Method != "POST" || len(log.RequestBody) == 0 {
			continue
		}

		entry := gin.H{
			"timestamp":     log.CreatedAt,
			"path":          log.Path,
			"ip_address":    log.IPAddress,
			"user_agent":    log.UserAgent,
			"response_time": log.ResponseTime,
		}

		var userData interface{}
		if err := json.Unmarshal([]byte(log.RequestBody), &userData); err == nil {
			entry["user_data"] = userData
		} else {
			entry["raw_body"] = log.RequestBody
		}
		history = append(history, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"history": history,
		"total":   len(history),
	})
}
