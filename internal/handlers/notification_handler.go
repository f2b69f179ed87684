package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/services"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notificationService services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GetNotificationsByStatus handles GET /api/v1/notifications/status/:status
func (h *NotificationHandler) GetNotificationsByStatus(c *gin.Context) {
	status := models.NotificationStatus(c.Param("status"))
	if status != models.NotificationStatusSent && status != models.NotificationStatusFailed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification status"})
		return
	}

	page, limit := paginationParams(c)

	notifications, err := h.notificationService.GetNotificationsByStatus(c.Request.Context(), status, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"page":          page,
		"limit":         limit,
	})
}

// GetNotificationCount handles GET /api/v1/notifications/count
func (h *NotificationHandler) GetNotificationCount(c *gin.Context) {
	count, err := h.notificationService.GetNotificationCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
