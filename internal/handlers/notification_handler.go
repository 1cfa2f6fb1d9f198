package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/visaflow/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationHandler serves the logged-in user's notification feed
type NotificationHandler struct {
	db *gorm.DB
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

// List returns the user's notifications, unread first
func (h *NotificationHandler) List(c *gin.Context) {
	var notifications []models.Notification
	err := h.db.Where("user_id = ?", currentUserID(c)).
		Order("is_read ASC, created_at DESC").
		Limit(100).
		Find(&notifications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead flags one of the user's notifications as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := h.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, currentUserID(c)).
		Update("is_read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
