package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/visaflow/backend/internal/services/settings"
)

// SettingsHandler serves the admin settings console, including the
// notification channel toggles.
type SettingsHandler struct {
	settings *settings.Service
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(svc *settings.Service) *SettingsHandler {
	return &SettingsHandler{settings: svc}
}

// List returns every setting row
func (h *SettingsHandler) List(c *gin.Context) {
	rows, err := h.settings.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": rows})
}

// SetSettingRequest represents a single setting write
type SetSettingRequest struct {
	Key         string `json:"key" binding:"required"`
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
}

// Set upserts one setting. Writing a notification toggle refreshes the
// dispatcher's channel configuration immediately.
func (h *SettingsHandler) Set(c *gin.Context) {
	var req SetSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setting, err := h.settings.Set(c.Request.Context(), req.Key, req.Value, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save setting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"setting": setting})
}
