package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/visaflow/backend/internal/models"
	"github.com/visaflow/backend/internal/services/lifecycle"
	"github.com/visaflow/backend/internal/services/payment"
	"github.com/visaflow/backend/internal/workflow"
)

// currentUserID pulls the authenticated user's id out of the gin
// context. The auth middleware guarantees it is present on protected
// routes.
func currentUserID(c *gin.Context) uuid.UUID {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil
	}
	return value.(uuid.UUID)
}

func currentUserType(c *gin.Context) models.UserType {
	value, exists := c.Get("user_type")
	if !exists {
		return ""
	}
	return value.(models.UserType)
}

// parseIDParam parses the :id route parameter.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// respondLifecycleError maps service errors onto the HTTP error
// taxonomy: invalid transitions are conflicts, ownership and role
// violations are forbidden, unknown rows are not found, anything else
// is a generic internal error.
func respondLifecycleError(c *gin.Context, err error) {
	var invalid *workflow.InvalidTransitionError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusConflict, gin.H{"error": invalid.Error()})
	case errors.Is(err, lifecycle.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to perform this action"})
	case errors.Is(err, lifecycle.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
	case errors.Is(err, lifecycle.ErrBadAssignee):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Assignee must be an active employee"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// respondPaymentError maps payment tracker errors onto HTTP statuses.
func respondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, payment.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment order not found"})
	case errors.Is(err, payment.ErrOrderOpen):
		c.JSON(http.StatusConflict, gin.H{"error": "A payment is already pending for this application"})
	case errors.Is(err, payment.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed"})
	case errors.Is(err, payment.ErrOrderClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "Payment order is no longer open"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
