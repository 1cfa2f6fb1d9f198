package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/visaflow/backend/internal/models"
	"github.com/visaflow/backend/internal/services/payment"
	"gorm.io/gorm"
)

// PaymentHandler handles fee collection for applications
type PaymentHandler struct {
	db      *gorm.DB
	tracker *payment.Tracker
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *gorm.DB, tracker *payment.Tracker) *PaymentHandler {
	return &PaymentHandler{db: db, tracker: tracker}
}

// CreatePayment creates a payment order for the visa type's fee and
// returns the gateway-compatible reference for the client to complete
// payment with.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var app models.VisaApplication
	if err := h.db.Preload("VisaType").First(&app, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	if app.CustomerID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to pay for this application"})
		return
	}
	if app.VisaType == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	order, err := h.tracker.CreateOrder(c.Request.Context(), app.ID, app.VisaType.Fee, app.VisaType.Currency)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// VerifyPaymentRequest is the gateway callback payload relayed by the
// client after completing payment.
type VerifyPaymentRequest struct {
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
}

// VerifyPayment validates the gateway signature and marks the order
// paid. The paid event flows to the lifecycle service through the
// tracker's subscription, not through this handler.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.tracker.Verify(c.Request.Context(), id, req.GatewayPaymentID, req.Signature)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}
