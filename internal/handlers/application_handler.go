package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/visaflow/backend/internal/models"
	"github.com/visaflow/backend/internal/utils"
	"gorm.io/gorm"
)

// LifecycleService is the slice of the lifecycle service the handler
// depends on, kept as an interface so handler tests can mock it.
type LifecycleService interface {
	Submit(ctx context.Context, applicationID, actorID uuid.UUID) (*models.VisaApplication, error)
	UpdateStatus(ctx context.Context, applicationID, actorID uuid.UUID, target models.ApplicationStatus, comments string) (*models.VisaApplication, error)
	Assign(ctx context.Context, applicationID, employeeID, actorID uuid.UUID) (*models.VisaApplication, error)
}

// ApplicationHandler handles visa application requests
type ApplicationHandler struct {
	db        *gorm.DB
	lifecycle LifecycleService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(db *gorm.DB, lifecycle LifecycleService) *ApplicationHandler {
	return &ApplicationHandler{db: db, lifecycle: lifecycle}
}

// CreateApplicationRequest represents the request body for creating a draft
type CreateApplicationRequest struct {
	CountryID  uuid.UUID `json:"country_id" binding:"required"`
	VisaTypeID uuid.UUID `json:"visa_type_id" binding:"required"`
	Purpose    string    `json:"purpose"`
	TravelDate string    `json:"travel_date"` // RFC 3339 date
	Priority   string    `json:"priority"`
}

// Create creates a draft application for the authenticated customer
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var visaType models.VisaType
	if err := h.db.First(&visaType, "id = ? AND country_id = ? AND is_active = true", req.VisaTypeID, req.CountryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown visa type for country"})
		return
	}

	app := models.VisaApplication{
		ApplicationNumber: utils.GenerateReference("VA"),
		CustomerID:        currentUserID(c),
		CountryID:         req.CountryID,
		VisaTypeID:        req.VisaTypeID,
		Status:            models.StatusDraft,
		Priority:          models.PriorityNormal,
		Purpose:           req.Purpose,
	}
	if req.Priority != "" {
		app.Priority = models.ApplicationPriority(req.Priority)
	}
	if req.TravelDate != "" {
		travelDate, err := time.Parse("2006-01-02", req.TravelDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "travel_date must be YYYY-MM-DD"})
			return
		}
		app.TravelDate = &travelDate
	}

	if err := h.db.Create(&app).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"application": app})
}

// List returns applications scoped by role: customers see their own,
// employees see their assignments, admins see everything.
func (h *ApplicationHandler) List(c *gin.Context) {
	query := h.db.Preload("Country").Preload("VisaType").Order("created_at DESC")

	switch currentUserType(c) {
	case models.UserTypeCustomer:
		query = query.Where("customer_id = ?", currentUserID(c))
	case models.UserTypeEmployee:
		query = query.Where("assigned_to = ?", currentUserID(c))
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var apps []models.VisaApplication
	if err := query.Find(&apps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list applications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// Get returns one application, with its status history. Customers may
// only fetch their own.
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var app models.VisaApplication
	err := h.db.Preload("Country").Preload("VisaType").Preload("Assignee").
		First(&app, "id = ?", id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	if currentUserType(c) == models.UserTypeCustomer && app.CustomerID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to view this application"})
		return
	}

	var history []models.ApplicationStatusHistory
	h.db.Where("application_id = ?", app.ID).Order("created_at ASC").Find(&history)

	c.JSON(http.StatusOK, gin.H{"application": app, "history": history})
}

// Submit moves the customer's application into the review queue
func (h *ApplicationHandler) Submit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	app, err := h.lifecycle.Submit(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

// UpdateStatusRequest represents a review decision
type UpdateStatusRequest struct {
	Status   models.ApplicationStatus `json:"status" binding:"required"`
	Comments string                   `json:"comments"`
}

// UpdateStatus applies a review decision (staff only, enforced by route
// middleware and re-checked in the service)
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.lifecycle.UpdateStatus(c.Request.Context(), id, currentUserID(c), req.Status, req.Comments)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

// AssignRequest represents an assignment
type AssignRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
}

// Assign routes an application to an employee (admin only)
func (h *ApplicationHandler) Assign(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.lifecycle.Assign(c.Request.Context(), id, req.EmployeeID, currentUserID(c))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}
