package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/visaflow/backend/internal/models"
	"github.com/visaflow/backend/internal/services/notify"
	"github.com/visaflow/backend/internal/utils"
	"gorm.io/gorm"
)

// AdminUserHandler manages employee and customer accounts from the
// admin console. Accounts are status-flagged, never hard-deleted.
type AdminUserHandler struct {
	db       *gorm.DB
	notifier *notify.Dispatcher
}

// NewAdminUserHandler creates a new admin user handler
func NewAdminUserHandler(db *gorm.DB, notifier *notify.Dispatcher) *AdminUserHandler {
	return &AdminUserHandler{db: db, notifier: notifier}
}

// CreateEmployeeRequest represents the request body for creating an employee
type CreateEmployeeRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
}

// CreateEmployee creates an employee account with a temporary password
// and emails it to the new employee.
func (h *AdminUserHandler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if result := h.db.Where("email = ?", req.Email).First(&existing); result.RowsAffected > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
		return
	}

	tempPassword, err := utils.GenerateTempPassword(14)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee"})
		return
	}
	hash, err := utils.HashPassword(tempPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee"})
		return
	}

	employee := models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		UserType:     models.UserTypeEmployee,
		Status:       models.UserStatusActive,
	}
	if req.Phone != "" {
		employee.Phone = &req.Phone
	}

	if err := h.db.Create(&employee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee"})
		return
	}

	h.notifier.Dispatch(c.Request.Context(), notify.Input{
		UserID:  employee.ID,
		Type:    models.NotificationTypeAccount,
		Title:   "Welcome to VisaFlow",
		Message: "Your reviewer account has been created. Your temporary password is: " + tempPassword,
	})

	c.JSON(http.StatusCreated, gin.H{"employee": employee})
}

// ListEmployees returns all employee accounts
func (h *AdminUserHandler) ListEmployees(c *gin.Context) {
	h.listByType(c, models.UserTypeEmployee, "employees")
}

// ListCustomers returns all customer accounts
func (h *AdminUserHandler) ListCustomers(c *gin.Context) {
	h.listByType(c, models.UserTypeCustomer, "customers")
}

func (h *AdminUserHandler) listByType(c *gin.Context, userType models.UserType, key string) {
	var users []models.User
	query := h.db.Where("user_type = ?", userType).Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{key: users})
}

// SetStatusRequest represents an account status change
type SetStatusRequest struct {
	Status models.UserStatus `json:"status" binding:"required"`
}

// SetUserStatus activates, deactivates or suspends an account
func (h *AdminUserHandler) SetUserStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case models.UserStatusActive, models.UserStatusInactive, models.UserStatusSuspended:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.UserType == models.UserTypeAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin accounts cannot be changed here"})
		return
	}

	if err := h.db.Model(&user).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	user.Status = req.Status
	c.JSON(http.StatusOK, gin.H{"user": user})
}
