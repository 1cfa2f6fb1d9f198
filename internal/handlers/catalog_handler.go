package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/visaflow/backend/internal/models"
	"gorm.io/gorm"
)

// CatalogHandler manages countries and visa types. The list endpoints
// are public so the application form can populate its dropdowns; writes
// are admin only.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// ListCountries returns active countries with their visa types
func (h *CatalogHandler) ListCountries(c *gin.Context) {
	var countries []models.Country
	query := h.db.Order("name ASC")
	if c.Query("all") != "true" {
		query = query.Where("is_active = true")
	}
	if err := query.Find(&countries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list countries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"countries": countries})
}

// CountryRequest represents the request body for country writes
type CountryRequest struct {
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code" binding:"required,len=2"`
	FlagEmoji string `json:"flag_emoji"`
	IsActive  *bool  `json:"is_active"`
}

// CreateCountry adds a destination country
func (h *CatalogHandler) CreateCountry(c *gin.Context) {
	var req CountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	country := models.Country{
		Name:      req.Name,
		Code:      req.Code,
		Slug:      slug.Make(req.Name),
		FlagEmoji: req.FlagEmoji,
		IsActive:  true,
	}
	if req.IsActive != nil {
		country.IsActive = *req.IsActive
	}

	if err := h.db.Create(&country).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Country code or name already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"country": country})
}

// UpdateCountry edits a country
func (h *CatalogHandler) UpdateCountry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var country models.Country
	if err := h.db.First(&country, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Country not found"})
		return
	}

	country.Name = req.Name
	country.Code = req.Code
	country.Slug = slug.Make(req.Name)
	country.FlagEmoji = req.FlagEmoji
	if req.IsActive != nil {
		country.IsActive = *req.IsActive
	}

	if err := h.db.Save(&country).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update country"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"country": country})
}

// ListVisaTypes returns visa types, optionally filtered by country
func (h *CatalogHandler) ListVisaTypes(c *gin.Context) {
	query := h.db.Preload("Country").Order("name ASC")
	if countryID := c.Query("country_id"); countryID != "" {
		id, err := uuid.Parse(countryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid country_id"})
			return
		}
		query = query.Where("country_id = ?", id)
	}
	if c.Query("all") != "true" {
		query = query.Where("is_active = true")
	}

	var visaTypes []models.VisaType
	if err := query.Find(&visaTypes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list visa types"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"visa_types": visaTypes})
}

// VisaTypeRequest represents the request body for visa type writes
type VisaTypeRequest struct {
	CountryID      uuid.UUID       `json:"country_id" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	Description    string          `json:"description"`
	Fee            decimal.Decimal `json:"fee" binding:"required"`
	Currency       string          `json:"currency"`
	ProcessingDays int             `json:"processing_days"`
	IsActive       *bool           `json:"is_active"`
}

// CreateVisaType adds a visa product for a country
func (h *CatalogHandler) CreateVisaType(c *gin.Context) {
	var req VisaTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Fee.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fee must be positive"})
		return
	}

	var country models.Country
	if err := h.db.First(&country, "id = ?", req.CountryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown country"})
		return
	}

	visaType := models.VisaType{
		CountryID:      req.CountryID,
		Name:           req.Name,
		Slug:           slug.Make(country.Name + "-" + req.Name),
		Description:    req.Description,
		Fee:            req.Fee,
		Currency:       "USD",
		ProcessingDays: 14,
		IsActive:       true,
	}
	if req.Currency != "" {
		visaType.Currency = req.Currency
	}
	if req.ProcessingDays > 0 {
		visaType.ProcessingDays = req.ProcessingDays
	}
	if req.IsActive != nil {
		visaType.IsActive = *req.IsActive
	}

	if err := h.db.Create(&visaType).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create visa type"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"visa_type": visaType})
}

// UpdateVisaType edits a visa product
func (h *CatalogHandler) UpdateVisaType(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req VisaTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var visaType models.VisaType
	if err := h.db.First(&visaType, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Visa type not found"})
		return
	}

	visaType.Name = req.Name
	visaType.Description = req.Description
	if req.Fee.GreaterThan(decimal.Zero) {
		visaType.Fee = req.Fee
	}
	if req.Currency != "" {
		visaType.Currency = req.Currency
	}
	if req.ProcessingDays > 0 {
		visaType.ProcessingDays = req.ProcessingDays
	}
	if req.IsActive != nil {
		visaType.IsActive = *req.IsActive
	}

	if err := h.db.Save(&visaType).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update visa type"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"visa_type": visaType})
}
