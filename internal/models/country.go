package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Country is a destination a visa can be requested for.
type Country struct {
	Base
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	Code      string `gorm:"type:varchar(2);uniqueIndex;not null" json:"code"`
	Slug      string `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	FlagEmoji string `gorm:"type:varchar(8)" json:"flag_emoji"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
}

// VisaType is one visa product offered for a country, carrying the fee
// collected through the payment gateway.
type VisaType struct {
	Base
	CountryID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"country_id"`
	Country        *Country        `gorm:"foreignKey:CountryID" json:"country,omitempty"`
	Name           string          `gorm:"type:varchar(100);not null" json:"name"`
	Slug           string          `gorm:"type:varchar(120);index;not null" json:"slug"`
	Description    string          `gorm:"type:text" json:"description"`
	Fee            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"fee"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	ProcessingDays int             `gorm:"default:14" json:"processing_days"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
}
