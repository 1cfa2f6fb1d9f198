package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the state of one payment order.
type PaymentStatus string

const (
	PaymentStatusCreated   PaymentStatus = "created"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusExpired   PaymentStatus = "expired"
)

// PaymentOrder is one attempt to collect a visa fee for an application,
// verified against the external gateway's webhook signature.
type PaymentOrder struct {
	Base
	ApplicationID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"application_id"`
	Application      *VisaApplication `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
	Reference        string           `gorm:"type:varchar(32);uniqueIndex;not null" json:"reference"`
	GatewayPaymentID string           `gorm:"type:varchar(64)" json:"gateway_payment_id,omitempty"`
	Amount           decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency         string           `gorm:"type:varchar(3);not null" json:"currency"`
	Status           PaymentStatus    `gorm:"type:varchar(12);not null;default:'created';index" json:"status"`
	VerifiedAt       *time.Time       `json:"verified_at"`
	FailureReason    string           `gorm:"type:text" json:"failure_reason,omitempty"`
}

// IsOpen reports whether the order is still awaiting payment.
func (p *PaymentOrder) IsOpen() bool {
	return p.Status == PaymentStatusCreated
}
