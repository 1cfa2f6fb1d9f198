package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the lifecycle state of a visa application.
// Legal transitions between statuses are enforced by the workflow package.
type ApplicationStatus string

const (
	StatusDraft       ApplicationStatus = "draft"
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
	StatusResent      ApplicationStatus = "resent"
)

// ApplicationPriority orders the review queue.
type ApplicationPriority string

const (
	PriorityNormal ApplicationPriority = "normal"
	PriorityHigh   ApplicationPriority = "high"
	PriorityUrgent ApplicationPriority = "urgent"
)

// VisaApplication is one customer's request for a visa, tracked through
// the status lifecycle from draft to a terminal decision.
type VisaApplication struct {
	Base
	ApplicationNumber string              `gorm:"type:varchar(32);uniqueIndex;not null" json:"application_number"`
	CustomerID        uuid.UUID           `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer          *User               `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CountryID         uuid.UUID           `gorm:"type:uuid;not null" json:"country_id"`
	Country           *Country            `gorm:"foreignKey:CountryID" json:"country,omitempty"`
	VisaTypeID        uuid.UUID           `gorm:"type:uuid;not null" json:"visa_type_id"`
	VisaType          *VisaType           `gorm:"foreignKey:VisaTypeID" json:"visa_type,omitempty"`
	Status            ApplicationStatus   `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Priority          ApplicationPriority `gorm:"type:varchar(10);not null;default:'normal'" json:"priority"`
	AssignedTo        *uuid.UUID          `gorm:"type:uuid;index" json:"assigned_to"`
	Assignee          *User               `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Purpose           string              `gorm:"type:text" json:"purpose"`
	TravelDate        *time.Time          `json:"travel_date"`
	SubmittedAt       *time.Time          `json:"submitted_at"`
	ReviewedAt        *time.Time          `json:"reviewed_at"`
	ApprovedAt        *time.Time          `json:"approved_at"`
	RejectionReason   string              `gorm:"type:text" json:"rejection_reason,omitempty"`
	ResendReason      string              `gorm:"type:text" json:"resend_reason,omitempty"`
}

// ApplicationStatusHistory is the append-only audit trail of status
// transitions, one row per transition.
type ApplicationStatusHistory struct {
	Base
	ApplicationID uuid.UUID         `gorm:"type:uuid;not null;index" json:"application_id"`
	OldStatus     ApplicationStatus `gorm:"type:varchar(20);not null" json:"old_status"`
	NewStatus     ApplicationStatus `gorm:"type:varchar(20);not null" json:"new_status"`
	ChangedBy     uuid.UUID         `gorm:"type:uuid;not null" json:"changed_by"`
	Comments      string            `gorm:"type:text" json:"comments,omitempty"`
}

// TableName overrides gorm's pluralization for the history table.
func (ApplicationStatusHistory) TableName() string {
	return "application_status_history"
}
