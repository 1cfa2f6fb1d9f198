package models

import (
	"github.com/google/uuid"
)

// NotificationType classifies in-app notifications for the frontend.
type NotificationType string

const (
	NotificationTypeApplication NotificationType = "application"
	NotificationTypePayment     NotificationType = "payment"
	NotificationTypeAccount     NotificationType = "account"
	NotificationTypeSystem      NotificationType = "system"
)

// Notification is the persisted in-app record of a message. It is written
// before any external channel delivery is attempted, so in-app history
// survives even when every channel send fails. Write-once except IsRead.
type Notification struct {
	Base
	UserID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	ApplicationID *uuid.UUID       `gorm:"type:uuid;index" json:"application_id,omitempty"`
	Type          NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title         string           `gorm:"type:varchar(255);not null" json:"title"`
	Message       string           `gorm:"type:text;not null" json:"message"`
	IsRead        bool             `gorm:"default:false;index" json:"is_read"`
}
