package models

import (
	"time"
)

// UserType identifies which console a user belongs to.
type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeEmployee UserType = "employee"
	UserTypeAdmin    UserType = "admin"
)

// UserStatus is the account state managed from the admin console.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// User represents a customer, employee or admin account.
// Accounts are never hard-deleted; admin deactivation flips Status.
type User struct {
	Base
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	FirstName    string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string     `gorm:"type:varchar(100)" json:"last_name"`
	Phone        *string    `gorm:"type:varchar(20)" json:"phone"`
	UserType     UserType   `gorm:"type:varchar(20);not null;default:'customer';index" json:"user_type"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	GoogleID     *string    `gorm:"type:varchar(64);index" json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

// FullName returns the display name used in notification templates.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsActive reports whether the account may act on the platform.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
