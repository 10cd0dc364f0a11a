package models

import (
	"time"
)

// UserRole distinguishes the two marketplace sides
type UserRole string

const (
	RoleBuyer  UserRole = "buyer"
	RoleSeller UserRole = "seller"
)

// IsValid checks if the role is a known value
func (r UserRole) IsValid() bool {
	return r == RoleBuyer || r == RoleSeller
}

// User represents a marketplace account (buyer or seller)
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	DisplayName string    `gorm:"size:255" json:"display_name,omitempty"`
	Role        UserRole  `gorm:"not null;size:16;index" json:"role"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}
