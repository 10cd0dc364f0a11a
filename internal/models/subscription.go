package models

import (
	"time"
)

// UnlimitedConnections is the plan limit sentinel meaning no monthly cap.
const UnlimitedConnections = -1

// SubscriptionStatus represents the raw billing state of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// IsValid checks if the status is a known value
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusCancelled, SubscriptionStatusExpired:
		return true
	}
	return false
}

// Plan represents a purchasable subscription tier
type Plan struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null;size:100" json:"name"`
	ConnectionLimit int       `gorm:"not null" json:"connection_limit"`
	PriceCents      int       `gorm:"not null;default:0" json:"price_cents"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Plan
func (Plan) TableName() string {
	return "plans"
}

// Subscription represents a user's current billing period and its
// connection quota counters. The plan limit is denormalized onto the
// row so quota consumption is a single-row conditional update.
type Subscription struct {
	ID              uint               `gorm:"primaryKey" json:"id"`
	UserID          uint               `gorm:"not null;index" json:"user_id"`
	PlanID          uint               `gorm:"not null" json:"plan_id"`
	Status          SubscriptionStatus `gorm:"not null;size:16;index" json:"status"`
	ConnectionLimit int                `gorm:"not null" json:"connection_limit"`
	ConnectionsUsed int                `gorm:"not null;default:0" json:"connections_used"`
	PeriodStart     time.Time          `gorm:"not null" json:"period_start"`
	PeriodEnd       time.Time          `gorm:"not null" json:"period_end"`
	CreatedAt       time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Plan Plan `gorm:"foreignKey:PlanID" json:"-"`
}

// TableName returns the table name for Subscription
func (Subscription) TableName() string {
	return "subscriptions"
}

// IsEffectivelyActive reports whether the subscription still grants
// access at the given time. A cancelled subscription remains usable
// until its paid period ends.
func (s *Subscription) IsEffectivelyActive(now time.Time) bool {
	switch s.Status {
	case SubscriptionStatusActive:
		return true
	case SubscriptionStatusCancelled:
		return now.Before(s.PeriodEnd)
	}
	return false
}

// HasUnlimitedConnections reports whether the plan limit is uncapped
func (s *Subscription) HasUnlimitedConnections() bool {
	return s.ConnectionLimit == UnlimitedConnections
}
