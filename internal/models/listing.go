package models

import (
	"time"
)

// ListingStatus represents the publication state of a listing
type ListingStatus string

const (
	ListingStatusDraft     ListingStatus = "draft"
	ListingStatusPublished ListingStatus = "published"
	ListingStatusArchived  ListingStatus = "archived"
)

// IsValid checks if the status is a known value
func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusDraft, ListingStatusPublished, ListingStatusArchived:
		return true
	}
	return false
}

// Listing represents a seller's marketplace listing. Only published
// listings accept connection requests.
type Listing struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	SellerID        uint          `gorm:"not null;index" json:"seller_id"`
	Title           string        `gorm:"not null;size:255" json:"title"`
	Status          ListingStatus `gorm:"not null;size:16;default:draft;index" json:"status"`
	ConnectionCount int           `gorm:"not null;default:0" json:"connection_count"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Seller User `gorm:"foreignKey:SellerID" json:"-"`
}

// TableName returns the table name for Listing
func (Listing) TableName() string {
	return "listings"
}

// IsConnectable reports whether the listing accepts new connection requests
func (l *Listing) IsConnectable() bool {
	return l.Status == ListingStatusPublished
}
