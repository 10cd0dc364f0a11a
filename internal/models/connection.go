package models

import (
	"time"
)

// ConnectionStatus represents the workflow state of a connection
type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusApproved ConnectionStatus = "approved"
	ConnectionStatusRejected ConnectionStatus = "rejected"
	ConnectionStatusBlocked  ConnectionStatus = "blocked"
)

// IsValid checks if the status is a known value
func (s ConnectionStatus) IsValid() bool {
	switch s {
	case ConnectionStatusPending, ConnectionStatusApproved, ConnectionStatusRejected, ConnectionStatusBlocked:
		return true
	}
	return false
}

// ConnectionOrigin records which side initiated the connection.
// Buyer-initiated connections are always scoped to a listing;
// seller-initiated outreach carries no listing.
type ConnectionOrigin string

const (
	OriginBuyerInitiated  ConnectionOrigin = "buyer_initiated"
	OriginSellerInitiated ConnectionOrigin = "seller_initiated"
)

// RequiresListing reports whether this origin mandates a listing reference
func (o ConnectionOrigin) RequiresListing() bool {
	return o == OriginBuyerInitiated
}

// Connection represents an introduction between one buyer and one
// seller, optionally tied to one listing. The row is reused across the
// full lifecycle: a rejected connection flips back to pending on
// re-request rather than creating a second row. Storage enforces the
// single-row identity: one row per (buyer, listing), and since NULL
// listing ids compare distinct, a partial unique on (buyer, seller)
// covers listing-less direct connections.
type Connection struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	BuyerID         uint             `gorm:"not null;uniqueIndex:idx_connections_buyer_listing;uniqueIndex:idx_connections_direct_pair,where:listing_id IS NULL" json:"buyer_id"`
	SellerID        uint             `gorm:"not null;index;uniqueIndex:idx_connections_direct_pair,where:listing_id IS NULL" json:"seller_id"`
	ListingID       *uint            `gorm:"uniqueIndex:idx_connections_buyer_listing" json:"listing_id,omitempty"`
	Status          ConnectionStatus `gorm:"not null;size:16;index" json:"status"`
	Origin          ConnectionOrigin `gorm:"not null;size:24" json:"origin"`
	Message         string           `gorm:"type:text" json:"message,omitempty"`
	ResponseMessage string           `gorm:"type:text" json:"response_message,omitempty"`
	RequestedAt     time.Time        `gorm:"not null" json:"requested_at"`
	RespondedAt     *time.Time       `json:"responded_at,omitempty"`
	LastActivityAt  time.Time        `gorm:"not null;index" json:"last_activity_at"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Buyer   User     `gorm:"foreignKey:BuyerID" json:"-"`
	Seller  User     `gorm:"foreignKey:SellerID" json:"-"`
	Listing *Listing `gorm:"foreignKey:ListingID" json:"-"`
}

// TableName returns the table name for Connection
func (Connection) TableName() string {
	return "connections"
}

// IsParty reports whether the user is the buyer or seller of this connection
func (c *Connection) IsParty(userID uint) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

// CounterpartyID returns the other party's user id. The caller must
// already be a verified party.
func (c *Connection) CounterpartyID(userID uint) uint {
	if c.BuyerID == userID {
		return c.SellerID
	}
	return c.BuyerID
}

// ConnectionListItem is a lightweight projection for list views,
// carrying the per-connection unread message count for the viewer.
type ConnectionListItem struct {
	ID             uint             `json:"id"`
	BuyerID        uint             `json:"buyer_id"`
	SellerID       uint             `json:"seller_id"`
	ListingID      *uint            `json:"listing_id,omitempty"`
	Status         ConnectionStatus `json:"status"`
	Origin         ConnectionOrigin `json:"origin"`
	RequestedAt    time.Time        `json:"requested_at"`
	LastActivityAt time.Time        `json:"last_activity_at"`
	UnreadCount    int              `json:"unread_count"`
}
