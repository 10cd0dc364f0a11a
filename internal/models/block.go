package models

import (
	"time"
)

// Block represents a directional "blocker blocks blocked" relationship.
// Unblocking deactivates the row rather than deleting it; a later
// re-block creates a fresh row so history is preserved. The partial
// unique index keeps active rows to one per ordered pair while
// allowing any number of deactivated history rows.
type Block struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BlockerID uint      `gorm:"not null;index:idx_blocks_pair;uniqueIndex:idx_blocks_active_pair,where:is_active" json:"blocker_id"`
	BlockedID uint      `gorm:"not null;index:idx_blocks_pair;uniqueIndex:idx_blocks_active_pair,where:is_active" json:"blocked_id"`
	Reason    string    `gorm:"size:500" json:"reason,omitempty"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Blocker User `gorm:"foreignKey:BlockerID" json:"-"`
	Blocked User `gorm:"foreignKey:BlockedID" json:"-"`
}

// TableName returns the table name for Block
func (Block) TableName() string {
	return "blocks"
}
