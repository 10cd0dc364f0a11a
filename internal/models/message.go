package models

import (
	"time"
)

// MessageType distinguishes plain text messages from file references
type MessageType string

const (
	MessageTypeText MessageType = "text"
	MessageTypeFile MessageType = "file"
)

// IsValid checks if the type is a known value
func (t MessageType) IsValid() bool {
	return t == MessageTypeText || t == MessageTypeFile
}

// Message represents one unit of communication inside an approved
// connection. Content is immutable after creation; only read state
// changes.
type Message struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	ConnectionID uint        `gorm:"not null;index" json:"connection_id"`
	SenderID     uint        `gorm:"not null;index" json:"sender_id"`
	Content      string      `gorm:"type:text;not null" json:"content"`
	Type         MessageType `gorm:"not null;size:8;default:text" json:"type"`
	IsRead       bool        `gorm:"not null;default:false" json:"is_read"`
	ReadAt       *time.Time  `json:"read_at,omitempty"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Connection Connection `gorm:"foreignKey:ConnectionID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// ReadReceipt records which user read a message and when. Kept as a
// separate row so reads are attributable even if a connection ever has
// more than two participants.
type ReadReceipt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"not null;uniqueIndex:idx_read_receipts_message_reader" json:"message_id"`
	ReaderID  uint      `gorm:"not null;uniqueIndex:idx_read_receipts_message_reader" json:"reader_id"`
	ReadAt    time.Time `gorm:"not null" json:"read_at"`

	// Relationships
	Message Message `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for ReadReceipt
func (ReadReceipt) TableName() string {
	return "read_receipts"
}
