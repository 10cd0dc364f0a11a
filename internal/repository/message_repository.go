package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medimarkt/medimarkt-backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data access
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	ListByConnection(ctx context.Context, connectionID uint, limit, offset int) ([]models.Message, int64, error)
	MarkRead(ctx context.Context, id, readerID uint, now time.Time) error
	CountUnread(ctx context.Context, connectionID, viewerID uint) (int64, error)
}

// messageRepository implements MessageRepository using GORM
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository instance
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create creates a new message
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	result := r.db.WithContext(ctx).Create(message)
	if result.Error != nil {
		return fmt.Errorf("failed to create message: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a message by its ID
func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	result := r.db.WithContext(ctx).First(&message, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get message by ID: %w", result.Error)
	}
	return &message, nil
}

// ListByConnection retrieves messages for a connection with pagination,
// ordered oldest-first.
func (r *messageRepository) ListByConnection(ctx context.Context, connectionID uint, limit, offset int) ([]models.Message, int64, error) {
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("connection_id = ?", connectionID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	var messages []models.Message
	result := r.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", result.Error)
	}

	return messages, total, nil
}

// MarkRead sets the message read flag and records a read receipt
// attributing the reader. The operation is idempotent: repeated calls
// for the same (message, reader) pair leave a single receipt and do not
// move the original read timestamp.
func (r *messageRepository) MarkRead(ctx context.Context, id, readerID uint, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var message models.Message
		if err := tx.First(&message, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get message: %w", err)
		}

		if !message.IsRead {
			if err := tx.Model(&models.Message{}).
				Where("id = ? AND is_read = ?", id, false).
				Updates(map[string]interface{}{
					"is_read": true,
					"read_at": now,
				}).Error; err != nil {
				return fmt.Errorf("failed to mark message as read: %w", err)
			}
		}

		receipt := models.ReadReceipt{
			MessageID: id,
			ReaderID:  readerID,
			ReadAt:    now,
		}
		if err := tx.Where("message_id = ? AND reader_id = ?", id, readerID).
			FirstOrCreate(&receipt).Error; err != nil {
			// A concurrent reader may have inserted the same receipt.
			if isDuplicateKeyError(err) {
				return nil
			}
			return fmt.Errorf("failed to record read receipt: %w", err)
		}

		return nil
	})
}

// CountUnread counts messages in a connection the viewer has not read
// yet (their counterparty's unread messages).
func (r *messageRepository) CountUnread(ctx context.Context, connectionID, viewerID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("connection_id = ? AND sender_id <> ? AND is_read = ?", connectionID, viewerID, false).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", result.Error)
	}
	return count, nil
}
