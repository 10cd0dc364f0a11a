package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/medimarkt/medimarkt-backend/internal/models"
	"gorm.io/gorm"
)

// BlockRepository defines the interface for block data access
type BlockRepository interface {
	Create(ctx context.Context, block *models.Block) error
	Deactivate(ctx context.Context, blockerID, blockedID uint) error
	IsBlocking(ctx context.Context, blockerID, blockedID uint) (bool, error)
	ExistsEitherDirection(ctx context.Context, userA, userB uint) (bool, error)
	ListByBlocker(ctx context.Context, blockerID uint) ([]models.Block, error)
}

// blockRepository implements BlockRepository using GORM
type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new BlockRepository instance
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

// Create creates a new active block. At most one active block may exist
// per ordered (blocker, blocked) pair; a second attempt reports
// ErrDuplicateEntry. Inactive rows from earlier block/unblock cycles
// are left in place as history.
func (r *blockRepository) Create(ctx context.Context, block *models.Block) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Block
		err := tx.Where("blocker_id = ? AND blocked_id = ? AND is_active = ?",
			block.BlockerID, block.BlockedID, true).
			First(&existing).Error
		if err == nil {
			return ErrDuplicateEntry
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing block: %w", err)
		}

		block.IsActive = true
		if err := tx.Create(block).Error; err != nil {
			if isDuplicateKeyError(err) {
				return ErrDuplicateEntry
			}
			return fmt.Errorf("failed to create block: %w", err)
		}
		return nil
	})
}

// Deactivate deactivates the active block for the ordered pair. The row
// is kept; only the active flag changes.
func (r *blockRepository) Deactivate(ctx context.Context, blockerID, blockedID uint) error {
	result := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ? AND is_active = ?", blockerID, blockedID, true).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate block: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsBlocking checks whether an active block exists for the ordered pair
func (r *blockRepository) IsBlocking(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ? AND is_active = ?", blockerID, blockedID, true).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check block: %w", result.Error)
	}
	return count > 0, nil
}

// ExistsEitherDirection checks whether an active block exists in either
// direction between two users. This is the query every interaction
// check goes through; callers never learn which direction matched.
func (r *blockRepository) ExistsEitherDirection(ctx context.Context, userA, userB uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("is_active = ? AND ((blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?))",
			true, userA, userB, userB, userA).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check blocks between users: %w", result.Error)
	}
	return count > 0, nil
}

// ListByBlocker retrieves the user's active blocks, newest first
func (r *blockRepository) ListByBlocker(ctx context.Context, blockerID uint) ([]models.Block, error) {
	var blocks []models.Block
	result := r.db.WithContext(ctx).
		Where("blocker_id = ? AND is_active = ?", blockerID, true).
		Order("created_at DESC").
		Find(&blocks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", result.Error)
	}
	return blocks, nil
}
