package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/medimarkt/medimarkt-backend/internal/errors"
	"github.com/medimarkt/medimarkt-backend/internal/models"
	"github.com/medimarkt/medimarkt-backend/internal/repository"
)

// BlockService manages directional user-level blocks
type BlockService interface {
	// Block creates an active block from blocker to blocked
	Block(ctx context.Context, blockerID, blockedID uint, reason string) (*models.Block, error)

	// Unblock deactivates the blocker's active block on blocked
	Unblock(ctx context.Context, blockerID, blockedID uint) error

	// IsBlocking checks the ordered pair only
	IsBlocking(ctx context.Context, blockerID, blockedID uint) (bool, error)

	// ExistsEitherDirection checks both directions between two users.
	// Every interaction gate goes through this; the answer never says
	// which direction matched.
	ExistsEitherDirection(ctx context.Context, userA, userB uint) (bool, error)

	// ListBlocks returns the user's active blocks
	ListBlocks(ctx context.Context, blockerID uint) ([]models.Block, error)
}

// blockService implements BlockService
type blockService struct {
	blocks repository.BlockRepository
	users  repository.UserRepository
}

// NewBlockService creates a new BlockService instance
func NewBlockService(blocks repository.BlockRepository, users repository.UserRepository) BlockService {
	return &blockService{
		blocks: blocks,
		users:  users,
	}
}

// Block creates an active block from blocker to blocked
func (s *blockService) Block(ctx context.Context, blockerID, blockedID uint, reason string) (*models.Block, error) {
	if blockerID == blockedID {
		return nil, fmt.Errorf("cannot block yourself: %w", apperrors.ErrInvalidInput)
	}

	if _, err := s.users.GetByID(ctx, blockedID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to resolve blocked user")
	}

	block := &models.Block{
		BlockerID: blockerID,
		BlockedID: blockedID,
		Reason:    reason,
	}
	if err := s.blocks.Create(ctx, block); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, apperrors.ErrAlreadyBlocked
		}
		return nil, apperrors.Wrap(err, "failed to create block")
	}

	return block, nil
}

// Unblock deactivates the active block. The second call for the same
// pair reports not-found; the deactivated row stays as history.
func (s *blockService) Unblock(ctx context.Context, blockerID, blockedID uint) error {
	if err := s.blocks.Deactivate(ctx, blockerID, blockedID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrBlockNotFound
		}
		return apperrors.Wrap(err, "failed to unblock")
	}
	return nil
}

// IsBlocking checks the ordered pair only
func (s *blockService) IsBlocking(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	return s.blocks.IsBlocking(ctx, blockerID, blockedID)
}

// ExistsEitherDirection checks both directions between two users
func (s *blockService) ExistsEitherDirection(ctx context.Context, userA, userB uint) (bool, error) {
	return s.blocks.ExistsEitherDirection(ctx, userA, userB)
}

// ListBlocks returns the user's active blocks
func (s *blockService) ListBlocks(ctx context.Context, blockerID uint) ([]models.Block, error) {
	return s.blocks.ListByBlocker(ctx, blockerID)
}
