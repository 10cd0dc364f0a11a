package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/medimarkt/medimarkt-backend/internal/models"
	"gorm.io/gorm"
)

// ListingRepository defines the interface for listing data access
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	IncrementConnectionCount(ctx context.Context, id uint) error
}

// listingRepository implements ListingRepository using GORM
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new ListingRepository instance
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// Create creates a new listing
func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	result := r.db.WithContext(ctx).Create(listing)
	if result.Error != nil {
		return fmt.Errorf("failed to create listing: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a listing by its ID
func (r *listingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	result := r.db.WithContext(ctx).First(&listing, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing by ID: %w", result.Error)
	}
	return &listing, nil
}

// IncrementConnectionCount bumps the listing's aggregate connection
// counter with a single atomic update.
func (r *listingRepository) IncrementConnectionCount(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ?", id).
		Update("connection_count", gorm.Expr("connection_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment connection count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
