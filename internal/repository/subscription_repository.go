package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/medimarkt/medimarkt-backend/internal/models"
	"gorm.io/gorm"
)

// SubscriptionRepository defines the interface for subscription data access
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	GetByID(ctx context.Context, id uint) (*models.Subscription, error)
	GetCurrentByUser(ctx context.Context, userID uint) (*models.Subscription, error)
	ConsumeQuota(ctx context.Context, id uint) (int, error)
}

// subscriptionRepository implements SubscriptionRepository using GORM
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Create creates a new subscription
func (r *subscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	result := r.db.WithContext(ctx).Create(subscription)
	if result.Error != nil {
		return fmt.Errorf("failed to create subscription: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a subscription by its ID
func (r *subscriptionRepository) GetByID(ctx context.Context, id uint) (*models.Subscription, error) {
	var subscription models.Subscription
	result := r.db.WithContext(ctx).First(&subscription, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription by ID: %w", result.Error)
	}
	return &subscription, nil
}

// GetCurrentByUser retrieves the user's most recent subscription
func (r *subscriptionRepository) GetCurrentByUser(ctx context.Context, userID uint) (*models.Subscription, error) {
	var subscription models.Subscription
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("period_end DESC, id DESC").
		First(&subscription)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get current subscription: %w", result.Error)
	}
	return &subscription, nil
}

// ConsumeQuota atomically increments the used-connections counter,
// subject to the plan limit. The guard lives in the UPDATE itself so
// concurrent requests against the same subscription cannot overshoot
// the limit; a zero-row update means the quota was already exhausted.
// Returns the new used count.
func (r *subscriptionRepository) ConsumeQuota(ctx context.Context, id uint) (int, error) {
	result := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ? AND (connection_limit = ? OR connections_used < connection_limit)",
			id, models.UnlimitedConnections).
		Update("connections_used", gorm.Expr("connections_used + 1"))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to consume quota: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Distinguish a missing row from an exhausted quota.
		if _, err := r.GetByID(ctx, id); err != nil {
			return 0, err
		}
		return 0, ErrQuotaExhausted
	}

	var used int
	if err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ?", id).
		Pluck("connections_used", &used).Error; err != nil {
		return 0, fmt.Errorf("failed to read used count: %w", err)
	}
	return used, nil
}
