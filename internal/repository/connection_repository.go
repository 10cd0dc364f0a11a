package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medimarkt/medimarkt-backend/internal/models"
	"gorm.io/gorm"
)

// ConnectionRepository defines the interface for connection data access
type ConnectionRepository interface {
	Create(ctx context.Context, connection *models.Connection) error
	GetByID(ctx context.Context, id uint) (*models.Connection, error)
	GetByBuyerAndListing(ctx context.Context, buyerID, listingID uint) (*models.Connection, error)
	GetDirect(ctx context.Context, buyerID, sellerID uint) (*models.Connection, error)
	ListByUser(ctx context.Context, userID uint, status *models.ConnectionStatus, limit, offset int) ([]models.ConnectionListItem, int64, error)
	Reopen(ctx context.Context, id uint, message string, now time.Time) error
	Respond(ctx context.Context, id uint, status models.ConnectionStatus, responseMessage string, now time.Time) error
	MarkBlocked(ctx context.Context, id uint, now time.Time) error
	TouchActivity(ctx context.Context, id uint, now time.Time) error
}

// connectionRepository implements ConnectionRepository using GORM
type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new ConnectionRepository instance
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

// Create creates a new connection
func (r *connectionRepository) Create(ctx context.Context, connection *models.Connection) error {
	result := r.db.WithContext(ctx).Create(connection)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return fmt.Errorf("connection already exists for this pair: %w", ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create connection: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a connection by its ID
func (r *connectionRepository) GetByID(ctx context.Context, id uint) (*models.Connection, error) {
	var connection models.Connection
	result := r.db.WithContext(ctx).First(&connection, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get connection by ID: %w", result.Error)
	}
	return &connection, nil
}

// GetByBuyerAndListing retrieves the single connection row for a
// (buyer, listing) pair. At most one such row exists at any time.
func (r *connectionRepository) GetByBuyerAndListing(ctx context.Context, buyerID, listingID uint) (*models.Connection, error) {
	var connection models.Connection
	result := r.db.WithContext(ctx).
		Where("buyer_id = ? AND listing_id = ?", buyerID, listingID).
		First(&connection)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get connection by buyer and listing: %w", result.Error)
	}
	return &connection, nil
}

// GetDirect retrieves the listing-less connection row for a
// (buyer, seller) pair, used for seller-initiated outreach.
func (r *connectionRepository) GetDirect(ctx context.Context, buyerID, sellerID uint) (*models.Connection, error) {
	var connection models.Connection
	result := r.db.WithContext(ctx).
		Where("buyer_id = ? AND seller_id = ? AND listing_id IS NULL", buyerID, sellerID).
		First(&connection)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get direct connection: %w", result.Error)
	}
	return &connection, nil
}

// ListByUser retrieves connections where the user is a party, newest
// activity first, with the viewer's unread message count per row.
func (r *connectionRepository) ListByUser(ctx context.Context, userID uint, status *models.ConnectionStatus, limit, offset int) ([]models.ConnectionListItem, int64, error) {
	var total int64

	countQuery := r.db.WithContext(ctx).Model(&models.Connection{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID)
	if status != nil {
		countQuery = countQuery.Where("status = ?", *status)
	}
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count connections: %w", err)
	}

	var results []models.ConnectionListItem

	query := `
		SELECT
			c.id,
			c.buyer_id,
			c.seller_id,
			c.listing_id,
			c.status,
			c.origin,
			c.requested_at,
			c.last_activity_at,
			COALESCE((SELECT COUNT(*) FROM messages m WHERE m.connection_id = c.id AND m.is_read = ? AND m.sender_id <> ?), 0) as unread_count
		FROM connections c
		WHERE (c.buyer_id = ? OR c.seller_id = ?)
	`
	args := []interface{}{false, userID, userID, userID}
	if status != nil {
		query += " AND c.status = ?"
		args = append(args, *status)
	}
	query += " ORDER BY c.last_activity_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&results).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list connections: %w", err)
	}

	return results, total, nil
}

// Reopen flips a rejected connection back to pending, overwriting the
// initial message and re-stamping the request time. The update is
// guarded on the rejected status so concurrent callers serialize; a
// zero-row update reports ErrStaleState.
func (r *connectionRepository) Reopen(ctx context.Context, id uint, message string, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Connection{}).
		Where("id = ? AND status = ?", id, models.ConnectionStatusRejected).
		Updates(map[string]interface{}{
			"status":           models.ConnectionStatusPending,
			"message":          message,
			"response_message": "",
			"requested_at":     now,
			"responded_at":     nil,
			"last_activity_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to reopen connection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

// Respond records an approval or rejection. The update is guarded on
// pending status; the second of two concurrent responders observes
// ErrStaleState instead of overwriting the first decision.
func (r *connectionRepository) Respond(ctx context.Context, id uint, status models.ConnectionStatus, responseMessage string, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Connection{}).
		Where("id = ? AND status = ?", id, models.ConnectionStatusPending).
		Updates(map[string]interface{}{
			"status":           status,
			"response_message": responseMessage,
			"responded_at":     now,
			"last_activity_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to respond to connection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

// MarkBlocked forces a connection into the terminal blocked state.
// Already-blocked rows are left untouched; the caller treats that as a
// no-op success.
func (r *connectionRepository) MarkBlocked(ctx context.Context, id uint, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Connection{}).
		Where("id = ? AND status <> ?", id, models.ConnectionStatusBlocked).
		Updates(map[string]interface{}{
			"status":           models.ConnectionStatusBlocked,
			"last_activity_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to block connection: %w", result.Error)
	}
	return nil
}

// TouchActivity updates the last-activity timestamp
func (r *connectionRepository) TouchActivity(ctx context.Context, id uint, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Connection{}).
		Where("id = ?", id).
		Update("last_activity_at", now)
	if result.Error != nil {
		return fmt.Errorf("failed to touch connection activity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
