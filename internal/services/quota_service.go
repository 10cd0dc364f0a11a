package services

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/medimarkt/medimarkt-backend/internal/errors"
	"github.com/medimarkt/medimarkt-backend/internal/models"
	"github.com/medimarkt/medimarkt-backend/internal/repository"
)

// EffectiveStatus is the derived subscription state that gates quota
// consumption. A cancelled subscription counts as active until its paid
// period ends.
type EffectiveStatus string

const (
	EffectiveActive  EffectiveStatus = "active"
	EffectiveExpired EffectiveStatus = "expired"
)

// QuotaService reads subscription state and consumes connection quota
type QuotaService interface {
	// EffectiveStatus derives the usable/expired state of a subscription
	EffectiveStatus(ctx context.Context, subscriptionID uint) (EffectiveStatus, error)

	// HasRemainingQuota reports whether one more connection may be
	// requested. Only meaningful for effectively active subscriptions;
	// expired ones always report false.
	HasRemainingQuota(ctx context.Context, subscriptionID uint) (bool, error)

	// ConsumeOne atomically takes one quota unit. Safe under concurrent
	// callers for the same subscription: the storage-level conditional
	// increment guarantees used never exceeds the limit. Returns the new
	// used count.
	ConsumeOne(ctx context.Context, subscriptionID uint) (int, error)

	// SnapshotForUser resolves the user's current subscription and
	// reports its quota position
	SnapshotForUser(ctx context.Context, userID uint) (*QuotaSnapshot, error)
}

// QuotaSnapshot describes a subscription's quota position
type QuotaSnapshot struct {
	SubscriptionID  uint            `json:"subscription_id"`
	Status          EffectiveStatus `json:"status"`
	ConnectionLimit int             `json:"connection_limit"`
	ConnectionsUsed int             `json:"connections_used"`
	Unlimited       bool            `json:"unlimited"`
}

// quotaService implements QuotaService
type quotaService struct {
	subscriptions repository.SubscriptionRepository
	now           func() time.Time
}

// NewQuotaService creates a new QuotaService instance
func NewQuotaService(subscriptions repository.SubscriptionRepository) QuotaService {
	return &quotaService{
		subscriptions: subscriptions,
		now:           time.Now,
	}
}

// NewQuotaServiceWithClock creates a QuotaService with an injectable clock
func NewQuotaServiceWithClock(subscriptions repository.SubscriptionRepository, now func() time.Time) QuotaService {
	return &quotaService{
		subscriptions: subscriptions,
		now:           now,
	}
}

// EffectiveStatus derives the usable/expired state of a subscription
func (s *quotaService) EffectiveStatus(ctx context.Context, subscriptionID uint) (EffectiveStatus, error) {
	sub, err := s.subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return EffectiveExpired, apperrors.ErrNotFound
		}
		return EffectiveExpired, apperrors.Wrap(err, "failed to get subscription")
	}
	return effectiveStatusOf(sub, s.now()), nil
}

// HasRemainingQuota reports whether one more connection may be requested
func (s *quotaService) HasRemainingQuota(ctx context.Context, subscriptionID uint) (bool, error) {
	sub, err := s.subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, apperrors.ErrNotFound
		}
		return false, apperrors.Wrap(err, "failed to get subscription")
	}

	if effectiveStatusOf(sub, s.now()) != EffectiveActive {
		return false, nil
	}
	return subscriptionHasQuota(sub), nil
}

// ConsumeOne atomically takes one quota unit
func (s *quotaService) ConsumeOne(ctx context.Context, subscriptionID uint) (int, error) {
	sub, err := s.subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperrors.ErrSubscriptionRequired
		}
		return 0, apperrors.Wrap(err, "failed to get subscription")
	}
	if effectiveStatusOf(sub, s.now()) != EffectiveActive {
		return 0, apperrors.ErrSubscriptionRequired
	}

	used, err := s.subscriptions.ConsumeQuota(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrQuotaExhausted) {
			return 0, apperrors.ErrQuotaExceeded
		}
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperrors.ErrSubscriptionRequired
		}
		return 0, apperrors.Wrap(err, "failed to consume quota")
	}
	return used, nil
}

// SnapshotForUser resolves the user's current subscription and reports
// its quota position
func (s *quotaService) SnapshotForUser(ctx context.Context, userID uint) (*QuotaSnapshot, error) {
	sub, err := s.subscriptions.GetCurrentByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrSubscriptionRequired
		}
		return nil, apperrors.Wrap(err, "failed to get subscription")
	}

	return &QuotaSnapshot{
		SubscriptionID:  sub.ID,
		Status:          effectiveStatusOf(sub, s.now()),
		ConnectionLimit: sub.ConnectionLimit,
		ConnectionsUsed: sub.ConnectionsUsed,
		Unlimited:       sub.HasUnlimitedConnections(),
	}, nil
}

// effectiveStatusOf maps raw billing status to the derived state
func effectiveStatusOf(sub *models.Subscription, now time.Time) EffectiveStatus {
	if sub.IsEffectivelyActive(now) {
		return EffectiveActive
	}
	return EffectiveExpired
}

// subscriptionHasQuota checks the counter against the plan limit
func subscriptionHasQuota(sub *models.Subscription) bool {
	if sub.HasUnlimitedConnections() {
		return true
	}
	return sub.ConnectionsUsed < sub.ConnectionLimit
}
