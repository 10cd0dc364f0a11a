package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/medimarkt/medimarkt-backend/internal/errors"
	"github.com/medimarkt/medimarkt-backend/internal/logger"
	"github.com/medimarkt/medimarkt-backend/internal/models"
	"github.com/medimarkt/medimarkt-backend/internal/repository"
)

// ConnectionRequest describes an inbound connection request. Exactly
// one of ListingID (buyer reaching out about a listing) or BuyerID
// (seller reaching out directly) must be set.
type ConnectionRequest struct {
	InitiatorID uint
	ListingID   *uint
	BuyerID     *uint
	Message     string
}

// ConnectionStatusInfo is the read-only status probe for a
// (buyer, listing) pair, used by the UI to decide whether to show a
// connect button.
type ConnectionStatusInfo struct {
	ConnectionID *uint                    `json:"connection_id,omitempty"`
	Status       *models.ConnectionStatus `json:"status,omitempty"`
	CanRequest   bool                     `json:"can_request"`
	Reason       string                   `json:"reason,omitempty"`
}

// ConnectionService is the buyer/seller introduction state machine.
// It owns the pending -> approved/rejected -> (reopened) lifecycle,
// quota consumption, and the silent-blocking rule.
type ConnectionService interface {
	Request(ctx context.Context, req ConnectionRequest) (*models.Connection, error)
	Respond(ctx context.Context, responderID, connectionID uint, decision models.ConnectionStatus, responseMessage string) (*models.Connection, error)
	BlockConnection(ctx context.Context, userID, connectionID uint) error
	Status(ctx context.Context, buyerID, listingID uint) (*ConnectionStatusInfo, error)
	List(ctx context.Context, userID uint, status *models.ConnectionStatus, limit, offset int) ([]models.ConnectionListItem, int64, error)
	Detail(ctx context.Context, userID, connectionID uint) (*models.Connection, error)
}

// connectionService implements ConnectionService
type connectionService struct {
	repos      *repository.Repositories
	tx         repository.TxManager
	dispatcher NotificationDispatcher
	secLog     *logger.SecurityLogger
	now        func() time.Time
}

// NewConnectionService creates a new ConnectionService instance
func NewConnectionService(repos *repository.Repositories, tx repository.TxManager, dispatcher NotificationDispatcher, secLog *logger.SecurityLogger) ConnectionService {
	return &connectionService{
		repos:      repos,
		tx:         tx,
		dispatcher: dispatcher,
		secLog:     secLog,
		now:        time.Now,
	}
}

// NewConnectionServiceWithClock creates a ConnectionService with an injectable clock
func NewConnectionServiceWithClock(repos *repository.Repositories, tx repository.TxManager, dispatcher NotificationDispatcher, secLog *logger.SecurityLogger, now func() time.Time) ConnectionService {
	return &connectionService{
		repos:      repos,
		tx:         tx,
		dispatcher: dispatcher,
		secLog:     secLog,
		now:        now,
	}
}

// Request creates or reopens a connection
func (s *connectionService) Request(ctx context.Context, req ConnectionRequest) (*models.Connection, error) {
	switch {
	case req.ListingID != nil && req.BuyerID == nil:
		return s.requestForListing(ctx, req)
	case req.BuyerID != nil && req.ListingID == nil:
		return s.requestDirect(ctx, req)
	default:
		return nil, fmt.Errorf("exactly one of listing_id or buyer_id must be set: %w", apperrors.ErrInvalidInput)
	}
}

// requestForListing handles a buyer reaching out about a listing
func (s *connectionService) requestForListing(ctx context.Context, req ConnectionRequest) (*models.Connection, error) {
	sub, err := s.usableSubscription(ctx, req.InitiatorID)
	if err != nil {
		return nil, err
	}
	if !subscriptionHasQuota(sub) {
		return nil, apperrors.ErrQuotaExceeded
	}

	listing, err := s.repos.Listings.GetByID(ctx, *req.ListingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrListingNotFound
		}
		return nil, apperrors.Wrap(err, "failed to resolve listing")
	}
	if listing.SellerID == req.InitiatorID {
		return nil, fmt.Errorf("cannot request a connection to your own listing: %w", apperrors.ErrInvalidInput)
	}
	if !listing.IsConnectable() {
		return nil, apperrors.ErrConnectionUnavailable
	}

	if _, err := s.repos.Users.GetByID(ctx, listing.SellerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to resolve seller")
	}

	blocked, err := s.repos.Blocks.ExistsEitherDirection(ctx, req.InitiatorID, listing.SellerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check blocks")
	}
	if blocked {
		s.secLog.SilentDenial("connection_request", req.InitiatorID, listing.SellerID)
		return nil, apperrors.ErrConnectionUnavailable
	}

	existing, err := s.repos.Connections.GetByBuyerAndListing(ctx, req.InitiatorID, listing.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Wrap(err, "failed to look up existing connection")
	}

	now := s.now()
	if existing != nil {
		if err := s.reviveExisting(ctx, existing, sub.ID, req.Message, now, true); err != nil {
			return nil, err
		}
		conn, err := s.repos.Connections.GetByID(ctx, existing.ID)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to reload connection")
		}
		s.notifyRequested(ctx, conn)
		return conn, nil
	}

	conn := &models.Connection{
		BuyerID:        req.InitiatorID,
		SellerID:       listing.SellerID,
		ListingID:      &listing.ID,
		Status:         models.ConnectionStatusPending,
		Origin:         models.OriginBuyerInitiated,
		Message:        req.Message,
		RequestedAt:    now,
		LastActivityAt: now,
	}

	err = s.tx.InTx(ctx, func(r *repository.Repositories) error {
		if _, err := r.Subscriptions.ConsumeQuota(ctx, sub.ID); err != nil {
			return err
		}
		if err := r.Connections.Create(ctx, conn); err != nil {
			return err
		}
		return r.Listings.IncrementConnectionCount(ctx, listing.ID)
	})
	if err != nil {
		return nil, s.mapCreateError(err)
	}

	s.notifyRequested(ctx, conn)
	return conn, nil
}

// requestDirect handles a seller reaching out to a buyer without a
// listing. No quota is consumed here; the buyer's quota is charged if
// and when they accept.
func (s *connectionService) requestDirect(ctx context.Context, req ConnectionRequest) (*models.Connection, error) {
	if _, err := s.usableSubscription(ctx, req.InitiatorID); err != nil {
		return nil, err
	}

	if *req.BuyerID == req.InitiatorID {
		return nil, fmt.Errorf("cannot request a connection with yourself: %w", apperrors.ErrInvalidInput)
	}
	if _, err := s.repos.Users.GetByID(ctx, *req.BuyerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to resolve buyer")
	}

	blocked, err := s.repos.Blocks.ExistsEitherDirection(ctx, req.InitiatorID, *req.BuyerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check blocks")
	}
	if blocked {
		s.secLog.SilentDenial("connection_request", req.InitiatorID, *req.BuyerID)
		return nil, apperrors.ErrConnectionUnavailable
	}

	existing, err := s.repos.Connections.GetDirect(ctx, *req.BuyerID, req.InitiatorID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Wrap(err, "failed to look up existing connection")
	}

	now := s.now()
	if existing != nil {
		if err := s.reviveExisting(ctx, existing, 0, req.Message, now, false); err != nil {
			return nil, err
		}
		conn, err := s.repos.Connections.GetByID(ctx, existing.ID)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to reload connection")
		}
		s.notifyRequested(ctx, conn)
		return conn, nil
	}

	conn := &models.Connection{
		BuyerID:        *req.BuyerID,
		SellerID:       req.InitiatorID,
		Status:         models.ConnectionStatusPending,
		Origin:         models.OriginSellerInitiated,
		Message:        req.Message,
		RequestedAt:    now,
		LastActivityAt: now,
	}
	if err := s.repos.Connections.Create(ctx, conn); err != nil {
		return nil, s.mapCreateError(err)
	}

	s.notifyRequested(ctx, conn)
	return conn, nil
}

// reviveExisting applies the duplicate-request rules to an existing
// row: pending and approved rows reject the request, a blocked row
// fails with the generic unavailability error, and a rejected row is
// reopened, re-consuming quota when the requester pays at request time.
func (s *connectionService) reviveExisting(ctx context.Context, existing *models.Connection, subscriptionID uint, message string, now time.Time, consumeQuota bool) error {
	switch existing.Status {
	case models.ConnectionStatusPending:
		return apperrors.ErrAlreadyPending
	case models.ConnectionStatusApproved:
		return apperrors.ErrAlreadyConnected
	case models.ConnectionStatusBlocked:
		s.secLog.SilentDenial("connection_request", existing.BuyerID, existing.SellerID)
		return apperrors.ErrConnectionUnavailable
	}

	err := s.tx.InTx(ctx, func(r *repository.Repositories) error {
		if consumeQuota {
			if _, err := r.Subscriptions.ConsumeQuota(ctx, subscriptionID); err != nil {
				return err
			}
		}
		return r.Connections.Reopen(ctx, existing.ID, message, now)
	})
	if err != nil {
		if errors.Is(err, repository.ErrQuotaExhausted) {
			return apperrors.ErrQuotaExceeded
		}
		if errors.Is(err, repository.ErrStaleState) {
			// Another request won the reopen race.
			return apperrors.ErrAlreadyPending
		}
		return apperrors.Wrap(err, "failed to reopen connection")
	}
	return nil
}

// Respond records the counterparty's approval or rejection
func (s *connectionService) Respond(ctx context.Context, responderID, connectionID uint, decision models.ConnectionStatus, responseMessage string) (*models.Connection, error) {
	if decision != models.ConnectionStatusApproved && decision != models.ConnectionStatusRejected {
		return nil, fmt.Errorf("decision must be approved or rejected: %w", apperrors.ErrInvalidInput)
	}

	conn, err := s.partyConnection(ctx, responderID, connectionID)
	if err != nil {
		return nil, err
	}

	// Only the side that did not initiate may respond.
	expectedResponder := conn.SellerID
	if conn.Origin == models.OriginSellerInitiated {
		expectedResponder = conn.BuyerID
	}
	if responderID != expectedResponder {
		return nil, apperrors.ErrForbidden
	}

	if conn.Status != models.ConnectionStatusPending {
		return nil, apperrors.ErrInvalidTransition
	}

	now := s.now()
	err = s.tx.InTx(ctx, func(r *repository.Repositories) error {
		// A buyer accepting seller-initiated outreach pays one quota
		// unit at acceptance time.
		if decision == models.ConnectionStatusApproved && conn.Origin == models.OriginSellerInitiated {
			sub, err := r.Subscriptions.GetCurrentByUser(ctx, conn.BuyerID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperrors.ErrSubscriptionRequired
				}
				return err
			}
			if !sub.IsEffectivelyActive(now) {
				return apperrors.ErrSubscriptionRequired
			}
			if _, err := r.Subscriptions.ConsumeQuota(ctx, sub.ID); err != nil {
				return err
			}
		}
		return r.Connections.Respond(ctx, connectionID, decision, responseMessage, now)
	})
	if err != nil {
		if errors.Is(err, repository.ErrQuotaExhausted) {
			return nil, apperrors.ErrQuotaExceeded
		}
		if errors.Is(err, repository.ErrStaleState) {
			// A concurrent responder already decided.
			return nil, apperrors.ErrInvalidTransition
		}
		if errors.Is(err, apperrors.ErrSubscriptionRequired) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, "failed to respond to connection")
	}

	updated, err := s.repos.Connections.GetByID(ctx, connectionID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to reload connection")
	}

	s.dispatcher.Notify(ctx, NewNotification(EventConnectionResponded, updated.CounterpartyID(responderID), map[string]interface{}{
		"connection_id": updated.ID,
		"status":        updated.Status,
	}))
	return updated, nil
}

// BlockConnection forces a single connection into the terminal blocked
// state, closing its messaging channel. Idempotent: an already-blocked
// connection is a no-op success. No notification is emitted.
func (s *connectionService) BlockConnection(ctx context.Context, userID, connectionID uint) error {
	conn, err := s.partyConnection(ctx, userID, connectionID)
	if err != nil {
		return err
	}
	if conn.Status == models.ConnectionStatusBlocked {
		return nil
	}
	if err := s.repos.Connections.MarkBlocked(ctx, connectionID, s.now()); err != nil {
		return apperrors.Wrap(err, "failed to block connection")
	}
	return nil
}

// Status reports the connection state for a (buyer, listing) pair and
// whether a new request would currently succeed.
func (s *connectionService) Status(ctx context.Context, buyerID, listingID uint) (*ConnectionStatusInfo, error) {
	listing, err := s.repos.Listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrListingNotFound
		}
		return nil, apperrors.Wrap(err, "failed to resolve listing")
	}

	info := &ConnectionStatusInfo{}

	conn, err := s.repos.Connections.GetByBuyerAndListing(ctx, buyerID, listingID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Wrap(err, "failed to look up connection")
	}
	if conn != nil {
		info.ConnectionID = &conn.ID
		status := conn.Status
		info.Status = &status

		switch conn.Status {
		case models.ConnectionStatusPending:
			info.Reason = "a connection request is already pending"
			return info, nil
		case models.ConnectionStatusApproved:
			info.Reason = "you are already connected"
			return info, nil
		case models.ConnectionStatusBlocked:
			info.Reason = apperrors.ErrConnectionUnavailable.Error()
			return info, nil
		}
	}

	// From here the pair either has no row or a rejected one, so a new
	// request is conceivable; find the first thing that would stop it.
	sub, err := s.repos.Subscriptions.GetCurrentByUser(ctx, buyerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			info.Reason = apperrors.ErrSubscriptionRequired.Error()
			return info, nil
		}
		return nil, apperrors.Wrap(err, "failed to resolve subscription")
	}
	if !sub.IsEffectivelyActive(s.now()) {
		info.Reason = apperrors.ErrSubscriptionRequired.Error()
		return info, nil
	}
	if !subscriptionHasQuota(sub) {
		info.Reason = apperrors.ErrQuotaExceeded.Error()
		return info, nil
	}

	if !listing.IsConnectable() {
		info.Reason = apperrors.ErrConnectionUnavailable.Error()
		return info, nil
	}

	blocked, err := s.repos.Blocks.ExistsEitherDirection(ctx, buyerID, listing.SellerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check blocks")
	}
	if blocked {
		// Same reason text as an unavailable listing.
		s.secLog.SilentDenial("connection_status", buyerID, listing.SellerID)
		info.Reason = apperrors.ErrConnectionUnavailable.Error()
		return info, nil
	}

	info.CanRequest = true
	return info, nil
}

// List retrieves the user's connections, newest activity first
func (s *connectionService) List(ctx context.Context, userID uint, status *models.ConnectionStatus, limit, offset int) ([]models.ConnectionListItem, int64, error) {
	return s.repos.Connections.ListByUser(ctx, userID, status, limit, offset)
}

// Detail retrieves a single connection for one of its parties
func (s *connectionService) Detail(ctx context.Context, userID, connectionID uint) (*models.Connection, error) {
	return s.partyConnection(ctx, userID, connectionID)
}

// partyConnection loads a connection and verifies the caller is a
// party to it. Non-parties get the same not-found answer as a missing
// row so connection ids cannot be probed.
func (s *connectionService) partyConnection(ctx context.Context, userID, connectionID uint) (*models.Connection, error) {
	conn, err := s.repos.Connections.GetByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrConnectionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get connection")
	}
	if !conn.IsParty(userID) {
		return nil, apperrors.ErrConnectionNotFound
	}
	return conn, nil
}

// usableSubscription resolves the user's current subscription and
// requires it to be effectively active.
func (s *connectionService) usableSubscription(ctx context.Context, userID uint) (*models.Subscription, error) {
	sub, err := s.repos.Subscriptions.GetCurrentByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrSubscriptionRequired
		}
		return nil, apperrors.Wrap(err, "failed to resolve subscription")
	}
	if !sub.IsEffectivelyActive(s.now()) {
		return nil, apperrors.ErrSubscriptionRequired
	}
	return sub, nil
}

// mapCreateError converts transactional create failures into the
// caller-facing taxonomy.
func (s *connectionService) mapCreateError(err error) error {
	switch {
	case errors.Is(err, repository.ErrQuotaExhausted):
		return apperrors.ErrQuotaExceeded
	case errors.Is(err, repository.ErrDuplicateEntry):
		// A concurrent request created the row first.
		return apperrors.ErrAlreadyPending
	default:
		return apperrors.Wrap(err, "failed to create connection")
	}
}

// notifyRequested emits the connection-requested event to the party
// expected to respond.
func (s *connectionService) notifyRequested(ctx context.Context, conn *models.Connection) {
	target := conn.SellerID
	if conn.Origin == models.OriginSellerInitiated {
		target = conn.BuyerID
	}
	s.dispatcher.Notify(ctx, NewNotification(EventConnectionRequested, target, map[string]interface{}{
		"connection_id": conn.ID,
		"origin":        conn.Origin,
	}))
}
