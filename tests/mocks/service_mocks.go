package mocks

import (
	"context"

	"github.com/medimarkt/medimarkt-backend/internal/models"
	"github.com/medimarkt/medimarkt-backend/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockConnectionService implements services.ConnectionService
type MockConnectionService struct {
	mock.Mock
}

// Request creates or reopens a connection
func (m *MockConnectionService) Request(ctx context.Context, req services.ConnectionRequest) (*models.Connection, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Connection), args.Error(1)
}

// Respond records an approval or rejection
func (m *MockConnectionService) Respond(ctx context.Context, responderID, connectionID uint, decision models.ConnectionStatus, responseMessage string) (*models.Connection, error) {
	args := m.Called(ctx, responderID, connectionID, decision, responseMessage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Connection), args.Error(1)
}

// BlockConnection forces a connection into the blocked state
func (m *MockConnectionService) BlockConnection(ctx context.Context, userID, connectionID uint) error {
	args := m.Called(ctx, userID, connectionID)
	return args.Error(0)
}

// Status reports the buyer's connection status for a listing
func (m *MockConnectionService) Status(ctx context.Context, buyerID, listingID uint) (*services.ConnectionStatusInfo, error) {
	args := m.Called(ctx, buyerID, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ConnectionStatusInfo), args.Error(1)
}

// List retrieves the user's connections
func (m *MockConnectionService) List(ctx context.Context, userID uint, status *models.ConnectionStatus, limit, offset int) ([]models.ConnectionListItem, int64, error) {
	args := m.Called(ctx, userID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.ConnectionListItem), args.Get(1).(int64), args.Error(2)
}

// Detail retrieves a single connection for one of its parties
func (m *MockConnectionService) Detail(ctx context.Context, userID, connectionID uint) (*models.Connection, error) {
	args := m.Called(ctx, userID, connectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Connection), args.Error(1)
}

// MockMessageService implements services.MessageService
type MockMessageService struct {
	mock.Mock
}

// Send appends a message to an approved connection
func (m *MockMessageService) Send(ctx context.Context, senderID, connectionID uint, content string, msgType models.MessageType) (*models.Message, error) {
	args := m.Called(ctx, senderID, connectionID, content, msgType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// List retrieves a page of messages
func (m *MockMessageService) List(ctx context.Context, requesterID, connectionID uint, limit, offset int) ([]models.Message, int64, error) {
	args := m.Called(ctx, requesterID, connectionID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Message), args.Get(1).(int64), args.Error(2)
}

// MarkRead marks a message read on behalf of the requester
func (m *MockMessageService) MarkRead(ctx context.Context, requesterID, messageID uint) error {
	args := m.Called(ctx, requesterID, messageID)
	return args.Error(0)
}

// MockBlockService implements services.BlockService
type MockBlockService struct {
	mock.Mock
}

// Block creates an active block
func (m *MockBlockService) Block(ctx context.Context, blockerID, blockedID uint, reason string) (*models.Block, error) {
	args := m.Called(ctx, blockerID, blockedID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Block), args.Error(1)
}

// Unblock deactivates the active block
func (m *MockBlockService) Unblock(ctx context.Context, blockerID, blockedID uint) error {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Error(0)
}

// IsBlocking checks the ordered pair
func (m *MockBlockService) IsBlocking(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Bool(0), args.Error(1)
}

// ExistsEitherDirection checks both directions
func (m *MockBlockService) ExistsEitherDirection(ctx context.Context, userA, userB uint) (bool, error) {
	args := m.Called(ctx, userA, userB)
	return args.Bool(0), args.Error(1)
}

// ListBlocks returns the user's active blocks
func (m *MockBlockService) ListBlocks(ctx context.Context, blockerID uint) ([]models.Block, error) {
	args := m.Called(ctx, blockerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Block), args.Error(1)
}

// MockQuotaService implements services.QuotaService
type MockQuotaService struct {
	mock.Mock
}

// EffectiveStatus derives the usable/expired state of a subscription
func (m *MockQuotaService) EffectiveStatus(ctx context.Context, subscriptionID uint) (services.EffectiveStatus, error) {
	args := m.Called(ctx, subscriptionID)
	return args.Get(0).(services.EffectiveStatus), args.Error(1)
}

// HasRemainingQuota reports whether one more connection may be requested
func (m *MockQuotaService) HasRemainingQuota(ctx context.Context, subscriptionID uint) (bool, error) {
	args := m.Called(ctx, subscriptionID)
	return args.Bool(0), args.Error(1)
}

// ConsumeOne atomically takes one quota unit
func (m *MockQuotaService) ConsumeOne(ctx context.Context, subscriptionID uint) (int, error) {
	args := m.Called(ctx, subscriptionID)
	return args.Int(0), args.Error(1)
}

// SnapshotForUser reports the user's current quota position
func (m *MockQuotaService) SnapshotForUser(ctx context.Context, userID uint) (*services.QuotaSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QuotaSnapshot), args.Error(1)
}
