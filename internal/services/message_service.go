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

// MaxMessageLength caps message content size
const MaxMessageLength = 10000

// MessageService is the append-only message log scoped to a
// connection. Messages only flow through approved connections, and a
// block between the parties silently closes the channel.
type MessageService interface {
	Send(ctx context.Context, senderID, connectionID uint, content string, msgType models.MessageType) (*models.Message, error)
	List(ctx context.Context, requesterID, connectionID uint, limit, offset int) ([]models.Message, int64, error)
	MarkRead(ctx context.Context, requesterID, messageID uint) error
}

// messageService implements MessageService
type messageService struct {
	repos      *repository.Repositories
	tx         repository.TxManager
	dispatcher NotificationDispatcher
	secLog     *logger.SecurityLogger
	now        func() time.Time
}

// NewMessageService creates a new MessageService instance
func NewMessageService(repos *repository.Repositories, tx repository.TxManager, dispatcher NotificationDispatcher, secLog *logger.SecurityLogger) MessageService {
	return &messageService{
		repos:      repos,
		tx:         tx,
		dispatcher: dispatcher,
		secLog:     secLog,
		now:        time.Now,
	}
}

// Send appends a message to an approved connection
func (s *messageService) Send(ctx context.Context, senderID, connectionID uint, content string, msgType models.MessageType) (*models.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("message content cannot be empty: %w", apperrors.ErrInvalidInput)
	}
	if len(content) > MaxMessageLength {
		return nil, fmt.Errorf("message content too long: %w", apperrors.ErrInvalidInput)
	}
	if !msgType.IsValid() {
		return nil, fmt.Errorf("invalid message type: %w", apperrors.ErrInvalidInput)
	}

	conn, err := s.accessibleConnection(ctx, senderID, connectionID)
	if err != nil {
		return nil, err
	}
	if conn.Status != models.ConnectionStatusApproved {
		return nil, apperrors.ErrInvalidTransition
	}

	// Re-check blocking at send time. A block placed after approval
	// must close the channel without revealing itself.
	blocked, err := s.repos.Blocks.ExistsEitherDirection(ctx, conn.BuyerID, conn.SellerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check blocks")
	}
	if blocked {
		s.secLog.SilentDenial("message_send", conn.BuyerID, conn.SellerID)
		return nil, apperrors.ErrMessagingUnavailable
	}

	now := s.now()
	message := &models.Message{
		ConnectionID: connectionID,
		SenderID:     senderID,
		Content:      content,
		Type:         msgType,
	}

	err = s.tx.InTx(ctx, func(r *repository.Repositories) error {
		if err := r.Messages.Create(ctx, message); err != nil {
			return err
		}
		return r.Connections.TouchActivity(ctx, connectionID, now)
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to send message")
	}

	s.dispatcher.Notify(ctx, NewNotification(EventNewMessage, conn.CounterpartyID(senderID), map[string]interface{}{
		"connection_id": connectionID,
		"message_id":    message.ID,
		"sender_id":     senderID,
	}))
	return message, nil
}

// List retrieves a page of messages, oldest first
func (s *messageService) List(ctx context.Context, requesterID, connectionID uint, limit, offset int) ([]models.Message, int64, error) {
	if _, err := s.accessibleConnection(ctx, requesterID, connectionID); err != nil {
		return nil, 0, err
	}
	return s.repos.Messages.ListByConnection(ctx, connectionID, limit, offset)
}

// MarkRead marks a message read on behalf of the requester and records
// a read receipt. Idempotent.
func (s *messageService) MarkRead(ctx context.Context, requesterID, messageID uint) error {
	message, err := s.repos.Messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrMessageNotFound
		}
		return apperrors.Wrap(err, "failed to get message")
	}

	if _, err := s.accessibleConnection(ctx, requesterID, message.ConnectionID); err != nil {
		return err
	}

	if err := s.repos.Messages.MarkRead(ctx, messageID, requesterID, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrMessageNotFound
		}
		return apperrors.Wrap(err, "failed to mark message as read")
	}
	return nil
}

// accessibleConnection loads the connection and verifies the requester
// is one of its parties.
func (s *messageService) accessibleConnection(ctx context.Context, userID, connectionID uint) (*models.Connection, error) {
	conn, err := s.repos.Connections.GetByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrConnectionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get connection")
	}
	if !conn.IsParty(userID) {
		return nil, apperrors.ErrForbidden
	}
	return conn, nil
}
