package services

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of notification event
type EventType string

const (
	EventConnectionRequested EventType = "connection_requested"
	EventConnectionResponded EventType = "connection_responded"
	EventNewMessage          EventType = "new_message"
)

// Notification is the event envelope handed to the dispatcher
type Notification struct {
	ID           string                 `json:"id"`
	Type         EventType              `json:"type"`
	TargetUserID uint                   `json:"target_user_id"`
	Payload      map[string]interface{} `json:"payload,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// NewNotification creates a notification event with a fresh id
func NewNotification(eventType EventType, targetUserID uint, payload map[string]interface{}) Notification {
	return Notification{
		ID:           uuid.NewString(),
		Type:         eventType,
		TargetUserID: targetUserID,
		Payload:      payload,
		CreatedAt:    time.Now().UTC(),
	}
}

// NotificationDispatcher delivers events to users. Delivery is
// fire-and-forget: implementations must never block business flows and
// never surface delivery failures to callers.
type NotificationDispatcher interface {
	Notify(ctx context.Context, n Notification)
}

// NopDispatcher discards all notifications. Used in tests and as a
// safe default when no push transport is configured.
type NopDispatcher struct{}

// Notify discards the event
func (NopDispatcher) Notify(ctx context.Context, n Notification) {}
