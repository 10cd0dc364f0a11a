package fixtures

import (
	"fmt"
	"time"

	"github.com/medimarkt/medimarkt-backend/internal/models"
)

// UserBuilder creates test User instances with fluent API
type UserBuilder struct {
	user models.User
}

// NewUserBuilder creates a new UserBuilder with sensible defaults
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		user: models.User{
			ID:          1,
			Email:       "buyer@clinic.example",
			DisplayName: "Test Buyer",
			Role:        models.RoleBuyer,
			CreatedAt:   time.Now(),
		},
	}
}

// WithID sets the user ID
func (b *UserBuilder) WithID(id uint) *UserBuilder {
	b.user.ID = id
	return b
}

// WithEmail sets the email address
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.user.DisplayName = name
	return b
}

// WithRole sets the marketplace role
func (b *UserBuilder) WithRole(role models.UserRole) *UserBuilder {
	b.user.Role = role
	return b
}

// Build returns the constructed User
func (b *UserBuilder) Build() *models.User {
	return &b.user
}

// BuildValue returns the constructed User as a value (not pointer)
func (b *UserBuilder) BuildValue() models.User {
	return b.user
}

// ListingBuilder creates test Listing instances with fluent API
type ListingBuilder struct {
	listing models.Listing
}

// NewListingBuilder creates a new ListingBuilder with sensible defaults
func NewListingBuilder() *ListingBuilder {
	now := time.Now()
	return &ListingBuilder{
		listing: models.Listing{
			ID:        1,
			SellerID:  2,
			Title:     "Refurbished ultrasound scanner",
			Status:    models.ListingStatusPublished,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// WithID sets the listing ID
func (b *ListingBuilder) WithID(id uint) *ListingBuilder {
	b.listing.ID = id
	return b
}

// WithSellerID sets the owning seller
func (b *ListingBuilder) WithSellerID(sellerID uint) *ListingBuilder {
	b.listing.SellerID = sellerID
	return b
}

// WithTitle sets the listing title
func (b *ListingBuilder) WithTitle(title string) *ListingBuilder {
	b.listing.Title = title
	return b
}

// WithStatus sets the publication status
func (b *ListingBuilder) WithStatus(status models.ListingStatus) *ListingBuilder {
	b.listing.Status = status
	return b
}

// WithConnectionCount sets the denormalized connection counter
func (b *ListingBuilder) WithConnectionCount(count int) *ListingBuilder {
	b.listing.ConnectionCount = count
	return b
}

// Build returns the constructed Listing
func (b *ListingBuilder) Build() *models.Listing {
	return &b.listing
}

// BuildValue returns the constructed Listing as a value (not pointer)
func (b *ListingBuilder) BuildValue() models.Listing {
	return b.listing
}

// SubscriptionBuilder creates test Subscription instances with fluent API
type SubscriptionBuilder struct {
	subscription models.Subscription
}

// NewSubscriptionBuilder creates a new SubscriptionBuilder with an
// active subscription in the middle of its billing period
func NewSubscriptionBuilder() *SubscriptionBuilder {
	now := time.Now()
	return &SubscriptionBuilder{
		subscription: models.Subscription{
			ID:              1,
			UserID:          1,
			PlanID:          1,
			Status:          models.SubscriptionStatusActive,
			ConnectionLimit: 10,
			ConnectionsUsed: 0,
			PeriodStart:     now.AddDate(0, 0, -15),
			PeriodEnd:       now.AddDate(0, 0, 15),
		},
	}
}

// WithID sets the subscription ID
func (b *SubscriptionBuilder) WithID(id uint) *SubscriptionBuilder {
	b.subscription.ID = id
	return b
}

// WithUserID sets the owning user
func (b *SubscriptionBuilder) WithUserID(userID uint) *SubscriptionBuilder {
	b.subscription.UserID = userID
	return b
}

// WithStatus sets the billing status
func (b *SubscriptionBuilder) WithStatus(status models.SubscriptionStatus) *SubscriptionBuilder {
	b.subscription.Status = status
	return b
}

// WithQuota sets limit and used together
func (b *SubscriptionBuilder) WithQuota(limit, used int) *SubscriptionBuilder {
	b.subscription.ConnectionLimit = limit
	b.subscription.ConnectionsUsed = used
	return b
}

// WithUnlimited removes the connection cap
func (b *SubscriptionBuilder) WithUnlimited() *SubscriptionBuilder {
	b.subscription.ConnectionLimit = models.UnlimitedConnections
	return b
}

// WithPeriod sets the billing period bounds
func (b *SubscriptionBuilder) WithPeriod(start, end time.Time) *SubscriptionBuilder {
	b.subscription.PeriodStart = start
	b.subscription.PeriodEnd = end
	return b
}

// Build returns the constructed Subscription
func (b *SubscriptionBuilder) Build() *models.Subscription {
	return &b.subscription
}

// BuildValue returns the constructed Subscription as a value (not pointer)
func (b *SubscriptionBuilder) BuildValue() models.Subscription {
	return b.subscription
}

// ConnectionBuilder creates test Connection instances with fluent API
type ConnectionBuilder struct {
	connection models.Connection
}

// NewConnectionBuilder creates a new ConnectionBuilder defaulting to a
// fresh pending buyer-initiated request
func NewConnectionBuilder() *ConnectionBuilder {
	now := time.Now()
	listingID := uint(1)
	return &ConnectionBuilder{
		connection: models.Connection{
			ID:             1,
			BuyerID:        1,
			SellerID:       2,
			ListingID:      &listingID,
			Status:         models.ConnectionStatusPending,
			Origin:         models.OriginBuyerInitiated,
			Message:        "interested in this listing",
			RequestedAt:    now,
			LastActivityAt: now,
		},
	}
}

// WithID sets the connection ID
func (b *ConnectionBuilder) WithID(id uint) *ConnectionBuilder {
	b.connection.ID = id
	return b
}

// WithParties sets buyer and seller
func (b *ConnectionBuilder) WithParties(buyerID, sellerID uint) *ConnectionBuilder {
	b.connection.BuyerID = buyerID
	b.connection.SellerID = sellerID
	return b
}

// WithListingID sets the listing scope
func (b *ConnectionBuilder) WithListingID(listingID uint) *ConnectionBuilder {
	b.connection.ListingID = &listingID
	return b
}

// Direct removes the listing scope, making it a direct connection
func (b *ConnectionBuilder) Direct() *ConnectionBuilder {
	b.connection.ListingID = nil
	b.connection.Origin = models.OriginSellerInitiated
	return b
}

// WithStatus sets the lifecycle state
func (b *ConnectionBuilder) WithStatus(status models.ConnectionStatus) *ConnectionBuilder {
	b.connection.Status = status
	return b
}

// WithMessage sets the request message
func (b *ConnectionBuilder) WithMessage(message string) *ConnectionBuilder {
	b.connection.Message = message
	return b
}

// WithRespondedAt sets the decision timestamp
func (b *ConnectionBuilder) WithRespondedAt(t time.Time) *ConnectionBuilder {
	b.connection.RespondedAt = &t
	return b
}

// Build returns the constructed Connection
func (b *ConnectionBuilder) Build() *models.Connection {
	return &b.connection
}

// BuildValue returns the constructed Connection as a value (not pointer)
func (b *ConnectionBuilder) BuildValue() models.Connection {
	return b.connection
}

// MessageBuilder creates test Message instances with fluent API
type MessageBuilder struct {
	message models.Message
}

// NewMessageBuilder creates a new MessageBuilder with sensible defaults
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{
		message: models.Message{
			ID:           1,
			ConnectionID: 1,
			SenderID:     1,
			Content:      "is this still available?",
			Type:         models.MessageTypeText,
			IsRead:       false,
			CreatedAt:    time.Now(),
		},
	}
}

// WithID sets the message ID
func (b *MessageBuilder) WithID(id uint) *MessageBuilder {
	b.message.ID = id
	return b
}

// WithConnectionID sets the owning connection
func (b *MessageBuilder) WithConnectionID(connectionID uint) *MessageBuilder {
	b.message.ConnectionID = connectionID
	return b
}

// WithSenderID sets the sending party
func (b *MessageBuilder) WithSenderID(senderID uint) *MessageBuilder {
	b.message.SenderID = senderID
	return b
}

// WithContent sets the message content
func (b *MessageBuilder) WithContent(content string) *MessageBuilder {
	b.message.Content = content
	return b
}

// WithType sets the message type
func (b *MessageBuilder) WithType(msgType models.MessageType) *MessageBuilder {
	b.message.Type = msgType
	return b
}

// WithRead sets the read flag
func (b *MessageBuilder) WithRead(isRead bool) *MessageBuilder {
	b.message.IsRead = isRead
	return b
}

// WithCreatedAt sets the created timestamp
func (b *MessageBuilder) WithCreatedAt(t time.Time) *MessageBuilder {
	b.message.CreatedAt = t
	return b
}

// Build returns the constructed Message
func (b *MessageBuilder) Build() *models.Message {
	return &b.message
}

// BuildValue returns the constructed Message as a value (not pointer)
func (b *MessageBuilder) BuildValue() models.Message {
	return b.message
}

// BlockBuilder creates test Block instances with fluent API
type BlockBuilder struct {
	block models.Block
}

// NewBlockBuilder creates a new BlockBuilder with sensible defaults
func NewBlockBuilder() *BlockBuilder {
	return &BlockBuilder{
		block: models.Block{
			ID:        1,
			BlockerID: 1,
			BlockedID: 2,
			IsActive:  true,
			CreatedAt: time.Now(),
		},
	}
}

// WithID sets the block ID
func (b *BlockBuilder) WithID(id uint) *BlockBuilder {
	b.block.ID = id
	return b
}

// WithPair sets blocker and blocked
func (b *BlockBuilder) WithPair(blockerID, blockedID uint) *BlockBuilder {
	b.block.BlockerID = blockerID
	b.block.BlockedID = blockedID
	return b
}

// WithReason sets the private reason
func (b *BlockBuilder) WithReason(reason string) *BlockBuilder {
	b.block.Reason = reason
	return b
}

// WithActive sets the active flag
func (b *BlockBuilder) WithActive(active bool) *BlockBuilder {
	b.block.IsActive = active
	return b
}

// Build returns the constructed Block
func (b *BlockBuilder) Build() *models.Block {
	return &b.block
}

// BuildValue returns the constructed Block as a value (not pointer)
func (b *BlockBuilder) BuildValue() models.Block {
	return b.block
}

// Helper functions for creating multiple test entities

// CreateUsers creates a slice of users with sequential IDs, alternating
// buyer and seller roles
func CreateUsers(count int) []models.User {
	users := make([]models.User, count)
	for i := 0; i < count; i++ {
		role := models.RoleBuyer
		if i%2 == 1 {
			role = models.RoleSeller
		}
		users[i] = NewUserBuilder().
			WithID(uint(i + 1)).
			WithEmail(fmt.Sprintf("user%d@medimarkt.example", i+1)).
			WithRole(role).
			BuildValue()
	}
	return users
}

// CreateListings creates a slice of published listings for a seller
func CreateListings(sellerID uint, count int) []models.Listing {
	listings := make([]models.Listing, count)
	for i := 0; i < count; i++ {
		listings[i] = NewListingBuilder().
			WithID(uint(i + 1)).
			WithSellerID(sellerID).
			WithTitle(generateListingTitle(i)).
			BuildValue()
	}
	return listings
}

// CreateMessages creates a slice of messages on a connection, oldest
// first, alternating sender between the two parties
func CreateMessages(connectionID, buyerID, sellerID uint, count int) []models.Message {
	messages := make([]models.Message, count)
	for i := 0; i < count; i++ {
		senderID := buyerID
		if i%2 == 1 {
			senderID = sellerID
		}
		messages[i] = NewMessageBuilder().
			WithID(uint(i + 1)).
			WithConnectionID(connectionID).
			WithSenderID(senderID).
			WithContent(generateMessageContent(i)).
			WithCreatedAt(time.Now().Add(-time.Duration(count-i) * time.Minute)).
			BuildValue()
	}
	return messages
}

func generateListingTitle(index int) string {
	titles := []string{
		"Refurbished ultrasound scanner",
		"Dental chair, barely used",
		"Patient monitor bundle",
		"Surgical instrument set",
		"Portable X-ray unit",
	}
	return titles[index%len(titles)]
}

func generateMessageContent(index int) string {
	contents := []string{
		"Is this still available?",
		"Yes, ready to ship this week.",
		"What is the service history?",
		"Full maintenance log included.",
		"Can you do a video call demo?",
	}
	return contents[index%len(contents)]
}
