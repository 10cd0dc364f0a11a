package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository bound to one *gorm.DB, which
// may be the root connection or an open transaction.
type Repositories struct {
	Users         UserRepository
	Listings      ListingRepository
	Subscriptions SubscriptionRepository
	Connections   ConnectionRepository
	Messages      MessageRepository
	Blocks        BlockRepository
}

// NewRepositories creates the repository bundle for a database handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Listings:      NewListingRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
		Connections:   NewConnectionRepository(db),
		Messages:      NewMessageRepository(db),
		Blocks:        NewBlockRepository(db),
	}
}

// TxManager runs multi-repository units of work atomically. Services
// receive it explicitly so the transaction boundary is visible at each
// call site and replaceable in tests.
type TxManager interface {
	InTx(ctx context.Context, fn func(r *Repositories) error) error
}

// gormTxManager implements TxManager on a GORM database
type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a TxManager backed by the given database
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

// InTx executes fn inside a database transaction. Repositories handed
// to fn are bound to the transaction; any error rolls everything back.
func (m *gormTxManager) InTx(ctx context.Context, fn func(r *Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
