// internal/repository/store.go
package repository

import (
	"context"
)

// Repositories groups the repositories that share one storage view.
type Repositories struct {
	Users        UserRepository
	Transactions TransactionRepository
	Settings     SettingsRepository
}

// UnitOfWork is run by a Store against a consistent set of repositories.
type UnitOfWork func(ctx context.Context, repos Repositories) error

// Store is the single storage abstraction used by the services.
//
// ReadOnly runs fn against the current state. WithinTx runs fn inside one
// storage transaction: every write made through repos is committed together
// when fn returns nil and discarded otherwise.
type Store interface {
	ReadOnly(ctx context.Context, fn UnitOfWork) error
	WithinTx(ctx context.Context, fn UnitOfWork) error
	Close() error
}
