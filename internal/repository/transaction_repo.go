// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"customer-portal/internal/domain"
)

// TransactionRepository defines the interface for payment request data operations.
// List methods return records in insertion order.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, transaction *domain.Transaction) error
	// GetTransactionByID returns util.ErrNotFound when no record matches.
	GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error)
	// GetTransactionForUpdate is GetTransactionByID with the record locked until the
	// surrounding storage transaction ends.
	GetTransactionForUpdate(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactionsByUserID(ctx context.Context, userID string) ([]domain.Transaction, error)
	ListTransactionsByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	// UpdateTransaction writes transaction only if its stored status is still
	// expected; otherwise it returns util.ErrInvalidTransition.
	UpdateTransaction(ctx context.Context, transaction *domain.Transaction, expected domain.TransactionStatus) error
}
