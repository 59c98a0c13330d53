// internal/repository/jsonfile/transaction_repo.go
package jsonfile

import (
	"context"
	"fmt"

	"customer-portal/internal/domain"
	"customer-portal/internal/util"
)

type transactionRepository struct {
	v *view
}

func (r *transactionRepository) CreateTransaction(_ context.Context, transaction *domain.Transaction) error {
	if err := r.v.write(); err != nil {
		return err
	}
	r.v.doc.Transactions = append(r.v.doc.Transactions, *transaction)
	return nil
}

func (r *transactionRepository) index(id string) int {
	for i := range r.v.doc.Transactions {
		if r.v.doc.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *transactionRepository) GetTransactionByID(_ context.Context, id string) (*domain.Transaction, error) {
	i := r.index(id)
	if i < 0 {
		return nil, util.ErrNotFound
	}
	t := r.v.doc.Transactions[i]
	return &t, nil
}

// GetTransactionForUpdate needs no row lock: the store mutex is held for the whole unit of work.
func (r *transactionRepository) GetTransactionForUpdate(ctx context.Context, id string) (*domain.Transaction, error) {
	return r.GetTransactionByID(ctx, id)
}

func (r *transactionRepository) filter(keep func(*domain.Transaction) bool) []domain.Transaction {
	out := []domain.Transaction{}
	for i := range r.v.doc.Transactions {
		if keep(&r.v.doc.Transactions[i]) {
			out = append(out, r.v.doc.Transactions[i])
		}
	}
	return out
}

func (r *transactionRepository) ListTransactionsByUserID(_ context.Context, userID string) ([]domain.Transaction, error) {
	return r.filter(func(t *domain.Transaction) bool { return t.UserID == userID }), nil
}

func (r *transactionRepository) ListTransactionsByStatus(_ context.Context, status domain.TransactionStatus) ([]domain.Transaction, error) {
	return r.filter(func(t *domain.Transaction) bool { return t.Status == status }), nil
}

func (r *transactionRepository) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	return r.filter(func(*domain.Transaction) bool { return true }), nil
}

func (r *transactionRepository) UpdateTransaction(_ context.Context, transaction *domain.Transaction, expected domain.TransactionStatus) error {
	i := r.index(transaction.ID)
	if i < 0 {
		return fmt.Errorf("update transaction %s: %w", transaction.ID, util.ErrNotFound)
	}
	if r.v.doc.Transactions[i].Status != expected {
		return fmt.Errorf("update transaction %s from %s: %w", transaction.ID, expected, util.ErrInvalidTransition)
	}
	if err := r.v.write(); err != nil {
		return err
	}
	r.v.doc.Transactions[i] = *transaction
	return nil
}
