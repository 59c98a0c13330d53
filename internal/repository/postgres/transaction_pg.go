// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"customer-portal/internal/domain"
	"customer-portal/internal/repository"
	"customer-portal/internal/util"
)

const transactionColumns = `id, user_id, amount, currency, provider, payee_account, swift, payee_name,
       description, status, failure_reason, created_at, updated_at, verified_at, submitted_to_swift_at`

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct {
	q repository.DBExecutor
}

// NewTransactionRepository creates a TransactionRepository bound to q.
func NewTransactionRepository(q repository.DBExecutor) *TransactionRepository {
	return &TransactionRepository{q: q}
}

// CreateTransaction inserts a new payment request.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (id, user_id, amount, currency, provider, payee_account, swift,
                                        payee_name, description, status, failure_reason, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.q.ExecContext(ctx, query,
		transaction.ID,
		transaction.UserID,
		transaction.Amount,
		transaction.Currency,
		transaction.Provider,
		transaction.PayeeAccount,
		transaction.SWIFT,
		transaction.PayeeName,
		transaction.Description,
		transaction.Status,
		transaction.FailureReason,
		transaction.CreatedAt,
		transaction.UpdatedAt,
	)
	if err != nil {
		return wrapErr("failed to create transaction", err)
	}
	return nil
}

// GetTransactionByID retrieves a transaction by id.
func (r *TransactionRepository) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return r.getOne(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
}

// GetTransactionForUpdate retrieves a transaction and locks its row.
func (r *TransactionRepository) GetTransactionForUpdate(ctx context.Context, id string) (*domain.Transaction, error) {
	return r.getOne(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransactionRepository) getOne(ctx context.Context, query, id string) (*domain.Transaction, error) {
	var transaction domain.Transaction
	if err := r.q.GetContext(ctx, &transaction, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, wrapErr(fmt.Sprintf("failed to get transaction %s", id), err)
	}
	return &transaction, nil
}

// ListTransactionsByUserID returns the user's transactions in insertion order.
func (r *TransactionRepository) ListTransactionsByUserID(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return r.list(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY seq`, userID)
}

// ListTransactionsByStatus returns transactions in the given status in insertion order.
func (r *TransactionRepository) ListTransactionsByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error) {
	return r.list(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE status = $1 ORDER BY seq`, status)
}

// ListTransactions returns every transaction in insertion order.
func (r *TransactionRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return r.list(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY seq`)
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	if err := r.q.SelectContext(ctx, &transactions, query, args...); err != nil {
		return nil, wrapErr("failed to list transactions", err)
	}
	return transactions, nil
}

// UpdateTransaction writes the state fields of transaction, guarded by the expected status.
func (r *TransactionRepository) UpdateTransaction(ctx context.Context, transaction *domain.Transaction, expected domain.TransactionStatus) error {
	query := `UPDATE transactions
              SET status = $2, failure_reason = $3, updated_at = $4, verified_at = $5, submitted_to_swift_at = $6
              WHERE id = $1 AND status = $7`
	res, err := r.q.ExecContext(ctx, query,
		transaction.ID,
		transaction.Status,
		transaction.FailureReason,
		transaction.UpdatedAt,
		transaction.VerifiedAt,
		transaction.SubmittedToSWIFTAt,
		expected,
	)
	if err != nil {
		return wrapErr("failed to update transaction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("failed to update transaction", err)
	}
	if n == 0 {
		return fmt.Errorf("update transaction %s from %s: %w", transaction.ID, expected, util.ErrInvalidTransition)
	}
	return nil
}
