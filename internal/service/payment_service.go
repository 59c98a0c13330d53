// internal/service/payment_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"customer-portal/internal/domain"
	"customer-portal/internal/repository"
	"customer-portal/internal/util"
	"customer-portal/pkg/validation"

	"github.com/shopspring/decimal"
)

// Caller identifies who is invoking a ledger operation.
type Caller struct {
	UserID string
	Role   domain.Role
}

// CreatePaymentInput carries the raw payment form. Amount is the textual
// decimal as submitted.
type CreatePaymentInput struct {
	UserID       string
	Amount       string
	Currency     string
	Provider     string
	PayeeAccount string
	SWIFT        string
	PayeeName    string
	Description  string
}

// PaymentService defines the transaction ledger operations.
type PaymentService interface {
	Create(ctx context.Context, caller Caller, in CreatePaymentInput) (*domain.Transaction, error)
	ListMine(ctx context.Context, caller Caller, userID string) ([]domain.Transaction, error)
	ListPending(ctx context.Context) ([]domain.Transaction, error)
	ListAll(ctx context.Context) ([]domain.Transaction, error)
	Verify(ctx context.Context, transactionID string) (*domain.Transaction, error)
	Settings(ctx context.Context) (domain.SystemSettings, error)
	UpdateSettings(ctx context.Context, min, max decimal.Decimal) (domain.SystemSettings, error)
}

// paymentService implements the PaymentService interface.
type paymentService struct {
	store  repository.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(store repository.Store, logger *slog.Logger) PaymentService {
	return &paymentService{store: store, logger: logger, now: time.Now}
}

// Create records a pending payment request for the calling customer.
func (s *paymentService) Create(ctx context.Context, caller Caller, in CreatePaymentInput) (*domain.Transaction, error) {
	v := &validation.Validator{}
	userID := v.Field(validation.Identifier, in.UserID)
	rawAmount := v.Field(validation.Amount, in.Amount)
	currency := v.Field(validation.Currency, in.Currency)
	provider := v.Field(validation.Provider, in.Provider)
	payeeAccount := v.Field(validation.PayeeAccount, in.PayeeAccount)
	swift := v.Field(validation.SWIFT, in.SWIFT)
	payeeName := v.Field(validation.PayeeName, in.PayeeName)
	description := v.Field(validation.Description, in.Description)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	if caller.Role != domain.RoleCustomer || caller.UserID != userID {
		return nil, fmt.Errorf("create payment: %w", util.ErrNotAuthorized)
	}

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w: amount", util.ErrInvalidInput)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("create payment: %w", util.ErrAmountOutOfRange)
	}

	transaction := domain.NewTransaction(userID, amount, currency, provider, payeeAccount, swift, payeeName, description)
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		owner, err := repos.Users.GetUserByID(ctx, userID)
		if errors.Is(err, util.ErrNotFound) {
			return util.ErrNotAuthorized
		}
		if err != nil {
			return err
		}
		if owner.Role != domain.RoleCustomer || !owner.IsActive {
			return util.ErrNotAuthorized
		}

		settings, err := repos.Settings.GetSettings(ctx)
		if err != nil {
			return err
		}
		if !settings.AmountAllowed(amount) {
			return util.ErrAmountOutOfRange
		}
		return repos.Transactions.CreateTransaction(ctx, transaction)
	})
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.logger.Info("Payment request created", "user_id", userID, "transaction_id", transaction.ID)
	return transaction, nil
}

// ListMine returns the transactions owned by userID. Customers may only list
// their own; staff may list anyone's.
func (s *paymentService) ListMine(ctx context.Context, caller Caller, userID string) ([]domain.Transaction, error) {
	id, err := validation.Identifier.Clean(userID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	if caller.Role != domain.RoleStaff && caller.UserID != id {
		return nil, fmt.Errorf("list payments: %w", util.ErrNotAuthorized)
	}

	var transactions []domain.Transaction
	err = s.store.ReadOnly(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		transactions, err = repos.Transactions.ListTransactionsByUserID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return transactions, nil
}

// ListPending returns every pending transaction.
func (s *paymentService) ListPending(ctx context.Context) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	err := s.store.ReadOnly(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		transactions, err = repos.Transactions.ListTransactionsByStatus(ctx, domain.TransactionStatusPending)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}
	return transactions, nil
}

// ListAll returns every transaction.
func (s *paymentService) ListAll(ctx context.Context) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	err := s.store.ReadOnly(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		transactions, err = repos.Transactions.ListTransactions(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return transactions, nil
}

// Verify moves a pending transaction through verified to submitted in one
// storage transaction. Submission to SWIFT is simulated.
func (s *paymentService) Verify(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	id, err := validation.Identifier.Clean(transactionID)
	if err != nil {
		return nil, fmt.Errorf("verify payment: %w", err)
	}

	var transaction *domain.Transaction
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		t, err := repos.Transactions.GetTransactionForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t.Status != domain.TransactionStatusPending {
			return util.ErrInvalidTransition
		}

		now := s.now().UTC()
		if err := t.Verify(now); err != nil {
			return err
		}
		if err := t.Submit(now); err != nil {
			return err
		}
		if err := repos.Transactions.UpdateTransaction(ctx, t, domain.TransactionStatusPending); err != nil {
			return err
		}
		transaction = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify payment %s: %w", id, err)
	}

	s.logger.Info("Payment verified and submitted", "transaction_id", id)
	return transaction, nil
}

// Settings returns the current ledger-wide limits.
func (s *paymentService) Settings(ctx context.Context) (domain.SystemSettings, error) {
	var settings domain.SystemSettings
	err := s.store.ReadOnly(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		settings, err = repos.Settings.GetSettings(ctx)
		return err
	})
	if err != nil {
		return domain.SystemSettings{}, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings replaces the amount bounds. Zero disables a bound.
func (s *paymentService) UpdateSettings(ctx context.Context, min, max decimal.Decimal) (domain.SystemSettings, error) {
	if min.IsNegative() || max.IsNegative() {
		return domain.SystemSettings{}, fmt.Errorf("update settings: %w: bounds must not be negative", util.ErrInvalidInput)
	}
	if max.IsPositive() && min.GreaterThan(max) {
		return domain.SystemSettings{}, fmt.Errorf("update settings: %w: minimum exceeds maximum", util.ErrInvalidInput)
	}

	settings := domain.SystemSettings{
		MinTransactionAmount: min.Round(2),
		MaxTransactionAmount: max.Round(2),
	}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Settings.SaveSettings(ctx, settings)
	})
	if err != nil {
		return domain.SystemSettings{}, fmt.Errorf("update settings: %w", err)
	}
	s.logger.Info("System settings updated", "min", settings.MinTransactionAmount.String(), "max", settings.MaxTransactionAmount.String())
	return settings, nil
}
