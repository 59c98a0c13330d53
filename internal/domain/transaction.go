// internal/domain/transaction.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal" // For precise monetary comparisons
)

// TransactionStatus defines the status of a payment request.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusVerified  TransactionStatus = "verified"
	TransactionStatusSubmitted TransactionStatus = "submitted"
	// TransactionStatusFailed is part of the model but no operation sets it yet.
	TransactionStatusFailed TransactionStatus = "failed"
)

const (
	DefaultPayeeName   = "Unknown"
	DefaultDescription = "Payment transaction"
)

// transitions lists the only forward moves a payment request may make.
var transitions = map[TransactionStatus]TransactionStatus{
	TransactionStatusPending:  TransactionStatusVerified,
	TransactionStatusVerified: TransactionStatusSubmitted,
}

// CanTransition reports whether from may move directly to to.
func CanTransition(from, to TransactionStatus) bool {
	next, ok := transitions[from]
	return ok && next == to
}

// Transaction represents a cross-border payment request.
type Transaction struct {
	ID                 string            `db:"id" json:"id"`
	UserID             string            `db:"user_id" json:"userId"`
	Amount             string            `db:"amount" json:"amount"`
	Currency           string            `db:"currency" json:"currency"`
	Provider           string            `db:"provider" json:"provider"`
	PayeeAccount       string            `db:"payee_account" json:"payeeAccount"`
	SWIFT              string            `db:"swift" json:"swift"`
	PayeeName          string            `db:"payee_name" json:"payeeName"`
	Description        string            `db:"description" json:"description"`
	Status             TransactionStatus `db:"status" json:"status"`
	// FailureReason is reserved for the failed state.
	FailureReason      *string           `db:"failure_reason" json:"failureReason,omitempty"`
	CreatedAt          time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time         `db:"updated_at" json:"updatedAt"`
	VerifiedAt         *time.Time        `db:"verified_at" json:"verifiedAt,omitempty"`
	SubmittedToSWIFTAt *time.Time        `db:"submitted_to_swift_at" json:"submittedToSWIFTAt,omitempty"`
}

// NewTransaction creates a pending Transaction. Empty payee name and
// description fall back to their defaults.
func NewTransaction(userID string, amount decimal.Decimal, currency, provider, payeeAccount, swift, payeeName, description string) *Transaction {
	if payeeName == "" {
		payeeName = DefaultPayeeName
	}
	if description == "" {
		description = DefaultDescription
	}
	now := time.Now().UTC()
	return &Transaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		Amount:       amount.StringFixed(2),
		Currency:     currency,
		Provider:     provider,
		PayeeAccount: payeeAccount,
		SWIFT:        swift,
		PayeeName:    payeeName,
		Description:  description,
		Status:       TransactionStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AmountValue parses the stored amount.
func (t *Transaction) AmountValue() (decimal.Decimal, error) {
	return decimal.NewFromString(t.Amount)
}

func (t *Transaction) advance(to TransactionStatus, at time.Time) error {
	if !CanTransition(t.Status, to) {
		return fmt.Errorf("cannot move transaction %s from %s to %s", t.ID, t.Status, to)
	}
	t.Status = to
	t.UpdatedAt = at
	return nil
}

// Verify moves a pending transaction to verified.
func (t *Transaction) Verify(at time.Time) error {
	if err := t.advance(TransactionStatusVerified, at); err != nil {
		return err
	}
	t.VerifiedAt = &at
	return nil
}

// Submit moves a verified transaction to submitted. Submission to SWIFT is
// simulated; nothing leaves the process.
func (t *Transaction) Submit(at time.Time) error {
	if err := t.advance(TransactionStatusSubmitted, at); err != nil {
		return err
	}
	t.SubmittedToSWIFTAt = &at
	return nil
}

// Summary is the redacted view returned when a transaction is created.
type Summary struct {
	ID        string            `json:"id"`
	Amount    string            `json:"amount"`
	Currency  string            `json:"currency"`
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Summary returns the redacted view of t.
func (t *Transaction) Summary() Summary {
	return Summary{
		ID:        t.ID,
		Amount:    t.Amount,
		Currency:  t.Currency,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}
}
