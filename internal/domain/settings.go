// internal/domain/settings.go
package domain

import (
	"github.com/shopspring/decimal"
)

// SystemSettings holds ledger-wide limits. A zero bound is not enforced.
type SystemSettings struct {
	MinTransactionAmount decimal.Decimal `db:"min_transaction_amount" json:"minTransactionAmount"`
	MaxTransactionAmount decimal.Decimal `db:"max_transaction_amount" json:"maxTransactionAmount"`
}

// AmountAllowed reports whether amount is positive and inside the configured bounds.
func (s SystemSettings) AmountAllowed(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	if s.MinTransactionAmount.IsPositive() && amount.LessThan(s.MinTransactionAmount) {
		return false
	}
	if s.MaxTransactionAmount.IsPositive() && amount.GreaterThan(s.MaxTransactionAmount) {
		return false
	}
	return true
}
