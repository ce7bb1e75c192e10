package treasury

import (
	"guild-bank-ledger/internal/domain/bankerr"

	"github.com/shopspring/decimal"
)

func (t *Treasury) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return bankerr.Validation("amount", "must be positive")
	}
	t.Balance = t.Balance.Add(amount)
	return nil
}

// Debit refuses to take the balance below zero.
func (t *Treasury) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return bankerr.Validation("amount", "must be positive")
	}
	if t.Balance.LessThan(amount) {
		return bankerr.InsufficientFunds(t.Balance, amount)
	}
	t.Balance = t.Balance.Sub(amount)
	return nil
}

func (t *Treasury) CanFund(amount decimal.Decimal) bool {
	return !t.Balance.LessThan(amount)
}

// Reset zeroes the balance and drops every pending and confirmed
// investment record.
func (t *Treasury) Reset() error {
	t.Balance = decimal.Zero
	return t.SetLedger(Ledger{})
}
