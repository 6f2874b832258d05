package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a wallet account holding a balance and spend counters.
type Account struct {
	ID            string
	OwnerID       string
	OwnerName     string
	Phone         string
	AccountNumber string

	Balance        decimal.Decimal
	BlockedBalance decimal.Decimal

	DailyLimit       decimal.Decimal
	MonthlyLimit     decimal.Decimal
	DailySpent       decimal.Decimal
	MonthlySpent     decimal.Decimal
	DailyResetDate   time.Time
	MonthlyResetDate time.Time

	Points int64
	Active bool

	// System accounts hold commission revenue, the cashback float and
	// settlement funds. They are never limit-checked and never receive P2P
	// transfers; only the cashback float may go negative.
	System               bool
	AllowNegativeBalance bool

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Available returns the spendable balance.
func (a *Account) Available() decimal.Decimal {
	return a.Balance.Sub(a.BlockedBalance)
}

// ValidateDebit checks that amount can leave the account.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.AllowNegativeBalance {
		return nil
	}
	if a.Available().LessThan(amount) {
		return &InsufficientFundsError{Balance: a.Balance, Required: amount}
	}
	return nil
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// Owns reports whether the account belongs to ownerID. An empty owner means
// the caller is trusted (internal or admin calls).
func (a *Account) Owns(ownerID string) bool {
	return ownerID == "" || a.OwnerID == ownerID
}

// SystemAccounts names the accounts that absorb the non-principal legs of a
// transaction.
type SystemAccounts struct {
	Revenue       string
	CashbackFloat string
	Settlement    string
}

// IDs returns the configured system account ids.
func (s SystemAccounts) IDs() []string {
	return []string{s.Revenue, s.CashbackFloat, s.Settlement}
}
