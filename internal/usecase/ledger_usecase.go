package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInconsistentLedger is returned when money was created or destroyed.
var ErrInconsistentLedger = errors.New("ledger is inconsistent: balances or entries do not sum to zero")

// ConsistencyReport is the outcome of a ledger-wide check.
type ConsistencyReport struct {
	Consistent   bool
	TotalBalance decimal.Decimal
	TotalEntries decimal.Decimal
}

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// CheckConsistency verifies that no money was created or destroyed. Opening
// balances are drawn from the settlement account, so the sum of every
// balance, system accounts included, is zero.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totalBalance, totalEntries, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		Consistent:   totalBalance.IsZero() && totalEntries.IsZero(),
		TotalBalance: totalBalance,
		TotalEntries: totalEntries,
	}
	if !report.Consistent {
		return report, ErrInconsistentLedger
	}

	return report, nil
}
