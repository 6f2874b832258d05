package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/skypagos/ledger/internal/domain"
)

// postingBook applies movements to locked accounts in memory and keeps the
// entries that describe them, chaining previous and current balances when
// an account moves more than once.
type postingBook struct {
	txn     *domain.Transaction
	idGen   IDGenerator
	entries []*domain.Entry
	order   []*domain.Account
	seen    map[string]bool
}

func newPostingBook(txn *domain.Transaction, idGen IDGenerator) *postingBook {
	return &postingBook{
		txn:   txn,
		idGen: idGen,
		seen:  make(map[string]bool),
	}
}

func (b *postingBook) post(acc *domain.Account, amount decimal.Decimal) {
	previous := acc.Balance
	acc.Balance = acc.ApplyCredit(amount)

	if !b.seen[acc.ID] {
		b.seen[acc.ID] = true
		b.order = append(b.order, acc)
	}

	b.entries = append(b.entries, &domain.Entry{
		ID:                     b.idGen.Generate(),
		AccountID:              acc.ID,
		TransactionID:          b.txn.ID,
		Amount:                 amount,
		AccountPreviousBalance: previous,
		AccountCurrentBalance:  acc.Balance,
		AccountVersion:         acc.Version + 1,
		CreatedAt:              b.txn.CreatedAt,
	})
}

// touched returns the accounts moved so far, in first-touch order.
func (b *postingBook) touched() []*domain.Account {
	return b.order
}

func (b *postingBook) flush(ctx context.Context, tx Transaction, repo EntryRepository) error {
	for _, e := range b.entries {
		if err := repo.Create(ctx, tx, e); err != nil {
			return err
		}
	}
	return nil
}
