package usecase

import (
	"context"
	"time"

	"github.com/skypagos/ledger/internal/domain"
)

// TransactionUseCase serves read access to the transaction ledger.
type TransactionUseCase struct {
	accountRepo AccountRepository
	txRepo      TransactionRepository
	entryRepo   EntryRepository
	location    *time.Location
}

// NewTransactionUseCase creates a new TransactionUseCase. Spending periods
// follow the calendar of location.
func NewTransactionUseCase(accountRepo AccountRepository, txRepo TransactionRepository, entryRepo EntryRepository, location *time.Location) *TransactionUseCase {
	if location == nil {
		location = time.UTC
	}

	return &TransactionUseCase{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		entryRepo:   entryRepo,
		location:    location,
	}
}

// HistoryInput represents input for an account history page.
type HistoryInput struct {
	AccountID string
	OwnerID   string
	Page      int
	PageSize  int
}

// HistoryPage is one page of transactions, newest first.
type HistoryPage struct {
	Transactions []*domain.Transaction
	Page         int
	PageSize     int
}

// History lists completed and failed transactions that touch the account.
func (uc *TransactionUseCase) History(ctx context.Context, input HistoryInput) (*HistoryPage, error) {
	account, err := uc.accountRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.Owns(input.OwnerID) {
		return nil, domain.ErrAccountNotOwned
	}

	page, size := domain.ValidatePagination(input.Page, input.PageSize)
	txns, err := uc.txRepo.History(ctx, account.ID, size, (page-1)*size)
	if err != nil {
		return nil, err
	}

	return &HistoryPage{
		Transactions: txns,
		Page:         page,
		PageSize:     size,
	}, nil
}

// GetByCode returns a transaction by its public code. Customers only see
// transactions that touch one of their accounts.
func (uc *TransactionUseCase) GetByCode(ctx context.Context, code, ownerID string) (*domain.Transaction, error) {
	txn, err := uc.txRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if ownerID == "" {
		return txn, nil
	}

	for _, id := range []string{txn.OriginAccountID, txn.DestinationAccountID} {
		if id == "" {
			continue
		}
		account, err := uc.accountRepo.GetByID(ctx, id)
		if err != nil {
			continue
		}
		if account.Owns(ownerID) {
			return txn, nil
		}
	}

	// Hide existence from other owners.
	return nil, domain.ErrTransactionNotFound
}

// Entries returns the postings of a transaction.
func (uc *TransactionUseCase) Entries(ctx context.Context, code, ownerID string) ([]*domain.Entry, error) {
	txn, err := uc.GetByCode(ctx, code, ownerID)
	if err != nil {
		return nil, err
	}

	return uc.entryRepo.GetByTransaction(ctx, txn.ID)
}

// SpendingInput represents input for a spending summary.
type SpendingInput struct {
	AccountID string
	OwnerID   string
	Period    domain.SpendingPeriod
	// At is the end of the window. Zero means now.
	At time.Time
}

// Spending summarizes the completed transactions of an account over a
// calendar period by walking its history, newest first.
func (uc *TransactionUseCase) Spending(ctx context.Context, input SpendingInput) (*domain.SpendingSummary, error) {
	account, err := uc.accountRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.Owns(input.OwnerID) {
		return nil, domain.ErrAccountNotOwned
	}

	period, err := domain.ParseSpendingPeriod(string(input.Period))
	if err != nil {
		return nil, err
	}

	to := input.At
	if to.IsZero() {
		to = time.Now()
	}
	to = to.UTC()
	from := period.Start(to, uc.location).UTC()

	summary := domain.NewSpendingSummary(account.ID, period, from, to)
	for offset := 0; ; offset += domain.MaxPageSize {
		txns, err := uc.txRepo.History(ctx, account.ID, domain.MaxPageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, t := range txns {
			summary.Add(t)
		}

		if len(txns) < domain.MaxPageSize || txns[len(txns)-1].CreatedAt.Before(from) {
			break
		}
	}
	summary.SortByAmount()

	return summary, nil
}
