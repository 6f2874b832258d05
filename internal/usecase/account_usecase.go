package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skypagos/ledger/internal/domain"
)

// AccountUseCase handles account opening and read-only account views.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txRepo      TransactionRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	codeGen     CodeGenerator
	settlement  string
	location    *time.Location
	now         func() time.Time
}

// NewAccountUseCase creates a new AccountUseCase. Opening balances are drawn
// from the settlement account.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txRepo TransactionRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	codeGen CodeGenerator,
	settlementAccountID string,
	location *time.Location,
) *AccountUseCase {
	if location == nil {
		location = time.UTC
	}

	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		codeGen:     codeGen,
		settlement:  settlementAccountID,
		location:    location,
		now:         time.Now,
	}
}

// OpenAccountInput represents input for opening an account.
type OpenAccountInput struct {
	OwnerID        string
	OwnerName      string
	Phone          string
	AccountNumber  string
	InitialBalance decimal.Decimal
	DailyLimit     decimal.Decimal
	MonthlyLimit   decimal.Decimal
}

// OpenAccount creates a wallet account, funding it from the settlement
// account when an initial balance is given.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	if err := domain.ValidateOwnerName(input.OwnerName); err != nil {
		return nil, err
	}
	if input.OwnerID == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidRequest)
	}

	input.Phone = domain.NormalizeIdentifier(input.Phone)
	input.AccountNumber = domain.NormalizeIdentifier(input.AccountNumber)
	if input.Phone == "" && input.AccountNumber == "" {
		return nil, fmt.Errorf("%w: phone or account number is required", domain.ErrInvalidRequest)
	}
	if input.Phone != "" && domain.ClassifyIdentifier(input.Phone) != domain.IdentifierPhone {
		return nil, fmt.Errorf("%w: phone must have 8 digits", domain.ErrInvalidIdentifier)
	}
	if input.AccountNumber != "" && domain.ClassifyIdentifier(input.AccountNumber) != domain.IdentifierAccountNumber {
		return nil, fmt.Errorf("%w: account number must have 10 to 20 digits", domain.ErrInvalidIdentifier)
	}
	if input.InitialBalance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	dailyLimit := input.DailyLimit
	if !dailyLimit.IsPositive() {
		dailyLimit = domain.DefaultDailyLimit
	}
	monthlyLimit := input.MonthlyLimit
	if !monthlyLimit.IsPositive() {
		monthlyLimit = domain.DefaultMonthlyLimit
	}
	if dailyLimit.GreaterThan(monthlyLimit) {
		return nil, fmt.Errorf("%w: daily limit exceeds monthly limit", domain.ErrInvalidRequest)
	}

	now := uc.now().UTC()
	today := domain.CalendarDay(now, uc.location)

	account := &domain.Account{
		ID:               uc.idGen.Generate(),
		OwnerID:          input.OwnerID,
		OwnerName:        input.OwnerName,
		Phone:            input.Phone,
		AccountNumber:    input.AccountNumber,
		Balance:          decimal.Zero,
		BlockedBalance:   decimal.Zero,
		DailyLimit:       dailyLimit,
		MonthlyLimit:     monthlyLimit,
		DailySpent:       decimal.Zero,
		MonthlySpent:     decimal.Zero,
		DailyResetDate:   today,
		MonthlyResetDate: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC),
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	if input.InitialBalance.IsPositive() {
		if err := uc.fundOpening(ctx, tx, account, input.InitialBalance, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

func (uc *AccountUseCase) fundOpening(ctx context.Context, tx Transaction, account *domain.Account, amount decimal.Decimal, now time.Time) error {
	deposit := &domain.Transaction{
		ID:                   uc.idGen.Generate(),
		Code:                 uc.codeGen.Generate(now),
		Kind:                 domain.KindDeposit,
		OriginAccountID:      uc.settlement,
		DestinationAccountID: account.ID,
		DestinationName:      account.OwnerName,
		Amount:               amount,
		Commission:           decimal.Zero,
		Cashback:             decimal.Zero,
		TotalDebited:         amount,
		Description:          "opening balance",
		CreatedAt:            now,
	}
	deposit.Complete(now)

	settlement, err := uc.accountRepo.ApplyDelta(ctx, tx, uc.settlement, amount.Neg(), now)
	if err != nil {
		return fmt.Errorf("settlement account: %w", err)
	}
	deposit.OriginBalanceAfter = settlement.Balance

	if err := uc.txRepo.Append(ctx, tx, deposit); err != nil {
		return err
	}

	book := newPostingBook(deposit, uc.idGen)
	book.post(account, amount)
	account.Version++
	if err := uc.accountRepo.Save(ctx, tx, account); err != nil {
		return err
	}

	if err := book.flush(ctx, tx, uc.entryRepo); err != nil {
		return err
	}

	return uc.entryRepo.Create(ctx, tx, &domain.Entry{
		ID:                     uc.idGen.Generate(),
		AccountID:              settlement.ID,
		TransactionID:          deposit.ID,
		Amount:                 amount.Neg(),
		AccountPreviousBalance: settlement.Balance.Add(amount),
		AccountCurrentBalance:  settlement.Balance,
		AccountVersion:         settlement.Version,
		CreatedAt:              now,
	})
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// BalanceView is an unlocked snapshot for display. It must never authorize a
// debit.
type BalanceView struct {
	AccountID    string
	Balance      decimal.Decimal
	Blocked      decimal.Decimal
	Available    decimal.Decimal
	DailyLimit   decimal.Decimal
	MonthlyLimit decimal.Decimal
	DailySpent   decimal.Decimal
	MonthlySpent decimal.Decimal
	Points       int64
	Active       bool
	AsOf         time.Time
}

// GetBalance returns the display balance of an account owned by ownerID.
func (uc *AccountUseCase) GetBalance(ctx context.Context, id, ownerID string) (*BalanceView, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !account.Owns(ownerID) {
		return nil, domain.ErrAccountNotOwned
	}

	now := uc.now().UTC()
	view := &BalanceView{
		AccountID:    account.ID,
		Balance:      account.Balance,
		Blocked:      account.BlockedBalance,
		Available:    account.Available(),
		DailyLimit:   account.DailyLimit,
		MonthlyLimit: account.MonthlyLimit,
		DailySpent:   account.DailySpent,
		MonthlySpent: account.MonthlySpent,
		Points:       account.Points,
		Active:       account.Active,
		AsOf:         now,
	}

	// A zero-amount authorization yields the counters after any rollover.
	if spend, err := domain.AuthorizeSpend(account, decimal.Zero, now, uc.location); err == nil {
		view.DailySpent = spend.DailySpent
		view.MonthlySpent = spend.MonthlySpent
	}

	return view, nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = domain.DefaultPageSize
	}
	if input.Limit > domain.MaxPageSize {
		input.Limit = domain.MaxPageSize
	}
	if input.Offset < 0 {
		input.Offset = 0
	}
	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}

// SetActive soft-activates or deactivates an account. Accounts are never
// deleted.
func (uc *AccountUseCase) SetActive(ctx context.Context, id string, active bool) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.System && !active {
		return nil, fmt.Errorf("%w: system accounts cannot be deactivated", domain.ErrInvalidRequest)
	}

	if err := uc.accountRepo.SetActive(ctx, id, active, uc.now().UTC()); err != nil {
		return nil, err
	}

	account.Active = active
	return account, nil
}
