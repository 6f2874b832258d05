package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/skypagos/ledger/internal/domain"
	"github.com/skypagos/ledger/internal/infrastructure/postgres/generated"
	"github.com/skypagos/ledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create inserts a new account inside tx. A phone or account number that is
// already registered fails with domain.ErrConflict.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	err := txQueries(tx).CreateAccount(ctx, generated.CreateAccountParams{
		ID:                   account.ID,
		OwnerID:              account.OwnerID,
		OwnerName:            account.OwnerName,
		Phone:                textOrNull(account.Phone),
		AccountNumber:        textOrNull(account.AccountNumber),
		Balance:              decimalToNumeric(account.Balance),
		BlockedBalance:       decimalToNumeric(account.BlockedBalance),
		DailyLimit:           decimalToNumeric(account.DailyLimit),
		MonthlyLimit:         decimalToNumeric(account.MonthlyLimit),
		DailySpent:           decimalToNumeric(account.DailySpent),
		MonthlySpent:         decimalToNumeric(account.MonthlySpent),
		DailyResetDate:       timeToPgDate(account.DailyResetDate),
		MonthlyResetDate:     timeToPgDate(account.MonthlyResetDate),
		Points:               account.Points,
		Active:               account.Active,
		IsSystem:             account.System,
		AllowNegativeBalance: account.AllowNegativeBalance,
		Version:              account.Version,
		CreatedAt:            timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:            timeToPgTimestamptz(account.UpdatedAt),
	})

	return translateError(err)
}

// GetByID retrieves an account by ID without locking it.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, translateError(err)
	}

	return rowToAccount(row), nil
}

// GetByIdentifier resolves a phone number or account number.
func (r *AccountRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByIdentifier(ctx, domain.NormalizeIdentifier(identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, translateError(err)
	}

	return rowToAccount(row), nil
}

// GetByIDsForUpdate locks the rows with FOR UPDATE in ascending id order.
// Missing ids are not reported; callers check the result.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	rows, err := txQueries(tx).GetAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, translateError(err)
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// Save writes the mutable state of a locked account. The caller has already
// bumped Version; the row must still be at the previous version.
func (r *AccountRepository) Save(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	affected, err := txQueries(tx).UpdateAccountState(ctx, generated.UpdateAccountStateParams{
		ID:               account.ID,
		Balance:          decimalToNumeric(account.Balance),
		BlockedBalance:   decimalToNumeric(account.BlockedBalance),
		DailySpent:       decimalToNumeric(account.DailySpent),
		MonthlySpent:     decimalToNumeric(account.MonthlySpent),
		DailyResetDate:   timeToPgDate(account.DailyResetDate),
		MonthlyResetDate: timeToPgDate(account.MonthlyResetDate),
		Points:           account.Points,
		Version:          account.Version,
		UpdatedAt:        timeToPgTimestamptz(account.UpdatedAt),
		ExpectedVersion:  account.Version - 1,
	})
	if err != nil {
		return translateError(err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: account %s changed underneath", domain.ErrConflict, account.ID)
	}

	return nil
}

// ApplyDelta adds delta to the balance in a single UPDATE. The row lock is
// held until tx ends.
func (r *AccountRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (*domain.Account, error) {
	queries := txQueries(tx)

	row, err := queries.ApplyAccountDelta(ctx, generated.ApplyAccountDeltaParams{
		ID:        id,
		Balance:   decimalToNumeric(delta),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err == nil {
		return rowToAccount(row), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translateError(err)
	}

	// No row: either the account is missing or the guard refused the debit.
	current, err := queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, translateError(err)
	}

	account := rowToAccount(current)
	if err := account.ValidateDebit(delta.Neg()); err != nil {
		return nil, err
	}

	return nil, fmt.Errorf("%w: account %s", domain.ErrConflict, id)
}

// SetActive flips the active flag outside any unit of work.
func (r *AccountRepository) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error {
	affected, err := r.queries.SetAccountActive(ctx, generated.SetAccountActiveParams{
		ID:        id,
		Active:    active,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return translateError(err)
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, translateError(err)
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:                   row.ID,
		OwnerID:              row.OwnerID,
		OwnerName:            row.OwnerName,
		Phone:                row.Phone.String,
		AccountNumber:        row.AccountNumber.String,
		Balance:              numericToDecimal(row.Balance),
		BlockedBalance:       numericToDecimal(row.BlockedBalance),
		DailyLimit:           numericToDecimal(row.DailyLimit),
		MonthlyLimit:         numericToDecimal(row.MonthlyLimit),
		DailySpent:           numericToDecimal(row.DailySpent),
		MonthlySpent:         numericToDecimal(row.MonthlySpent),
		DailyResetDate:       row.DailyResetDate.Time,
		MonthlyResetDate:     row.MonthlyResetDate.Time,
		Points:               row.Points,
		Active:               row.Active,
		System:               row.IsSystem,
		AllowNegativeBalance: row.AllowNegativeBalance,
		Version:              row.Version,
		CreatedAt:            row.CreatedAt.Time,
		UpdatedAt:            row.UpdatedAt.Time,
	}
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	d, _ := toDecimal(n)
	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func optionalTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timeToPgTimestamptz(*t)
}

func timeToPgDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), Valid: true}
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
