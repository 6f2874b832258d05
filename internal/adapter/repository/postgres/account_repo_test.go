package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/skypagos/ledger/internal/domain"
)

var accountColumns = []string{
	"id", "owner_id", "owner_name", "phone", "account_number", "balance", "blocked_balance",
	"daily_limit", "monthly_limit", "daily_spent", "monthly_spent", "daily_reset_date", "monthly_reset_date",
	"points", "active", "is_system", "allow_negative_balance", "version", "created_at", "updated_at",
}

func accountRow(rows *pgxmock.Rows, id, balance string, version int64) *pgxmock.Rows {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id, "user-"+id, "Ana Quispe", "70000001", nil, balance, "0.00",
		"500.00", "10000.00", "0.00", "0.00", day, day,
		int64(0), true, false, false, version, now, now,
	)
}

func beginMockTx(t *testing.T, mock pgxmock.PgxPoolIface) *Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return tx.(*Tx)
}

func TestAccountRepositoryGetByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	repo := newAccountRepository(mock)
	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, mock)
}

func TestAccountRepositoryGetByIdentifier(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE phone = $1::text OR account_number = $1::text")).
		WithArgs("70000001").
		WillReturnRows(accountRow(pgxmock.NewRows(accountColumns), "acc-ana", "1000.00", 3))

	repo := newAccountRepository(mock)
	acc, err := repo.GetByIdentifier(context.Background(), " 7000-0001 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.ID != "acc-ana" || acc.Phone != "70000001" || acc.AccountNumber != "" {
		t.Fatalf("unexpected account: %+v", acc)
	}
	if !acc.Balance.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("unexpected balance %s", acc.Balance)
	}
	if acc.Version != 3 {
		t.Fatalf("unexpected version %d", acc.Version)
	}

	assertExpectations(t, mock)
}

func TestAccountRepositoryGetByIDsForUpdate(t *testing.T) {
	mock := newMockPool(t)
	tx := beginMockTx(t, mock)

	rows := pgxmock.NewRows(accountColumns)
	accountRow(rows, "acc-a", "10.00", 1)
	accountRow(rows, "acc-b", "20.00", 1)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id FOR UPDATE")).
		WithArgs([]string{"acc-a", "acc-b"}).
		WillReturnRows(rows)

	repo := newAccountRepository(mock)
	accounts, err := repo.GetByIDsForUpdate(context.Background(), tx, []string{"acc-a", "acc-b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 || accounts[0].ID != "acc-a" || accounts[1].ID != "acc-b" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}

	assertExpectations(t, mock)
}

func TestAccountRepositoryGetByIDsForUpdateLockTimeout(t *testing.T) {
	mock := newMockPool(t)
	tx := beginMockTx(t, mock)

	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"})

	repo := newAccountRepository(mock)
	_, err := repo.GetByIDsForUpdate(context.Background(), tx, []string{"acc-a"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAccountRepositorySaveVersionMismatch(t *testing.T) {
	mock := newMockPool(t)
	tx := beginMockTx(t, mock)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts")).
		WithArgs(anyArgs(11)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := newAccountRepository(mock)
	err := repo.Save(context.Background(), tx, &domain.Account{ID: "acc-a", Version: 2})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	assertExpectations(t, mock)
}

func TestAccountRepositorySave(t *testing.T) {
	mock := newMockPool(t)
	tx := beginMockTx(t, mock)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts")).
		WithArgs(anyArgs(11)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := newAccountRepository(mock)
	err := repo.Save(context.Background(), tx, &domain.Account{
		ID:         "acc-a",
		Balance:    decimal.RequireFromString("799.00"),
		DailySpent: decimal.RequireFromString("201.00"),
		Version:    2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mock)
}

func TestAccountRepositoryApplyDeltaInsufficientFunds(t *testing.T) {
	mock := newMockPool(t)
	tx := beginMockTx(t, mock)

	mock.ExpectQuery(regexp.QuoteMeta("SET balance = balance + $2")).
		WithArgs(anyArgs(3)...).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
		WithArgs("sys-revenue").
		WillReturnRows(accountRow(pgxmock.NewRows(accountColumns), "sys-revenue", "5.00", 7))

	repo := newAccountRepository(mock)
	_, err := repo.ApplyDelta(context.Background(), tx, "sys-revenue", decimal.RequireFromString("-10"), time.Now())

	var insufficient *domain.InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFundsError, got %v", err)
	}
	if !insufficient.Required.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("unexpected required amount %s", insufficient.Required)
	}

	assertExpectations(t, mock)
}

func TestAccountRepositoryApplyDeltaMissing(t *testing.T) {
	mock := newMockPool(t)
	tx := beginMockTx(t, mock)

	mock.ExpectQuery(regexp.QuoteMeta("SET balance = balance + $2")).
		WithArgs(anyArgs(3)...).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
		WithArgs("sys-missing").
		WillReturnError(pgx.ErrNoRows)

	repo := newAccountRepository(mock)
	_, err := repo.ApplyDelta(context.Background(), tx, "sys-missing", decimal.NewFromInt(1), time.Now())
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepositorySetActiveNotFound(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET active = $2")).
		WithArgs("acc-x", false, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := newAccountRepository(mock)
	err := repo.SetActive(context.Background(), "acc-x", false, time.Now())
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, mock)
}

func TestAccountRepositoryCreateDuplicatePhone(t *testing.T) {
	mock := newMockPool(t)
	tx := beginMockTx(t, mock)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).
		WithArgs(anyArgs(20)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_phone_key"})

	repo := newAccountRepository(mock)
	err := repo.Create(context.Background(), tx, &domain.Account{ID: "acc-new", Phone: "70000001"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
