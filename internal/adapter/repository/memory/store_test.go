package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skypagos/ledger/internal/domain"
)

func seedStore(t *testing.T) *Store {
	t.Helper()

	s := NewStore()
	s.PutAccount(&domain.Account{ID: "acc-a", OwnerID: "u1", Phone: "70000001", Balance: decimal.NewFromInt(100), Active: true})
	s.PutAccount(&domain.Account{ID: "acc-b", OwnerID: "u2", AccountNumber: "1000000002", Balance: decimal.NewFromInt(50), Active: true})
	s.PutAccount(&domain.Account{ID: "sys-float", System: true, AllowNegativeBalance: true, Active: true})
	return s
}

func TestStagedWritesInvisibleUntilCommit(t *testing.T) {
	s := seedStore(t)
	repo := s.AccountRepository()
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	accounts, err := repo.GetByIDsForUpdate(ctx, tx, []string{"acc-a"})
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	acc := accounts[0]
	acc.Balance = decimal.NewFromInt(10)
	require.NoError(t, repo.Save(ctx, tx, acc))

	committed, err := repo.GetByID(ctx, "acc-a")
	require.NoError(t, err)
	assert.True(t, committed.Balance.Equal(decimal.NewFromInt(100)))

	require.NoError(t, tx.Commit(ctx))

	committed, err = repo.GetByID(ctx, "acc-a")
	require.NoError(t, err)
	assert.True(t, committed.Balance.Equal(decimal.NewFromInt(10)))
}

func TestRollbackDiscardsWrites(t *testing.T) {
	s := seedStore(t)
	repo := s.AccountRepository()
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	_, err = repo.ApplyDelta(ctx, tx, "sys-float", decimal.NewFromInt(-5), time.Now())
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	acc, err := repo.GetByID(ctx, "sys-float")
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())
}

func TestRowLockBlocksUntilRelease(t *testing.T) {
	s := seedStore(t)
	repo := s.AccountRepository()
	ctx := context.Background()

	first, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = repo.GetByIDsForUpdate(ctx, first, []string{"acc-a"})
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, _ := s.Begin(ctx)
		defer second.Rollback(ctx)
		if _, err := repo.GetByIDsForUpdate(ctx, second, []string{"acc-a"}); err == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second unit acquired a held lock")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, first.Rollback(ctx))

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock was not released")
	}
}

func TestLockWaitTimesOut(t *testing.T) {
	s := seedStore(t)
	repo := s.AccountRepository()

	holder, err := s.Begin(context.Background())
	require.NoError(t, err)
	defer holder.Rollback(context.Background())
	_, err = repo.GetByIDsForUpdate(context.Background(), holder, []string{"acc-b"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	waiter, err := s.Begin(ctx)
	require.NoError(t, err)
	defer waiter.Rollback(ctx)

	_, err = repo.GetByIDsForUpdate(ctx, waiter, []string{"acc-b"})
	assert.True(t, errors.Is(err, domain.ErrTimeout), "got %v", err)
}

func TestAppendReservesCode(t *testing.T) {
	s := seedStore(t)
	txRepo := s.TransactionRepository()
	ctx := context.Background()

	first, _ := s.Begin(ctx)
	second, _ := s.Begin(ctx)
	defer second.Rollback(ctx)

	txn := &domain.Transaction{ID: "t1", Code: "SKY-REF-1", OriginAccountID: "acc-a", Amount: decimal.NewFromInt(1)}
	require.NoError(t, txRepo.Append(ctx, first, txn))

	err := txRepo.Append(ctx, second, &domain.Transaction{ID: "t2", Code: "SKY-REF-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)

	require.NoError(t, first.Rollback(ctx))

	// The reservation dies with the unit that made it.
	third, _ := s.Begin(ctx)
	require.NoError(t, txRepo.Append(ctx, third, &domain.Transaction{ID: "t3", Code: "SKY-REF-1"}))
	require.NoError(t, third.Commit(ctx))

	_, err = txRepo.FindByCode(ctx, "SKY-REF-1")
	require.NoError(t, err)

	err = txRepo.AppendFailed(ctx, &domain.Transaction{ID: "t4", Code: "SKY-REF-1", Status: domain.StatusFailed})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
}

func TestCreateClaimsIdentifiers(t *testing.T) {
	s := seedStore(t)
	repo := s.AccountRepository()
	ctx := context.Background()

	first, _ := s.Begin(ctx)
	second, _ := s.Begin(ctx)
	defer second.Rollback(ctx)

	require.NoError(t, repo.Create(ctx, first, &domain.Account{ID: "acc-new-1", Phone: "70000077", Active: true}))

	err := repo.Create(ctx, second, &domain.Account{ID: "acc-new-2", Phone: "70000077", Active: true})
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = repo.Create(ctx, second, &domain.Account{ID: "acc-new-1", Phone: "70000078", Active: true})
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, first.Rollback(ctx))

	third, _ := s.Begin(ctx)
	require.NoError(t, repo.Create(ctx, third, &domain.Account{ID: "acc-new-2", Phone: "70000077", Active: true}))
	require.NoError(t, third.Commit(ctx))

	acc, err := repo.GetByIdentifier(ctx, "70000077")
	require.NoError(t, err)
	assert.Equal(t, "acc-new-2", acc.ID)

	fourth, _ := s.Begin(ctx)
	defer fourth.Rollback(ctx)
	err = repo.Create(ctx, fourth, &domain.Account{ID: "acc-new-3", Phone: "70000077", Active: true})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestHistoryNewestFirst(t *testing.T) {
	s := seedStore(t)
	txRepo := s.TransactionRepository()
	ctx := context.Background()

	for _, code := range []string{"C1", "C2", "C3"} {
		require.NoError(t, txRepo.AppendFailed(ctx, &domain.Transaction{
			ID: code, Code: code, OriginAccountID: "acc-a", Status: domain.StatusFailed,
		}))
	}
	require.NoError(t, txRepo.AppendFailed(ctx, &domain.Transaction{
		ID: "other", Code: "OTHER", OriginAccountID: "acc-b", Status: domain.StatusFailed,
	}))

	page, err := txRepo.History(ctx, "acc-a", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "C3", page[0].Code)
	assert.Equal(t, "C2", page[1].Code)

	page, err = txRepo.History(ctx, "acc-a", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "C1", page[0].Code)
}

func TestApplyDeltaRejectsOverdraft(t *testing.T) {
	s := seedStore(t)
	repo := s.AccountRepository()
	ctx := context.Background()

	tx, _ := s.Begin(ctx)
	defer tx.Rollback(ctx)

	_, err := repo.ApplyDelta(ctx, tx, "acc-b", decimal.NewFromInt(-51), time.Now())
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	updated, err := repo.ApplyDelta(ctx, tx, "sys-float", decimal.NewFromInt(-51), time.Now())
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(-51)))
	assert.Equal(t, int64(1), updated.Version)
}

func TestGetByIdentifier(t *testing.T) {
	s := seedStore(t)
	repo := s.AccountRepository()
	ctx := context.Background()

	acc, err := repo.GetByIdentifier(ctx, "70000001")
	require.NoError(t, err)
	assert.Equal(t, "acc-a", acc.ID)

	acc, err = repo.GetByIdentifier(ctx, "1000000002")
	require.NoError(t, err)
	assert.Equal(t, "acc-b", acc.ID)

	_, err = repo.GetByIdentifier(ctx, "79999999")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestCheckConsistency(t *testing.T) {
	s := NewStore()
	s.PutAccount(&domain.Account{ID: "a", Balance: decimal.NewFromInt(30)})
	s.PutAccount(&domain.Account{ID: "settlement", Balance: decimal.NewFromInt(-30), AllowNegativeBalance: true})

	balance, entries, err := s.CheckConsistency(context.Background())
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
	assert.True(t, entries.IsZero())
}

func TestSetActive(t *testing.T) {
	s := seedStore(t)
	repo := s.AccountRepository()
	ctx := context.Background()

	require.NoError(t, repo.SetActive(ctx, "acc-a", false, time.Now()))
	acc, err := repo.GetByID(ctx, "acc-a")
	require.NoError(t, err)
	assert.False(t, acc.Active)

	assert.ErrorIs(t, repo.SetActive(ctx, "missing", false, time.Now()), domain.ErrAccountNotFound)
}
