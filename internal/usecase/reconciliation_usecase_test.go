package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/skypagos/ledger/internal/domain"
	"github.com/skypagos/ledger/internal/usecase"
	"github.com/skypagos/ledger/internal/usecase/mocks"
)

func newReconciliation(f *ledgerFixture) *usecase.ReconciliationUseCase {
	return usecase.NewReconciliationUseCase(f.store.AccountRepository(), f.store.EntryRepository(), f.store)
}

func TestReconcileAccount(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	if _, err := f.engine().Pay(ctx, usecase.PaymentInput{
		AccountID: "acc-ana", ServiceID: powerServiceID, Amount: dec("100"),
	}); err != nil {
		t.Fatalf("pay: %v", err)
	}

	uc := newReconciliation(f)
	for _, id := range []string{"acc-ana", systemAccounts.Revenue, systemAccounts.CashbackFloat} {
		result, err := uc.ReconcileAccount(ctx, id)
		if err != nil {
			t.Fatalf("reconcile %s: %v", id, err)
		}
		if !result.IsReconciled {
			t.Fatalf("account %s not reconciled: %+v", id, result)
		}
		if result.LastChecked.IsZero() {
			t.Fatal("expected LastChecked timestamp to be set")
		}
	}
}

func TestReconcileAccount_DetectsDrift(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	if _, err := f.engine().Transfer(ctx, usecase.TransferInput{
		OriginAccountID: "acc-ana", DestinationIdentifier: phoneBruno, Amount: dec("10"),
	}); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	// Tamper with the stored balance outside the engine.
	bruno := f.account(t, "acc-bruno")
	bruno.Balance = dec("11")
	f.store.PutAccount(bruno)

	result, err := newReconciliation(f).ReconcileAccount(ctx, "acc-bruno")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if result.IsReconciled || !result.Difference.Equal(dec("1")) {
		t.Fatalf("expected a difference of 1, got %+v", result)
	}
}

func TestReconcileAccount_PropagatesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)

	boom := errors.New("boom")
	accountRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, boom)

	uc := usecase.NewReconciliationUseCase(accountRepo, entryRepo, ledgerRepo)
	if _, err := uc.ReconcileAccount(context.Background(), "missing"); !errors.Is(err, boom) {
		t.Fatalf("expected propagated error, got %v", err)
	}
}

func TestReconcileAllAccounts_Pages(t *testing.T) {
	ctrl := gomock.NewController(t)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)

	full := make([]*domain.Account, domain.MaxPageSize)
	for i := range full {
		full[i] = &domain.Account{ID: "acc", Balance: decimal.Zero}
	}
	gomock.InOrder(
		accountRepo.EXPECT().List(gomock.Any(), domain.MaxPageSize, 0).Return(full, nil),
		accountRepo.EXPECT().List(gomock.Any(), domain.MaxPageSize, domain.MaxPageSize).Return([]*domain.Account{{ID: "last"}}, nil),
	)
	entryRepo.EXPECT().GetByAccount(gomock.Any(), gomock.Any(), 1, 0).Return(nil, nil).Times(domain.MaxPageSize + 1)

	uc := usecase.NewReconciliationUseCase(accountRepo, entryRepo, ledgerRepo)
	results, err := uc.ReconcileAllAccounts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != domain.MaxPageSize+1 {
		t.Fatalf("expected %d results, got %d", domain.MaxPageSize+1, len(results))
	}
}

func TestGenerateReconciliationReport(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.engine().Transfer(ctx, usecase.TransferInput{
			OriginAccountID: "acc-ana", DestinationIdentifier: phoneBruno, Amount: dec("20"),
		}); err != nil {
			t.Fatalf("transfer: %v", err)
		}
	}

	report, err := newReconciliation(f).GenerateReconciliationReport(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalAccounts != 5 {
		t.Fatalf("expected 5 accounts, got %d", report.TotalAccounts)
	}
	// The seeded settlement balance has no opening entry.
	if report.ReconciledAccounts != 4 || len(report.Discrepancies) != 1 {
		t.Fatalf("unexpected reconciliation counts: %+v", report)
	}
	if !report.LedgerConsistent {
		t.Fatal("expected ledger to be marked consistent")
	}
	if report.Discrepancies[0].AccountID != systemAccounts.Settlement {
		t.Fatalf("unexpected discrepancy %+v", report.Discrepancies[0])
	}
	if report.CheckedAt.IsZero() {
		t.Fatal("expected CheckedAt timestamp")
	}
}
