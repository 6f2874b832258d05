package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/skypagos/ledger/internal/domain"
	"github.com/skypagos/ledger/internal/usecase"
)

func TestTransactionUseCase_History(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	engine := f.engine()

	var codes []string
	for _, amount := range []string{"10", "20", "30"} {
		res, err := engine.Transfer(ctx, usecase.TransferInput{
			OriginAccountID: "acc-ana", DestinationIdentifier: phoneBruno, Amount: dec(amount),
		})
		if err != nil {
			t.Fatalf("transfer: %v", err)
		}
		codes = append(codes, res.Code)
	}

	uc := usecase.NewTransactionUseCase(f.store.AccountRepository(), f.store.TransactionRepository(), f.store.EntryRepository(), laPaz)

	page, err := uc.History(ctx, usecase.HistoryInput{AccountID: "acc-bruno", OwnerID: "user-bruno", Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(page.Transactions) != 2 || page.Transactions[0].Code != codes[2] || page.Transactions[1].Code != codes[1] {
		t.Fatalf("unexpected first page %+v", page.Transactions)
	}

	page, err = uc.History(ctx, usecase.HistoryInput{AccountID: "acc-bruno", Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(page.Transactions) != 1 || page.Transactions[0].Code != codes[0] {
		t.Fatalf("unexpected second page %+v", page.Transactions)
	}

	page, err = uc.History(ctx, usecase.HistoryInput{AccountID: "acc-bruno", Page: 0, PageSize: 500})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if page.Page != 1 || page.PageSize != domain.MaxPageSize {
		t.Fatalf("pagination not clamped: page=%d size=%d", page.Page, page.PageSize)
	}

	if _, err := uc.History(ctx, usecase.HistoryInput{AccountID: "acc-bruno", OwnerID: "user-ana"}); !errors.Is(err, domain.ErrAccountNotOwned) {
		t.Fatalf("expected ownership error, got %v", err)
	}
}

func TestTransactionUseCase_GetByCodeAndEntries(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	res, err := f.engine().Transfer(ctx, usecase.TransferInput{
		OriginAccountID: "acc-ana", DestinationIdentifier: phoneBruno, Amount: dec("10"),
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	uc := usecase.NewTransactionUseCase(f.store.AccountRepository(), f.store.TransactionRepository(), f.store.EntryRepository(), laPaz)

	for _, owner := range []string{"", "user-ana", "user-bruno"} {
		txn, err := uc.GetByCode(ctx, res.Code, owner)
		if err != nil || txn.ID != res.Transaction.ID {
			t.Fatalf("owner %q: got %v, %v", owner, txn, err)
		}
	}

	if _, err := uc.GetByCode(ctx, res.Code, "user-stranger"); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected hidden transaction, got %v", err)
	}
	if _, err := uc.GetByCode(ctx, "SKY-NOPE", ""); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	entries, err := uc.Entries(ctx, res.Code, "user-ana")
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}

func TestTransactionUseCase_Spending(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	// A month earlier: counted for the year only.
	if _, err := f.engine(withNow(fixedNow.AddDate(0, -1, 0))).Transfer(ctx, usecase.TransferInput{
		OriginAccountID: "acc-ana", DestinationIdentifier: phoneBruno, Amount: dec("40"),
	}); err != nil {
		t.Fatalf("february transfer: %v", err)
	}

	engine := f.engine()
	if _, err := engine.Transfer(ctx, usecase.TransferInput{
		OriginAccountID: "acc-ana", DestinationIdentifier: phoneBruno, Amount: dec("10"),
	}); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if _, err := engine.Pay(ctx, usecase.PaymentInput{AccountID: "acc-ana", ServiceID: powerServiceID, Amount: dec("100")}); err != nil {
		t.Fatalf("payment: %v", err)
	}

	uc := usecase.NewTransactionUseCase(f.store.AccountRepository(), f.store.TransactionRepository(), f.store.EntryRepository(), laPaz)

	month, err := uc.Spending(ctx, usecase.SpendingInput{AccountID: "acc-ana", OwnerID: "user-ana", At: fixedNow})
	if err != nil {
		t.Fatalf("spending: %v", err)
	}
	if month.Period != domain.PeriodMonth || month.Count != 2 {
		t.Fatalf("unexpected month summary %+v", month)
	}
	if !month.Spent.Equal(dec("112.05")) || !month.Commission.Equal(dec("2.05")) || !month.Cashback.Equal(dec("2.00")) {
		t.Fatalf("unexpected totals spent=%s commission=%s cashback=%s", month.Spent, month.Commission, month.Cashback)
	}
	if month.PointsEarned != 110 {
		t.Fatalf("points = %d, want 110", month.PointsEarned)
	}
	if len(month.ByService) != 2 || month.ByService[0].ServiceID != powerServiceID {
		t.Fatalf("unexpected breakdown %+v", month.ByService)
	}

	year, err := uc.Spending(ctx, usecase.SpendingInput{AccountID: "acc-ana", Period: domain.PeriodYear, At: fixedNow})
	if err != nil {
		t.Fatalf("spending: %v", err)
	}
	if year.Count != 3 || !year.Spent.Equal(dec("152.25")) {
		t.Fatalf("unexpected year summary count=%d spent=%s", year.Count, year.Spent)
	}

	received, err := uc.Spending(ctx, usecase.SpendingInput{AccountID: "acc-bruno", At: fixedNow})
	if err != nil {
		t.Fatalf("spending: %v", err)
	}
	if received.Count != 0 || !received.Received.Equal(dec("10")) {
		t.Fatalf("unexpected receiver summary %+v", received)
	}

	if _, err := uc.Spending(ctx, usecase.SpendingInput{AccountID: "acc-ana", Period: "decade"}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected invalid period, got %v", err)
	}
	if _, err := uc.Spending(ctx, usecase.SpendingInput{AccountID: "acc-ana", OwnerID: "user-bruno"}); !errors.Is(err, domain.ErrAccountNotOwned) {
		t.Fatalf("expected ownership error, got %v", err)
	}
}
