package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skypagos/ledger/internal/domain"
	"github.com/skypagos/ledger/internal/usecase"
)

func TestAccountFromDomain(t *testing.T) {
	now := time.Now()
	account := &domain.Account{
		ID:           "acc-1",
		OwnerID:      "user-1",
		OwnerName:    "Ana",
		Phone:        "71234567",
		Balance:      decimal.RequireFromString("123.4"),
		DailyLimit:   decimal.NewFromInt(5000),
		MonthlyLimit: decimal.NewFromInt(20000),
		Version:      2,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	resp := AccountFromDomain(account)
	if resp.ID != account.ID || resp.Balance != "123.40" || resp.Version != 2 || resp.DailyLimit != "5000.00" {
		t.Fatalf("unexpected account response: %+v", resp)
	}

	list := AccountsFromDomain([]*domain.Account{account})
	if len(list) != 1 || list[0].ID != account.ID {
		t.Fatalf("AccountsFromDomain returned %+v", list)
	}
}

func TestTransactionFromDomain(t *testing.T) {
	now := time.Now()
	txn := &domain.Transaction{
		ID:              "tx-1",
		Code:            "SKY260310143015ABCDEF",
		Kind:            domain.KindPayment,
		Status:          domain.StatusCompleted,
		OriginAccountID: "acc-1",
		ServiceID:       "svc-tigo",
		Amount:          decimal.NewFromInt(100),
		Commission:      decimal.RequireFromString("2.5"),
		Cashback:        decimal.NewFromInt(1),
		TotalDebited:    decimal.RequireFromString("102.5"),
		PointsEarned:    1,
		CreatedAt:       now,
		CompletedAt:     &now,
	}

	resp := TransactionFromDomain(txn)
	if resp.Kind != "payment" || resp.Status != "completed" || resp.TotalDebited != "102.50" || resp.Cashback != "1.00" {
		t.Fatalf("unexpected transaction response: %+v", resp)
	}
	if resp.DestinationAccountID != "" {
		t.Fatalf("expected no destination, got %q", resp.DestinationAccountID)
	}
}

func TestResultResponses(t *testing.T) {
	transfer := TransferFromResult(&usecase.TransferResult{
		Code:            "SKY1",
		Amount:          decimal.NewFromInt(100),
		Commission:      decimal.RequireFromString("0.5"),
		Total:           decimal.RequireFromString("100.5"),
		DestinationName: "Luis",
	})
	if transfer.Total != "100.50" || transfer.Commission != "0.50" || transfer.DestinationName != "Luis" {
		t.Fatalf("unexpected transfer response: %+v", transfer)
	}

	payment := PaymentFromResult(&usecase.PaymentResult{
		Code:         "SKY2",
		Amount:       decimal.NewFromInt(50),
		Commission:   decimal.RequireFromString("1.25"),
		Cashback:     decimal.RequireFromString("0.5"),
		PointsEarned: 0,
		NewBalance:   decimal.RequireFromString("948.25"),
	})
	if payment.NewBalance != "948.25" || payment.Cashback != "0.50" {
		t.Fatalf("unexpected payment response: %+v", payment)
	}
}

func TestEntriesFromDomain(t *testing.T) {
	entries := EntriesFromDomain([]*domain.Entry{{
		ID:                     "e1",
		AccountID:              "acc-1",
		TransactionID:          "tx-1",
		Amount:                 decimal.NewFromInt(-10),
		AccountPreviousBalance: decimal.NewFromInt(20),
		AccountCurrentBalance:  decimal.NewFromInt(10),
		AccountVersion:         3,
	}})

	if len(entries) != 1 || entries[0].Amount != "-10.00" || entries[0].CurrentBalance != "10.00" {
		t.Fatalf("unexpected entries: %+v", entries[0])
	}
}

func TestCatalogResponses(t *testing.T) {
	services := ServicesFromDomain([]*domain.Service{{
		ID:                "svc-luz",
		Name:              "Luz",
		Category:          "servicios",
		Popular:           true,
		CommissionPercent: decimal.RequireFromString("1.5"),
		CommissionFixed:   decimal.RequireFromString("0.5"),
		MaxAmount:         decimal.NewFromInt(5000),
		CashbackPercent:   decimal.NewFromInt(1),
	}})
	if len(services) != 1 || services[0].CommissionFixed != "0.50" || services[0].MaxAmount != "5000.00" || services[0].CommissionPercent != "1.5" {
		t.Fatalf("unexpected services: %+v", services[0])
	}

	promotions := PromotionsFromDomain([]*domain.Promotion{{ID: "promo-1", ExtraCashbackPercent: decimal.NewFromInt(2)}})
	if promotions[0].ServiceIDs == nil || len(promotions[0].ServiceIDs) != 0 {
		t.Fatalf("expected empty service list, got %v", promotions[0].ServiceIDs)
	}
}

func TestSpendingFromDomain(t *testing.T) {
	now := time.Now()
	summary := domain.NewSpendingSummary("acc-1", domain.PeriodWeek, now.Add(-time.Hour), now)
	summary.Add(&domain.Transaction{
		OriginAccountID: "acc-1",
		ServiceID:       "svc-luz",
		Status:          domain.StatusCompleted,
		Amount:          decimal.NewFromInt(100),
		Commission:      decimal.RequireFromString("2.05"),
		TotalDebited:    decimal.RequireFromString("102.05"),
		Cashback:        decimal.NewFromInt(1),
		PointsEarned:    100,
		CreatedAt:       now.Add(-time.Minute),
	})

	resp := SpendingFromDomain(summary)
	if resp.Period != "week" || resp.Spent != "102.05" || resp.Received != "0.00" || resp.PointsEarned != 100 {
		t.Fatalf("unexpected spending response: %+v", resp)
	}
	if len(resp.ByService) != 1 || resp.ByService[0].Amount != "100.00" {
		t.Fatalf("unexpected breakdown: %+v", resp.ByService)
	}
}
