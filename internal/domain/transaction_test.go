package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name        string
		tx          Transaction
		expectError error
	}{
		{
			name: "valid completed transfer",
			tx: Transaction{
				OriginAccountID: "a", DestinationAccountID: "b",
				Amount: decimal.NewFromInt(200), Commission: decimal.NewFromInt(1), TotalDebited: decimal.NewFromInt(201),
				Status: StatusCompleted,
			},
		},
		{
			name: "payment without destination",
			tx: Transaction{
				OriginAccountID: "a",
				Amount:          decimal.NewFromInt(50), Commission: decimal.Zero, TotalDebited: decimal.NewFromInt(50),
				Status: StatusCompleted,
			},
		},
		{
			name: "same account",
			tx: Transaction{
				OriginAccountID: "a", DestinationAccountID: "a",
				Amount: decimal.NewFromInt(10), TotalDebited: decimal.NewFromInt(10),
			},
			expectError: ErrSameAccount,
		},
		{
			name:        "zero amount",
			tx:          Transaction{OriginAccountID: "a", DestinationAccountID: "b"},
			expectError: ErrInvalidAmount,
		},
		{
			name: "total does not match amount plus commission",
			tx: Transaction{
				OriginAccountID: "a", DestinationAccountID: "b",
				Amount: decimal.NewFromInt(200), Commission: decimal.NewFromInt(1), TotalDebited: decimal.NewFromInt(200),
				Status: StatusCompleted,
			},
			expectError: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()

			if tt.expectError == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestTransaction_StatusTransitions(t *testing.T) {
	tx := &Transaction{Status: StatusPending}
	at := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	tx.Complete(at)
	if tx.Status != StatusCompleted || tx.CompletedAt == nil || !tx.CompletedAt.Equal(at) {
		t.Fatalf("expected completed transaction, got %+v", tx)
	}

	failed := &Transaction{Status: StatusPending}
	failed.Fail(StateLimitChecked, &LimitExceededError{Scope: LimitScopeDaily, Limit: decimal.NewFromInt(500), Attempted: decimal.NewFromInt(550)})
	if failed.Status != StatusFailed {
		t.Fatalf("expected failed status, got %s", failed.Status)
	}
	if failed.FailureReason != "limit_checked: daily limit exceeded: limit 500.00, attempted 550.00" {
		t.Fatalf("unexpected failure reason %q", failed.FailureReason)
	}
}

func TestNotificationFromTransaction(t *testing.T) {
	completed := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	tx := &Transaction{
		Code: "SKY260101100000ABCDEF", Kind: KindPayment,
		OriginAccountID: "a", DestinationName: "ELFEC",
		Amount: decimal.NewFromInt(100), Commission: decimal.RequireFromString("1.5"), Cashback: decimal.NewFromInt(2),
		PointsEarned: 100, CompletedAt: &completed,
	}

	evt := NotificationFromTransaction(tx)

	if evt.EventType != EventTypePaymentCompleted {
		t.Fatalf("expected payment event type, got %s", evt.EventType)
	}
	if evt.Amount != "100.00" || evt.Commission != "1.50" || evt.Cashback != "2.00" {
		t.Fatalf("unexpected amounts: %+v", evt)
	}
	if evt.EventAt != "2026-01-01T10:00:00Z" {
		t.Fatalf("unexpected event time %s", evt.EventAt)
	}
	if evt.Payload()["code"] != tx.Code {
		t.Fatalf("expected payload to carry the code")
	}
}
