package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/skypagos/ledger/internal/domain"
)

func TestOutboxRepositoryCreate(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).
		WithArgs("evt-1", "SKY1", domain.AggregateTypeTransaction, domain.EventTypeTransferCompleted, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := newOutboxRepository(mock)
	err := repo.Create(context.Background(), &domain.OutboxEvent{
		ID:            "evt-1",
		AggregateID:   "SKY1",
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransferCompleted,
		Payload:       map[string]any{"amount": "200.00"},
		CreatedAt:     time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mock)
}

func TestOutboxRepositoryGetUnpublished(t *testing.T) {
	mock := newMockPool(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE NOT published")).
		WithArgs(int32(10)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published_at", "published",
		}).AddRow("evt-1", "SKY1", "transaction", domain.EventTypePaymentCompleted, []byte(`{"code":"SKY1"}`), now, nil, false))

	repo := newOutboxRepository(mock)
	events, err := repo.GetUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].Payload["code"] != "SKY1" || events[0].PublishedAt != nil {
		t.Fatalf("unexpected events: %+v", events)
	}

	assertExpectations(t, mock)
}

func TestOutboxRepositoryMarkPublished(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox_events SET published = TRUE")).
		WithArgs("evt-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := newOutboxRepository(mock)
	if err := repo.MarkPublished(context.Background(), "evt-1", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mock)
}

func TestLedgerRepositoryCheckConsistency(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(regexp.QuoteMeta("total_account_balance")).
		WillReturnRows(pgxmock.NewRows([]string{"total_account_balance", "total_entry_amount"}).AddRow("0.00", "0.00"))

	repo := newLedgerRepository(mock)
	balance, amount, err := repo.CheckConsistency(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.IsZero() || !amount.Equal(decimal.Zero) {
		t.Fatalf("expected zero totals, got %s %s", balance, amount)
	}

	assertExpectations(t, mock)
}

func TestLedgerRepositoryCheckConsistencyError(t *testing.T) {
	mock := newMockPool(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta("total_account_balance")).WillReturnError(boom)

	repo := newLedgerRepository(mock)
	if _, _, err := repo.CheckConsistency(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
}
