package usecase

import (
	"context"
	"time"

	"github.com/skypagos/ledger/internal/domain"
)

// OutboxNotifier queues notification events in the outbox for the
// publisher worker.
type OutboxNotifier struct {
	outboxRepo OutboxRepository
	idGen      IDGenerator
	now        func() time.Time
}

// NewOutboxNotifier creates a new OutboxNotifier.
func NewOutboxNotifier(outboxRepo OutboxRepository, idGen IDGenerator) *OutboxNotifier {
	return &OutboxNotifier{
		outboxRepo: outboxRepo,
		idGen:      idGen,
		now:        time.Now,
	}
}

// Notify writes event to the outbox.
func (n *OutboxNotifier) Notify(ctx context.Context, event domain.NotificationEvent) error {
	return n.outboxRepo.Create(ctx, &domain.OutboxEvent{
		ID:            n.idGen.Generate(),
		AggregateID:   event.Code,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     event.EventType,
		Payload:       event.Payload(),
		CreatedAt:     n.now().UTC(),
	})
}
