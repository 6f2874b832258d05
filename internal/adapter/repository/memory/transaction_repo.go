package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/skypagos/ledger/internal/domain"
	"github.com/skypagos/ledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

// Append stages t and reserves its code. A code held by a committed
// transaction or by another open unit fails with domain.ErrDuplicateCode.
func (r *TransactionRepository) Append(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reserveCode(t.Code, mt); err != nil {
		return err
	}

	mt.codes = append(mt.codes, t.Code)
	mt.txns = append(mt.txns, cloneTransaction(t))
	return nil
}

// AppendFailed commits t immediately.
func (r *TransactionRepository) AppendFailed(ctx context.Context, t *domain.Transaction) error {
	if t.Status != domain.StatusFailed {
		return fmt.Errorf("%w: only failed transactions are appended outside a unit", domain.ErrInvalidRequest)
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reserveCode(t.Code, nil); err != nil {
		return err
	}

	c := cloneTransaction(t)
	s.transactions = append(s.transactions, c)
	s.byCode[c.Code] = c
	return nil
}

// reserveCode must be called with s.mu held.
func (s *Store) reserveCode(code string, owner *Tx) error {
	if _, ok := s.byCode[code]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, code)
	}
	if holder, ok := s.reserved[code]; ok && holder != owner {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, code)
	}
	if owner != nil {
		s.reserved[code] = owner
	}
	return nil
}

// FindByCode returns a committed transaction.
func (r *TransactionRepository) FindByCode(ctx context.Context, code string) (*domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byCode[code]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return cloneTransaction(t), nil
}

// History returns transactions touching accountID, newest first.
func (r *TransactionRepository) History(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Transaction, 0, limit)
	skipped := 0
	for i := len(s.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		t := s.transactions[i]
		if !t.Touches(accountID) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, cloneTransaction(t))
	}
	return out, nil
}

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// Create stages an entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}

	c := *entry
	mt.entries = append(mt.entries, &c)
	return nil
}

// GetByTransaction returns the entries of a transaction in posting order.
func (r *EntryRepository) GetByTransaction(ctx context.Context, transactionID string) ([]*domain.Entry, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Entry
	for _, e := range s.entries {
		if e.TransactionID == transactionID {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

// GetByAccount returns the entries of an account, newest first.
func (r *EntryRepository) GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Entry, 0, limit)
	skipped := 0
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := s.entries[i]
		if e.AccountID != accountID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

// OutboxRepository returns the outbox view of the store.
func (s *Store) OutboxRepository() *OutboxRepository { return &OutboxRepository{s} }

// Create queues an event.
func (r *OutboxRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *event
	s.outbox = append(s.outbox, &c)
	return nil
}

// GetUnpublished returns up to limit queued events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.OutboxEvent
	for _, e := range s.outbox {
		if len(out) == limit {
			break
		}
		if !e.Published {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

// MarkPublished flags an event as delivered.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.outbox {
		if e.ID == id {
			at := publishedAt
			e.Published = true
			e.PublishedAt = &at
			return nil
		}
	}
	return fmt.Errorf("outbox event %s not found", id)
}

// DeletePublished drops events delivered before the cutoff.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.outbox[:0]
	for _, e := range s.outbox {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	s.outbox = kept
	return nil
}
