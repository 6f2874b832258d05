// Package memory is an in-process ledger store. Account rows carry
// exclusive locks held until the owning transaction ends, and writes are
// staged and applied atomically on commit, so the engine sees the same
// locking and visibility rules it gets from Postgres.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skypagos/ledger/internal/domain"
	"github.com/skypagos/ledger/internal/usecase"
)

// Store holds the committed state.
type Store struct {
	mu sync.Mutex

	accounts map[string]*domain.Account
	byPhone  map[string]string
	byNumber map[string]string
	locks    map[string]chan struct{}

	transactions []*domain.Transaction
	byCode       map[string]*domain.Transaction
	reserved     map[string]*Tx
	claimed      map[string]*Tx

	entries []*domain.Entry

	services   map[string]*domain.Service
	promotions []*domain.Promotion

	outbox []*domain.OutboxEvent
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*domain.Account),
		byPhone:  make(map[string]string),
		byNumber: make(map[string]string),
		locks:    make(map[string]chan struct{}),
		byCode:   make(map[string]*domain.Transaction),
		reserved: make(map[string]*Tx),
		claimed:  make(map[string]*Tx),
		services: make(map[string]*domain.Service),
	}
}

// Tx is a unit of work against the Store.
type Tx struct {
	store *Store

	held     []string
	accounts map[string]*domain.Account
	created  map[string]bool
	txns     []*domain.Transaction
	entries  []*domain.Entry
	codes    []string
	claims   []string
	done     bool
}

// Begin starts a unit of work.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, mapContextErr(err)
	}

	return &Tx{
		store:    s,
		accounts: make(map[string]*domain.Account),
		created:  make(map[string]bool),
	}, nil
}

// Commit applies the staged writes and releases every lock.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return fmt.Errorf("%w: transaction already closed", domain.ErrConflict)
	}
	if err := ctx.Err(); err != nil {
		t.release()
		return mapContextErr(err)
	}

	s := t.store
	s.mu.Lock()
	for id, acc := range t.accounts {
		s.accounts[id] = acc
		if acc.Phone != "" {
			s.byPhone[acc.Phone] = id
		}
		if acc.AccountNumber != "" {
			s.byNumber[acc.AccountNumber] = id
		}
	}
	for _, txn := range t.txns {
		s.transactions = append(s.transactions, txn)
		s.byCode[txn.Code] = txn
	}
	s.entries = append(s.entries, t.entries...)
	s.mu.Unlock()

	t.release()
	return nil
}

// Rollback discards the staged writes. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.release()
	return nil
}

func (t *Tx) release() {
	s := t.store
	s.mu.Lock()
	for _, code := range t.codes {
		if s.reserved[code] == t {
			delete(s.reserved, code)
		}
	}
	for _, key := range t.claims {
		if s.claimed[key] == t {
			delete(s.claimed, key)
		}
	}
	locks := make([]chan struct{}, 0, len(t.held))
	for _, id := range t.held {
		locks = append(locks, s.locks[id])
	}
	s.mu.Unlock()

	for _, l := range locks {
		<-l
	}
	t.held = nil
	t.done = true
}

func (t *Tx) holds(id string) bool {
	for _, h := range t.held {
		if h == id {
			return true
		}
	}
	return false
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	mt, ok := tx.(*Tx)
	if !ok || mt == nil {
		return nil, fmt.Errorf("memory: foreign transaction %T", tx)
	}
	if mt.done {
		return nil, fmt.Errorf("%w: transaction already closed", domain.ErrConflict)
	}
	return mt, nil
}

// lock blocks until the row lock of id is free or ctx ends.
func (t *Tx) lock(ctx context.Context, id string) error {
	if t.holds(id) {
		return nil
	}

	s := t.store
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[id] = l
	}
	s.mu.Unlock()

	select {
	case l <- struct{}{}:
		t.held = append(t.held, id)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("lock account %s: %w", id, mapContextErr(ctx.Err()))
	}
}

func mapContextErr(err error) error {
	if err == context.DeadlineExceeded {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return err
}

// view returns the account as tx sees it.
func (t *Tx) view(id string) (*domain.Account, bool) {
	if acc, ok := t.accounts[id]; ok {
		return acc, true
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, false
	}
	return cloneAccount(acc), true
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func cloneTransaction(t *domain.Transaction) *domain.Transaction {
	c := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

// PutAccount stores an account directly, outside any unit of work.
func (s *Store) PutAccount(acc *domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[acc.ID] = cloneAccount(acc)
	if acc.Phone != "" {
		s.byPhone[acc.Phone] = acc.ID
	}
	if acc.AccountNumber != "" {
		s.byNumber[acc.AccountNumber] = acc.ID
	}
}

// PutService stores a catalog service.
func (s *Store) PutService(svc *domain.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *svc
	s.services[svc.ID] = &c
}

// PutPromotion stores a catalog promotion.
func (s *Store) PutPromotion(p *domain.Promotion) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *p
	s.promotions = append(s.promotions, &c)
}

// AccountRepository returns the account view of the store.
func (s *Store) AccountRepository() *AccountRepository { return &AccountRepository{s} }

// TransactionRepository returns the transaction ledger view of the store.
func (s *Store) TransactionRepository() *TransactionRepository { return &TransactionRepository{s} }

// EntryRepository returns the entry view of the store.
func (s *Store) EntryRepository() *EntryRepository { return &EntryRepository{s} }

// CheckConsistency sums every balance and every entry amount.
func (s *Store) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totalBalance := decimal.Zero
	for _, acc := range s.accounts {
		totalBalance = totalBalance.Add(acc.Balance)
	}
	totalAmount := decimal.Zero
	for _, e := range s.entries {
		totalAmount = totalAmount.Add(e.Amount)
	}

	return totalBalance, totalAmount, nil
}

// GetService implements usecase.CatalogRepository.
func (s *Store) GetService(ctx context.Context, id string) (*domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, ok := s.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	c := *svc
	return &c, nil
}

// ListPromotions implements usecase.CatalogRepository.
func (s *Store) ListPromotions(ctx context.Context, serviceID string) ([]*domain.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Promotion
	for _, p := range s.promotions {
		if p.Active && p.AppliesTo(serviceID) {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

// ListServices implements usecase.CatalogRepository.
func (s *Store) ListServices(ctx context.Context) ([]*domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Service, 0, len(s.services))
	for _, svc := range s.services {
		if svc.Active {
			c := *svc
			out = append(out, &c)
		}
	}
	domain.SortServices(out)
	return out, nil
}

// ListActivePromotions implements usecase.CatalogRepository.
func (s *Store) ListActivePromotions(ctx context.Context, at time.Time) ([]*domain.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Promotion
	for _, p := range s.promotions {
		if p.ActiveAt(at) {
			c := *p
			out = append(out, &c)
		}
	}
	domain.SortPromotions(out)
	return out, nil
}

// sortedAccounts returns committed accounts ordered by id.
func (s *Store) sortedAccounts() []*domain.Account {
	ids := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.accounts[id])
	}
	return out
}
