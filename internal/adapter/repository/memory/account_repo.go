package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skypagos/ledger/internal/domain"
	"github.com/skypagos/ledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// Create stages a new account. The new row stays locked by tx until it ends.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}

	s := r.store
	s.mu.Lock()
	err = s.claimIdentifiers(account, mt)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := mt.lock(ctx, account.ID); err != nil {
		return err
	}
	mt.accounts[account.ID] = cloneAccount(account)
	mt.created[account.ID] = true
	return nil
}

// claimIdentifiers reserves the id, phone and account number of a new
// account for owner until it ends. It must be called with s.mu held.
func (s *Store) claimIdentifiers(account *domain.Account, owner *Tx) error {
	type claim struct {
		key   string
		taken bool
		err   error
	}

	_, idTaken := s.accounts[account.ID]
	claims := []claim{{
		key:   "id:" + account.ID,
		taken: idTaken,
		err:   fmt.Errorf("%w: account %s already exists", domain.ErrConflict, account.ID),
	}}
	if account.Phone != "" {
		_, taken := s.byPhone[account.Phone]
		claims = append(claims, claim{
			key:   "phone:" + account.Phone,
			taken: taken,
			err:   fmt.Errorf("%w: phone already registered", domain.ErrConflict),
		})
	}
	if account.AccountNumber != "" {
		_, taken := s.byNumber[account.AccountNumber]
		claims = append(claims, claim{
			key:   "number:" + account.AccountNumber,
			taken: taken,
			err:   fmt.Errorf("%w: account number already registered", domain.ErrConflict),
		})
	}

	for _, c := range claims {
		if holder, ok := s.claimed[c.key]; c.taken || (ok && holder != owner) {
			return c.err
		}
	}
	for _, c := range claims {
		s.claimed[c.key] = owner
		owner.claims = append(owner.claims, c.key)
	}
	return nil
}

// GetByID returns the committed account.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(acc), nil
}

// GetByIdentifier resolves a phone or account number.
func (r *AccountRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byPhone[identifier]
	if !ok {
		id, ok = s.byNumber[identifier]
	}
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(s.accounts[id]), nil
}

// GetByIDsForUpdate locks ids in ascending order. Missing ids are skipped,
// as a SELECT would skip them.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	accounts := make([]*domain.Account, 0, len(sorted))
	for _, id := range sorted {
		if _, ok := mt.view(id); !ok {
			continue
		}
		if err := mt.lock(ctx, id); err != nil {
			return nil, err
		}
		// Re-read after the lock so the caller sees the latest commit.
		acc, _ := mt.view(id)
		mt.accounts[id] = acc
		accounts = append(accounts, cloneAccount(acc))
	}

	return accounts, nil
}

// Save stages an account locked by tx.
func (r *AccountRepository) Save(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if !mt.holds(account.ID) {
		return fmt.Errorf("memory: account %s saved without lock", account.ID)
	}

	mt.accounts[account.ID] = cloneAccount(account)
	return nil
}

// ApplyDelta locks the row, adds delta to its balance and bumps the version.
func (r *AccountRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (*domain.Account, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	if _, ok := mt.view(id); !ok {
		return nil, domain.ErrAccountNotFound
	}
	if err := mt.lock(ctx, id); err != nil {
		return nil, err
	}

	acc, _ := mt.view(id)
	if delta.IsNegative() {
		if err := acc.ValidateDebit(delta.Neg()); err != nil {
			return nil, err
		}
	}
	acc.Balance = acc.ApplyCredit(delta)
	acc.Version++
	acc.UpdatedAt = updatedAt
	mt.accounts[id] = acc

	return cloneAccount(acc), nil
}

// SetActive flips the active flag outside any unit of work. It waits for the
// row lock like an UPDATE would.
func (r *AccountRepository) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error {
	tx, err := r.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	accounts, err := r.GetByIDsForUpdate(ctx, tx, []string{id})
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return domain.ErrAccountNotFound
	}

	acc := accounts[0]
	acc.Active = active
	acc.Version++
	acc.UpdatedAt = updatedAt
	if err := r.Save(ctx, tx, acc); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// List returns committed accounts ordered by id.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.sortedAccounts()
	if offset >= len(all) {
		return []*domain.Account{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	out := make([]*domain.Account, 0, end-offset)
	for _, acc := range all[offset:end] {
		out = append(out, cloneAccount(acc))
	}
	return out, nil
}
