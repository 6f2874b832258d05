package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/skypagos/ledger/internal/domain"
)

// TransferConfig holds the engine settings.
type TransferConfig struct {
	// TransferServiceID prices P2P transfers.
	TransferServiceID string
	SystemAccounts    domain.SystemAccounts
	// Location is the calendar spend counters roll over in.
	Location  *time.Location
	TxTimeout time.Duration
	Now       func() time.Time
}

// TransferDeps are the collaborators of TransferUseCase.
type TransferDeps struct {
	TxManager    TransactionManager
	Accounts     AccountRepository
	Transactions TransactionRepository
	Entries      EntryRepository
	Catalog      ServiceCatalog
	Notifier     Notifier
	Retrier      Retrier
	IDGen        IDGenerator
	CodeGen      CodeGenerator
	Metrics      MetricsRecorder
	Logger       zerolog.Logger
}

// TransferUseCase moves money for transfers and payments.
type TransferUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txRepo      TransactionRepository
	entryRepo   EntryRepository
	catalog     ServiceCatalog
	notifier    Notifier
	retrier     Retrier
	idGen       IDGenerator
	codeGen     CodeGenerator
	metrics     MetricsRecorder
	logger      zerolog.Logger
	cfg         TransferConfig
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(deps TransferDeps, cfg TransferConfig) *TransferUseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.TxTimeout <= 0 {
		cfg.TxTimeout = DefaultTransactionTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}

	return &TransferUseCase{
		txManager:   deps.TxManager,
		accountRepo: deps.Accounts,
		txRepo:      deps.Transactions,
		entryRepo:   deps.Entries,
		catalog:     deps.Catalog,
		notifier:    deps.Notifier,
		retrier:     deps.Retrier,
		idGen:       deps.IDGen,
		codeGen:     deps.CodeGen,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		cfg:         cfg,
	}
}

// TransferInput represents input for a P2P transfer.
type TransferInput struct {
	OriginAccountID       string
	DestinationIdentifier string
	Amount                decimal.Decimal
	Description           string
	// Reference makes the request idempotent when set.
	Reference string
	// OwnerID restricts the origin to accounts of this owner. Empty for
	// trusted callers.
	OwnerID string
}

// TransferResult is what the caller of a transfer gets back.
type TransferResult struct {
	Code            string
	Amount          decimal.Decimal
	Commission      decimal.Decimal
	Total           decimal.Decimal
	DestinationName string
	Replayed        bool
	Transaction     *domain.Transaction
}

// PaymentInput represents input for a service payment.
type PaymentInput struct {
	AccountID             string
	ServiceID             string
	Amount                decimal.Decimal
	DestinationIdentifier string
	Description           string
	Reference             string
	OwnerID               string
}

// PaymentResult is what the caller of a payment gets back.
type PaymentResult struct {
	Code         string
	Amount       decimal.Decimal
	Commission   decimal.Decimal
	Cashback     decimal.Decimal
	PointsEarned int64
	NewBalance   decimal.Decimal
	Replayed     bool
	Transaction  *domain.Transaction
}

// Transfer moves amount from the origin wallet to the wallet behind the
// destination identifier, charging the transfer service commission.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	txn, replayed, err := uc.execute(ctx, movement{
		kind:           domain.KindTransfer,
		originID:       input.OriginAccountID,
		destIdentifier: input.DestinationIdentifier,
		serviceID:      uc.cfg.TransferServiceID,
		amount:         input.Amount,
		description:    input.Description,
		reference:      input.Reference,
		ownerID:        input.OwnerID,
	})
	if err != nil {
		return nil, err
	}

	return &TransferResult{
		Code:            txn.Code,
		Amount:          txn.Amount,
		Commission:      txn.Commission,
		Total:           txn.TotalDebited,
		DestinationName: txn.DestinationName,
		Replayed:        replayed,
		Transaction:     txn,
	}, nil
}

// Pay charges the account for a service, crediting cashback and points.
func (uc *TransferUseCase) Pay(ctx context.Context, input PaymentInput) (*PaymentResult, error) {
	txn, replayed, err := uc.execute(ctx, movement{
		kind:           domain.KindPayment,
		originID:       input.AccountID,
		destIdentifier: input.DestinationIdentifier,
		serviceID:      input.ServiceID,
		amount:         input.Amount,
		description:    input.Description,
		reference:      input.Reference,
		ownerID:        input.OwnerID,
	})
	if err != nil {
		return nil, err
	}

	return &PaymentResult{
		Code:         txn.Code,
		Amount:       txn.Amount,
		Commission:   txn.Commission,
		Cashback:     txn.Cashback,
		PointsEarned: txn.PointsEarned,
		NewBalance:   txn.OriginBalanceAfter,
		Replayed:     replayed,
		Transaction:  txn,
	}, nil
}

type movement struct {
	kind           domain.TransactionKind
	originID       string
	destIdentifier string
	serviceID      string
	amount         decimal.Decimal
	description    string
	reference      string
	ownerID        string
	now            time.Time
}

// attemptState is what one run of the atomic unit learned before it ended.
type attemptState struct {
	txn      *domain.Transaction
	replayed bool
	state    domain.TransferState
	origin   *domain.Account
	destName string
}

func (uc *TransferUseCase) execute(ctx context.Context, req movement) (*domain.Transaction, bool, error) {
	req.now = uc.cfg.Now().UTC()
	req.destIdentifier = domain.NormalizeIdentifier(req.destIdentifier)

	snap, err := uc.prepare(ctx, req)
	if err != nil {
		uc.metrics.TransactionFailed(req.kind, failureLabel(err))
		return nil, false, err
	}

	var (
		last     attemptState
		attempts int
	)
	err = uc.retrier.Retry(ctx, func() error {
		attempts++
		if attempts > 1 {
			uc.metrics.ConflictRetried(req.kind)
		}

		var attemptErr error
		last, attemptErr = uc.attempt(ctx, req, snap)
		return attemptErr
	})
	if err != nil {
		err = normalizeEngineError(err)
		uc.recordFailure(ctx, req, last, err)
		uc.metrics.TransactionFailed(req.kind, failureLabel(err))
		return nil, false, err
	}

	if last.replayed {
		return last.txn, true, nil
	}

	uc.metrics.TransactionCompleted(req.kind, last.txn.Amount, time.Since(req.now))
	uc.notify(ctx, last.txn)

	return last.txn, false, nil
}

// prepare validates the request and takes the pricing snapshot every
// attempt reuses.
func (uc *TransferUseCase) prepare(ctx context.Context, req movement) (domain.CatalogSnapshot, error) {
	var snap domain.CatalogSnapshot

	if req.originID == "" {
		return snap, fmt.Errorf("%w: origin account is required", domain.ErrInvalidRequest)
	}
	if err := domain.ValidateAmount(req.amount); err != nil {
		return snap, err
	}
	if err := domain.ValidateDescription(req.description); err != nil {
		return snap, err
	}
	if err := domain.ValidateReference(req.reference); err != nil {
		return snap, err
	}
	if req.kind == domain.KindTransfer && req.destIdentifier == "" {
		return snap, domain.ErrInvalidIdentifier
	}
	if req.destIdentifier != "" {
		if err := domain.ValidateIdentifier(req.destIdentifier); err != nil {
			return snap, err
		}
	}
	if req.serviceID == "" {
		return snap, fmt.Errorf("%w: service is required", domain.ErrInvalidRequest)
	}

	svc, err := uc.catalog.GetService(ctx, req.serviceID)
	if err != nil {
		return snap, err
	}
	if !svc.Active {
		return snap, domain.ErrServiceInactive
	}
	if err := svc.ValidateAmount(req.amount); err != nil {
		return snap, err
	}
	snap.Service = svc

	if req.kind == domain.KindPayment {
		promotions, err := uc.catalog.ActivePromotions(ctx, svc.ID, req.now)
		if err != nil {
			return snap, err
		}
		snap.Promotions = promotions
	}

	return snap, nil
}

// attempt runs the atomic unit once.
func (uc *TransferUseCase) attempt(ctx context.Context, req movement, snap domain.CatalogSnapshot) (attemptState, error) {
	var st attemptState

	if req.reference != "" {
		existing, err := uc.txRepo.FindByCode(ctx, req.reference)
		switch {
		case err == nil:
			if err := uc.matchReplay(ctx, existing, req); err != nil {
				return st, err
			}
			st.txn, st.replayed = existing, true
			return st, nil
		case !errors.Is(err, domain.ErrTransactionNotFound):
			return st, err
		}
	}

	// System accounts only move through ApplyDelta, never as a locked origin.
	pre, err := uc.accountRepo.GetByID(ctx, req.originID)
	if err != nil {
		return st, err
	}
	if pre.System {
		return st, domain.ErrSystemOrigin
	}

	// The identifier only yields an id here; status is re-read under lock.
	destID := ""
	if req.destIdentifier != "" {
		dest, err := uc.accountRepo.GetByIdentifier(ctx, req.destIdentifier)
		if err != nil {
			return st, err
		}
		if dest.System {
			return st, domain.ErrSystemDestination
		}
		if dest.ID == req.originID {
			return st, domain.ErrSameAccount
		}
		destID = dest.ID
	}

	ctx, cancel := context.WithTimeout(ctx, uc.cfg.TxTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return st, err
	}
	defer tx.Rollback(ctx)

	ids := []string{req.originID}
	if destID != "" {
		ids = append(ids, destID)
	}
	sort.Strings(ids)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return st, err
	}
	accountMap := buildAccountMap(accounts)

	origin := accountMap[req.originID]
	if origin == nil {
		return st, domain.ErrAccountNotFound
	}
	if origin.System {
		return st, domain.ErrSystemOrigin
	}
	st.origin = origin
	if !origin.Owns(req.ownerID) {
		return st, domain.ErrAccountNotOwned
	}
	if !origin.Active {
		return st, fmt.Errorf("%w: origin %s", domain.ErrAccountInactive, origin.ID)
	}

	var destination *domain.Account
	if destID != "" {
		destination = accountMap[destID]
		if destination == nil {
			return st, domain.ErrAccountNotFound
		}
		if !destination.Active {
			return st, fmt.Errorf("%w: destination %s", domain.ErrAccountInactive, destination.ID)
		}
		st.destName = destination.OwnerName
	}
	st.state = domain.StateValidated

	var spend *domain.SpendAuthorization
	if !origin.System {
		auth, err := domain.AuthorizeSpend(origin, req.amount, req.now, uc.cfg.Location)
		if err != nil {
			return st, err
		}
		spend = &auth
	}
	st.state = domain.StateLimitChecked

	rewards := domain.ComputeRewards(req.kind, snap, req.amount, req.now)
	total := req.amount.Add(rewards.Commission)
	st.state = domain.StateComputed

	if err := origin.ValidateDebit(total); err != nil {
		return st, err
	}

	code := req.reference
	if code == "" {
		code = uc.codeGen.Generate(req.now)
	}

	txn := &domain.Transaction{
		ID:                    uc.idGen.Generate(),
		Code:                  code,
		Kind:                  req.kind,
		OriginAccountID:       origin.ID,
		DestinationAccountID:  destID,
		DestinationIdentifier: req.destIdentifier,
		DestinationName:       st.destName,
		ServiceID:             snap.Service.ID,
		Amount:                req.amount,
		Commission:            rewards.Commission,
		Cashback:              rewards.Cashback,
		TotalDebited:          total,
		PointsEarned:          rewards.Points,
		Status:                domain.StatusPending,
		Description:           req.description,
		CreatedAt:             req.now,
	}
	if txn.DestinationName == "" {
		txn.DestinationName = snap.Service.Name
	}

	book := newPostingBook(txn, uc.idGen)
	systemDeltas := map[string]decimal.Decimal{}

	book.post(origin, total.Neg())
	st.state = domain.StateDebited

	if destination != nil {
		book.post(destination, req.amount)
	} else {
		addDelta(systemDeltas, uc.cfg.SystemAccounts.Settlement, req.amount)
	}
	addDelta(systemDeltas, uc.cfg.SystemAccounts.Revenue, rewards.Commission)
	if rewards.Cashback.IsPositive() {
		book.post(origin, rewards.Cashback)
		addDelta(systemDeltas, uc.cfg.SystemAccounts.CashbackFloat, rewards.Cashback.Neg())
	}
	st.state = domain.StateCredited

	if spend != nil {
		spend.Apply(origin)
	}
	origin.Points += rewards.Points

	txn.OriginBalanceAfter = origin.Balance
	txn.Complete(req.now)
	if err := txn.Validate(); err != nil {
		return st, err
	}

	if err := uc.txRepo.Append(ctx, tx, txn); err != nil {
		if errors.Is(err, domain.ErrDuplicateCode) && req.reference != "" {
			// Another request holds this reference; the next attempt replays it.
			return st, fmt.Errorf("%w: reference %s is being settled", domain.ErrConflict, req.reference)
		}
		return st, err
	}

	for _, acc := range book.touched() {
		acc.Version++
		acc.UpdatedAt = req.now
		if err := uc.accountRepo.Save(ctx, tx, acc); err != nil {
			return st, err
		}
	}

	if err := book.flush(ctx, tx, uc.entryRepo); err != nil {
		return st, err
	}

	// System rows are locked after every user row, in id order.
	if err := uc.applySystemDeltas(ctx, tx, txn, systemDeltas, req.now); err != nil {
		return st, err
	}

	if err := tx.Commit(ctx); err != nil {
		return st, err
	}

	st.state = domain.StateCompleted
	st.txn = txn
	return st, nil
}

func (uc *TransferUseCase) applySystemDeltas(
	ctx context.Context,
	tx Transaction,
	txn *domain.Transaction,
	deltas map[string]decimal.Decimal,
	now time.Time,
) error {
	ids := make([]string, 0, len(deltas))
	for id, delta := range deltas {
		if !delta.IsZero() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		delta := deltas[id]
		updated, err := uc.accountRepo.ApplyDelta(ctx, tx, id, delta, now)
		if err != nil {
			return fmt.Errorf("system account %s: %w", id, err)
		}

		entry := &domain.Entry{
			ID:                     uc.idGen.Generate(),
			AccountID:              id,
			TransactionID:          txn.ID,
			Amount:                 delta,
			AccountPreviousBalance: updated.Balance.Sub(delta),
			AccountCurrentBalance:  updated.Balance,
			AccountVersion:         updated.Version,
			CreatedAt:              now,
		}
		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return err
		}
	}

	return nil
}

func (uc *TransferUseCase) matchReplay(ctx context.Context, existing *domain.Transaction, req movement) error {
	if existing.Status != domain.StatusCompleted ||
		existing.Kind != req.kind ||
		existing.OriginAccountID != req.originID ||
		existing.DestinationIdentifier != req.destIdentifier ||
		existing.ServiceID != req.serviceID ||
		!existing.Amount.Equal(req.amount) {
		return domain.ErrReferenceMismatch
	}

	if req.ownerID == "" {
		return nil
	}

	origin, err := uc.accountRepo.GetByID(ctx, existing.OriginAccountID)
	if err != nil {
		return err
	}
	if !origin.Owns(req.ownerID) {
		return domain.ErrAccountNotOwned
	}

	return nil
}

// recordFailure appends a Failed transaction for business rejections once the
// origin account is known. It never touches balances.
func (uc *TransferUseCase) recordFailure(ctx context.Context, req movement, st attemptState, cause error) {
	if st.origin == nil || !isBusinessRejection(cause) {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	failed := &domain.Transaction{
		ID:                    uc.idGen.Generate(),
		Code:                  uc.codeGen.Generate(req.now),
		Kind:                  req.kind,
		OriginAccountID:       req.originID,
		DestinationIdentifier: req.destIdentifier,
		DestinationName:       st.destName,
		ServiceID:             req.serviceID,
		Amount:                req.amount,
		Status:                domain.StatusPending,
		Description:           req.description,
		CreatedAt:             req.now,
	}
	failed.Fail(st.state, cause)

	if err := uc.txRepo.AppendFailed(ctx, failed); err != nil {
		uc.logger.Error().
			Err(err).
			Str("origin_account_id", req.originID).
			Str("kind", string(req.kind)).
			Msg("failed to record failed transaction")
	}
}

func (uc *TransferUseCase) notify(ctx context.Context, txn *domain.Transaction) {
	if uc.notifier == nil {
		return
	}

	if err := uc.notifier.Notify(ctx, domain.NotificationFromTransaction(txn)); err != nil {
		uc.metrics.NotificationFailed()
		uc.logger.Warn().
			Err(err).
			Str("code", txn.Code).
			Msg("notification not delivered")
	}
}

func buildAccountMap(accounts []*domain.Account) map[string]*domain.Account {
	m := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.ID] = a
	}

	return m
}

func addDelta(deltas map[string]decimal.Decimal, id string, amount decimal.Decimal) {
	deltas[id] = deltas[id].Add(amount)
}

// normalizeEngineError folds exhausted retries and context expiry into the
// public taxonomy.
func normalizeEngineError(err error) error {
	switch {
	case errors.Is(err, domain.ErrDuplicateCode):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	case errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrTimeout):
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	default:
		return err
	}
}

func isBusinessRejection(err error) bool {
	return errors.Is(err, domain.ErrInsufficientFunds) ||
		errors.Is(err, domain.ErrLimitExceeded) ||
		errors.Is(err, domain.ErrAccountInactive) ||
		errors.Is(err, domain.ErrAccountNotOwned)
}

func failureLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrAccountInactive):
		return "account_inactive"
	case errors.Is(err, domain.ErrAccountNotOwned):
		return "account_not_owned"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, domain.ErrServiceNotFound), errors.Is(err, domain.ErrServiceInactive):
		return "service_unavailable"
	case errors.Is(err, domain.ErrReferenceMismatch):
		return "reference_mismatch"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "storage_unavailable"
	default:
		return "internal"
	}
}
