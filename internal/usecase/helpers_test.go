package usecase_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/skypagos/ledger/internal/adapter/repository/memory"
	"github.com/skypagos/ledger/internal/domain"
	"github.com/skypagos/ledger/internal/infrastructure/retry"
	"github.com/skypagos/ledger/internal/usecase"
)

var (
	// 11:00 in La Paz.
	fixedNow = time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)
	laPaz    = time.FixedZone("BOT", -4*60*60)

	systemAccounts = domain.SystemAccounts{
		Revenue:       "sys-revenue",
		CashbackFloat: "sys-float",
		Settlement:    "sys-settlement",
	}
)

const (
	transferServiceID = "svc-transfer"
	powerServiceID    = "svc-power"

	phoneAna   = "70000001"
	phoneBruno = "70000002"
	phoneCarla = "70000003"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type seqIDGen struct{ n atomic.Int64 }

func (g *seqIDGen) Generate() string {
	return fmt.Sprintf("id-%06d", g.n.Add(1))
}

type seqCodeGen struct{ n atomic.Int64 }

func (g *seqCodeGen) Generate(now time.Time) string {
	return fmt.Sprintf("SKY%s%06d", now.Format("060102150405"), g.n.Add(1))
}

// ledgerFixture is a memory store seeded with system accounts, two wallets
// and the catalog.
type ledgerFixture struct {
	store *memory.Store
	ids   *seqIDGen
	codes *seqCodeGen
}

type walletSeed struct {
	id, owner, name, phone string
	balance                string
	dailyLimit             string
}

func newLedgerFixture(t *testing.T, wallets ...walletSeed) *ledgerFixture {
	t.Helper()

	if len(wallets) == 0 {
		wallets = []walletSeed{
			{id: "acc-ana", owner: "user-ana", name: "Ana Quispe", phone: phoneAna, balance: "1000", dailyLimit: "500"},
			{id: "acc-bruno", owner: "user-bruno", name: "Bruno Mamani", phone: phoneBruno, balance: "0", dailyLimit: "500"},
		}
	}

	s := memory.NewStore()
	today := domain.CalendarDay(fixedNow, laPaz)
	month := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	funded := decimal.Zero
	for _, w := range wallets {
		balance := dec(w.balance)
		funded = funded.Add(balance)
		s.PutAccount(&domain.Account{
			ID:               w.id,
			OwnerID:          w.owner,
			OwnerName:        w.name,
			Phone:            w.phone,
			Balance:          balance,
			DailyLimit:       dec(w.dailyLimit),
			MonthlyLimit:     dec("50000"),
			DailyResetDate:   today,
			MonthlyResetDate: month,
			Active:           true,
		})
	}

	s.PutAccount(&domain.Account{ID: systemAccounts.Revenue, OwnerName: "SkyPagos Revenue", AccountNumber: "9990000001", System: true, Active: true})
	s.PutAccount(&domain.Account{ID: systemAccounts.CashbackFloat, OwnerName: "Cashback Float", System: true, AllowNegativeBalance: true, Active: true})
	s.PutAccount(&domain.Account{ID: systemAccounts.Settlement, OwnerName: "Settlement", Balance: funded.Neg(), System: true, AllowNegativeBalance: true, Active: true})

	s.PutService(&domain.Service{
		ID:                transferServiceID,
		Name:              "P2P transfer",
		CommissionPercent: dec("0.5"),
		MinAmount:         dec("1"),
		MaxAmount:         dec("5000"),
		Active:            true,
	})
	s.PutService(&domain.Service{
		ID:              powerServiceID,
		Name:            "ELFEC Electricity",
		CommissionFixed: dec("2"),
		CashbackPercent: dec("1"),
		MinAmount:       dec("10"),
		MaxAmount:       dec("2000"),
		Active:          true,
	})
	s.PutService(&domain.Service{ID: "svc-retired", Name: "Retired", Active: false})
	s.PutPromotion(&domain.Promotion{
		ID:                   "promo-march",
		StartsAt:             fixedNow.Add(-time.Hour),
		EndsAt:               fixedNow.Add(time.Hour),
		ExtraCashbackPercent: dec("1"),
		ApplicableServiceIDs: []string{powerServiceID},
		Active:               true,
	})

	return &ledgerFixture{store: s, ids: &seqIDGen{}, codes: &seqCodeGen{}}
}

type engineOption func(*usecase.TransferDeps, *usecase.TransferConfig)

func withNotifier(n usecase.Notifier) engineOption {
	return func(d *usecase.TransferDeps, _ *usecase.TransferConfig) { d.Notifier = n }
}

func withCodeGen(g usecase.CodeGenerator) engineOption {
	return func(d *usecase.TransferDeps, _ *usecase.TransferConfig) { d.CodeGen = g }
}

func withMetrics(m usecase.MetricsRecorder) engineOption {
	return func(d *usecase.TransferDeps, _ *usecase.TransferConfig) { d.Metrics = m }
}

func withTransactions(r usecase.TransactionRepository) engineOption {
	return func(d *usecase.TransferDeps, _ *usecase.TransferConfig) { d.Transactions = r }
}

func withTxTimeout(timeout time.Duration) engineOption {
	return func(_ *usecase.TransferDeps, c *usecase.TransferConfig) { c.TxTimeout = timeout }
}

func withNow(now time.Time) engineOption {
	return func(_ *usecase.TransferDeps, c *usecase.TransferConfig) { c.Now = func() time.Time { return now } }
}

func (f *ledgerFixture) engine(opts ...engineOption) *usecase.TransferUseCase {
	deps := usecase.TransferDeps{
		TxManager:    f.store,
		Accounts:     f.store.AccountRepository(),
		Transactions: f.store.TransactionRepository(),
		Entries:      f.store.EntryRepository(),
		Catalog:      usecase.NewCachedCatalog(f.store, nil, time.Minute, zerolog.Nop()),
		Retrier: retry.New(retry.Config{
			MaxRetries:      3,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			MaxElapsedTime:  5 * time.Second,
		}, zerolog.Nop()),
		IDGen:   f.ids,
		CodeGen: f.codes,
		Logger:  zerolog.Nop(),
	}
	cfg := usecase.TransferConfig{
		TransferServiceID: transferServiceID,
		SystemAccounts:    systemAccounts,
		Location:          laPaz,
		Now:               func() time.Time { return fixedNow },
	}
	for _, opt := range opts {
		opt(&deps, &cfg)
	}

	return usecase.NewTransferUseCase(deps, cfg)
}

func (f *ledgerFixture) account(t *testing.T, id string) *domain.Account {
	t.Helper()

	acc, err := f.store.AccountRepository().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load account %s: %v", id, err)
	}
	return acc
}

func (f *ledgerFixture) requireBalance(t *testing.T, id, want string) {
	t.Helper()

	if got := f.account(t, id).Balance; !got.Equal(dec(want)) {
		t.Fatalf("account %s balance = %s, want %s", id, got, want)
	}
}

func (f *ledgerFixture) requireConsistent(t *testing.T) {
	t.Helper()

	if _, err := usecase.NewLedgerUseCase(f.store).CheckConsistency(context.Background()); err != nil {
		t.Fatalf("ledger not consistent: %v", err)
	}
}
