package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/skypagos/ledger/internal/adapter/http"
	"github.com/skypagos/ledger/internal/adapter/http/handler"
	"github.com/skypagos/ledger/internal/adapter/http/middleware"
	"github.com/skypagos/ledger/internal/adapter/repository/memory"
	postgresRepo "github.com/skypagos/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/skypagos/ledger/internal/adapter/repository/redis"
	"github.com/skypagos/ledger/internal/domain"
	"github.com/skypagos/ledger/internal/infrastructure/auth"
	"github.com/skypagos/ledger/internal/infrastructure/config"
	"github.com/skypagos/ledger/internal/infrastructure/eventpublisher"
	"github.com/skypagos/ledger/internal/infrastructure/logger"
	"github.com/skypagos/ledger/internal/infrastructure/metrics"
	"github.com/skypagos/ledger/internal/infrastructure/postgres"
	"github.com/skypagos/ledger/internal/infrastructure/redis"
	"github.com/skypagos/ledger/internal/infrastructure/retry"
	"github.com/skypagos/ledger/internal/usecase"
)

const (
	poolStatsInterval    = 15 * time.Second
	limiterSweepInterval = time.Minute
	limiterMaxIdle       = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.SetGlobalLevel(cfg.LogLevel)
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := newApp(ctx, cfg, log, reg)
	if err != nil {
		return err
	}
	defer app.close()

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()
	app.startWorkers(workerCtx)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      app.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.Storage).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// app is the wired service: the HTTP handler plus the background workers
// that keep it healthy.
type app struct {
	handler http.Handler
	workers []func(context.Context)
	closers []func()
}

func (a *app) startWorkers(ctx context.Context) {
	for _, worker := range a.workers {
		go worker(ctx)
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// storage is the set of ports a backend provides.
type storage struct {
	txManager    usecase.TransactionManager
	accounts     usecase.AccountRepository
	transactions usecase.TransactionRepository
	entries      usecase.EntryRepository
	catalog      usecase.CatalogRepository
	outbox       usecase.OutboxRepository
	ledger       usecase.LedgerRepository
	probe        handler.HealthCheck
	pool         *pgxpool.Pool
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	system := domain.SystemAccounts{
		Revenue:       cfg.RevenueAccountID,
		CashbackFloat: cfg.CashbackFloatAccountID,
		Settlement:    cfg.SettlementAccountID,
	}

	a := &app{}
	appMetrics := metrics.NewWithRegistry(reg)

	store, err := openStorage(ctx, cfg, log, system)
	if err != nil {
		return nil, err
	}
	if store.pool != nil {
		a.closers = append(a.closers, store.pool.Close)
		a.workers = append(a.workers, poolStatsWorker(store.pool, appMetrics))
	}
	checks := []handler.HealthCheck{store.probe}

	// Redis is optional: without it the catalog is read straight from
	// storage, idempotency keys are off and notifications go to the log.
	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
		publisher        eventpublisher.Publisher = eventpublisher.NewLogPublisher(log)
	)
	if client := connectRedis(ctx, cfg, log); client != nil {
		a.closers = append(a.closers, func() { client.Close() })
		cache = redisRepo.NewCache(client)
		idempotencyStore = redisRepo.NewIdempotencyStore(client)
		publisher = redisRepo.NewNotificationPublisher(client, cfg.NotificationChannel)
		checks = append(checks, handler.HealthCheck{Name: "redis", Probe: redis.HealthCheck(client)})
	}

	idGen := postgresRepo.NewULIDGenerator()
	codeGen := postgresRepo.NewCodeGenerator(location)

	catalog := usecase.NewCachedCatalog(store.catalog, cache, cfg.CatalogCacheTTL, log)

	// Initialize use cases
	transferUC := usecase.NewTransferUseCase(usecase.TransferDeps{
		TxManager:    store.txManager,
		Accounts:     store.accounts,
		Transactions: store.transactions,
		Entries:      store.entries,
		Catalog:      catalog,
		Notifier:     usecase.NewOutboxNotifier(store.outbox, idGen),
		Retrier:      retry.New(retry.Config{MaxRetries: cfg.MaxConflictRetries}, log),
		IDGen:        idGen,
		CodeGen:      codeGen,
		Metrics:      appMetrics,
		Logger:       log,
	}, usecase.TransferConfig{
		TransferServiceID: cfg.TransferServiceID,
		SystemAccounts:    system,
		Location:          location,
		TxTimeout:         cfg.TransactionTimeout,
	})
	accountUC := usecase.NewAccountUseCase(
		store.txManager, store.accounts, store.transactions, store.entries,
		idGen, codeGen, system.Settlement, location,
	)
	transactionUC := usecase.NewTransactionUseCase(store.accounts, store.transactions, store.entries, location)
	reconciliationUC := usecase.NewReconciliationUseCase(store.accounts, store.entries, store.ledger)

	outboxWorker := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: store.outbox,
		Publisher:  publisher,
		Observer:   appMetrics,
		Logger:     log,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
		Retention:  cfg.OutboxRetention,
	})
	a.workers = append(a.workers, func(ctx context.Context) { _ = outboxWorker.Start(ctx) })

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).OnLimit(appMetrics.RateLimited)
	a.workers = append(a.workers, func(ctx context.Context) {
		rateLimiter.RunCleanup(ctx, limiterSweepInterval, limiterMaxIdle)
	})

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC, transactionUC),
		TransferHandler:    handler.NewTransferHandler(transferUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		LedgerHandler:      handler.NewLedgerHandler(reconciliationUC),
		CatalogHandler:     handler.NewCatalogHandler(catalog),
		HealthHandler:      handler.NewHealthHandler(checks...),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        rateLimiter,
		HTTPMetrics:        middleware.NewHTTPMetrics(reg),
		MetricsGatherer:    reg,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:             log,
	}
	if cfg.AuthEnabled {
		routerCfg.TokenVerifier = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		routerCfg.AuthObserver = appMetrics
	} else {
		log.Warn().Msg("authentication disabled; every request is trusted")
	}

	a.handler = httpAdapter.NewRouter(routerCfg)
	return a, nil
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger, system domain.SystemAccounts) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		store := memory.NewStore()
		store.Seed(system, time.Now().UTC())
		log.Warn().Msg("using in-memory storage; data is lost on restart")

		return &storage{
			txManager:    store,
			accounts:     store.AccountRepository(),
			transactions: store.TransactionRepository(),
			entries:      store.EntryRepository(),
			catalog:      store,
			outbox:       store.OutboxRepository(),
			ledger:       store,
			probe:        handler.HealthCheck{Name: "memory", Probe: func(context.Context) error { return nil }},
		}, nil
	}

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return nil, err
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	defer cancel()

	pool, err := postgres.NewPoolWithConfig(connectCtx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
		LockTimeout: cfg.DatabaseLockTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	return &storage{
		txManager:    postgresRepo.NewTxManager(pool),
		accounts:     postgresRepo.NewAccountRepository(pool),
		transactions: postgresRepo.NewTransactionRepository(pool),
		entries:      postgresRepo.NewEntryRepository(pool),
		catalog:      postgresRepo.NewCatalogRepository(pool),
		outbox:       postgresRepo.NewOutboxRepository(pool),
		ledger:       postgresRepo.NewLedgerRepository(pool),
		probe:        handler.HealthCheck{Name: "postgres", Probe: pool.Ping},
		pool:         pool,
	}, nil
}

// connectRedis returns nil when Redis is not configured or unreachable.
func connectRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) *goredis.Client {
	if cfg.RedisURL == "" {
		log.Info().Msg("redis not configured")
		return nil
	}

	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable; running without cache and idempotency keys")
		return nil
	}

	log.Info().Msg("connected to redis")
	return client
}

func poolStatsWorker(pool *pgxpool.Pool, m *metrics.Metrics) func(context.Context) {
	return func(ctx context.Context) {
		ticker := time.NewTicker(poolStatsInterval)
		defer ticker.Stop()

		for {
			stat := pool.Stat()
			m.ObservePool(stat.TotalConns(), stat.IdleConns(), stat.AcquiredConns())

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}
}
