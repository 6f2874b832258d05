package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultLedgerTimezone is the calendar spend counters roll over in
	DefaultLedgerTimezone = "America/La_Paz"

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultCatalogCacheTTL bounds how stale cached pricing may be
	DefaultCatalogCacheTTL = time.Minute

	// IdempotencyInFlight is the stored value while the first request for a
	// key is still running
	IdempotencyInFlight = "processing"
)
