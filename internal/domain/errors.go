package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Request errors
	ErrInvalidRequest    = errors.New("invalid request")
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be positive with at most 2 decimals", ErrInvalidRequest)
	ErrAmountTooSmall    = fmt.Errorf("%w: amount below minimum allowed", ErrInvalidRequest)
	ErrAmountTooLarge    = fmt.Errorf("%w: amount exceeds maximum allowed", ErrInvalidRequest)
	ErrInvalidIdentifier = fmt.Errorf("%w: destination identifier is malformed", ErrInvalidRequest)
	ErrSameAccount       = fmt.Errorf("%w: cannot transfer to same account", ErrInvalidRequest)
	ErrSystemDestination = fmt.Errorf("%w: destination is not a wallet account", ErrInvalidRequest)
	ErrSystemOrigin      = fmt.Errorf("%w: origin is not a wallet account", ErrInvalidRequest)

	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountInactive = errors.New("account is inactive")
	ErrAccountNotOwned = errors.New("account does not belong to caller")

	// Funds and limits, see InsufficientFundsError and LimitExceededError
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrLimitExceeded     = errors.New("spending limit exceeded")

	// Catalog errors
	ErrServiceNotFound = errors.New("service not found")
	ErrServiceInactive = errors.New("service is inactive")

	// Ledger errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateCode       = errors.New("duplicate transaction code")
	ErrReferenceMismatch   = errors.New("reference already used by a different operation")

	// Storage errors
	ErrConflict           = errors.New("concurrent update conflict")
	ErrTimeout            = errors.New("operation timed out")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// InsufficientFundsError reports the balance seen under lock and the total the
// operation needed.
type InsufficientFundsError struct {
	Balance  decimal.Decimal
	Required decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %s, required %s", e.Balance.StringFixed(2), e.Required.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// LimitScope names the spend counter that rejected a debit.
type LimitScope string

const (
	LimitScopeDaily   LimitScope = "daily"
	LimitScopeMonthly LimitScope = "monthly"
)

// LimitExceededError reports which limit would be crossed.
type LimitExceededError struct {
	Scope     LimitScope
	Limit     decimal.Decimal
	Attempted decimal.Decimal
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s limit exceeded: limit %s, attempted %s", e.Scope, e.Limit.StringFixed(2), e.Attempted.StringFixed(2))
}

func (e *LimitExceededError) Unwrap() error { return ErrLimitExceeded }

// IsRetryable reports whether an atomic unit that failed with err may be
// rerun from scratch. A duplicate generated code is retried with a new code.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrDuplicateCode)
}
