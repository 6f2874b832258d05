package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes P2P transfers from service payments.
type TransactionKind string

const (
	KindTransfer TransactionKind = "transfer"
	KindPayment  TransactionKind = "payment"
	// KindDeposit funds a wallet from the settlement account when it opens.
	KindDeposit TransactionKind = "deposit"
)

// TransactionStatus is Pending until it reaches a terminal state.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// TransferState tracks how far the engine got with a request. Failures record
// the last state reached.
type TransferState string

const (
	StateValidated    TransferState = "validated"
	StateLimitChecked TransferState = "limit_checked"
	StateComputed     TransferState = "computed"
	StateDebited      TransferState = "debited"
	StateCredited     TransferState = "credited"
	StateCompleted    TransferState = "completed"
	StateFailed       TransferState = "failed"
)

// Transaction is an append-only record of a transfer or payment.
type Transaction struct {
	ID   string
	Code string
	Kind TransactionKind

	OriginAccountID       string
	DestinationAccountID  string
	DestinationIdentifier string
	DestinationName       string
	ServiceID             string

	Amount       decimal.Decimal
	Commission   decimal.Decimal
	Cashback     decimal.Decimal
	TotalDebited decimal.Decimal
	PointsEarned int64

	// OriginBalanceAfter is the origin balance once the transaction settled.
	OriginBalanceAfter decimal.Decimal

	Status        TransactionStatus
	FailureReason string
	Description   string

	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Validate checks the record invariants before it is appended.
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if t.DestinationAccountID != "" && t.OriginAccountID == t.DestinationAccountID {
		return ErrSameAccount
	}
	if t.Status == StatusCompleted && !t.TotalDebited.Equal(t.Amount.Add(t.Commission)) {
		return ErrInvalidAmount
	}
	return nil
}

// Complete moves a pending transaction to Completed.
func (t *Transaction) Complete(at time.Time) {
	t.Status = StatusCompleted
	t.CompletedAt = &at
}

// Fail moves a pending transaction to Failed with the state reached.
func (t *Transaction) Fail(state TransferState, reason error) {
	t.Status = StatusFailed
	t.FailureReason = string(state) + ": " + reason.Error()
}

// Touches reports whether the transaction moved money on accountID.
func (t *Transaction) Touches(accountID string) bool {
	return t.OriginAccountID == accountID || t.DestinationAccountID == accountID
}
