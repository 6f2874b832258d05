package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one balance movement of a transaction. The entries of a
// transaction sum to zero.
type Entry struct {
	CreatedAt              time.Time
	ID                     string
	AccountID              string
	TransactionID          string
	Amount                 decimal.Decimal
	AccountPreviousBalance decimal.Decimal
	AccountCurrentBalance  decimal.Decimal
	AccountVersion         int64
}
