package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skypagos/ledger/internal/domain"
	"github.com/skypagos/ledger/internal/infrastructure/postgres/generated"
	"github.com/skypagos/ledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. Rows are
// never updated once written.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Append writes t inside tx. A taken code fails with domain.ErrDuplicateCode.
func (r *TransactionRepository) Append(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	return translateError(txQueries(tx).CreateTransaction(ctx, transactionParams(t)))
}

// AppendFailed writes a failed attempt in its own statement.
func (r *TransactionRepository) AppendFailed(ctx context.Context, t *domain.Transaction) error {
	if t.Status != domain.StatusFailed {
		return fmt.Errorf("%w: only failed transactions are appended outside a unit", domain.ErrInvalidRequest)
	}

	return translateError(r.queries.CreateTransaction(ctx, transactionParams(t)))
}

// FindByCode retrieves a transaction by its reference code.
func (r *TransactionRepository) FindByCode(ctx context.Context, code string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, translateError(err)
	}

	return rowToTransaction(row), nil
}

// History lists transactions where accountID is origin or destination,
// newest first.
func (r *TransactionRepository) History(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByAccount(ctx, generated.ListTransactionsByAccountParams{
		OriginAccountID: accountID,
		Limit:           int32(limit),
		Offset:          int32(offset),
	})
	if err != nil {
		return nil, translateError(err)
	}

	txns := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, rowToTransaction(row))
	}

	return txns, nil
}

func transactionParams(t *domain.Transaction) generated.CreateTransactionParams {
	return generated.CreateTransactionParams{
		ID:                    t.ID,
		Code:                  t.Code,
		Kind:                  string(t.Kind),
		OriginAccountID:       t.OriginAccountID,
		DestinationAccountID:  textOrNull(t.DestinationAccountID),
		DestinationIdentifier: t.DestinationIdentifier,
		DestinationName:       t.DestinationName,
		ServiceID:             textOrNull(t.ServiceID),
		Amount:                decimalToNumeric(t.Amount),
		Commission:            decimalToNumeric(t.Commission),
		Cashback:              decimalToNumeric(t.Cashback),
		TotalDebited:          decimalToNumeric(t.TotalDebited),
		PointsEarned:          t.PointsEarned,
		OriginBalanceAfter:    decimalToNumeric(t.OriginBalanceAfter),
		Status:                string(t.Status),
		FailureReason:         t.FailureReason,
		Description:           t.Description,
		CreatedAt:             timeToPgTimestamptz(t.CreatedAt),
		CompletedAt:           optionalTimestamptz(t.CompletedAt),
	}
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	var completedAt *time.Time
	if row.CompletedAt.Valid {
		t := row.CompletedAt.Time
		completedAt = &t
	}

	return &domain.Transaction{
		ID:                    row.ID,
		Code:                  row.Code,
		Kind:                  domain.TransactionKind(row.Kind),
		OriginAccountID:       row.OriginAccountID,
		DestinationAccountID:  row.DestinationAccountID.String,
		DestinationIdentifier: row.DestinationIdentifier,
		DestinationName:       row.DestinationName,
		ServiceID:             row.ServiceID.String,
		Amount:                numericToDecimal(row.Amount),
		Commission:            numericToDecimal(row.Commission),
		Cashback:              numericToDecimal(row.Cashback),
		TotalDebited:          numericToDecimal(row.TotalDebited),
		PointsEarned:          row.PointsEarned,
		OriginBalanceAfter:    numericToDecimal(row.OriginBalanceAfter),
		Status:                domain.TransactionStatus(row.Status),
		FailureReason:         row.FailureReason,
		Description:           row.Description,
		CreatedAt:             row.CreatedAt.Time,
		CompletedAt:           completedAt,
	}
}
