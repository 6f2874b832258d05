package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skypagos/ledger/internal/domain"
)

// transactionsCodeKey is the unique constraint on transactions.code.
const transactionsCodeKey = "transactions_code_key"

// translateError maps driver errors into the domain taxonomy. Errors that are
// already domain errors pass through.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			// serialization_failure, deadlock_detected, lock_not_available
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Message)
		case "23505":
			if pgErr.ConstraintName == transactionsCodeKey {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, pgErr.Detail)
			}
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Detail)
		case "57014":
			return fmt.Errorf("%w: %s", domain.ErrTimeout, pgErr.Message)
		}
		if len(pgErr.Code) == 5 && pgErr.Code[:2] == "08" {
			return fmt.Errorf("%w: %s", domain.ErrStorageUnavailable, pgErr.Message)
		}
		return err
	}

	if pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	return err
}
