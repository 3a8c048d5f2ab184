package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deicod/ermblog-console/internal/domain"
)

// mapError converts driver errors to domain errors.
// context.DeadlineExceeded and context.Canceled pass through.
func mapError(err error, name string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("snapshot %s: %w", name, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("snapshot %s: %w", name, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("snapshot %s: %w", name, domain.ErrAlreadyExists)
		case "23514": // check_violation
			return fmt.Errorf("snapshot %s: %w", name, domain.ErrValidation)
		}
	}

	return fmt.Errorf("snapshot %s: %w", name, err)
}
