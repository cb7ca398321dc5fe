package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidtube/backend/internal/apperr"
)

// Postgres error codes translated at the repository boundary so callers only
// ever see the apperr taxonomy.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translateError converts pgx-level failures into taxonomy sentinels. Errors
// it does not recognize pass through unchanged for the caller to wrap.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.ErrConflict
		case pgForeignKeyViolation:
			return apperr.ErrNotFound
		case pgCheckViolation:
			return apperr.ErrInvalidArgument
		}
	}

	return err
}
