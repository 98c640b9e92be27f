package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/tx"
	"github.com/Stiliyan26/Ticket-Master/pkg/logger"
)

// PostgreSQL SQLSTATE codes handled by MapError.
const (
	sqlstateUniqueViolation     = "23505"
	sqlstateForeignKeyViolation = "23503"
	sqlstateNotNullViolation    = "23502"
	sqlstateLockNotAvailable    = "55P03"
	sqlstateSerializationFail   = "40001"
	sqlstateDeadlockDetected    = "40P01"
	sqlstateQueryCanceled       = "57014"
)

// MapError translates a database driver error into a business error.
// Errors that are already classified pass through untouched, so nested
// transaction boundaries never re-wrap an inner classification.
// Non-driver errors are returned unchanged.
func MapError(ctx context.Context, err error, op tx.Op) error {
	if err == nil {
		return nil
	}

	// Already classified upstream, keep the first classification
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case sqlstateUniqueViolation:
		return apperror.NewDuplicate(opMessage(op, "already exists")).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)

	case sqlstateForeignKeyViolation:
		return apperror.NewConflict(opMessage(op, "references a missing or still-referenced record")).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)

	case sqlstateNotNullViolation:
		return apperror.NewValidation(fmt.Sprintf("Cannot %s %s: required field %q is missing", op.Verb, op.Entity, pgErr.ColumnName)).
			WithCause(err)

	case sqlstateLockNotAvailable, sqlstateSerializationFail, sqlstateDeadlockDetected, sqlstateQueryCanceled:
		return apperror.NewTransient(fmt.Sprintf("Could not %s %s: the record is busy, please retry", op.Verb, op.Entity)).
			WithDetail("sqlstate", pgErr.Code).
			WithCause(err)
	}

	// Class 08 covers connection failures, retryable from scratch
	if strings.HasPrefix(pgErr.Code, "08") {
		return apperror.NewTransient(fmt.Sprintf("Could not %s %s: database connection lost, please retry", op.Verb, op.Entity)).
			WithDetail("sqlstate", pgErr.Code).
			WithCause(err)
	}

	// Unknown driver error: log the raw detail, hide it from the client
	logger.Error(ctx, "unclassified database error",
		"sqlstate", pgErr.Code,
		"entity", op.Entity,
		"verb", string(op.Verb),
		"error", err,
	)
	return apperror.NewInternal(err)
}

func opMessage(op tx.Op, suffix string) string {
	entity := op.Entity
	if entity == "" {
		entity = "record"
	}
	return fmt.Sprintf("Cannot %s %s: %s %s", op.Verb, entity, entity, suffix)
}
