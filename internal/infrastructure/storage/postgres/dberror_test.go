package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/tx"
)

func TestMapError_Classification(t *testing.T) {
	ctx := context.Background()
	op := tx.Op{Entity: "ticket", Verb: tx.VerbCreate}

	tests := []struct {
		name     string
		sqlstate string
		wantCode string
	}{
		{"UniqueViolation", "23505", apperror.CodeDuplicate},
		{"ForeignKeyViolation", "23503", apperror.CodeConflict},
		{"NotNullViolation", "23502", apperror.CodeValidation},
		{"LockNotAvailable", "55P03", apperror.CodeTransient},
		{"SerializationFailure", "40001", apperror.CodeTransient},
		{"DeadlockDetected", "40P01", apperror.CodeTransient},
		{"QueryCanceled", "57014", apperror.CodeTransient},
		{"ConnectionFailure", "08006", apperror.CodeTransient},
		{"UnknownSQLState", "2200G", apperror.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: tt.sqlstate, ConstraintName: "tickets_event_seat_key"}
			got := MapError(ctx, pgErr, op)

			appErr, ok := apperror.AsAppError(got)
			if !ok {
				t.Fatalf("MapError returned %T, want *apperror.AppError", got)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", appErr.Code, tt.wantCode)
			}
		})
	}
}

func TestMapError_UniqueViolationMessage(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "tickets_event_seat_key"}
	got := MapError(context.Background(), pgErr, tx.Op{Entity: "ticket", Verb: tx.VerbCreate})

	appErr, _ := apperror.AsAppError(got)
	want := "Cannot create ticket: ticket already exists"
	if appErr.Message != want {
		t.Errorf("Message = %q, want %q", appErr.Message, want)
	}
	if appErr.Details["constraint"] != "tickets_event_seat_key" {
		t.Errorf("Details[constraint] = %v", appErr.Details["constraint"])
	}
}

func TestMapError_PassThrough(t *testing.T) {
	ctx := context.Background()
	op := tx.Op{Entity: "booking", Verb: tx.VerbUpdate}

	t.Run("Nil", func(t *testing.T) {
		if got := MapError(ctx, nil, op); got != nil {
			t.Errorf("MapError(nil) = %v, want nil", got)
		}
	})

	t.Run("AlreadyClassified", func(t *testing.T) {
		var inner error = apperror.NewConflict("Tickets are not available")
		if got := MapError(ctx, inner, op); got != inner {
			t.Errorf("classified error should pass through untouched, got %v", got)
		}
	})

	t.Run("NonDriverError", func(t *testing.T) {
		plain := errors.New("context deadline exceeded")
		if got := MapError(ctx, plain, op); got != plain {
			t.Errorf("non-driver error should pass through untouched, got %v", got)
		}
	})
}
