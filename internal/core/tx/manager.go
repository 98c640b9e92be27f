// Package tx provides transaction management abstractions.
// This package defines interfaces that decouple domain logic from specific
// database implementations, following the Dependency Inversion Principle.
package tx

import (
	"context"
)

// Verb names the kind of store operation a transaction performs.
// It is used to build readable messages when constraint violations
// are translated into business errors.
type Verb string

const (
	VerbCreate Verb = "create"
	VerbRead   Verb = "read"
	VerbUpdate Verb = "update"
	VerbRemove Verb = "remove"
)

// Op describes the logical operation a transaction wraps.
// Entity is the subject in singular form ("ticket", "booking").
type Op struct {
	Entity string
	Verb   Verb
}

// Manager defines the contract for transaction management.
// Implementations handle BEGIN, COMMIT, ROLLBACK, and nested transaction support.
//
// Domain services depend on this interface, not concrete implementations.
// The actual implementation lives in infrastructure/storage/postgres.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Transactional is RunInTransaction plus store-error translation.
	// Errors escaping fn that originate in the database driver are
	// classified into business errors using op for message context.
	// Nested calls join the ambient transaction and skip translation,
	// leaving it to the outermost caller.
	Transactional(ctx context.Context, op Op, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
// Use for queries that don't modify data (better performance, no locks).
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	// Attempts to modify data will fail.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
