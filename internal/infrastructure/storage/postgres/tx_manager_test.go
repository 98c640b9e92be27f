package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Stiliyan26/Ticket-Master/internal/core/tx"
)

// stubTx implements pgx.Tx against in-memory counters so transaction
// control flow can be exercised without a database.
type stubTx struct {
	execs     []string
	commits   int
	rollbacks int
}

func (s *stubTx) Begin(ctx context.Context) (pgx.Tx, error) { return s, nil }

func (s *stubTx) Commit(ctx context.Context) error {
	s.commits++
	return nil
}

func (s *stubTx) Rollback(ctx context.Context) error {
	s.rollbacks++
	return nil
}

func (s *stubTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (s *stubTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }

func (s *stubTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (s *stubTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (s *stubTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	s.execs = append(s.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (s *stubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (s *stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func (s *stubTx) Conn() *pgx.Conn { return nil }

func ambientCtx(stub *stubTx) context.Context {
	return context.WithValue(context.Background(), txKey{}, &Tx{Tx: stub})
}

func TestRunAndCommit_CommitsOnSuccess(t *testing.T) {
	stub := &stubTx{}
	ctx := context.Background()

	err := runAndCommit(ctx, ctx, stub, func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatalf("runAndCommit failed: %v", err)
	}
	if stub.commits != 1 {
		t.Errorf("commits = %d, want 1", stub.commits)
	}
	if stub.rollbacks != 0 {
		t.Errorf("rollbacks = %d, want 0", stub.rollbacks)
	}
}

func TestRunAndCommit_RollsBackOnError(t *testing.T) {
	stub := &stubTx{}
	ctx := context.Background()
	boom := errors.New("write failed")

	err := runAndCommit(ctx, ctx, stub, func(ctx context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the function error", err)
	}
	if stub.rollbacks != 1 {
		t.Errorf("rollbacks = %d, want 1", stub.rollbacks)
	}
	if stub.commits != 0 {
		t.Errorf("commits = %d, want 0", stub.commits)
	}
}

func TestRunAndCommit_RollsBackOnPanic(t *testing.T) {
	stub := &stubTx{}
	ctx := context.Background()

	defer func() {
		if recover() == nil {
			t.Fatal("panic should propagate to the caller")
		}
		if stub.rollbacks != 1 {
			t.Errorf("rollbacks = %d, want 1 after panic", stub.rollbacks)
		}
		if stub.commits != 0 {
			t.Errorf("commits = %d, want 0 after panic", stub.commits)
		}
	}()

	_ = runAndCommit(ctx, ctx, stub, func(ctx context.Context) error {
		panic("handler blew up")
	})
}

func TestTransactional_NestedJoinsAmbientTx(t *testing.T) {
	stub := &stubTx{}
	m := &TxManager{}
	ctx := ambientCtx(stub)
	pgErr := &pgconn.PgError{Code: "23505"}

	calls := 0
	err := m.Transactional(ctx, tx.Op{Entity: "ticket", Verb: tx.VerbUpdate}, func(inner context.Context) error {
		calls++
		if m.GetTx(inner) == nil {
			t.Error("inner context lost the ambient transaction")
		}
		return pgErr
	})

	if calls != 1 {
		t.Fatalf("fn ran %d times, want 1", calls)
	}
	// The nested frame must not begin, commit, roll back, or classify;
	// the driver error escapes untouched for the outermost boundary.
	var got *pgconn.PgError
	if !errors.As(err, &got) || got != pgErr {
		t.Fatalf("err = %v, want the raw driver error", err)
	}
	if stub.commits != 0 || stub.rollbacks != 0 {
		t.Errorf("commits = %d, rollbacks = %d, want 0 and 0", stub.commits, stub.rollbacks)
	}
}

func TestRunInTransactionWithOptions_SavepointRollback(t *testing.T) {
	stub := &stubTx{}
	m := &TxManager{}
	ctx := ambientCtx(stub)
	boom := errors.New("nested frame failed")

	opts := DefaultTxOptions()
	opts.UseSavepoint = true

	err := m.RunInTransactionWithOptions(ctx, opts, func(ctx context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the function error", err)
	}

	var sawSavepoint, sawRollbackTo bool
	for _, sql := range stub.execs {
		if strings.HasPrefix(sql, "SAVEPOINT ") {
			sawSavepoint = true
		}
		if strings.HasPrefix(sql, "ROLLBACK TO SAVEPOINT ") {
			sawRollbackTo = true
		}
	}
	if !sawSavepoint || !sawRollbackTo {
		t.Errorf("execs = %v, want a savepoint and a rollback to it", stub.execs)
	}
	// The outer transaction survives the nested failure
	if stub.rollbacks != 0 {
		t.Errorf("rollbacks = %d, want 0", stub.rollbacks)
	}
}

func TestGetTx_HandleStaysWithItsContext(t *testing.T) {
	stub := &stubTx{}
	m := &TxManager{}

	base := context.Background()
	txCtx := context.WithValue(base, txKey{}, &Tx{Tx: stub})

	if m.GetTx(txCtx) == nil {
		t.Fatal("transaction context should carry the handle")
	}
	if m.GetTx(base) != nil {
		t.Error("parent context must not see the handle")
	}
	if !m.InTx(txCtx) || m.InTx(base) {
		t.Error("InTx disagrees with GetTx")
	}

	// A goroutine working from an unrelated context never observes
	// another request's transaction.
	leaked := make(chan bool)
	go func() {
		leaked <- m.GetTx(context.Background()) != nil
	}()
	if <-leaked {
		t.Error("handle leaked to an unrelated goroutine")
	}
}

func TestGetQuerier_PrefersAmbientTx(t *testing.T) {
	stub := &stubTx{}
	m := &TxManager{}
	ctx := ambientCtx(stub)

	q := m.GetQuerier(ctx)
	if q != Querier(stub) {
		t.Error("querier should be the ambient transaction")
	}
}
