// Package ticket_repo provides the PostgreSQL ticket repository.
package ticket_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/core/types"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/ticket"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/storage/postgres"
)

const tableName = "tickets"

var selectCols = []string{
	"id", "created_at", "updated_at", "version",
	"status", "price", "held_at", "event_id", "seat_id", "booking_id",
}

// Repo implements ticket.Repository on PostgreSQL.
type Repo struct {
	txm   *postgres.TxManager
	batch *postgres.BatchInserter
}

// New creates the repository. A nil transaction manager is a wiring
// error and panics.
func New(txm *postgres.TxManager) *Repo {
	if txm == nil {
		panic("ticket_repo: nil TxManager")
	}
	return &Repo{
		txm:   txm,
		batch: postgres.NewBatchInserter(txm),
	}
}

var _ ticket.Repository = (*Repo)(nil)

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// CreateBatch bulk-inserts tickets over the COPY protocol.
func (r *Repo) CreateBatch(ctx context.Context, tickets []*ticket.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	rows := make([][]any, len(tickets))
	for i, t := range tickets {
		rows[i] = []any{
			t.ID, t.CreatedAt, t.UpdatedAt, t.Version,
			string(t.Status), t.Price, t.HeldAt, t.EventID, t.SeatID, t.BookingID,
		}
	}

	n, err := r.batch.CopyFromSlice(ctx, tableName, selectCols, rows)
	if err != nil {
		return fmt.Errorf("copy tickets: %w", err)
	}
	if n != int64(len(tickets)) {
		return fmt.Errorf("copy tickets: inserted %d of %d rows", n, len(tickets))
	}
	return nil
}

// FindForUpdate loads tickets with row locks, ordered by id so every
// chain acquires locks in the same order.
func (r *Repo) FindForUpdate(ctx context.Context, ids []id.ID) ([]*ticket.Ticket, error) {
	if !r.txm.InTx(ctx) {
		return nil, fmt.Errorf("FindForUpdate requires transaction context")
	}

	q := r.builder().
		Select(selectCols...).
		From(tableName).
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		Suffix("FOR UPDATE")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var tickets []*ticket.Ticket
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &tickets, sql, args...); err != nil {
		return nil, fmt.Errorf("find for update: %w", err)
	}
	return tickets, nil
}

// MarkHeld transitions the given rows to HELD.
func (r *Repo) MarkHeld(ctx context.Context, ids []id.ID, heldAt time.Time) error {
	return r.transition(ctx, ids, map[string]any{
		"status":     string(ticket.StatusHeld),
		"held_at":    heldAt,
		"booking_id": nil,
	})
}

// MarkSold transitions the given rows to SOLD and binds the booking.
func (r *Repo) MarkSold(ctx context.Context, ids []id.ID, bookingID id.ID) error {
	return r.transition(ctx, ids, map[string]any{
		"status":     string(ticket.StatusSold),
		"held_at":    nil,
		"booking_id": bookingID,
	})
}

// MarkAvailable reverts the given rows to AVAILABLE.
func (r *Repo) MarkAvailable(ctx context.Context, ids []id.ID) error {
	return r.transition(ctx, ids, map[string]any{
		"status":     string(ticket.StatusAvailable),
		"held_at":    nil,
		"booking_id": nil,
	})
}

// transition applies one batched UPDATE, bumping version per row.
func (r *Repo) transition(ctx context.Context, ids []id.ID, set map[string]any) error {
	if len(ids) == 0 {
		return nil
	}

	q := r.builder().
		Update(tableName).
		SetMap(set).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update tickets: %w", err)
	}
	if result.RowsAffected() != int64(len(ids)) {
		return fmt.Errorf("update tickets: changed %d of %d rows", result.RowsAffected(), len(ids))
	}
	return nil
}

// CountByEvent returns availability counts in one scan.
func (r *Repo) CountByEvent(ctx context.Context, eventID id.ID) (ticket.Counts, error) {
	sql := `
		SELECT COUNT(*) FILTER (WHERE status = 'AVAILABLE') AS available,
			   COUNT(*) AS total
		FROM tickets
		WHERE event_id = $1
	`

	var counts ticket.Counts
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, eventID).Scan(&counts.Available, &counts.Total)
	if err != nil {
		return ticket.Counts{}, fmt.Errorf("count by event: %w", err)
	}
	return counts, nil
}

// HasSold reports whether the event has at least one SOLD ticket.
func (r *Repo) HasSold(ctx context.Context, eventID id.ID) (bool, error) {
	q := r.builder().
		Select("1").
		From(tableName).
		Where(squirrel.Eq{"event_id": eventID}).
		Where(squirrel.Eq{"status": string(ticket.StatusSold)}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("has sold: %w", err)
	}
	return true, nil
}

// UpdatePriceForAvailable reprices AVAILABLE tickets of an event.
func (r *Repo) UpdatePriceForAvailable(ctx context.Context, eventID id.ID, price types.Money) (int64, error) {
	q := r.builder().
		Update(tableName).
		Set("price", price).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"event_id": eventID}).
		Where(squirrel.Eq{"status": string(ticket.StatusAvailable)})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("update prices: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteByEvent removes all tickets of an event.
func (r *Repo) DeleteByEvent(ctx context.Context, eventID id.ID) (int64, error) {
	q := r.builder().
		Delete(tableName).
		Where(squirrel.Eq{"event_id": eventID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete by event: %w", err)
	}
	return result.RowsAffected(), nil
}

// FindByEvent lists tickets of an event with pagination.
func (r *Repo) FindByEvent(ctx context.Context, eventID id.ID, page domain.Page) (domain.ListResult[*ticket.Ticket], error) {
	result := domain.ListResult[*ticket.Ticket]{
		Limit:  page.Limit,
		Offset: page.Offset,
	}

	querier := r.txm.GetQuerier(ctx)

	countQ := r.builder().
		Select("COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{"event_id": eventID})

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := postgres.OrderClause(page.OrderBy, "id", "created_at", "status", "price")
	if err != nil {
		return result, err
	}

	q := r.builder().
		Select(selectCols...).
		From(tableName).
		Where(squirrel.Eq{"event_id": eventID}).
		OrderBy(orderBy).
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("find by event: %w", err)
	}
	return result, nil
}

// FindByBooking returns the tickets referencing a booking.
func (r *Repo) FindByBooking(ctx context.Context, bookingID id.ID) ([]*ticket.Ticket, error) {
	q := r.builder().
		Select(selectCols...).
		From(tableName).
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var tickets []*ticket.Ticket
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &tickets, sql, args...); err != nil {
		return nil, fmt.Errorf("find by booking: %w", err)
	}
	return tickets, nil
}
