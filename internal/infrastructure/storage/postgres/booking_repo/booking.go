// Package booking_repo provides the PostgreSQL booking repository.
package booking_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/booking"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/storage/postgres"
)

const tableName = "bookings"

var selectCols = []string{
	"id", "created_at", "updated_at", "version",
	"user_id", "total_price", "status",
}

// Repo implements booking.Repository on PostgreSQL.
type Repo struct {
	txm *postgres.TxManager
}

// New creates the repository. A nil transaction manager is a wiring
// error and panics.
func New(txm *postgres.TxManager) *Repo {
	if txm == nil {
		panic("booking_repo: nil TxManager")
	}
	return &Repo{txm: txm}
}

var _ booking.Repository = (*Repo)(nil)

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a booking.
func (r *Repo) Create(ctx context.Context, b *booking.Booking) error {
	q := r.builder().
		Insert(tableName).
		Columns(selectCols...).
		Values(b.ID, b.CreatedAt, b.UpdatedAt, b.Version, b.UserID, b.TotalPrice, string(b.Status))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking.
func (r *Repo) GetByID(ctx context.Context, bookingID id.ID) (*booking.Booking, error) {
	return r.get(ctx, bookingID, false)
}

// GetForUpdate retrieves a booking with a row lock.
func (r *Repo) GetForUpdate(ctx context.Context, bookingID id.ID) (*booking.Booking, error) {
	if !r.txm.InTx(ctx) {
		return nil, fmt.Errorf("GetForUpdate requires transaction context")
	}
	return r.get(ctx, bookingID, true)
}

func (r *Repo) get(ctx context.Context, bookingID id.ID, lock bool) (*booking.Booking, error) {
	q := r.builder().
		Select(selectCols...).
		From(tableName).
		Where(squirrel.Eq{"id": bookingID})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b booking.Booking
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("booking", bookingID.String())
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

// Update persists changes with optimistic locking on version.
func (r *Repo) Update(ctx context.Context, b *booking.Booking) error {
	q := r.builder().
		Update(tableName).
		Set("user_id", b.UserID).
		Set("total_price", b.TotalPrice).
		Set("status", string(b.Status)).
		Set("updated_at", b.UpdatedAt).
		Set("version", b.Version).
		Where(squirrel.Eq{"id": b.ID}).
		Where(squirrel.Eq{"version": b.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("booking", b.ID.String())
	}
	return nil
}

// ListByUser returns a user's bookings with pagination.
func (r *Repo) ListByUser(ctx context.Context, userID string, page domain.Page) (domain.ListResult[*booking.Booking], error) {
	result := domain.ListResult[*booking.Booking]{
		Limit:  page.Limit,
		Offset: page.Offset,
	}

	querier := r.txm.GetQuerier(ctx)

	countQ := r.builder().
		Select("COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{"user_id": userID})

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := postgres.OrderClause(page.OrderBy, "id", "created_at", "status", "total_price")
	if err != nil {
		return result, err
	}

	q := r.builder().
		Select(selectCols...).
		From(tableName).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy(orderBy).
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list by user: %w", err)
	}
	return result, nil
}
