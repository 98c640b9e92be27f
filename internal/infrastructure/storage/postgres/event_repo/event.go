// Package event_repo provides the PostgreSQL event repository.
package event_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/event"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/storage/postgres"
)

const tableName = "events"

var selectCols = []string{
	"id", "created_at", "updated_at",
	"name", "date", "base_price", "status", "venue_id",
}

// Repo implements event.Repository on PostgreSQL.
type Repo struct {
	txm *postgres.TxManager
}

// New creates the repository. A nil transaction manager is a wiring
// error and panics.
func New(txm *postgres.TxManager) *Repo {
	if txm == nil {
		panic("event_repo: nil TxManager")
	}
	return &Repo{txm: txm}
}

var _ event.Repository = (*Repo)(nil)

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts an event.
func (r *Repo) Create(ctx context.Context, e *event.Event) error {
	q := r.builder().
		Insert(tableName).
		Columns(selectCols...).
		Values(e.ID, e.CreatedAt, e.UpdatedAt, e.Name, e.Date, e.BasePrice, string(e.Status), e.VenueID)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByID retrieves an event.
func (r *Repo) GetByID(ctx context.Context, eventID id.ID) (*event.Event, error) {
	return r.get(ctx, eventID, false)
}

// GetForUpdate retrieves an event with a row lock.
func (r *Repo) GetForUpdate(ctx context.Context, eventID id.ID) (*event.Event, error) {
	if !r.txm.InTx(ctx) {
		return nil, fmt.Errorf("GetForUpdate requires transaction context")
	}
	return r.get(ctx, eventID, true)
}

func (r *Repo) get(ctx context.Context, eventID id.ID, lock bool) (*event.Event, error) {
	q := r.builder().
		Select(selectCols...).
		From(tableName).
		Where(squirrel.Eq{"id": eventID})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var e event.Event
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("event", eventID.String())
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// Update persists event changes.
func (r *Repo) Update(ctx context.Context, e *event.Event) error {
	q := r.builder().
		Update(tableName).
		Set("name", e.Name).
		Set("date", e.Date).
		Set("base_price", e.BasePrice).
		Set("status", string(e.Status)).
		Set("venue_id", e.VenueID).
		Set("updated_at", e.UpdatedAt).
		Where(squirrel.Eq{"id": e.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("event", e.ID.String())
	}
	return nil
}

// Delete removes an event; its tickets go with it via cascade.
func (r *Repo) Delete(ctx context.Context, eventID id.ID) error {
	q := r.builder().
		Delete(tableName).
		Where(squirrel.Eq{"id": eventID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("event", eventID.String())
	}
	return nil
}

// Exists checks whether an event exists.
func (r *Repo) Exists(ctx context.Context, eventID id.ID) (bool, error) {
	q := r.builder().
		Select("1").
		From(tableName).
		Where(squirrel.Eq{"id": eventID}).
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
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}

// List returns events with pagination.
func (r *Repo) List(ctx context.Context, page domain.Page) (domain.ListResult[*event.Event], error) {
	result := domain.ListResult[*event.Event]{
		Limit:  page.Limit,
		Offset: page.Offset,
	}

	querier := r.txm.GetQuerier(ctx)

	countSQL, countArgs, err := r.builder().
		Select("COUNT(*)").
		From(tableName).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := postgres.OrderClause(page.OrderBy, "id", "created_at", "name", "date", "status")
	if err != nil {
		return result, err
	}

	q := r.builder().
		Select(selectCols...).
		From(tableName).
		OrderBy(orderBy).
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}
	return result, nil
}
