// Package venue_repo provides the PostgreSQL venue repository.
package venue_repo

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
	"github.com/Stiliyan26/Ticket-Master/internal/domain/venue"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/storage/postgres"
)

const tableName = "venues"

var selectCols = []string{
	"id", "created_at", "updated_at",
	"name", "address",
}

// Repo implements venue.Repository on PostgreSQL.
// It also satisfies event.Venues: Lock is GetForUpdate with the result
// discarded.
type Repo struct {
	txm *postgres.TxManager
}

// New creates the repository. A nil transaction manager is a wiring
// error and panics.
func New(txm *postgres.TxManager) *Repo {
	if txm == nil {
		panic("venue_repo: nil TxManager")
	}
	return &Repo{txm: txm}
}

var (
	_ venue.Repository = (*Repo)(nil)
	_ event.Venues     = (*Repo)(nil)
)

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a venue.
func (r *Repo) Create(ctx context.Context, v *venue.Venue) error {
	q := r.builder().
		Insert(tableName).
		Columns(selectCols...).
		Values(v.ID, v.CreatedAt, v.UpdatedAt, v.Name, v.Address)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert venue: %w", err)
	}
	return nil
}

// GetByID retrieves a venue.
func (r *Repo) GetByID(ctx context.Context, venueID id.ID) (*venue.Venue, error) {
	return r.get(ctx, venueID, false)
}

// GetForUpdate retrieves a venue with a row lock.
func (r *Repo) GetForUpdate(ctx context.Context, venueID id.ID) (*venue.Venue, error) {
	if !r.txm.InTx(ctx) {
		return nil, fmt.Errorf("GetForUpdate requires transaction context")
	}
	return r.get(ctx, venueID, true)
}

// Lock takes the venue's row lock.
func (r *Repo) Lock(ctx context.Context, venueID id.ID) error {
	_, err := r.GetForUpdate(ctx, venueID)
	return err
}

func (r *Repo) get(ctx context.Context, venueID id.ID, lock bool) (*venue.Venue, error) {
	q := r.builder().
		Select(selectCols...).
		From(tableName).
		Where(squirrel.Eq{"id": venueID})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var v venue.Venue
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &v, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("venue", venueID.String())
		}
		return nil, fmt.Errorf("get venue: %w", err)
	}
	return &v, nil
}

// Update persists venue changes.
func (r *Repo) Update(ctx context.Context, v *venue.Venue) error {
	q := r.builder().
		Update(tableName).
		Set("name", v.Name).
		Set("address", v.Address).
		Set("updated_at", v.UpdatedAt).
		Where(squirrel.Eq{"id": v.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update venue: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("venue", v.ID.String())
	}
	return nil
}

// Delete removes a venue.
func (r *Repo) Delete(ctx context.Context, venueID id.ID) error {
	q := r.builder().
		Delete(tableName).
		Where(squirrel.Eq{"id": venueID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete venue: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("venue", venueID.String())
	}
	return nil
}

// Exists checks whether a venue exists.
func (r *Repo) Exists(ctx context.Context, venueID id.ID) (bool, error) {
	q := r.builder().
		Select("1").
		From(tableName).
		Where(squirrel.Eq{"id": venueID}).
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

// List returns venues with pagination.
func (r *Repo) List(ctx context.Context, page domain.Page) (domain.ListResult[*venue.Venue], error) {
	result := domain.ListResult[*venue.Venue]{
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

	orderBy, err := postgres.OrderClause(page.OrderBy, "id", "created_at", "name")
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
