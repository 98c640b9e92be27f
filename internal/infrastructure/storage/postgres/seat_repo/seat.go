// Package seat_repo provides the PostgreSQL seat repository.
package seat_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/seat"
	"github.com/Stiliyan26/Ticket-Master/internal/infrastructure/storage/postgres"
)

const tableName = "seats"

var selectCols = []string{
	"id", "created_at", "updated_at",
	"venue_id", "section", "row_label", "number",
}

// Repo implements seat.Repository on PostgreSQL.
type Repo struct {
	txm   *postgres.TxManager
	batch *postgres.BatchInserter
}

// New creates the repository. A nil transaction manager is a wiring
// error and panics.
func New(txm *postgres.TxManager) *Repo {
	if txm == nil {
		panic("seat_repo: nil TxManager")
	}
	return &Repo{
		txm:   txm,
		batch: postgres.NewBatchInserter(txm),
	}
}

var _ seat.Repository = (*Repo)(nil)

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// CreateBatch bulk-inserts seats over the COPY protocol.
func (r *Repo) CreateBatch(ctx context.Context, seats []*seat.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	rows := make([][]any, len(seats))
	for i, s := range seats {
		rows[i] = []any{
			s.ID, s.CreatedAt, s.UpdatedAt,
			s.VenueID, s.Section, s.Row, s.Number,
		}
	}

	n, err := r.batch.CopyFromSlice(ctx, tableName, selectCols, rows)
	if err != nil {
		return fmt.Errorf("copy seats: %w", err)
	}
	if n != int64(len(seats)) {
		return fmt.Errorf("copy seats: inserted %d of %d rows", n, len(seats))
	}
	return nil
}

// GetByID retrieves a seat.
func (r *Repo) GetByID(ctx context.Context, seatID id.ID) (*seat.Seat, error) {
	q := r.builder().
		Select(selectCols...).
		From(tableName).
		Where(squirrel.Eq{"id": seatID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s seat.Seat
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("seat", seatID.String())
		}
		return nil, fmt.Errorf("get seat: %w", err)
	}
	return &s, nil
}

// Update persists seat changes.
func (r *Repo) Update(ctx context.Context, s *seat.Seat) error {
	q := r.builder().
		Update(tableName).
		Set("section", s.Section).
		Set("row_label", s.Row).
		Set("number", s.Number).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update seat: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("seat", s.ID.String())
	}
	return nil
}

// Delete removes a seat.
func (r *Repo) Delete(ctx context.Context, seatID id.ID) error {
	q := r.builder().
		Delete(tableName).
		Where(squirrel.Eq{"id": seatID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete seat: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("seat", seatID.String())
	}
	return nil
}

// IDsByVenue returns all seat ids of a venue ordered by position.
func (r *Repo) IDsByVenue(ctx context.Context, venueID id.ID) ([]id.ID, error) {
	q := r.builder().
		Select("id").
		From(tableName).
		Where(squirrel.Eq{"venue_id": venueID}).
		OrderBy("section", "row_label", "number")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ids by venue: %w", err)
	}
	defer rows.Close()

	var ids []id.ID
	for rows.Next() {
		var seatID id.ID
		if err := rows.Scan(&seatID); err != nil {
			return nil, fmt.Errorf("scan seat id: %w", err)
		}
		ids = append(ids, seatID)
	}
	return ids, rows.Err()
}

// ListByVenue returns a venue's seats with pagination.
func (r *Repo) ListByVenue(ctx context.Context, venueID id.ID, page domain.Page) (domain.ListResult[*seat.Seat], error) {
	result := domain.ListResult[*seat.Seat]{
		Limit:  page.Limit,
		Offset: page.Offset,
	}

	querier := r.txm.GetQuerier(ctx)

	countQ := r.builder().
		Select("COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{"venue_id": venueID})

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := postgres.OrderClause(page.OrderBy, "id", "created_at", "section", "row_label", "number")
	if err != nil {
		return result, err
	}

	q := r.builder().
		Select(selectCols...).
		From(tableName).
		Where(squirrel.Eq{"venue_id": venueID}).
		OrderBy(orderBy).
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list by venue: %w", err)
	}
	return result, nil
}
