package ticket

import (
	"context"
	"time"

	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/core/types"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
)

// Counts holds ticket availability numbers for one event.
type Counts struct {
	Available int64 `json:"available"`
	Total     int64 `json:"total"`
}

// Repository defines persistence operations for tickets.
// Implemented in infrastructure/storage/postgres/ticket_repo.
type Repository interface {
	// CreateBatch bulk-inserts tickets. Requires an ambient transaction.
	CreateBatch(ctx context.Context, tickets []*Ticket) error

	// FindForUpdate loads tickets by id with row locks, ordered by id
	// ascending so concurrent holders acquire locks in the same order.
	// Requires an ambient transaction.
	FindForUpdate(ctx context.Context, ids []id.ID) ([]*Ticket, error)

	// MarkHeld transitions the given rows to HELD in one statement.
	MarkHeld(ctx context.Context, ids []id.ID, heldAt time.Time) error

	// MarkSold transitions the given rows to SOLD and binds the booking.
	MarkSold(ctx context.Context, ids []id.ID, bookingID id.ID) error

	// MarkAvailable reverts the given rows to AVAILABLE, clearing
	// held_at and booking_id.
	MarkAvailable(ctx context.Context, ids []id.ID) error

	// CountByEvent returns availability counts for an event.
	CountByEvent(ctx context.Context, eventID id.ID) (Counts, error)

	// HasSold reports whether the event has at least one SOLD ticket.
	HasSold(ctx context.Context, eventID id.ID) (bool, error)

	// UpdatePriceForAvailable reprices all AVAILABLE tickets of an event.
	// Returns the number of rows changed.
	UpdatePriceForAvailable(ctx context.Context, eventID id.ID, price types.Money) (int64, error)

	// DeleteByEvent removes all tickets of an event.
	DeleteByEvent(ctx context.Context, eventID id.ID) (int64, error)

	// FindByEvent lists tickets of an event with pagination.
	FindByEvent(ctx context.Context, eventID id.ID, page domain.Page) (domain.ListResult[*Ticket], error)

	// FindByBooking returns the tickets referencing a booking.
	FindByBooking(ctx context.Context, bookingID id.ID) ([]*Ticket, error)
}

// EventDirectory answers existence checks against the event store.
// Kept minimal so the reservation engine does not depend on the event
// package (which depends on this one).
type EventDirectory interface {
	Exists(ctx context.Context, eventID id.ID) (bool, error)
}
