package booking

import (
	"context"

	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/ticket"
)

// Repository defines persistence operations for bookings.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, bookingID id.ID) (*Booking, error)

	// GetForUpdate loads a booking with a row lock.
	// Requires an ambient transaction.
	GetForUpdate(ctx context.Context, bookingID id.ID) (*Booking, error)

	// Update persists changes with optimistic locking on version.
	Update(ctx context.Context, b *Booking) error

	// ListByUser returns a user's bookings with pagination.
	ListByUser(ctx context.Context, userID string, page domain.Page) (domain.ListResult[*Booking], error)
}

// Reservations is the slice of the reservation engine bookings need.
type Reservations interface {
	Hold(ctx context.Context, ticketIDs []id.ID) ([]*ticket.Ticket, error)

	// FinalizePurchase sells the held tickets to the booking and
	// returns the updated rows.
	FinalizePurchase(ctx context.Context, ticketIDs []id.ID, bookingID id.ID) ([]*ticket.Ticket, error)

	Release(ctx context.Context, ticketIDs []id.ID) error
	FindByBooking(ctx context.Context, bookingID id.ID) ([]*ticket.Ticket, error)
}
