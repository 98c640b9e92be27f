package seat

import (
	"context"

	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
)

// Repository defines persistence operations for seats.
type Repository interface {
	// CreateBatch bulk-inserts seats. Requires an ambient transaction.
	CreateBatch(ctx context.Context, seats []*Seat) error

	GetByID(ctx context.Context, seatID id.ID) (*Seat, error)
	Update(ctx context.Context, s *Seat) error
	Delete(ctx context.Context, seatID id.ID) error

	// IDsByVenue returns all seat ids of a venue. Used by ticket
	// generation.
	IDsByVenue(ctx context.Context, venueID id.ID) ([]id.ID, error)

	// ListByVenue returns a venue's seats with pagination.
	ListByVenue(ctx context.Context, venueID id.ID, page domain.Page) (domain.ListResult[*Seat], error)
}

// VenueDirectory answers existence checks against the venue store.
type VenueDirectory interface {
	Exists(ctx context.Context, venueID id.ID) (bool, error)
}
