package event

import (
	"context"

	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/core/types"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
)

// Repository defines persistence operations for events.
type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, eventID id.ID) (*Event, error)

	// GetForUpdate loads an event with a row lock.
	// Requires an ambient transaction.
	GetForUpdate(ctx context.Context, eventID id.ID) (*Event, error)

	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, eventID id.ID) error
	Exists(ctx context.Context, eventID id.ID) (bool, error)
	List(ctx context.Context, page domain.Page) (domain.ListResult[*Event], error)
}

// Tickets is the slice of the reservation engine events need.
type Tickets interface {
	CreateForEvent(ctx context.Context, eventID id.ID, basePrice types.Money, seatIDs []id.ID) error
	HasSold(ctx context.Context, eventID id.ID) (bool, error)
	UpdatePricesByEvent(ctx context.Context, eventID id.ID, price types.Money) (int64, error)
	RemoveByEvent(ctx context.Context, eventID id.ID) (int64, error)
}

// Venues locks and checks venues without pulling in the venue package.
type Venues interface {
	Exists(ctx context.Context, venueID id.ID) (bool, error)

	// Lock takes the venue's row lock so its seat set cannot change
	// while tickets are generated from it.
	// Requires an ambient transaction.
	Lock(ctx context.Context, venueID id.ID) error
}

// Seats lists a venue's seats for ticket generation.
type Seats interface {
	IDsByVenue(ctx context.Context, venueID id.ID) ([]id.ID, error)
}
