package venue

import (
	"context"

	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
)

// Repository defines persistence operations for venues.
type Repository interface {
	Create(ctx context.Context, v *Venue) error
	GetByID(ctx context.Context, venueID id.ID) (*Venue, error)

	// GetForUpdate loads a venue with a row lock. Used to freeze the
	// seat set while tickets are regenerated for it.
	// Requires an ambient transaction.
	GetForUpdate(ctx context.Context, venueID id.ID) (*Venue, error)

	Update(ctx context.Context, v *Venue) error
	Delete(ctx context.Context, venueID id.ID) error
	Exists(ctx context.Context, venueID id.ID) (bool, error)
	List(ctx context.Context, page domain.Page) (domain.ListResult[*Venue], error)
}
