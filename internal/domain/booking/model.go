// Package booking provides booking creation and cancellation on top of
// the reservation engine.
package booking

import (
	"context"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/entity"
	"github.com/Stiliyan26/Ticket-Master/internal/core/types"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/ticket"
)

// Status represents the booking state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Booking records an atomic purchase of a set of tickets by one user.
type Booking struct {
	entity.Versioned

	// UserID is the purchaser, an opaque identifier from the token
	UserID string `db:"user_id" json:"userId"`

	// TotalPrice is the sum of ticket prices at hold time
	TotalPrice types.Money `db:"total_price" json:"totalPrice"`

	// Status is PENDING, CONFIRMED or CANCELLED
	Status Status `db:"status" json:"status"`

	// Tickets are the tickets this booking purchased. Populated by the
	// service on create and on reads, not stored on the booking row.
	Tickets []*ticket.Ticket `db:"-" json:"tickets,omitempty"`
}

// New creates a booking for the given user.
func New(userID string, totalPrice types.Money, status Status) *Booking {
	return &Booking{
		Versioned:  entity.NewVersioned(),
		UserID:     userID,
		TotalPrice: totalPrice,
		Status:     status,
	}
}

// Validate implements entity.Validatable.
func (b *Booking) Validate(ctx context.Context) error {
	if b.UserID == "" {
		return apperror.NewValidation("user is required").
			WithDetail("field", "userId")
	}
	if b.TotalPrice.IsNegative() {
		return apperror.NewValidation("total price must not be negative").
			WithDetail("field", "totalPrice")
	}
	switch b.Status {
	case StatusPending, StatusConfirmed, StatusCancelled:
	default:
		return apperror.NewValidation("invalid booking status").
			WithDetail("status", string(b.Status))
	}
	return nil
}

var _ entity.Validatable = (*Booking)(nil)
