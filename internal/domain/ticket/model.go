// Package ticket provides the reservation engine: the ticket lifecycle
// state machine (AVAILABLE -> HELD -> SOLD) and its bulk operations.
package ticket

import (
	"context"
	"time"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/entity"
	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/core/types"
)

// Status represents the lifecycle state of a ticket.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusHeld      Status = "HELD"
	StatusSold      Status = "SOLD"
)

// Ticket represents one sellable seat at one event.
// One row exists per (event, seat) pair, enforced by a unique constraint.
type Ticket struct {
	entity.Versioned

	// Status is the lifecycle state (AVAILABLE, HELD, SOLD)
	Status Status `db:"status" json:"status"`

	// Price in the event's currency, NUMERIC(12,2)
	Price types.Money `db:"price" json:"price"`

	// HeldAt is set while the ticket is HELD, nil otherwise
	HeldAt *time.Time `db:"held_at" json:"heldAt,omitempty"`

	// References
	EventID   id.ID  `db:"event_id" json:"eventId"`
	SeatID    id.ID  `db:"seat_id" json:"seatId"`
	BookingID *id.ID `db:"booking_id" json:"bookingId,omitempty"`
}

// New creates an AVAILABLE ticket for the given event and seat.
func New(eventID, seatID id.ID, price types.Money) *Ticket {
	return &Ticket{
		Versioned: entity.NewVersioned(),
		Status:    StatusAvailable,
		Price:     price,
		EventID:   eventID,
		SeatID:    seatID,
	}
}

// Validate implements entity.Validatable.
func (t *Ticket) Validate(ctx context.Context) error {
	if id.IsNil(t.EventID) {
		return apperror.NewValidation("event is required").
			WithDetail("field", "eventId")
	}
	if id.IsNil(t.SeatID) {
		return apperror.NewValidation("seat is required").
			WithDetail("field", "seatId")
	}
	if t.Price.IsNegative() {
		return apperror.NewValidation("price must not be negative").
			WithDetail("field", "price")
	}
	switch t.Status {
	case StatusAvailable, StatusHeld, StatusSold:
	default:
		return apperror.NewValidation("invalid ticket status").
			WithDetail("status", string(t.Status))
	}
	return nil
}

var _ entity.Validatable = (*Ticket)(nil)
