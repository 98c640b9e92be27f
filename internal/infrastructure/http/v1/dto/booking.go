package dto

import (
	"time"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/booking"
)

// CreateBookingRequest is the body for booking creation. The user is
// taken from the bearer token, not the body.
type CreateBookingRequest struct {
	TicketIDs []string `json:"ticketIds" binding:"required"`
}

// ParsedTicketIDs converts the raw ids.
func (r CreateBookingRequest) ParsedTicketIDs() ([]id.ID, error) {
	ids := make([]id.ID, len(r.TicketIDs))
	for i, raw := range r.TicketIDs {
		parsed, err := id.Parse(raw)
		if err != nil {
			return nil, apperror.NewValidation("invalid ticket id").
				WithDetail("ticketId", raw)
		}
		ids[i] = parsed
	}
	return ids, nil
}

// BookingResponse is the wire shape of a booking.
type BookingResponse struct {
	ID         string           `json:"id"`
	UserID     string           `json:"userId"`
	TotalPrice string           `json:"totalPrice"`
	Status     string           `json:"status"`
	Tickets    []TicketResponse `json:"tickets,omitempty"`
	Version    int              `json:"version"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// FromBooking maps a booking onto its response, tickets included when
// the service attached them.
func FromBooking(b *booking.Booking) BookingResponse {
	resp := BookingResponse{
		ID:         b.ID.String(),
		UserID:     b.UserID,
		TotalPrice: b.TotalPrice.StringFixed(2),
		Status:     string(b.Status),
		Version:    b.Version,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
	for _, t := range b.Tickets {
		resp.Tickets = append(resp.Tickets, FromTicket(t))
	}
	return resp
}
