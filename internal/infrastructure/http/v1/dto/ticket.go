package dto

import (
	"time"

	"github.com/Stiliyan26/Ticket-Master/internal/domain/ticket"
)

// TicketResponse is the wire shape of a ticket.
type TicketResponse struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	Price     string     `json:"price"`
	HeldAt    *time.Time `json:"heldAt,omitempty"`
	EventID   string     `json:"eventId"`
	SeatID    string     `json:"seatId"`
	BookingID *string    `json:"bookingId,omitempty"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// FromTicket maps a ticket onto its response.
func FromTicket(t *ticket.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:        t.ID.String(),
		Status:    string(t.Status),
		Price:     t.Price.StringFixed(2),
		HeldAt:    t.HeldAt,
		EventID:   t.EventID.String(),
		SeatID:    t.SeatID.String(),
		Version:   t.Version,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.BookingID != nil {
		s := t.BookingID.String()
		resp.BookingID = &s
	}
	return resp
}

// AvailabilityResponse reports ticket availability for an event.
type AvailabilityResponse struct {
	Available int64 `json:"available"`
	Total     int64 `json:"total"`
}
