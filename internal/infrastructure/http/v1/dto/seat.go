package dto

import (
	"time"

	"github.com/Stiliyan26/Ticket-Master/internal/domain/seat"
)

// SeatInput describes one seat in a bulk creation request.
type SeatInput struct {
	Section string `json:"section" binding:"required"`
	Row     string `json:"row" binding:"required"`
	Number  int    `json:"number" binding:"required,min=1"`
}

// CreateSeatsRequest is the body for bulk seat creation.
type CreateSeatsRequest struct {
	Seats []SeatInput `json:"seats" binding:"required"`
}

// Positions converts the request into domain positions.
func (r CreateSeatsRequest) Positions() []seat.Position {
	positions := make([]seat.Position, len(r.Seats))
	for i, s := range r.Seats {
		positions[i] = seat.Position{Section: s.Section, Row: s.Row, Number: s.Number}
	}
	return positions
}

// UpdateSeatRequest is the body for seat modification.
type UpdateSeatRequest struct {
	Section string `json:"section" binding:"required"`
	Row     string `json:"row" binding:"required"`
	Number  int    `json:"number" binding:"required,min=1"`
}

// SeatResponse is the wire shape of a seat.
type SeatResponse struct {
	ID        string    `json:"id"`
	VenueID   string    `json:"venueId"`
	Section   string    `json:"section"`
	Row       string    `json:"row"`
	Number    int       `json:"number"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromSeat maps a seat onto its response.
func FromSeat(s *seat.Seat) SeatResponse {
	return SeatResponse{
		ID:        s.ID.String(),
		VenueID:   s.VenueID.String(),
		Section:   s.Section,
		Row:       s.Row,
		Number:    s.Number,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
