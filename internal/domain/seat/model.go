// Package seat provides seat CRUD and bulk creation.
package seat

import (
	"context"
	"strings"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/entity"
	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
)

// Seat is one sellable position in a venue.
// (venue, section, row, number) is unique.
type Seat struct {
	entity.Base

	VenueID id.ID  `db:"venue_id" json:"venueId"`
	Section string `db:"section" json:"section"`
	Row     string `db:"row_label" json:"row"`
	Number  int    `db:"number" json:"number"`
}

// New creates a seat.
func New(venueID id.ID, section, row string, number int) *Seat {
	return &Seat{
		Base:    entity.NewBase(),
		VenueID: venueID,
		Section: strings.TrimSpace(section),
		Row:     strings.TrimSpace(row),
		Number:  number,
	}
}

// Validate implements entity.Validatable.
func (s *Seat) Validate(ctx context.Context) error {
	if id.IsNil(s.VenueID) {
		return apperror.NewValidation("venue is required").
			WithDetail("field", "venueId")
	}
	if strings.TrimSpace(s.Section) == "" {
		return apperror.NewValidation("section is required").
			WithDetail("field", "section")
	}
	if strings.TrimSpace(s.Row) == "" {
		return apperror.NewValidation("row is required").
			WithDetail("field", "row")
	}
	if s.Number <= 0 {
		return apperror.NewValidation("number must be positive").
			WithDetail("field", "number")
	}
	return nil
}

var _ entity.Validatable = (*Seat)(nil)
