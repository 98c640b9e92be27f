// Package event provides event management: creation generates the
// event's tickets, re-venue regenerates them, price changes propagate
// to still-available tickets.
package event

import (
	"context"
	"strings"
	"time"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/entity"
	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/core/types"
)

// Status represents the publication state of an event.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusCancelled Status = "CANCELLED"
)

// Event is a scheduled performance at a venue.
type Event struct {
	entity.Base

	Name string    `db:"name" json:"name"`
	Date time.Time `db:"date" json:"date"`

	// BasePrice is the price tickets are generated at
	BasePrice types.Money `db:"base_price" json:"basePrice"`

	Status  Status `db:"status" json:"status"`
	VenueID id.ID  `db:"venue_id" json:"venueId"`
}

// New creates a DRAFT event.
func New(name string, date time.Time, basePrice types.Money, venueID id.ID) *Event {
	return &Event{
		Base:      entity.NewBase(),
		Name:      strings.TrimSpace(name),
		Date:      date,
		BasePrice: basePrice,
		Status:    StatusDraft,
		VenueID:   venueID,
	}
}

// Validate implements entity.Validatable.
func (e *Event) Validate(ctx context.Context) error {
	if strings.TrimSpace(e.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if e.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if e.BasePrice.IsNegative() {
		return apperror.NewValidation("base price must not be negative").
			WithDetail("field", "basePrice")
	}
	if id.IsNil(e.VenueID) {
		return apperror.NewValidation("venue is required").
			WithDetail("field", "venueId")
	}
	switch e.Status {
	case StatusDraft, StatusPublished, StatusCancelled:
	default:
		return apperror.NewValidation("invalid event status").
			WithDetail("status", string(e.Status))
	}
	return nil
}

var _ entity.Validatable = (*Event)(nil)
