package dto

import (
	"time"

	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/types"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/event"
)

// CreateEventRequest is the body for event creation.
type CreateEventRequest struct {
	Name      string    `json:"name" binding:"required"`
	Date      time.Time `json:"date" binding:"required"`
	BasePrice string    `json:"basePrice" binding:"required"`
	VenueID   string    `json:"venueId" binding:"required"`
}

// ToInput converts the request into service input.
func (r CreateEventRequest) ToInput() (event.CreateInput, error) {
	venueID, err := id.Parse(r.VenueID)
	if err != nil {
		return event.CreateInput{}, apperror.NewValidation("invalid venue id").
			WithDetail("venueId", r.VenueID)
	}
	price, err := types.NewMoneyFromString(r.BasePrice)
	if err != nil {
		return event.CreateInput{}, apperror.NewValidation("invalid base price").
			WithDetail("basePrice", r.BasePrice)
	}
	return event.CreateInput{
		Name:      r.Name,
		Date:      r.Date,
		BasePrice: price,
		VenueID:   venueID,
	}, nil
}

// UpdateEventRequest is the body for event modification.
// Omitted fields are left unchanged.
type UpdateEventRequest struct {
	Name      *string    `json:"name"`
	Date      *time.Time `json:"date"`
	BasePrice *string    `json:"basePrice"`
	Status    *string    `json:"status"`
	VenueID   *string    `json:"venueId"`
}

// ToInput converts the request into service input.
func (r UpdateEventRequest) ToInput() (event.UpdateInput, error) {
	in := event.UpdateInput{
		Name: r.Name,
		Date: r.Date,
	}

	if r.BasePrice != nil {
		price, err := types.NewMoneyFromString(*r.BasePrice)
		if err != nil {
			return event.UpdateInput{}, apperror.NewValidation("invalid base price").
				WithDetail("basePrice", *r.BasePrice)
		}
		in.BasePrice = &price
	}
	if r.Status != nil {
		status := event.Status(*r.Status)
		in.Status = &status
	}
	if r.VenueID != nil {
		venueID, err := id.Parse(*r.VenueID)
		if err != nil {
			return event.UpdateInput{}, apperror.NewValidation("invalid venue id").
				WithDetail("venueId", *r.VenueID)
		}
		in.VenueID = &venueID
	}
	return in, nil
}

// EventResponse is the wire shape of an event.
type EventResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	BasePrice string    `json:"basePrice"`
	Status    string    `json:"status"`
	VenueID   string    `json:"venueId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromEvent maps an event onto its response.
func FromEvent(e *event.Event) EventResponse {
	return EventResponse{
		ID:        e.ID.String(),
		Name:      e.Name,
		Date:      e.Date,
		BasePrice: e.BasePrice.StringFixed(2),
		Status:    string(e.Status),
		VenueID:   e.VenueID.String(),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
