package dto

import (
	"time"

	"github.com/Stiliyan26/Ticket-Master/internal/domain/venue"
)

// CreateVenueRequest is the body for venue creation.
type CreateVenueRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// UpdateVenueRequest is the body for venue modification.
type UpdateVenueRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// VenueResponse is the wire shape of a venue.
type VenueResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromVenue maps a venue onto its response.
func FromVenue(v *venue.Venue) VenueResponse {
	return VenueResponse{
		ID:        v.ID.String(),
		Name:      v.Name,
		Address:   v.Address,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}
