// Package venue provides venue CRUD.
package venue

import (
	"context"
	"strings"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/entity"
)

// Venue is a physical location seats belong to.
type Venue struct {
	entity.Base

	// Name is unique across venues
	Name    string `db:"name" json:"name"`
	Address string `db:"address" json:"address"`
}

// New creates a venue.
func New(name, address string) *Venue {
	return &Venue{
		Base:    entity.NewBase(),
		Name:    strings.TrimSpace(name),
		Address: strings.TrimSpace(address),
	}
}

// Validate implements entity.Validatable.
func (v *Venue) Validate(ctx context.Context) error {
	if strings.TrimSpace(v.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if strings.TrimSpace(v.Address) == "" {
		return apperror.NewValidation("address is required").
			WithDetail("field", "address")
	}
	return nil
}

var _ entity.Validatable = (*Venue)(nil)
