package entity

import (
	"context"
	"time"

	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Base contains common fields for all entities.
type Base struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Audit timestamps
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBase creates a new Base with generated ID and timestamps.
func NewBase() Base {
	now := time.Now().UTC()
	return Base{
		ID:        id.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// Versioned extends Base with a version counter for optimistic locking.
type Versioned struct {
	Base

	// Version is incremented on each update
	Version int `db:"version" json:"version"`
}

// NewVersioned creates a new Versioned entity with version 1.
func NewVersioned() Versioned {
	return Versioned{
		Base:    NewBase(),
		Version: 1,
	}
}

// Touch updates the UpdatedAt timestamp and increments version.
func (v *Versioned) Touch() {
	v.Base.Touch()
	v.Version++
}
