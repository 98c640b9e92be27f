package venue

import (
	"context"

	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/core/tx"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
	"github.com/Stiliyan26/Ticket-Master/pkg/logger"
)

// Service provides business operations for venues.
type Service struct {
	repo Repository
	txm  tx.Manager
}

// NewService creates a new venue service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{repo: repo, txm: txm}
}

// Create creates a new venue.
func (s *Service) Create(ctx context.Context, name, address string) (*Venue, error) {
	v := New(name, address)
	if err := v.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txm.Transactional(ctx, tx.Op{Entity: "venue", Verb: tx.VerbCreate}, func(ctx context.Context) error {
		return s.repo.Create(ctx, v)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "venue created", "venue_id", v.ID, "name", v.Name)
	return v, nil
}

// GetByID retrieves a venue.
func (s *Service) GetByID(ctx context.Context, venueID id.ID) (*Venue, error) {
	return s.repo.GetByID(ctx, venueID)
}

// Update modifies a venue's name and address.
func (s *Service) Update(ctx context.Context, venueID id.ID, name, address string) (*Venue, error) {
	var v *Venue
	err := s.txm.Transactional(ctx, tx.Op{Entity: "venue", Verb: tx.VerbUpdate}, func(ctx context.Context) error {
		existing, err := s.repo.GetForUpdate(ctx, venueID)
		if err != nil {
			return err
		}

		existing.Name = name
		existing.Address = address
		if err := existing.Validate(ctx); err != nil {
			return err
		}
		existing.Touch()

		if err := s.repo.Update(ctx, existing); err != nil {
			return err
		}
		v = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes a venue. Fails with a conflict while events reference
// it (RESTRICT on events.venue_id).
func (s *Service) Delete(ctx context.Context, venueID id.ID) error {
	return s.txm.Transactional(ctx, tx.Op{Entity: "venue", Verb: tx.VerbRemove}, func(ctx context.Context) error {
		return s.repo.Delete(ctx, venueID)
	})
}

// List returns venues with pagination.
func (s *Service) List(ctx context.Context, page domain.Page) (domain.ListResult[*Venue], error) {
	return s.repo.List(ctx, page.Normalize())
}
