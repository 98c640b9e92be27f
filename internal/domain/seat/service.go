package seat

import (
	"context"
	"fmt"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/core/tx"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
	"github.com/Stiliyan26/Ticket-Master/pkg/logger"
)

// MaxBatchSize caps one bulk seat creation request.
const MaxBatchSize = 1000

// Position describes one seat to create.
type Position struct {
	Section string `json:"section"`
	Row     string `json:"row"`
	Number  int    `json:"number"`
}

// Service provides business operations for seats.
type Service struct {
	repo   Repository
	venues VenueDirectory
	txm    tx.Manager
}

// NewService creates a new seat service.
func NewService(repo Repository, venues VenueDirectory, txm tx.Manager) *Service {
	return &Service{repo: repo, venues: venues, txm: txm}
}

// CreateBatch creates seats for a venue in one transaction.
func (s *Service) CreateBatch(ctx context.Context, venueID id.ID, positions []Position) ([]*Seat, error) {
	if len(positions) == 0 {
		return nil, apperror.NewValidation("at least one seat is required").
			WithDetail("field", "seats")
	}
	if len(positions) > MaxBatchSize {
		return nil, apperror.NewValidation(fmt.Sprintf("at most %d seats per request", MaxBatchSize)).
			WithDetail("field", "seats").
			WithDetail("count", len(positions))
	}

	seats := make([]*Seat, 0, len(positions))
	for _, p := range positions {
		st := New(venueID, p.Section, p.Row, p.Number)
		if err := st.Validate(ctx); err != nil {
			return nil, err
		}
		seats = append(seats, st)
	}

	err := s.txm.Transactional(ctx, tx.Op{Entity: "seat", Verb: tx.VerbCreate}, func(ctx context.Context) error {
		exists, err := s.venues.Exists(ctx, venueID)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NewNotFound("venue", venueID.String())
		}
		return s.repo.CreateBatch(ctx, seats)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "seats created", "venue_id", venueID, "count", len(seats))
	return seats, nil
}

// GetByID retrieves a seat.
func (s *Service) GetByID(ctx context.Context, seatID id.ID) (*Seat, error) {
	return s.repo.GetByID(ctx, seatID)
}

// Update modifies a seat's position.
func (s *Service) Update(ctx context.Context, seatID id.ID, p Position) (*Seat, error) {
	var updated *Seat
	err := s.txm.Transactional(ctx, tx.Op{Entity: "seat", Verb: tx.VerbUpdate}, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, seatID)
		if err != nil {
			return err
		}

		existing.Section = p.Section
		existing.Row = p.Row
		existing.Number = p.Number
		if err := existing.Validate(ctx); err != nil {
			return err
		}
		existing.Touch()

		if err := s.repo.Update(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a seat. Fails with a conflict while tickets reference it.
func (s *Service) Delete(ctx context.Context, seatID id.ID) error {
	return s.txm.Transactional(ctx, tx.Op{Entity: "seat", Verb: tx.VerbRemove}, func(ctx context.Context) error {
		return s.repo.Delete(ctx, seatID)
	})
}

// ListByVenue returns a venue's seats with pagination.
func (s *Service) ListByVenue(ctx context.Context, venueID id.ID, page domain.Page) (domain.ListResult[*Seat], error) {
	return s.repo.ListByVenue(ctx, venueID, page.Normalize())
}
