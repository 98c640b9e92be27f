package event

import (
	"bytes"
	"context"
	"time"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/core/tx"
	"github.com/Stiliyan26/Ticket-Master/internal/core/types"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
	"github.com/Stiliyan26/Ticket-Master/pkg/logger"
)

// CreateInput holds the fields for event creation.
type CreateInput struct {
	Name      string
	Date      time.Time
	BasePrice types.Money
	VenueID   id.ID
}

// UpdateInput holds the optional fields for event modification.
// Nil fields are left unchanged.
type UpdateInput struct {
	Name      *string
	Date      *time.Time
	BasePrice *types.Money
	Status    *Status
	VenueID   *id.ID
}

// Service provides business operations for events.
type Service struct {
	repo    Repository
	tickets Tickets
	venues  Venues
	seats   Seats
	txm     tx.Manager
	audit   domain.AuditLog
}

// NewService creates a new event service.
func NewService(repo Repository, tickets Tickets, venues Venues, seats Seats, txm tx.Manager, audit domain.AuditLog) *Service {
	return &Service{
		repo:    repo,
		tickets: tickets,
		venues:  venues,
		seats:   seats,
		txm:     txm,
		audit:   audit,
	}
}

// Create saves the event and generates one ticket per venue seat, all
// in one transaction. The venue row is locked so its seat set cannot
// change mid-generation.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Event, error) {
	ev := New(in.Name, in.Date, in.BasePrice, in.VenueID)
	if err := ev.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txm.Transactional(ctx, tx.Op{Entity: "event", Verb: tx.VerbCreate}, func(ctx context.Context) error {
		if err := s.venues.Lock(ctx, in.VenueID); err != nil {
			return err
		}

		seatIDs, err := s.seats.IDsByVenue(ctx, in.VenueID)
		if err != nil {
			return err
		}

		if err := s.repo.Create(ctx, ev); err != nil {
			return err
		}
		return s.tickets.CreateForEvent(ctx, ev.ID, ev.BasePrice, seatIDs)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "event created", "event_id", ev.ID, "name", ev.Name)
	return ev, nil
}

// Update modifies an event under its row lock. A venue change is
// refused while sold tickets exist; otherwise existing tickets are
// removed and regenerated from the new venue's seats. A price change
// without a venue change propagates to still-available tickets.
func (s *Service) Update(ctx context.Context, eventID id.ID, in UpdateInput) (*Event, error) {
	var updated *Event
	err := s.txm.Transactional(ctx, tx.Op{Entity: "event", Verb: tx.VerbUpdate}, func(ctx context.Context) error {
		ev, err := s.repo.GetForUpdate(ctx, eventID)
		if err != nil {
			return err
		}

		if in.Name != nil {
			ev.Name = *in.Name
		}
		if in.Date != nil {
			ev.Date = *in.Date
		}
		if in.Status != nil {
			ev.Status = *in.Status
		}

		priceChanged := in.BasePrice != nil && !in.BasePrice.Equal(ev.BasePrice)
		if in.BasePrice != nil {
			ev.BasePrice = *in.BasePrice
		}

		venueChanged := in.VenueID != nil && *in.VenueID != ev.VenueID
		if venueChanged {
			sold, err := s.tickets.HasSold(ctx, eventID)
			if err != nil {
				return err
			}
			if sold {
				return apperror.NewUnprocessable("Cannot change venue: event has sold tickets").
					WithDetail("eventId", eventID.String())
			}

			if err := s.lockVenuePair(ctx, ev.VenueID, *in.VenueID); err != nil {
				return err
			}

			if _, err := s.tickets.RemoveByEvent(ctx, eventID); err != nil {
				return err
			}

			seatIDs, err := s.seats.IDsByVenue(ctx, *in.VenueID)
			if err != nil {
				return err
			}

			ev.VenueID = *in.VenueID
			if err := s.tickets.CreateForEvent(ctx, eventID, ev.BasePrice, seatIDs); err != nil {
				return err
			}
		} else if priceChanged {
			if _, err := s.tickets.UpdatePricesByEvent(ctx, eventID, ev.BasePrice); err != nil {
				return err
			}
		}

		if err := ev.Validate(ctx); err != nil {
			return err
		}
		ev.Touch()
		if err := s.repo.Update(ctx, ev); err != nil {
			return err
		}

		if err := s.audit.LogChange(ctx, "event", eventID, "updated", map[string]any{
			"venueChanged": venueChanged,
			"priceChanged": priceChanged,
		}); err != nil {
			logger.Warn(ctx, "audit write failed", "error", err)
		}

		updated = ev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove deletes an event and, via cascade, its tickets. Refused while
// sold tickets exist.
func (s *Service) Remove(ctx context.Context, eventID id.ID) error {
	return s.txm.Transactional(ctx, tx.Op{Entity: "event", Verb: tx.VerbRemove}, func(ctx context.Context) error {
		if _, err := s.repo.GetForUpdate(ctx, eventID); err != nil {
			return err
		}

		sold, err := s.tickets.HasSold(ctx, eventID)
		if err != nil {
			return err
		}
		if sold {
			return apperror.NewUnprocessable("Cannot remove event: event has sold tickets").
				WithDetail("eventId", eventID.String())
		}

		if err := s.repo.Delete(ctx, eventID); err != nil {
			return err
		}

		if err := s.audit.LogChange(ctx, "event", eventID, "removed", nil); err != nil {
			logger.Warn(ctx, "audit write failed", "error", err)
		}
		return nil
	})
}

// GetByID retrieves an event, optionally taking its row lock when
// called inside a transaction.
func (s *Service) GetByID(ctx context.Context, eventID id.ID, lock bool) (*Event, error) {
	if lock {
		var ev *Event
		err := s.txm.Transactional(ctx, tx.Op{Entity: "event", Verb: tx.VerbRead}, func(ctx context.Context) error {
			var err error
			ev, err = s.repo.GetForUpdate(ctx, eventID)
			return err
		})
		return ev, err
	}
	return s.repo.GetByID(ctx, eventID)
}

// List returns events with pagination.
func (s *Service) List(ctx context.Context, page domain.Page) (domain.ListResult[*Event], error) {
	return s.repo.List(ctx, page.Normalize())
}

// lockVenuePair takes both venue row locks in ascending id order so two
// concurrent re-venues of crossing events cannot deadlock.
func (s *Service) lockVenuePair(ctx context.Context, a, b id.ID) error {
	first, second := a, b
	if bytes.Compare(b[:], a[:]) < 0 {
		first, second = b, a
	}
	if err := s.venues.Lock(ctx, first); err != nil {
		return err
	}
	return s.venues.Lock(ctx, second)
}
