package booking

import (
	"context"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/core/tx"
	"github.com/Stiliyan26/Ticket-Master/internal/core/types"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
	"github.com/Stiliyan26/Ticket-Master/pkg/logger"
)

// Service orchestrates booking creation and cancellation.
// Every mutation runs as one transaction: the reservation engine's
// locks, the booking row, and the audit trail commit or revert together.
type Service struct {
	repo         Repository
	reservations Reservations
	txm          tx.ReadOnlyManager
	audit        domain.AuditLog
}

// NewService creates a new booking service.
func NewService(repo Repository, reservations Reservations, txm tx.ReadOnlyManager, audit domain.AuditLog) *Service {
	return &Service{
		repo:         repo,
		reservations: reservations,
		txm:          txm,
		audit:        audit,
	}
}

// Create purchases the given tickets for userID. All tickets are held,
// summed, and finalized against the new CONFIRMED booking inside one
// transaction; any failure reverts the whole purchase.
func (s *Service) Create(ctx context.Context, userID string, ticketIDs []id.ID) (*Booking, error) {
	if userID == "" {
		return nil, apperror.NewValidation("user is required").
			WithDetail("field", "userId")
	}
	if len(ticketIDs) == 0 {
		return nil, apperror.NewValidation("at least one ticket id is required").
			WithDetail("field", "ticketIds")
	}

	var b *Booking
	err := s.txm.Transactional(ctx, tx.Op{Entity: "booking", Verb: tx.VerbCreate}, func(ctx context.Context) error {
		held, err := s.reservations.Hold(ctx, ticketIDs)
		if err != nil {
			return err
		}

		prices := make([]types.Money, len(held))
		for i, t := range held {
			prices[i] = t.Price
		}

		b = New(userID, types.SumMoney(prices...), StatusConfirmed)
		if err := b.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, b); err != nil {
			return err
		}

		ids := make([]id.ID, len(held))
		for i, t := range held {
			ids[i] = t.ID
		}
		finalized, err := s.reservations.FinalizePurchase(ctx, ids, b.ID)
		if err != nil {
			return err
		}
		b.Tickets = finalized

		if err := s.audit.LogChange(ctx, "booking", b.ID, "created", map[string]any{
			"userId":     userID,
			"totalPrice": b.TotalPrice,
			"ticketIds":  ids,
		}); err != nil {
			logger.Warn(ctx, "audit write failed", "error", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "booking created",
		"booking_id", b.ID,
		"user_id", userID,
		"tickets", len(ticketIDs))
	return b, nil
}

// Cancel transitions a booking to CANCELLED exactly once and releases
// its tickets back to AVAILABLE.
func (s *Service) Cancel(ctx context.Context, bookingID id.ID) (*Booking, error) {
	var b *Booking
	err := s.txm.Transactional(ctx, tx.Op{Entity: "booking", Verb: tx.VerbUpdate}, func(ctx context.Context) error {
		locked, err := s.repo.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if locked.Status == StatusCancelled {
			return apperror.NewConflict("Booking is already cancelled").
				WithDetail("bookingId", bookingID.String())
		}

		tickets, err := s.reservations.FindByBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if len(tickets) > 0 {
			ids := make([]id.ID, len(tickets))
			for i, t := range tickets {
				ids[i] = t.ID
			}
			if err := s.reservations.Release(ctx, ids); err != nil {
				return err
			}
		}

		locked.Status = StatusCancelled
		locked.Touch()
		if err := s.repo.Update(ctx, locked); err != nil {
			return err
		}

		if err := s.audit.LogChange(ctx, "booking", bookingID, "cancelled", map[string]any{
			"releasedTickets": len(tickets),
		}); err != nil {
			logger.Warn(ctx, "audit write failed", "error", err)
		}

		b = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "booking cancelled", "booking_id", bookingID)
	return b, nil
}

// GetByID retrieves a booking with its tickets attached. Both reads
// run in one read-only transaction so the booking row and its ticket
// set come from the same snapshot.
func (s *Service) GetByID(ctx context.Context, bookingID id.ID) (*Booking, error) {
	var b *Booking
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		loaded, err := s.repo.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		tickets, err := s.reservations.FindByBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		loaded.Tickets = tickets
		b = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListByUser returns a user's bookings with pagination.
func (s *Service) ListByUser(ctx context.Context, userID string, page domain.Page) (domain.ListResult[*Booking], error) {
	return s.repo.ListByUser(ctx, userID, page.Normalize())
}
