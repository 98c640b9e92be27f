package ticket

import (
	"context"
	"time"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/core/tx"
	"github.com/Stiliyan26/Ticket-Master/internal/core/types"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
	"github.com/Stiliyan26/Ticket-Master/pkg/logger"
)

// generateChunkSize bounds the row count per bulk insert so ticket
// generation for large venues stays within one statement timeout.
const generateChunkSize = 500

// Service implements the reservation state machine.
// All multi-row transitions go through one locked read (ordered by id)
// followed by one batched update, inside a single transaction.
type Service struct {
	repo   Repository
	events EventDirectory
	txm    tx.ReadOnlyManager
	audit  domain.AuditLog
}

// NewService creates a new reservation service.
func NewService(repo Repository, events EventDirectory, txm tx.ReadOnlyManager, audit domain.AuditLog) *Service {
	return &Service{
		repo:   repo,
		events: events,
		txm:    txm,
		audit:  audit,
	}
}

// CreateForEvent generates one AVAILABLE ticket per seat at basePrice.
// Inserts run in chunks over the COPY protocol; the whole generation
// joins the caller's transaction when one is active.
func (s *Service) CreateForEvent(ctx context.Context, eventID id.ID, basePrice types.Money, seatIDs []id.ID) error {
	if basePrice.IsNegative() {
		return apperror.NewValidation("base price must not be negative").
			WithDetail("field", "basePrice")
	}
	if len(seatIDs) == 0 {
		return nil
	}

	err := s.txm.Transactional(ctx, tx.Op{Entity: "ticket", Verb: tx.VerbCreate}, func(ctx context.Context) error {
		for start := 0; start < len(seatIDs); start += generateChunkSize {
			end := start + generateChunkSize
			if end > len(seatIDs) {
				end = len(seatIDs)
			}

			chunk := make([]*Ticket, 0, end-start)
			for _, seatID := range seatIDs[start:end] {
				chunk = append(chunk, New(eventID, seatID, basePrice))
			}
			if err := s.repo.CreateBatch(ctx, chunk); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.audit.LogChange(ctx, "event", eventID, "tickets_generated", map[string]any{
		"count":     len(seatIDs),
		"basePrice": basePrice,
	}); err != nil {
		logger.Warn(ctx, "audit write failed", "error", err)
	}

	logger.Info(ctx, "tickets generated", "event_id", eventID, "count", len(seatIDs))
	return nil
}

// Hold transitions AVAILABLE tickets to HELD under row locks.
// All requested tickets must exist and be AVAILABLE, otherwise nothing
// changes and the error lists every offending id.
func (s *Service) Hold(ctx context.Context, ticketIDs []id.ID) ([]*Ticket, error) {
	ids, err := normalizeIDs(ticketIDs)
	if err != nil {
		return nil, err
	}

	var held []*Ticket
	err = s.txm.Transactional(ctx, tx.Op{Entity: "ticket", Verb: tx.VerbUpdate}, func(ctx context.Context) error {
		tickets, err := s.repo.FindForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		if missing := missingIDs(ids, tickets); len(missing) > 0 {
			return apperror.NewNotFoundMsg("Some tickets do not exist").
				WithDetail("ticketIds", idStrings(missing))
		}

		var unavailable []id.ID
		for _, t := range tickets {
			if t.Status != StatusAvailable {
				unavailable = append(unavailable, t.ID)
			}
		}
		if len(unavailable) > 0 {
			return apperror.NewConflict("Tickets are not available").
				WithDetail("ticketIds", idStrings(unavailable))
		}

		now := time.Now().UTC()
		if err := s.repo.MarkHeld(ctx, ids, now); err != nil {
			return err
		}

		for _, t := range tickets {
			t.Status = StatusHeld
			heldAt := now
			t.HeldAt = &heldAt
			t.Touch()
		}
		held = tickets
		return nil
	})
	if err != nil {
		return nil, err
	}
	return held, nil
}

// FinalizePurchase transitions HELD tickets to SOLD, binds them to a
// booking, and returns the updated rows. Expected to run inside the
// transaction that holds the locks from Hold; a standalone call
// acquires its own.
func (s *Service) FinalizePurchase(ctx context.Context, ticketIDs []id.ID, bookingID id.ID) ([]*Ticket, error) {
	ids, err := normalizeIDs(ticketIDs)
	if err != nil {
		return nil, err
	}
	if id.IsNil(bookingID) {
		return nil, apperror.NewValidation("booking is required").
			WithDetail("field", "bookingId")
	}

	var sold []*Ticket
	err = s.txm.Transactional(ctx, tx.Op{Entity: "ticket", Verb: tx.VerbUpdate}, func(ctx context.Context) error {
		tickets, err := s.repo.FindForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		if missing := missingIDs(ids, tickets); len(missing) > 0 {
			return apperror.NewNotFoundMsg("Some tickets do not exist").
				WithDetail("ticketIds", idStrings(missing))
		}

		var notHeld []id.ID
		for _, t := range tickets {
			if t.Status != StatusHeld {
				notHeld = append(notHeld, t.ID)
			}
		}
		if len(notHeld) > 0 {
			return apperror.NewConflict("Tickets are not held").
				WithDetail("ticketIds", idStrings(notHeld))
		}

		if err := s.repo.MarkSold(ctx, ids, bookingID); err != nil {
			return err
		}

		for _, t := range tickets {
			t.Status = StatusSold
			t.HeldAt = nil
			bid := bookingID
			t.BookingID = &bid
			t.Touch()
		}
		sold = tickets
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sold, nil
}

// Release reverts tickets to AVAILABLE. Both HELD and SOLD rows revert
// (cancelling a confirmed booking must free its sold seats); rows that
// are already AVAILABLE or no longer exist are left untouched, so the
// operation is idempotent.
func (s *Service) Release(ctx context.Context, ticketIDs []id.ID) error {
	ids, err := normalizeIDs(ticketIDs)
	if err != nil {
		return err
	}

	return s.txm.Transactional(ctx, tx.Op{Entity: "ticket", Verb: tx.VerbUpdate}, func(ctx context.Context) error {
		tickets, err := s.repo.FindForUpdate(ctx, ids)
		if err != nil {
			return err
		}

		var revert []id.ID
		for _, t := range tickets {
			if t.Status != StatusAvailable {
				revert = append(revert, t.ID)
			}
		}
		if len(revert) == 0 {
			return nil
		}
		return s.repo.MarkAvailable(ctx, revert)
	})
}

// HasSold reports whether the event has at least one SOLD ticket.
func (s *Service) HasSold(ctx context.Context, eventID id.ID) (bool, error) {
	return s.repo.HasSold(ctx, eventID)
}

// CountAvailable returns availability counts for an event. An event
// with zero tickets is distinguished from a missing event; both reads
// run in one read-only transaction so the counts and the existence
// check see the same snapshot.
func (s *Service) CountAvailable(ctx context.Context, eventID id.ID) (Counts, error) {
	var counts Counts
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		c, err := s.repo.CountByEvent(ctx, eventID)
		if err != nil {
			return err
		}

		if c.Total == 0 {
			exists, err := s.events.Exists(ctx, eventID)
			if err != nil {
				return err
			}
			if !exists {
				return apperror.NewNotFound("event", eventID.String())
			}
		}

		counts = c
		return nil
	})
	if err != nil {
		return Counts{}, err
	}
	return counts, nil
}

// UpdatePricesByEvent reprices all AVAILABLE tickets of an event.
// HELD and SOLD tickets keep the price they were reserved at.
func (s *Service) UpdatePricesByEvent(ctx context.Context, eventID id.ID, price types.Money) (int64, error) {
	if price.IsNegative() {
		return 0, apperror.NewValidation("price must not be negative").
			WithDetail("field", "price")
	}

	var updated int64
	err := s.txm.Transactional(ctx, tx.Op{Entity: "ticket", Verb: tx.VerbUpdate}, func(ctx context.Context) error {
		n, err := s.repo.UpdatePriceForAvailable(ctx, eventID, price)
		if err != nil {
			return err
		}
		updated = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info(ctx, "ticket prices updated", "event_id", eventID, "updated", updated)
	return updated, nil
}

// RemoveByEvent deletes all tickets of an event. Callers guard against
// sold tickets before removal.
func (s *Service) RemoveByEvent(ctx context.Context, eventID id.ID) (int64, error) {
	var removed int64
	err := s.txm.Transactional(ctx, tx.Op{Entity: "ticket", Verb: tx.VerbRemove}, func(ctx context.Context) error {
		n, err := s.repo.DeleteByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// FindByEvent lists tickets of an event with pagination.
func (s *Service) FindByEvent(ctx context.Context, eventID id.ID, page domain.Page) (domain.ListResult[*Ticket], error) {
	return s.repo.FindByEvent(ctx, eventID, page.Normalize())
}

// FindByBooking returns the tickets referencing a booking.
func (s *Service) FindByBooking(ctx context.Context, bookingID id.ID) ([]*Ticket, error) {
	return s.repo.FindByBooking(ctx, bookingID)
}

// --- helpers ---

// normalizeIDs rejects empty input, strips nil ids, and deduplicates
// while preserving order.
func normalizeIDs(ids []id.ID) ([]id.ID, error) {
	if len(ids) == 0 {
		return nil, apperror.NewValidation("at least one ticket id is required").
			WithDetail("field", "ticketIds")
	}

	seen := make(map[id.ID]struct{}, len(ids))
	out := make([]id.ID, 0, len(ids))
	for _, tid := range ids {
		if id.IsNil(tid) {
			return nil, apperror.NewValidation("ticket id must not be empty").
				WithDetail("field", "ticketIds")
		}
		if _, ok := seen[tid]; ok {
			continue
		}
		seen[tid] = struct{}{}
		out = append(out, tid)
	}
	return out, nil
}

func missingIDs(requested []id.ID, found []*Ticket) []id.ID {
	present := make(map[id.ID]struct{}, len(found))
	for _, t := range found {
		present[t.ID] = struct{}{}
	}

	var missing []id.ID
	for _, tid := range requested {
		if _, ok := present[tid]; !ok {
			missing = append(missing, tid)
		}
	}
	return missing
}

func idStrings(ids []id.ID) []string {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = v.String()
	}
	return out
}
