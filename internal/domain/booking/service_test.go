package booking

import (
	"context"
	"testing"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/core/tx"
	"github.com/Stiliyan26/Ticket-Master/internal/core/types"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
	"github.com/Stiliyan26/Ticket-Master/internal/domain/ticket"
)

// --- test doubles ---

type txMarker struct{}

// fakeTxManager joins nested calls like the real manager and mimics
// rollback: at each outermost begin it snapshots the in-memory stores
// and restores them when the transaction function fails.
type fakeTxManager struct {
	begins    int
	readOnlys int

	snapshot func() (restore func())
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}
	m.begins++
	var restore func()
	if m.snapshot != nil {
		restore = m.snapshot()
	}
	err := fn(context.WithValue(ctx, txMarker{}, struct{}{}))
	if err != nil && restore != nil {
		restore()
	}
	return err
}

func (m *fakeTxManager) Transactional(ctx context.Context, op tx.Op, fn func(ctx context.Context) error) error {
	return m.RunInTransaction(ctx, fn)
}

func (m *fakeTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.readOnlys++
	return fn(ctx)
}

type fakeBookingRepo struct {
	bookings map[id.ID]*Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[id.ID]*Booking)}
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *Booking) error {
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, bookingID id.ID) (*Booking, error) {
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, apperror.NewNotFound("booking", bookingID.String())
	}
	return b, nil
}

func (r *fakeBookingRepo) GetForUpdate(ctx context.Context, bookingID id.ID) (*Booking, error) {
	return r.GetByID(ctx, bookingID)
}

func (r *fakeBookingRepo) Update(ctx context.Context, b *Booking) error {
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeBookingRepo) ListByUser(ctx context.Context, userID string, page domain.Page) (domain.ListResult[*Booking], error) {
	var items []*Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			items = append(items, b)
		}
	}
	return domain.ListResult[*Booking]{Items: items, TotalCount: int64(len(items)), Limit: page.Limit, Offset: page.Offset}, nil
}

// fakeReservations mimics the reservation engine over an in-memory
// ticket map and joins the ambient transaction like the real one.
type fakeReservations struct {
	txm     tx.Manager
	tickets map[id.ID]*ticket.Ticket

	failFinalize error
}

func newFakeReservations(txm tx.Manager) *fakeReservations {
	return &fakeReservations{txm: txm, tickets: make(map[id.ID]*ticket.Ticket)}
}

func (f *fakeReservations) seed(price string, n int) []id.ID {
	ids := make([]id.ID, n)
	for i := range ids {
		t := ticket.New(id.New(), id.New(), types.MustMoney(price))
		f.tickets[t.ID] = t
		ids[i] = t.ID
	}
	return ids
}

func (f *fakeReservations) Hold(ctx context.Context, ticketIDs []id.ID) ([]*ticket.Ticket, error) {
	var held []*ticket.Ticket
	err := f.txm.Transactional(ctx, tx.Op{Entity: "ticket", Verb: tx.VerbUpdate}, func(ctx context.Context) error {
		for _, tid := range ticketIDs {
			t, ok := f.tickets[tid]
			if !ok {
				return apperror.NewNotFoundMsg("Some tickets do not exist")
			}
			if t.Status != ticket.StatusAvailable {
				return apperror.NewConflict("Tickets are not available")
			}
			held = append(held, t)
		}
		for _, t := range held {
			t.Status = ticket.StatusHeld
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return held, nil
}

func (f *fakeReservations) FinalizePurchase(ctx context.Context, ticketIDs []id.ID, bookingID id.ID) ([]*ticket.Ticket, error) {
	var sold []*ticket.Ticket
	err := f.txm.Transactional(ctx, tx.Op{Entity: "ticket", Verb: tx.VerbUpdate}, func(ctx context.Context) error {
		if f.failFinalize != nil {
			return f.failFinalize
		}
		for _, tid := range ticketIDs {
			t := f.tickets[tid]
			if t.Status != ticket.StatusHeld {
				return apperror.NewConflict("Tickets are not held")
			}
			t.Status = ticket.StatusSold
			bid := bookingID
			t.BookingID = &bid
			sold = append(sold, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sold, nil
}

func (f *fakeReservations) Release(ctx context.Context, ticketIDs []id.ID) error {
	return f.txm.Transactional(ctx, tx.Op{Entity: "ticket", Verb: tx.VerbUpdate}, func(ctx context.Context) error {
		for _, tid := range ticketIDs {
			if t, ok := f.tickets[tid]; ok {
				t.Status = ticket.StatusAvailable
				t.BookingID = nil
			}
		}
		return nil
	})
}

func (f *fakeReservations) FindByBooking(ctx context.Context, bookingID id.ID) ([]*ticket.Ticket, error) {
	var out []*ticket.Ticket
	for _, t := range f.tickets {
		if t.BookingID != nil && *t.BookingID == bookingID {
			out = append(out, t)
		}
	}
	return out, nil
}

type noopAudit struct{}

func (noopAudit) LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error {
	return nil
}

func newTestService() (*Service, *fakeBookingRepo, *fakeReservations, *fakeTxManager) {
	txm := &fakeTxManager{}
	repo := newFakeBookingRepo()
	res := newFakeReservations(txm)
	txm.snapshot = func() (restore func()) {
		bookings := make(map[id.ID]*Booking, len(repo.bookings))
		for k, v := range repo.bookings {
			c := *v
			bookings[k] = &c
		}
		tickets := make(map[id.ID]*ticket.Ticket, len(res.tickets))
		for k, v := range res.tickets {
			c := *v
			if v.HeldAt != nil {
				h := *v.HeldAt
				c.HeldAt = &h
			}
			if v.BookingID != nil {
				b := *v.BookingID
				c.BookingID = &b
			}
			tickets[k] = &c
		}
		return func() {
			repo.bookings = bookings
			res.tickets = tickets
		}
	}
	return NewService(repo, res, txm, noopAudit{}), repo, res, txm
}

// --- tests ---

func TestCreate_PurchasesTickets(t *testing.T) {
	svc, repo, res, txm := newTestService()
	ids := res.seed("25.50", 3)
	userID := "user-1"

	b, err := svc.Create(context.Background(), userID, ids)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if b.Status != StatusConfirmed {
		t.Errorf("Status = %s, want CONFIRMED", b.Status)
	}
	if b.UserID != userID {
		t.Errorf("UserID = %s, want %s", b.UserID, userID)
	}
	if !b.TotalPrice.Equal(types.MustMoney("76.50")) {
		t.Errorf("TotalPrice = %s, want 76.50", b.TotalPrice)
	}
	if _, ok := repo.bookings[b.ID]; !ok {
		t.Error("booking was not persisted")
	}

	for _, tid := range ids {
		tk := res.tickets[tid]
		if tk.Status != ticket.StatusSold {
			t.Errorf("ticket status = %s, want SOLD", tk.Status)
		}
		if tk.BookingID == nil || *tk.BookingID != b.ID {
			t.Error("ticket not bound to the booking")
		}
	}

	// The finalized tickets come back on the booking itself
	if len(b.Tickets) != len(ids) {
		t.Fatalf("booking carries %d tickets, want %d", len(b.Tickets), len(ids))
	}
	for _, tk := range b.Tickets {
		if tk.Status != ticket.StatusSold {
			t.Errorf("attached ticket status = %s, want SOLD", tk.Status)
		}
	}

	// Hold, booking insert and finalize share one transaction
	if txm.begins != 1 {
		t.Errorf("begins = %d, want 1", txm.begins)
	}
}

func TestCreate_InputValidation(t *testing.T) {
	svc, _, res, _ := newTestService()
	ids := res.seed("10.00", 1)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "", ids); !apperror.IsAppError(err) {
		t.Errorf("empty user: expected validation error, got %v", err)
	}
	if _, err := svc.Create(ctx, "user-1", nil); !apperror.IsAppError(err) {
		t.Errorf("no tickets: expected validation error, got %v", err)
	}
}

func TestCreate_HoldConflictAborts(t *testing.T) {
	svc, repo, res, _ := newTestService()
	ids := res.seed("10.00", 2)
	res.tickets[ids[1]].Status = ticket.StatusSold

	_, err := svc.Create(context.Background(), "user-1", ids)
	if !apperror.IsConflict(err) {
		t.Fatalf("expected Conflict, got %v", err)
	}
	if len(repo.bookings) != 0 {
		t.Error("no booking should be persisted when the hold fails")
	}
}

func TestCreate_FinalizeFailureRollsBack(t *testing.T) {
	svc, repo, res, _ := newTestService()
	ids := res.seed("10.00", 2)
	res.failFinalize = apperror.NewTransient("the record is busy")

	_, err := svc.Create(context.Background(), "user-1", ids)
	if !apperror.IsTransient(err) {
		t.Fatalf("expected the finalize error to propagate, got %v", err)
	}

	// The booking insert and the holds from earlier in the
	// transaction are gone after the rollback
	if len(repo.bookings) != 0 {
		t.Errorf("bookings persisted = %d, want 0 after rollback", len(repo.bookings))
	}
	for _, tid := range ids {
		tk := res.tickets[tid]
		if tk.Status != ticket.StatusAvailable {
			t.Errorf("ticket status = %s, want AVAILABLE after rollback", tk.Status)
		}
		if tk.BookingID != nil {
			t.Error("ticket should not reference any booking after rollback")
		}
	}
}

func TestGetByID_AttachesTickets(t *testing.T) {
	svc, _, res, txm := newTestService()
	ids := res.seed("15.00", 2)
	b, err := svc.Create(context.Background(), "user-1", ids)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	loaded, err := svc.GetByID(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(loaded.Tickets) != 2 {
		t.Fatalf("loaded %d tickets, want 2", len(loaded.Tickets))
	}
	for _, tk := range loaded.Tickets {
		if tk.BookingID == nil || *tk.BookingID != b.ID {
			t.Error("attached ticket does not reference the booking")
		}
	}
	// Booking row and ticket set are read from one snapshot
	if txm.readOnlys != 1 {
		t.Errorf("readOnlys = %d, want 1", txm.readOnlys)
	}
}

func TestCancel_ReleasesTickets(t *testing.T) {
	svc, repo, res, txm := newTestService()
	ids := res.seed("10.00", 2)

	b, err := svc.Create(context.Background(), "user-1", ids)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	txm.begins = 0

	cancelled, err := svc.Cancel(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("Status = %s, want CANCELLED", cancelled.Status)
	}
	if repo.bookings[b.ID].Status != StatusCancelled {
		t.Error("persisted booking should be CANCELLED")
	}
	for _, tid := range ids {
		tk := res.tickets[tid]
		if tk.Status != ticket.StatusAvailable {
			t.Errorf("ticket status = %s, want AVAILABLE after cancel", tk.Status)
		}
		if tk.BookingID != nil {
			t.Error("ticket should no longer reference the booking")
		}
	}
	if txm.begins != 1 {
		t.Errorf("begins = %d, want 1", txm.begins)
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	svc, _, res, _ := newTestService()
	ids := res.seed("10.00", 1)

	b, err := svc.Create(context.Background(), "user-1", ids)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), b.ID); err != nil {
		t.Fatalf("first Cancel failed: %v", err)
	}

	_, err = svc.Cancel(context.Background(), b.ID)
	if !apperror.IsConflict(err) {
		t.Fatalf("second Cancel should conflict, got %v", err)
	}
}

func TestCancel_UnknownBooking(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Cancel(context.Background(), id.New())
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
