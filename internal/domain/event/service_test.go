package event

import (
	"context"
	"testing"
	"time"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/core/tx"
	"github.com/Stiliyan26/Ticket-Master/internal/core/types"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
)

// --- test doubles ---

type txMarker struct{}

type fakeTxManager struct {
	begins int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}
	m.begins++
	return fn(context.WithValue(ctx, txMarker{}, struct{}{}))
}

func (m *fakeTxManager) Transactional(ctx context.Context, op tx.Op, fn func(ctx context.Context) error) error {
	return m.RunInTransaction(ctx, fn)
}

type fakeEventRepo struct {
	events map[id.ID]*Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[id.ID]*Event)}
}

func (r *fakeEventRepo) Create(ctx context.Context, ev *Event) error {
	r.events[ev.ID] = ev
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, eventID id.ID) (*Event, error) {
	ev, ok := r.events[eventID]
	if !ok {
		return nil, apperror.NewNotFound("event", eventID.String())
	}
	return ev, nil
}

func (r *fakeEventRepo) GetForUpdate(ctx context.Context, eventID id.ID) (*Event, error) {
	return r.GetByID(ctx, eventID)
}

func (r *fakeEventRepo) Update(ctx context.Context, ev *Event) error {
	r.events[ev.ID] = ev
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, eventID id.ID) error {
	delete(r.events, eventID)
	return nil
}

func (r *fakeEventRepo) Exists(ctx context.Context, eventID id.ID) (bool, error) {
	_, ok := r.events[eventID]
	return ok, nil
}

func (r *fakeEventRepo) List(ctx context.Context, page domain.Page) (domain.ListResult[*Event], error) {
	var items []*Event
	for _, ev := range r.events {
		items = append(items, ev)
	}
	return domain.ListResult[*Event]{Items: items, TotalCount: int64(len(items)), Limit: page.Limit, Offset: page.Offset}, nil
}

// fakeTickets records the generation calls the event service makes.
type fakeTickets struct {
	sold bool

	generated    map[id.ID][]id.ID // eventID -> seatIDs of last generation
	generatedFor types.Money
	removed      int
	repriced     *types.Money
}

func newFakeTickets() *fakeTickets {
	return &fakeTickets{generated: make(map[id.ID][]id.ID)}
}

func (f *fakeTickets) CreateForEvent(ctx context.Context, eventID id.ID, basePrice types.Money, seatIDs []id.ID) error {
	f.generated[eventID] = seatIDs
	f.generatedFor = basePrice
	return nil
}

func (f *fakeTickets) HasSold(ctx context.Context, eventID id.ID) (bool, error) {
	return f.sold, nil
}

func (f *fakeTickets) UpdatePricesByEvent(ctx context.Context, eventID id.ID, price types.Money) (int64, error) {
	p := price
	f.repriced = &p
	return 1, nil
}

func (f *fakeTickets) RemoveByEvent(ctx context.Context, eventID id.ID) (int64, error) {
	f.removed++
	n := int64(len(f.generated[eventID]))
	delete(f.generated, eventID)
	return n, nil
}

type fakeVenues struct {
	seats map[id.ID][]id.ID // venueID -> seat ids
	locks []id.ID
}

func newFakeVenues() *fakeVenues {
	return &fakeVenues{seats: make(map[id.ID][]id.ID)}
}

func (f *fakeVenues) addVenue(seatCount int) id.ID {
	venueID := id.New()
	ids := make([]id.ID, seatCount)
	for i := range ids {
		ids[i] = id.New()
	}
	f.seats[venueID] = ids
	return venueID
}

func (f *fakeVenues) Exists(ctx context.Context, venueID id.ID) (bool, error) {
	_, ok := f.seats[venueID]
	return ok, nil
}

func (f *fakeVenues) Lock(ctx context.Context, venueID id.ID) error {
	if _, ok := f.seats[venueID]; !ok {
		return apperror.NewNotFound("venue", venueID.String())
	}
	f.locks = append(f.locks, venueID)
	return nil
}

func (f *fakeVenues) IDsByVenue(ctx context.Context, venueID id.ID) ([]id.ID, error) {
	return f.seats[venueID], nil
}

type noopAudit struct{}

func (noopAudit) LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error {
	return nil
}

func newTestService() (*Service, *fakeEventRepo, *fakeTickets, *fakeVenues, *fakeTxManager) {
	repo := newFakeEventRepo()
	tickets := newFakeTickets()
	venues := newFakeVenues()
	txm := &fakeTxManager{}
	svc := NewService(repo, tickets, venues, venues, txm, noopAudit{})
	return svc, repo, tickets, venues, txm
}

func validInput(venueID id.ID) CreateInput {
	return CreateInput{
		Name:      "Open Air",
		Date:      time.Now().Add(30 * 24 * time.Hour),
		BasePrice: types.MustMoney("45.00"),
		VenueID:   venueID,
	}
}

// --- tests ---

func TestCreate_GeneratesTicketsFromVenueSeats(t *testing.T) {
	svc, repo, tickets, venues, txm := newTestService()
	venueID := venues.addVenue(4)

	ev, err := svc.Create(context.Background(), validInput(venueID))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, ok := repo.events[ev.ID]; !ok {
		t.Error("event was not persisted")
	}
	if got := tickets.generated[ev.ID]; len(got) != 4 {
		t.Errorf("generated %d tickets, want 4", len(got))
	}
	if !tickets.generatedFor.Equal(types.MustMoney("45.00")) {
		t.Errorf("generation price = %s, want 45.00", tickets.generatedFor)
	}
	if len(venues.locks) != 1 || venues.locks[0] != venueID {
		t.Error("venue row should be locked during generation")
	}
	if txm.begins != 1 {
		t.Errorf("begins = %d, want 1", txm.begins)
	}
}

func TestCreate_UnknownVenue(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.Create(context.Background(), validInput(id.New()))
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestUpdate_PriceChangePropagates(t *testing.T) {
	svc, _, tickets, venues, _ := newTestService()
	venueID := venues.addVenue(2)

	ev, err := svc.Create(context.Background(), validInput(venueID))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newPrice := types.MustMoney("60.00")
	updated, err := svc.Update(context.Background(), ev.ID, UpdateInput{BasePrice: &newPrice})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !updated.BasePrice.Equal(newPrice) {
		t.Errorf("BasePrice = %s, want 60.00", updated.BasePrice)
	}
	if tickets.repriced == nil || !tickets.repriced.Equal(newPrice) {
		t.Error("available tickets should be repriced")
	}
	if tickets.removed != 0 {
		t.Error("a price-only change must not regenerate tickets")
	}
}

func TestUpdate_SamePriceNoReprice(t *testing.T) {
	svc, _, tickets, venues, _ := newTestService()
	venueID := venues.addVenue(1)

	ev, err := svc.Create(context.Background(), validInput(venueID))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	samePrice := types.MustMoney("45.00")
	if _, err := svc.Update(context.Background(), ev.ID, UpdateInput{BasePrice: &samePrice}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if tickets.repriced != nil {
		t.Error("unchanged price should not touch tickets")
	}
}

func TestUpdate_VenueChangeRegenerates(t *testing.T) {
	svc, _, tickets, venues, _ := newTestService()
	oldVenue := venues.addVenue(2)
	newVenue := venues.addVenue(5)

	ev, err := svc.Create(context.Background(), validInput(oldVenue))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	venues.locks = nil

	updated, err := svc.Update(context.Background(), ev.ID, UpdateInput{VenueID: &newVenue})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.VenueID != newVenue {
		t.Error("event should reference the new venue")
	}
	if tickets.removed != 1 {
		t.Errorf("removed = %d, want 1 (old ticket set dropped)", tickets.removed)
	}
	if got := tickets.generated[ev.ID]; len(got) != 5 {
		t.Errorf("generated %d tickets from the new venue, want 5", len(got))
	}
	if len(venues.locks) != 2 {
		t.Errorf("locked %d venues, want both old and new", len(venues.locks))
	}
}

func TestUpdate_VenueChangeRefusedWithSoldTickets(t *testing.T) {
	svc, repo, tickets, venues, _ := newTestService()
	oldVenue := venues.addVenue(2)
	newVenue := venues.addVenue(3)

	ev, err := svc.Create(context.Background(), validInput(oldVenue))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	tickets.sold = true

	_, err = svc.Update(context.Background(), ev.ID, UpdateInput{VenueID: &newVenue})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnprocessable {
		t.Fatalf("expected Unprocessable, got %v", err)
	}
	if repo.events[ev.ID].VenueID != oldVenue {
		t.Error("event should keep its old venue after the refusal")
	}
	if tickets.removed != 0 {
		t.Error("tickets must not be regenerated after the refusal")
	}
}

func TestUpdate_UnknownEvent(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	name := "Renamed"
	_, err := svc.Update(context.Background(), id.New(), UpdateInput{Name: &name})
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	svc, repo, tickets, venues, _ := newTestService()
	venueID := venues.addVenue(1)

	ev, err := svc.Create(context.Background(), validInput(venueID))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Remove(context.Background(), ev.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok := repo.events[ev.ID]; ok {
		t.Error("event should be deleted")
	}

	// Sold tickets block removal
	ev2, err := svc.Create(context.Background(), validInput(venueID))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	tickets.sold = true

	err = svc.Remove(context.Background(), ev2.ID)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnprocessable {
		t.Fatalf("expected Unprocessable, got %v", err)
	}
	if _, ok := repo.events[ev2.ID]; !ok {
		t.Error("event with sold tickets must survive removal attempts")
	}
}
