package seat

import (
	"context"
	"testing"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
	"github.com/Stiliyan26/Ticket-Master/internal/core/id"
	"github.com/Stiliyan26/Ticket-Master/internal/core/tx"
	"github.com/Stiliyan26/Ticket-Master/internal/domain"
)

type fakeTxManager struct{}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *fakeTxManager) Transactional(ctx context.Context, op tx.Op, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSeatRepo struct {
	seats map[id.ID]*Seat
}

func newFakeSeatRepo() *fakeSeatRepo {
	return &fakeSeatRepo{seats: make(map[id.ID]*Seat)}
}

func (r *fakeSeatRepo) CreateBatch(ctx context.Context, seats []*Seat) error {
	for _, s := range seats {
		r.seats[s.ID] = s
	}
	return nil
}

func (r *fakeSeatRepo) GetByID(ctx context.Context, seatID id.ID) (*Seat, error) {
	s, ok := r.seats[seatID]
	if !ok {
		return nil, apperror.NewNotFound("seat", seatID.String())
	}
	return s, nil
}

func (r *fakeSeatRepo) Update(ctx context.Context, s *Seat) error {
	r.seats[s.ID] = s
	return nil
}

func (r *fakeSeatRepo) Delete(ctx context.Context, seatID id.ID) error {
	delete(r.seats, seatID)
	return nil
}

func (r *fakeSeatRepo) IDsByVenue(ctx context.Context, venueID id.ID) ([]id.ID, error) {
	var ids []id.ID
	for _, s := range r.seats {
		if s.VenueID == venueID {
			ids = append(ids, s.ID)
		}
	}
	return ids, nil
}

func (r *fakeSeatRepo) ListByVenue(ctx context.Context, venueID id.ID, page domain.Page) (domain.ListResult[*Seat], error) {
	var items []*Seat
	for _, s := range r.seats {
		if s.VenueID == venueID {
			items = append(items, s)
		}
	}
	return domain.ListResult[*Seat]{Items: items, TotalCount: int64(len(items)), Limit: page.Limit, Offset: page.Offset}, nil
}

type fakeVenues struct {
	existing map[id.ID]bool
}

func (f *fakeVenues) Exists(ctx context.Context, venueID id.ID) (bool, error) {
	return f.existing[venueID], nil
}

func newTestService() (*Service, *fakeSeatRepo, id.ID) {
	repo := newFakeSeatRepo()
	venueID := id.New()
	venues := &fakeVenues{existing: map[id.ID]bool{venueID: true}}
	return NewService(repo, venues, &fakeTxManager{}), repo, venueID
}

func TestCreateBatch(t *testing.T) {
	svc, repo, venueID := newTestService()

	positions := []Position{
		{Section: "A", Row: "1", Number: 1},
		{Section: "A", Row: "1", Number: 2},
	}
	seats, err := svc.CreateBatch(context.Background(), venueID, positions)
	if err != nil {
		t.Fatalf("CreateBatch failed: %v", err)
	}
	if len(seats) != 2 || len(repo.seats) != 2 {
		t.Errorf("created %d seats, want 2", len(seats))
	}
	for _, s := range seats {
		if s.VenueID != venueID {
			t.Error("seat should reference the venue")
		}
	}
}

func TestCreateBatch_Validation(t *testing.T) {
	svc, _, venueID := newTestService()
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		if _, err := svc.CreateBatch(ctx, venueID, nil); !apperror.IsAppError(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("OverBatchLimit", func(t *testing.T) {
		positions := make([]Position, MaxBatchSize+1)
		for i := range positions {
			positions[i] = Position{Section: "A", Row: "1", Number: i + 1}
		}
		_, err := svc.CreateBatch(ctx, venueID, positions)
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("BadPosition", func(t *testing.T) {
		_, err := svc.CreateBatch(ctx, venueID, []Position{{Section: "", Row: "1", Number: 1}})
		if !apperror.IsAppError(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("UnknownVenue", func(t *testing.T) {
		_, err := svc.CreateBatch(ctx, id.New(), []Position{{Section: "A", Row: "1", Number: 1}})
		if !apperror.IsNotFound(err) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestUpdate(t *testing.T) {
	svc, _, venueID := newTestService()

	seats, err := svc.CreateBatch(context.Background(), venueID, []Position{{Section: "A", Row: "1", Number: 1}})
	if err != nil {
		t.Fatalf("CreateBatch failed: %v", err)
	}

	updated, err := svc.Update(context.Background(), seats[0].ID, Position{Section: "B", Row: "2", Number: 7})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Section != "B" || updated.Row != "2" || updated.Number != 7 {
		t.Errorf("updated seat = %+v", updated)
	}
}

func TestDelete(t *testing.T) {
	svc, repo, venueID := newTestService()

	seats, err := svc.CreateBatch(context.Background(), venueID, []Position{{Section: "A", Row: "1", Number: 1}})
	if err != nil {
		t.Fatalf("CreateBatch failed: %v", err)
	}
	if err := svc.Delete(context.Background(), seats[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(repo.seats) != 0 {
		t.Error("seat should be deleted")
	}
}
