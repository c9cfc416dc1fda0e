package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/railway-ticket-reservation/internal/model"
	"github.com/iliyamo/railway-ticket-reservation/internal/repository"
)

// fakeTrainStore serves trains from a map.
type fakeTrainStore struct {
	trains map[uint64]*model.Train
}

func (f *fakeTrainStore) GetByID(_ context.Context, id uint64) (*model.Train, error) {
	t, ok := f.trains[id]
	if !ok {
		return nil, repository.ErrTrainNotFound
	}
	cp := *t
	return &cp, nil
}

// fakeWagonStore serves wagons from a map.
type fakeWagonStore struct {
	wagons map[uint64]*model.Wagon
}

func (f *fakeWagonStore) GetByID(_ context.Context, id uint64) (*model.Wagon, error) {
	w, ok := f.wagons[id]
	if !ok {
		return nil, repository.ErrWagonNotFound
	}
	cp := *w
	return &cp, nil
}

// fakeSeatReserver keeps seat state in memory behind a mutex so the
// atomicity contract of TryReserve holds under concurrent callers.
type fakeSeatReserver struct {
	mu       sync.Mutex
	seats    map[uint64]*model.Seat
	reserves int
	releases int
}

func newFakeSeatReserver(seatIDs ...uint64) *fakeSeatReserver {
	seats := make(map[uint64]*model.Seat, len(seatIDs))
	for i, id := range seatIDs {
		seats[id] = &model.Seat{ID: id, WagonID: 1, SeatNumber: uint32(i + 1), State: model.SeatFree}
	}
	return &fakeSeatReserver{seats: seats}
}

func (f *fakeSeatReserver) GetByID(_ context.Context, id uint64) (*model.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.seats[id]
	if !ok {
		return nil, repository.ErrSeatNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSeatReserver) TryReserve(_ context.Context, id uint64) (repository.ReserveOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reserves++
	s, ok := f.seats[id]
	if !ok {
		return repository.SeatMissing, nil
	}
	if s.State != model.SeatFree {
		return repository.AlreadyHeld, nil
	}
	now := time.Now().UTC()
	s.State = model.SeatHeld
	s.ReservedAt = &now
	return repository.Reserved, nil
}

func (f *fakeSeatReserver) Release(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	if s, ok := f.seats[id]; ok {
		s.State = model.SeatFree
		s.ReservedAt = nil
	}
	return nil
}

func (f *fakeSeatReserver) state(id uint64) model.SeatState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seats[id].State
}

// fakeTicketStore persists tickets in memory.  createErr, when set,
// makes Create fail to exercise the compensation path.
type fakeTicketStore struct {
	mu        sync.Mutex
	nextID    uint64
	tickets   map[uint64]*model.Ticket
	createErr error
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{tickets: make(map[uint64]*model.Ticket)}
}

func (f *fakeTicketStore) Create(_ context.Context, t *model.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	t.ID = f.nextID
	t.CreatedAt = time.Now().UTC()
	cp := *t
	f.tickets[t.ID] = &cp
	return nil
}

func (f *fakeTicketStore) GetByID(_ context.Context, id uint64) (*model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return nil, repository.ErrTicketNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTicketStore) ListByEmail(_ context.Context, email string) ([]model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Ticket
	for _, t := range f.tickets {
		if t.PassengerEmail == email {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTicketStore) SetPaid(_ context.Context, id uint64, paid bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return repository.ErrTicketNotFound
	}
	t.IsPaid = paid
	return nil
}

func (f *fakeTicketStore) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[id]; !ok {
		return repository.ErrTicketNotFound
	}
	delete(f.tickets, id)
	return nil
}

func (f *fakeTicketStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickets)
}

// newTestService assembles a service over one train (base 2000), one
// coupe wagon (x1.5) and the given seats.
func newTestService(seats *fakeSeatReserver, tickets *fakeTicketStore) *TicketService {
	departure := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	trains := &fakeTrainStore{trains: map[uint64]*model.Train{
		1: {
			ID:            1,
			TrainNumber:   "042A",
			RouteFrom:     "Moscow",
			RouteTo:       "Saint Petersburg",
			DepartureTime: departure,
			ArrivalTime:   departure.Add(8 * time.Hour),
			DurationHours: 8,
			BasePrice:     2000,
			IsActive:      true,
		},
	}}
	wagons := &fakeWagonStore{wagons: map[uint64]*model.Wagon{
		1: {ID: 1, TrainID: 1, WagonNumber: 1, WagonType: model.WagonCoupe, TotalSeats: 36, PriceMultiplier: 1.5},
		9: {ID: 9, TrainID: 7, WagonNumber: 1, WagonType: model.WagonSuite, TotalSeats: 18, PriceMultiplier: 2.0},
	}}
	return NewTicketService(trains, wagons, seats, tickets)
}

func validInput() CreateTicketInput {
	return CreateTicketInput{
		TrainID:          1,
		WagonID:          1,
		SeatID:           10,
		PassengerName:    "Ivan Petrov",
		PassengerEmail:   "ivan@example.com",
		PassengerPhone:   "+7 900 000 00 00",
		DiscountCategory: model.DiscountStudent,
	}
}

func TestCreateTicket(t *testing.T) {
	t.Parallel()

	t.Run("books a free seat and prices it", func(t *testing.T) {
		t.Parallel()
		seats := newFakeSeatReserver(10)
		tickets := newFakeTicketStore()
		svc := newTestService(seats, tickets)

		ticket, err := svc.CreateTicket(context.Background(), validInput())
		if err != nil {
			t.Fatalf("CreateTicket: %v", err)
		}
		if ticket.ID == 0 {
			t.Error("ticket was not persisted")
		}
		if got := seats.state(10); got != model.SeatHeld {
			t.Errorf("seat state = %q, want %q", got, model.SeatHeld)
		}
		if ticket.BasePrice != 3000 || ticket.FinalPrice != 2250 || ticket.DiscountPercent != 25 {
			t.Errorf("pricing = base %v pct %v final %v, want 3000/25/2250",
				ticket.BasePrice, ticket.DiscountPercent, ticket.FinalPrice)
		}
		if ticket.IsPaid {
			t.Error("new ticket must start unpaid")
		}
		if !ticket.DepartureTime.Equal(time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)) {
			t.Errorf("departure not copied from train: %v", ticket.DepartureTime)
		}
	})

	t.Run("held seat is rejected without touching state", func(t *testing.T) {
		t.Parallel()
		seats := newFakeSeatReserver(10)
		tickets := newFakeTicketStore()
		svc := newTestService(seats, tickets)

		if _, err := svc.CreateTicket(context.Background(), validInput()); err != nil {
			t.Fatalf("first booking: %v", err)
		}
		_, err := svc.CreateTicket(context.Background(), validInput())
		if !errors.Is(err, ErrSeatUnavailable) {
			t.Fatalf("second booking err = %v, want ErrSeatUnavailable", err)
		}
		if got := seats.state(10); got != model.SeatHeld {
			t.Errorf("loser changed seat state to %q", got)
		}
		if tickets.count() != 1 {
			t.Errorf("ticket count = %d, want 1", tickets.count())
		}
	})

	t.Run("unknown seat", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(newFakeSeatReserver(10), newFakeTicketStore())
		in := validInput()
		in.SeatID = 999
		_, err := svc.CreateTicket(context.Background(), in)
		if !errors.Is(err, repository.ErrSeatNotFound) {
			t.Fatalf("err = %v, want ErrSeatNotFound", err)
		}
	})

	t.Run("validation happens before any reservation", func(t *testing.T) {
		t.Parallel()
		seats := newFakeSeatReserver(10)
		svc := newTestService(seats, newFakeTicketStore())

		bad := []CreateTicketInput{
			{},
			{TrainID: 1, WagonID: 1, SeatID: 10, PassengerEmail: "a@b.c"},              // no name
			{TrainID: 1, WagonID: 1, SeatID: 10, PassengerName: "A"},                   // no email
			{TrainID: 1, WagonID: 1, SeatID: 10, PassengerName: "  ", PassengerEmail: "a@b.c"}, // blank name
		}
		for _, in := range bad {
			if _, err := svc.CreateTicket(context.Background(), in); !errors.Is(err, ErrValidation) {
				t.Errorf("input %+v: err = %v, want ErrValidation", in, err)
			}
		}
		if seats.reserves != 0 {
			t.Errorf("reserve attempts = %d, want 0", seats.reserves)
		}
	})

	t.Run("wagon from another train is rejected", func(t *testing.T) {
		t.Parallel()
		seats := newFakeSeatReserver(10)
		svc := newTestService(seats, newFakeTicketStore())
		in := validInput()
		in.WagonID = 9 // belongs to train 7
		_, err := svc.CreateTicket(context.Background(), in)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("err = %v, want ErrValidation", err)
		}
		if seats.reserves != 0 {
			t.Errorf("reserve attempts = %d, want 0", seats.reserves)
		}
	})

	t.Run("persist failure releases the seat", func(t *testing.T) {
		t.Parallel()
		seats := newFakeSeatReserver(10)
		tickets := newFakeTicketStore()
		tickets.createErr = errors.New("connection lost")
		svc := newTestService(seats, tickets)

		_, err := svc.CreateTicket(context.Background(), validInput())
		if err == nil {
			t.Fatal("expected error from failed persist")
		}
		if got := seats.state(10); got != model.SeatFree {
			t.Errorf("seat state after failed persist = %q, want %q", got, model.SeatFree)
		}

		// The seat must be bookable again once the store recovers.
		tickets.createErr = nil
		if _, err := svc.CreateTicket(context.Background(), validInput()); err != nil {
			t.Fatalf("retry after recovery: %v", err)
		}
	})
}

func TestCreateTicketConcurrentSingleSeat(t *testing.T) {
	t.Parallel()

	seats := newFakeSeatReserver(10)
	tickets := newFakeTicketStore()
	svc := newTestService(seats, tickets)

	const callers = 32
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateTicket(context.Background(), validInput())
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSeatUnavailable):
			losses++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("winners = %d, want exactly 1", wins)
	}
	if losses != callers-1 {
		t.Errorf("losers = %d, want %d", losses, callers-1)
	}
	if tickets.count() != 1 {
		t.Errorf("tickets persisted = %d, want 1", tickets.count())
	}
	if got := seats.state(10); got != model.SeatHeld {
		t.Errorf("final seat state = %q, want %q", got, model.SeatHeld)
	}
}

func TestCancelTicket(t *testing.T) {
	t.Parallel()

	t.Run("frees the seat and removes the ticket", func(t *testing.T) {
		t.Parallel()
		seats := newFakeSeatReserver(10)
		tickets := newFakeTicketStore()
		svc := newTestService(seats, tickets)

		ticket, err := svc.CreateTicket(context.Background(), validInput())
		if err != nil {
			t.Fatalf("CreateTicket: %v", err)
		}
		if err := svc.CancelTicket(context.Background(), ticket.ID, ticket.PassengerEmail); err != nil {
			t.Fatalf("CancelTicket: %v", err)
		}
		if got := seats.state(10); got != model.SeatFree {
			t.Errorf("seat state after cancel = %q, want %q", got, model.SeatFree)
		}
		if _, err := tickets.GetByID(context.Background(), ticket.ID); !errors.Is(err, repository.ErrTicketNotFound) {
			t.Errorf("ticket lookup after cancel = %v, want ErrTicketNotFound", err)
		}

		// Released seat is immediately rebookable.
		if _, err := svc.CreateTicket(context.Background(), validInput()); err != nil {
			t.Fatalf("rebooking after cancel: %v", err)
		}
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		t.Parallel()
		seats := newFakeSeatReserver(10)
		svc := newTestService(seats, newFakeTicketStore())

		ticket, err := svc.CreateTicket(context.Background(), validInput())
		if err != nil {
			t.Fatalf("CreateTicket: %v", err)
		}
		err = svc.CancelTicket(context.Background(), ticket.ID, "someone.else@example.com")
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
		if got := seats.state(10); got != model.SeatHeld {
			t.Errorf("forbidden cancel changed seat state to %q", got)
		}
	})

	t.Run("missing ticket", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(newFakeSeatReserver(10), newFakeTicketStore())
		err := svc.CancelTicket(context.Background(), 404, "ivan@example.com")
		if !errors.Is(err, repository.ErrTicketNotFound) {
			t.Fatalf("err = %v, want ErrTicketNotFound", err)
		}
	})
}

func TestPayTicket(t *testing.T) {
	t.Parallel()

	seats := newFakeSeatReserver(10)
	tickets := newFakeTicketStore()
	svc := newTestService(seats, tickets)

	ticket, err := svc.CreateTicket(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	paid, err := svc.PayTicket(context.Background(), ticket.ID, ticket.PassengerEmail)
	if err != nil {
		t.Fatalf("PayTicket: %v", err)
	}
	if !paid.IsPaid {
		t.Error("ticket not marked paid")
	}

	// Paying again is a no-op, not an error.
	again, err := svc.PayTicket(context.Background(), ticket.ID, ticket.PassengerEmail)
	if err != nil {
		t.Fatalf("second PayTicket: %v", err)
	}
	if !again.IsPaid {
		t.Error("ticket lost paid flag on repeat payment")
	}

	if _, err := svc.PayTicket(context.Background(), ticket.ID, "intruder@example.com"); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign pay err = %v, want ErrForbidden", err)
	}
}

func TestGetTicketOwnership(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeSeatReserver(10), newFakeTicketStore())
	ticket, err := svc.CreateTicket(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	if _, err := svc.GetTicket(context.Background(), ticket.ID, ticket.PassengerEmail); err != nil {
		t.Errorf("owner lookup: %v", err)
	}
	if _, err := svc.GetTicket(context.Background(), ticket.ID, "other@example.com"); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign lookup err = %v, want ErrForbidden", err)
	}
}

func TestQuoteMatchesCreatePrice(t *testing.T) {
	t.Parallel()

	seats := newFakeSeatReserver(10)
	svc := newTestService(seats, newFakeTicketStore())

	quote, err := svc.Quote(context.Background(), 1, 1, model.DiscountStudent)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	ticket, err := svc.CreateTicket(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	if quote.BasePrice != ticket.BasePrice ||
		quote.DiscountPercent != ticket.DiscountPercent ||
		quote.FinalPrice != ticket.FinalPrice {
		t.Errorf("quote %+v disagrees with issued ticket (base %v pct %v final %v)",
			quote, ticket.BasePrice, ticket.DiscountPercent, ticket.FinalPrice)
	}
	if seats.reserves != 1 {
		t.Errorf("reserve attempts = %d, want 1 (quote must not reserve)", seats.reserves)
	}
}

func TestNewTicketNumber(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^RW-20260831-[0-9A-F]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		n := NewTicketNumber(now)
		if !pattern.MatchString(n) {
			t.Fatalf("ticket number %q does not match %s", n, pattern)
		}
		if seen[n] {
			t.Fatalf("duplicate ticket number %q after %d draws", n, i)
		}
		seen[n] = true
	}
}
