package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/railway-ticket-reservation/internal/model"
	"github.com/iliyamo/railway-ticket-reservation/internal/repository"
)

// TrainStore is the train lookup the ticket service needs.
type TrainStore interface {
	GetByID(ctx context.Context, trainID uint64) (*model.Train, error)
}

// WagonStore is the wagon lookup the ticket service needs.
type WagonStore interface {
	GetByID(ctx context.Context, wagonID uint64) (*model.Wagon, error)
}

// SeatReserver is the seat reservation manager contract.  TryReserve
// must be atomic under concurrent callers: for one seat exactly one
// caller gets Reserved.  Release must be idempotent.
type SeatReserver interface {
	GetByID(ctx context.Context, seatID uint64) (*model.Seat, error)
	TryReserve(ctx context.Context, seatID uint64) (repository.ReserveOutcome, error)
	Release(ctx context.Context, seatID uint64) error
}

// TicketStore persists tickets.
type TicketStore interface {
	Create(ctx context.Context, t *model.Ticket) error
	GetByID(ctx context.Context, ticketID uint64) (*model.Ticket, error)
	ListByEmail(ctx context.Context, passengerEmail string) ([]model.Ticket, error)
	SetPaid(ctx context.Context, ticketID uint64, paid bool) error
	Delete(ctx context.Context, ticketID uint64) error
}

// TicketService orchestrates the ticket lifecycle: reserve a seat,
// price it, persist the ticket, and release the seat again when any
// step after the reservation fails.  The seat hold is treated as a
// resource with guaranteed release on every exit path - a deferred
// compensating Release runs unless the ticket was actually persisted.
type TicketService struct {
	trains  TrainStore
	wagons  WagonStore
	seats   SeatReserver
	tickets TicketStore
}

// NewTicketService constructs a TicketService.  All dependencies must
// be non-nil.
func NewTicketService(trains TrainStore, wagons WagonStore, seats SeatReserver, tickets TicketStore) *TicketService {
	if trains == nil || wagons == nil || seats == nil || tickets == nil {
		panic("nil dependency passed to NewTicketService")
	}
	return &TicketService{trains: trains, wagons: wagons, seats: seats, tickets: tickets}
}

// CreateTicketInput carries everything needed to book one seat.
type CreateTicketInput struct {
	TrainID          uint64
	WagonID          uint64
	SeatID           uint64
	PassengerName    string
	PassengerEmail   string
	PassengerPhone   string
	DiscountCategory model.DiscountCategory
}

func (in *CreateTicketInput) validate() error {
	if in.TrainID == 0 || in.WagonID == 0 || in.SeatID == 0 {
		return fmt.Errorf("%w: train, wagon and seat IDs are required", ErrValidation)
	}
	if strings.TrimSpace(in.PassengerName) == "" {
		return fmt.Errorf("%w: passenger name is required", ErrValidation)
	}
	if strings.TrimSpace(in.PassengerEmail) == "" {
		return fmt.Errorf("%w: passenger email is required", ErrValidation)
	}
	return nil
}

// CreateTicket books a seat and issues a ticket for it.
//
// Order matters: all validation and lookups happen before the seat is
// touched, so a rejected request never changes seat state.  Once
// TryReserve succeeds the seat is Held; if pricing, number generation
// or the insert fails for any reason the deferred release frees the
// seat before the error propagates.  The seat-row lock itself lives
// entirely inside TryReserve and is never held across this function's
// other work.
func (s *TicketService) CreateTicket(ctx context.Context, in CreateTicketInput) (*model.Ticket, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	train, err := s.trains.GetByID(ctx, in.TrainID)
	if err != nil {
		return nil, err
	}
	wagon, err := s.wagons.GetByID(ctx, in.WagonID)
	if err != nil {
		return nil, err
	}
	if wagon.TrainID != train.ID {
		return nil, fmt.Errorf("%w: wagon %d does not belong to train %d", ErrValidation, wagon.ID, train.ID)
	}

	outcome, err := s.seats.TryReserve(ctx, in.SeatID)
	if err != nil {
		return nil, fmt.Errorf("reserve seat %d: %w", in.SeatID, err)
	}
	switch outcome {
	case repository.SeatMissing:
		return nil, repository.ErrSeatNotFound
	case repository.AlreadyHeld:
		return nil, ErrSeatUnavailable
	}

	// The seat is Held from here on.  Release it on every exit path
	// that does not end with a persisted ticket.
	created := false
	defer func() {
		if !created {
			_ = s.seats.Release(ctx, in.SeatID)
		}
	}()

	quote := CalculatePrice(train.BasePrice, wagon.PriceMultiplier, in.DiscountCategory)
	ticket := &model.Ticket{
		TrainID:          train.ID,
		WagonID:          wagon.ID,
		SeatID:           in.SeatID,
		PassengerName:    strings.TrimSpace(in.PassengerName),
		PassengerEmail:   strings.TrimSpace(in.PassengerEmail),
		PassengerPhone:   strings.TrimSpace(in.PassengerPhone),
		DiscountCategory: in.DiscountCategory,
		DiscountPercent:  quote.DiscountPercent,
		BasePrice:        quote.BasePrice,
		FinalPrice:       quote.FinalPrice,
		TicketNumber:     NewTicketNumber(time.Now().UTC()),
		IsPaid:           false,
		DepartureTime:    train.DepartureTime,
		ArrivalTime:      train.ArrivalTime,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("persist ticket for seat %d: %w", in.SeatID, err)
	}
	created = true
	return ticket, nil
}

// GetTicket returns a single ticket, enforcing ownership when a
// requester email is supplied.
func (s *TicketService) GetTicket(ctx context.Context, ticketID uint64, requesterEmail string) (*model.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if requesterEmail != "" && ticket.PassengerEmail != requesterEmail {
		return nil, ErrForbidden
	}
	return ticket, nil
}

// ListUserTickets returns a passenger's tickets, most recent first.
func (s *TicketService) ListUserTickets(ctx context.Context, passengerEmail string) ([]model.Ticket, error) {
	return s.tickets.ListByEmail(ctx, passengerEmail)
}

// CancelTicket releases the seat and deletes the ticket.  The release
// comes first: a crash between the two leaves a freed seat with a
// stale ticket, which retrying the delete recovers, whereas the
// opposite order could strand a seat as permanently Held.  Release is
// idempotent, so repeating a half-finished cancellation is safe.
func (s *TicketService) CancelTicket(ctx context.Context, ticketID uint64, requesterEmail string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if requesterEmail != "" && ticket.PassengerEmail != requesterEmail {
		return ErrForbidden
	}
	if err := s.seats.Release(ctx, ticket.SeatID); err != nil {
		return fmt.Errorf("release seat %d: %w", ticket.SeatID, err)
	}
	return s.tickets.Delete(ctx, ticketID)
}

// PayTicket flips the payment flag.  Paying an already-paid ticket
// yields the same observable state and is not an error.
func (s *TicketService) PayTicket(ctx context.Context, ticketID uint64, requesterEmail string) (*model.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if requesterEmail != "" && ticket.PassengerEmail != requesterEmail {
		return nil, ErrForbidden
	}
	if err := s.tickets.SetPaid(ctx, ticketID, true); err != nil {
		return nil, err
	}
	ticket.IsPaid = true
	return ticket, nil
}

// Quote prices a hypothetical booking.  Read-only: it never touches
// seat state, and for identical inputs it returns exactly what
// CreateTicket would stamp onto the ticket.
func (s *TicketService) Quote(ctx context.Context, trainID, wagonID uint64, category model.DiscountCategory) (PriceQuote, error) {
	train, err := s.trains.GetByID(ctx, trainID)
	if err != nil {
		return PriceQuote{}, err
	}
	wagon, err := s.wagons.GetByID(ctx, wagonID)
	if err != nil {
		return PriceQuote{}, err
	}
	return CalculatePrice(train.BasePrice, wagon.PriceMultiplier, category), nil
}

// NewTicketNumber builds a booking reference from a date stamp and an
// opaque random suffix, e.g. RW-20260831-5D41402A.  Collisions are not
// expected from the generator, but the unique column constraint on
// ticket_number remains the authority.
func NewTicketNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("RW-%s-%s", now.Format("20060102"), suffix)
}
