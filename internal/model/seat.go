package model

import "time"

// SeatState is the availability state of a seat.  It replaces the pair
// of is_available / is_reserved booleans so the two can never disagree:
// a seat is either Free (bookable) or Held (owned by a ticket, or by a
// creation attempt that is still in flight).
type SeatState string

const (
	// SeatFree means the seat can be claimed by TryReserve.
	SeatFree SeatState = "FREE"
	// SeatHeld means the seat is exclusively owned.  There is no
	// sold state at the seat level; payment lives on the ticket.
	SeatHeld SeatState = "HELD"
)

// Seat is a single bookable place inside a wagon.  SeatNumber is
// unique within the wagon.  ReservedAt records when the seat entered
// the Held state and is nil while the seat is Free; the hold reaper
// uses it to free seats whose ticket never materialised.
type Seat struct {
	ID         uint64     // seats.id
	WagonID    uint64     // seats.wagon_id
	SeatNumber uint32     // seats.seat_number
	State      SeatState  // seats.state
	ReservedAt *time.Time // seats.reserved_at (nullable)
}

// Bookable reports whether the seat can currently be reserved.
func (s *Seat) Bookable() bool { return s.State == SeatFree }
