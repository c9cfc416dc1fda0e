package model

import "time"

// DiscountCategory is a passenger class mapping to a fixed percentage
// price reduction.  Unknown categories are priced as DiscountNone
// rather than rejected.
type DiscountCategory string

const (
	DiscountChild     DiscountCategory = "child"
	DiscountStudent   DiscountCategory = "student"
	DiscountPensioner DiscountCategory = "pensioner"
	DiscountNone      DiscountCategory = "none"
)

// Ticket is an issued booking.  It references one train, one wagon and
// one seat, created together and immutable afterwards except for the
// payment flag.  DepartureTime and ArrivalTime are copied from the
// train at issuance so later train edits do not retroactively change
// the ticket.
//
// Fields:
//  ID               - primary key identifier.
//  TrainID          - booked train.
//  WagonID          - booked wagon.
//  SeatID           - held seat; the seat stays Held for the
//                     lifetime of the ticket.
//  PassengerName    - full passenger name.
//  PassengerEmail   - owning identity; ownership checks compare it
//                     against the authenticated email.
//  PassengerPhone   - contact phone.
//  DiscountCategory - category the price was computed with.
//  DiscountPercent  - applied discount as a percentage (0..100).
//  BasePrice        - train base price times wagon multiplier.
//  FinalPrice       - base price after the discount.
//  TicketNumber     - opaque unique booking reference.
//  IsPaid           - payment flag; flipping it is the only mutation.
//  DepartureTime    - departure copied from the train at issuance.
//  ArrivalTime      - arrival copied from the train at issuance.
//  CreatedAt        - issuance timestamp.
type Ticket struct {
	ID               uint64           // tickets.id
	TrainID          uint64           // tickets.train_id
	WagonID          uint64           // tickets.wagon_id
	SeatID           uint64           // tickets.seat_id
	PassengerName    string           // tickets.passenger_name
	PassengerEmail   string           // tickets.passenger_email
	PassengerPhone   string           // tickets.passenger_phone
	DiscountCategory DiscountCategory // tickets.discount_category
	DiscountPercent  float64          // tickets.discount_percent
	BasePrice        float64          // tickets.base_price
	FinalPrice       float64          // tickets.final_price
	TicketNumber     string           // tickets.ticket_number
	IsPaid           bool             // tickets.is_paid
	DepartureTime    time.Time        // tickets.departure_time
	ArrivalTime      time.Time        // tickets.arrival_time
	CreatedAt        time.Time        // tickets.created_at
}
