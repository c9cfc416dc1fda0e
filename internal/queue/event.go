// Package queue defines message payloads exchanged over the message
// broker and the publisher/consumer for them.
package queue

// TicketIssuedEvent is published after a ticket is successfully
// persisted.  It carries enough for downstream consumers to log or
// notify without querying the primary database.
type TicketIssuedEvent struct {
	TicketID      uint64  `json:"ticket_id"`
	TicketNumber  string  `json:"ticket_number"`
	PassengerName string  `json:"passenger_name"`
	TrainNumber   string  `json:"train_number"`
	RouteFrom     string  `json:"route_from"`
	RouteTo       string  `json:"route_to"`
	WagonNumber   uint32  `json:"wagon_number"`
	SeatNumber    uint32  `json:"seat_number"`
	FinalPrice    float64 `json:"final_price"`
	DepartureTime string  `json:"departure_time"`
	IssuedAt      string  `json:"issued_at"`
}
