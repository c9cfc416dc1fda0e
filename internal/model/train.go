package model

import "time"

// Train describes a scheduled service between two stations.  A train
// owns its wagons; deleting a train cascades to wagons and seats.
// Apart from the active flag a train is immutable once created -
// issued tickets carry their own copy of the departure and arrival
// times so later edits never rewrite history.
//
// Fields:
//  ID            - primary key identifier.
//  TrainNumber   - public train designation, unique.
//  RouteFrom     - origin station name.
//  RouteTo       - destination station name.
//  DepartureTime - scheduled departure (UTC).
//  ArrivalTime   - scheduled arrival (UTC), strictly after departure.
//  DurationHours - trip duration in whole hours.
//  BasePrice     - base seat price before wagon multiplier, > 0.
//  IsActive      - whether the train is bookable.
type Train struct {
	ID            uint64    // trains.id
	TrainNumber   string    // trains.train_number
	RouteFrom     string    // trains.route_from
	RouteTo       string    // trains.route_to
	DepartureTime time.Time // trains.departure_time
	ArrivalTime   time.Time // trains.arrival_time
	DurationHours uint32    // trains.duration_hours
	BasePrice     float64   // trains.base_price
	IsActive      bool      // trains.is_active
}
