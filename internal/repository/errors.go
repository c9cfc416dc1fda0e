// Package repository implements data access over MySQL for trains,
// wagons, seats and tickets.  Sentinel errors defined here let the
// service and handler layers distinguish failure cases without
// inspecting error text.
package repository

import "errors"

// ErrTrainNotFound is returned when a train lookup yields no rows.
var ErrTrainNotFound = errors.New("train not found")

// ErrWagonNotFound is returned when a wagon lookup yields no rows.
var ErrWagonNotFound = errors.New("wagon not found")

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrTicketNotFound is returned when a ticket lookup yields no rows.
var ErrTicketNotFound = errors.New("ticket not found")
