package service

import "errors"

// ErrSeatUnavailable is returned when the seat reservation race is
// lost or the seat is already held.  Retrying the same seat will fail
// deterministically until it is released, so callers should prompt for
// a different seat instead of retrying.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrValidation is returned for malformed input.  Validation happens
// before any reservation attempt, so a validation failure is never
// partially applied.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the requester does not own the ticket
// being operated on.
var ErrForbidden = errors.New("forbidden")
