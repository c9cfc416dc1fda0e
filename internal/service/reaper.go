package service

import (
	"context"
	"log"
	"time"
)

// ExpiredHoldStore frees seats that have been Held since before the
// cutoff without an owning ticket, returning the released seat IDs.
type ExpiredHoldStore interface {
	ReleaseExpiredHolds(ctx context.Context, cutoff time.Time) ([]uint64, error)
}

// HoldReaper periodically frees held-but-ticketless seats.  A booking
// that dies between the seat hold and the ticket insert leaves the
// seat Held with no ticket; the in-request compensating release covers
// ordinary failures, and the reaper covers crashes, so no seat leaks
// into permanent unavailability.
type HoldReaper struct {
	store    ExpiredHoldStore
	ttl      time.Duration // how long a ticketless hold may live
	interval time.Duration // how often to sweep
}

// NewHoldReaper constructs a HoldReaper.  The ttl must comfortably
// exceed the longest plausible create-ticket request so the reaper
// never races an in-flight booking.
func NewHoldReaper(store ExpiredHoldStore, ttl, interval time.Duration) *HoldReaper {
	if store == nil {
		panic("nil store passed to NewHoldReaper")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &HoldReaper{store: store, ttl: ttl, interval: interval}
}

// Sweep runs one pass and returns how many seats were released.
func (r *HoldReaper) Sweep(ctx context.Context) (int, error) {
	released, err := r.store.ReleaseExpiredHolds(ctx, time.Now().UTC().Add(-r.ttl))
	if err != nil {
		return 0, err
	}
	return len(released), nil
}

// Run sweeps on the configured interval until the context is
// cancelled.  Sweep errors are logged and do not stop the loop.
func (r *HoldReaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.Sweep(ctx)
			if err != nil {
				log.Printf("hold-reaper: sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("hold-reaper: released %d expired seat hold(s)", n)
			}
		}
	}
}
