package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeHoldStore records the cutoffs it was asked to sweep with and
// returns a canned result.
type fakeHoldStore struct {
	mu       sync.Mutex
	cutoffs  []time.Time
	released []uint64
	err      error
}

func (f *fakeHoldStore) ReleaseExpiredHolds(_ context.Context, cutoff time.Time) ([]uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	if f.err != nil {
		return nil, f.err
	}
	return f.released, nil
}

func (f *fakeHoldStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func TestReaperSweep(t *testing.T) {
	t.Parallel()

	t.Run("reports released count", func(t *testing.T) {
		t.Parallel()
		store := &fakeHoldStore{released: []uint64{3, 7, 12}}
		r := NewHoldReaper(store, 5*time.Minute, time.Minute)

		n, err := r.Sweep(context.Background())
		if err != nil {
			t.Fatalf("Sweep: %v", err)
		}
		if n != 3 {
			t.Errorf("released = %d, want 3", n)
		}
	})

	t.Run("cutoff is ttl in the past", func(t *testing.T) {
		t.Parallel()
		store := &fakeHoldStore{}
		ttl := 5 * time.Minute
		r := NewHoldReaper(store, ttl, time.Minute)

		before := time.Now().UTC().Add(-ttl)
		if _, err := r.Sweep(context.Background()); err != nil {
			t.Fatalf("Sweep: %v", err)
		}
		after := time.Now().UTC().Add(-ttl)

		store.mu.Lock()
		cutoff := store.cutoffs[0]
		store.mu.Unlock()
		if cutoff.Before(before) || cutoff.After(after) {
			t.Errorf("cutoff %v outside [%v, %v]", cutoff, before, after)
		}
	})

	t.Run("store errors propagate", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("deadlock")
		r := NewHoldReaper(&fakeHoldStore{err: boom}, time.Minute, time.Minute)
		if _, err := r.Sweep(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("err = %v, want %v", err, boom)
		}
	})
}

func TestReaperRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	store := &fakeHoldStore{err: errors.New("sweep failed")}
	r := NewHoldReaper(store, time.Minute, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	// Let a few ticks land; sweep errors must not stop the loop.
	time.Sleep(40 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
	if store.calls() == 0 {
		t.Error("Run never swept")
	}
}

func TestNewHoldReaperDefaults(t *testing.T) {
	t.Parallel()

	r := NewHoldReaper(&fakeHoldStore{}, 0, 0)
	if r.ttl != 5*time.Minute {
		t.Errorf("default ttl = %v, want 5m", r.ttl)
	}
	if r.interval != time.Minute {
		t.Errorf("default interval = %v, want 1m", r.interval)
	}
}
