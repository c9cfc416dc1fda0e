package model

import (
	"testing"
	"time"
)

func TestWagonTypeMultiplier(t *testing.T) {
	t.Parallel()

	cases := []struct {
		wagonType WagonType
		want      float64
	}{
		{WagonPlatzkart, 1.0},
		{WagonCoupe, 1.5},
		{WagonSuite, 2.0},
		{WagonType("sleeper"), 1.0}, // unknown falls back to base
	}
	for _, tc := range cases {
		if got := tc.wagonType.Multiplier(); got != tc.want {
			t.Errorf("%q.Multiplier() = %v, want %v", tc.wagonType, got, tc.want)
		}
	}
}

func TestWagonTypeValid(t *testing.T) {
	t.Parallel()

	for _, wt := range []WagonType{WagonPlatzkart, WagonCoupe, WagonSuite} {
		if !wt.Valid() {
			t.Errorf("%q.Valid() = false, want true", wt)
		}
	}
	for _, wt := range []WagonType{"", "sleeper", "PLATZKART"} {
		if wt.Valid() {
			t.Errorf("%q.Valid() = true, want false", wt)
		}
	}
}

func TestSeatBookable(t *testing.T) {
	t.Parallel()

	free := Seat{ID: 1, WagonID: 1, SeatNumber: 1, State: SeatFree}
	if !free.Bookable() {
		t.Error("free seat must be bookable")
	}

	now := time.Now().UTC()
	held := Seat{ID: 2, WagonID: 1, SeatNumber: 2, State: SeatHeld, ReservedAt: &now}
	if held.Bookable() {
		t.Error("held seat must not be bookable")
	}
}
