package service

import (
	"math"
	"testing"

	"github.com/iliyamo/railway-ticket-reservation/internal/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculatePrice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		basePrice  float64
		multiplier float64
		category   model.DiscountCategory
		wantBase   float64
		wantPct    float64
		wantFinal  float64
	}{
		{
			name:       "student in coupe",
			basePrice:  2000,
			multiplier: 1.5,
			category:   model.DiscountStudent,
			wantBase:   3000,
			wantPct:    25,
			wantFinal:  2250,
		},
		{
			name:       "child in platzkart",
			basePrice:  1000,
			multiplier: 1.0,
			category:   model.DiscountChild,
			wantBase:   1000,
			wantPct:    50,
			wantFinal:  500,
		},
		{
			name:       "pensioner in suite",
			basePrice:  1500,
			multiplier: 2.0,
			category:   model.DiscountPensioner,
			wantBase:   3000,
			wantPct:    40,
			wantFinal:  1800,
		},
		{
			name:       "no discount",
			basePrice:  2000,
			multiplier: 1.5,
			category:   model.DiscountNone,
			wantBase:   3000,
			wantPct:    0,
			wantFinal:  3000,
		},
		{
			name:       "unknown category priced as none",
			basePrice:  2000,
			multiplier: 1.5,
			category:   model.DiscountCategory("veteran"),
			wantBase:   3000,
			wantPct:    0,
			wantFinal:  3000,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := CalculatePrice(tc.basePrice, tc.multiplier, tc.category)
			if !almostEqual(got.BasePrice, tc.wantBase) {
				t.Errorf("BasePrice = %v, want %v", got.BasePrice, tc.wantBase)
			}
			if !almostEqual(got.DiscountPercent, tc.wantPct) {
				t.Errorf("DiscountPercent = %v, want %v", got.DiscountPercent, tc.wantPct)
			}
			if !almostEqual(got.FinalPrice, tc.wantFinal) {
				t.Errorf("FinalPrice = %v, want %v", got.FinalPrice, tc.wantFinal)
			}
			if got.DiscountCategory != tc.category {
				t.Errorf("DiscountCategory = %q, want %q", got.DiscountCategory, tc.category)
			}
		})
	}
}

func TestCalculatePriceDeterministic(t *testing.T) {
	t.Parallel()

	first := CalculatePrice(1234.56, 1.5, model.DiscountStudent)
	for i := 0; i < 100; i++ {
		if got := CalculatePrice(1234.56, 1.5, model.DiscountStudent); got != first {
			t.Fatalf("call %d returned %+v, want %+v", i, got, first)
		}
	}
}

func TestDiscountRate(t *testing.T) {
	t.Parallel()

	if got := DiscountRate(model.DiscountChild); !almostEqual(got, 0.50) {
		t.Errorf("child rate = %v, want 0.50", got)
	}
	if got := DiscountRate(model.DiscountCategory("")); got != 0 {
		t.Errorf("empty category rate = %v, want 0", got)
	}
}
