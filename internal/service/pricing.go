// Package service contains the business logic of the reservation
// engine: pricing, the ticket lifecycle and the hold reaper.  Services
// depend on small store interfaces so they can be exercised against
// fakes in tests.
package service

import "github.com/iliyamo/railway-ticket-reservation/internal/model"

// discountRates maps each discount category to its fixed rate.  The
// table is deliberately the only source of discount values; both the
// pre-purchase quote and the price stamped onto a ticket come from
// CalculatePrice, so the two always agree for the same inputs.
var discountRates = map[model.DiscountCategory]float64{
	model.DiscountChild:     0.50,
	model.DiscountStudent:   0.25,
	model.DiscountPensioner: 0.40,
	model.DiscountNone:      0.0,
}

// DiscountRate returns the rate for a category.  Unknown categories
// get 0 (priced as none), not an error.
func DiscountRate(category model.DiscountCategory) float64 {
	return discountRates[category]
}

// PriceQuote is the result of a price computation.
type PriceQuote struct {
	BasePrice        float64                `json:"base_price"`
	DiscountPercent  float64                `json:"discount_percent"`
	FinalPrice       float64                `json:"final_price"`
	DiscountCategory model.DiscountCategory `json:"discount_category"`
}

// CalculatePrice computes the price of one seat: train base price
// times the wagon multiplier, reduced by the category's discount rate.
// Pure and deterministic; no clock, no randomness, no side effects.
func CalculatePrice(trainBasePrice, wagonMultiplier float64, category model.DiscountCategory) PriceQuote {
	base := trainBasePrice * wagonMultiplier
	rate := DiscountRate(category)
	return PriceQuote{
		BasePrice:        base,
		DiscountPercent:  rate * 100,
		FinalPrice:       base * (1 - rate),
		DiscountCategory: category,
	}
}
