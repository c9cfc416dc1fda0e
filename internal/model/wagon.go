package model

// WagonType classifies a wagon and determines its price multiplier.
type WagonType string

// Known wagon types.  Platzkart is the open-plan base class, coupe a
// four-berth compartment, suite a two-berth luxury compartment.
const (
	WagonPlatzkart WagonType = "platzkart"
	WagonCoupe     WagonType = "coupe"
	WagonSuite     WagonType = "suite"
)

// wagonMultipliers maps each wagon type to its fixed price multiplier.
var wagonMultipliers = map[WagonType]float64{
	WagonPlatzkart: 1.0,
	WagonCoupe:     1.5,
	WagonSuite:     2.0,
}

// Valid reports whether t is one of the known wagon types.
func (t WagonType) Valid() bool {
	_, ok := wagonMultipliers[t]
	return ok
}

// Multiplier returns the price multiplier for the wagon type.  Unknown
// types fall back to the platzkart multiplier of 1.0.
func (t WagonType) Multiplier() float64 {
	if m, ok := wagonMultipliers[t]; ok {
		return m
	}
	return 1.0
}

// Wagon is one car of a train.  A wagon owns its seats; seats are
// provisioned 1..TotalSeats when the wagon is created.
//
// Fields:
//  ID              - primary key identifier.
//  TrainID         - owning train.
//  WagonNumber     - ordinal position within the train.
//  WagonType       - platzkart, coupe or suite.
//  TotalSeats      - number of seats, > 0.
//  PriceMultiplier - multiplier applied to the train base price,
//                    fixed by the wagon type.
type Wagon struct {
	ID              uint64    // wagons.id
	TrainID         uint64    // wagons.train_id
	WagonNumber     uint32    // wagons.wagon_number
	WagonType       WagonType // wagons.wagon_type
	TotalSeats      uint32    // wagons.total_seats
	PriceMultiplier float64   // wagons.price_multiplier
}
