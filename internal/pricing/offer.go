// Package pricing turns a period offer and a set of passenger and room
// quantities into a quoted total and a room allocation verdict.
//
// Everything in this package is pure and synchronous: no I/O, no shared
// state, safe to call from any goroutine.
package pricing

// Category is a passenger class priced by an offer.
type Category string

const (
	CategoryAdult      Category = "adult"
	CategorySingle     Category = "single"
	CategoryChildBed   Category = "child_bed"
	CategoryChildNoBed Category = "child_nobed"
	CategoryInfant     Category = "infant"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryAdult,
	CategorySingle,
	CategoryChildBed,
	CategoryChildNoBed,
	CategoryInfant,
}

// Offer is the price-bearing part of a period offer. Nil means the operator
// left the field empty.
type Offer struct {
	PriceAdult      *float64
	PriceSingle     *float64
	PriceChildBed   *float64
	PriceChildNoBed *float64
	PriceInfant     *float64

	DiscountAdult      *float64
	DiscountSingle     *float64
	DiscountChildBed   *float64
	DiscountChildNoBed *float64

	NetPriceAdult  *float64
	NetPriceSingle *float64
}

// Prices holds one resolved net unit price per category.
type Prices struct {
	Adult      float64 `json:"adult"`
	Single     float64 `json:"single"`
	ChildBed   float64 `json:"child_bed"`
	ChildNoBed float64 `json:"child_nobed"`
	Infant     float64 `json:"infant"`
}

// Get returns the price of a single category.
func (p Prices) Get(category Category) float64 {
	switch category {
	case CategoryAdult:
		return p.Adult
	case CategorySingle:
		return p.Single
	case CategoryChildBed:
		return p.ChildBed
	case CategoryChildNoBed:
		return p.ChildNoBed
	case CategoryInfant:
		return p.Infant
	default:
		return 0
	}
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}

	return *v
}
