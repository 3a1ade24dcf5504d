package dto

import (
	"tourdesk/internal/pricing"
)

// QuoteRequest prices a booking draft. When Offer is set the draft offer is
// quoted instead of the stored one, so the period form can preview changes.
type QuoteRequest struct {
	QtyAdult       int `json:"qty_adult"        validate:"min=1"`
	QtyAdultSingle int `json:"qty_adult_single" validate:"min=0"`
	QtyChildBed    int `json:"qty_child_bed"    validate:"min=0"`
	QtyChildNoBed  int `json:"qty_child_nobed"  validate:"min=0"`
	QtyInfant      int `json:"qty_infant"       validate:"min=0"`
	QtyTriple      int `json:"qty_triple"       validate:"min=0"`
	QtyTwin        int `json:"qty_twin"         validate:"min=0"`
	QtyDouble      int `json:"qty_double"       validate:"min=0"`

	Offer *UpsertOfferRequest `json:"offer" validate:"omitempty"`
}

func (q *QuoteRequest) Quantities() pricing.Quantities {
	return pricing.Quantities{
		QtyAdult:       q.QtyAdult,
		QtyAdultSingle: q.QtyAdultSingle,
		QtyChildBed:    q.QtyChildBed,
		QtyChildNoBed:  q.QtyChildNoBed,
		QtyInfant:      q.QtyInfant,
		QtyTriple:      q.QtyTriple,
		QtyTwin:        q.QtyTwin,
		QtyDouble:      q.QtyDouble,
	}
}

type QuoteResponse struct {
	Prices              pricing.Prices `json:"prices"`
	TotalAmount         float64        `json:"total_amount"`
	TotalPassengers     int            `json:"total_passengers"`
	TotalRooms          int            `json:"total_rooms"`
	IsRoomOverAllocated bool           `json:"is_room_over_allocated"`
	Overage             int            `json:"overage"`
	Message             string         `json:"message,omitempty"`
}

func (r *QuoteResponse) FromResult(prices pricing.Prices, result pricing.Result) {
	r.Prices = prices
	r.TotalAmount = result.TotalAmount
	r.TotalPassengers = result.TotalPassengers
	r.TotalRooms = result.TotalRooms
	r.IsRoomOverAllocated = result.IsRoomOverAllocated
	r.Overage = result.Overage()

	if err := pricing.ValidateAllocation(result); err != nil {
		r.Message = err.Error()
	}
}
