package pricing

// Quantities are the passenger and room counts of a booking draft.
// QtyAdultSingle is both a passenger count and a room count: a single-room
// occupant always takes one room.
type Quantities struct {
	QtyAdult       int `json:"qty_adult"`
	QtyAdultSingle int `json:"qty_adult_single"`
	QtyChildBed    int `json:"qty_child_bed"`
	QtyChildNoBed  int `json:"qty_child_nobed"`
	QtyInfant      int `json:"qty_infant"`
	QtyTriple      int `json:"qty_triple"`
	QtyTwin        int `json:"qty_twin"`
	QtyDouble      int `json:"qty_double"`
}

// Result is the derived pricing of a booking draft.
type Result struct {
	TotalAmount         float64 `json:"total_amount"`
	TotalPassengers     int     `json:"total_passengers"`
	TotalRooms          int     `json:"total_rooms"`
	IsRoomOverAllocated bool    `json:"is_room_over_allocated"`
}

// Overage is how many rooms exceed the traveler count, 0 when allocation is fine.
func (r Result) Overage() int {
	if !r.IsRoomOverAllocated {
		return 0
	}

	return r.TotalRooms - r.TotalPassengers
}

// Compute prices a booking draft. A single-room adult pays the adult fare
// plus the single supplement. Infants pay their fare but take neither a
// seat nor a room.
func Compute(quantities Quantities, prices Prices) Result {
	total := float64(quantities.QtyAdult)*prices.Adult +
		float64(quantities.QtyAdultSingle)*(prices.Adult+prices.Single) +
		float64(quantities.QtyChildBed)*prices.ChildBed +
		float64(quantities.QtyChildNoBed)*prices.ChildNoBed +
		float64(quantities.QtyInfant)*prices.Infant

	passengers := quantities.QtyAdult + quantities.QtyAdultSingle + quantities.QtyChildBed + quantities.QtyChildNoBed
	rooms := quantities.QtyTriple + quantities.QtyTwin + quantities.QtyDouble + quantities.QtyAdultSingle

	return Result{
		TotalAmount:         total,
		TotalPassengers:     passengers,
		TotalRooms:          rooms,
		IsRoomOverAllocated: rooms > passengers,
	}
}

// ValidateAllocation is the submission gate: it must pass before a booking
// is created or updated.
func ValidateAllocation(result Result) error {
	if !result.IsRoomOverAllocated {
		return nil
	}

	return &RoomOverAllocatedError{
		Overage:         result.Overage(),
		TotalRooms:      result.TotalRooms,
		TotalPassengers: result.TotalPassengers,
	}
}
