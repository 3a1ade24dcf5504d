package pricing

import (
	"errors"
	"net/http"

	"tourdesk/shared/failure"
)

// AllocationDetails is the body clients get alongside an over-allocation error.
type AllocationDetails struct {
	Overage         int `json:"overage"`
	TotalRooms      int `json:"total_rooms"`
	TotalPassengers int `json:"total_passengers"`
}

// ToFailure maps pricing errors to 400 responses and passes anything else through.
func ToFailure(err error) error {
	if overAllocated := AsRoomOverAllocated(err); overAllocated != nil {
		return failure.WithDetails(http.StatusBadRequest, overAllocated.Error(), AllocationDetails{ // nolint:wrapcheck
			Overage:         overAllocated.Overage,
			TotalRooms:      overAllocated.TotalRooms,
			TotalPassengers: overAllocated.TotalPassengers,
		})
	}

	if errors.Is(err, ErrMissingPrice) || errors.Is(err, ErrNegativeNetPrice) || errors.Is(err, ErrUnknownCategory) {
		return failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	return err
}
