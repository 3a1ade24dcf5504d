package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCategory   = errors.New("pricing: unknown category")
	ErrMissingPrice      = errors.New("pricing: missing price")
	ErrNegativeNetPrice  = errors.New("pricing: discount exceeds price")
	ErrRoomOverAllocated = errors.New("pricing: room over-allocated")
)

// PriceError reports which category failed to resolve in strict mode.
type PriceError struct {
	Category Category
	Err      error
}

func (e *PriceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Category)
}

func (e *PriceError) Unwrap() error {
	return e.Err
}

// RoomOverAllocatedError is returned by ValidateAllocation when more rooms
// are requested than there are travelers to occupy them.
type RoomOverAllocatedError struct {
	Overage         int
	TotalRooms      int
	TotalPassengers int
}

func (e *RoomOverAllocatedError) Error() string {
	return fmt.Sprintf("room count exceeds traveler count by %d (rooms: %d, travelers: %d)",
		e.Overage, e.TotalRooms, e.TotalPassengers)
}

func (e *RoomOverAllocatedError) Is(target error) bool {
	return target == ErrRoomOverAllocated
}

// AsRoomOverAllocated extracts the allocation details from err, if any.
func AsRoomOverAllocated(err error) *RoomOverAllocatedError {
	if err == nil {
		return nil
	}

	var overAllocated *RoomOverAllocatedError
	if errors.As(err, &overAllocated) {
		return overAllocated
	}

	return nil
}
