package pricing_test

import (
	"errors"
	"net/http"
	"testing"

	"tourdesk/internal/pricing"
	"tourdesk/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestToFailure(t *testing.T) {
	t.Run("over allocation carries details", func(t *testing.T) {
		err := pricing.ToFailure(pricing.ValidateAllocation(pricing.Result{TotalRooms: 4, TotalPassengers: 3, IsRoomOverAllocated: true}))

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.Equal(t, pricing.AllocationDetails{Overage: 1, TotalRooms: 4, TotalPassengers: 3}, failure.GetDetails(err))
	})

	t.Run("strict mode price errors", func(t *testing.T) {
		_, err := pricing.NewResolver(pricing.ModeStrict).Resolve(pricing.Offer{}, pricing.CategoryAdult)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(pricing.ToFailure(err)))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		cause := errors.New("db down")

		assert.Equal(t, cause, pricing.ToFailure(cause))
	})
}
