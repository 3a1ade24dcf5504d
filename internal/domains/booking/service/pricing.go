package service

import (
	"context"
	"fmt"
	"math"

	"tourdesk/internal/domains/booking/model/dto"
	periodModel "tourdesk/internal/domains/period/model"
	"tourdesk/internal/pricing"
	"tourdesk/shared"
	"tourdesk/shared/constant"
	"tourdesk/shared/failure"

	"github.com/rs/zerolog/log"
)

// totalTolerance absorbs float rounding between the form and the server.
const totalTolerance = 0.005

// price resolves unit prices from the period offer, lets operator typed
// prices win and runs the allocation gate. A period without an offer prices
// at zero unless the operator supplied the prices.
func (s *serviceImpl) price(ctx context.Context, req dto.BookingRequest, operation string) (pricing.Prices, pricing.Result, error) {
	var prices pricing.Prices

	offer, err := s.offerRepo.Get(ctx, shared.FilterByID(req.PeriodID, periodModel.FieldPeriodID, periodModel.OfferTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get period offer")

		return prices, pricing.Result{}, fmt.Errorf("failed to get period offer: %w", err)
	}

	if offer.PeriodID != constant.Empty {
		prices, err = s.resolver.ResolveAll(offer.Pricing())
		if err != nil {
			return prices, pricing.Result{}, pricing.ToFailure(err) // nolint:wrapcheck
		}
	}

	prices = req.ApplyOverrides(prices)
	result := pricing.Compute(req.Quantities(), prices)

	if err = pricing.ValidateAllocation(result); err != nil {
		s.metrics.IncOverAllocationRejected(operation)

		return prices, result, pricing.ToFailure(err) // nolint:wrapcheck
	}

	if req.TotalAmount != nil && math.Abs(*req.TotalAmount-result.TotalAmount) > totalTolerance {
		return prices, result, failure.BadRequestFromString( // nolint:wrapcheck
			fmt.Sprintf("total_amount %.2f does not match computed total %.2f", *req.TotalAmount, result.TotalAmount),
		)
	}

	return prices, result, nil
}
