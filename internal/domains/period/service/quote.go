package service

import (
	"context"

	"tourdesk/internal/domains/period/model"
	"tourdesk/internal/domains/period/model/dto"
	"tourdesk/internal/pricing"
	"tourdesk/shared"
	"tourdesk/shared/constant"
	"tourdesk/shared/failure"
)

// Quote prices a booking draft against the stored offer, or against the
// draft offer in the request. Nothing is persisted and an over-allocated
// draft is reported, not rejected.
func (s *serviceImpl) Quote(ctx context.Context, req dto.QuoteRequest, id string) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Quote")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var offer model.Offer

	if req.Offer != nil {
		offer, err = req.Offer.ToModel(id, shared.Actor(ctx))
		if err != nil {
			return res, failure.BadRequest(err) // nolint:wrapcheck
		}
	} else {
		offer, err = s.getOffer(ctx, id)
		if err != nil {
			return res, err
		}
	}

	prices, err := s.resolver.ResolveAll(offer.Pricing())
	if err != nil {
		return res, pricing.ToFailure(err) // nolint:wrapcheck
	}

	result := pricing.Compute(req.Quantities(), prices)
	s.metrics.IncQuote(result.IsRoomOverAllocated)

	res.FromResult(prices, result)

	return res, nil
}
