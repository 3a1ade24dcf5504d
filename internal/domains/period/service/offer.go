package service

import (
	"context"
	"fmt"

	"tourdesk/infras/kafka"
	"tourdesk/internal/domains/period/model"
	"tourdesk/internal/domains/period/model/dto"
	"tourdesk/internal/pricing"
	"tourdesk/shared"
	"tourdesk/shared/constant"
	"tourdesk/shared/failure"

	"github.com/rs/zerolog/log"
)

func (s *serviceImpl) getOffer(ctx context.Context, id string) (model.Offer, error) {
	offer, err := s.offerRepo.Get(ctx, shared.FilterByID(id, model.FieldPeriodID, model.OfferTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get period offer")

		return offer, fmt.Errorf("failed to get period offer: %w", err)
	}

	if offer.PeriodID == constant.Empty {
		return offer, failure.NotFound("period offer not found") // nolint:wrapcheck
	}

	return offer, nil
}

func (s *serviceImpl) GetOffer(ctx context.Context, id string) (res dto.OfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetOffer")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	offer, err := s.getOffer(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(offer)

	return res, nil
}

// UpsertOffer replaces the offer of a period. Strict pricing also rejects
// offers the resolver could not price.
func (s *serviceImpl) UpsertOffer(ctx context.Context, req dto.UpsertOfferRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpsertOffer")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := shared.Actor(ctx)

	offer, err := req.ToModel(id, actor)
	if err != nil {
		return failure.BadRequest(err) // nolint:wrapcheck
	}

	if s.cfg.Pricing.StrictMode {
		if _, err = s.resolver.ResolveAll(offer.Pricing()); err != nil {
			return pricing.ToFailure(err) // nolint:wrapcheck
		}
	}

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if period exists")

		return fmt.Errorf("failed to check if period exists: %w", err)
	}

	if !exist {
		return failure.NotFound("period not found") // nolint:wrapcheck
	}

	if err = s.offerRepo.Upsert(ctx, offer); err != nil {
		log.Error().Err(err).Msg("failed to save period offer")

		return fmt.Errorf("failed to save period offer: %w", err)
	}

	s.invalidate(ctx, id)
	s.publish(ctx, kafka.NewMessage(model.EventOfferUpdated, id, model.PeriodEvent{PeriodID: id, Actor: actor}))

	return nil
}
