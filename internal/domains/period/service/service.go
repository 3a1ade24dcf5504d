package service

import (
	"context"
	"fmt"

	"tourdesk/config"
	"tourdesk/infras/kafka"
	"tourdesk/infras/metrics"
	"tourdesk/infras/otel"
	"tourdesk/internal/domains/period/model"
	"tourdesk/internal/domains/period/model/dto"
	"tourdesk/internal/domains/period/repository"
	tourModel "tourdesk/internal/domains/tour/model"
	tourRepo "tourdesk/internal/domains/tour/repository"
	"tourdesk/internal/pricing"
	"tourdesk/shared"
	"tourdesk/shared/cache"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/failure"
	"tourdesk/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetPeriod    = "period:get"
	cacheGetAllPeriod = "period:gets"
	cacheCountPeriod  = "period:count"
)

type Period interface {
	Create(ctx context.Context, req dto.CreatePeriodRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPeriodsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.PeriodResponse, error)
	Update(ctx context.Context, req dto.UpdatePeriodRequest, id string) error
	Delete(ctx context.Context, id string) error

	GetOffer(ctx context.Context, id string) (dto.OfferResponse, error)
	UpsertOffer(ctx context.Context, req dto.UpsertOfferRequest, id string) error
	Quote(ctx context.Context, req dto.QuoteRequest, id string) (dto.QuoteResponse, error)
	ApplyBulk(ctx context.Context, update model.BulkUpdate) (dto.BulkUpdateResponse, error)
	Sync(ctx context.Context, req dto.SyncPeriodRequest) (string, error)
}

type serviceImpl struct {
	repo      repository.Period
	offerRepo repository.Offer
	tourRepo  tourRepo.Tour
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	kafka     kafka.Client
	metrics   metrics.Metrics
	resolver  pricing.Resolver
}

func New(
	repo repository.Period,
	offerRepo repository.Offer,
	tourRepo tourRepo.Tour,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	kafka kafka.Client,
	metrics metrics.Metrics,
) Period {
	return &serviceImpl{
		repo:      repo,
		offerRepo: offerRepo,
		tourRepo:  tourRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		kafka:     kafka,
		metrics:   metrics,
		resolver:  pricing.NewResolver(pricing.ModeFromStrict(cfg.Pricing.StrictMode)),
	}
}

func (s *serviceImpl) getTour(ctx context.Context, filter gDto.FilterGroup) (tourModel.Tour, error) {
	tour, err := s.tourRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tour")

		return tour, fmt.Errorf("failed to get tour: %w", err)
	}

	if tour.ID == constant.Empty {
		return tour, failure.BadRequestFromString("tour does not exist") // nolint:wrapcheck
	}

	return tour, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePeriodRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tour, err := s.getTour(ctx, shared.FilterByID(req.TourID, tourModel.FieldID, tourModel.TableName))
	if err != nil {
		return "", err
	}

	period, err := req.ToModel(shared.Actor(ctx), tour.DurationDays)
	if err != nil {
		return "", failure.BadRequest(err) // nolint:wrapcheck
	}

	if period.EndDate.Before(period.StartDate) {
		return "", failure.BadRequestFromString("end_date cannot be before start_date") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, period); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeUniqueViolation) {
			return "", failure.Conflict("tour already has a period starting on that date") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create period")

		return "", fmt.Errorf("failed to create period: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllPeriod)
		shared.InvalidateCaches(c, s.cache, cacheCountPeriod)
	}()

	return period.ID, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPeriodsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllPeriod, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for periods")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count periods")

		return res, fmt.Errorf("failed to count periods: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get periods")

		return res, fmt.Errorf("failed to get periods: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save periods to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountPeriod, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for period count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count periods")

		return res, fmt.Errorf("failed to count periods: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save period count to cache")
		}
	}()

	return res, nil
}

// Get returns the period together with its offer, when it has one.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PeriodResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetPeriod, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for period")

		return res, nil
	}

	period, err := s.getModel(ctx, id)
	if err != nil {
		return res, err
	}

	offer, err := s.offerRepo.Get(ctx, shared.FilterByID(id, model.FieldPeriodID, model.OfferTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get period offer")

		return res, fmt.Errorf("failed to get period offer: %w", err)
	}

	res.FromModel(period)

	if offer.PeriodID != constant.Empty {
		res.Offer = &dto.OfferResponse{}
		res.Offer.FromModel(offer)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save period to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) getModel(ctx context.Context, id string) (model.Period, error) {
	period, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get period")

		return period, fmt.Errorf("failed to get period: %w", err)
	}

	if period.ID == constant.Empty {
		return period, failure.NotFound("period not found") // nolint:wrapcheck
	}

	return period, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePeriodRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	current, err := s.getModel(ctx, id)
	if err != nil {
		return err
	}

	start, end := current.StartDate, current.EndDate

	if req.StartDate != constant.Empty {
		if start, err = timezone.ParseDate(req.StartDate); err != nil {
			return failure.BadRequest(err) // nolint:wrapcheck
		}
	}

	if req.EndDate != constant.Empty {
		if end, err = timezone.ParseDate(req.EndDate); err != nil {
			return failure.BadRequest(err) // nolint:wrapcheck
		}
	}

	if end.Before(start) {
		return failure.BadRequestFromString("end_date cannot be before start_date") // nolint:wrapcheck
	}

	if req.Capacity != nil && *req.Capacity < current.Booked {
		return failure.BadRequest(model.ErrCapacityBelowSold) // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, shared.Actor(ctx))

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeUniqueViolation) {
			return failure.Conflict("tour already has a period starting on that date") // nolint:wrapcheck
		}

		// a booking landed between the read above and this write
		if shared.IsPqError(err, constant.PqErrorCodeCheckViolation) {
			return failure.Conflict(model.ErrCapacityBelowSold.Error()) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to update period")

		return fmt.Errorf("failed to update period: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete removes the period and, through the foreign key, its offer.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if period exists")

		return fmt.Errorf("failed to check if period exists: %w", err)
	}

	if !exist {
		return failure.NotFound("period not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeFkViolation) {
			return failure.Conflict("period still has bookings") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete period")

		return fmt.Errorf("failed to delete period: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, ids ...string) {
	go func() {
		c := context.WithoutCancel(ctx)

		for _, id := range ids {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetPeriod, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete period from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllPeriod)
		shared.InvalidateCaches(c, s.cache, cacheCountPeriod)
	}()
}

// publish is fire and forget: the write already committed and consumers
// reconcile from the database.
func (s *serviceImpl) publish(ctx context.Context, message kafka.Message) {
	if err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.PeriodEvents, message); err != nil {
		log.Error().Err(err).Str("type", message.Type).Str("key", message.Key).Msg("failed to publish period event")
	}
}
