package service

import (
	"context"
	"fmt"

	"tourdesk/config"
	"tourdesk/infras/kafka"
	"tourdesk/infras/metrics"
	"tourdesk/infras/otel"
	"tourdesk/internal/domains/booking/model"
	"tourdesk/internal/domains/booking/model/dto"
	"tourdesk/internal/domains/booking/repository"
	periodRepo "tourdesk/internal/domains/period/repository"
	"tourdesk/internal/pricing"
	"tourdesk/shared"
	"tourdesk/shared/cache"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/failure"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	// cached period reads show booked seats, so seat moves evict them too
	cacheGetPeriod    = "period:get"
	cacheGetAllPeriod = "period:gets"

	operationCreate = "create"
	operationUpdate = "update"
)

type Booking interface {
	Create(ctx context.Context, req dto.BookingRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.BookingRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo       repository.Booking
	periodRepo periodRepo.Period
	offerRepo  periodRepo.Offer
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	kafka      kafka.Client
	metrics    metrics.Metrics
	resolver   pricing.Resolver
}

func New(
	repo repository.Booking,
	periodRepo periodRepo.Period,
	offerRepo periodRepo.Offer,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	kafka kafka.Client,
	metrics metrics.Metrics,
) Booking {
	return &serviceImpl{
		repo:       repo,
		periodRepo: periodRepo,
		offerRepo:  offerRepo,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		kafka:      kafka,
		metrics:    metrics,
		resolver:   pricing.NewResolver(pricing.ModeFromStrict(cfg.Pricing.StrictMode)),
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.BookingRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	prices, result, err := s.price(ctx, req, operationCreate)
	if err != nil {
		return "", err
	}

	actor := shared.Actor(ctx)
	booking := req.ToModel(constant.Empty, actor, prices, result)

	err = s.repo.Transaction(ctx, func(tx *sqlx.Tx) error {
		period, err := s.lockPeriod(ctx, tx, booking.PeriodID)
		if err != nil {
			return err
		}

		if period.TourID != booking.TourID {
			return failure.BadRequestFromString("period does not belong to tour") // nolint:wrapcheck
		}

		if err = s.adjustSeats(ctx, tx, period, booking.Seats()); err != nil {
			return err
		}

		if err = s.repo.InsertTx(ctx, tx, booking); err != nil {
			log.Error().Err(err).Msg("failed to create booking")

			return fmt.Errorf("failed to create booking: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	s.invalidate(ctx, []string{booking.PeriodID})
	s.publish(ctx, kafka.NewMessage(model.EventCreated, booking.ID, booking.Event(actor)))

	return booking.ID, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// Update re-prices the booking and moves its seats, across periods when the
// booking was moved to another departure.
func (s *serviceImpl) Update(ctx context.Context, req dto.BookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	prices, result, err := s.price(ctx, req, operationUpdate)
	if err != nil {
		return err
	}

	actor := shared.Actor(ctx)
	updated := req.ToModel(id, actor, prices, result)

	var previousPeriodID string

	err = s.repo.Transaction(ctx, func(tx *sqlx.Tx) error {
		current, err := s.lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}

		previousPeriodID = current.PeriodID

		if req.Status == constant.Empty {
			updated.Status = current.Status
		}

		if err = s.moveSeats(ctx, tx, current, updated); err != nil {
			return err
		}

		if err = s.repo.UpdateTx(ctx, tx, dto.UpdateFields(updated), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to update booking")

			return fmt.Errorf("failed to update booking: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, shared.UniqueStrings([]string{previousPeriodID, updated.PeriodID}), id)
	s.publish(ctx, kafka.NewMessage(model.EventUpdated, id, updated.Event(actor)))

	return nil
}

// Delete removes the booking and gives its seats back to the period.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var deleted model.Booking

	err = s.repo.Transaction(ctx, func(tx *sqlx.Tx) error {
		current, err := s.lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}

		if seats := current.Seats(); seats > 0 {
			period, err := s.lockPeriod(ctx, tx, current.PeriodID)
			if err != nil {
				return err
			}

			if err = s.adjustSeats(ctx, tx, period, -seats); err != nil {
				return err
			}
		}

		if err = s.repo.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking")

			return fmt.Errorf("failed to delete booking: %w", err)
		}

		deleted = current

		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, []string{deleted.PeriodID}, id)
	s.publish(ctx, kafka.NewMessage(model.EventDeleted, id, deleted.Event(shared.Actor(ctx))))

	return nil
}

func (s *serviceImpl) lockBooking(ctx context.Context, tx *sqlx.Tx, id string) (model.Booking, error) {
	booking, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, periodIDs []string, ids ...string) {
	go func() {
		c := context.WithoutCancel(ctx)

		for _, id := range ids {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking from cache")
			}
		}

		for _, id := range periodIDs {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetPeriod, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete period from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, cacheGetAllPeriod)
	}()
}

func (s *serviceImpl) publish(ctx context.Context, message kafka.Message) {
	if err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.BookingEvents, message); err != nil {
		log.Error().Err(err).Str("type", message.Type).Str("key", message.Key).Msg("failed to publish booking event")
	}
}
