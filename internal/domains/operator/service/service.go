package service

import (
	"context"
	"fmt"
	"strings"

	"tourdesk/config"
	"tourdesk/infras/otel"
	"tourdesk/internal/domains/operator/model"
	"tourdesk/internal/domains/operator/model/dto"
	"tourdesk/internal/domains/operator/repository"
	"tourdesk/shared"
	"tourdesk/shared/cache"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/failure"
	"tourdesk/shared/password"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetOperator    = "operator:get"
	cacheGetAllOperator = "operator:gets"
	cacheCountOperator  = "operator:count"
)

type Operator interface {
	Create(ctx context.Context, req dto.CreateOperatorRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetOperatorsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.OperatorResponse, error)
	Update(ctx context.Context, req dto.UpdateOperatorRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Operator
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Operator, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Operator {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateOperatorRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	emailFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    strings.ToLower(strings.TrimSpace(req.Email)),
				Table:    model.TableName,
			},
		},
	}

	exists, err := s.repo.Exist(ctx, emailFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if operator exists")

		return "", fmt.Errorf("failed to check if operator exists: %w", err)
	}

	if exists {
		return "", failure.Conflict("email already registered") // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	operator := req.ToModel(shared.Actor(ctx), hashedPassword)

	if err = s.repo.Insert(ctx, operator); err != nil {
		log.Error().Err(err).Msg("failed to create operator")

		return "", fmt.Errorf("failed to create operator: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllOperator)
		shared.InvalidateCaches(c, s.cache, cacheCountOperator)
	}()

	return operator.ID, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetOperatorsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllOperator, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for operators")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count operators")

		return res, fmt.Errorf("failed to count operators: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get operators")

		return res, fmt.Errorf("failed to get operators: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save operators to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountOperator, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for operator count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count operators")

		return res, fmt.Errorf("failed to count operators: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save operator count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.OperatorResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetOperator, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for operator")

		return res, nil
	}

	operator, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get operator")

		return res, fmt.Errorf("failed to get operator: %w", err)
	}

	if operator.ID == "" {
		return res, failure.NotFound("operator not found") // nolint:wrapcheck
	}

	res.FromModel(operator)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save operator to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateOperatorRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateOperatorRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	actor := shared.Actor(ctx)
	if actor == id && (req.Role != nil || (req.Active != nil && !*req.Active)) {
		return failure.BadRequestFromString("operators cannot change their own role or deactivate themselves") // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if operator exists")

		return fmt.Errorf("failed to check if operator exists: %w", err)
	}

	if !exist {
		return failure.NotFound("operator not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, actor)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update operator")

		return fmt.Errorf("failed to update operator: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if shared.Actor(ctx) == id {
		return failure.BadRequestFromString("operators cannot delete themselves") // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if operator exists")

		return fmt.Errorf("failed to check if operator exists: %w", err)
	}

	if !exist {
		return failure.NotFound("operator not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete operator")

		return fmt.Errorf("failed to delete operator: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetOperator, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete operator from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllOperator)
		shared.InvalidateCaches(c, s.cache, cacheCountOperator)
	}()
}
