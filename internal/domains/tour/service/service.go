package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"tourdesk/config"
	"tourdesk/infras/otel"
	"tourdesk/infras/s3"
	"tourdesk/internal/domains/tour/model"
	"tourdesk/internal/domains/tour/model/dto"
	"tourdesk/internal/domains/tour/repository"
	"tourdesk/shared"
	"tourdesk/shared/base64"
	"tourdesk/shared/cache"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/failure"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetTour    = "tour:get"
	cacheGetAllTour = "tour:gets"
	cacheCountTour  = "tour:count"
)

type Tour interface {
	Create(ctx context.Context, req dto.CreateTourRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetToursResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.TourResponse, error)
	Update(ctx context.Context, req dto.UpdateTourRequest, id string) error
	UpdateCover(ctx context.Context, req dto.UpdateCoverRequest, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Tour
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Tour, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Tour {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func coverFileName(original string) string {
	if ext := path.Ext(original); ext != "" {
		return uuid.NewString() + ext
	}

	return uuid.NewString()
}

func (s *serviceImpl) codeTaken(ctx context.Context, code string) (bool, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCode,
				Operator: gDto.FilterOperatorEq,
				Value:    code,
				Table:    model.TableName,
			},
		},
	}

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check tour code: %w", err)
	}

	return exist, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTourRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	taken, err := s.codeTaken(ctx, strings.ToUpper(strings.TrimSpace(req.Code)))
	if err != nil {
		log.Error().Err(err).Msg("failed to check tour code")

		return "", err
	}

	if taken {
		return "", failure.Conflict("tour code already exists") // nolint:wrapcheck
	}

	bucketName := s.cfg.External.S3.BucketName

	coverURL := constant.Empty
	uploadedObjectName := constant.Empty

	if req.Cover != nil {
		filename := coverFileName(req.Cover.Filename)

		coverURL, err = s.s3.UploadFile(ctx, bucketName, model.EntityName, req.CoverFile, req.Cover, filename)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload tour cover to S3")

			return "", failure.BadGateway("failed to upload tour cover") // nolint:wrapcheck
		}

		uploadedObjectName = filename
	}

	tour := req.ToModel(shared.Actor(ctx), coverURL)

	if err = s.repo.Insert(ctx, tour); err != nil {
		if uploadedObjectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, uploadedObjectName)
		}

		if shared.IsPqError(err, constant.PqErrorCodeUniqueViolation) {
			return "", failure.Conflict("tour code already exists") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create tour")

		return "", fmt.Errorf("failed to create tour: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllTour)
		shared.InvalidateCaches(c, s.cache, cacheCountTour)
	}()

	return tour.ID, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetToursResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTour, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tours")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tours")

		return res, fmt.Errorf("failed to count tours: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tours")

		return res, fmt.Errorf("failed to get tours: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tours to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountTour, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tour count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tours")

		return res, fmt.Errorf("failed to count tours: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tour count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TourResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetTour, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tour")

		return res, nil
	}

	tour, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tour")

		return res, fmt.Errorf("failed to get tour: %w", err)
	}

	if tour.ID == constant.Empty {
		return res, failure.NotFound("tour not found") // nolint:wrapcheck
	}

	res.FromModel(tour)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tour to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) getModel(ctx context.Context, id string) (model.Tour, error) {
	tour, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tour")

		return tour, fmt.Errorf("failed to get tour: %w", err)
	}

	if tour.ID == constant.Empty {
		return tour, failure.NotFound("tour not found") // nolint:wrapcheck
	}

	return tour, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTourRequest, id string) (err error) {
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

	bucketName := s.cfg.External.S3.BucketName

	coverURL := constant.Empty
	uploadedObjectName := constant.Empty

	if req.Cover != nil {
		filename := coverFileName(req.Cover.Filename)

		coverURL, err = s.s3.UploadFile(ctx, bucketName, model.EntityName, req.CoverFile, req.Cover, filename)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload tour cover to S3")

			return failure.BadGateway("failed to upload tour cover") // nolint:wrapcheck
		}

		uploadedObjectName = filename
	}

	updatedFields := shared.TransformFields(req, shared.Actor(ctx))
	if coverURL != constant.Empty {
		updatedFields[model.FieldCoverImage] = coverURL
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update tour")

		if uploadedObjectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, uploadedObjectName)
		}

		return fmt.Errorf("failed to update tour: %w", err)
	}

	if coverURL != constant.Empty {
		s.deleteCover(ctx, current.CoverImage)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UpdateCover(ctx context.Context, req dto.UpdateCoverRequest, id string) (url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateCover")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	contentType, data, err := base64.Decode(req.Cover)
	if err != nil {
		return "", failure.BadRequest(err) // nolint:wrapcheck
	}

	current, err := s.getModel(ctx, id)
	if err != nil {
		return "", err
	}

	bucketName := s.cfg.External.S3.BucketName
	filename := uuid.NewString() + "." + base64.Extension(contentType)

	url, err = s.s3.UploadFileBytes(ctx, bucketName, model.EntityName, filename, contentType, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload tour cover to S3")

		return "", failure.BadGateway("failed to upload tour cover") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(struct{}{}, shared.Actor(ctx))
	updatedFields[model.FieldCoverImage] = url

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update tour cover")

		_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, filename)

		return "", fmt.Errorf("failed to update tour cover: %w", err)
	}

	s.deleteCover(ctx, current.CoverImage)
	s.invalidate(ctx, id)

	return url, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	current, err := s.getModel(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeFkViolation) {
			return failure.Conflict("tour still has periods or bookings") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete tour")

		return fmt.Errorf("failed to delete tour: %w", err)
	}

	s.deleteCover(ctx, current.CoverImage)
	s.invalidate(ctx, id)

	return nil
}

// deleteCover is best effort; an orphaned object is preferable to a failed write.
func (s *serviceImpl) deleteCover(ctx context.Context, coverURL string) {
	if coverURL == constant.Empty {
		return
	}

	bucketName := s.cfg.External.S3.BucketName

	objectName := s.s3.GetObjectNameFromURL(bucketName, coverURL)
	if objectName == constant.Empty {
		return
	}

	if err := s.s3.DeleteFile(ctx, bucketName, constant.Empty, objectName); err != nil {
		log.Warn().Err(err).Str("object", objectName).Msg("failed to delete old tour cover")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTour, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete tour from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllTour)
		shared.InvalidateCaches(c, s.cache, cacheCountTour)
	}()
}
