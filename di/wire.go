//go:build wireinject
// +build wireinject

package di

import (
	"tourdesk/config"
	"tourdesk/infras/jwt"
	"tourdesk/infras/metrics"
	"tourdesk/infras/s3"
	"tourdesk/internal/workers/wholesaler"
	"tourdesk/permissions"
	"tourdesk/shared/cache"
	"tourdesk/transport/http"
	"tourdesk/transport/http/middleware"
	"tourdesk/transport/http/router"

	"github.com/google/wire"

	authService "tourdesk/internal/domains/auth/service"
	bookingRepository "tourdesk/internal/domains/booking/repository"
	bookingService "tourdesk/internal/domains/booking/service"
	operatorRepository "tourdesk/internal/domains/operator/repository"
	operatorService "tourdesk/internal/domains/operator/service"
	periodRepository "tourdesk/internal/domains/period/repository"
	periodService "tourdesk/internal/domains/period/service"
	tourRepository "tourdesk/internal/domains/tour/repository"
	tourService "tourdesk/internal/domains/tour/service"
	authHandler "tourdesk/internal/handlers/auth"
	bookingHandler "tourdesk/internal/handlers/booking"
	operatorHandler "tourdesk/internal/handlers/operator"
	periodHandler "tourdesk/internal/handlers/period"
	tourHandler "tourdesk/internal/handlers/tour"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	providePostgres,
	provideOtel,
	provideRedis,
	provideKafka,
	jwt.New,
	s3.New,
	metrics.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var operatorDomain = wire.NewSet(
	operatorRepository.New,
	operatorService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var tourDomain = wire.NewSet(
	tourRepository.New,
	tourService.New,
)

var periodDomain = wire.NewSet(
	periodRepository.New,
	periodRepository.NewOffer,
	periodService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	operatorDomain,
	authDomain,
	tourDomain,
	periodDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	operatorHandler.New,
	tourHandler.New,
	periodHandler.New,
	bookingHandler.New,
	router.New,
)

var workers = wire.NewSet(
	wire.Bind(new(wholesaler.PeriodSyncer), new(periodService.Period)),
	wholesaler.New,
)

func InitializeService() (*http.HTTP, func()) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}, nil
}

func InitializeWorker() (wholesaler.Consumer, func()) {
	wire.Build(
		config.Get,
		providePostgres,
		provideOtel,
		provideRedis,
		provideKafka,
		metrics.New,
		sharedHelpers,
		tourRepository.New,
		periodDomain,
		workers,
	)

	return wholesaler.Consumer{}, nil
}
