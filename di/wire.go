//go:build wireinject
// +build wireinject

package di

import (
	"tally/config"
	"tally/infras/jwt"
	"tally/infras/kafka"
	"tally/infras/otel"
	"tally/infras/postgres"
	"tally/infras/redis"
	"tally/infras/s3"
	"tally/shared/cache"
	"tally/transport/http"
	"tally/transport/http/middleware"
	"tally/transport/http/router"

	bookingRepository "tally/internal/domains/booking/repository"
	bookingService "tally/internal/domains/booking/service"
	resourceRepository "tally/internal/domains/resource/repository"
	resourceService "tally/internal/domains/resource/service"
	tenantRepository "tally/internal/domains/tenant/repository"
	tenantService "tally/internal/domains/tenant/service"

	"tally/internal/automation"
	"tally/internal/automation/jobs"
	runlogRepository "tally/internal/automation/runlog/repository"
	automationService "tally/internal/automation/service"
	"tally/internal/automation/trigger"
	"tally/internal/domains/booking/conflict"
	"tally/internal/notify"

	automationHandler "tally/internal/handlers/automation"
	bookingHandler "tally/internal/handlers/booking"
	resourceHandler "tally/internal/handlers/resource"
	tenantHandler "tally/internal/handlers/tenant"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	conflict.New,
	bookingService.New,
)

var resourceDomain = wire.NewSet(
	resourceRepository.New,
	resourceService.New,
)

var tenantDomain = wire.NewSet(
	tenantRepository.New,
	tenantService.New,
)

var domains = wire.NewSet(
	bookingDomain,
	resourceDomain,
	tenantDomain,
)

var automationEngine = wire.NewSet(
	notify.New,
	automation.NewRunner,
	jobs.NewReminder,
	jobs.NewAutoConfirm,
	jobs.NewNoShow,
	ProvideRegistry,
	runlogRepository.New,
	automation.NewArchiver,
	automationService.NewEngine,
	trigger.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	resourceHandler.New,
	tenantHandler.New,
	automationHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		automationEngine,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
