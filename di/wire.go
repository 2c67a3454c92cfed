//go:build wireinject
// +build wireinject

package di

import (
	"cumbrecita/config"
	"cumbrecita/infras/gateways/chatbot"
	"cumbrecita/infras/gateways/payments"
	"cumbrecita/infras/gateways/reservations"
	"cumbrecita/infras/jwt"
	"cumbrecita/infras/kafka"
	"cumbrecita/infras/otel"
	"cumbrecita/infras/postgres"
	"cumbrecita/infras/redis"
	chatHandler "cumbrecita/internal/handlers/chat"
	checkoutHandler "cumbrecita/internal/handlers/checkout"
	reconciliationHandler "cumbrecita/internal/handlers/reconciliation"
	"cumbrecita/shared/cache"
	"cumbrecita/transport/http"
	"cumbrecita/transport/http/middleware"
	"cumbrecita/transport/http/router"
	"cumbrecita/worker"

	"cumbrecita/internal/domains/chat/extract"
	chatService "cumbrecita/internal/domains/chat/service"
	checkoutService "cumbrecita/internal/domains/checkout/service"
	reconciliationRepository "cumbrecita/internal/domains/reconciliation/repository"
	reconciliationService "cumbrecita/internal/domains/reconciliation/service"

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
)

var gateways = wire.NewSet(
	payments.New,
	reservations.New,
	chatbot.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	extract.NewRegexExtractor,
)

var checkoutDomain = wire.NewSet(
	checkoutService.New,
)

var chatDomain = wire.NewSet(
	chatService.New,
)

var reconciliationDomain = wire.NewSet(
	reconciliationRepository.New,
	reconciliationService.New,
)

var domains = wire.NewSet(
	checkoutDomain,
	chatDomain,
	reconciliationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	checkoutHandler.New,
	chatHandler.New,
	reconciliationHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		gateways,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

var workerInfrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	kafka.New,
	payments.New,
)

func InitializeWorker() *worker.Worker {
	wire.Build(
		configurations,
		workerInfrastructures,
		reconciliationDomain,
		worker.New,
	)

	return &worker.Worker{}
}
