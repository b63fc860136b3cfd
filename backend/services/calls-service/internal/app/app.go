package app

import (
	"context"
	"database/sql"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libredis "billcalls/backend/libs/redis"
	"billcalls/backend/services/calls-service/internal/billing"
	appconfig "billcalls/backend/services/calls-service/internal/config"
	"billcalls/backend/services/calls-service/internal/db"
	httpserver "billcalls/backend/services/calls-service/internal/http"
	"billcalls/backend/services/calls-service/internal/http/handlers"
	redisstore "billcalls/backend/services/calls-service/internal/redis"
	"billcalls/backend/services/calls-service/internal/repository"
	"billcalls/backend/services/calls-service/internal/service"
)

// App wires dependencies for the calls service.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	tariff, err := cfg.BillingTariff()
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	calculator, err := billing.NewCalculator(tariff)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	sqlDB, err := db.NewPostgres(ctx, cfg.Database.DSN, cfg.Database.MaxOpenConns)
	if err != nil {
		return nil, err
	}
	application := &App{db: sqlDB, logger: logger}

	if cfg.Database.Migrate {
		if err := db.Migrate(ctx, sqlDB); err != nil {
			application.Close()
			return nil, err
		}
	}

	var cache service.InvoiceCache
	if cfg.CacheEnabled() {
		client, err := libredis.NewRedisClient(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			application.Close()
			return nil, err
		}
		application.redis = client
		cache = redisstore.NewInvoiceCache(client, cfg.InvoiceCacheTTL())
	} else {
		logger.Info("invoice cache disabled")
	}

	callRepo := repository.NewCallRepository(sqlDB)
	invoiceRepo := repository.NewInvoiceRepository(sqlDB)
	callLogSvc := service.NewCallLogService(callRepo, calculator, cache, logger)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, cache, logger, nil)

	routes := httpserver.Routes{
		CallLog:     handlers.NewCallLogHandler(callLogSvc, logger).ServeHTTP,
		CallInvoice: handlers.NewCallInvoiceHandler(invoiceSvc, logger),
		Health:      handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes, httpserver.RouterOptions{
		JWTSecret: cfg.JWT.Secret,
		Logger:    logger,
	})
	application.server = httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	logger.Info("calls service configured", zap.Stringer("tariff", tariff))
	return application, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
