package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/api"
	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/cache"
	"github.com/carson-networks/finance-tracker/internal/config"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/operator"
	"github.com/carson-networks/finance-tracker/internal/service"
	"github.com/carson-networks/finance-tracker/internal/storage"
)

const memoryCacheEntries = 1024

// newCache never fails on an unreachable Redis: analytics are computed
// uncached until the server answers again.
func newCache(ctx context.Context, envConfig *config.Config, logger *logrus.Logger) cache.Cache {
	if envConfig.CacheBackend == config.CacheBackendMemory {
		return cache.NewMemoryCache(memoryCacheEntries)
	}
	redisCache := cache.NewRedisCache(envConfig.RedisAddress, envConfig.RedisPassword, envConfig.RedisDB)
	if err := redisCache.Ping(ctx); err != nil {
		logger.WithError(err).WithField("address", envConfig.RedisAddress).Warn("cache.RedisCache.Ping")
	}
	return redisCache
}

func main() {
	logger := logging.SetupLogging()
	logger.Info("finance-tracker starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbStorage, err := storage.NewStorage(envConfig)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer func() {
		if err := dbStorage.Close(); err != nil {
			logger.WithError(err).Error("storage.Close")
		}
	}()

	analyticsCache := newCache(ctx, envConfig, logger)
	defer func() {
		if err := analyticsCache.Close(); err != nil {
			logger.WithError(err).Error("cache.Close")
		}
	}()

	delegator := operator.NewOperatorDelegator(dbStorage, envConfig.OperatorWorkers)
	delegator.Start()
	defer delegator.Stop()

	tokens := auth.NewTokenIssuer(envConfig.JWTSecret, envConfig.TokenLifespan)
	svc := service.NewService(dbStorage, delegator, analyticsCache, tokens, logger)

	httpRest := api.Rest{
		Logger:  logger,
		Port:    envConfig.HTTPPort,
		Service: svc,
		Storage: dbStorage,
		Tokens:  tokens,
	}
	if err := httpRest.Serve(ctx); err != nil {
		logger.WithError(err).Error("api.Rest.Serve")
	}

	logger.Info("finance-tracker stopped")
}
