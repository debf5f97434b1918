package app

import (
	"context"

	"github.com/enj100/oduel-auth-server/internal/config"
	"github.com/enj100/oduel-auth-server/internal/db"
	"github.com/enj100/oduel-auth-server/internal/logger"
	"github.com/enj100/oduel-auth-server/internal/redis"
)

type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

// setupInfra establishes durable storage before the service accepts any
// traffic. The database connect retries on its own; redis is checked
// once since the limiter and settings cache both degrade without it.
func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Connect(ctx, cfg.DatabaseDSN, cfg.DBConnectAttempts, cfg.DBConnectDelay)
	if err != nil {
		return nil, err
	}

	redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}

	logger.L().Info("infrastructure ready")

	return &Infra{
		DB:    database,
		Redis: redisClient,
	}, nil
}
