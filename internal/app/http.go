package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/enj100/oduel-auth-server/internal/config"
	"github.com/enj100/oduel-auth-server/internal/discord"
	"github.com/enj100/oduel-auth-server/internal/logger"
	"github.com/enj100/oduel-auth-server/internal/middleware"
	"github.com/enj100/oduel-auth-server/internal/store"
	"github.com/enj100/oduel-auth-server/internal/verify"
)

const settingsCacheTTL = time.Minute

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	links := store.NewLinkStore(infra.DB)
	settings := store.NewCachedSettings(
		store.NewSettingsStore(infra.DB),
		infra.Redis.Client,
		settingsCacheTTL,
		logger.Named("settings"),
	)

	provider := discord.NewProvider(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL())
	bot := discord.NewBotClient(cfg.BotToken)

	handler := verify.NewHandler(
		provider,
		bot,
		links,
		settings,
		cfg.GuildID,
		logger.Named("verify"),
	)

	limiter := middleware.NewRedisLimiter(
		infra.Redis.Client,
		cfg.RateLimitMax,
		cfg.RateLimitWindow,
	)

	// ----------------------------
	// Router
	// ----------------------------

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RateLimit(limiter, logger.Named("ratelimit")))

	handler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if err := infra.Redis.Close(); err != nil {
			return err
		}
		return infra.DB.Close()
	}, nil
}
