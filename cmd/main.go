package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ttogle918/KOCRUIT/config"
	"github.com/ttogle918/KOCRUIT/db"
	"github.com/ttogle918/KOCRUIT/internal/auth/handler"
	"github.com/ttogle918/KOCRUIT/internal/auth/middleware"
	"github.com/ttogle918/KOCRUIT/internal/auth/oauth"
	repo "github.com/ttogle918/KOCRUIT/internal/auth/repository/postgres"
	"github.com/ttogle918/KOCRUIT/internal/auth/revocation"
	"github.com/ttogle918/KOCRUIT/internal/auth/service"
	"github.com/ttogle918/KOCRUIT/internal/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.Initialize(cfg.Env); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.L().Fatalw("database connection failed", "error", err)
	}
	defer dbPool.Close()

	revocationStore, err := revocation.NewRedisStore(ctx, revocation.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.L().Fatalw("revocation store connection failed", "error", err)
	}
	defer revocationStore.Close()

	userRepo := repo.NewPostgresRepository(dbPool)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	userService := service.NewUserService(userRepo, tokenService, revocationStore)
	oauthService := oauth.NewService(userRepo)
	authHandler := handler.NewAuthHandler(userService, oauthService, tokenService, cfg.FrontendURL)
	gate := middleware.NewGate(tokenService, userRepo, revocationStore, cfg.PublicPathPrefixes)

	app := fiber.New(fiber.Config{
		ErrorHandler: handler.ErrorHandler,
	})

	handler.RegisterRoutes(app, authHandler, gate.Handler())

	logger.L().Infow("starting server", "port", cfg.Port, "env", cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.L().Fatalw("server stopped", "error", err)
	}
}
