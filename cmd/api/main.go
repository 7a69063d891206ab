package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/routes"
)

func main() {
	cfg := config.LoadConfig()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	db := client.Database(cfg.MongoDB)

	users := repository.NewUserRepository(db.Collection("users"))
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("create user indexes")
	}

	responses := cache.New[any](cfg.CacheTTL)
	go responses.Janitor(ctx, cfg.CacheTTL)

	var issuer *auth.TokenIssuer
	if cfg.AdminEnabled() {
		issuer = auth.NewTokenIssuer(cfg.JWTSecret, 12*time.Hour)
	} else {
		log.Warn().Msg("JWT_SECRET not set, admin actions are open")
	}

	router := gin.New()
	router.Use(middleware.Logger(log), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(router, routes.Dependencies{
		Products: repository.NewProductRepository(db.Collection("products")),
		Orders:   repository.NewOrderRepository(db.Collection("orders")),
		Users:    users,
		Settings: repository.NewSettingsRepository(db.Collection("settings")),
		Cache:    responses,
		Issuer:   issuer,
		Credentials: auth.AdminCredentials{
			Username:     cfg.AdminUsername,
			PasswordHash: cfg.AdminPasswordHash,
			Hasher:       auth.NewBcryptHasher(bcrypt.DefaultCost),
		},
		RateLimiter: middleware.NewIPRateLimiter(cfg.RateLimitPerMin),
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, client)
		},
		Log: log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
