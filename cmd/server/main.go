package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/config"
	"github.com/pushp314/coursehub-backend/internal/database"
	"github.com/pushp314/coursehub-backend/internal/handlers"
	"github.com/pushp314/coursehub-backend/internal/payments"
	"github.com/pushp314/coursehub-backend/internal/repository"
	"github.com/pushp314/coursehub-backend/internal/routes"
	"github.com/pushp314/coursehub-backend/internal/services"
	"github.com/pushp314/coursehub-backend/internal/storage"
	"github.com/pushp314/coursehub-backend/pkg/logger"
)

func main() {
	// 0. Load Config & Initialize Logger
	config.LoadConfig()
	cfg := config.AppConfig

	// production = JSON, development = pretty
	logger.Init(cfg.Env)
	logger.Info().Str("environment", cfg.Env).Msg("Starting CourseHub Backend...")

	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET is required")
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Connect Database & Cache
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}

	ctx := context.Background()
	cache := database.NewCache(ctx, cfg)
	defer cache.Close()

	// 2. Media storage and payments
	media, err := storage.New(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize media storage")
	}

	var gateway services.PaymentGateway
	if cfg.PaymentsConfigured() {
		gateway = payments.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	} else {
		logger.Warn().Msg("Razorpay keys missing, paid checkout disabled")
	}

	// 3. Wire services and routes
	repo := repository.New(db)
	svc := services.New(repo, cache, media, gateway, cfg.PaymentCurrency)
	r := routes.Setup(handlers.New(cfg, repo, cache, media, svc))

	// 4. Start Server with graceful shutdown
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
		// Uploads of course videos need more than the API default
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("🛑 Shutting down server gracefully...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("✅ Server exited gracefully")
}
