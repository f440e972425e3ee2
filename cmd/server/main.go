package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/ai"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/auth"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/cache"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/config"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/database"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/logging"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/routes"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/services"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup("info")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	stdout := logging.Setup(cfg.LogLevel)

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Optional generation cache
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err = cache.Connect(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			slog.Warn("redis unavailable, generation cache disabled", "error", err)
			redisClient = nil
		} else {
			slog.Info("redis connected")
		}
	}
	generationCache := cache.New(redisClient, "c2c:gen:")

	// AI gateway
	providerSettings, err := cfg.Provider()
	if err != nil {
		slog.Error("invalid AI provider", "error", err)
		os.Exit(1)
	}
	provider, err := ai.NewProvider(providerSettings, cfg.AITimeout)
	if err != nil {
		slog.Error("AI provider setup failed", "error", err)
		os.Exit(1)
	}
	gateway := ai.NewGateway(provider, cfg.AITimeout)
	slog.Info("AI gateway ready", "provider", gateway.ProviderName(), "model", providerSettings.Model)

	// Services
	st := store.New(database.DB)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	authService := services.NewAuthService(st, tokens, auth.NewGoogleVerifier(cfg.GoogleClientID), cfg)
	userService := services.NewUserService(st, cfg)
	savedCourseService := services.NewSavedCourseService(st)
	generationService := services.NewGenerationService(gateway, generationCache, cfg.AICacheTTL)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, tokens, userService, routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Profile:      handlers.NewProfileHandler(userService),
		Generation:   handlers.NewGenerationHandler(generationService),
		SavedCourses: handlers.NewSavedCourseHandler(savedCourseService),
		Admin:        handlers.NewAdminHandler(userService),
		Health:       handlers.NewHealthHandler(database.DB, generationCache),
	}, routes.DefaultLimits)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
