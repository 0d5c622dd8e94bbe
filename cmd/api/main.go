package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/CE2L/ICT-Project1-KOR/internal/config"
	"github.com/CE2L/ICT-Project1-KOR/internal/database"
	"github.com/CE2L/ICT-Project1-KOR/internal/handler"
	"github.com/CE2L/ICT-Project1-KOR/internal/middleware"
	"github.com/CE2L/ICT-Project1-KOR/internal/models"
	"github.com/CE2L/ICT-Project1-KOR/internal/repository"
	"github.com/CE2L/ICT-Project1-KOR/internal/router"
	"github.com/CE2L/ICT-Project1-KOR/internal/service"
	"github.com/CE2L/ICT-Project1-KOR/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL, &models.InterviewRun{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis not configured, run cache disabled")
	}

	registry := buildProviderRegistry(cfg, logger)
	if len(registry.Names()) == 0 {
		log.Fatal("no ai provider configured, set at least one provider api key")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	runRepo := repository.NewInterviewRunRepository(db)

	analysisService := service.NewAnalysisService(validate, logger)
	interviewService := service.NewInterviewService(analysisService, validate, logger)
	runService := service.NewRunService(runRepo, redisClient, cfg.RunCacheTTL, logger)

	interviewHandler := handler.NewInterviewHandler(analysisService, interviewService, runService, registry, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		InterviewHandler: interviewHandler,
		AnalysisLimiter:  middleware.RateLimit("interviews", cfg.AnalysisRateLimit, cfg.AnalysisRateWindow),
		ProviderNames:    registry.Names(),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildProviderRegistry(cfg config.Config, logger zerolog.Logger) *ai.Registry {
	registry := ai.NewRegistry(cfg.AIProvider)

	var openAI *ai.OpenAIProvider
	if cfg.OpenAIAPIKey != "" {
		provider, err := ai.NewOpenAIProvider(ai.OpenAIConfig{
			APIKey:         cfg.OpenAIAPIKey,
			RequestTimeout: cfg.ProviderTimeout,
			Logger:         logger,
		})
		if err != nil {
			log.Fatalf("failed to configure openai provider: %v", err)
		}
		openAI = provider
		registry.Add("openai", provider)
	}

	if cfg.FriendliAPIKey != "" {
		// Friendli has no embedding endpoint; embeddings ride on the
		// OpenAI provider when one is configured.
		var embedder ai.Embedder
		if openAI != nil {
			embedder = openAI
		}
		provider, err := ai.NewFriendliProvider(ai.FriendliConfig{
			APIKey:         cfg.FriendliAPIKey,
			RequestTimeout: cfg.ProviderTimeout,
			Embedder:       embedder,
			Logger:         logger,
		})
		if err != nil {
			log.Fatalf("failed to configure friendli provider: %v", err)
		}
		registry.Add("friendli", provider)
	}

	if cfg.GeminiAPIKey != "" {
		provider, err := ai.NewGeminiProvider(context.Background(), ai.GeminiConfig{
			APIKey:         cfg.GeminiAPIKey,
			RequestTimeout: cfg.ProviderTimeout,
			Logger:         logger,
		})
		if err != nil {
			log.Fatalf("failed to configure gemini provider: %v", err)
		}
		registry.Add("gemini", provider)
	}

	logger.Info().Strs("providers", registry.Names()).Str("default", cfg.AIProvider).Msg("ai providers configured")
	return registry
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
