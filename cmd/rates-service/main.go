package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/remitip/rates-service/internal/app/background"
	"github.com/remitip/rates-service/internal/config"
	"github.com/remitip/rates-service/internal/delivery/http/handlers"
	"github.com/remitip/rates-service/internal/delivery/http/router"
	"github.com/remitip/rates-service/internal/domain"
	"github.com/remitip/rates-service/internal/infrastructure/kafka"
	"github.com/remitip/rates-service/internal/infrastructure/metrics"
	"github.com/remitip/rates-service/internal/infrastructure/migrate"
	"github.com/remitip/rates-service/internal/infrastructure/official"
	"github.com/remitip/rates-service/internal/infrastructure/platforms"
	"github.com/remitip/rates-service/internal/infrastructure/postgres"
	"github.com/remitip/rates-service/internal/infrastructure/postgres/repository"
	"github.com/remitip/rates-service/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	setupLogger(cfg.LogConfig)

	// Init database
	db := postgres.MustInitDB(cfg)
	if cfg.Migrations.Path != "" {
		if err := migrate.Run(db, cfg.Migrations.Path); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Repositories
	comparisonRepo := repository.NewDefaultComparisonRepository(db)
	performanceRepo := repository.NewDefaultPerformanceRepository(db)
	usageLogRepo := repository.NewDefaultUsageLogRepository(db)
	popularityRepo := repository.NewDefaultCorridorPopularityRepository(db)

	// Platform adapters
	adapters := []domain.PlatformAdapter{
		platforms.NewWiseAdapter(),
		platforms.NewRemitlyAdapter(),
		platforms.NewMoneyGramAdapter(),
		platforms.NewWorldRemitAdapter(),
		platforms.NewAirwallexAdapter(),
		platforms.NewRevolutAdapter(),
		platforms.NewXEAdapter(),
		platforms.NewRiaAdapter(),
		platforms.NewXoomAdapter(),
	}
	registry := usecase.NewPlatformRegistry(adapters, usecase.DefaultEnabledPlatforms(), usecase.DefaultRestrictions())

	// Official rate client
	officialClient := official.NewExchangeRateAPIClient(cfg.OfficialRate.BaseURL, cfg.OfficialRate.APIKey)

	// Kafka publisher (optional)
	var publisher domain.EventPublisher
	if cfg.KafkaService.Enabled {
		brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
		publisher = kafka.NewKafkaPublisher(brokers, cfg.KafkaService.Topic)
	}

	rateMetrics := metrics.NewRateMetrics()

	// Usecases
	comparisonUsecase := usecase.NewDefaultComparisonUsecase(
		registry,
		officialClient,
		comparisonRepo,
		performanceRepo,
		usageLogRepo,
		publisher,
		rateMetrics,
	)
	analyticsUsecase := usecase.NewDefaultAnalyticsUsecase(comparisonRepo)

	// Scheduled jobs
	tasks := background.NewBackgroundTasks(comparisonUsecase, analyticsUsecase, comparisonRepo, popularityRepo)
	tasks.Start(context.Background())
	defer tasks.Stop()

	// HTTP server
	ratesHandler := handlers.NewRatesHandler(comparisonUsecase)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsUsecase, tasks)
	engine := router.NewRouter(&router.Config{
		RatesHandler:     ratesHandler,
		AnalyticsHandler: analyticsHandler,
	})

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	slog.Info("rates service started", "addr", addr, "env", cfg.Env)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
