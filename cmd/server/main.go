// Package main provides the entry point for the projection API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/api/rest"
	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/health"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/modelstore"
	"github.com/yourusername/courtside/internal/regression"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/scheduler"
	"github.com/yourusername/courtside/internal/service"
	"github.com/yourusername/courtside/internal/teams"
)

func main() {
	// Local development convenience; ignore a missing .env
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	// Load configuration
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := teams.Validate(); err != nil {
		log.Fatalf("Invalid team directory: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Courtside projection server starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	// Initialize stats API client
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:      time.Duration(cfg.StatsAPI.TimeoutSeconds) * time.Second,
		MaxRetries:   cfg.StatsAPI.MaxRetries,
		RetryWaitMin: 500 * time.Millisecond,
		RetryWaitMax: 10 * time.Second,
		RateLimit:    cfg.StatsAPI.RateLimit,
	}, appLog)
	statsClient := datasource.NewNBAStatsClient(cfg.StatsAPI.BaseURL, cfg.StatsAPI.APIKey, httpClient, appLog)
	resolver := features.NewContextResolver(statsClient, appLog)
	resolver.SetThrottle(time.Duration(cfg.StatsAPI.ThrottleSeconds) * time.Second)

	// Initialize model store
	store, err := newModelStore(ctx, cfg, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize model store")
	}

	// Initialize model wrapper and prediction service
	wrapper := regression.NewWrapper(store, resolver, cfg.StatsAPI.CurrentSeasonID, appLog)
	wrapper.SetAlpha(cfg.Training.Alpha)
	wrapper.SetRecentFormWindow(cfg.StatsAPI.RecentFormWindow)
	predictor := service.NewPredictor(wrapper, appLog)

	// Start scheduled retraining if configured
	var sched *scheduler.Scheduler
	if cfg.Training.PopulateSchedule != "" && len(cfg.Training.Players) > 0 {
		gameLogRepo := repository.NewPostgresGameLogRepository(db)
		builder := features.NewTrainingSetBuilder(resolver, appLog)
		builder.SetSeasonFloor(cfg.Training.SeasonFloor)
		builder.SetWindow(cfg.Training.RollingWindow)

		trainer := service.NewTrainer(gameLogRepo, builder, wrapper, cfg.Training.SeasonThreshold, appLog)

		sched = scheduler.NewScheduler(trainer, appLog)
		if err := sched.SchedulePopulate(cfg.Training.PopulateSchedule, cfg.Training.Players, cfg.Training.Stats); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule populate job")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		defer sched.Stop()
	}

	// Start health check server
	healthServer := health.NewServer(cfg.App.Name, "", appLog)
	healthServer.AddProbe("database", db.Ping)
	healthServer.AddProbe("model_store", func(ctx context.Context) error {
		// A missing artifact still proves the backend is reachable.
		if _, err := store.Load(ctx, "healthcheck"); err != nil && !errors.Is(err, models.ErrModelNotFound) {
			return err
		}
		return nil
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	// Start metrics server if enabled on its own port
	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	// Start REST API server
	restServer := rest.NewServer(
		fmt.Sprintf("%d", cfg.Server.Port),
		predictor,
		resolver,
		cfg.StatsAPI.CurrentSeasonID,
		cfg.StatsAPI.RecentFormWindow,
		appLog,
	)

	go func() {
		appLog.WithField("port", cfg.Server.Port).Info("REST API server starting")
		if err := restServer.Start(); err != nil {
			appLog.WithError(err).Error("REST API server stopped")
			cancel()
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		appLog.WithField("signal", sig.String()).Info("Shutdown signal received")
	case <-ctx.Done():
	}

	healthServer.SetReady(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("REST API server shutdown error")
	}

	appLog.Info("Courtside projection server stopped")
}

// newModelStore builds the configured artifact store backend.
func newModelStore(ctx context.Context, cfg *config.Config, appLog *logrus.Logger) (modelstore.Store, error) {
	switch cfg.ModelStore.Backend {
	case "s3":
		return modelstore.NewS3Store(ctx, cfg.ModelStore.Bucket, cfg.ModelStore.Region, appLog)
	case "filesystem":
		return modelstore.NewFilesystemStore(cfg.ModelStore.LocalPath)
	default:
		return nil, fmt.Errorf("unsupported model store backend: %s", cfg.ModelStore.Backend)
	}
}
