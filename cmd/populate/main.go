// Package main provides the CLI for batch model population.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/features"
	applogger "github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/modelstore"
	"github.com/yourusername/courtside/internal/regression"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/service"
	"github.com/yourusername/courtside/internal/teams"
)

var (
	configFile string
	players    []string
	stats      []string
	syncFirst  bool

	appLog  *logrus.Logger
	cfg     *config.Config
	db      *database.DB
	trainer *service.Trainer
	ingest  *service.Ingester
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringSliceVarP(&players, "players", "p", nil, "Players to train (defaults to configured roster)")
	rootCmd.Flags().StringSliceVarP(&stats, "stats", "s", nil, "Stats to model (defaults to configured stats)")
	rootCmd.Flags().BoolVar(&syncFirst, "sync", false, "Sync game logs from the stats API before training")
}

var rootCmd = &cobra.Command{
	Use:   "populate",
	Short: "Train projection models for a roster of players",
	Long:  `Run the training pipeline for every (player, stat) pair, sharing one opponent context cache across the batch.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPopulate(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

func setup() error {
	_ = godotenv.Load()

	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := teams.Validate(); err != nil {
		return fmt.Errorf("invalid team directory: %w", err)
	}

	appLog = applogger.NewLogger(cfg.App.LogLevel)

	db, err = database.NewDB(context.Background(), &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

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

	var store modelstore.Store
	switch cfg.ModelStore.Backend {
	case "s3":
		store, err = modelstore.NewS3Store(context.Background(), cfg.ModelStore.Bucket, cfg.ModelStore.Region, appLog)
	case "filesystem":
		store, err = modelstore.NewFilesystemStore(cfg.ModelStore.LocalPath)
	default:
		err = fmt.Errorf("unsupported model store backend: %s", cfg.ModelStore.Backend)
	}
	if err != nil {
		return err
	}

	wrapper := regression.NewWrapper(store, resolver, cfg.StatsAPI.CurrentSeasonID, appLog)
	wrapper.SetAlpha(cfg.Training.Alpha)
	wrapper.SetRecentFormWindow(cfg.StatsAPI.RecentFormWindow)

	builder := features.NewTrainingSetBuilder(resolver, appLog)
	builder.SetSeasonFloor(cfg.Training.SeasonFloor)
	builder.SetWindow(cfg.Training.RollingWindow)

	gameLogRepo := repository.NewPostgresGameLogRepository(db)
	trainer = service.NewTrainer(gameLogRepo, builder, wrapper, cfg.Training.SeasonThreshold, appLog)
	ingest = service.NewIngester(statsClient, gameLogRepo, cfg.Training.SeasonFloor, cfg.StatsAPI.CurrentSeasonID, appLog)

	return nil
}

func runPopulate(ctx context.Context) error {
	if len(players) == 0 {
		players = cfg.Training.Players
	}
	if len(stats) == 0 {
		stats = cfg.Training.Stats
	}

	if syncFirst {
		rows, err := ingest.SyncPlayers(ctx, players)
		if err != nil {
			return fmt.Errorf("game log sync failed after %d rows: %w", rows, err)
		}
		appLog.WithField("rows", rows).Info("Game logs synced")
	}

	report, err := trainer.Populate(ctx, players, stats)
	if err != nil {
		return err
	}

	fmt.Printf("Populate run: %d units, %d trained, %d failed\n", report.Units, report.Trained, report.Failed)
	for _, res := range report.Results {
		status := "ok"
		if res.Err != nil {
			status = res.Err.Error()
		}
		fmt.Printf("  %s %s: %s\n", res.Player, res.Stat, status)
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d units failed", report.Failed, report.Units)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
