// Package main provides the CLI for training a single projection model.
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
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/modelstore"
	"github.com/yourusername/courtside/internal/regression"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/service"
	"github.com/yourusername/courtside/internal/teams"
)

var (
	configFile string
	playerName string
	statName   string
	syncFirst  bool

	appLog  *logrus.Logger
	cfg     *config.Config
	db      *database.DB
	trainer *service.Trainer
	ingest  *service.Ingester
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&playerName, "player", "p", "", "Player name, e.g. \"Anthony Edwards\"")
	rootCmd.Flags().StringVarP(&statName, "stat", "s", models.StatPoints, "Stat to model (PTS, AST, REB)")
	rootCmd.Flags().BoolVar(&syncFirst, "sync", false, "Sync game logs from the stats API before training")
	rootCmd.MarkFlagRequired("player")
}

var rootCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a player stat projection model",
	Long:  `Fetch a player's game history, assemble features, fit a ridge model and persist the artifact.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrain(cmd.Context())
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

	store, err := newModelStore(context.Background())
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

func newModelStore(ctx context.Context) (modelstore.Store, error) {
	switch cfg.ModelStore.Backend {
	case "s3":
		return modelstore.NewS3Store(ctx, cfg.ModelStore.Bucket, cfg.ModelStore.Region, appLog)
	case "filesystem":
		return modelstore.NewFilesystemStore(cfg.ModelStore.LocalPath)
	default:
		return nil, fmt.Errorf("unsupported model store backend: %s", cfg.ModelStore.Backend)
	}
}

func runTrain(ctx context.Context) error {
	if syncFirst {
		rows, err := ingest.SyncPlayer(ctx, playerName)
		if err != nil {
			return fmt.Errorf("game log sync failed: %w", err)
		}
		appLog.WithField("rows", rows).Info("Game logs synced")
	}

	model, evaluations, err := trainer.TrainPlayerStat(ctx, features.NewContextCache(), playerName, statName)
	if err != nil {
		return err
	}

	fmt.Printf("Trained %s (%s)\n", playerName, statName)
	fmt.Printf("  artifact:  %s\n", service.ModelFilename(playerName, statName))
	fmt.Printf("  rows:      %d train / %d holdout\n", model.TrainRows, model.HoldoutRows)
	fmt.Printf("  rmse:      %.3f\n", model.RMSE)
	fmt.Printf("  r_squared: %.3f\n", model.RSquared)

	for _, ev := range evaluations {
		fmt.Printf("  %s vs %s: actual %.1f predicted %.1f\n",
			ev.GameDate.Format("2006-01-02"), ev.Opponent, ev.Actual, ev.Predicted)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
