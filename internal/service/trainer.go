package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/regression"
)

// GameLogProvider supplies a player's full game history, chronologically
// ascending. Satisfied by the postgres game-log repository.
type GameLogProvider interface {
	FetchAllGameRows(ctx context.Context, player string) ([]models.GameRow, error)
}

// Trainer runs the training pipeline for (player, stat) units: fetch game
// rows, assemble the feature table, fit and persist the model.
type Trainer struct {
	gameLogs        GameLogProvider
	builder         *features.TrainingSetBuilder
	wrapper         *regression.Wrapper
	logger          *logrus.Logger
	seasonThreshold int
}

// NewTrainer creates a training pipeline.
func NewTrainer(gameLogs GameLogProvider, builder *features.TrainingSetBuilder, wrapper *regression.Wrapper, seasonThreshold int, logger *logrus.Logger) *Trainer {
	return &Trainer{
		gameLogs:        gameLogs,
		builder:         builder,
		wrapper:         wrapper,
		logger:          logger,
		seasonThreshold: seasonThreshold,
	}
}

// TrainPlayerStat trains and persists one model. The supplied cache lets a
// batch run share opponent contexts across players; pass a fresh cache for a
// standalone run. The unit is all-or-nothing: any upstream failure aborts it
// with no artifact written.
func (t *Trainer) TrainPlayerStat(ctx context.Context, runCache *features.ContextCache, player, stat string) (*regression.Model, []models.Evaluation, error) {
	start := time.Now()
	defer func() {
		metrics.TrainingDuration.Observe(time.Since(start).Seconds())
	}()

	rows, err := t.gameLogs.FetchAllGameRows(ctx, player)
	if err != nil {
		metrics.ModelsTrainedTotal.WithLabelValues("error").Inc()
		return nil, nil, fmt.Errorf("fetching game log for %s: %w", player, err)
	}

	table, err := t.builder.BuildWithCache(ctx, runCache, rows, stat)
	if err != nil {
		metrics.ModelsTrainedTotal.WithLabelValues("error").Inc()
		return nil, nil, err
	}
	if len(table.Rows) == 0 {
		metrics.ModelsTrainedTotal.WithLabelValues("skipped").Inc()
		return nil, nil, fmt.Errorf("no usable training rows for %s %s", player, stat)
	}

	model, evaluations, err := t.wrapper.Fit(ctx, player, table, t.seasonThreshold, models.DefaultPredictors(), ModelFilename(player, stat))
	if err != nil {
		metrics.ModelsTrainedTotal.WithLabelValues("error").Inc()
		return nil, nil, err
	}

	metrics.ModelsTrainedTotal.WithLabelValues("success").Inc()
	t.logger.WithFields(logrus.Fields{
		"player":   player,
		"stat":     stat,
		"rows":     len(table.Rows),
		"duration": time.Since(start).String(),
	}).Info("Training unit completed")

	return model, evaluations, nil
}
