package features

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/models"
)

// DefaultSeasonFloor excludes seasons before 2018-19; older box scores are
// unreliable signal for current form.
const DefaultSeasonFloor = 22018

// TrainingSetBuilder joins a player's game rows with opponent context and
// rolling-minutes features into the flat table the regression trains on.
type TrainingSetBuilder struct {
	resolver    *ContextResolver
	logger      *logrus.Logger
	seasonFloor int
	window      int
}

// NewTrainingSetBuilder creates a builder with the standard season floor and
// rolling window.
func NewTrainingSetBuilder(resolver *ContextResolver, logger *logrus.Logger) *TrainingSetBuilder {
	return &TrainingSetBuilder{
		resolver:    resolver,
		logger:      logger,
		seasonFloor: DefaultSeasonFloor,
		window:      DefaultRollingWindow,
	}
}

// SetSeasonFloor overrides the default season floor.
func (b *TrainingSetBuilder) SetSeasonFloor(floor int) {
	if floor > 0 {
		b.seasonFloor = floor
	}
}

// SetWindow overrides the default rolling window.
func (b *TrainingSetBuilder) SetWindow(window int) {
	if window > 1 {
		b.window = window
	}
}

// Build assembles the training table for one player's rows with a cache
// scoped to this call.
func (b *TrainingSetBuilder) Build(ctx context.Context, rows []models.GameRow, stat string) (models.FeatureTable, error) {
	return b.BuildWithCache(ctx, NewContextCache(), rows, stat)
}

// BuildWithCache assembles the training table using a caller-supplied
// opponent cache, letting one batch run share resolved contexts across
// players. The build is all-or-nothing: a matchup that cannot be parsed or
// an opponent whose context resolution exhausts retries fails the whole
// build with no partial output.
func (b *TrainingSetBuilder) BuildWithCache(ctx context.Context, runCache *ContextCache, rows []models.GameRow, stat string) (models.FeatureTable, error) {
	table := models.FeatureTable{Stat: stat}

	// Season floor filter keeps the rows chronological and contiguous.
	filtered := make([]models.GameRow, 0, len(rows))
	for _, row := range rows {
		if row.SeasonID >= b.seasonFloor {
			filtered = append(filtered, row)
		}
	}

	if len(filtered) <= b.window {
		// Not enough history for a single full prior window. Empty table,
		// not an error.
		return table, nil
	}

	minutes := make([]float64, len(filtered))
	for i, row := range filtered {
		minutes[i] = row.Minutes
	}
	rolled := Rolling(minutes, b.window)

	// Row i's recent-form feature is the window ending at row i-1: the game
	// being predicted never contributes to its own signal. Rows without a
	// full prior window are dropped before the join.
	for i := b.window; i < len(filtered); i++ {
		row := filtered[i]

		location, opponent, err := models.ParseMatchup(row.Matchup)
		if err != nil {
			return models.FeatureTable{}, err
		}

		target, err := row.StatValue(stat)
		if err != nil {
			return models.FeatureTable{}, err
		}

		octx, err := b.resolver.Resolve(ctx, runCache, opponent, row.SeasonID, 0)
		if err != nil {
			return models.FeatureTable{}, fmt.Errorf("building training set for stat %s: %w", stat, err)
		}

		feature := models.FeatureRow{
			SeasonID:   row.SeasonID,
			GameDate:   row.GameDate,
			Opponent:   opponent,
			Location:   location,
			Target:     target,
			OppEFGPct:  octx.OppEFGPct,
			OppFTARate: octx.OppFTARate,
			OppORebPct: octx.OppORebPct,
			Pace:       octx.Pace,
			Minutes:    rolled[i-b.window].Mean,
		}

		if hasMissingValue(feature) {
			continue
		}
		table.Rows = append(table.Rows, feature)
	}

	b.logger.WithFields(logrus.Fields{
		"stat":      stat,
		"input":     len(rows),
		"assembled": len(table.Rows),
		"opponents": runCache.ItemCount(),
	}).Info("Training set assembled")

	return table, nil
}

// hasMissingValue drops rows with any NaN predictor or target; defaulting a
// missing value to zero would silently corrupt the fit.
func hasMissingValue(row models.FeatureRow) bool {
	for _, v := range []float64{row.Target, row.OppEFGPct, row.OppFTARate, row.OppORebPct, row.Pace, row.Minutes} {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
