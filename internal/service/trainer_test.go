package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/models"
)

// fakeGameLogs is a canned GameLogProvider.
type fakeGameLogs struct {
	rows map[string][]models.GameRow
	err  error
}

func (f *fakeGameLogs) FetchAllGameRows(ctx context.Context, player string) ([]models.GameRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[player], nil
}

func playerHistory() []models.GameRow {
	matchups := []string{
		"MIN vs. ATL", "MIN @ BOS", "MIN vs. DEN", "MIN @ MIA", "MIN vs. NYK",
		"MIN @ PHI", "MIN vs. LAL", "MIN @ DAL", "MIN vs. CHI", "MIN @ UTA",
		"MIN vs. ORL", "MIN @ SAC",
	}
	minutes := []float64{30, 32, 34, 28, 36, 31, 33, 29, 35, 30, 34, 32}

	rows := make([]models.GameRow, 0, len(matchups))
	for i, matchup := range matchups {
		seasonID := 22021
		if i >= 8 {
			seasonID = 22023
		}
		rows = append(rows, models.GameRow{
			SeasonID: seasonID,
			GameDate: time.Date(2023, 11, i+1, 0, 0, 0, 0, time.UTC),
			Matchup:  matchup,
			Minutes:  minutes[i],
			Points:   0.8*minutes[i] - 2,
		})
	}
	return rows
}

func newTestTrainer(t *testing.T, gameLogs GameLogProvider) *Trainer {
	t.Helper()

	w := newTestWrapper(t)
	source := &stubStatsSource{
		factors:  models.FourFactors{OppEFGPct: 0.53, OppFTARate: 0.27, OppORebPct: 0.24},
		advanced: models.AdvancedStats{Pace: 99},
	}
	resolver := features.NewContextResolver(source, logger.NewNopLogger())
	builder := features.NewTrainingSetBuilder(resolver, logger.NewNopLogger())

	return NewTrainer(gameLogs, builder, w, 22023, logger.NewNopLogger())
}

func TestTrainPlayerStat(t *testing.T) {
	gameLogs := &fakeGameLogs{rows: map[string][]models.GameRow{
		"Anthony Edwards": playerHistory(),
	}}
	trainer := newTestTrainer(t, gameLogs)

	model, evaluations, err := trainer.TrainPlayerStat(context.Background(), features.NewContextCache(), "Anthony Edwards", models.StatPoints)
	require.NoError(t, err)

	assert.Equal(t, "Anthony Edwards", model.Player)
	assert.Equal(t, models.StatPoints, model.Stat)
	// Twelve games minus the three-game warmup, split on season.
	assert.Equal(t, 5, model.TrainRows)
	assert.Equal(t, 4, model.HoldoutRows)
	assert.Len(t, evaluations, 4)
}

func TestTrainPlayerStatNoHistory(t *testing.T) {
	trainer := newTestTrainer(t, &fakeGameLogs{rows: map[string][]models.GameRow{}})

	_, _, err := trainer.TrainPlayerStat(context.Background(), features.NewContextCache(), "Nobody Special", models.StatPoints)
	assert.Error(t, err)
}

func TestTrainPlayerStatFetchError(t *testing.T) {
	trainer := newTestTrainer(t, &fakeGameLogs{err: models.ErrDataUnavailable})

	_, _, err := trainer.TrainPlayerStat(context.Background(), features.NewContextCache(), "Anthony Edwards", models.StatPoints)
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))
}

func TestPopulateBestEffort(t *testing.T) {
	gameLogs := &fakeGameLogs{rows: map[string][]models.GameRow{
		"Anthony Edwards": playerHistory(),
		// Jayson Tatum has no stored history; his unit fails, the run continues.
	}}
	trainer := newTestTrainer(t, gameLogs)

	report, err := trainer.Populate(context.Background(), []string{"Anthony Edwards", "Jayson Tatum"}, []string{models.StatPoints})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Units)
	assert.Equal(t, 1, report.Trained)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Results, 2)
	assert.NoError(t, report.Results[0].Err)
	assert.Error(t, report.Results[1].Err)
}

func TestPopulateEmptyInputs(t *testing.T) {
	trainer := newTestTrainer(t, &fakeGameLogs{})

	_, err := trainer.Populate(context.Background(), nil, []string{models.StatPoints})
	assert.Error(t, err)

	_, err = trainer.Populate(context.Background(), []string{"Anthony Edwards"}, nil)
	assert.Error(t, err)
}

func TestPopulateHonorsCancellation(t *testing.T) {
	gameLogs := &fakeGameLogs{rows: map[string][]models.GameRow{"Anthony Edwards": playerHistory()}}
	trainer := newTestTrainer(t, gameLogs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := trainer.Populate(ctx, []string{"Anthony Edwards"}, []string{models.StatPoints})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, report.Units)
}
