package features

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/models"
)

func gameRow(seasonID int, day int, matchup string, minutes, points float64) models.GameRow {
	return models.GameRow{
		SeasonID: seasonID,
		GameDate: time.Date(2023, 11, day, 0, 0, 0, 0, time.UTC),
		Matchup:  matchup,
		Minutes:  minutes,
		Points:   points,
	}
}

func newTestBuilder(source *fakeStatsSource) *TrainingSetBuilder {
	return NewTrainingSetBuilder(newTestResolver(source), logger.NewNopLogger())
}

func TestBuildTooFewRows(t *testing.T) {
	builder := newTestBuilder(&fakeStatsSource{})

	rows := []models.GameRow{
		gameRow(22023, 1, "MIN vs. ATL", 35, 28),
		gameRow(22023, 3, "MIN @ BOS", 29, 22),
		gameRow(22023, 5, "MIN vs. DEN", 30, 31),
	}

	table, err := builder.Build(context.Background(), rows, models.StatPoints)
	assert.NoError(t, err)
	assert.Empty(t, table.Rows, "three rows leave no row with a full prior window")
}

func TestBuildAttachesPriorWindow(t *testing.T) {
	source := &fakeStatsSource{
		factors:  models.FourFactors{OppEFGPct: 0.54, OppFTARate: 0.28, OppORebPct: 0.25},
		advanced: models.AdvancedStats{Pace: 99.5},
	}
	builder := newTestBuilder(source)

	rows := []models.GameRow{
		gameRow(22023, 1, "MIN vs. ATL", 35, 28),
		gameRow(22023, 3, "MIN @ BOS", 29, 22),
		gameRow(22023, 5, "MIN vs. DEN", 30, 31),
		gameRow(22023, 7, "MIN @ MIA", 36, 27),
	}

	table, err := builder.Build(context.Background(), rows, models.StatPoints)
	assert.NoError(t, err)
	assert.Len(t, table.Rows, 1)

	row := table.Rows[0]
	assert.Equal(t, "MIA", row.Opponent)
	assert.Equal(t, models.LocationAway, row.Location)
	assert.Equal(t, 27.0, row.Target)
	// Recent form is the mean of the three games before this one.
	assert.InDelta(t, (35.0+29.0+30.0)/3, row.Minutes, 1e-9)
	assert.Equal(t, 0.54, row.OppEFGPct)
	assert.Equal(t, 99.5, row.Pace)
}

func TestBuildFiltersOldSeasons(t *testing.T) {
	source := &fakeStatsSource{factors: models.FourFactors{OppEFGPct: 0.5}, advanced: models.AdvancedStats{Pace: 100}}
	builder := newTestBuilder(source)

	rows := []models.GameRow{
		// Below the season floor; must not contribute to any window.
		gameRow(22016, 1, "MIN vs. ATL", 40, 30),
		gameRow(22017, 1, "MIN vs. ATL", 40, 30),
		gameRow(22023, 1, "MIN vs. ATL", 35, 28),
		gameRow(22023, 3, "MIN @ BOS", 29, 22),
		gameRow(22023, 5, "MIN vs. DEN", 30, 31),
		gameRow(22023, 7, "MIN @ MIA", 36, 27),
	}

	table, err := builder.Build(context.Background(), rows, models.StatPoints)
	assert.NoError(t, err)
	assert.Len(t, table.Rows, 1)
	assert.InDelta(t, (35.0+29.0+30.0)/3, table.Rows[0].Minutes, 1e-9)
}

func TestBuildMalformedMatchupAborts(t *testing.T) {
	builder := newTestBuilder(&fakeStatsSource{})

	rows := []models.GameRow{
		gameRow(22023, 1, "MIN vs. ATL", 35, 28),
		gameRow(22023, 3, "MIN @ BOS", 29, 22),
		gameRow(22023, 5, "MIN vs. DEN", 30, 31),
		gameRow(22023, 7, "MIN at MIA", 36, 27),
	}

	_, err := builder.Build(context.Background(), rows, models.StatPoints)
	assert.True(t, errors.Is(err, models.ErrMalformedMatchup))
}

func TestBuildUnknownStatAborts(t *testing.T) {
	builder := newTestBuilder(&fakeStatsSource{})

	rows := []models.GameRow{
		gameRow(22023, 1, "MIN vs. ATL", 35, 28),
		gameRow(22023, 3, "MIN @ BOS", 29, 22),
		gameRow(22023, 5, "MIN vs. DEN", 30, 31),
		gameRow(22023, 7, "MIN @ MIA", 36, 27),
	}

	_, err := builder.Build(context.Background(), rows, "BLK")
	assert.True(t, errors.Is(err, models.ErrUnknownStat))
}

func TestBuildResolverExhaustionAborts(t *testing.T) {
	source := &fakeStatsSource{failFirstN: 100, failWith: transientErr()}
	builder := newTestBuilder(source)

	rows := []models.GameRow{
		gameRow(22023, 1, "MIN vs. ATL", 35, 28),
		gameRow(22023, 3, "MIN @ BOS", 29, 22),
		gameRow(22023, 5, "MIN vs. DEN", 30, 31),
		gameRow(22023, 7, "MIN @ MIA", 36, 27),
	}

	table, err := builder.Build(context.Background(), rows, models.StatPoints)
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))
	assert.Empty(t, table.Rows, "a failed build produces no partial table")
}

func TestBuildDropsMissingValues(t *testing.T) {
	source := &fakeStatsSource{
		factors:  models.FourFactors{OppEFGPct: math.NaN()},
		advanced: models.AdvancedStats{Pace: 100},
	}
	builder := newTestBuilder(source)

	rows := []models.GameRow{
		gameRow(22023, 1, "MIN vs. ATL", 35, 28),
		gameRow(22023, 3, "MIN @ BOS", 29, 22),
		gameRow(22023, 5, "MIN vs. DEN", 30, 31),
		gameRow(22023, 7, "MIN @ MIA", 36, 27),
	}

	table, err := builder.Build(context.Background(), rows, models.StatPoints)
	assert.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestBuildSharedCacheAcrossPlayers(t *testing.T) {
	source := &fakeStatsSource{factors: models.FourFactors{OppEFGPct: 0.5}, advanced: models.AdvancedStats{Pace: 100}}
	builder := newTestBuilder(source)
	runCache := NewContextCache()

	rows := []models.GameRow{
		gameRow(22023, 1, "MIN vs. ATL", 35, 28),
		gameRow(22023, 3, "MIN @ BOS", 29, 22),
		gameRow(22023, 5, "MIN vs. DEN", 30, 31),
		gameRow(22023, 7, "MIN @ MIA", 36, 27),
	}

	_, err := builder.BuildWithCache(context.Background(), runCache, rows, models.StatPoints)
	assert.NoError(t, err)
	callsAfterFirst := source.calls()

	// A second player facing the same opponent in the same season reuses the
	// cached context.
	_, err = builder.BuildWithCache(context.Background(), runCache, rows, models.StatPoints)
	assert.NoError(t, err)
	assert.Equal(t, callsAfterFirst, source.calls())
}
