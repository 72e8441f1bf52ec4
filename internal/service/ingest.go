package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

// Ingester syncs player game logs from the upstream stats source into the
// local database, season by season.
type Ingester struct {
	source          datasource.GameLogSource
	repo            repository.GameLogRepository
	logger          *logrus.Logger
	seasonFloor     int
	currentSeasonID int
}

// NewIngester creates a game-log ingestion service covering seasons from
// seasonFloor through currentSeasonID inclusive.
func NewIngester(source datasource.GameLogSource, repo repository.GameLogRepository, seasonFloor, currentSeasonID int, logger *logrus.Logger) *Ingester {
	return &Ingester{
		source:          source,
		repo:            repo,
		logger:          logger,
		seasonFloor:     seasonFloor,
		currentSeasonID: currentSeasonID,
	}
}

// SyncPlayer fetches and upserts one player's game logs for every covered
// season. A season with no games contributes zero rows; an unknown player
// aborts the sync. Returns the total number of rows upserted.
func (i *Ingester) SyncPlayer(ctx context.Context, player string) (int, error) {
	if i.seasonFloor > i.currentSeasonID {
		return 0, fmt.Errorf("season floor %d is after current season %d", i.seasonFloor, i.currentSeasonID)
	}

	total := 0
	for seasonID := i.seasonFloor; seasonID <= i.currentSeasonID; seasonID++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		rows, err := i.source.FetchGameRows(ctx, player, seasonID)
		if err != nil {
			return total, fmt.Errorf("fetching %s season %d: %w", player, seasonID, err)
		}
		if len(rows) == 0 {
			continue
		}

		if err := i.repo.UpsertGameRows(ctx, player, rows); err != nil {
			return total, fmt.Errorf("storing %s season %d: %w", player, seasonID, err)
		}
		total += len(rows)
	}

	i.logger.WithFields(logrus.Fields{
		"player": player,
		"rows":   total,
	}).Info("Game log sync completed")

	return total, nil
}

// SyncPlayers syncs multiple players, best effort. Unknown players are
// skipped with a warning; transport failures abort the run.
func (i *Ingester) SyncPlayers(ctx context.Context, players []string) (int, error) {
	total := 0
	for _, player := range players {
		n, err := i.SyncPlayer(ctx, player)
		total += n
		if err != nil {
			if errors.Is(err, models.ErrUnknownEntity) {
				i.logger.WithError(err).WithField("player", player).Warn("Skipping unknown player")
				continue
			}
			return total, err
		}
	}
	return total, nil
}
