// Package repository provides postgres-backed storage for historical game
// logs. The table is append-only: rows are upserted during ingestion runs and
// read back by the training pipeline, which never mutates them.
package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

// GameLogRepository defines storage operations for player game logs
type GameLogRepository interface {
	// FetchGameRows returns one player's rows for a season, game date ascending.
	FetchGameRows(ctx context.Context, player string, seasonID int) ([]models.GameRow, error)

	// FetchAllGameRows returns one player's rows across all stored seasons,
	// game date ascending.
	FetchAllGameRows(ctx context.Context, player string) ([]models.GameRow, error)

	// UpsertGameRows stores rows fetched from the upstream source.
	UpsertGameRows(ctx context.Context, player string, rows []models.GameRow) error
}

// PostgresGameLogRepository implements GameLogRepository for PostgreSQL
type PostgresGameLogRepository struct {
	db *database.DB
}

// NewPostgresGameLogRepository creates a new game log repository
func NewPostgresGameLogRepository(db *database.DB) GameLogRepository {
	return &PostgresGameLogRepository{db: db}
}

const gameRowColumns = "season_id, game_date, matchup, minutes, points, assists, rebounds"

// FetchGameRows returns one player's rows for a season
func (r *PostgresGameLogRepository) FetchGameRows(ctx context.Context, player string, seasonID int) ([]models.GameRow, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM game_logs
		WHERE player = $1 AND season_id = $2
		ORDER BY game_date ASC
	`, gameRowColumns)

	rows, err := r.db.GetPool().Query(ctx, query, player, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs: %w", err)
	}
	defer rows.Close()

	return scanGameRows(rows)
}

// FetchAllGameRows returns one player's rows across all stored seasons
func (r *PostgresGameLogRepository) FetchAllGameRows(ctx context.Context, player string) ([]models.GameRow, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM game_logs
		WHERE player = $1
		ORDER BY game_date ASC
	`, gameRowColumns)

	rows, err := r.db.GetPool().Query(ctx, query, player)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs: %w", err)
	}
	defer rows.Close()

	return scanGameRows(rows)
}

// UpsertGameRows stores rows fetched from the upstream source
func (r *PostgresGameLogRepository) UpsertGameRows(ctx context.Context, player string, gameRows []models.GameRow) error {
	query := `
		INSERT INTO game_logs (player, season_id, game_date, matchup, minutes, points, assists, rebounds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (player, game_date) DO UPDATE SET
			matchup = EXCLUDED.matchup,
			minutes = EXCLUDED.minutes,
			points = EXCLUDED.points,
			assists = EXCLUDED.assists,
			rebounds = EXCLUDED.rebounds
	`

	for _, row := range gameRows {
		_, err := r.db.GetPool().Exec(ctx, query,
			player, row.SeasonID, row.GameDate, row.Matchup, row.Minutes, row.Points, row.Assists, row.Rebounds,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert game row for %s on %s: %w", player, row.GameDate.Format("2006-01-02"), err)
		}
	}

	return nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanGameRows(rows pgxRows) ([]models.GameRow, error) {
	var result []models.GameRow
	for rows.Next() {
		var row models.GameRow
		err := rows.Scan(
			&row.SeasonID, &row.GameDate, &row.Matchup, &row.Minutes, &row.Points, &row.Assists, &row.Rebounds,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
