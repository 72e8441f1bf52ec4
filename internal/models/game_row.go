package models

import (
	"fmt"
	"strings"
	"time"
)

// Stat names accepted by the pipeline, matching game-log column naming.
const (
	StatPoints   = "PTS"
	StatAssists  = "AST"
	StatRebounds = "REB"
)

// Location values derived from the matchup string.
const (
	LocationHome = "Home"
	LocationAway = "Away"
)

// GameRow is one player-game observation from the game-log source.
// Rows are read-only once fetched: the pipeline filters and joins them
// but never mutates them in place.
type GameRow struct {
	SeasonID int       `json:"season_id"` // e.g. 22023 for the 2023-24 regular season
	GameDate time.Time `json:"game_date"`
	Matchup  string    `json:"matchup"` // e.g. "MIN vs. ATL" or "MIN @ BOS"
	Minutes  float64   `json:"minutes"`
	Points   float64   `json:"points"`
	Assists  float64   `json:"assists"`
	Rebounds float64   `json:"rebounds"`
}

// StatValue returns the target stat column for this row.
func (r GameRow) StatValue(stat string) (float64, error) {
	switch stat {
	case StatPoints:
		return r.Points, nil
	case StatAssists:
		return r.Assists, nil
	case StatRebounds:
		return r.Rebounds, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownStat, stat)
	}
}

// ParseMatchup splits a matchup string into location and opponent code.
// The opponent is the third whitespace-delimited token; "vs." marks a home
// game and "@" an away game. Anything else is an error because downstream
// joins key on the opponent code.
func ParseMatchup(matchup string) (location, opponent string, err error) {
	tokens := strings.Fields(matchup)
	if len(tokens) != 3 {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedMatchup, matchup)
	}

	switch tokens[1] {
	case "vs.":
		location = LocationHome
	case "@":
		location = LocationAway
	default:
		return "", "", fmt.Errorf("%w: %q", ErrMalformedMatchup, matchup)
	}

	return location, tokens[2], nil
}
