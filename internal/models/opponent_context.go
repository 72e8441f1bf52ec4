package models

// FourFactors holds the opponent-allowed four-factor aggregates for a team
// over a season window.
type FourFactors struct {
	OppEFGPct  float64 `json:"opp_efg_pct"`
	OppFTARate float64 `json:"opp_fta_rate"`
	OppORebPct float64 `json:"opp_oreb_pct"`
}

// AdvancedStats holds pace and rating aggregates for a team over a season
// window.
type AdvancedStats struct {
	Pace      float64 `json:"pace"`
	DefRating float64 `json:"def_rating"`
}

// OpponentContext is the aggregated defensive and pace profile for one
// (opponent, season, window) combination. Values are window aggregates,
// never per-game numbers.
type OpponentContext struct {
	Opponent   string  `json:"opponent"` // team code, e.g. "ATL"
	SeasonID   int     `json:"season_id"`
	LastNGames int     `json:"last_n_games"` // 0 means full season to date
	OppEFGPct  float64 `json:"opp_efg_pct"`
	OppFTARate float64 `json:"opp_fta_rate"`
	OppORebPct float64 `json:"opp_oreb_pct"`
	Pace       float64 `json:"pace"`
	DefRating  float64 `json:"def_rating"`
}
