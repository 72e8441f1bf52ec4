package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/teams"
)

const sourceName = "nba_stats"

// NBAStatsClient fetches game logs and team aggregates from the NBA stats
// proxy API. It implements GameLogSource and TeamStatsSource.
type NBAStatsClient struct {
	baseURL string
	apiKey  string
	http    *RateLimitedHTTPClient
	logger  *logrus.Logger
}

// NewNBAStatsClient creates a stats API client
func NewNBAStatsClient(baseURL, apiKey string, httpClient *RateLimitedHTTPClient, logger *logrus.Logger) *NBAStatsClient {
	return &NBAStatsClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    httpClient,
		logger:  logger,
	}
}

// Name returns the source name
func (c *NBAStatsClient) Name() string { return sourceName }

type gameLogResponse struct {
	Player string `json:"player"`
	Games  []struct {
		SeasonID int     `json:"season_id"`
		GameDate string  `json:"game_date"`
		Matchup  string  `json:"matchup"`
		Minutes  float64 `json:"min"`
		Points   float64 `json:"pts"`
		Assists  float64 `json:"ast"`
		Rebounds float64 `json:"reb"`
	} `json:"games"`
}

// FetchGameRows retrieves a player's game log for one season, ordered by
// game date ascending.
func (c *NBAStatsClient) FetchGameRows(ctx context.Context, player string, seasonID int) (rows []models.GameRow, err error) {
	defer func() { recordFetch("gamelog", err) }()

	season, err := teams.SeasonYear(seasonID)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/players/%s/gamelog?season=%s", c.baseURL, url.PathEscape(player), season)
	var payload gameLogResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	rows = make([]models.GameRow, 0, len(payload.Games))
	for _, g := range payload.Games {
		gameDate, err := time.Parse("2006-01-02", g.GameDate)
		if err != nil {
			return nil, NewSourceError(sourceName, ErrCodeInvalidData,
				fmt.Sprintf("bad game date %q for %s", g.GameDate, player), false, err)
		}
		rows = append(rows, models.GameRow{
			SeasonID: g.SeasonID,
			GameDate: gameDate,
			Matchup:  g.Matchup,
			Minutes:  g.Minutes,
			Points:   g.Points,
			Assists:  g.Assists,
			Rebounds: g.Rebounds,
		})
	}

	// The proxy usually returns rows most-recent-first; rolling windows need
	// chronological ascending order.
	sort.Slice(rows, func(i, j int) bool { return rows[i].GameDate.Before(rows[j].GameDate) })

	c.logger.WithFields(logrus.Fields{
		"player": player,
		"season": season,
		"rows":   len(rows),
	}).Debug("Fetched game log")

	return rows, nil
}

type fourFactorsResponse struct {
	OppEFGPct  float64 `json:"opp_efg_pct"`
	OppFTARate float64 `json:"opp_fta_rate"`
	OppORebPct float64 `json:"opp_oreb_pct"`
}

// FetchFourFactors retrieves opponent-allowed four factor aggregates for a
// team over a season window.
func (c *NBAStatsClient) FetchFourFactors(ctx context.Context, teamCode string, seasonID int, lastNGames int) (factors models.FourFactors, err error) {
	defer func() { recordFetch("four_factors", err) }()

	endpoint, err := c.teamStatsURL(teamCode, "four-factors", seasonID, lastNGames)
	if err != nil {
		return models.FourFactors{}, err
	}

	var payload fourFactorsResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return models.FourFactors{}, err
	}

	return models.FourFactors{
		OppEFGPct:  payload.OppEFGPct,
		OppFTARate: payload.OppFTARate,
		OppORebPct: payload.OppORebPct,
	}, nil
}

type advancedResponse struct {
	Pace      float64 `json:"pace"`
	DefRating float64 `json:"def_rating"`
}

// FetchAdvanced retrieves pace and defensive rating aggregates for a team
// over a season window.
func (c *NBAStatsClient) FetchAdvanced(ctx context.Context, teamCode string, seasonID int, lastNGames int) (advanced models.AdvancedStats, err error) {
	defer func() { recordFetch("advanced", err) }()

	endpoint, err := c.teamStatsURL(teamCode, "advanced", seasonID, lastNGames)
	if err != nil {
		return models.AdvancedStats{}, err
	}

	var payload advancedResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return models.AdvancedStats{}, err
	}

	return models.AdvancedStats{
		Pace:      payload.Pace,
		DefRating: payload.DefRating,
	}, nil
}

func (c *NBAStatsClient) teamStatsURL(teamCode, measure string, seasonID, lastNGames int) (string, error) {
	if !teams.IsKnownCode(teamCode) {
		return "", fmt.Errorf("%w: team code %q", models.ErrUnknownEntity, teamCode)
	}
	season, err := teams.SeasonYear(seasonID)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("season", season)
	if lastNGames > 0 {
		query.Set("last_n_games", strconv.Itoa(lastNGames))
	}
	return fmt.Sprintf("%s/teams/%s/%s?%s", c.baseURL, teamCode, measure, query.Encode()), nil
}

func recordFetch(kind string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.StatsFetchesTotal.WithLabelValues(kind, outcome).Inc()
}

// getJSON executes a GET and decodes the response, translating HTTP failures
// into SourceErrors with transient/permanent classification.
func (c *NBAStatsClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return NewSourceError(sourceName, ErrCodeInvalidData, "failed to build request", false, err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return NewSourceError(sourceName, ErrCodeNetworkError, "request failed", true, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return NewSourceError(sourceName, ErrCodeNotFound, endpoint, false, models.ErrUnknownEntity)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewSourceError(sourceName, ErrCodeRateLimitExceeded, endpoint, true, models.ErrDataUnavailable)
	case resp.StatusCode >= 500:
		return NewSourceError(sourceName, ErrCodeServerError,
			fmt.Sprintf("status %d from %s", resp.StatusCode, endpoint), true, models.ErrDataUnavailable)
	case resp.StatusCode != http.StatusOK:
		return NewSourceError(sourceName, ErrCodeInvalidData,
			fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, endpoint), false, models.ErrDataUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewSourceError(sourceName, ErrCodeInvalidData, "failed to decode response", false, err)
	}
	return nil
}
