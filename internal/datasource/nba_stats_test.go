package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/models"
)

func testHTTPClient() *RateLimitedHTTPClient {
	return NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:      2 * time.Second,
		MaxRetries:   0,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: time.Millisecond,
		RateLimit:    1000,
	}, logger.NewNopLogger())
}

func newTestClient(serverURL string) *NBAStatsClient {
	return NewNBAStatsClient(serverURL, "test-key", testHTTPClient(), logger.NewNopLogger())
}

func TestFetchGameRowsSortsChronologically(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Contains(t, r.URL.Path, "/players/Anthony Edwards/gamelog")
		assert.Equal(t, "2023-24", r.URL.Query().Get("season"))

		// Most-recent-first, the way the proxy serves it.
		w.Write([]byte(`{"player":"Anthony Edwards","games":[
			{"season_id":22023,"game_date":"2023-11-05","matchup":"MIN vs. DEN","min":30,"pts":31,"ast":4,"reb":6},
			{"season_id":22023,"game_date":"2023-11-03","matchup":"MIN @ BOS","min":29,"pts":22,"ast":5,"reb":7},
			{"season_id":22023,"game_date":"2023-11-01","matchup":"MIN vs. ATL","min":35,"pts":28,"ast":3,"reb":5}
		]}`))
	}))
	defer server.Close()

	rows, err := newTestClient(server.URL).FetchGameRows(context.Background(), "Anthony Edwards", 22023)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "MIN vs. ATL", rows[0].Matchup)
	assert.Equal(t, "MIN vs. DEN", rows[2].Matchup)
	assert.True(t, rows[0].GameDate.Before(rows[1].GameDate))
	assert.Equal(t, 28.0, rows[0].Points)
	assert.Equal(t, 35.0, rows[0].Minutes)
}

func TestFetchGameRowsUnknownPlayer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchGameRows(context.Background(), "Nobody Special", 22023)
	assert.True(t, errors.Is(err, models.ErrUnknownEntity))
	assert.False(t, IsTransient(err), "missing entities are not retryable")
}

func TestFetchGameRowsServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchGameRows(context.Background(), "Anthony Edwards", 22023)
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))
	assert.True(t, IsTransient(err))
}

func TestFetchGameRowsBadDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"games":[{"season_id":22023,"game_date":"11/01/2023","matchup":"MIN vs. ATL"}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchGameRows(context.Background(), "Anthony Edwards", 22023)
	require.Error(t, err)
	assert.False(t, IsTransient(err))
}

func TestFetchFourFactors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/teams/ATL/four-factors")
		assert.Equal(t, "2023-24", r.URL.Query().Get("season"))
		assert.Equal(t, "5", r.URL.Query().Get("last_n_games"))
		w.Write([]byte(`{"opp_efg_pct":0.54,"opp_fta_rate":0.28,"opp_oreb_pct":0.25}`))
	}))
	defer server.Close()

	factors, err := newTestClient(server.URL).FetchFourFactors(context.Background(), "ATL", 22023, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.54, factors.OppEFGPct)
	assert.Equal(t, 0.28, factors.OppFTARate)
}

func TestFetchAdvancedFullSeason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/teams/BOS/advanced")
		// Zero window means full season: no last_n_games parameter.
		assert.Empty(t, r.URL.Query().Get("last_n_games"))
		w.Write([]byte(`{"pace":99.5,"def_rating":110.2}`))
	}))
	defer server.Close()

	advanced, err := newTestClient(server.URL).FetchAdvanced(context.Background(), "BOS", 22023, 0)
	require.NoError(t, err)
	assert.Equal(t, 99.5, advanced.Pace)
	assert.Equal(t, 110.2, advanced.DefRating)
}

func TestTeamStatsUnknownCode(t *testing.T) {
	client := newTestClient("http://localhost:1")

	_, err := client.FetchFourFactors(context.Background(), "SEA", 22023, 0)
	assert.True(t, errors.Is(err, models.ErrUnknownEntity))

	_, err = client.FetchAdvanced(context.Background(), "XXX", 22023, 0)
	assert.True(t, errors.Is(err, models.ErrUnknownEntity))
}

func TestSourceErrorUnwrap(t *testing.T) {
	wrapped := NewSourceError(sourceName, ErrCodeServerError, "boom", true, models.ErrDataUnavailable)
	assert.True(t, errors.Is(wrapped, models.ErrDataUnavailable))

	// Without an inner error the sentinel fallback applies.
	bare := &SourceError{Source: sourceName, Code: ErrCodeServerError, Message: "boom", Transient: true}
	assert.True(t, errors.Is(bare, models.ErrDataUnavailable))
}
