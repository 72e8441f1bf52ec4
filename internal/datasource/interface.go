package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/courtside/internal/models"
)

// GameLogSource fetches a player's historical game rows for one season,
// ordered by game date ascending.
type GameLogSource interface {
	FetchGameRows(ctx context.Context, player string, seasonID int) ([]models.GameRow, error)
}

// TeamStatsSource fetches a team's aggregated defensive and pace stats over
// a season window. lastNGames of 0 means full season to date.
type TeamStatsSource interface {
	FetchFourFactors(ctx context.Context, teamCode string, seasonID int, lastNGames int) (models.FourFactors, error)
	FetchAdvanced(ctx context.Context, teamCode string, seasonID int, lastNGames int) (models.AdvancedStats, error)
}

// Error codes attached to SourceError
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
)

// SourceError represents errors from stats source operations. Transient
// errors are eligible for retry by the opponent context resolver; everything
// else propagates immediately.
type SourceError struct {
	Source    string // source name, e.g. "nba_stats"
	Code      string // one of the ErrCode constants
	Message   string
	Transient bool
	Err       error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e *SourceError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return models.ErrDataUnavailable
}

// NewSourceError creates a new stats source error
func NewSourceError(source, code, message string, transient bool, err error) *SourceError {
	return &SourceError{
		Source:    source,
		Code:      code,
		Message:   message,
		Transient: transient,
		Err:       err,
	}
}

// IsTransient reports whether an error is a transient source fault worth
// retrying.
func IsTransient(err error) bool {
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		return srcErr.Transient
	}
	return false
}
