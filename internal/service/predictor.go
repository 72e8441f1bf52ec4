// Package service composes the feature, regression, and probability layers
// into the prediction and training workflows the serving surface exposes.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/probability"
	"github.com/yourusername/courtside/internal/regression"
	"github.com/yourusername/courtside/internal/teams"
)

// Predictor is the façade for request-style usage: it assembles the live
// feature vector, invokes the model, and optionally prices a book line. No
// logic beyond delegation and input validation lives here.
type Predictor struct {
	wrapper *regression.Wrapper
	logger  *logrus.Logger
}

// NewPredictor creates the prediction façade.
func NewPredictor(wrapper *regression.Wrapper, logger *logrus.Logger) *Predictor {
	return &Predictor{wrapper: wrapper, logger: logger}
}

// Project produces a point estimate for a player against an opponent with
// the given projected minutes. The opponent may be a team code or a
// canonical city name.
func (p *Predictor) Project(ctx context.Context, player, opponent, stat string, projectedMinutes float64) (*models.PredictionResult, error) {
	start := time.Now()
	defer func() {
		metrics.PredictionLatency.Observe(time.Since(start).Seconds())
	}()

	if player == "" {
		return nil, fmt.Errorf("%w: empty player name", models.ErrUnknownEntity)
	}
	if projectedMinutes < 0 {
		return nil, fmt.Errorf("projected minutes must be non-negative, got %v", projectedMinutes)
	}

	code, err := resolveOpponentCode(opponent)
	if err != nil {
		return nil, err
	}

	filename := ModelFilename(player, stat)
	estimate, err := p.wrapper.Predict(ctx, filename, code, projectedMinutes)
	if err != nil {
		return nil, err
	}

	metrics.PredictionsTotal.WithLabelValues(stat).Inc()

	return &models.PredictionResult{
		ID:            uuid.New(),
		Player:        player,
		Opponent:      code,
		Stat:          stat,
		Estimate:      estimate,
		ModelFilename: filename,
		PredictedAt:   time.Now().UTC(),
	}, nil
}

// Odds converts a point estimate into a priced over/under quote against a
// book line.
func (p *Predictor) Odds(estimate, line float64) (probability.Quote, error) {
	quote, err := probability.NewQuote(line, estimate)
	if err != nil {
		return probability.Quote{}, err
	}
	metrics.OddsConversionsTotal.Inc()
	return quote, nil
}

// ProjectWithOdds composes Project and Odds into one call, decorating the
// result with the over/under probabilities.
func (p *Predictor) ProjectWithOdds(ctx context.Context, player, opponent, stat string, projectedMinutes, line float64) (*models.PredictionResult, error) {
	result, err := p.Project(ctx, player, opponent, stat, projectedMinutes)
	if err != nil {
		return nil, err
	}

	quote, err := p.Odds(result.Estimate, line)
	if err != nil {
		return nil, err
	}

	result.Line = &quote.Line
	result.PUnder = &quote.PUnder
	result.POver = &quote.POver
	return result, nil
}

// ModelFilename builds the artifact filename for a (player, stat) pair,
// e.g. "anthony_edwards_pts_model".
func ModelFilename(player, stat string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(player), "_"))
	return fmt.Sprintf("%s_%s_model", slug, strings.ToLower(stat))
}

// resolveOpponentCode accepts a team code or canonical city name and returns
// the team code.
func resolveOpponentCode(opponent string) (string, error) {
	if opponent == "" {
		return "", fmt.Errorf("%w: empty opponent", models.ErrUnknownEntity)
	}
	if teams.IsKnownCode(opponent) {
		return opponent, nil
	}
	return teams.CodeForCity(opponent)
}
