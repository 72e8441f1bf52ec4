package models

import (
	"fmt"
	"time"
)

// Predictor names understood by the feature assembly. Order in
// DefaultPredictors is the canonical training order; the fitted schema is
// persisted with each model and re-checked at inference, so a reordering
// here can never silently shift a live vector against an old artifact.
const (
	PredictorOppEFGPct  = "OPP_EFG_PCT"
	PredictorOppFTARate = "OPP_FTA_RATE"
	PredictorOppORebPct = "OPP_OREB_PCT"
	PredictorPace       = "PACE"
	PredictorMinutes    = "MINUTES"
)

// DefaultPredictors is the canonical predictor ordering for new models.
func DefaultPredictors() []string {
	return []string{
		PredictorOppEFGPct,
		PredictorOppFTARate,
		PredictorOppORebPct,
		PredictorPace,
		PredictorMinutes,
	}
}

// FeatureSchema is the named, versioned ordering of predictors a model was
// trained on. It travels inside the model artifact.
type FeatureSchema struct {
	Version    int      `json:"version"`
	Predictors []string `json:"predictors"`
}

// Matches reports whether another predictor list is identical in names and
// order.
func (s FeatureSchema) Matches(predictors []string) bool {
	if len(s.Predictors) != len(predictors) {
		return false
	}
	for i, name := range s.Predictors {
		if predictors[i] != name {
			return false
		}
	}
	return true
}

// FeatureRow is one assembled observation in a feature table: the target
// stat for a historical game joined with the opponent context in effect and
// the player's rolling minutes signal.
type FeatureRow struct {
	SeasonID   int       `json:"season_id"`
	GameDate   time.Time `json:"game_date"`
	Opponent   string    `json:"opponent"`
	Location   string    `json:"location"`
	Target     float64   `json:"target"`
	OppEFGPct  float64   `json:"opp_efg_pct"`
	OppFTARate float64   `json:"opp_fta_rate"`
	OppORebPct float64   `json:"opp_oreb_pct"`
	Pace       float64   `json:"pace"`
	Minutes    float64   `json:"minutes"`
}

// PredictorValue returns the named predictor from this row.
func (r FeatureRow) PredictorValue(name string) (float64, error) {
	switch name {
	case PredictorOppEFGPct:
		return r.OppEFGPct, nil
	case PredictorOppFTARate:
		return r.OppFTARate, nil
	case PredictorOppORebPct:
		return r.OppORebPct, nil
	case PredictorPace:
		return r.Pace, nil
	case PredictorMinutes:
		return r.Minutes, nil
	default:
		return 0, fmt.Errorf("%w: unknown predictor %q", ErrFeatureSchemaMismatch, name)
	}
}

// Vector assembles the row's predictors in schema order.
func (r FeatureRow) Vector(schema FeatureSchema) ([]float64, error) {
	vec := make([]float64, len(schema.Predictors))
	for i, name := range schema.Predictors {
		v, err := r.PredictorValue(name)
		if err != nil {
			return nil, err
		}
		vec[i] = v
	}
	return vec, nil
}

// FeatureTable is the flat training table produced by the training set
// builder for one (player, stat) pair.
type FeatureTable struct {
	Stat string       `json:"stat"`
	Rows []FeatureRow `json:"rows"`
}

// Split partitions the table chronologically on season identifier: rows with
// SeasonID < threshold train, rows at or above it are held out. No shuffling,
// so no future season leaks into training.
func (t FeatureTable) Split(seasonThreshold int) (train, holdout []FeatureRow) {
	for _, row := range t.Rows {
		if row.SeasonID < seasonThreshold {
			train = append(train, row)
		} else {
			holdout = append(holdout, row)
		}
	}
	return train, holdout
}
