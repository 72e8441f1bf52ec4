package models

import (
	"time"

	"github.com/google/uuid"
)

// PredictionResult is a scalar point estimate for one (player, stat) call,
// optionally decorated with over/under probabilities against a book line.
type PredictionResult struct {
	ID            uuid.UUID `json:"id"`
	Player        string    `json:"player"`
	Opponent      string    `json:"opponent"`
	Stat          string    `json:"stat"`
	Estimate      float64   `json:"estimate"`
	ModelFilename string    `json:"model_filename"`
	PredictedAt   time.Time `json:"predicted_at"`

	// Set only when a book line was supplied.
	Line   *float64 `json:"line,omitempty"`
	PUnder *float64 `json:"p_under,omitempty"`
	POver  *float64 `json:"p_over,omitempty"`
}

// Evaluation pairs a held-out row's actual target with the model's
// prediction, keyed by game date and opponent. Inspection artifact, not a
// pass/fail gate.
type Evaluation struct {
	GameDate  time.Time `json:"game_date"`
	Opponent  string    `json:"opponent"`
	Actual    float64   `json:"actual"`
	Predicted float64   `json:"predicted"`
}
