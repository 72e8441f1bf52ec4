package regression

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/courtside/internal/models"
)

// artifactVersion guards the serialized layout; bump when fields change
// incompatibly.
const artifactVersion = 1

// Model is a fitted ridge regressor together with the feature schema it was
// trained on. Immutable once trained; retraining produces a new artifact.
type Model struct {
	ID              uuid.UUID            `json:"id"`
	ArtifactVersion int                  `json:"artifact_version"`
	Player          string               `json:"player"`
	Stat            string               `json:"stat"`
	Schema          models.FeatureSchema `json:"schema"`
	Alpha           float64              `json:"alpha"`
	Intercept       float64              `json:"intercept"`
	Coefficients    []float64            `json:"coefficients"`
	TrainedAt       time.Time            `json:"trained_at"`
	TrainRows       int                  `json:"train_rows"`
	HoldoutRows     int                  `json:"holdout_rows"`
	RMSE            float64              `json:"rmse"`
	RSquared        float64              `json:"r_squared"`
}

// Predict computes the point estimate for one feature vector assembled in
// schema order. The contract is strictly one scalar per call; a vector whose
// length diverges from the trained coefficients is a schema mismatch, never
// silently truncated or padded.
func (m *Model) Predict(vector []float64) (float64, error) {
	if len(vector) != len(m.Coefficients) {
		return 0, fmt.Errorf("%w: got %d features, model trained on %d",
			models.ErrFeatureSchemaMismatch, len(vector), len(m.Coefficients))
	}

	estimate := m.Intercept
	for i, coef := range m.Coefficients {
		estimate += coef * vector[i]
	}
	return estimate, nil
}

// Encode serializes the model artifact.
func (m *Model) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode model: %w", err)
	}
	return data, nil
}

// DecodeModel deserializes a model artifact, validating its layout version
// and schema consistency.
func DecodeModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}
	if m.ArtifactVersion != artifactVersion {
		return nil, fmt.Errorf("unsupported model artifact version %d", m.ArtifactVersion)
	}
	if len(m.Schema.Predictors) != len(m.Coefficients) {
		return nil, fmt.Errorf("%w: artifact has %d predictors but %d coefficients",
			models.ErrFeatureSchemaMismatch, len(m.Schema.Predictors), len(m.Coefficients))
	}
	return &m, nil
}
