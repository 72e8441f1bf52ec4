package regression

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/modelstore"
)

// DefaultRecentFormWindow restricts inference-time opponent context to the
// opponent's last N games, reflecting current defensive form rather than
// full-season averages.
const DefaultRecentFormWindow = 5

// Wrapper owns model training and inference: it fits ridge models on feature
// tables, persists artifacts to the model store as a training side effect,
// and at inference time loads an artifact, assembles the live feature vector
// in the stored schema order, and predicts.
type Wrapper struct {
	store           modelstore.Store
	resolver        *features.ContextResolver
	logger          *logrus.Logger
	alpha           float64
	currentSeasonID int
	recentWindow    int
}

// NewWrapper creates a model wrapper.
func NewWrapper(store modelstore.Store, resolver *features.ContextResolver, currentSeasonID int, logger *logrus.Logger) *Wrapper {
	return &Wrapper{
		store:           store,
		resolver:        resolver,
		logger:          logger,
		alpha:           DefaultAlpha,
		currentSeasonID: currentSeasonID,
		recentWindow:    DefaultRecentFormWindow,
	}
}

// SetAlpha overrides the default regularization strength.
func (w *Wrapper) SetAlpha(alpha float64) {
	if alpha > 0 {
		w.alpha = alpha
	}
}

// SetRecentFormWindow overrides the default live-context window.
func (w *Wrapper) SetRecentFormWindow(window int) {
	if window > 0 {
		w.recentWindow = window
	}
}

// Fit trains a ridge model on the table's chronological training partition,
// evaluates it on the held-out seasons, and persists the artifact under
// filename. Persistence is part of training, not a separate step the caller
// must remember.
func (w *Wrapper) Fit(ctx context.Context, player string, table models.FeatureTable, seasonThreshold int, predictors []string, filename string) (*Model, []models.Evaluation, error) {
	schema := models.FeatureSchema{Version: 1, Predictors: predictors}

	trainRows, holdoutRows := table.Split(seasonThreshold)
	if len(trainRows) == 0 {
		return nil, nil, fmt.Errorf("no training rows below season threshold %d", seasonThreshold)
	}

	trainX, trainY, err := designMatrix(trainRows, schema)
	if err != nil {
		return nil, nil, err
	}

	intercept, coefficients, err := fitRidge(trainX, trainY, w.alpha)
	if err != nil {
		return nil, nil, fmt.Errorf("fitting %s model for %s: %w", table.Stat, player, err)
	}

	model := &Model{
		ID:              uuid.New(),
		ArtifactVersion: artifactVersion,
		Player:          player,
		Stat:            table.Stat,
		Schema:          schema,
		Alpha:           w.alpha,
		Intercept:       intercept,
		Coefficients:    coefficients,
		TrainedAt:       time.Now().UTC(),
		TrainRows:       len(trainRows),
		HoldoutRows:     len(holdoutRows),
	}

	evaluations, err := w.evaluate(model, holdoutRows)
	if err != nil {
		return nil, nil, err
	}

	data, err := model.Encode()
	if err != nil {
		return nil, nil, err
	}
	if err := w.store.Save(ctx, filename, data); err != nil {
		return nil, nil, fmt.Errorf("persisting %s: %w", filename, err)
	}

	w.logger.WithFields(logrus.Fields{
		"player":    player,
		"stat":      table.Stat,
		"filename":  filename,
		"train":     model.TrainRows,
		"holdout":   model.HoldoutRows,
		"rmse":      model.RMSE,
		"r_squared": model.RSquared,
	}).Info("Model trained and persisted")

	return model, evaluations, nil
}

// Predict loads the named model and produces a point estimate for a matchup
// against the given opponent with the given projected minutes. Opponent
// context is resolved over the current season restricted to recent games.
func (w *Wrapper) Predict(ctx context.Context, modelFilename, opponent string, projectedMinutes float64) (float64, error) {
	data, err := w.store.Load(ctx, modelFilename)
	if err != nil {
		return 0, err
	}

	model, err := DecodeModel(data)
	if err != nil {
		return 0, fmt.Errorf("loading %s: %w", modelFilename, err)
	}

	octx, err := w.resolver.Resolve(ctx, nil, opponent, w.currentSeasonID, w.recentWindow)
	if err != nil {
		return 0, err
	}

	live := models.FeatureRow{
		Opponent:   opponent,
		OppEFGPct:  octx.OppEFGPct,
		OppFTARate: octx.OppFTARate,
		OppORebPct: octx.OppORebPct,
		Pace:       octx.Pace,
		Minutes:    projectedMinutes,
	}
	vector, err := live.Vector(model.Schema)
	if err != nil {
		return 0, err
	}

	estimate, err := model.Predict(vector)
	if err != nil {
		return 0, err
	}

	w.logger.WithFields(logrus.Fields{
		"model":    modelFilename,
		"opponent": opponent,
		"minutes":  projectedMinutes,
		"estimate": estimate,
	}).Debug("Prediction computed")

	return estimate, nil
}

// evaluate pairs each held-out row's actual target with the model's
// prediction and fills in RMSE and R² on the model.
func (w *Wrapper) evaluate(model *Model, holdout []models.FeatureRow) ([]models.Evaluation, error) {
	if len(holdout) == 0 {
		return nil, nil
	}

	evaluations := make([]models.Evaluation, 0, len(holdout))
	actuals := make([]float64, 0, len(holdout))
	predictions := make([]float64, 0, len(holdout))

	var sumSq float64
	for _, row := range holdout {
		vector, err := row.Vector(model.Schema)
		if err != nil {
			return nil, err
		}
		predicted, err := model.Predict(vector)
		if err != nil {
			return nil, err
		}

		evaluations = append(evaluations, models.Evaluation{
			GameDate:  row.GameDate,
			Opponent:  row.Opponent,
			Actual:    row.Target,
			Predicted: predicted,
		})
		actuals = append(actuals, row.Target)
		predictions = append(predictions, predicted)
		diff := row.Target - predicted
		sumSq += diff * diff
	}

	model.RMSE = math.Sqrt(sumSq / float64(len(holdout)))
	// Constant actuals make R² undefined; zero keeps the artifact encodable.
	if rsq := stat.RSquaredFrom(predictions, actuals, nil); !math.IsNaN(rsq) {
		model.RSquared = rsq
	}
	return evaluations, nil
}

func designMatrix(rows []models.FeatureRow, schema models.FeatureSchema) ([][]float64, []float64, error) {
	x := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, row := range rows {
		vector, err := row.Vector(schema)
		if err != nil {
			return nil, nil, err
		}
		x[i] = vector
		y[i] = row.Target
	}
	return x, y, nil
}
