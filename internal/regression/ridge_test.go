package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitRidgeRecoversLinearRelation(t *testing.T) {
	// y = 3 + 2a - b, alpha small enough to leave the fit essentially OLS.
	features := [][]float64{
		{1, 0},
		{0, 1},
		{2, 1},
		{3, 0},
		{1, 2},
		{4, 3},
		{2, 4},
		{5, 1},
	}
	targets := make([]float64, len(features))
	for i, row := range features {
		targets[i] = 3 + 2*row[0] - row[1]
	}

	intercept, coefs, err := fitRidge(features, targets, 1e-8)
	assert.NoError(t, err)
	assert.Len(t, coefs, 2)
	assert.InDelta(t, 3.0, intercept, 1e-4)
	assert.InDelta(t, 2.0, coefs[0], 1e-4)
	assert.InDelta(t, -1.0, coefs[1], 1e-4)
}

func TestFitRidgeShrinksCoefficients(t *testing.T) {
	features := [][]float64{{1}, {2}, {3}, {4}, {5}}
	targets := []float64{2, 4, 6, 8, 10}

	_, light, err := fitRidge(features, targets, 0.001)
	assert.NoError(t, err)
	_, heavy, err := fitRidge(features, targets, 100)
	assert.NoError(t, err)

	assert.Less(t, math.Abs(heavy[0]), math.Abs(light[0]),
		"stronger regularization must shrink the slope")
}

func TestFitRidgeHandlesCollinearPredictors(t *testing.T) {
	// Second column is an exact copy of the first; OLS would be singular.
	features := [][]float64{
		{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5},
	}
	targets := []float64{3, 5, 7, 9, 11}

	intercept, coefs, err := fitRidge(features, targets, 0.1)
	assert.NoError(t, err)

	// Ridge splits the weight across the duplicated predictors; the fitted
	// line still tracks the data.
	pred := intercept + coefs[0]*3 + coefs[1]*3
	assert.InDelta(t, 7.0, pred, 0.2)
}

func TestFitRidgeInputValidation(t *testing.T) {
	_, _, err := fitRidge(nil, nil, 0.1)
	assert.Error(t, err)

	_, _, err = fitRidge([][]float64{{1}}, []float64{1, 2}, 0.1)
	assert.Error(t, err)

	_, _, err = fitRidge([][]float64{{1, 2}, {3}}, []float64{1, 2}, 0.1)
	assert.Error(t, err)

	_, _, err = fitRidge([][]float64{{}}, []float64{1}, 0.1)
	assert.Error(t, err)
}
