// Package regression provides the L2-regularized linear model behind point
// projections: fitting on assembled feature tables, artifact serialization
// with the training-time feature schema embedded, and single-scalar
// inference.
package regression

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DefaultAlpha is the fixed ridge regularization strength. The predictor set
// is small and collinear (pace moves with minutes-derived scoring baseline),
// so unregularized OLS is numerically unstable; a small fixed alpha beats
// cross-validated selection on complexity grounds.
const DefaultAlpha = 0.1

// fitRidge solves the ridge normal equations (XᵀX + αI)β = Xᵀy with an
// unpenalized intercept column.
func fitRidge(features [][]float64, targets []float64, alpha float64) (intercept float64, coefficients []float64, err error) {
	n := len(features)
	if n == 0 {
		return 0, nil, fmt.Errorf("no training rows")
	}
	if len(targets) != n {
		return 0, nil, fmt.Errorf("feature/target length mismatch: %d vs %d", n, len(targets))
	}
	p := len(features[0])
	if p == 0 {
		return 0, nil, fmt.Errorf("no predictors")
	}

	// Design matrix with a leading ones column for the intercept.
	x := mat.NewDense(n, p+1, nil)
	for i, row := range features {
		if len(row) != p {
			return 0, nil, fmt.Errorf("ragged feature row %d: %d values, want %d", i, len(row), p)
		}
		x.Set(i, 0, 1)
		for j, v := range row {
			x.Set(i, j+1, v)
		}
	}
	y := mat.NewVecDense(n, targets)

	// XᵀX + αI, leaving the intercept unpenalized.
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for j := 1; j <= p; j++ {
		xtx.Set(j, j, xtx.At(j, j)+alpha)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		return 0, nil, fmt.Errorf("ridge solve failed: %w", err)
	}

	coefficients = make([]float64, p)
	for j := 0; j < p; j++ {
		coefficients[j] = beta.AtVec(j + 1)
	}
	return beta.AtVec(0), coefficients, nil
}
