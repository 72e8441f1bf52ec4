package probability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// poissonCDFRef computes P(X <= floor(x)) by direct summation, as an
// independent check on the distribution implementation.
func poissonCDFRef(x, lambda float64) float64 {
	if x < 0 {
		return 0
	}
	logLambda := math.Log(lambda)
	sum := 0.0
	for k := 0; k <= int(math.Floor(x)); k++ {
		logPMF := -lambda + float64(k)*logLambda - logFactorial(k)
		sum += math.Exp(logPMF)
	}
	return sum
}

func logFactorial(n int) float64 {
	lf := 0.0
	for i := 2; i <= n; i++ {
		lf += math.Log(float64(i))
	}
	return lf
}

func TestConvertProbabilitiesSumToOne(t *testing.T) {
	tests := []struct {
		line     float64
		estimate float64
	}{
		{28.5, 27.3},
		{10.5, 12.0},
		{0.5, 1.2},
		{45.5, 38.9},
	}

	for _, tt := range tests {
		pUnder, pOver, err := Convert(tt.line, tt.estimate)
		assert.NoError(t, err)
		assert.InDelta(t, 1.0, pUnder+pOver, 1e-12)
		assert.GreaterOrEqual(t, pUnder, 0.0)
		assert.LessOrEqual(t, pUnder, 1.0)
	}
}

func TestConvertMatchesReferenceCDF(t *testing.T) {
	pUnder, _, err := Convert(28.5, 28)
	assert.NoError(t, err)
	assert.InDelta(t, poissonCDFRef(28.5, 28), pUnder, 1e-6)

	pUnder, _, err = Convert(19.5, 22.4)
	assert.NoError(t, err)
	// Lambda is the rounded estimate.
	assert.InDelta(t, poissonCDFRef(19.5, 22), pUnder, 1e-6)
}

func TestConvertZeroEstimate(t *testing.T) {
	pUnder, pOver, err := Convert(10.5, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, pUnder)
	assert.Equal(t, 0.0, pOver)

	// Sub-half estimates round to zero as well.
	pUnder, pOver, err = Convert(10.5, 0.4)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, pUnder)
	assert.Equal(t, 0.0, pOver)
}

func TestConvertEstimateAtLine(t *testing.T) {
	// With the estimate at the line, the over is the short side: the CDF at
	// the mean of a Poisson is above one half.
	_, pOver, err := Convert(28.5, 28)
	assert.NoError(t, err)
	assert.Less(t, pOver, 0.5)
	assert.Greater(t, pOver, 0.3)
}

func TestConvertMonotoneInEstimate(t *testing.T) {
	_, lowOver, err := Convert(25.5, 20)
	assert.NoError(t, err)
	_, highOver, err := Convert(25.5, 30)
	assert.NoError(t, err)
	assert.Greater(t, highOver, lowOver)
}

func TestConvertNegativeInputs(t *testing.T) {
	_, _, err := Convert(-1.5, 20)
	assert.Error(t, err)

	_, _, err = Convert(20.5, -3)
	assert.Error(t, err)
}
