// Package probability converts point estimates into over/under probabilities
// against sportsbook lines using a Poisson approximation of scoring
// variance.
package probability

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Convert maps a point estimate and a book line to (P(under), P(over)).
//
// Scoring is modeled as a Poisson process with rate λ = round(estimate); the
// rounding to an integer rate is a deliberate simplifying assumption, not
// numerical error. Lines are frequently half-integers (e.g. 28.5); the CDF
// sums the PMF over all integers ≤ floor(line), so half-integer lines never
// sit on a mass point.
func Convert(line, estimate float64) (pUnder, pOver float64, err error) {
	if line < 0 {
		return 0, 0, fmt.Errorf("book line must be non-negative, got %v", line)
	}
	if estimate < 0 {
		return 0, 0, fmt.Errorf("point estimate must be non-negative, got %v", estimate)
	}

	lambda := math.Round(estimate)
	if lambda == 0 {
		// A zero rate puts all mass at zero points: any non-negative line is
		// certain to stay under.
		return 1, 0, nil
	}

	dist := distuv.Poisson{Lambda: lambda}
	pUnder = dist.CDF(line)
	return pUnder, 1 - pUnder, nil
}
