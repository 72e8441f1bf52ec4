// Package features assembles model features from game logs and opponent
// aggregates: rolling recent-form signals, opponent context resolution with
// run-scoped memoization, and the flat training table the regression
// consumes.
package features

import (
	"math"
	"sort"
)

// DefaultRollingWindow is the trailing window length for recent-form
// features.
const DefaultRollingWindow = 3

// RollingStats holds trailing aggregates over one full window.
type RollingStats struct {
	Mean   float64
	Median float64
	Std    float64
}

// Rolling computes trailing mean/median/std over each full window of a
// chronologically ascending sequence. Entry j covers values[j : j+window],
// i.e. the window ending at input index j+window-1. Inputs shorter than the
// window yield an empty result, not an error; partial windows are never
// emitted.
func Rolling(values []float64, window int) []RollingStats {
	if window <= 0 || len(values) < window {
		return nil
	}

	out := make([]RollingStats, 0, len(values)-window+1)
	for end := window; end <= len(values); end++ {
		out = append(out, windowStats(values[end-window:end]))
	}
	return out
}

func windowStats(window []float64) RollingStats {
	n := float64(len(window))

	var sum float64
	for _, v := range window {
		sum += v
	}
	mean := sum / n

	// Sample standard deviation; a single-element window has no spread.
	var std float64
	if len(window) > 1 {
		var sq float64
		for _, v := range window {
			d := v - mean
			sq += d * d
		}
		std = math.Sqrt(sq / (n - 1))
	}

	return RollingStats{
		Mean:   mean,
		Median: median(window),
		Std:    std,
	}
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
