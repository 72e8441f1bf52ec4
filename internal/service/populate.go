package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/metrics"
)

// UnitResult records the outcome of one (player, stat) training unit in a
// populate run.
type UnitResult struct {
	Player string `json:"player"`
	Stat   string `json:"stat"`
	Err    error  `json:"-"`
}

// PopulateReport summarizes a batch population run.
type PopulateReport struct {
	Units   int          `json:"units"`
	Trained int          `json:"trained"`
	Failed  int          `json:"failed"`
	Results []UnitResult `json:"results"`
}

// Populate trains one model per (player, stat) pair. The run is best-effort:
// a unit whose retries are exhausted is recorded and skipped, it does not
// abort the rest of the batch. One opponent context cache spans the whole
// run so shared opponents are fetched once; the datasource rate limiter
// bounds external call volume between lookups.
func (t *Trainer) Populate(ctx context.Context, players []string, stats []string) (*PopulateReport, error) {
	if len(players) == 0 || len(stats) == 0 {
		return nil, fmt.Errorf("populate requires at least one player and one stat")
	}

	runCache := features.NewContextCache()
	report := &PopulateReport{}

	for _, player := range players {
		for _, stat := range stats {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			report.Units++
			_, _, err := t.TrainPlayerStat(ctx, runCache, player, stat)
			if err != nil {
				report.Failed++
				t.logger.WithError(err).WithFields(logrus.Fields{
					"player": player,
					"stat":   stat,
				}).Error("Training unit failed, continuing batch")
			} else {
				report.Trained++
			}
			report.Results = append(report.Results, UnitResult{Player: player, Stat: stat, Err: err})
		}
	}

	metrics.LastPopulateUnits.Set(float64(report.Units))
	metrics.LastPopulateFailures.Set(float64(report.Failed))

	t.logger.WithFields(logrus.Fields{
		"units":   report.Units,
		"trained": report.Trained,
		"failed":  report.Failed,
	}).Info("Populate run completed")

	return report, nil
}
