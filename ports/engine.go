package ports

import (
	"goab/domain/experiment"
	"goab/domain/stats"
)

// DecisionEngine runs the statistical decision pipeline over an
// aggregated view: select the test by group cardinality, execute it,
// and surface pairwise comparisons when the omnibus is significant.
type DecisionEngine interface {
	Decide(view *experiment.AggregatedDataset, alpha float64, correction stats.Correction) (stats.TestResult, []stats.PairwiseResult, error)
}
