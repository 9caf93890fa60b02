package engine

import (
	"goab/domain/core"
	"goab/domain/experiment"
	"goab/domain/stats"
	"goab/ports"
)

// Engine provides statistical decision capabilities over aggregated views
type Engine struct{}

// New creates a new decision engine
func New() *Engine {
	return &Engine{}
}

var _ ports.DecisionEngine = (*Engine)(nil)

// Decide selects the plan for the view's cardinality and executes it
func (e *Engine) Decide(view *experiment.AggregatedDataset, alpha float64, correction stats.Correction) (stats.TestResult, []stats.PairwiseResult, error) {
	return SelectPlan(view, correction).Execute(view, alpha)
}

// Plan is the test strategy selected once per run by group cardinality.
// Exactly one plan executes per run; both variants share the same
// signature so callers never branch again after selection.
type Plan interface {
	Name() stats.TestName
	Execute(view *experiment.AggregatedDataset, alpha float64) (stats.TestResult, []stats.PairwiseResult, error)
}

// SelectPlan picks the strategy for an aggregated view: exactly two
// distinct groups run the proportion z-test, every other cardinality
// routes to the chi-square omnibus.
func SelectPlan(view *experiment.AggregatedDataset, correction stats.Correction) Plan {
	if view.GroupCount() == 2 {
		return TwoGroupPlan{}
	}
	return MultiGroupPlan{Correction: correction}
}

// TwoGroupPlan runs the pooled two-proportion z-test on the per-label sums
type TwoGroupPlan struct{}

// Name returns the test this plan runs
func (TwoGroupPlan) Name() stats.TestName { return stats.TestProportionsZ }

// Execute runs the z-test over the two per-label sums in
// first-appearance order. Cardinality is checked before any computation.
func (TwoGroupPlan) Execute(view *experiment.AggregatedDataset, alpha float64) (stats.TestResult, []stats.PairwiseResult, error) {
	groups := view.Groups()
	if len(groups) != 2 {
		return stats.TestResult{}, nil, core.NewCardinalityError(2, len(groups))
	}

	z, pValue, err := pooledZTest(groups[0], groups[1])
	if err != nil {
		return stats.TestResult{}, nil, err
	}

	result, err := stats.NewTestResult(stats.TestProportionsZ, z, pValue, alpha)
	if err != nil {
		return stats.TestResult{}, nil, err
	}
	return result, nil, nil
}

// MultiGroupPlan runs the chi-square omnibus and, when it is
// significant, the post-hoc pairwise sweep under the configured
// correction policy.
type MultiGroupPlan struct {
	Correction stats.Correction
}

// Name returns the test this plan runs
func (MultiGroupPlan) Name() stats.TestName { return stats.TestChiSquare }

// Execute runs the omnibus on the per-label sums and attaches pairwise
// results only when the omnibus crosses alpha.
func (m MultiGroupPlan) Execute(view *experiment.AggregatedDataset, alpha float64) (stats.TestResult, []stats.PairwiseResult, error) {
	chiSq, pValue, err := chiSquare(view.Groups())
	if err != nil {
		return stats.TestResult{}, nil, err
	}

	result, err := stats.NewTestResult(stats.TestChiSquare, chiSq, pValue, alpha)
	if err != nil {
		return stats.TestResult{}, nil, err
	}

	if result.Significance != stats.Significant {
		return result, nil, nil
	}

	pairs, err := pairwiseComparisons(view, alpha, m.Correction)
	if err != nil {
		return stats.TestResult{}, nil, err
	}
	return result, pairs, nil
}
