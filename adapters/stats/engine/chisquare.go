package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"goab/domain/core"
	"goab/domain/experiment"
	"goab/domain/stats"
)

// chiSquare runs the Pearson independence test on the label x outcome
// contingency table. Rows are the per-label sums, columns are positive
// and negative counts, degrees of freedom (rows-1)x1. No continuity
// correction is applied.
func chiSquare(groups []experiment.GroupCounts) (float64, float64, error) {
	if len(groups) < 2 {
		return 0, 0, core.NewComputationError(string(stats.TestChiSquare),
			fmt.Sprintf("contingency table needs at least 2 groups, got %d", len(groups)))
	}

	var totalPositive, totalNegative int64
	for _, g := range groups {
		if g.TotalCount <= 0 {
			return 0, 0, fmt.Errorf("%w: %q", core.ErrZeroTrials, g.Label)
		}
		totalPositive += g.PositiveCount
		totalNegative += g.NegativeCount()
	}
	if totalPositive == 0 || totalNegative == 0 {
		return 0, 0, fmt.Errorf("%w: an outcome column sums to zero", core.ErrDegenerateData)
	}
	grandTotal := float64(totalPositive + totalNegative)

	// Pearson statistic: sum of (observed-expected)^2/expected over all cells
	chiSq := 0.0
	for _, g := range groups {
		rowTotal := float64(g.TotalCount)
		expectedPositive := rowTotal * float64(totalPositive) / grandTotal
		expectedNegative := rowTotal * float64(totalNegative) / grandTotal
		chiSq += math.Pow(float64(g.PositiveCount)-expectedPositive, 2) / expectedPositive
		chiSq += math.Pow(float64(g.NegativeCount())-expectedNegative, 2) / expectedNegative
	}

	chiDist := distuv.ChiSquared{K: float64(len(groups) - 1)}
	pValue := 1 - chiDist.CDF(chiSq)
	return chiSq, pValue, nil
}
