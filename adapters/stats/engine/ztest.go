package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"goab/domain/core"
	"goab/domain/experiment"
	"goab/domain/stats"
)

// standardNormal is the reference distribution for the z statistic
var standardNormal = distuv.Normal{Mu: 0, Sigma: 1}

// pooledZTest computes the pooled two-proportion z statistic and its
// two-sided p-value for H0: p1 == p2. A positive statistic means the
// first group's proportion exceeds the second's; callers only expose
// the two-valued significance label.
func pooledZTest(g1, g2 experiment.GroupCounts) (float64, float64, error) {
	if g1.TotalCount <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", core.ErrZeroTrials, g1.Label)
	}
	if g2.TotalCount <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", core.ErrZeroTrials, g2.Label)
	}

	p1 := float64(g1.PositiveCount) / float64(g1.TotalCount)
	p2 := float64(g2.PositiveCount) / float64(g2.TotalCount)
	pooled := float64(g1.PositiveCount+g2.PositiveCount) / float64(g1.TotalCount+g2.TotalCount)

	variance := pooled * (1 - pooled) * (1/float64(g1.TotalCount) + 1/float64(g2.TotalCount))
	if variance <= 0 {
		return 0, 0, core.NewComputationError(string(stats.TestProportionsZ),
			fmt.Sprintf("pooled proportion %g has zero variance for groups %q and %q",
				pooled, g1.Label, g2.Label))
	}

	z := (p1 - p2) / math.Sqrt(variance)
	pValue := 2 * (1 - standardNormal.CDF(math.Abs(z)))
	return z, pValue, nil
}
