package engine

import (
	"sort"

	"goab/domain/experiment"
	"goab/domain/stats"
)

// pairwiseComparisons runs the z-test over every unordered label pair,
// enumerated in combination order over first-appearance label order.
// Each side reads the first row seen for its label rather than the
// per-label sum the omnibus used; datasets with one row per group see
// no difference. Significance labels come from the correction policy.
func pairwiseComparisons(view *experiment.AggregatedDataset, alpha float64, correction stats.Correction) ([]stats.PairwiseResult, error) {
	labels := view.Labels()
	results := make([]stats.PairwiseResult, 0, len(labels)*(len(labels)-1)/2)

	for i := 0; i < len(labels); i++ {
		for j := i + 1; j < len(labels); j++ {
			first1, _ := view.FirstRow(labels[i])
			first2, _ := view.FirstRow(labels[j])

			z, pValue, err := pooledZTest(
				experiment.GroupCounts{
					Label:         first1.GroupLabel,
					PositiveCount: first1.PositiveCount,
					TotalCount:    first1.TotalCount,
				},
				experiment.GroupCounts{
					Label:         first2.GroupLabel,
					PositiveCount: first2.PositiveCount,
					TotalCount:    first2.TotalCount,
				},
			)
			if err != nil {
				return nil, err
			}

			results = append(results, stats.PairwiseResult{
				Group1:    labels[i],
				Group2:    labels[j],
				Statistic: z,
				PValue:    pValue,
			})
		}
	}

	applyCorrection(results, alpha, correction)
	return results, nil
}

// applyCorrection fills Significance and AppliedAlpha on every pair.
// Pair order is preserved; holm ranks by p-value internally and writes
// back through an index sort.
func applyCorrection(results []stats.PairwiseResult, alpha float64, correction stats.Correction) {
	m := len(results)
	if m == 0 {
		return
	}

	switch correction {
	case stats.CorrectionBonferroni:
		threshold := alpha / float64(m)
		for i := range results {
			results[i].AppliedAlpha = threshold
			results[i].Significance = stats.SignificanceFor(results[i].PValue, threshold)
		}

	case stats.CorrectionHolm:
		// Step-down: rank pairs by p ascending, threshold alpha/(m-rank).
		// The first failure rejects every later rank regardless of p.
		order := make([]int, m)
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return results[order[a]].PValue < results[order[b]].PValue
		})

		stopped := false
		for rank, idx := range order {
			threshold := alpha / float64(m-rank)
			results[idx].AppliedAlpha = threshold
			if !stopped && results[idx].PValue < threshold {
				results[idx].Significance = stats.Significant
			} else {
				results[idx].Significance = stats.NotSignificant
				stopped = true
			}
		}

	default:
		// No family-wise correction: every pair judged against the raw alpha
		for i := range results {
			results[i].AppliedAlpha = alpha
			results[i].Significance = stats.SignificanceFor(results[i].PValue, alpha)
		}
	}
}
