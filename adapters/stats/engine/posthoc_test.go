package engine

import (
	"math"
	"testing"

	"goab/domain/experiment"
	"goab/domain/stats"
)

// spreadView has pairwise p-values 0.0180 (A-B), 0.000066 (A-C) and
// 0.1006 (B-C), which the three correction policies label differently.
func spreadView(t *testing.T) *experiment.AggregatedDataset {
	t.Helper()
	return mustView(t,
		experiment.Observation{GroupLabel: "A", PositiveRate: 10, TotalCount: 1000},
		experiment.Observation{GroupLabel: "B", PositiveRate: 13.4, TotalCount: 1000},
		experiment.Observation{GroupLabel: "C", PositiveRate: 16, TotalCount: 1000},
	)
}

func TestPosthoc_NoCorrectionUsesRawAlpha(t *testing.T) {
	result, pairs, err := MultiGroupPlan{Correction: stats.CorrectionNone}.Execute(spreadView(t), 0.05)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Significance != stats.Significant {
		t.Fatalf("expected significant omnibus (chi2=%.4f p=%.6f)", result.Statistic, result.PValue)
	}
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}

	for _, p := range pairs {
		if p.AppliedAlpha != 0.05 {
			t.Fatalf("%s-%s: expected raw alpha 0.05, got %g", p.Group1, p.Group2, p.AppliedAlpha)
		}
	}
	if pairs[0].Significance != stats.Significant { // A-B p=0.0180
		t.Fatalf("A-B: expected significant at raw alpha, got %s (p=%.6f)", pairs[0].Significance, pairs[0].PValue)
	}
	if pairs[1].Significance != stats.Significant { // A-C p=0.000066
		t.Fatalf("A-C: expected significant, got %s", pairs[1].Significance)
	}
	if pairs[2].Significance != stats.NotSignificant { // B-C p=0.1006
		t.Fatalf("B-C: expected not significant, got %s (p=%.6f)", pairs[2].Significance, pairs[2].PValue)
	}

	if math.Abs(pairs[0].PValue-0.0180143038) > 1e-9 {
		t.Fatalf("A-B: expected p=0.0180143038, got %.10f", pairs[0].PValue)
	}
	if math.Abs(pairs[1].PValue-0.0000662474) > 1e-9 {
		t.Fatalf("A-C: expected p=0.0000662474, got %.10f", pairs[1].PValue)
	}
	if math.Abs(pairs[2].PValue-0.1006276065) > 1e-9 {
		t.Fatalf("B-C: expected p=0.1006276065, got %.10f", pairs[2].PValue)
	}
}

func TestPosthoc_BonferroniTightensThreshold(t *testing.T) {
	_, pairs, err := MultiGroupPlan{Correction: stats.CorrectionBonferroni}.Execute(spreadView(t), 0.05)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	threshold := 0.05 / 3
	for _, p := range pairs {
		if math.Abs(p.AppliedAlpha-threshold) > 1e-15 {
			t.Fatalf("%s-%s: expected threshold %g, got %g", p.Group1, p.Group2, threshold, p.AppliedAlpha)
		}
	}
	// A-B's p=0.0180 no longer clears alpha/3
	if pairs[0].Significance != stats.NotSignificant {
		t.Fatalf("A-B: expected bonferroni to reject, got %s", pairs[0].Significance)
	}
	if pairs[1].Significance != stats.Significant {
		t.Fatalf("A-C: expected significant under bonferroni, got %s", pairs[1].Significance)
	}
	if pairs[2].Significance != stats.NotSignificant {
		t.Fatalf("B-C: expected not significant, got %s", pairs[2].Significance)
	}
}

func TestPosthoc_HolmStepsDown(t *testing.T) {
	_, pairs, err := MultiGroupPlan{Correction: stats.CorrectionHolm}.Execute(spreadView(t), 0.05)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	// Ranked ascending: A-C gets alpha/3, A-B alpha/2, B-C alpha/1.
	// A-B survives the looser 0.025 threshold that bonferroni denied it.
	ab, ac, bc := pairs[0], pairs[1], pairs[2]
	if math.Abs(ac.AppliedAlpha-0.05/3) > 1e-15 || ac.Significance != stats.Significant {
		t.Fatalf("A-C: expected significant at alpha/3, got %s at %g", ac.Significance, ac.AppliedAlpha)
	}
	if math.Abs(ab.AppliedAlpha-0.025) > 1e-15 || ab.Significance != stats.Significant {
		t.Fatalf("A-B: expected significant at alpha/2, got %s at %g", ab.Significance, ab.AppliedAlpha)
	}
	if math.Abs(bc.AppliedAlpha-0.05) > 1e-15 || bc.Significance != stats.NotSignificant {
		t.Fatalf("B-C: expected not significant at alpha, got %s at %g", bc.Significance, bc.AppliedAlpha)
	}
}

func TestPosthoc_HolmStopsAtFirstFailure(t *testing.T) {
	results := []stats.PairwiseResult{
		{Group1: "A", Group2: "B", PValue: 0.04},
		{Group1: "A", Group2: "C", PValue: 0.2},
		{Group1: "B", Group2: "C", PValue: 0.9},
	}

	applyCorrection(results, 0.05, stats.CorrectionHolm)

	// Rank 0 (p=0.04) already misses alpha/3, so every pair is rejected
	for _, r := range results {
		if r.Significance != stats.Significant && r.Significance != stats.NotSignificant {
			t.Fatalf("%s-%s: missing significance label", r.Group1, r.Group2)
		}
		if r.Significance == stats.Significant {
			t.Fatalf("%s-%s: expected holm to reject everything after first failure (p=%g at %g)",
				r.Group1, r.Group2, r.PValue, r.AppliedAlpha)
		}
	}
	if math.Abs(results[0].AppliedAlpha-0.05/3) > 1e-15 {
		t.Fatalf("rank 0: expected threshold alpha/3, got %g", results[0].AppliedAlpha)
	}
}

func TestPosthoc_PairCountMatchesCombinations(t *testing.T) {
	view := mustView(t,
		experiment.Observation{GroupLabel: "A", PositiveRate: 5, TotalCount: 1000},
		experiment.Observation{GroupLabel: "B", PositiveRate: 10, TotalCount: 1000},
		experiment.Observation{GroupLabel: "C", PositiveRate: 20, TotalCount: 1000},
		experiment.Observation{GroupLabel: "D", PositiveRate: 40, TotalCount: 1000},
	)

	_, pairs, err := MultiGroupPlan{Correction: stats.CorrectionNone}.Execute(view, 0.05)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(pairs) != 6 {
		t.Fatalf("expected C(4,2)=6 pairs, got %d", len(pairs))
	}

	wantOrder := [][2]string{{"A", "B"}, {"A", "C"}, {"A", "D"}, {"B", "C"}, {"B", "D"}, {"C", "D"}}
	for i, want := range wantOrder {
		if pairs[i].Group1 != want[0] || pairs[i].Group2 != want[1] {
			t.Fatalf("pair %d: expected %s-%s, got %s-%s", i, want[0], want[1], pairs[i].Group1, pairs[i].Group2)
		}
	}
}

func TestPosthoc_ComparesFirstRowPerLabel(t *testing.T) {
	// Group A has a second row that would dominate its sum. The omnibus
	// consumes the sums, but each pairwise side reads only the first row,
	// so A-C compares 100/1000 against 100/1000.
	view := mustView(t,
		experiment.Observation{GroupLabel: "A", PositiveRate: 10, TotalCount: 1000},
		experiment.Observation{GroupLabel: "B", PositiveRate: 30, TotalCount: 1000},
		experiment.Observation{GroupLabel: "C", PositiveRate: 10, TotalCount: 1000},
		experiment.Observation{GroupLabel: "A", PositiveRate: 50, TotalCount: 1000},
	)

	result, pairs, err := MultiGroupPlan{Correction: stats.CorrectionNone}.Execute(view, 0.05)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Significance != stats.Significant {
		t.Fatalf("expected significant omnibus from summed rows, got %s (p=%g)", result.Significance, result.PValue)
	}

	var ac *stats.PairwiseResult
	for i := range pairs {
		if pairs[i].Group1 == "A" && pairs[i].Group2 == "C" {
			ac = &pairs[i]
		}
	}
	if ac == nil {
		t.Fatal("missing A-C pair")
	}
	if math.Abs(ac.Statistic) > 1e-12 || ac.PValue != 1.0 {
		t.Fatalf("A-C: expected identical first rows (z=0, p=1), got z=%.6f p=%.6f", ac.Statistic, ac.PValue)
	}
	if ac.Significance != stats.NotSignificant {
		t.Fatalf("A-C: expected not significant, got %s", ac.Significance)
	}
}
