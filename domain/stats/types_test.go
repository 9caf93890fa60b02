package stats

import (
	"testing"
)

// TestSignificanceThresholdLaw verifies significant iff p < alpha across
// the whole grid, including the p == alpha boundary
func TestSignificanceThresholdLaw(t *testing.T) {
	alphas := []float64{0.001, 0.01, 0.05, 0.1, 0.5, 0.9}
	pValues := []float64{0, 0.0009, 0.001, 0.01, 0.049, 0.05, 0.051, 0.1, 0.5, 0.9, 1}

	for _, alpha := range alphas {
		for _, p := range pValues {
			got := SignificanceFor(p, alpha)
			want := NotSignificant
			if p < alpha {
				want = Significant
			}
			if got != want {
				t.Errorf("SignificanceFor(%v, %v): expected %s, got %s", p, alpha, want, got)
			}
		}
	}

	// Boundary: p exactly at alpha is not significant
	if SignificanceFor(0.05, 0.05) != NotSignificant {
		t.Error("Expected p == alpha to be not significant")
	}
}

// TestParseCorrection covers the known policies and the error path
func TestParseCorrection(t *testing.T) {
	tests := []struct {
		input    string
		expected Correction
		hasError bool
	}{
		{"", CorrectionNone, false},
		{"none", CorrectionNone, false},
		{"bonferroni", CorrectionBonferroni, false},
		{"holm", CorrectionHolm, false},
		{"bh", "", true},
		{"Bonferroni", "", true},
	}

	for _, test := range tests {
		result, err := ParseCorrection(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input %q, but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input %q: %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Input %q: expected %s, got %s", test.input, test.expected, result)
		}
	}
}

// TestValidateAlpha covers the usable threshold range
func TestValidateAlpha(t *testing.T) {
	for _, alpha := range []float64{0.001, 0.05, 0.5, 0.999} {
		if err := ValidateAlpha(alpha); err != nil {
			t.Errorf("Expected alpha %v to validate, got %v", alpha, err)
		}
	}
	for _, alpha := range []float64{0, 1, -0.05, 1.5} {
		if err := ValidateAlpha(alpha); err == nil {
			t.Errorf("Expected alpha %v to be rejected", alpha)
		}
	}
}

// TestNewTestResultValidation checks the result invariants
func TestNewTestResultValidation(t *testing.T) {
	result, err := NewTestResult(TestProportionsZ, -3.38, 0.0007, 0.05)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Significance != Significant {
		t.Errorf("Expected significant, got %s", result.Significance)
	}

	if _, err := NewTestResult(TestChiSquare, 1.0, 1.5, 0.05); err == nil {
		t.Error("Expected error for p-value above 1")
	}
	if _, err := NewTestResult(TestChiSquare, 1.0, -0.1, 0.05); err == nil {
		t.Error("Expected error for negative p-value")
	}
}

// TestSignificantPairs filters pairwise results by label
func TestSignificantPairs(t *testing.T) {
	run := RunResult{
		TestUsed: TestChiSquare,
		Pairwise: []PairwiseResult{
			{Group1: "A", Group2: "B", PValue: 0.9, Significance: NotSignificant},
			{Group1: "A", Group2: "C", PValue: 0.001, Significance: Significant},
			{Group1: "B", Group2: "C", PValue: 0.002, Significance: Significant},
		},
	}

	sig := run.SignificantPairs()
	if len(sig) != 2 {
		t.Fatalf("Expected 2 significant pairs, got %d", len(sig))
	}
	if sig[0].Group1 != "A" || sig[0].Group2 != "C" {
		t.Errorf("Expected A-C first, got %s-%s", sig[0].Group1, sig[0].Group2)
	}
	if !run.HasPairwise() {
		t.Error("Expected HasPairwise to be true")
	}
}
