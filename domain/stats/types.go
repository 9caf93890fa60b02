package stats

import (
	"fmt"
	"math"

	"goab/domain/core"
)

// ============================================================================
// TYPE DEFINITIONS
// ============================================================================

// TestName identifies the hypothesis test that produced a result
type TestName string

const (
	TestProportionsZ TestName = "Proportions Z-Test" // pooled two-proportion z-test
	TestChiSquare    TestName = "Chi-Square Test"    // Pearson independence test
)

// Significance is the two-valued decision label attached to every result
type Significance string

const (
	Significant    Significance = "significant"
	NotSignificant Significance = "not significant"
)

// SignificanceFor applies the decision policy: significant iff p < alpha
func SignificanceFor(pValue, alpha float64) Significance {
	if pValue < alpha {
		return Significant
	}
	return NotSignificant
}

// Correction selects the multiple-comparison policy applied to post-hoc
// pairwise tests. The omnibus and two-group tests always use the raw alpha.
type Correction string

const (
	CorrectionNone       Correction = "none"       // every pair judged against the raw alpha
	CorrectionBonferroni Correction = "bonferroni" // alpha / m for m pairs
	CorrectionHolm       Correction = "holm"       // step-down alpha / (m - rank)
)

// ParseCorrection parses a correction name; the empty string means none
func ParseCorrection(s string) (Correction, error) {
	switch Correction(s) {
	case "", CorrectionNone:
		return CorrectionNone, nil
	case CorrectionBonferroni:
		return CorrectionBonferroni, nil
	case CorrectionHolm:
		return CorrectionHolm, nil
	default:
		return "", fmt.Errorf("%w: unknown correction %q (want none, bonferroni or holm)", core.ErrInvalidInput, s)
	}
}

// ValidateAlpha checks the significance level is a usable threshold
func ValidateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return core.NewValidationError("alpha", fmt.Sprintf("must be in (0, 1), got %v", alpha))
	}
	return nil
}

// ============================================================================
// RESULTS
// ============================================================================

// TestResult is the immutable outcome of one hypothesis test
// INVARIANTS:
// - PValue always present (0.0 to 1.0)
// - Significance == significant iff PValue < the alpha used at creation
type TestResult struct {
	TestName     TestName     `json:"test_name"`
	Statistic    float64      `json:"statistic"`
	PValue       float64      `json:"p_value"`
	Significance Significance `json:"significance"`
}

// PairwiseResult is one post-hoc comparison between two groups.
// AppliedAlpha records the threshold the pair was actually judged
// against once the correction policy is applied.
type PairwiseResult struct {
	Group1       string       `json:"group1"`
	Group2       string       `json:"group2"`
	Statistic    float64      `json:"statistic"`
	PValue       float64      `json:"p_value"`
	Significance Significance `json:"significance"`
	AppliedAlpha float64      `json:"applied_alpha"`
}

// RunResult is the top-level output of one analysis run. Pairwise is
// populated only when the omnibus test is significant. Fingerprint is
// derived from the run's inputs, so identical datasets and parameters
// produce identical fingerprints.
type RunResult struct {
	ID          core.RunID          `json:"id,omitempty"`
	TestUsed    TestName            `json:"test_used"`
	Results     TestResult          `json:"results"`
	Pairwise    []PairwiseResult    `json:"pairwise,omitempty"`
	Alpha       float64             `json:"alpha"`
	Correction  Correction          `json:"correction"`
	GroupCount  int                 `json:"group_count"`
	Fingerprint core.RunFingerprint `json:"fingerprint,omitempty"`
	CreatedAt   core.Timestamp      `json:"created_at"`
}

// HasPairwise reports whether post-hoc comparisons were attached
func (r RunResult) HasPairwise() bool {
	return len(r.Pairwise) > 0
}

// SignificantPairs returns the pairwise results that crossed their threshold
func (r RunResult) SignificantPairs() []PairwiseResult {
	var out []PairwiseResult
	for _, p := range r.Pairwise {
		if p.Significance == Significant {
			out = append(out, p)
		}
	}
	return out
}

// ============================================================================
// CONSTRUCTORS
// ============================================================================

// NewTestResult creates a test result with validation, deriving the
// significance label from the decision policy
func NewTestResult(name TestName, statistic, pValue, alpha float64) (TestResult, error) {
	if err := validateTestResult(statistic, pValue); err != nil {
		return TestResult{}, err
	}
	return TestResult{
		TestName:     name,
		Statistic:    statistic,
		PValue:       pValue,
		Significance: SignificanceFor(pValue, alpha),
	}, nil
}

// MustNewTestResult creates a test result (panics on invalid input)
// Use only in tests and development - production code should handle validation errors
func MustNewTestResult(name TestName, statistic, pValue, alpha float64) TestResult {
	result, err := NewTestResult(name, statistic, pValue, alpha)
	if err != nil {
		panic(err)
	}
	return result
}

// validateTestResult checks invariants for test results
func validateTestResult(statistic, pValue float64) error {
	if math.IsNaN(statistic) || math.IsInf(statistic, 0) {
		return fmt.Errorf("statistic must be finite, got %f", statistic)
	}
	if math.IsNaN(pValue) || pValue < 0.0 || pValue > 1.0 {
		return fmt.Errorf("PValue must be in [0.0, 1.0], got %f", pValue)
	}
	return nil
}
