package app

import (
	"fmt"
	"strings"

	"goab/domain/core"
	"goab/domain/experiment"
	"goab/domain/stats"
	"goab/ports"
)

// AnalysisService runs the end-to-end decision pipeline: validate,
// aggregate, hand the view to the decision engine, wrap the outcome.
type AnalysisService struct {
	engine ports.DecisionEngine
}

// AnalysisRequest defines the inputs for one analysis run
type AnalysisRequest struct {
	Dataset    experiment.Dataset
	Alpha      float64          // zero means DefaultAlpha
	Correction stats.Correction // empty means none
	RunID      core.RunID       // optional, generated if empty
}

// DefaultAlpha is the significance level used when a request leaves it unset
const DefaultAlpha = 0.05

// NewAnalysisService creates an analysis service
func NewAnalysisService(engine ports.DecisionEngine) *AnalysisService {
	return &AnalysisService{engine: engine}
}

// Run executes one analysis run. The dataset is aggregated fresh on
// every call and never written back, so repeated runs over the same
// inputs return identical results.
func (s *AnalysisService) Run(req AnalysisRequest) (*stats.RunResult, error) {
	alpha := req.Alpha
	if alpha == 0 {
		alpha = DefaultAlpha
	}
	if err := stats.ValidateAlpha(alpha); err != nil {
		return nil, err
	}

	correction, err := stats.ParseCorrection(string(req.Correction))
	if err != nil {
		return nil, err
	}

	if err := req.Dataset.Validate(); err != nil {
		return nil, err
	}

	view, err := experiment.Aggregate(req.Dataset)
	if err != nil {
		return nil, err
	}

	result, pairwise, err := s.engine.Decide(view, alpha, correction)
	if err != nil {
		return nil, err
	}

	runID := req.RunID
	if runID == "" {
		runID = core.RunID(core.NewID())
	}

	return &stats.RunResult{
		ID:          runID,
		TestUsed:    result.TestName,
		Results:     result,
		Pairwise:    pairwise,
		Alpha:       alpha,
		Correction:  correction,
		GroupCount:  view.GroupCount(),
		Fingerprint: computeRunFingerprint(view, alpha, correction),
		CreatedAt:   core.Now(),
	}, nil
}

// computeRunFingerprint creates a deterministic fingerprint for the
// run's inputs: aggregated counts in order, alpha and correction
func computeRunFingerprint(view *experiment.AggregatedDataset, alpha float64, correction stats.Correction) core.RunFingerprint {
	var data strings.Builder
	for _, g := range view.Groups() {
		data.WriteString(fmt.Sprintf("%s:%d/%d|", g.Label, g.PositiveCount, g.TotalCount))
	}
	data.WriteString(fmt.Sprintf("alpha=%g|correction=%s", alpha, correction))
	return core.NewRunFingerprint([]byte(data.String()))
}
