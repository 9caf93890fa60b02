package app

import (
	"goab/domain/experiment"
	"goab/domain/stats"
)

// Analyzer is the one-shot calculator shape: bind tabular data, the
// three column names and alpha at construction, then call Run. Column
// mapping happens eagerly so construction reports missing columns and
// unparseable cells immediately.
type Analyzer struct {
	service    *AnalysisService
	dataset    experiment.Dataset
	alpha      float64
	correction stats.Correction
}

// NewAnalyzer builds an analyzer from a raw table. Alpha zero selects
// DefaultAlpha; the correction policy applies to post-hoc pairs only.
func NewAnalyzer(service *AnalysisService, table experiment.Table, groupCol, rateCol, totalCol string, alpha float64, correction stats.Correction) (*Analyzer, error) {
	dataset, err := experiment.MapObservations(table, experiment.ColumnMapping{
		Group:        groupCol,
		PositiveRate: rateCol,
		Total:        totalCol,
	})
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		service:    service,
		dataset:    dataset,
		alpha:      alpha,
		correction: correction,
	}, nil
}

// NewDatasetAnalyzer builds an analyzer over already-typed observations
func NewDatasetAnalyzer(service *AnalysisService, dataset experiment.Dataset, alpha float64, correction stats.Correction) *Analyzer {
	return &Analyzer{
		service:    service,
		dataset:    dataset,
		alpha:      alpha,
		correction: correction,
	}
}

// Run executes the bound analysis. Calling it twice produces results
// that differ only in run ID and timestamp.
func (a *Analyzer) Run() (*stats.RunResult, error) {
	return a.service.Run(AnalysisRequest{
		Dataset:    a.dataset,
		Alpha:      a.alpha,
		Correction: a.correction,
	})
}
