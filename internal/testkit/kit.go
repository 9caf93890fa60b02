package testkit

import (
	"goab/domain/experiment"
)

// TestKit provides canonical fixture datasets shared across test
// suites. Every fixture is rebuilt on each call so tests can mutate
// their copy freely.
type TestKit struct{}

// NewTestKit creates a new test kit instance
func NewTestKit() *TestKit {
	return &TestKit{}
}

// ClearLift is a two-group campaign with a lift large enough to be
// significant at alpha 0.05 (10% vs 15% of 1000 sends each).
func (t *TestKit) ClearLift() experiment.Dataset {
	return experiment.NewDataset([]experiment.Observation{
		{GroupLabel: "A", PositiveRate: 10, TotalCount: 1000},
		{GroupLabel: "B", PositiveRate: 15, TotalCount: 1000},
	})
}

// MarginalLift is a two-group campaign whose difference is far too
// small to reach significance (10% vs 10.2% of 1000 sends each).
func (t *TestKit) MarginalLift() experiment.Dataset {
	return experiment.NewDataset([]experiment.Observation{
		{GroupLabel: "A", PositiveRate: 10, TotalCount: 1000},
		{GroupLabel: "B", PositiveRate: 10.2, TotalCount: 1000},
	})
}

// IdenticalTriple is a three-group campaign with identical groups, so
// the omnibus test must come back not significant with no post-hoc.
func (t *TestKit) IdenticalTriple() experiment.Dataset {
	return experiment.NewDataset([]experiment.Observation{
		{GroupLabel: "A", PositiveRate: 10, TotalCount: 1000},
		{GroupLabel: "B", PositiveRate: 10, TotalCount: 1000},
		{GroupLabel: "C", PositiveRate: 10, TotalCount: 1000},
	})
}

// OutlierTriple is a three-group campaign where one group stands far
// apart, driving a significant omnibus and post-hoc localization.
func (t *TestKit) OutlierTriple() experiment.Dataset {
	return experiment.NewDataset([]experiment.Observation{
		{GroupLabel: "A", PositiveRate: 5, TotalCount: 1000},
		{GroupLabel: "B", PositiveRate: 5, TotalCount: 1000},
		{GroupLabel: "C", PositiveRate: 25, TotalCount: 1000},
	})
}

// ClearLiftTable is the ClearLift fixture in raw tabular form with
// the default column names.
func (t *TestKit) ClearLiftTable() experiment.Table {
	return experiment.Table{
		Headers: []string{"group", "positive_rate", "total_sends"},
		Rows: [][]string{
			{"A", "10", "1000"},
			{"B", "15", "1000"},
		},
	}
}

// OutlierTripleTable is the OutlierTriple fixture in raw tabular form.
func (t *TestKit) OutlierTripleTable() experiment.Table {
	return experiment.Table{
		Headers: []string{"group", "positive_rate", "total_sends"},
		Rows: [][]string{
			{"A", "5", "1000"},
			{"B", "5", "1000"},
			{"C", "25", "1000"},
		},
	}
}
