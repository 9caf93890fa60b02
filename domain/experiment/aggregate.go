package experiment

import (
	"math"
)

// AggregatedRow mirrors one input row with its derived positive count.
// positive_count = round(positive_rate/100 * total_count), half to even.
type AggregatedRow struct {
	GroupLabel    string  `json:"group_label"`
	PositiveRate  float64 `json:"positive_rate"`
	TotalCount    int64   `json:"total_count"`
	PositiveCount int64   `json:"positive_count"`
}

// GroupCounts holds the per-label sums consumed by the two-group and
// omnibus tests. Rows sharing a label are summed.
type GroupCounts struct {
	Label         string `json:"label"`
	PositiveCount int64  `json:"positive_count"`
	TotalCount    int64  `json:"total_count"`
}

// NegativeCount is the complement column of the contingency table
func (g GroupCounts) NegativeCount() int64 {
	return g.TotalCount - g.PositiveCount
}

// AggregatedDataset is the derived view produced by Aggregate. It is
// built once per run from the caller's dataset and never written back;
// accessors hand out copies so the view stays immutable.
type AggregatedDataset struct {
	rows   []AggregatedRow
	groups []GroupCounts
	first  map[string]AggregatedRow
}

// Aggregate derives positive counts for every row and per-label sums in
// first-appearance order. The input dataset is read, never mutated, and
// the derivation is repeated on every call.
func Aggregate(d Dataset) (*AggregatedDataset, error) {
	view := &AggregatedDataset{
		rows:  make([]AggregatedRow, 0, len(d.Rows)),
		first: make(map[string]AggregatedRow, len(d.Rows)),
	}
	order := make(map[string]int, len(d.Rows))

	for _, row := range d.Rows {
		if err := row.Validate(); err != nil {
			return nil, err
		}
		// Half-way values round to even, e.g. 2.5 -> 2 and 7.5 -> 8.
		positive := int64(math.RoundToEven(row.PositiveRate / 100 * float64(row.TotalCount)))
		agg := AggregatedRow{
			GroupLabel:    row.GroupLabel,
			PositiveRate:  row.PositiveRate,
			TotalCount:    row.TotalCount,
			PositiveCount: positive,
		}
		view.rows = append(view.rows, agg)

		if idx, ok := order[row.GroupLabel]; ok {
			view.groups[idx].PositiveCount += positive
			view.groups[idx].TotalCount += row.TotalCount
		} else {
			order[row.GroupLabel] = len(view.groups)
			view.groups = append(view.groups, GroupCounts{
				Label:         row.GroupLabel,
				PositiveCount: positive,
				TotalCount:    row.TotalCount,
			})
			view.first[row.GroupLabel] = agg
		}
	}
	return view, nil
}

// Rows returns a copy of the per-row derivations in input order
func (a *AggregatedDataset) Rows() []AggregatedRow {
	rows := make([]AggregatedRow, len(a.rows))
	copy(rows, a.rows)
	return rows
}

// Groups returns a copy of the per-label sums in first-appearance order
func (a *AggregatedDataset) Groups() []GroupCounts {
	groups := make([]GroupCounts, len(a.groups))
	copy(groups, a.groups)
	return groups
}

// GroupCount returns the number of distinct labels
func (a *AggregatedDataset) GroupCount() int {
	return len(a.groups)
}

// Labels returns the distinct labels in first-appearance order
func (a *AggregatedDataset) Labels() []string {
	labels := make([]string, len(a.groups))
	for i, g := range a.groups {
		labels[i] = g.Label
	}
	return labels
}

// FirstRow returns the first input row observed for a label. The
// pairwise comparator reads single rows here while the two-group and
// omnibus paths consume the per-label sums from Groups.
func (a *AggregatedDataset) FirstRow(label string) (AggregatedRow, bool) {
	row, ok := a.first[label]
	return row, ok
}
