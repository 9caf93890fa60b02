package experiment

import (
	"fmt"
	"strings"

	"goab/domain/core"
)

// Observation is one input row: a group label, the percentage of trials
// with a positive outcome, and the trial count. A dataset may carry
// multiple rows for the same label.
type Observation struct {
	GroupLabel   string  `json:"group_label"`
	PositiveRate float64 `json:"positive_rate"`
	TotalCount   int64   `json:"total_count"`
}

// Validate checks the observation's numeric domain
func (o Observation) Validate() error {
	if o.PositiveRate < 0 || o.PositiveRate > 100 {
		return core.NewInvalidInputError(o.GroupLabel,
			fmt.Sprintf("positive rate %v outside [0, 100]", o.PositiveRate))
	}
	if o.TotalCount < 0 {
		return core.NewInvalidInputError(o.GroupLabel,
			fmt.Sprintf("negative total count %d", o.TotalCount))
	}
	return nil
}

// Dataset is an ordered collection of observations. Row order is
// significant: distinct labels are reported in first-appearance order
// and every downstream ordering derives from it.
type Dataset struct {
	Rows []Observation `json:"rows"`
}

// NewDataset builds a dataset from observation rows
func NewDataset(rows []Observation) Dataset {
	return Dataset{Rows: rows}
}

// DistinctLabels returns the unique group labels in first-appearance order
func (d Dataset) DistinctLabels() []string {
	seen := make(map[string]bool, len(d.Rows))
	labels := make([]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		if !seen[row.GroupLabel] {
			seen[row.GroupLabel] = true
			labels = append(labels, row.GroupLabel)
		}
	}
	return labels
}

// Validate checks that the dataset can be analyzed at all: every row in
// numeric domain and at least two distinct groups present.
func (d Dataset) Validate() error {
	if len(d.Rows) == 0 {
		return fmt.Errorf("%w: dataset has no rows", core.ErrGroupCardinality)
	}
	for _, row := range d.Rows {
		if err := row.Validate(); err != nil {
			return err
		}
	}
	if n := len(d.DistinctLabels()); n < 2 {
		return fmt.Errorf("%w: need at least 2 distinct groups, got %d", core.ErrGroupCardinality, n)
	}
	return nil
}

// Clone returns an independent copy. Concurrent hosts must run each
// analysis on its own copy; the engine never locks the dataset.
func (d Dataset) Clone() Dataset {
	rows := make([]Observation, len(d.Rows))
	copy(rows, d.Rows)
	return Dataset{Rows: rows}
}

// String summarizes the dataset for log lines
func (d Dataset) String() string {
	return fmt.Sprintf("dataset{groups=[%s] rows=%d}",
		strings.Join(d.DistinctLabels(), " "), len(d.Rows))
}
