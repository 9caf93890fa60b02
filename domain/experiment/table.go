package experiment

import (
	"fmt"
	"strconv"
	"strings"

	"goab/domain/core"
)

// Table is raw tabular input: a header row plus string cells, as file
// readers and API clients deliver it. Column meaning is assigned by a
// ColumnMapping, never by position.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ColumnMapping names the three columns an analysis consumes
type ColumnMapping struct {
	Group        string `json:"group"`
	PositiveRate string `json:"positive_rate"`
	Total        string `json:"total"`
}

// DefaultColumnMapping matches the column names the interactive tool
// and the bundled examples use
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		Group:        "group",
		PositiveRate: "positive_rate",
		Total:        "total_sends",
	}
}

// MapObservations projects a table onto observations using the named
// columns. Header lookup is exact after whitespace trimming; numeric
// cells must parse fully.
func MapObservations(table Table, cols ColumnMapping) (Dataset, error) {
	groupIdx, err := columnIndex(table.Headers, cols.Group)
	if err != nil {
		return Dataset{}, err
	}
	rateIdx, err := columnIndex(table.Headers, cols.PositiveRate)
	if err != nil {
		return Dataset{}, err
	}
	totalIdx, err := columnIndex(table.Headers, cols.Total)
	if err != nil {
		return Dataset{}, err
	}

	rows := make([]Observation, 0, len(table.Rows))
	for i, row := range table.Rows {
		if len(row) <= groupIdx || len(row) <= rateIdx || len(row) <= totalIdx {
			return Dataset{}, core.NewInvalidInputError(fmt.Sprintf("row %d", i+1),
				fmt.Sprintf("has %d cells, need %d", len(row), maxIndex(groupIdx, rateIdx, totalIdx)+1))
		}

		group := strings.TrimSpace(row[groupIdx])
		if group == "" {
			return Dataset{}, core.NewInvalidInputError(fmt.Sprintf("row %d", i+1), "empty group label")
		}

		rate, err := strconv.ParseFloat(strings.TrimSpace(row[rateIdx]), 64)
		if err != nil {
			return Dataset{}, core.NewInvalidInputError(group,
				fmt.Sprintf("positive rate %q is not numeric", row[rateIdx]))
		}
		total, err := strconv.ParseInt(strings.TrimSpace(row[totalIdx]), 10, 64)
		if err != nil {
			return Dataset{}, core.NewInvalidInputError(group,
				fmt.Sprintf("total count %q is not an integer", row[totalIdx]))
		}

		rows = append(rows, Observation{GroupLabel: group, PositiveRate: rate, TotalCount: total})
	}
	return NewDataset(rows), nil
}

func columnIndex(headers []string, name string) (int, error) {
	for i, h := range headers {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (have %v)", core.ErrMissingColumn, name, headers)
}

func maxIndex(idxs ...int) int {
	max := 0
	for _, idx := range idxs {
		if idx > max {
			max = idx
		}
	}
	return max
}
