package experiment

import (
	"testing"

	"goab/domain/core"
)

// TestMapObservationsByColumnName checks mapping with reordered and
// extra columns
func TestMapObservationsByColumnName(t *testing.T) {
	table := Table{
		Headers: []string{"campaign_id", "total_sends", "group", "positive_rate"},
		Rows: [][]string{
			{"cmp-1", "1000", "control", "10.0"},
			{"cmp-1", "1000", "variant", "15.5"},
		},
	}

	ds, err := MapObservations(table, DefaultColumnMapping())
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if len(ds.Rows) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(ds.Rows))
	}
	if ds.Rows[0] != (Observation{GroupLabel: "control", PositiveRate: 10.0, TotalCount: 1000}) {
		t.Errorf("unexpected first observation: %+v", ds.Rows[0])
	}
	if ds.Rows[1].PositiveRate != 15.5 {
		t.Errorf("expected rate 15.5, got %v", ds.Rows[1].PositiveRate)
	}
}

// TestMapObservationsMissingColumn checks the missing-header error
func TestMapObservationsMissingColumn(t *testing.T) {
	table := Table{
		Headers: []string{"group", "positive_rate"},
		Rows:    [][]string{{"control", "10.0"}},
	}

	_, err := MapObservations(table, DefaultColumnMapping())
	if err == nil {
		t.Fatal("expected error for missing total_sends column")
	}
	if !core.IsInvalidInputError(err) {
		t.Errorf("expected invalid-input classification, got %v", err)
	}
}

// TestMapObservationsBadCells covers non-numeric and short rows
func TestMapObservationsBadCells(t *testing.T) {
	cases := []struct {
		name string
		rows [][]string
	}{
		{"rate not numeric", [][]string{{"control", "ten", "1000"}}},
		{"total not integer", [][]string{{"control", "10.0", "1000.5"}}},
		{"short row", [][]string{{"control", "10.0"}}},
		{"empty group", [][]string{{"  ", "10.0", "1000"}}},
	}

	mapping := ColumnMapping{Group: "group", PositiveRate: "positive_rate", Total: "total_sends"}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			table := Table{
				Headers: []string{"group", "positive_rate", "total_sends"},
				Rows:    tc.rows,
			}
			_, err := MapObservations(table, mapping)
			if err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
			if !core.IsInvalidInputError(err) {
				t.Errorf("expected invalid-input classification, got %v", err)
			}
		})
	}
}

// TestMapObservationsTrimsWhitespace checks header and cell trimming
func TestMapObservationsTrimsWhitespace(t *testing.T) {
	table := Table{
		Headers: []string{" group ", "positive_rate", "total_sends"},
		Rows:    [][]string{{" control ", " 10.0 ", " 1000 "}},
	}

	ds, err := MapObservations(table, DefaultColumnMapping())
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if ds.Rows[0].GroupLabel != "control" || ds.Rows[0].TotalCount != 1000 {
		t.Errorf("expected trimmed cells, got %+v", ds.Rows[0])
	}
}
