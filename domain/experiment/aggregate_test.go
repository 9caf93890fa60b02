package experiment

import (
	"testing"

	"goab/domain/core"
)

// TestAggregateDerivesCounts checks the rate-to-count derivation on
// plain percentages
func TestAggregateDerivesCounts(t *testing.T) {
	ds := NewDataset([]Observation{
		{GroupLabel: "A", PositiveRate: 10.0, TotalCount: 1000},
		{GroupLabel: "B", PositiveRate: 15.0, TotalCount: 1000},
		{GroupLabel: "C", PositiveRate: 10.2, TotalCount: 1000},
	})

	view, err := Aggregate(ds)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	want := []int64{100, 150, 102}
	rows := view.Rows()
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(rows))
	}
	for i, row := range rows {
		if row.PositiveCount != want[i] {
			t.Errorf("Row %d (%s): expected positive count %d, got %d",
				i, row.GroupLabel, want[i], row.PositiveCount)
		}
	}
}

// TestAggregateRoundsHalfToEven pins the rounding rule on .5 boundaries
func TestAggregateRoundsHalfToEven(t *testing.T) {
	ds := NewDataset([]Observation{
		{GroupLabel: "low", PositiveRate: 25.0, TotalCount: 10},  // 2.5 -> 2
		{GroupLabel: "high", PositiveRate: 75.0, TotalCount: 10}, // 7.5 -> 8
	})

	view, err := Aggregate(ds)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	rows := view.Rows()
	if rows[0].PositiveCount != 2 {
		t.Errorf("Expected 2.5 to round to 2, got %d", rows[0].PositiveCount)
	}
	if rows[1].PositiveCount != 8 {
		t.Errorf("Expected 7.5 to round to 8, got %d", rows[1].PositiveCount)
	}
}

// TestAggregateRoundTrip verifies that exact rates recover their counts
func TestAggregateRoundTrip(t *testing.T) {
	cases := []struct {
		positive int64
		total    int64
	}{
		{0, 10},
		{10, 10},
		{123, 1000},
		{7, 9},
		{499999, 1000000},
	}

	for _, tc := range cases {
		rate := 100 * float64(tc.positive) / float64(tc.total)
		ds := NewDataset([]Observation{
			{GroupLabel: "A", PositiveRate: rate, TotalCount: tc.total},
			{GroupLabel: "B", PositiveRate: 0, TotalCount: tc.total},
		})

		view, err := Aggregate(ds)
		if err != nil {
			t.Fatalf("Aggregate failed for %d/%d: %v", tc.positive, tc.total, err)
		}
		if got := view.Rows()[0].PositiveCount; got != tc.positive {
			t.Errorf("Round trip %d/%d: expected %d, got %d",
				tc.positive, tc.total, tc.positive, got)
		}
	}
}

// TestAggregateSumsDuplicateLabels checks that repeated labels sum into
// one group while FirstRow keeps the first derivation
func TestAggregateSumsDuplicateLabels(t *testing.T) {
	ds := NewDataset([]Observation{
		{GroupLabel: "A", PositiveRate: 10.0, TotalCount: 1000},
		{GroupLabel: "B", PositiveRate: 20.0, TotalCount: 500},
		{GroupLabel: "A", PositiveRate: 30.0, TotalCount: 200},
	})

	view, err := Aggregate(ds)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if view.GroupCount() != 2 {
		t.Fatalf("Expected 2 distinct groups, got %d", view.GroupCount())
	}

	groups := view.Groups()
	if groups[0].Label != "A" || groups[1].Label != "B" {
		t.Fatalf("Expected first-appearance order [A B], got %v", view.Labels())
	}
	if groups[0].PositiveCount != 160 || groups[0].TotalCount != 1200 {
		t.Errorf("Group A: expected sums 160/1200, got %d/%d",
			groups[0].PositiveCount, groups[0].TotalCount)
	}
	if groups[0].NegativeCount() != 1040 {
		t.Errorf("Group A: expected negative count 1040, got %d", groups[0].NegativeCount())
	}

	first, ok := view.FirstRow("A")
	if !ok {
		t.Fatal("Expected a first row for group A")
	}
	if first.PositiveCount != 100 || first.TotalCount != 1000 {
		t.Errorf("Group A first row: expected 100/1000, got %d/%d",
			first.PositiveCount, first.TotalCount)
	}
}

// TestAggregateLeavesInputUntouched checks that the view is derived
// without writing back to caller rows
func TestAggregateLeavesInputUntouched(t *testing.T) {
	rows := []Observation{
		{GroupLabel: "A", PositiveRate: 10.0, TotalCount: 1000},
		{GroupLabel: "B", PositiveRate: 15.0, TotalCount: 1000},
	}
	ds := NewDataset(rows)

	if _, err := Aggregate(ds); err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if rows[0] != (Observation{GroupLabel: "A", PositiveRate: 10.0, TotalCount: 1000}) {
		t.Errorf("Input row mutated: %+v", rows[0])
	}
}

// TestAggregateRejectsOutOfDomain covers the numeric range checks
func TestAggregateRejectsOutOfDomain(t *testing.T) {
	cases := []struct {
		name string
		row  Observation
	}{
		{"negative rate", Observation{GroupLabel: "A", PositiveRate: -0.1, TotalCount: 100}},
		{"rate above 100", Observation{GroupLabel: "A", PositiveRate: 100.5, TotalCount: 100}},
		{"negative total", Observation{GroupLabel: "A", PositiveRate: 50, TotalCount: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Aggregate(NewDataset([]Observation{tc.row}))
			if err == nil {
				t.Fatalf("Expected error for %+v", tc.row)
			}
			if !core.IsInvalidInputError(err) {
				t.Errorf("Expected invalid-input classification, got %v", err)
			}
		})
	}
}

// TestDatasetValidate covers the cardinality rules
func TestDatasetValidate(t *testing.T) {
	empty := NewDataset(nil)
	if err := empty.Validate(); !core.IsCardinalityError(err) {
		t.Errorf("Expected cardinality error for empty dataset, got %v", err)
	}

	single := NewDataset([]Observation{
		{GroupLabel: "A", PositiveRate: 10, TotalCount: 100},
		{GroupLabel: "A", PositiveRate: 12, TotalCount: 100},
	})
	if err := single.Validate(); !core.IsCardinalityError(err) {
		t.Errorf("Expected cardinality error for single group, got %v", err)
	}

	pair := NewDataset([]Observation{
		{GroupLabel: "A", PositiveRate: 10, TotalCount: 100},
		{GroupLabel: "B", PositiveRate: 12, TotalCount: 100},
	})
	if err := pair.Validate(); err != nil {
		t.Errorf("Expected two-group dataset to validate, got %v", err)
	}
}

// TestCloneIndependence checks that clones do not share row storage
func TestCloneIndependence(t *testing.T) {
	ds := NewDataset([]Observation{
		{GroupLabel: "A", PositiveRate: 10, TotalCount: 100},
		{GroupLabel: "B", PositiveRate: 12, TotalCount: 100},
	})

	clone := ds.Clone()
	clone.Rows[0].PositiveRate = 99

	if ds.Rows[0].PositiveRate != 10 {
		t.Errorf("Clone shares storage with source: %+v", ds.Rows[0])
	}
}
