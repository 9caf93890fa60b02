package testkit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCampaignGeneratorIsDeterministic(t *testing.T) {
	config := DefaultCampaignConfig()

	first, err := NewCampaignGenerator(config).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := NewCampaignGenerator(config).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if diff := cmp.Diff(first.Rows, second.Rows); diff != "" {
		t.Fatalf("same seed produced different datasets (-first +second):\n%s", diff)
	}
}

func TestCampaignGeneratorShape(t *testing.T) {
	config := DefaultCampaignConfig()
	config.GroupCount = 5
	config.TotalPerGroup = 250

	dataset, err := NewCampaignGenerator(config).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(dataset.Rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(dataset.Rows))
	}
	if got := dataset.Rows[0].GroupLabel; got != "variant_1" {
		t.Errorf("first label: got %q, want variant_1", got)
	}
	for _, row := range dataset.Rows {
		if row.PositiveRate < 0 || row.PositiveRate > 100 {
			t.Errorf("rate out of domain for %s: %v", row.GroupLabel, row.PositiveRate)
		}
		if row.TotalCount != 250 {
			t.Errorf("total for %s: got %d, want 250", row.GroupLabel, row.TotalCount)
		}
	}
	if err := dataset.Validate(); err != nil {
		t.Fatalf("generated dataset must validate: %v", err)
	}
}

func TestCampaignGeneratorRejectsBadConfig(t *testing.T) {
	config := DefaultCampaignConfig()
	config.GroupCount = 1
	if _, err := NewCampaignGenerator(config).Generate(); err == nil {
		t.Fatal("expected error for single group config")
	}

	config = DefaultCampaignConfig()
	config.TotalPerGroup = 0
	if _, err := NewCampaignGenerator(config).Generate(); err == nil {
		t.Fatal("expected error for zero totals")
	}
}

func TestFixturesValidate(t *testing.T) {
	kit := NewTestKit()
	fixtures := map[string]interface{ Validate() error }{
		"clear_lift":       kit.ClearLift(),
		"marginal_lift":    kit.MarginalLift(),
		"identical_triple": kit.IdenticalTriple(),
		"outlier_triple":   kit.OutlierTriple(),
	}
	for name, fixture := range fixtures {
		if err := fixture.Validate(); err != nil {
			t.Errorf("fixture %s: %v", name, err)
		}
	}
}
