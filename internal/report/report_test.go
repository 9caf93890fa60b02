package report

import (
	"bytes"
	"strings"
	"testing"

	"goab/adapters/stats/engine"
	"goab/app"
	"goab/domain/experiment"
	"goab/internal/testkit"
)

func buildReport(t *testing.T, dataset experiment.Dataset) *Report {
	t.Helper()
	svc := app.NewAnalysisService(engine.New())
	run, err := svc.Run(app.AnalysisRequest{Dataset: dataset})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	view, err := experiment.Aggregate(dataset)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	return New(run, view)
}

func TestTextReportCarriesDecisionAndGroups(t *testing.T) {
	rep := buildReport(t, testkit.NewTestKit().ClearLift())

	var buf bytes.Buffer
	if err := rep.WriteText(&buf); err != nil {
		t.Fatalf("write text: %v", err)
	}
	text := buf.String()

	for _, want := range []string{
		"Proportions Z-Test",
		"significant",
		"GROUP",
		"A", "B",
		"10.00%", "15.00%",
		"Rates: mean 12.50%",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text report missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Post-Hoc") {
		t.Error("two-group report must not carry a post-hoc section")
	}
}

func TestTextReportIncludesPosthocForMultiGroup(t *testing.T) {
	rep := buildReport(t, testkit.NewTestKit().OutlierTriple())

	var buf bytes.Buffer
	if err := rep.WriteText(&buf); err != nil {
		t.Fatalf("write text: %v", err)
	}
	text := buf.String()

	if !strings.Contains(text, "Chi-Square Test") {
		t.Errorf("expected omnibus test name:\n%s", text)
	}
	if !strings.Contains(text, "Post-Hoc Comparisons") {
		t.Errorf("expected post-hoc section:\n%s", text)
	}
	if !strings.Contains(text, "A vs C") {
		t.Errorf("expected pair A vs C:\n%s", text)
	}
}

func TestMarkdownReportTables(t *testing.T) {
	md := buildReport(t, testkit.NewTestKit().OutlierTriple()).Markdown()

	if !strings.HasPrefix(md, "# A/B Test Report") {
		t.Errorf("markdown must start with the title, got:\n%.80s", md)
	}
	if !strings.Contains(md, "| Group | Positives | Total | Rate |") {
		t.Errorf("missing group table header:\n%s", md)
	}
	if !strings.Contains(md, "| A vs B |") {
		t.Errorf("missing pairwise row:\n%s", md)
	}
}

func TestHTMLReportRendersTables(t *testing.T) {
	page := string(buildReport(t, testkit.NewTestKit().OutlierTriple()).HTML())

	for _, want := range []string{"<h1", "<table>", "<td>A</td>", "Chi-Square Test"} {
		if !strings.Contains(page, want) {
			t.Errorf("html report missing %q:\n%s", want, page)
		}
	}
}

func TestRateSummarySpread(t *testing.T) {
	summary, err := buildReport(t, testkit.NewTestKit().OutlierTriple()).RateSummary()
	if err != nil {
		t.Fatalf("rate summary: %v", err)
	}
	if summary.Min != 5 || summary.Max != 25 {
		t.Errorf("min/max: got %v/%v, want 5/25", summary.Min, summary.Max)
	}
	if summary.Mean < 11.6 || summary.Mean > 11.7 {
		t.Errorf("mean: got %v, want ~11.67", summary.Mean)
	}
	if summary.StdDev <= 0 {
		t.Errorf("sd must be positive, got %v", summary.StdDev)
	}
}
