package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	mstats "github.com/montanaflynn/stats"

	"goab/domain/experiment"
	"goab/domain/stats"
)

// Report renders one analysis run for humans: plain text for the
// terminal, markdown for docs, HTML for sharing.
type Report struct {
	run    *stats.RunResult
	groups []experiment.GroupCounts
}

// RateSummary describes the spread of observed group rates
type RateSummary struct {
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// New builds a report from a run and the aggregated view it was
// computed over
func New(run *stats.RunResult, view *experiment.AggregatedDataset) *Report {
	return &Report{run: run, groups: view.Groups()}
}

// RateSummary computes descriptive statistics over the group rates
func (r *Report) RateSummary() (RateSummary, error) {
	rates := make([]float64, 0, len(r.groups))
	for _, g := range r.groups {
		if g.TotalCount == 0 {
			continue
		}
		rates = append(rates, 100*float64(g.PositiveCount)/float64(g.TotalCount))
	}
	mean, err := mstats.Mean(rates)
	if err != nil {
		return RateSummary{}, fmt.Errorf("failed to summarize rates: %w", err)
	}
	minRate, err := mstats.Min(rates)
	if err != nil {
		return RateSummary{}, fmt.Errorf("failed to summarize rates: %w", err)
	}
	maxRate, err := mstats.Max(rates)
	if err != nil {
		return RateSummary{}, fmt.Errorf("failed to summarize rates: %w", err)
	}
	stdDev, err := mstats.StandardDeviation(rates)
	if err != nil {
		return RateSummary{}, fmt.Errorf("failed to summarize rates: %w", err)
	}
	return RateSummary{Mean: mean, Min: minRate, Max: maxRate, StdDev: stdDev}, nil
}

// WriteText writes the terminal rendering
func (r *Report) WriteText(w io.Writer) error {
	run := r.run

	fmt.Fprintf(w, "A/B Test Report\n")
	fmt.Fprintf(w, "===============\n\n")
	if run.ID != "" {
		fmt.Fprintf(w, "Run:        %s\n", run.ID)
	}
	fmt.Fprintf(w, "Test:       %s\n", run.TestUsed)
	fmt.Fprintf(w, "Statistic:  %.4f\n", run.Results.Statistic)
	fmt.Fprintf(w, "P-Value:    %.6f\n", run.Results.PValue)
	fmt.Fprintf(w, "Decision:   %s (alpha %g, correction %s)\n\n",
		run.Results.Significance, run.Alpha, run.Correction)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tPOSITIVES\tTOTAL\tRATE")
	for _, g := range r.groups {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f%%\n",
			g.Label, g.PositiveCount, g.TotalCount, ratePercent(g))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if summary, err := r.RateSummary(); err == nil {
		fmt.Fprintf(w, "\nRates: mean %.2f%%, min %.2f%%, max %.2f%%, sd %.2f\n",
			summary.Mean, summary.Min, summary.Max, summary.StdDev)
	}

	if !run.HasPairwise() {
		fmt.Fprintln(w)
		return nil
	}

	fmt.Fprintf(w, "\nPost-Hoc Comparisons\n\n")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PAIR\tSTATISTIC\tP-VALUE\tALPHA\tDECISION")
	for _, p := range run.Pairwise {
		fmt.Fprintf(tw, "%s vs %s\t%.4f\t%.6f\t%.4g\t%s\n",
			p.Group1, p.Group2, p.Statistic, p.PValue, p.AppliedAlpha, p.Significance)
	}
	return tw.Flush()
}

// Markdown returns the markdown rendering
func (r *Report) Markdown() string {
	run := r.run
	var b strings.Builder

	b.WriteString("# A/B Test Report\n\n")
	if run.ID != "" {
		fmt.Fprintf(&b, "- **Run:** `%s`\n", run.ID)
	}
	fmt.Fprintf(&b, "- **Test:** %s\n", run.TestUsed)
	fmt.Fprintf(&b, "- **Statistic:** %.4f\n", run.Results.Statistic)
	fmt.Fprintf(&b, "- **P-Value:** %.6f\n", run.Results.PValue)
	fmt.Fprintf(&b, "- **Decision:** %s (alpha %g, correction %s)\n\n",
		run.Results.Significance, run.Alpha, run.Correction)

	b.WriteString("## Groups\n\n")
	b.WriteString("| Group | Positives | Total | Rate |\n")
	b.WriteString("|-------|-----------|-------|------|\n")
	for _, g := range r.groups {
		fmt.Fprintf(&b, "| %s | %d | %d | %.2f%% |\n",
			g.Label, g.PositiveCount, g.TotalCount, ratePercent(g))
	}

	if summary, err := r.RateSummary(); err == nil {
		fmt.Fprintf(&b, "\nRates: mean %.2f%%, min %.2f%%, max %.2f%%, sd %.2f\n",
			summary.Mean, summary.Min, summary.Max, summary.StdDev)
	}

	if run.HasPairwise() {
		b.WriteString("\n## Post-Hoc Comparisons\n\n")
		b.WriteString("| Pair | Statistic | P-Value | Alpha | Decision |\n")
		b.WriteString("|------|-----------|---------|-------|----------|\n")
		for _, p := range run.Pairwise {
			fmt.Fprintf(&b, "| %s vs %s | %.4f | %.6f | %.4g | %s |\n",
				p.Group1, p.Group2, p.Statistic, p.PValue, p.AppliedAlpha, p.Significance)
		}
	}
	return b.String()
}

// HTML returns the HTML rendering, converted from markdown
func (r *Report) HTML() []byte {
	extensions := parser.CommonExtensions | parser.Tables
	doc := parser.NewWithExtensions(extensions).Parse([]byte(r.Markdown()))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

func ratePercent(g experiment.GroupCounts) float64 {
	if g.TotalCount == 0 {
		return 0
	}
	return 100 * float64(g.PositiveCount) / float64(g.TotalCount)
}
