package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"goab/adapters/api"
	"goab/adapters/excel"
	"goab/adapters/postgres"
	"goab/adapters/stats/engine"
	"goab/app"
	"goab/domain/core"
	"goab/domain/experiment"
	"goab/domain/stats"
	"goab/internal"
	"goab/internal/config"
	"goab/internal/report"
	"goab/internal/scenario"
	"goab/ports"
)

func main() {
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Debug("no .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:   "goab",
		Short: "A/B test statistical decision engine",
		Long: `goab decides whether campaign groups differ: two groups get a
pooled two-proportion z-test, three or more get a chi-square omnibus
with post-hoc pairwise localization.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newBatchCmd(),
		newInteractiveCmd(),
		newServeCmd(),
		newMigrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type runOptions struct {
	inputFile  string
	sheet      string
	groupCol   string
	rateCol    string
	totalCol   string
	groups     []string
	alpha      float64
	correction string
	format     string
	output     string
	store      bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [input-file]",
		Short: "Analyze a campaign from a file or inline groups",
		Long: `Analyze one campaign and print the decision. Input is either a
tabular file (CSV or Excel) or repeated --group flags.

Examples:
  goab run campaign.xlsx --alpha 0.01 --correction holm --format markdown
  goab run --group A=10:1000 --group B=15:1000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.inputFile = args[0]
			}
			if opts.inputFile == "" && len(opts.groups) == 0 {
				return fmt.Errorf("provide an input file or at least two --group flags")
			}
			if opts.inputFile != "" && len(opts.groups) > 0 {
				return fmt.Errorf("provide an input file or --group flags, not both")
			}
			if opts.groupCol == "" {
				opts.groupCol = cfg.Analysis.GroupColumn
			}
			if opts.rateCol == "" {
				opts.rateCol = cfg.Analysis.RateColumn
			}
			if opts.totalCol == "" {
				opts.totalCol = cfg.Analysis.TotalColumn
			}
			if opts.correction == "" {
				opts.correction = cfg.Analysis.Correction
			}
			return runAnalysis(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.groupCol, "group-col", "", "Column holding the group label (default \"group\")")
	cmd.Flags().StringVar(&opts.rateCol, "rate-col", "", "Column holding the positive rate percentage (default \"positive_rate\")")
	cmd.Flags().StringVar(&opts.totalCol, "total-col", "", "Column holding the total send count (default \"total_sends\")")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Workbook sheet to read (default: first sheet)")
	cmd.Flags().StringArrayVar(&opts.groups, "group", nil, "Inline group as label=rate:total (repeatable)")
	cmd.Flags().Float64Var(&opts.alpha, "alpha", 0, "Significance level (default 0.05)")
	cmd.Flags().StringVar(&opts.correction, "correction", "", "Post-hoc correction: none, bonferroni or holm")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, markdown, html or json")
	cmd.Flags().StringVar(&opts.output, "output", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.store, "store", false, "Archive the run to PostgreSQL (requires DATABASE_URL)")

	return cmd
}

func runAnalysis(ctx context.Context, cfg *config.Config, opts runOptions) error {
	dataset, err := loadDataset(opts)
	if err != nil {
		return err
	}

	service := app.NewAnalysisService(engine.New())
	analyzer := app.NewDatasetAnalyzer(service, dataset, opts.alpha, stats.Correction(opts.correction))
	result, err := analyzer.Run()
	if err != nil {
		return err
	}

	if opts.store {
		if err := archiveRun(ctx, cfg, result); err != nil {
			return err
		}
	}

	view, err := experiment.Aggregate(dataset)
	if err != nil {
		return err
	}
	return writeReport(report.New(result, view), result, opts.format, opts.output)
}

func loadDataset(opts runOptions) (experiment.Dataset, error) {
	if opts.inputFile == "" {
		return parseInlineGroups(opts.groups)
	}

	reader := excel.NewDataReader(opts.inputFile)
	if opts.sheet != "" {
		reader.WithSheet(opts.sheet)
	}
	table, err := reader.Read()
	if err != nil {
		return experiment.Dataset{}, err
	}
	return experiment.MapObservations(*table, experiment.ColumnMapping{
		Group: opts.groupCol, PositiveRate: opts.rateCol, Total: opts.totalCol,
	})
}

// parseInlineGroups turns label=rate:total specs into a dataset
func parseInlineGroups(specs []string) (experiment.Dataset, error) {
	rows := make([]experiment.Observation, 0, len(specs))
	for _, raw := range specs {
		label, rest, ok := strings.Cut(raw, "=")
		rateStr, totalStr, ok2 := strings.Cut(rest, ":")
		if !ok || !ok2 {
			return experiment.Dataset{}, core.NewValidationError("group", fmt.Sprintf("%q is not label=rate:total", raw))
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(rateStr), 64)
		if err != nil {
			return experiment.Dataset{}, core.NewValidationError("group", fmt.Sprintf("rate %q is not numeric", rateStr))
		}
		total, err := strconv.ParseInt(strings.TrimSpace(totalStr), 10, 64)
		if err != nil {
			return experiment.Dataset{}, core.NewValidationError("group", fmt.Sprintf("total %q is not an integer", totalStr))
		}
		rows = append(rows, experiment.Observation{
			GroupLabel:   strings.TrimSpace(label),
			PositiveRate: rate,
			TotalCount:   total,
		})
	}
	return experiment.NewDataset(rows), nil
}

func archiveRun(ctx context.Context, cfg *config.Config, run *stats.RunResult) error {
	if !cfg.HasArchive() {
		return fmt.Errorf("--store requires DATABASE_URL to be configured")
	}

	db, err := postgres.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.NewMigrator(db).Up(ctx); err != nil {
		return err
	}
	if err := postgres.NewRunRepository(db).SaveRun(ctx, run); err != nil {
		return err
	}
	internal.DefaultLogger.Info("run %s archived", run.ID)
	return nil
}

func writeReport(rep *report.Report, result interface{}, format, output string) error {
	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "text":
		return rep.WriteText(out)
	case "markdown":
		_, err := fmt.Fprintln(out, rep.Markdown())
		return err
	case "html":
		_, err := out.Write(rep.HTML())
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		return fmt.Errorf("unknown format %q (want text, markdown, html or json)", format)
	}
}

func newBatchCmd() *cobra.Command {
	var (
		concurrency int64
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "batch [scenario-file]",
		Short: "Run a YAML suite of analyses with bounded parallelism",
		Long: `Run every scenario in a YAML suite and print one decision per line.

Example: goab batch scenarios.yaml --concurrency 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), args[0], concurrency, asJSON)
		},
	}

	cmd.Flags().Int64Var(&concurrency, "concurrency", 4, "Maximum simultaneous analyses")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print outcomes as JSON")

	return cmd
}

func runBatch(ctx context.Context, suitePath string, concurrency int64, asJSON bool) error {
	suite, err := scenario.Load(suitePath)
	if err != nil {
		return err
	}

	service := app.NewAnalysisService(engine.New())
	batch := app.NewBatchService(service, concurrency)
	outcomes := batch.RunAll(ctx, suite.Items())

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcomesPayload(outcomes))
	}

	failed := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
			fmt.Printf("%-24s ERROR  %v\n", out.Name, out.Err)
			continue
		}
		r := out.Result
		fmt.Printf("%-24s %-18s statistic=%.4f p=%.6f %s\n",
			out.Name, r.TestUsed, r.Results.Statistic, r.Results.PValue, r.Results.Significance)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(outcomes))
	}
	return nil
}

type outcomeJSON struct {
	Name   string      `json:"name"`
	Run    interface{} `json:"run,omitempty"`
	Error  string      `json:"error,omitempty"`
	Failed bool        `json:"failed"`
}

func outcomesPayload(outcomes []app.BatchOutcome) []outcomeJSON {
	payload := make([]outcomeJSON, 0, len(outcomes))
	for _, out := range outcomes {
		item := outcomeJSON{Name: out.Name, Failed: out.Err != nil}
		if out.Err != nil {
			item.Error = out.Err.Error()
		} else {
			item.Run = out.Result
		}
		payload = append(payload, item)
	}
	return payload
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the analysis API. With DATABASE_URL set, runs are archived
to PostgreSQL and exposed under /api/v1/runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	return cmd
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runRepo ports.RunRepository
	if cfg.HasArchive() {
		db, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.NewMigrator(db).Up(ctx); err != nil {
			return err
		}
		runRepo = postgres.NewRunRepository(db)
		internal.DefaultLogger.Info("run archive enabled")
	} else {
		internal.DefaultLogger.Warn("DATABASE_URL not set, runs will not be archived")
	}

	service := app.NewAnalysisService(engine.New())
	err = api.NewApp(service, runRepo, cfg.Analysis).Serve(ctx, cfg.Server)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply run archive schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.HasArchive() {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			db, err := postgres.Connect(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.NewMigrator(db).Up(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
	return cmd
}
