package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"goab/adapters/stats/engine"
	"goab/app"
	"goab/domain/experiment"
)

func newInteractiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Enter campaign data by hand and get a decision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(os.Stdin, os.Stdout)
		},
	}
}

// runInteractive drives the prompt loop: group count, group names,
// then rate and sends per group, then the significance level.
func runInteractive(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	fmt.Fprintln(out, "Welcome to the AB Testing Tool!")

	numGroups, err := promptInt(reader, out, "Enter the number of groups: ")
	if err != nil {
		return err
	}

	names := make([]string, 0, numGroups)
	for i := 0; i < int(numGroups); i++ {
		name, err := promptLine(reader, out, fmt.Sprintf("Enter the name of group %d: ", i+1))
		if err != nil {
			return err
		}
		names = append(names, name)
	}

	rows := make([]experiment.Observation, 0, len(names))
	for _, name := range names {
		rate, err := promptFloat(reader, out,
			fmt.Sprintf("Enter the positive rate (percentage) for group %s: ", name))
		if err != nil {
			return err
		}
		total, err := promptInt(reader, out,
			fmt.Sprintf("Enter the total number of sends for group %s: ", name))
		if err != nil {
			return err
		}
		rows = append(rows, experiment.Observation{
			GroupLabel:   name,
			PositiveRate: rate,
			TotalCount:   total,
		})
	}

	alpha, err := promptAlpha(reader, out)
	if err != nil {
		return err
	}

	service := app.NewAnalysisService(engine.New())
	result, err := service.Run(app.AnalysisRequest{
		Dataset: experiment.NewDataset(rows),
		Alpha:   alpha,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func promptLine(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" && err == io.EOF {
		return "", fmt.Errorf("input ended unexpectedly")
	}
	return line, nil
}

func promptInt(reader *bufio.Reader, out io.Writer, prompt string) (int64, error) {
	line, err := promptLine(reader, out, prompt)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected a whole number, got %q", line)
	}
	return value, nil
}

func promptFloat(reader *bufio.Reader, out io.Writer, prompt string) (float64, error) {
	line, err := promptLine(reader, out, prompt)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %q", line)
	}
	return value, nil
}

// promptAlpha reads the significance level; an empty line selects the
// default
func promptAlpha(reader *bufio.Reader, out io.Writer) (float64, error) {
	fmt.Fprint(out, "Enter the significance level (default is 0.05): ")
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return app.DefaultAlpha, nil
	}
	value, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %q", line)
	}
	return value, nil
}
