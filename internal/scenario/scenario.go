package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"goab/app"
	"goab/domain/experiment"
	"goab/domain/stats"
	"goab/internal/errors"
)

// Row is one observation row as written in a scenario file. Field
// names match the default tabular column names.
type Row struct {
	Group        string  `yaml:"group"`
	PositiveRate float64 `yaml:"positive_rate"`
	TotalSends   int64   `yaml:"total_sends"`
}

// Scenario is one named analysis in a suite. Alpha and correction
// fall back to the suite-level defaults when unset.
type Scenario struct {
	Name       string  `yaml:"name"`
	Alpha      float64 `yaml:"alpha,omitempty"`
	Correction string  `yaml:"correction,omitempty"`
	Groups     []Row   `yaml:"groups"`
}

// Suite is a batch scenario file: suite-wide defaults plus the
// scenarios to run
type Suite struct {
	Alpha      float64    `yaml:"alpha,omitempty"`
	Correction string     `yaml:"correction,omitempty"`
	Scenarios  []Scenario `yaml:"scenarios"`
}

// Load reads and parses a scenario suite from a YAML file
func Load(path string) (*Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IngestError(path, err)
	}
	suite, err := Parse(raw)
	if err != nil {
		return nil, errors.IngestError(path, err)
	}
	return suite, nil
}

// Parse parses a scenario suite from YAML bytes. Unknown fields are
// rejected so typos in scenario files fail loudly.
func Parse(raw []byte) (*Suite, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var suite Suite
	if err := dec.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}
	if err := suite.validate(); err != nil {
		return nil, err
	}
	return &suite, nil
}

func (s *Suite) validate() error {
	if len(s.Scenarios) == 0 {
		return errors.ValidationError("scenario file declares no scenarios")
	}
	if s.Correction != "" {
		if _, err := stats.ParseCorrection(s.Correction); err != nil {
			return errors.ValidationError(err.Error())
		}
	}
	seen := make(map[string]bool, len(s.Scenarios))
	for i, sc := range s.Scenarios {
		name := sc.EffectiveName(i)
		if seen[name] {
			return errors.ValidationError(fmt.Sprintf("duplicate scenario name %q", name))
		}
		seen[name] = true
		if len(sc.Groups) == 0 {
			return errors.ValidationError(fmt.Sprintf("scenario %q declares no groups", name))
		}
		if sc.Correction != "" {
			if _, err := stats.ParseCorrection(sc.Correction); err != nil {
				return errors.ValidationError(fmt.Sprintf("scenario %q: %v", name, err))
			}
		}
	}
	return nil
}

// EffectiveName returns the scenario name, or a positional fallback
// for unnamed scenarios
func (sc Scenario) EffectiveName(index int) string {
	if sc.Name != "" {
		return sc.Name
	}
	return fmt.Sprintf("scenario_%d", index+1)
}

// Dataset converts the scenario rows to a dataset, preserving order
func (sc Scenario) Dataset() experiment.Dataset {
	rows := make([]experiment.Observation, 0, len(sc.Groups))
	for _, g := range sc.Groups {
		rows = append(rows, experiment.Observation{
			GroupLabel:   g.Group,
			PositiveRate: g.PositiveRate,
			TotalCount:   g.TotalSends,
		})
	}
	return experiment.NewDataset(rows)
}

// Items converts the suite into batch items, applying suite-level
// defaults to scenarios that leave alpha or correction unset
func (s *Suite) Items() []app.BatchItem {
	items := make([]app.BatchItem, 0, len(s.Scenarios))
	for i, sc := range s.Scenarios {
		alpha := sc.Alpha
		if alpha == 0 {
			alpha = s.Alpha
		}
		correction := sc.Correction
		if correction == "" {
			correction = s.Correction
		}
		items = append(items, app.BatchItem{
			Name:       sc.EffectiveName(i),
			Dataset:    sc.Dataset(),
			Alpha:      alpha,
			Correction: stats.Correction(correction),
		})
	}
	return items
}
