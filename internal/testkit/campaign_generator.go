package testkit

import (
	"fmt"
	"math/rand"

	"goab/domain/experiment"
)

// CampaignGeneratorConfig configures the synthetic campaign generator
type CampaignGeneratorConfig struct {
	GroupCount    int     `json:"group_count"`
	BaseRate      float64 `json:"base_rate"`       // percentage for the first group
	LiftPerGroup  float64 `json:"lift_per_group"`  // percentage points added per subsequent group
	TotalPerGroup int64   `json:"total_per_group"` // sends per group
	NoiseRange    float64 `json:"noise_range"`     // uniform jitter in percentage points
	Seed          int64   `json:"seed"`
}

// DefaultCampaignConfig returns sensible defaults for campaign generation
func DefaultCampaignConfig() CampaignGeneratorConfig {
	return CampaignGeneratorConfig{
		GroupCount:    3,
		BaseRate:      10,
		LiftPerGroup:  2,
		TotalPerGroup: 1000,
		NoiseRange:    0.5,
		Seed:          42,
	}
}

// CampaignGenerator produces deterministic synthetic campaign
// datasets. The same seed always yields the same dataset.
type CampaignGenerator struct {
	config CampaignGeneratorConfig
	rng    *rand.Rand
}

// NewCampaignGenerator creates a new campaign generator
func NewCampaignGenerator(config CampaignGeneratorConfig) *CampaignGenerator {
	return &CampaignGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds one dataset with GroupCount groups labeled
// variant_1..variant_n, each rate clamped to [0, 100]
func (g *CampaignGenerator) Generate() (experiment.Dataset, error) {
	if g.config.GroupCount < 2 {
		return experiment.Dataset{}, fmt.Errorf("group count must be at least 2, got %d", g.config.GroupCount)
	}
	if g.config.TotalPerGroup <= 0 {
		return experiment.Dataset{}, fmt.Errorf("total per group must be positive, got %d", g.config.TotalPerGroup)
	}

	rows := make([]experiment.Observation, 0, g.config.GroupCount)
	for i := 0; i < g.config.GroupCount; i++ {
		rate := g.config.BaseRate + float64(i)*g.config.LiftPerGroup
		if g.config.NoiseRange > 0 {
			rate += (g.rng.Float64()*2 - 1) * g.config.NoiseRange
		}
		if rate < 0 {
			rate = 0
		}
		if rate > 100 {
			rate = 100
		}
		rows = append(rows, experiment.Observation{
			GroupLabel:   fmt.Sprintf("variant_%d", i+1),
			PositiveRate: rate,
			TotalCount:   g.config.TotalPerGroup,
		})
	}
	return experiment.NewDataset(rows), nil
}
