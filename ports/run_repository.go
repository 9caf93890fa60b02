package ports

import (
	"context"

	"goab/domain/core"
	"goab/domain/stats"
)

// RunRepository defines the interface for run archive storage
type RunRepository interface {
	SaveRun(ctx context.Context, run *stats.RunResult) error
	GetRun(ctx context.Context, id core.RunID) (*stats.RunResult, error)
	ListRuns(ctx context.Context, limit int) ([]*stats.RunResult, error)
}
