package app

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"goab/domain/experiment"
	"goab/domain/stats"
)

// BatchService runs many independent analyses with bounded
// parallelism. The engine itself is single-threaded and pure, so the
// only coordination needed is handing each run its own dataset copy.
type BatchService struct {
	analysis *AnalysisService
	sem      *semaphore.Weighted
}

// BatchItem is one named analysis in a batch
type BatchItem struct {
	Name       string
	Dataset    experiment.Dataset
	Alpha      float64
	Correction stats.Correction
}

// BatchOutcome pairs an item with its result or failure. A failing
// item never aborts the rest of the batch.
type BatchOutcome struct {
	Name   string
	Result *stats.RunResult
	Err    error
}

// NewBatchService creates a batch runner allowing maxConcurrent
// simultaneous analyses
func NewBatchService(analysis *AnalysisService, maxConcurrent int64) *BatchService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &BatchService{
		analysis: analysis,
		sem:      semaphore.NewWeighted(maxConcurrent),
	}
}

// RunAll executes every item and returns outcomes in item order
func (s *BatchService) RunAll(ctx context.Context, items []BatchItem) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			outcomes[i] = BatchOutcome{Name: item.Name, Err: err}
			continue
		}

		wg.Add(1)
		go func(i int, item BatchItem) {
			defer wg.Done()
			defer s.sem.Release(1)

			result, err := s.analysis.Run(AnalysisRequest{
				Dataset:    item.Dataset.Clone(),
				Alpha:      item.Alpha,
				Correction: item.Correction,
			})
			outcomes[i] = BatchOutcome{Name: item.Name, Result: result, Err: err}
		}(i, item)
	}
	wg.Wait()

	return outcomes
}
