package api

import (
	"goab/domain/experiment"
	"goab/domain/stats"
)

// ObservationPayload is one input row of an analyze request
type ObservationPayload struct {
	Group        string  `json:"group"`
	PositiveRate float64 `json:"positive_rate"`
	TotalSends   int64   `json:"total_sends"`
}

// AnalyzeRequest is the analyze endpoint's request body. Alpha zero
// and an empty correction select the configured defaults.
type AnalyzeRequest struct {
	Groups     []ObservationPayload `json:"groups"`
	Alpha      float64              `json:"alpha,omitempty"`
	Correction string               `json:"correction,omitempty"`
}

// Dataset converts the payload rows to a dataset, preserving order
func (r AnalyzeRequest) Dataset() experiment.Dataset {
	rows := make([]experiment.Observation, 0, len(r.Groups))
	for _, g := range r.Groups {
		rows = append(rows, experiment.Observation{
			GroupLabel:   g.Group,
			PositiveRate: g.PositiveRate,
			TotalCount:   g.TotalSends,
		})
	}
	return experiment.NewDataset(rows)
}

// AnalyzeResponse is the analyze endpoint's response body
type AnalyzeResponse struct {
	Run      *stats.RunResult `json:"run"`
	Archived bool             `json:"archived"`
}

// RunListResponse wraps the run listing
type RunListResponse struct {
	Runs  []*stats.RunResult `json:"runs"`
	Count int                `json:"count"`
}

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status  string `json:"status"`
	Archive bool   `json:"archive"`
}
