package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"goab/app"
	"goab/domain/core"
	"goab/domain/stats"
	apperrors "goab/internal/errors"
)

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Archive: a.runs != nil,
	})
}

func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.respondError(w, http.StatusBadRequest, apperrors.InvalidInput("request body is not valid JSON"))
		return
	}

	alpha := req.Alpha
	if alpha == 0 {
		alpha = a.defaults.Alpha
	}
	correction := req.Correction
	if correction == "" {
		correction = a.defaults.Correction
	}

	run, err := a.analysis.Run(app.AnalysisRequest{
		Dataset:    req.Dataset(),
		Alpha:      alpha,
		Correction: stats.Correction(correction),
	})
	if err != nil {
		a.respondDomainError(w, err)
		return
	}

	archived := false
	if a.runs != nil {
		if err := a.runs.SaveRun(r.Context(), run); err != nil {
			a.logger.Error("failed to archive run %s: %v", run.ID, err)
		} else {
			archived = true
		}
	}

	a.respondJSON(w, http.StatusOK, AnalyzeResponse{Run: run, Archived: archived})
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if a.runs == nil {
		a.respondError(w, http.StatusServiceUnavailable, apperrors.StorageError("run archive is not configured", nil))
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			a.respondError(w, http.StatusBadRequest, apperrors.InvalidInput("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	runs, err := a.runs.ListRuns(r.Context(), limit)
	if err != nil {
		a.respondDomainError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, RunListResponse{Runs: runs, Count: len(runs)})
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if a.runs == nil {
		a.respondError(w, http.StatusServiceUnavailable, apperrors.StorageError("run archive is not configured", nil))
		return
	}

	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		a.respondError(w, http.StatusBadRequest, apperrors.InvalidInput("run ID is required"))
		return
	}

	run, err := a.runs.GetRun(r.Context(), id)
	if err != nil {
		a.respondDomainError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, run)
}

func (a *App) respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Error("failed to encode response: %v", err)
	}
}

func (a *App) respondError(w http.ResponseWriter, status int, err error) {
	a.respondJSON(w, status, ErrorResponse{Error: err.Error(), Code: apperrors.GetCode(err)})
}

// respondDomainError maps domain error kinds onto HTTP statuses
func (a *App) respondDomainError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeInvalidInput, apperrors.CodeValidationError, apperrors.CodeGroupCardinality:
		status = http.StatusBadRequest
	case apperrors.CodeComputation:
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("internal error: %v", err)
	}
	a.respondJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}
