package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"field-dispatch-service/internal/api/dto"
	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/services/optimize"
)

type OptimizeHandler struct {
	Optimizer *optimize.Optimizer
	Hub       string
	Log       *zap.Logger
}

// Preview computes the reordered schedule without writing anything back.
func (h *OptimizeHandler) Preview(w http.ResponseWriter, r *http.Request) {
	opt, ok := h.run(w, r)
	if !ok {
		return
	}
	writeJSON(h.Log, w, r, http.StatusOK, dto.NewOptimizeResponse(opt))
}

// Apply computes the reordered schedule and commits it job by job. Partial
// failures are reported per job, not turned into an HTTP error.
func (h *OptimizeHandler) Apply(w http.ResponseWriter, r *http.Request) {
	opt, ok := h.run(w, r)
	if !ok {
		return
	}

	applied := h.Optimizer.Apply(r.Context(), opt)

	res := dto.ApplyResponse{
		Optimization: dto.NewOptimizeResponse(opt),
		Applied:      applied.Applied,
	}
	if len(applied.Failed) > 0 {
		res.Failed = make(map[string]string, len(applied.Failed))
		for k, err := range applied.Failed {
			res.Failed[k] = err.Error()
		}
	}

	writeJSON(h.Log, w, r, http.StatusOK, res)
}

func (h *OptimizeHandler) run(w http.ResponseWriter, r *http.Request) (*domain.RouteOptimization, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(h.Log, w, r, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}

	var req dto.OptimizeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, "invalid json body")
		return nil, false
	}

	team := domain.Team(req.Team)
	if !team.Valid() {
		writeError(h.Log, w, r, http.StatusBadRequest, "unknown team")
		return nil, false
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, "date must be formatted 2006-01-02")
		return nil, false
	}

	start := strings.TrimSpace(req.StartAddress)
	if start == "" {
		start = h.Hub
	}

	opt, err := h.Optimizer.Optimize(r.Context(), team, req.Date, start)
	if err != nil {
		if errors.Is(err, optimize.ErrNoJobs) {
			writeError(h.Log, w, r, http.StatusNotFound, "no jobs found for team and date")
			return nil, false
		}
		h.Log.Error("optimize failed", zap.Error(err))
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return nil, false
	}

	return opt, true
}
