package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"field-dispatch-service/internal/api/dto"
	"field-dispatch-service/internal/ports"
	"field-dispatch-service/internal/services/extract"
	"field-dispatch-service/internal/services/timeline"
)

type TimelineHandler struct {
	Store ports.OrderStore
	Log   *zap.Logger
}

// Get projects a team's day into the chronological event view.
func (h *TimelineHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(h.Log, w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	team, date, problem := teamAndDate(r)
	if problem != "" {
		writeError(h.Log, w, r, http.StatusBadRequest, problem)
		return
	}

	orders, err := h.Store.ListOrders(r.Context())
	if err != nil {
		h.Log.Error("list orders failed", zap.Error(err))
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	jobs := extract.TeamJobsForDate(orders, team, date)
	events := timeline.BuildEvents(jobs)

	writeJSON(h.Log, w, r, http.StatusOK, dto.NewTimelineResponse(string(team), date, events))
}
