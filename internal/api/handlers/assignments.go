package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"field-dispatch-service/internal/api/dto"
	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
	"field-dispatch-service/internal/services/dispatch"
)

type AssignmentHandler struct {
	Scheduler *dispatch.Scheduler
	Log       *zap.Logger
}

// Create proposes (and optionally commits) a team and time slot for a new
// job. Policy misses come back as warnings on a 200; the endpoint only fails
// on malformed input or infrastructure errors.
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(h.Log, w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.AssignmentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	if strings.TrimSpace(req.OrderNumber) == "" {
		writeError(h.Log, w, r, http.StatusBadRequest, "order_number is required")
		return
	}
	kind := domain.JobKind(req.Kind)
	if kind != domain.JobSetup && kind != domain.JobDismantle && kind != domain.JobAdhoc {
		writeError(h.Log, w, r, http.StatusBadRequest, "kind must be setup, dismantle or adhoc")
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, "date must be formatted 2006-01-02")
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		writeError(h.Log, w, r, http.StatusBadRequest, "address is required")
		return
	}
	if req.RequestedTime != "" {
		if _, err := time.Parse("15:04", req.RequestedTime); err != nil {
			writeError(h.Log, w, r, http.StatusBadRequest, "requested_time must be formatted 15:04")
			return
		}
	}

	svcReq := dispatch.Request{
		OrderNumber:   req.OrderNumber,
		Kind:          kind,
		Date:          req.Date,
		Address:       req.Address,
		RequestedTime: req.RequestedTime,
		DurationMins:  req.DurationMins,
	}

	assignment, warnings, err := h.Scheduler.Assign(r.Context(), svcReq)
	if err != nil {
		h.Log.Error("assignment failed", zap.Error(err))
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	committed := false
	if req.Commit {
		if _, err := h.Scheduler.Commit(r.Context(), svcReq, assignment); err != nil {
			if errors.Is(err, ports.ErrOrderNotFound) {
				writeError(h.Log, w, r, http.StatusNotFound, "order not found")
				return
			}
			h.Log.Error("assignment commit failed", zap.Error(err))
			writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		committed = true
	}

	res := dto.AssignmentResponse{
		Team:         string(assignment.Team),
		Date:         assignment.Date,
		Slot:         assignment.Slot.Format("15:04"),
		TravelKm:     assignment.TravelKm,
		ChainedAfter: assignment.ChainedAfter,
		Warnings:     make([]dto.WarningResponse, 0, len(warnings)),
		Committed:    committed,
	}
	for _, warn := range warnings {
		res.Warnings = append(res.Warnings, dto.WarningResponse{
			Code:    string(warn.Code),
			Message: warn.Message,
		})
	}

	writeJSON(h.Log, w, r, http.StatusOK, res)
}
