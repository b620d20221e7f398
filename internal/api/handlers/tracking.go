package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"field-dispatch-service/internal/api/dto"
	"field-dispatch-service/internal/ports"
	"field-dispatch-service/internal/tracking"
)

type TrackingHandler struct {
	Manager *tracking.Manager
	Log     *zap.Logger
}

// Start opens the order's tracking session from the device's first fix,
// resuming a trace already persisted on the order when one exists.
func (h *TrackingHandler) Start(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(h.Log, w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.TrackingStartRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.OrderNumber) == "" {
		writeError(h.Log, w, r, http.StatusBadRequest, "order_number is required")
		return
	}

	fix := ports.Position{Lat: req.Lat, Lon: req.Lon, Accuracy: req.Accuracy}

	snap, err := h.Manager.Start(r.Context(), req.OrderNumber, fix)
	if err != nil {
		if errors.Is(err, ports.ErrOrderNotFound) {
			writeError(h.Log, w, r, http.StatusNotFound, "order not found")
			return
		}
		h.Log.Error("tracking start failed", zap.Error(err))
		writeError(h.Log, w, r, http.StatusUnprocessableEntity, tracking.Reason(err))
		return
	}

	res := dto.TrackingResponse{
		OrderNumber: req.OrderNumber,
		SessionID:   snap.SessionID,
		StartedAt:   snap.StartedAt,
		Points:      len(snap.Route),
	}
	if n := len(snap.Route); n > 0 {
		p := dto.NewGPSPointResponse(snap.Route[n-1])
		res.LastPoint = &p
	}

	writeJSON(h.Log, w, r, http.StatusOK, res)
}

// Fix reports a device position into the order's running session.
func (h *TrackingHandler) Fix(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(h.Log, w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.TrackingFixRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.OrderNumber) == "" {
		writeError(h.Log, w, r, http.StatusBadRequest, "order_number is required")
		return
	}

	fix := ports.Position{Lat: req.Lat, Lon: req.Lon, Accuracy: req.Accuracy}

	if err := h.Manager.Report(req.OrderNumber, fix); err != nil {
		if errors.Is(err, tracking.ErrNotTracking) {
			writeError(h.Log, w, r, http.StatusNotFound, "no active tracking session")
			return
		}
		h.Log.Error("tracking fix failed", zap.Error(err))
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(h.Log, w, r, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// Stop ends the order's session and returns the last known location.
func (h *TrackingHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(h.Log, w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.TrackingStopRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.OrderNumber) == "" {
		writeError(h.Log, w, r, http.StatusBadRequest, "order_number is required")
		return
	}

	last, err := h.Manager.Stop(r.Context(), req.OrderNumber)
	if err != nil {
		if errors.Is(err, tracking.ErrNotTracking) {
			writeError(h.Log, w, r, http.StatusNotFound, "no active tracking session")
			return
		}
		h.Log.Error("tracking stop failed", zap.Error(err))
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.TrackingResponse{OrderNumber: req.OrderNumber}
	if last != nil {
		p := dto.NewGPSPointResponse(*last)
		res.LastPoint = &p
	}

	writeJSON(h.Log, w, r, http.StatusOK, res)
}
