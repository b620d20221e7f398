package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"field-dispatch-service/internal/api/dto"
	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
	"field-dispatch-service/internal/services/extract"
)

type ScheduleHandler struct {
	Store    ports.OrderStore
	Provider ports.RoutingProvider
	Hub      string
	Log      *zap.Logger
}

// Get returns a team's ordered day with the driving geometry connecting the
// stops. Geometry failures degrade the response instead of failing it: the
// schedule itself never depends on the routing service being up.
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	res := dto.ScheduleResponse{
		Team: string(team),
		Date: date,
		Jobs: dto.NewJobResponses(jobs),
	}
	res.Geometry = h.geometry(r, jobs)

	writeJSON(h.Log, w, r, http.StatusOK, res)
}

func (h *ScheduleHandler) geometry(r *http.Request, jobs []domain.Job) []dto.PointResponse {
	if len(jobs) == 0 {
		return nil
	}

	waypoints := []ports.Waypoint{{Address: h.Hub}}
	for _, j := range jobs {
		if j.Address == "" {
			// Unresolved stop: scheduled and timed, but not drawable.
			continue
		}
		waypoints = append(waypoints, ports.Waypoint{Address: j.Address, Coords: j.Coords})
	}
	waypoints = append(waypoints, ports.Waypoint{Address: h.Hub})

	geom, err := h.Provider.Route(r.Context(), waypoints)
	if err != nil {
		h.Log.Warn("route geometry unavailable", zap.Error(err))
		return nil
	}

	out := make([]dto.PointResponse, 0, len(geom.Points))
	for _, p := range geom.Points {
		out = append(out, dto.PointResponse{Lat: p.Lat, Lon: p.Lon})
	}
	return out
}
