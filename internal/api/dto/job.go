package dto

import (
	"time"

	"field-dispatch-service/internal/domain"
)

// JobResponse is the wire view of one route stop. Clock moments are
// formatted as 15:04 strings because that is how the portal stores and
// displays them; unscheduled moments are omitted.
type JobResponse struct {
	OrderNumber string `json:"order_number"`
	Kind        string `json:"kind"`
	Team        string `json:"team"`
	Date        string `json:"date"`
	Address     string `json:"address,omitempty"`

	TargetTime   string `json:"target_time,omitempty"`
	DurationMins int    `json:"duration_mins"`

	Depart       string `json:"depart,omitempty"`
	Arrive       string `json:"arrive,omitempty"`
	Start        string `json:"start,omitempty"`
	End          string `json:"end,omitempty"`
	ReturnDepart string `json:"return_depart,omitempty"`
	HubArrive    string `json:"hub_arrive,omitempty"`

	OutboundKm   float64 `json:"outbound_km"`
	OutboundMins float64 `json:"outbound_mins"`
	ReturnKm     float64 `json:"return_km,omitempty"`
	ReturnMins   float64 `json:"return_mins,omitempty"`

	Rigid  bool `json:"rigid,omitempty"`
	CoJoin bool `json:"co_join,omitempty"`
}

func NewJobResponse(j domain.Job) JobResponse {
	return JobResponse{
		OrderNumber:  j.OrderNumber,
		Kind:         string(j.Kind),
		Team:         string(j.Team),
		Date:         j.Date,
		Address:      j.Address,
		TargetTime:   clock(j.TargetTime),
		DurationMins: j.DurationMins,
		Depart:       clock(j.Depart),
		Arrive:       clock(j.Arrive),
		Start:        clock(j.Start),
		End:          clock(j.End),
		ReturnDepart: clock(j.ReturnDepart),
		HubArrive:    clock(j.HubArrive),
		OutboundKm:   j.OutboundKm,
		OutboundMins: j.OutboundMins,
		ReturnKm:     j.ReturnKm,
		ReturnMins:   j.ReturnMins,
		Rigid:        j.Rigid,
		CoJoin:       j.CoJoin,
	}
}

func NewJobResponses(jobs []domain.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewJobResponse(j))
	}
	return out
}

func clock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04")
}
