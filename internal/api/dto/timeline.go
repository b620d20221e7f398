package dto

import "field-dispatch-service/internal/domain"

type TimelineEventResponse struct {
	Kind        string `json:"kind"`
	At          string `json:"at"` // 15:04
	OrderNumber string `json:"order_number"`
	JobKind     string `json:"job_kind"`
	Address     string `json:"address,omitempty"`
}

type TimelineResponse struct {
	Team   string                  `json:"team"`
	Date   string                  `json:"date"`
	Events []TimelineEventResponse `json:"events"`
}

func NewTimelineResponse(team, date string, events []domain.TimelineEvent) TimelineResponse {
	out := TimelineResponse{
		Team:   team,
		Date:   date,
		Events: make([]TimelineEventResponse, 0, len(events)),
	}
	for _, e := range events {
		out.Events = append(out.Events, TimelineEventResponse{
			Kind:        string(e.Kind),
			At:          e.At.Format("15:04"),
			OrderNumber: e.OrderNumber,
			JobKind:     string(e.JobKind),
			Address:     e.Address,
		})
	}
	return out
}
