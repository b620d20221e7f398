package domain

import "time"

// EventKind names one entry in a team's chronological day view.
type EventKind string

const (
	EventDepart     EventKind = "depart"
	EventArrive     EventKind = "arrive"
	EventJobStart   EventKind = "job_start"
	EventJobEnd     EventKind = "job_end"
	EventDepartSite EventKind = "depart_site"
	EventArriveHub  EventKind = "arrive_hub"

	// Merged display events. Merging is a display simplification only;
	// the job identity and address metadata are preserved.
	EventArriveAndStart EventKind = "arrive_and_start"
	EventEndAndDepart   EventKind = "end_and_depart"
)

// TimelineEvent is one discrete moment in a team's day, derived from an
// ordered job list. Events carry no behavior.
type TimelineEvent struct {
	Kind        EventKind `json:"kind"`
	At          time.Time `json:"at"`
	Team        Team      `json:"team"`
	OrderNumber string    `json:"order_number"`
	JobKind     JobKind   `json:"job_kind"`
	Address     string    `json:"address"`
}
