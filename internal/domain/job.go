package domain

import "time"

// JobKind distinguishes the three kinds of physical visit an order can
// generate: installing a display, taking it down, or an ad-hoc errand.
type JobKind string

const (
	JobSetup     JobKind = "setup"
	JobDismantle JobKind = "dismantle"
	JobAdhoc     JobKind = "adhoc"
)

// Kinds returns the job kinds in extraction order.
func Kinds() []JobKind {
	return []JobKind{JobSetup, JobDismantle, JobAdhoc}
}

// Job is a single route stop: one physical visit tied to one order, one
// team and one calendar date. Jobs are derived views over order records;
// they are never persisted themselves.
type Job struct {
	OrderNumber string  `json:"order_number"`
	Kind        JobKind `json:"kind"`
	Team        Team    `json:"team"`
	Date        string  `json:"date"` // 2006-01-02

	// Site address after fallback resolution. Empty means unresolved:
	// the job is still scheduled and timed but excluded from route geometry.
	Address string       `json:"address"`
	Coords  *Coordinates `json:"coords,omitempty"`

	// TargetTime is the customer-requested visit time, zero when none was given.
	TargetTime   time.Time `json:"target_time"`
	DurationMins int       `json:"duration_mins"`

	Depart       time.Time `json:"depart"`
	Arrive       time.Time `json:"arrive"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	ReturnDepart time.Time `json:"return_depart"`
	HubArrive    time.Time `json:"hub_arrive"`

	OutboundKm   float64 `json:"outbound_km"`
	OutboundMins float64 `json:"outbound_mins"`
	ReturnKm     float64 `json:"return_km"`
	ReturnMins   float64 `json:"return_mins"`

	// Rigid marks a customer-fixed time window that must not be moved.
	Rigid bool `json:"rigid"`
	// CoJoin marks a job chained to another visit on the same site.
	CoJoin bool `json:"co_join"`
}

// CanOptimize reports whether the optimizer may reorder this job.
// It is always derived from the two constraint flags, never stored.
func (j Job) CanOptimize() bool {
	return !j.Rigid && !j.CoJoin
}
