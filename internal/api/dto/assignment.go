package dto

type AssignmentRequest struct {
	OrderNumber   string `json:"order_number"`
	Kind          string `json:"kind"` // setup, dismantle or adhoc
	Date          string `json:"date"` // 2006-01-02
	Address       string `json:"address"`
	RequestedTime string `json:"requested_time,omitempty"` // 15:04
	DurationMins  int    `json:"duration_mins,omitempty"`

	// Commit writes the assignment onto the order; false keeps it a proposal.
	Commit bool `json:"commit,omitempty"`
}

type WarningResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AssignmentResponse struct {
	Team         string  `json:"team"`
	Date         string  `json:"date"`
	Slot         string  `json:"slot"` // 15:04 proposed on-site start
	TravelKm     float64 `json:"travel_km"`
	ChainedAfter string  `json:"chained_after,omitempty"`

	Warnings  []WarningResponse `json:"warnings"`
	Committed bool              `json:"committed"`
}
