package dto

import "field-dispatch-service/internal/domain"

type OptimizeRequest struct {
	Team string `json:"team"`
	Date string `json:"date"` // 2006-01-02
	// StartAddress overrides the hub as the team's departure point.
	StartAddress string `json:"start_address,omitempty"`
}

// OptimizeResponse compares the portal's job order with the computed one.
// Nothing is written back unless the caller hits the apply endpoint.
type OptimizeResponse struct {
	Team         string `json:"team"`
	Date         string `json:"date"`
	StartAddress string `json:"start_address"`

	Original  []JobResponse `json:"original"`
	Optimized []JobResponse `json:"optimized"`

	OriginalKm    float64 `json:"original_km"`
	OriginalMins  float64 `json:"original_mins"`
	OptimizedKm   float64 `json:"optimized_km"`
	OptimizedMins float64 `json:"optimized_mins"`

	SavedKm      float64 `json:"saved_km"`
	SavedMins    float64 `json:"saved_mins"`
	SavedPercent float64 `json:"saved_percent"`
}

func NewOptimizeResponse(opt *domain.RouteOptimization) OptimizeResponse {
	return OptimizeResponse{
		Team:          string(opt.Team),
		Date:          opt.Date,
		StartAddress:  opt.StartAddress,
		Original:      NewJobResponses(opt.Original),
		Optimized:     NewJobResponses(opt.Optimized),
		OriginalKm:    opt.OriginalKm,
		OriginalMins:  opt.OriginalMins,
		OptimizedKm:   opt.OptimizedKm,
		OptimizedMins: opt.OptimizedMins,
		SavedKm:       opt.SavedKm,
		SavedMins:     opt.SavedMins,
		SavedPercent:  opt.SavedPercent,
	}
}

// ApplyResponse reports the per-job write-back outcome alongside the
// optimization it applied. Failures are messages, not errors, because a
// partial apply is still a success for the jobs that landed.
type ApplyResponse struct {
	Optimization OptimizeResponse  `json:"optimization"`
	Applied      []string          `json:"applied"`
	Failed       map[string]string `json:"failed,omitempty"`
}
