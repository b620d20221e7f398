package domain

// RouteOptimization compares a team's original job order for one date with
// the optimized order. It is a computation result, never persisted: callers
// either discard it or apply it back onto the owning orders in full.
type RouteOptimization struct {
	Team         Team   `json:"team"`
	Date         string `json:"date"`
	StartAddress string `json:"start_address"`

	Original  []Job `json:"original"`
	Optimized []Job `json:"optimized"`

	OriginalKm    float64 `json:"original_km"`
	OriginalMins  float64 `json:"original_mins"`
	OptimizedKm   float64 `json:"optimized_km"`
	OptimizedMins float64 `json:"optimized_mins"`

	// Savings are clamped at zero for reporting.
	SavedKm      float64 `json:"saved_km"`
	SavedMins    float64 `json:"saved_mins"`
	SavedPercent float64 `json:"saved_percent"`
}
