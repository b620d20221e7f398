package dto

// PointResponse is one vertex of the driving geometry.
type PointResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ScheduleResponse is a team's ordered day plus the driving geometry that
// connects the resolvable stops. Geometry is best-effort: it is empty when
// the routing service cannot answer, and stops without a resolvable address
// are simply absent from it.
type ScheduleResponse struct {
	Team     string          `json:"team"`
	Date     string          `json:"date"`
	Jobs     []JobResponse   `json:"jobs"`
	Geometry []PointResponse `json:"geometry,omitempty"`
}
