package domain

// GPSPoint is one device location sample taken while a team executes a job.
type GPSPoint struct {
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Timestamp string   `json:"timestamp"` // RFC 3339
	Accuracy  *float64 `json:"accuracy,omitempty"`

	StreetName  string `json:"street_name,omitempty"`
	FullAddress string `json:"full_address,omitempty"`
}

// GPSTrackingData is the trace recorded for one job execution session.
// Route is append-only while tracking; EndLocation and EndedAt stay unset
// until the session stops.
type GPSTrackingData struct {
	SessionID     string     `json:"session_id"`
	StartLocation *GPSPoint  `json:"start_location,omitempty"`
	EndLocation   *GPSPoint  `json:"end_location,omitempty"`
	Route         []GPSPoint `json:"route"`
	StartedAt     string     `json:"started_at,omitempty"`
	EndedAt       string     `json:"ended_at,omitempty"`
}

// Clone deep-copies the trace so order transforms stay pure.
func (g *GPSTrackingData) Clone() *GPSTrackingData {
	if g == nil {
		return nil
	}
	out := *g
	if g.StartLocation != nil {
		p := *g.StartLocation
		out.StartLocation = &p
	}
	if g.EndLocation != nil {
		p := *g.EndLocation
		out.EndLocation = &p
	}
	out.Route = append([]GPSPoint(nil), g.Route...)
	return &out
}
