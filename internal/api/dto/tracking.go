package dto

import "field-dispatch-service/internal/domain"

// TrackingStartRequest opens (or resumes) the tracking session for an order.
// It carries the device's first fix so the session can seed immediately.
type TrackingStartRequest struct {
	OrderNumber string   `json:"order_number"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Accuracy    *float64 `json:"accuracy,omitempty"`
}

// TrackingFixRequest reports a subsequent device fix into a running session.
type TrackingFixRequest struct {
	OrderNumber string   `json:"order_number"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Accuracy    *float64 `json:"accuracy,omitempty"`
}

type TrackingStopRequest struct {
	OrderNumber string `json:"order_number"`
}

type GPSPointResponse struct {
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Timestamp   string   `json:"timestamp"`
	Accuracy    *float64 `json:"accuracy,omitempty"`
	StreetName  string   `json:"street_name,omitempty"`
	FullAddress string   `json:"full_address,omitempty"`
}

func NewGPSPointResponse(p domain.GPSPoint) GPSPointResponse {
	return GPSPointResponse{
		Lat:         p.Lat,
		Lon:         p.Lon,
		Timestamp:   p.Timestamp,
		Accuracy:    p.Accuracy,
		StreetName:  p.StreetName,
		FullAddress: p.FullAddress,
	}
}

type TrackingResponse struct {
	OrderNumber string            `json:"order_number"`
	SessionID   string            `json:"session_id,omitempty"`
	StartedAt   string            `json:"started_at,omitempty"`
	Points      int               `json:"points,omitempty"`
	LastPoint   *GPSPointResponse `json:"last_point,omitempty"`
}
