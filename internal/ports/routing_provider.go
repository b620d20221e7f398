package ports

import (
	"context"
	"errors"

	"field-dispatch-service/internal/domain"
)

// ErrAddressNotFound is returned by Geocode when the routing service has no
// match for the address.
var ErrAddressNotFound = errors.New("routing: address not found")

// Fallback heuristic applied when the routing service cannot answer a
// distance lookup. Degrades result quality instead of aborting the caller.
const (
	FallbackDistanceKm   = 10
	FallbackDurationMins = 30
)

// Distance and travel duration between two addresses.
type DistanceResult struct {
	DistanceKm   float64
	DurationMins float64
}

// Placemark is the reverse-geocode result for a coordinate pair.
type Placemark struct {
	StreetName  string
	FullAddress string
}

// Waypoint is one ordered stop in a route-geometry request. Coordinates are
// optional; the routing service geocodes the address when they are absent.
type Waypoint struct {
	Address string
	Coords  *domain.Coordinates
}

// RouteGeometry is the drawable polyline for an ordered set of waypoints.
type RouteGeometry struct {
	Points []domain.Coordinates
}

// Port: boundary to the external geocoding/routing service.
//
// Every operation may fail with a transport or service error. Callers must
// treat such failures as recoverable: distance lookups degrade to a fixed
// heuristic and reverse geocoding degrades to raw coordinate text, so a flaky
// provider lowers result quality without aborting the run.
type RoutingProvider interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
	Distance(ctx context.Context, from, to string) (DistanceResult, error)
	Route(ctx context.Context, waypoints []Waypoint) (RouteGeometry, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (Placemark, error)
}
