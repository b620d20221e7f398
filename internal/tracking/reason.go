package tracking

import (
	"errors"

	"field-dispatch-service/internal/ports"
)

// Reason maps a geolocation failure to the operator-facing message shown
// while the session keeps running degraded.
func Reason(err error) string {
	switch {
	case errors.Is(err, ports.ErrPermissionDenied):
		return "location permission was denied"
	case errors.Is(err, ports.ErrPositionUnavailable):
		return "device position is unavailable"
	case errors.Is(err, ports.ErrPositionTimeout):
		return "the location request timed out"
	default:
		return "an unknown geolocation error occurred"
	}
}
