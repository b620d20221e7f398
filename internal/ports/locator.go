package ports

import (
	"context"
	"errors"
	"time"
)

// Geolocation failure reasons, one per case so each can be reported with a
// distinct human-readable message. A failed sample degrades the tracking
// session (no point appended); it never terminates it.
var (
	ErrPermissionDenied    = errors.New("geolocation: permission denied")
	ErrPositionUnavailable = errors.New("geolocation: position unavailable")
	ErrPositionTimeout     = errors.New("geolocation: request timed out")
	ErrPositionUnknown     = errors.New("geolocation: unknown error")
)

// Position is one raw device location fix.
type Position struct {
	Lat      float64
	Lon      float64
	Accuracy *float64
	At       time.Time
}

// Port: source of device location fixes for the GPS tracker.
type Locator interface {
	CurrentPosition(ctx context.Context) (Position, error)
}
