package ports

import "context"

// Port: persistent cache for origin->destination distance results, shared
// across optimizer runs. Keys are expected to be consistent (e.g., already
// normalized) by the caller.
type DistanceCache interface {
	// Fetch cached distances for one origin and multiple destinations.
	// Missing destinations are simply absent from the result map.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	// Store many cached distance results for a single origin.
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}
