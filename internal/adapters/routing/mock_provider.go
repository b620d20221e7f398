package routing

import (
	"context"
	"fmt"
	"sync"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
)

type MockPair struct {
	From, To string
	Km       float64
	Mins     float64
}

// MockProvider is an in-memory RoutingProvider for tests. Distances are
// looked up from a fixed pair table; FailAll simulates a fully unavailable
// service. Calls are counted so tests can assert on round-trips.
type MockProvider struct {
	mu      sync.Mutex
	m       map[string]ports.DistanceResult
	coords  map[string]domain.Coordinates
	places  map[string]ports.Placemark
	FailAll bool
	Calls   int
}

func NewMockProvider(pairs []MockPair) *MockProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = ports.DistanceResult{DistanceKm: p.Km, DurationMins: p.Mins}
	}
	return &MockProvider{
		m:      m,
		coords: make(map[string]domain.Coordinates),
		places: make(map[string]ports.Placemark),
	}
}

// SetCoords registers a geocode result for an address.
func (p *MockProvider) SetCoords(address string, c domain.Coordinates) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.coords[address] = c
}

// SetPlacemark registers a reverse-geocode result keyed by "lat,lon".
func (p *MockProvider) SetPlacemark(key string, pm ports.Placemark) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.places[key] = pm
}

func (p *MockProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Calls
}

func (p *MockProvider) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++
	if p.FailAll {
		return domain.Coordinates{}, fmt.Errorf("mock provider unavailable")
	}
	c, ok := p.coords[address]
	if !ok {
		return domain.Coordinates{}, ports.ErrAddressNotFound
	}
	return c, nil
}

func (p *MockProvider) Distance(ctx context.Context, from, to string) (ports.DistanceResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++
	if p.FailAll {
		return ports.DistanceResult{}, fmt.Errorf("mock provider unavailable")
	}
	if from == to {
		return ports.DistanceResult{}, nil
	}
	r, ok := p.m[from+"|"+to]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %q -> %q", from, to)
	}
	return r, nil
}

func (p *MockProvider) Route(ctx context.Context, waypoints []ports.Waypoint) (ports.RouteGeometry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++
	if p.FailAll {
		return ports.RouteGeometry{}, fmt.Errorf("mock provider unavailable")
	}

	out := ports.RouteGeometry{}
	for _, wp := range waypoints {
		if wp.Coords != nil {
			out.Points = append(out.Points, *wp.Coords)
			continue
		}
		if c, ok := p.coords[wp.Address]; ok {
			out.Points = append(out.Points, c)
		}
	}
	return out, nil
}

func (p *MockProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (ports.Placemark, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++
	if p.FailAll {
		return ports.Placemark{}, fmt.Errorf("mock provider unavailable")
	}
	key := fmt.Sprintf("%g,%g", lat, lon)
	pm, ok := p.places[key]
	if !ok {
		return ports.Placemark{}, fmt.Errorf("no placemark for (%g, %g)", lat, lon)
	}
	return pm, nil
}
