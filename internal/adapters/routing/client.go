package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/platform/obs"
	"field-dispatch-service/internal/ports"
)

// Client implements RoutingProvider against the portal's route service.
//
// It coordinates:
//   - Address normalization
//   - Persistent distance caching
//   - External API calls with retry/backoff
//
// The client is safe for concurrent use.
type Client struct {
	session       *http.Client
	baseURL       string
	apiKey        string
	distanceCache ports.DistanceCache
	log           *zap.Logger
}

func NewClient(baseURL string, apiKey string, distanceCache ports.DistanceCache, log *zap.Logger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("route service base URL is empty")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		session:       &http.Client{Timeout: 10 * time.Second},
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		distanceCache: distanceCache,
		log:           log,
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (c *Client) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type geocodeResponse struct {
	Success bool    `json:"success"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Geocode resolves a single address to coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, c.log, "routing.Geocode")(&err)

	norm := c.normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: address must be non-empty")
	}

	endpoint := c.baseURL + "/route"
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("address", norm)
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if !decoded.Success {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, ports.ErrAddressNotFound)
	}

	return domain.Coordinates{Lat: decoded.Lat, Lon: decoded.Lon}, nil
}

type distanceResponse struct {
	Success  bool    `json:"success"`
	Distance float64 `json:"distance"` // km
	Time     float64 `json:"time"`     // minutes
}

// Distance returns travel distance and duration between two addresses,
// consulting the persistent cache before the network.
func (c *Client) Distance(ctx context.Context, from, to string) (_ ports.DistanceResult, err error) {
	defer obs.Time(ctx, c.log, "routing.Distance")(&err)

	normFrom := c.normalize(from)
	normTo := c.normalize(to)
	if normFrom == "" || normTo == "" {
		return ports.DistanceResult{}, errors.New("get distance: from and to must be non-empty")
	}
	if normFrom == normTo {
		return ports.DistanceResult{}, nil
	}

	// Check the persistent distance cache before issuing external API calls.
	if c.distanceCache != nil {
		hits, err := c.distanceCache.GetMany(ctx, normFrom, []string{normTo})
		if err != nil {
			c.log.Warn("distance cache read failed", zap.Error(err))
		} else if r, ok := hits[normTo]; ok {
			return r, nil
		}
	}

	endpoint := c.baseURL + "/route"
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("from", normFrom)
		q.Set("to", normTo)
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get distance %q -> %q: %w", normFrom, normTo, err)
	}
	defer resp.Body.Close()

	var decoded distanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("decode distance response: %w", err)
	}
	if !decoded.Success {
		return ports.DistanceResult{}, fmt.Errorf("get distance %q -> %q: service reported failure", normFrom, normTo)
	}

	result := ports.DistanceResult{
		DistanceKm:   decoded.Distance,
		DurationMins: decoded.Time,
	}

	if c.distanceCache != nil {
		if err := c.distanceCache.PutMany(ctx, normFrom, map[string]ports.DistanceResult{normTo: result}); err != nil {
			c.log.Warn("distance cache write failed", zap.Error(err))
		}
	}

	return result, nil
}

type routeRequest struct {
	Waypoints []routeWaypoint `json:"waypoints"`
}

type routeWaypoint struct {
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

type routeResponse struct {
	Success bool `json:"success"`
	Route   struct {
		Geometry [][]float64 `json:"geometry"`
	} `json:"route"`
}

// Route computes the drawable geometry for an ordered set of waypoints.
func (c *Client) Route(ctx context.Context, waypoints []ports.Waypoint) (_ ports.RouteGeometry, err error) {
	defer obs.Time(ctx, c.log, "routing.Route")(&err)

	if len(waypoints) < 2 {
		return ports.RouteGeometry{}, errors.New("get route: at least two waypoints required")
	}

	body := routeRequest{Waypoints: make([]routeWaypoint, 0, len(waypoints))}
	for _, wp := range waypoints {
		rw := routeWaypoint{Address: c.normalize(wp.Address)}
		if wp.Coords != nil {
			lat, lon := wp.Coords.Lat, wp.Coords.Lon
			rw.Lat, rw.Lon = &lat, &lon
		}
		body.Waypoints = append(body.Waypoints, rw)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ports.RouteGeometry{}, fmt.Errorf("marshal route request: %w", err)
	}

	endpoint := c.baseURL + "/route"
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.RouteGeometry{}, fmt.Errorf("get route: %w", err)
	}
	defer resp.Body.Close()

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.RouteGeometry{}, fmt.Errorf("decode route response: %w", err)
	}
	if !decoded.Success {
		return ports.RouteGeometry{}, errors.New("get route: service reported failure")
	}

	out := ports.RouteGeometry{Points: make([]domain.Coordinates, 0, len(decoded.Route.Geometry))}
	for i, p := range decoded.Route.Geometry {
		if len(p) != 2 {
			return ports.RouteGeometry{}, fmt.Errorf("invalid geometry point at index %d", i)
		}
		out.Points = append(out.Points, domain.Coordinates{Lat: p[0], Lon: p[1]})
	}

	return out, nil
}

type reverseGeocodeResponse struct {
	StreetName  string `json:"streetName"`
	FullAddress string `json:"fullAddress"`
}

// ReverseGeocode resolves a coordinate pair to a street name and address.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (_ ports.Placemark, err error) {
	defer obs.Time(ctx, c.log, "routing.ReverseGeocode")(&err)

	endpoint := c.baseURL + "/reverse-geocode"
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
		q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return ports.Placemark{}, fmt.Errorf("reverse geocode (%f, %f): %w", lat, lon, err)
	}
	defer resp.Body.Close()

	var decoded reverseGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.Placemark{}, fmt.Errorf("decode reverse geocode response: %w", err)
	}

	return ports.Placemark{
		StreetName:  decoded.StreetName,
		FullAddress: decoded.FullAddress,
	}, nil
}
