package tracking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
)

// Tracker records a GPS trace while a team executes a job.
//
// A tracker owns at most one sampling timer: starting or resuming always
// cancels any existing one before scheduling the next, by construction (the
// stop channel is private and replaced under the mutex). Stopping only
// suppresses future samples; an in-flight position read is allowed to finish
// and its point is still appended.
type Tracker struct {
	locator  ports.Locator
	geocoder ports.RoutingProvider
	interval time.Duration
	onPoint  func(domain.GPSPoint)
	log      *zap.Logger

	mu      sync.Mutex
	data    *domain.GPSTrackingData
	stopCh  chan struct{}
	lastErr error
}

// NewTracker wires a tracker. onPoint may be nil; when set it is invoked once
// per appended point.
func NewTracker(
	locator ports.Locator,
	geocoder ports.RoutingProvider,
	interval time.Duration,
	onPoint func(domain.GPSPoint),
	log *zap.Logger,
) *Tracker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		locator:  locator,
		geocoder: geocoder,
		interval: interval,
		onPoint:  onPoint,
		log:      log,
	}
}

// Start begins a fresh tracking session: one immediate sample seeds the
// route, then periodic sampling begins. On a geolocation failure the typed
// error is recorded and no interval is started.
func (t *Tracker) Start(ctx context.Context) error {
	point, err := t.sample(ctx)
	if err != nil {
		t.mu.Lock()
		t.lastErr = err
		t.mu.Unlock()
		return fmt.Errorf("start tracking: %s: %w", Reason(err), err)
	}

	t.mu.Lock()
	t.cancelLocked()
	t.data = &domain.GPSTrackingData{
		SessionID:     uuid.NewString(),
		StartLocation: &point,
		Route:         []domain.GPSPoint{point},
		StartedAt:     point.Timestamp,
	}
	t.lastErr = nil
	stop := make(chan struct{})
	t.stopCh = stop
	t.mu.Unlock()

	t.notify(point)
	go t.loop(ctx, stop)

	t.log.Info("gps tracking started", zap.String("session", t.data.SessionID))
	return nil
}

// Resume seeds the session from a previously captured route (without
// re-sampling those points), appends one immediate fresh sample, and begins
// periodic sampling. Used when a session must survive an interruption.
func (t *Tracker) Resume(ctx context.Context, existing []domain.GPSPoint) error {
	point, err := t.sample(ctx)
	if err != nil {
		t.mu.Lock()
		t.lastErr = err
		t.mu.Unlock()
		return fmt.Errorf("resume tracking: %s: %w", Reason(err), err)
	}

	t.mu.Lock()
	t.cancelLocked()

	route := append([]domain.GPSPoint(nil), existing...)
	start := &point
	startedAt := point.Timestamp
	if len(route) > 0 {
		first := route[0]
		start = &first
		startedAt = first.Timestamp
	}
	route = append(route, point)

	t.data = &domain.GPSTrackingData{
		SessionID:     uuid.NewString(),
		StartLocation: start,
		Route:         route,
		StartedAt:     startedAt,
	}
	t.lastErr = nil
	stop := make(chan struct{})
	t.stopCh = stop
	t.mu.Unlock()

	t.notify(point)
	go t.loop(ctx, stop)

	t.log.Info("gps tracking resumed",
		zap.String("session", t.data.SessionID),
		zap.Int("seeded_points", len(existing)),
	)
	return nil
}

// Stop cancels periodic sampling, freezes the session and returns the last
// known location. The recorded route is never cleared or mutated.
func (t *Tracker) Stop() *domain.GPSPoint {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()

	if t.data == nil || len(t.data.Route) == 0 {
		return nil
	}

	last := t.data.Route[len(t.data.Route)-1]
	t.data.EndLocation = &last
	t.data.EndedAt = time.Now().UTC().Format(time.RFC3339)

	return &last
}

// Active reports whether a sampling interval is currently scheduled.
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopCh != nil
}

// Snapshot returns a deep copy of the session data, nil before the first
// start.
func (t *Tracker) Snapshot() *domain.GPSTrackingData {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.data.Clone()
}

// LastError returns the most recent geolocation failure, nil when the last
// sample succeeded.
func (t *Tracker) LastError() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// cancelLocked enforces the single-interval invariant; callers hold t.mu.
func (t *Tracker) cancelLocked() {
	if t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}
}

func (t *Tracker) loop(ctx context.Context, stop chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			point, err := t.sample(ctx)
			if err != nil {
				t.mu.Lock()
				t.lastErr = err
				t.mu.Unlock()
				// Degraded, not terminated: no point this tick, session continues.
				t.log.Warn("gps sample failed", zap.String("reason", Reason(err)))
				continue
			}

			t.mu.Lock()
			t.lastErr = nil
			if t.data != nil {
				t.data.Route = append(t.data.Route, point)
			}
			t.mu.Unlock()

			t.notify(point)
		}
	}
}

// sample acquires one device position and reverse-geocodes it, falling back
// to raw coordinates formatted as text when the geocoder cannot answer.
func (t *Tracker) sample(ctx context.Context) (domain.GPSPoint, error) {
	pos, err := t.locator.CurrentPosition(ctx)
	if err != nil {
		return domain.GPSPoint{}, err
	}

	at := pos.At
	if at.IsZero() {
		at = time.Now()
	}

	point := domain.GPSPoint{
		Lat:       pos.Lat,
		Lon:       pos.Lon,
		Accuracy:  pos.Accuracy,
		Timestamp: at.UTC().Format(time.RFC3339),
	}

	place, err := t.geocoder.ReverseGeocode(ctx, pos.Lat, pos.Lon)
	if err != nil {
		point.FullAddress = fmt.Sprintf("%.5f, %.5f", pos.Lat, pos.Lon)
		return point, nil
	}

	point.StreetName = place.StreetName
	point.FullAddress = place.FullAddress
	return point, nil
}

func (t *Tracker) notify(point domain.GPSPoint) {
	if t.onPoint != nil {
		t.onPoint(point)
	}
}
