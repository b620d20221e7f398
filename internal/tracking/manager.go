package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"field-dispatch-service/internal/adapters/location"
	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
)

// ErrNotTracking is returned for fixes and stop requests against an order
// with no running session.
var ErrNotTracking = errors.New("tracking: no active session for order")

const persistTimeout = 5 * time.Second

// Manager owns at most one tracking session per order. Sessions sample from
// a per-session device feed, and every appended point re-persists the trace
// onto the order record, so a session can be resumed from the store after an
// interruption.
type Manager struct {
	store    ports.OrderStore
	geocoder ports.RoutingProvider
	interval time.Duration
	log      *zap.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	tracker *Tracker
	feed    *location.Feed
}

func NewManager(
	store ports.OrderStore,
	geocoder ports.RoutingProvider,
	interval time.Duration,
	log *zap.Logger,
) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		store:    store,
		geocoder: geocoder,
		interval: interval,
		log:      log,
		sessions: make(map[string]*session),
	}
}

// Start opens a session for the order, resuming from the trace persisted on
// the order record when one exists. The first device fix arrives with the
// start request so the immediate sample has a position to read.
func (m *Manager) Start(
	ctx context.Context,
	orderNumber string,
	fix ports.Position,
) (*domain.GPSTrackingData, error) {
	existing, err := m.persistedRoute(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	// A fresh start supersedes any session already running for the order.
	m.mu.Lock()
	if old, ok := m.sessions[orderNumber]; ok {
		old.tracker.Stop()
		delete(m.sessions, orderNumber)
	}
	m.mu.Unlock()

	feed := location.NewFeed()
	feed.Report(fix)

	var tracker *Tracker
	tracker = NewTracker(feed, m.geocoder, m.interval, func(domain.GPSPoint) {
		m.persist(orderNumber, tracker)
	}, m.log)

	if len(existing) > 0 {
		err = tracker.Resume(ctx, existing)
	} else {
		err = tracker.Start(ctx)
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[orderNumber] = &session{tracker: tracker, feed: feed}
	m.mu.Unlock()

	return tracker.Snapshot(), nil
}

// Report feeds a device fix into the order's running session.
func (m *Manager) Report(orderNumber string, fix ports.Position) error {
	m.mu.Lock()
	s, ok := m.sessions[orderNumber]
	m.mu.Unlock()

	if !ok {
		return ErrNotTracking
	}

	s.feed.Report(fix)
	return nil
}

// Stop ends the order's session, persists the frozen trace and returns the
// last known location.
func (m *Manager) Stop(ctx context.Context, orderNumber string) (*domain.GPSPoint, error) {
	m.mu.Lock()
	s, ok := m.sessions[orderNumber]
	delete(m.sessions, orderNumber)
	m.mu.Unlock()

	if !ok {
		return nil, ErrNotTracking
	}

	last := s.tracker.Stop()

	snap := s.tracker.Snapshot()
	if _, err := m.store.UpdateOrder(ctx, orderNumber, func(o domain.Order) domain.Order {
		o.Tracking = snap
		return o
	}); err != nil {
		return nil, fmt.Errorf("tracking: persist trace for %q: %w", orderNumber, err)
	}

	return last, nil
}

// persistedRoute loads the route already recorded on the order, so a new
// session can resume where an interrupted one left off.
func (m *Manager) persistedRoute(ctx context.Context, orderNumber string) ([]domain.GPSPoint, error) {
	orders, err := m.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("tracking: list orders: %w", err)
	}

	for _, o := range orders {
		if o.OrderNumber != orderNumber {
			continue
		}
		if o.Tracking == nil {
			return nil, nil
		}
		return append([]domain.GPSPoint(nil), o.Tracking.Route...), nil
	}

	return nil, ports.ErrOrderNotFound
}

// persist writes the current trace onto the order record. Called per
// appended point off the sampling loop; failures are logged, never fatal to
// the session.
func (m *Manager) persist(orderNumber string, tracker *Tracker) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	snap := tracker.Snapshot()
	if snap == nil {
		return
	}

	_, err := m.store.UpdateOrder(ctx, orderNumber, func(o domain.Order) domain.Order {
		o.Tracking = snap
		return o
	})
	if err != nil {
		m.log.Warn("tracking persist failed",
			zap.String("order", orderNumber),
			zap.Error(err),
		)
	}
}
