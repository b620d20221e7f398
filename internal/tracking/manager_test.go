package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"field-dispatch-service/internal/adapters/orderstore"
	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
)

func newTestManager(store ports.OrderStore) *Manager {
	// One-hour interval keeps tests on the immediate samples only.
	return NewManager(store, failAllProvider(), time.Hour, nil)
}

func findOrder(t *testing.T, store ports.OrderStore, number string) domain.Order {
	t.Helper()
	orders, err := store.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, o := range orders {
		if o.OrderNumber == number {
			return o
		}
	}
	t.Fatalf("order %q not in store", number)
	return domain.Order{}
}

func TestManagerStartPersistsTraceOntoOrder(t *testing.T) {
	store := orderstore.NewMemoryOrderStore(domain.Order{OrderNumber: "ORD-1"})
	m := newTestManager(store)

	snap, err := m.Start(context.Background(), "ORD-1", ports.Position{Lat: 48.85, Lon: 2.35})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer m.Stop(context.Background(), "ORD-1")

	if snap.SessionID == "" || len(snap.Route) != 1 {
		t.Fatalf("snapshot = %+v, want a one-point seeded session", snap)
	}

	stored := findOrder(t, store, "ORD-1")
	if stored.Tracking == nil {
		t.Fatal("trace not persisted onto the order record")
	}
	if len(stored.Tracking.Route) != 1 || stored.Tracking.Route[0].Lat != 48.85 {
		t.Fatalf("persisted route = %+v, want the seed fix", stored.Tracking.Route)
	}
}

func TestManagerStartUnknownOrder(t *testing.T) {
	m := newTestManager(orderstore.NewMemoryOrderStore())

	_, err := m.Start(context.Background(), "ORD-GONE", ports.Position{Lat: 48.85, Lon: 2.35})
	if !errors.Is(err, ports.ErrOrderNotFound) {
		t.Fatalf("error = %v, want order not found", err)
	}
}

func TestManagerResumesFromPersistedRoute(t *testing.T) {
	prior := &domain.GPSTrackingData{
		SessionID: "interrupted",
		Route: []domain.GPSPoint{
			{Lat: 48.80, Lon: 2.30, Timestamp: "2026-09-01T08:00:00Z"},
			{Lat: 48.81, Lon: 2.31, Timestamp: "2026-09-01T08:05:00Z"},
		},
		StartedAt: "2026-09-01T08:00:00Z",
	}
	store := orderstore.NewMemoryOrderStore(domain.Order{OrderNumber: "ORD-2", Tracking: prior})
	m := newTestManager(store)

	snap, err := m.Start(context.Background(), "ORD-2", ports.Position{Lat: 48.85, Lon: 2.35})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer m.Stop(context.Background(), "ORD-2")

	if len(snap.Route) != 3 {
		t.Fatalf("route length = %d, want the two persisted points plus a fresh fix", len(snap.Route))
	}
	if snap.Route[0].Lat != 48.80 || snap.Route[1].Lat != 48.81 {
		t.Fatalf("persisted prefix changed: %+v", snap.Route[:2])
	}
	if snap.StartedAt != "2026-09-01T08:00:00Z" {
		t.Fatalf("started at = %q, want the interrupted session's origin", snap.StartedAt)
	}
}

func TestManagerReportFeedsRunningSession(t *testing.T) {
	store := orderstore.NewMemoryOrderStore(domain.Order{OrderNumber: "ORD-3"})
	m := NewManager(store, failAllProvider(), 10*time.Millisecond, nil)

	if _, err := m.Start(context.Background(), "ORD-3", ports.Position{Lat: 48.85, Lon: 2.35}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Report("ORD-3", ports.Position{Lat: 48.86, Lon: 2.36}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(35 * time.Millisecond)
	if _, err := m.Stop(context.Background(), "ORD-3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := findOrder(t, store, "ORD-3")
	if stored.Tracking == nil || len(stored.Tracking.Route) < 2 {
		t.Fatalf("persisted trace = %+v, want periodic samples of the reported fix", stored.Tracking)
	}
	last := stored.Tracking.Route[len(stored.Tracking.Route)-1]
	if last.Lat != 48.86 {
		t.Fatalf("last point lat = %v, want the reported fix", last.Lat)
	}
}

func TestManagerStopFreezesTraceAndEndsSession(t *testing.T) {
	store := orderstore.NewMemoryOrderStore(domain.Order{OrderNumber: "ORD-4"})
	m := newTestManager(store)

	if _, err := m.Start(context.Background(), "ORD-4", ports.Position{Lat: 48.85, Lon: 2.35}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last, err := m.Stop(context.Background(), "ORD-4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last == nil {
		t.Fatal("expected the last known location")
	}

	stored := findOrder(t, store, "ORD-4")
	if stored.Tracking == nil || stored.Tracking.EndedAt == "" || stored.Tracking.EndLocation == nil {
		t.Fatalf("persisted trace = %+v, want it frozen with an end location", stored.Tracking)
	}

	if _, err := m.Stop(context.Background(), "ORD-4"); !errors.Is(err, ErrNotTracking) {
		t.Fatalf("error = %v, want no active session after stop", err)
	}
}

func TestManagerReportWithoutSession(t *testing.T) {
	m := newTestManager(orderstore.NewMemoryOrderStore())

	if err := m.Report("ORD-5", ports.Position{Lat: 48.85, Lon: 2.35}); !errors.Is(err, ErrNotTracking) {
		t.Fatalf("error = %v, want no active session", err)
	}
}
