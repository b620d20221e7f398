package optimize

import (
	"context"
	"testing"

	"field-dispatch-service/internal/adapters/orderstore"
	"field-dispatch-service/internal/adapters/routing"
	"field-dispatch-service/internal/domain"
)

func TestApplyWritesTimesBack(t *testing.T) {
	provider := routing.NewMockProvider(symmetricPairs([]routing.MockPair{
		{From: "H", To: "A", Km: 4, Mins: 12},
		{From: "H", To: "B", Km: 2, Mins: 6},
		{From: "A", To: "B", Km: 3, Mins: 9},
	}))

	store := orderstore.NewMemoryOrderStore(
		setupOrder("ORD-A", "A", domain.Visit{DurationMins: 45}),
		setupOrder("ORD-B", "B", domain.Visit{DurationMins: 45}),
	)

	optimizer := NewOptimizer(store, provider, nil)
	opt, err := optimizer.Optimize(context.Background(), domain.TeamAmandine, testDate, "H")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := optimizer.Apply(context.Background(), opt)
	if len(result.Failed) != 0 {
		t.Fatalf("unexpected failures: %v", result.Failed)
	}
	if len(result.Applied) != 2 {
		t.Fatalf("expected 2 applied jobs, got %d", len(result.Applied))
	}

	orders, _ := store.ListOrders(context.Background())
	byNumber := map[string]domain.Order{}
	for _, o := range orders {
		byNumber[o.OrderNumber] = o
	}

	// B goes first: depart 09:00, arrive 09:06, end 09:51.
	b := byNumber["ORD-B"].Setup
	if b.DepartTime != "09:00" || b.ArriveTime != "09:06" || b.EndTime != "09:51" {
		t.Fatalf("ORD-B times = %q / %q / %q", b.DepartTime, b.ArriveTime, b.EndTime)
	}
	if b.OutboundKm != 2 {
		t.Fatalf("ORD-B outbound km = %v, want 2", b.OutboundKm)
	}

	// A follows: arrive 09:51+9m = 10:00, end 10:45, hub arrival 10:45+12m.
	a := byNumber["ORD-A"].Setup
	if a.ArriveTime != "10:00" || a.EndTime != "10:45" {
		t.Fatalf("ORD-A times = %q / %q", a.ArriveTime, a.EndTime)
	}
	if a.HubArriveTime != "10:57" {
		t.Fatalf("ORD-A hub arrival = %q, want 10:57", a.HubArriveTime)
	}
	if a.ReturnKm != 4 {
		t.Fatalf("ORD-A return km = %v, want 4", a.ReturnKm)
	}

	// Versions were bumped by the commit.
	if byNumber["ORD-A"].Version != 1 || byNumber["ORD-B"].Version != 1 {
		t.Fatalf("versions not bumped: %d / %d", byNumber["ORD-A"].Version, byNumber["ORD-B"].Version)
	}
}

func TestApplyIsBestEffortPerJob(t *testing.T) {
	provider := routing.NewMockProvider(symmetricPairs([]routing.MockPair{
		{From: "H", To: "A", Km: 4, Mins: 12},
		{From: "H", To: "B", Km: 2, Mins: 6},
		{From: "A", To: "B", Km: 3, Mins: 9},
	}))

	store := orderstore.NewMemoryOrderStore(
		setupOrder("ORD-A", "A", domain.Visit{}),
		setupOrder("ORD-B", "B", domain.Visit{}),
	)

	optimizer := NewOptimizer(store, provider, nil)
	opt, err := optimizer.Optimize(context.Background(), domain.TeamAmandine, testDate, "H")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Simulate one job whose owning order vanished before the write.
	opt.Optimized[0].OrderNumber = "ORD-GONE"

	result := optimizer.Apply(context.Background(), opt)
	if len(result.Failed) != 1 {
		t.Fatalf("expected 1 failure, got %v", result.Failed)
	}
	if len(result.Applied) != 1 {
		t.Fatalf("a failure on one job must not block the others; applied=%v", result.Applied)
	}
}
