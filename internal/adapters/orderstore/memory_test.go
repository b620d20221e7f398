package orderstore

import (
	"context"
	"errors"
	"testing"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
)

func TestMemoryOrderStoreListReturnsCopies(t *testing.T) {
	store := NewMemoryOrderStore(
		domain.Order{OrderNumber: "ORD-2", Setup: &domain.Visit{Address: "B"}},
		domain.Order{OrderNumber: "ORD-1", Setup: &domain.Visit{Address: "A"}},
	)

	orders, err := store.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].OrderNumber != "ORD-2" {
		t.Fatalf("expected insertion order preserved, got %q first", orders[0].OrderNumber)
	}

	// Mutating the returned copy must not leak into the store.
	orders[0].Setup.Address = "mutated"

	again, _ := store.ListOrders(context.Background())
	if again[0].Setup.Address != "B" {
		t.Fatalf("store leaked a mutable reference: %q", again[0].Setup.Address)
	}
}

func TestMemoryOrderStoreUpdateBumpsVersion(t *testing.T) {
	store := NewMemoryOrderStore(domain.Order{OrderNumber: "ORD-1", Version: 3})

	updated, err := store.UpdateOrder(context.Background(), "ORD-1", func(o domain.Order) domain.Order {
		o.Customer = "Maison Claire"
		return o
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Version != 4 {
		t.Fatalf("version = %d, want 4", updated.Version)
	}
	if updated.Customer != "Maison Claire" {
		t.Fatalf("transform not applied: %+v", updated)
	}
}

func TestMemoryOrderStoreUpdateRejectsVersionTamper(t *testing.T) {
	store := NewMemoryOrderStore(domain.Order{OrderNumber: "ORD-1", Version: 1})

	_, err := store.UpdateOrder(context.Background(), "ORD-1", func(o domain.Order) domain.Order {
		o.Version = 99
		return o
	})
	if !errors.Is(err, ports.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestMemoryOrderStoreUpdateUnknownOrder(t *testing.T) {
	store := NewMemoryOrderStore()

	_, err := store.UpdateOrder(context.Background(), "missing", func(o domain.Order) domain.Order { return o })
	if !errors.Is(err, ports.ErrOrderNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
