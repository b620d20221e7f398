package orderstore

import (
	"context"
	"sync"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
)

// MemoryOrderStore keeps order records in process memory. It backs tests and
// local runs; the Postgres store is the production implementation.
type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	seq    []string // insertion order for deterministic listings
}

func NewMemoryOrderStore(orders ...domain.Order) *MemoryOrderStore {
	s := &MemoryOrderStore{orders: make(map[string]domain.Order, len(orders))}
	for _, o := range orders {
		if _, ok := s.orders[o.OrderNumber]; !ok {
			s.seq = append(s.seq, o.OrderNumber)
		}
		s.orders[o.OrderNumber] = o.Clone()
	}
	return s
}

func (s *MemoryOrderStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, 0, len(s.seq))
	for _, n := range s.seq {
		out = append(out, s.orders[n].Clone())
	}
	return out, nil
}

// UpdateOrder applies the transform to a snapshot of the order and commits
// the result with the version bumped. The transform must stay pure; it
// receives and returns a copy.
func (s *MemoryOrderStore) UpdateOrder(
	ctx context.Context,
	number string,
	transform func(domain.Order) domain.Order,
) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[number]
	if !ok {
		return domain.Order{}, ports.ErrOrderNotFound
	}

	updated := transform(current.Clone())
	if updated.Version != current.Version {
		return domain.Order{}, ports.ErrVersionConflict
	}

	updated.OrderNumber = number
	updated.Version = current.Version + 1
	s.orders[number] = updated.Clone()

	return updated, nil
}
