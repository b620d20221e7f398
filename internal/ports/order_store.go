package ports

import (
	"context"
	"errors"

	"field-dispatch-service/internal/domain"
)

var (
	ErrOrderNotFound = errors.New("order store: order not found")
	// ErrVersionConflict is returned when an order changed between the read
	// and the write of an update.
	ErrVersionConflict = errors.New("order store: version conflict")
)

// Port: boundary to the portal's order records.
//
// The engine only ever reads whole orders and writes back a transformed copy;
// it never holds a mutable reference across calls. UpdateOrder applies the
// transform to a snapshot and commits it with a version check-and-increment.
type OrderStore interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrder(ctx context.Context, number string, transform func(domain.Order) domain.Order) (domain.Order, error)
}
