package orderstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
)

// PgOrderStore persists order records as JSONB rows with a version column
// used for optimistic concurrency.
type PgOrderStore struct {
	pool *pgxpool.Pool
}

func NewPgOrderStore(pool *pgxpool.Pool) *PgOrderStore {
	return &PgOrderStore{pool: pool}
}

// InitSchema creates the orders table when it does not exist yet.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS orders (
			order_number TEXT PRIMARY KEY,
			version      BIGINT NOT NULL DEFAULT 0,
			payload      JSONB  NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("order store: init schema: %w", err)
	}
	return nil
}

func (s *PgOrderStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT order_number, version, payload
		FROM orders
		ORDER BY order_number
	`)
	if err != nil {
		return nil, fmt.Errorf("order store: list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var (
			number  string
			version int64
			payload []byte
		)
		if err := rows.Scan(&number, &version, &payload); err != nil {
			return nil, fmt.Errorf("order store: scan order row: %w", err)
		}

		var order domain.Order
		if err := json.Unmarshal(payload, &order); err != nil {
			return nil, fmt.Errorf("order store: decode order %q: %w", number, err)
		}
		order.OrderNumber = number
		order.Version = version
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order store: row iteration: %w", err)
	}

	return out, nil
}

// UpdateOrder reads the current record, applies the transform to a copy and
// commits it with a check-and-increment on the version column. A concurrent
// edit between the read and the write surfaces as ErrVersionConflict.
func (s *PgOrderStore) UpdateOrder(
	ctx context.Context,
	number string,
	transform func(domain.Order) domain.Order,
) (domain.Order, error) {
	var (
		version int64
		payload []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT version, payload FROM orders WHERE order_number = $1
	`, number).Scan(&version, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, ports.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("order store: read order %q: %w", number, err)
	}

	var current domain.Order
	if err := json.Unmarshal(payload, &current); err != nil {
		return domain.Order{}, fmt.Errorf("order store: decode order %q: %w", number, err)
	}
	current.OrderNumber = number
	current.Version = version

	updated := transform(current.Clone())
	if updated.Version != version {
		return domain.Order{}, ports.ErrVersionConflict
	}
	updated.OrderNumber = number
	updated.Version = version + 1

	encoded, err := json.Marshal(updated)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order store: encode order %q: %w", number, err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE orders
		SET payload = $2, version = version + 1
		WHERE order_number = $1 AND version = $3
	`, number, encoded, version)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order store: write order %q: %w", number, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Order{}, ports.ErrVersionConflict
	}

	return updated, nil
}

// InsertOrder adds a new order record. Intended for seeding and tests; the
// portal normally owns order creation.
func (s *PgOrderStore) InsertOrder(ctx context.Context, order domain.Order) error {
	encoded, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("order store: encode order %q: %w", order.OrderNumber, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO orders (order_number, version, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_number) DO NOTHING
	`, order.OrderNumber, order.Version, encoded)
	if err != nil {
		return fmt.Errorf("order store: insert order %q: %w", order.OrderNumber, err)
	}
	return nil
}
