package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
	"github.com/alanyoungcy/cpmmquote/internal/domain"
	"github.com/alanyoungcy/cpmmquote/internal/orderbook"
)

// OrderBookStore implements domain.OrderBookStore on top of the
// get_order_book_detailed function.
type OrderBookStore struct {
	pool *pgxpool.Pool
}

// NewOrderBookStore creates a new OrderBookStore backed by the given pool.
func NewOrderBookStore(pool *pgxpool.Pool) *OrderBookStore {
	return &OrderBookStore{pool: pool}
}

// Levels returns up to depth levels per side for one outcome. Rows come back
// unsorted from the caller's point of view; orderbook.ParseRows orders them.
func (s *OrderBookStore) Levels(ctx context.Context, marketID string, outcome cpmm.Outcome, depth int) ([]orderbook.Row, error) {
	if depth <= 0 {
		depth = 10
	}
	const query = `
		SELECT side, price::float8, quantity::float8,
		       cumulative_quantity::float8, order_count
		FROM get_order_book_detailed($1::uuid, $2, $3)`

	rows, err := s.pool.Query(ctx, query, marketID, outcome.Bool(), depth)
	if err != nil {
		return nil, fmt.Errorf("postgres: order book %s/%s: %w", marketID, outcome, err)
	}
	defer rows.Close()

	var out []orderbook.Row
	for rows.Next() {
		var (
			side                  string
			price, qty, cumulated float64
			count                 int64
		)
		if err := rows.Scan(&side, &price, &qty, &cumulated, &count); err != nil {
			return nil, fmt.Errorf("postgres: scan order book level: %w", err)
		}
		out = append(out, orderbook.Row{
			Side:               side,
			Price:              price,
			Quantity:           qty,
			CumulativeQuantity: cumulated,
			OrderCount:         count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: order book %s/%s: %w", marketID, outcome, err)
	}
	return out, nil
}

// Compile-time interface check.
var _ domain.OrderBookStore = (*OrderBookStore)(nil)
