package domain

import (
	"context"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
	"github.com/alanyoungcy/cpmmquote/internal/orderbook"
)

// ListOpts provides pagination for list queries.
type ListOpts struct {
	Limit  int
	Offset int
}

// MarketStore reads market pool state.
type MarketStore interface {
	GetByID(ctx context.Context, id string) (Market, error)
	GetPools(ctx context.Context, id string) (cpmm.Pools, error)
	ListOpen(ctx context.Context, opts ListOpts) ([]Market, error)
}

// OrderBookStore reads aggregated order-book levels.
type OrderBookStore interface {
	Levels(ctx context.Context, marketID string, outcome cpmm.Outcome, depth int) ([]orderbook.Row, error)
}
