package domain

import (
	"context"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
)

// OddsCache stores the latest priced pools per market.
type OddsCache interface {
	SetOdds(ctx context.Context, odds MarketOdds) error
	GetOdds(ctx context.Context, marketID string) (MarketOdds, error)
	Invalidate(ctx context.Context, marketID string) error
}

// BookCache stores parsed order-book snapshots.
type BookCache interface {
	SetBook(ctx context.Context, snap BookSnapshot) error
	GetBook(ctx context.Context, marketID string, outcome cpmm.Outcome) (BookSnapshot, error)
}
