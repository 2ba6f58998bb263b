package domain

import (
	"time"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
)

// MarketCategory is the editorial category a market is filed under.
type MarketCategory string

// Market is a binary prediction market as stored by the backend. Only the
// fields needed for pricing are loaded.
type Market struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Category   MarketCategory `json:"category"`
	EndsAt     time.Time      `json:"ends_at"`
	Pools      cpmm.Pools     `json:"pools"`
	InitialK   *float64       `json:"initial_k,omitempty"`
	Outcome    *bool          `json:"outcome,omitempty"` // nil while unresolved
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
}

// Resolved reports whether the market has a final outcome.
func (m Market) Resolved() bool {
	return m.Outcome != nil
}

// MarketOdds is the priced view of a market's pools.
type MarketOdds struct {
	MarketID       string     `json:"market_id"`
	Pools          cpmm.Pools `json:"pools"`
	Odds           cpmm.Odds  `json:"odds"`
	K              float64    `json:"k"`
	TotalLiquidity float64    `json:"total_liquidity"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
