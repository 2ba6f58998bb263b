package domain

import (
	"time"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
	"github.com/alanyoungcy/cpmmquote/internal/orderbook"
)

// BookSnapshot is a parsed order book for one outcome of one market.
type BookSnapshot struct {
	MarketID  string         `json:"market_id"`
	Outcome   cpmm.Outcome   `json:"outcome"`
	Book      orderbook.Book `json:"book"`
	Timestamp time.Time      `json:"timestamp"`
}

// RecordedBook is the archived form of a book: raw rows plus identifying
// metadata, as written to object storage.
type RecordedBook struct {
	MarketID   string          `json:"market_id"`
	Outcome    cpmm.Outcome    `json:"outcome"`
	Rows       []orderbook.Row `json:"rows"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// MarketEstimate is a market-order simulation enriched with payout figures
// for the average fill price.
type MarketEstimate struct {
	MarketID          string             `json:"market_id"`
	Outcome           cpmm.Outcome       `json:"outcome"`
	Side              orderbook.Side     `json:"side"`
	Quantity          float64            `json:"quantity"`
	Estimate          orderbook.Estimate `json:"estimate"`
	PotentialReturn   float64            `json:"potential_return"`
	Multiplier        float64            `json:"multiplier"`
	PotentialWinnings float64            `json:"potential_winnings"`
}
