package domain

import (
	"time"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
)

// QuoteAction is the direction of a CPMM quote.
type QuoteAction string

const (
	QuoteBuy  QuoteAction = "buy"
	QuoteSell QuoteAction = "sell"
)

// Quote is a stamped CPMM preview. Exactly one of Buy and Sell is set,
// matching Action. Price is the pre-trade price of Outcome.
type Quote struct {
	ID        string            `json:"id"`
	MarketID  string            `json:"market_id,omitempty"`
	Action    QuoteAction       `json:"action"`
	Outcome   cpmm.Outcome      `json:"outcome"`
	Pools     cpmm.Pools        `json:"pools"`
	Odds      cpmm.Odds         `json:"odds"`
	Price     float64           `json:"price"`
	Buy       *cpmm.BuyPreview  `json:"buy,omitempty"`
	Sell      *cpmm.SellPreview `json:"sell,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// ParseQuoteAction accepts "buy" or "sell".
func ParseQuoteAction(s string) (QuoteAction, error) {
	switch QuoteAction(s) {
	case QuoteBuy, QuoteSell:
		return QuoteAction(s), nil
	}
	return "", ErrInvalidAction
}
