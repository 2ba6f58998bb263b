// Package orderbook derives display and execution metrics from a snapshot of
// aggregated limit-order levels for one outcome of a binary market. It does
// not match orders or keep state; callers hand in a snapshot and get derived
// values back.
package orderbook

import (
	"fmt"
	"strings"
)

// PayoutPerShare is what a winning share redeems for.
const PayoutPerShare = 1.0

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ParseSide accepts "buy"/"sell" in any case.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", fmt.Errorf("orderbook: unknown side %q", s)
}

// Level is one aggregated price point.
type Level struct {
	Price              float64 `json:"price"`
	Quantity           float64 `json:"quantity"`
	CumulativeQuantity float64 `json:"cumulative_quantity"`
	OrderCount         int     `json:"order_count"`
}

// Book is a snapshot of one outcome's resting orders. Bids are sorted by
// price descending and asks ascending.
type Book struct {
	Bids     []Level  `json:"bids"`
	Asks     []Level  `json:"asks"`
	Spread   *float64 `json:"spread"`
	MidPrice *float64 `json:"mid_price"`
}

// BestBid returns the top bid price, or nil for an empty side.
func (b Book) BestBid() *float64 {
	if len(b.Bids) == 0 {
		return nil
	}
	p := b.Bids[0].Price
	return &p
}

// BestAsk returns the top ask price, or nil for an empty side.
func (b Book) BestAsk() *float64 {
	if len(b.Asks) == 0 {
		return nil
	}
	p := b.Asks[0].Price
	return &p
}

// Spread is bestAsk - bestBid, or nil unless both are present.
func Spread(bestBid, bestAsk *float64) *float64 {
	if bestBid == nil || bestAsk == nil {
		return nil
	}
	v := *bestAsk - *bestBid
	return &v
}

// MidPrice is the mean of bestBid and bestAsk, or nil unless both are present.
func MidPrice(bestBid, bestAsk *float64) *float64 {
	if bestBid == nil || bestAsk == nil {
		return nil
	}
	v := (*bestBid + *bestAsk) / 2
	return &v
}

// PotentialReturn is the ROI of a share bought at price that resolves in the
// holder's favour. Prices outside (0,1) return 0.
func PotentialReturn(price float64) float64 {
	if price <= 0 || price >= 1 {
		return 0
	}
	return (PayoutPerShare - price) / price
}

// Multiplier is the payout multiple for a share bought at price.
func Multiplier(price float64) float64 {
	if price <= 0 {
		return 0
	}
	return PayoutPerShare / price
}

// OrderCost is the notional of quantity shares at price.
func OrderCost(price, quantity float64) float64 {
	return price * quantity
}

// PotentialWinnings is the payout for quantity winning shares.
func PotentialWinnings(quantity float64) float64 {
	return quantity * PayoutPerShare
}

// YesToNoPrice converts a YES price into the complementary NO price.
func YesToNoPrice(yesPrice float64) float64 {
	return 1 - yesPrice
}

// NoToYesPrice converts a NO price into the complementary YES price.
func NoToYesPrice(noPrice float64) float64 {
	return 1 - noPrice
}

// FormatCents renders a price in cents with one decimal, e.g. "80.0¢".
func FormatCents(price float64) string {
	return fmt.Sprintf("%.1f¢", price*100)
}

// FormatBRL renders an amount in reais with two decimals, e.g. "R$ 0.80".
func FormatBRL(amount float64) string {
	return fmt.Sprintf("R$ %.2f", amount)
}
