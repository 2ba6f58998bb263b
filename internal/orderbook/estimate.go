package orderbook

import "math"

// Estimate is the simulated result of a market order against a snapshot.
type Estimate struct {
	Feasible       bool    `json:"feasible"`
	AvgPrice       float64 `json:"avg_price"`
	TotalCost      float64 `json:"total_cost"`
	FilledQuantity float64 `json:"filled_quantity"`
}

// EstimateMarketOrder walks the opposing side of book (asks for a buy, bids
// for a sell) in the order given and fills quantity greedily. Levels are not
// re-sorted; the caller supplies them in priority order. Feasible is true when
// the whole quantity fits in the available depth.
func EstimateMarketOrder(book Book, side Side, quantity float64) Estimate {
	levels := book.Bids
	if side == Buy {
		levels = book.Asks
	}

	remaining := quantity
	var totalCost, filled float64
	for _, lvl := range levels {
		if remaining <= 0 {
			break
		}
		fill := math.Min(remaining, lvl.Quantity)
		totalCost += fill * lvl.Price
		filled += fill
		remaining -= fill
	}

	est := Estimate{
		Feasible:       remaining <= 0,
		TotalCost:      totalCost,
		FilledQuantity: filled,
	}
	if filled > 0 {
		est.AvgPrice = totalCost / filled
	}
	return est
}
