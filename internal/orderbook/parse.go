package orderbook

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Row is one raw leveled row as returned by the order-book query. Numeric
// fields are left untyped because the database driver and JSON snapshots
// disagree on representation (float, integer, numeric string).
type Row struct {
	Side               string `json:"side"`
	Price              any    `json:"price"`
	Quantity           any    `json:"quantity"`
	CumulativeQuantity any    `json:"cumulative_quantity"`
	OrderCount         any    `json:"order_count"`
}

// ParseRows partitions rows into bids (side "buy") and asks (everything else),
// coerces numeric fields, sorts bids descending and asks ascending, and
// derives spread and mid from the top of book. Duplicate price levels are
// kept as given.
func ParseRows(rows []Row) Book {
	bids := make([]Level, 0, len(rows))
	asks := make([]Level, 0, len(rows))

	for _, row := range rows {
		lvl := Level{
			Price:              toFloat(row.Price),
			Quantity:           toFloat(row.Quantity),
			CumulativeQuantity: toFloat(row.CumulativeQuantity),
			OrderCount:         int(toFloat(row.OrderCount)),
		}
		if Side(row.Side) == Buy {
			bids = append(bids, lvl)
		} else {
			asks = append(asks, lvl)
		}
	}

	sort.SliceStable(bids, func(i, j int) bool { return bids[i].Price > bids[j].Price })
	sort.SliceStable(asks, func(i, j int) bool { return asks[i].Price < asks[j].Price })

	book := Book{Bids: bids, Asks: asks}
	book.Spread = Spread(book.BestBid(), book.BestAsk())
	book.MidPrice = MidPrice(book.BestBid(), book.BestAsk())
	return book
}

// toFloat coerces v to float64. Anything unparseable or non-finite is 0.
func toFloat(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		f, _ = n.Float64()
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(n), 64)
	case []byte:
		f, _ = strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
