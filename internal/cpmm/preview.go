package cpmm

// BuyPreview describes the effect of spending AmountIn on one outcome.
type BuyPreview struct {
	Outcome     Outcome `json:"outcome"`
	AmountIn    float64 `json:"amount_in"`
	SharesOut   float64 `json:"shares_out"`
	NewPools    Pools   `json:"new_pools"`
	NewOdds     Odds    `json:"new_odds"`
	PriceImpact float64 `json:"price_impact"`
	// ROI assumes each share redeems for PayoutPerShare.
	ROI float64 `json:"roi"`
}

// SellPreview describes the effect of returning SharesIn of one outcome to
// the pool.
type SellPreview struct {
	Outcome     Outcome `json:"outcome"`
	SharesIn    float64 `json:"shares_in"`
	AmountOut   float64 `json:"amount_out"`
	NewPools    Pools   `json:"new_pools"`
	NewOdds     Odds    `json:"new_odds"`
	PriceImpact float64 `json:"price_impact"`
	AvgPrice    float64 `json:"avg_price"`
}

// PreviewBuyYes injects amountIn into the YES pool and withdraws the NO-pool
// shrinkage as shares, holding K constant. Pools with an empty or non-finite
// side, such as {1000, 0}, yield a zero-effect preview.
func PreviewBuyYes(p Pools, amountIn float64) BuyPreview {
	if !tradable(p, amountIn) {
		return noopBuy(p, Yes, amountIn)
	}
	k := K(p)
	newYes := p.Yes + amountIn
	newNo := k / newYes
	sharesOut := p.No - newNo

	next := Pools{Yes: newYes, No: newNo}
	newOdds := CalculateOdds(next)
	return BuyPreview{
		Outcome:     Yes,
		AmountIn:    amountIn,
		SharesOut:   sharesOut,
		NewPools:    next,
		NewOdds:     newOdds,
		PriceImpact: newOdds.Yes - YesPrice(p),
		ROI:         (PotentialPayout(sharesOut) - amountIn) / amountIn,
	}
}

// PreviewBuyNo mirrors PreviewBuyYes for the NO outcome.
func PreviewBuyNo(p Pools, amountIn float64) BuyPreview {
	if !tradable(p, amountIn) {
		return noopBuy(p, No, amountIn)
	}
	k := K(p)
	newNo := p.No + amountIn
	newYes := k / newNo
	sharesOut := p.Yes - newYes

	next := Pools{Yes: newYes, No: newNo}
	newOdds := CalculateOdds(next)
	return BuyPreview{
		Outcome:     No,
		AmountIn:    amountIn,
		SharesOut:   sharesOut,
		NewPools:    next,
		NewOdds:     newOdds,
		PriceImpact: newOdds.No - NoPrice(p),
		ROI:         (PotentialPayout(sharesOut) - amountIn) / amountIn,
	}
}

// PreviewBuy dispatches on outcome.
func PreviewBuy(p Pools, o Outcome, amountIn float64) BuyPreview {
	if o == No {
		return PreviewBuyNo(p, amountIn)
	}
	return PreviewBuyYes(p, amountIn)
}

// PreviewSellYes returns sharesIn YES shares to the NO side and pays out the
// YES-pool shrinkage, holding K constant.
func PreviewSellYes(p Pools, sharesIn float64) SellPreview {
	if !tradable(p, sharesIn) {
		return noopSell(p, Yes, sharesIn)
	}
	k := K(p)
	newNo := p.No + sharesIn
	newYes := k / newNo
	amountOut := p.Yes - newYes

	next := Pools{Yes: newYes, No: newNo}
	newOdds := CalculateOdds(next)
	return SellPreview{
		Outcome:     Yes,
		SharesIn:    sharesIn,
		AmountOut:   amountOut,
		NewPools:    next,
		NewOdds:     newOdds,
		PriceImpact: newOdds.Yes - YesPrice(p),
		AvgPrice:    amountOut / sharesIn,
	}
}

// PreviewSellNo mirrors PreviewSellYes for the NO outcome.
func PreviewSellNo(p Pools, sharesIn float64) SellPreview {
	if !tradable(p, sharesIn) {
		return noopSell(p, No, sharesIn)
	}
	k := K(p)
	newYes := p.Yes + sharesIn
	newNo := k / newYes
	amountOut := p.No - newNo

	next := Pools{Yes: newYes, No: newNo}
	newOdds := CalculateOdds(next)
	return SellPreview{
		Outcome:     No,
		SharesIn:    sharesIn,
		AmountOut:   amountOut,
		NewPools:    next,
		NewOdds:     newOdds,
		PriceImpact: newOdds.No - NoPrice(p),
		AvgPrice:    amountOut / sharesIn,
	}
}

// PreviewSell dispatches on outcome.
func PreviewSell(p Pools, o Outcome, sharesIn float64) SellPreview {
	if o == No {
		return PreviewSellNo(p, sharesIn)
	}
	return PreviewSellYes(p, sharesIn)
}

func noopBuy(p Pools, o Outcome, amountIn float64) BuyPreview {
	if !finite(amountIn) {
		amountIn = 0
	}
	return BuyPreview{
		Outcome:  o,
		AmountIn: amountIn,
		NewPools: p,
		NewOdds:  CalculateOdds(p),
	}
}

func noopSell(p Pools, o Outcome, sharesIn float64) SellPreview {
	if !finite(sharesIn) {
		sharesIn = 0
	}
	return SellPreview{
		Outcome:  o,
		SharesIn: sharesIn,
		NewPools: p,
		NewOdds:  CalculateOdds(p),
	}
}
