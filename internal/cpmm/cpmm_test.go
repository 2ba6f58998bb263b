package cpmm_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
)

var balanced = cpmm.Pools{Yes: 1000, No: 1000}

func TestYesPrice(t *testing.T) {
	assert.Equal(t, 0.5, cpmm.YesPrice(balanced))
	assert.Equal(t, 0.75, cpmm.YesPrice(cpmm.Pools{Yes: 1500, No: 500}))
	assert.Equal(t, 0.25, cpmm.YesPrice(cpmm.Pools{Yes: 500, No: 1500}))
	assert.Equal(t, 0.5, cpmm.YesPrice(cpmm.Pools{}))
}

func TestNoPrice(t *testing.T) {
	assert.Equal(t, 0.5, cpmm.NoPrice(balanced))
	assert.Equal(t, 0.75, cpmm.NoPrice(cpmm.Pools{Yes: 500, No: 1500}))
	assert.Equal(t, 0.5, cpmm.NoPrice(cpmm.Pools{}))

	p := cpmm.Pools{Yes: 1200, No: 800}
	assert.Equal(t, 1.0, cpmm.YesPrice(p)+cpmm.NoPrice(p))
}

func TestPricesNeverNaN(t *testing.T) {
	for _, p := range []cpmm.Pools{
		{Yes: math.NaN(), No: 1},
		{Yes: math.Inf(1), No: 1},
		{Yes: -5, No: 5},
	} {
		odds := cpmm.CalculateOdds(p)
		assert.Equal(t, 0.5, odds.Yes, "pools %+v", p)
		assert.Equal(t, 0.5, odds.No, "pools %+v", p)
	}
}

func TestCalculateOdds(t *testing.T) {
	odds := cpmm.CalculateOdds(balanced)
	assert.Equal(t, 0.5, odds.Yes)
	assert.Equal(t, 0.5, odds.No)

	odds = cpmm.CalculateOdds(cpmm.Pools{Yes: 1234, No: 5678})
	assert.InDelta(t, 1, odds.Yes+odds.No, 1e-10)
}

func TestKAndLiquidity(t *testing.T) {
	assert.Equal(t, 1_000_000.0, cpmm.K(balanced))
	assert.Equal(t, 2000.0, cpmm.TotalLiquidity(balanced))
	assert.Equal(t, 90.5, cpmm.PotentialPayout(90.5))
}

func TestPreviewBuyYes(t *testing.T) {
	preview := cpmm.PreviewBuyYes(balanced, 100)

	// k = 1,000,000; new yes = 1100; new no = 909.0909...; shares = 90.9090...
	assert.InDelta(t, 90.909090909, preview.SharesOut, 1e-6)
	assert.Equal(t, 1100.0, preview.NewPools.Yes)
	assert.InDelta(t, 1, preview.NewOdds.Yes+preview.NewOdds.No, 1e-10)
	assert.Greater(t, preview.PriceImpact, 0.0)
	assert.Greater(t, preview.NewOdds.Yes, 0.5)
	assert.Equal(t, cpmm.Yes, preview.Outcome)
	assert.InDelta(t, (preview.SharesOut-100)/100, preview.ROI, 1e-12)
}

func TestPreviewBuyYesCheapSideHasPositiveROI(t *testing.T) {
	preview := cpmm.PreviewBuyYes(cpmm.Pools{Yes: 500, No: 1500}, 100)
	assert.Greater(t, preview.ROI, 0.0)
}

func TestPreviewBuyNo(t *testing.T) {
	preview := cpmm.PreviewBuyNo(balanced, 100)

	assert.InDelta(t, 90.9091, preview.SharesOut, 1e-3)
	assert.Greater(t, preview.PriceImpact, 0.0)
	assert.Greater(t, preview.NewOdds.No, 0.5)
	assert.InDelta(t, cpmm.PreviewBuyYes(balanced, 100).SharesOut, preview.SharesOut, 1e-6)
}

func TestPreviewBuyDelegates(t *testing.T) {
	assert.Equal(t, cpmm.PreviewBuyYes(balanced, 100), cpmm.PreviewBuy(balanced, cpmm.Yes, 100))
	assert.Equal(t, cpmm.PreviewBuyNo(balanced, 100), cpmm.PreviewBuy(balanced, cpmm.No, 100))
	assert.Equal(t, cpmm.PreviewBuyYes(balanced, 100), cpmm.PreviewBuy(balanced, cpmm.OutcomeFromBool(true), 100))
	assert.Equal(t, cpmm.PreviewBuyNo(balanced, 100), cpmm.PreviewBuy(balanced, cpmm.OutcomeFromBool(false), 100))
}

func TestPreviewSellYes(t *testing.T) {
	preview := cpmm.PreviewSellYes(balanced, 50)

	// new no = 1050; new yes = 952.380952...; amount out = 47.619047...
	assert.InDelta(t, 47.619047619, preview.AmountOut, 1e-6)
	assert.Less(t, preview.PriceImpact, 0.0)
	assert.Less(t, preview.NewOdds.Yes, 0.5)
	assert.InDelta(t, preview.AmountOut/50, preview.AvgPrice, 1e-12)
}

func TestPreviewSellNo(t *testing.T) {
	preview := cpmm.PreviewSellNo(balanced, 50)

	assert.InDelta(t, 47.619, preview.AmountOut, 1e-2)
	assert.Less(t, preview.PriceImpact, 0.0)
	assert.Less(t, preview.NewOdds.No, 0.5)
	assert.InDelta(t, cpmm.PreviewSellYes(balanced, 50).AmountOut, preview.AmountOut, 1e-6)
}

func TestPreviewSellDelegates(t *testing.T) {
	assert.Equal(t, cpmm.PreviewSellYes(balanced, 50), cpmm.PreviewSell(balanced, cpmm.Yes, 50))
	assert.Equal(t, cpmm.PreviewSellNo(balanced, 50), cpmm.PreviewSell(balanced, cpmm.No, 50))
}

func TestPreviewEdgeAmounts(t *testing.T) {
	small := cpmm.PreviewBuyYes(balanced, 0.01)
	assert.Greater(t, small.SharesOut, 0.0)
	assert.Greater(t, small.PriceImpact, 0.0)

	large := cpmm.PreviewBuyYes(balanced, 10000)
	assert.Greater(t, large.SharesOut, 0.0)
	assert.Less(t, large.NewOdds.Yes, 1.0)

	skewed := cpmm.PreviewBuyYes(cpmm.Pools{Yes: 100, No: 10000}, 100)
	assert.Greater(t, skewed.SharesOut, 0.0)
	assert.Greater(t, skewed.PriceImpact, 0.0)
}

func TestPreviewAlwaysPositive(t *testing.T) {
	cases := []struct {
		pools  cpmm.Pools
		amount float64
	}{
		{cpmm.Pools{Yes: 1000, No: 1000}, 100},
		{cpmm.Pools{Yes: 100, No: 10000}, 50},
		{cpmm.Pools{Yes: 10000, No: 100}, 50},
		{cpmm.Pools{Yes: 1, No: 1000000}, 0.5},
	}
	for _, tc := range cases {
		assert.Greater(t, cpmm.PreviewBuyYes(tc.pools, tc.amount).SharesOut, 0.0, "%+v", tc)
		assert.Greater(t, cpmm.PreviewBuyNo(tc.pools, tc.amount).SharesOut, 0.0, "%+v", tc)
	}

	assert.Greater(t, cpmm.PreviewSellYes(balanced, 10).AmountOut, 0.0)
	assert.Greater(t, cpmm.PreviewSellNo(balanced, 10).AmountOut, 0.0)
}

func TestPreviewDegenerateInputIsNoop(t *testing.T) {
	inputs := []struct {
		name   string
		pools  cpmm.Pools
		amount float64
	}{
		{"zero amount", balanced, 0},
		{"negative amount", balanced, -10},
		{"nan amount", balanced, math.NaN()},
		{"inf amount", balanced, math.Inf(1)},
		{"empty pools", cpmm.Pools{}, 100},
		{"one empty side", cpmm.Pools{Yes: 1000}, 100},
	}
	for _, in := range inputs {
		t.Run(in.name, func(t *testing.T) {
			for _, o := range []cpmm.Outcome{cpmm.Yes, cpmm.No} {
				buy := cpmm.PreviewBuy(in.pools, o, in.amount)
				assert.Zero(t, buy.SharesOut)
				assert.Zero(t, buy.PriceImpact)
				assert.Zero(t, buy.ROI)
				assert.Equal(t, in.pools, buy.NewPools)
				assert.False(t, math.IsNaN(buy.NewOdds.Yes))

				sell := cpmm.PreviewSell(in.pools, o, in.amount)
				assert.Zero(t, sell.AmountOut)
				assert.Zero(t, sell.PriceImpact)
				assert.Zero(t, sell.AvgPrice)
				assert.Equal(t, in.pools, sell.NewPools)
			}
		})
	}
}

func TestPreviewPreservesK(t *testing.T) {
	pools := []cpmm.Pools{
		balanced,
		{Yes: 1500, No: 500},
		{Yes: 1, No: 1e6},
		{Yes: 123.456, No: 789.012},
	}
	amounts := []float64{0.001, 1, 50, 100, 10000}

	for _, p := range pools {
		k := cpmm.K(p)
		for _, amt := range amounts {
			for _, o := range []cpmm.Outcome{cpmm.Yes, cpmm.No} {
				buy := cpmm.PreviewBuy(p, o, amt)
				assert.InEpsilon(t, k, cpmm.K(buy.NewPools), 1e-6, "buy %s %v into %+v", o, amt, p)

				sell := cpmm.PreviewSell(p, o, amt)
				assert.InEpsilon(t, k, cpmm.K(sell.NewPools), 1e-6, "sell %s %v into %+v", o, amt, p)
			}
		}
	}
}

func TestPoolsValidate(t *testing.T) {
	require.NoError(t, balanced.Validate())
	require.NoError(t, cpmm.Pools{}.Validate())
	assert.ErrorIs(t, cpmm.Pools{Yes: -1, No: 1}.Validate(), cpmm.ErrInvalidPools)
	assert.ErrorIs(t, cpmm.Pools{Yes: math.NaN(), No: 1}.Validate(), cpmm.ErrInvalidPools)
}

func TestOutcomeText(t *testing.T) {
	for _, in := range []string{"yes", "YES", "true", " Yes "} {
		o, err := cpmm.ParseOutcome(in)
		require.NoError(t, err)
		assert.Equal(t, cpmm.Yes, o)
	}
	o, err := cpmm.ParseOutcome("false")
	require.NoError(t, err)
	assert.Equal(t, cpmm.No, o)

	_, err = cpmm.ParseOutcome("maybe")
	assert.Error(t, err)

	assert.True(t, cpmm.Yes.Bool())
}

func TestOutcomeJSON(t *testing.T) {
	var row struct {
		Outcome cpmm.Outcome `json:"outcome"`
	}
	cases := map[string]cpmm.Outcome{
		`{"outcome":false}`: cpmm.No,
		`{"outcome":true}`:  cpmm.Yes,
		`{"outcome":"NO"}`:  cpmm.No,
		`{"outcome":"yes"}`: cpmm.Yes,
	}
	for in, want := range cases {
		row.Outcome = cpmm.OutcomeFromBool(!want.Bool())
		require.NoError(t, json.Unmarshal([]byte(in), &row), in)
		assert.Equal(t, want, row.Outcome, in)
	}

	for _, in := range []string{`{"outcome":1}`, `{"outcome":"maybe"}`} {
		assert.Error(t, json.Unmarshal([]byte(in), &row), in)
	}

	out, err := json.Marshal(map[string]cpmm.Outcome{"outcome": cpmm.No})
	require.NoError(t, err)
	assert.JSONEq(t, `{"outcome":"no"}`, string(out))
}
