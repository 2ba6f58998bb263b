package cpmm_test

import (
	"math"
	"testing"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
)

// FuzzPreviewInvariant checks that every preview keeps yes*no constant and
// moves the quoted price in the expected direction.
func FuzzPreviewInvariant(f *testing.F) {
	seeds := []struct{ yes, no, amount float64 }{
		{1000, 1000, 100},
		{1500, 500, 50},
		{1, 1_000_000, 0.5},
		{100, 10_000, 10_000},
		{0.01, 0.01, 0.001},
	}
	for _, s := range seeds {
		f.Add(s.yes, s.no, s.amount)
	}

	f.Fuzz(func(t *testing.T, yes, no, amount float64) {
		// Keep inputs in a range where float64 products stay well conditioned.
		if !(yes > 1e-3 && yes < 1e9 && no > 1e-3 && no < 1e9 && amount > 1e-6 && amount < 1e9) {
			return
		}
		p := cpmm.Pools{Yes: yes, No: no}
		k := cpmm.K(p)
		before := cpmm.CalculateOdds(p)

		for _, o := range []cpmm.Outcome{cpmm.Yes, cpmm.No} {
			buy := cpmm.PreviewBuy(p, o, amount)
			if rel := math.Abs(cpmm.K(buy.NewPools)-k) / k; rel > 1e-6 {
				t.Fatalf("buy %s: k drift %g (pools %+v amount %g)", o, rel, p, amount)
			}
			if buy.SharesOut < 0 {
				t.Fatalf("buy %s: negative shares %g", o, buy.SharesOut)
			}
			if buy.NewOdds.Of(o) < before.Of(o) {
				t.Fatalf("buy %s: price fell from %g to %g", o, before.Of(o), buy.NewOdds.Of(o))
			}

			sell := cpmm.PreviewSell(p, o, amount)
			if rel := math.Abs(cpmm.K(sell.NewPools)-k) / k; rel > 1e-6 {
				t.Fatalf("sell %s: k drift %g (pools %+v amount %g)", o, rel, p, amount)
			}
			if sell.NewOdds.Of(o) > before.Of(o) {
				t.Fatalf("sell %s: price rose from %g to %g", o, before.Of(o), sell.NewOdds.Of(o))
			}
		}
	})
}
