// Package cpmm prices binary-outcome shares with a constant-product market
// maker. Every function is pure: pools go in, a freshly computed result comes
// out, and nothing is mutated. The formulas match the server-side trade
// procedures so a preview agrees with the committed pool state.
package cpmm

import (
	"errors"
	"math"
)

// ErrInvalidPools is returned by Pools.Validate for negative or non-finite
// pool balances.
var ErrInvalidPools = errors.New("cpmm: invalid pools")

// Pools holds the two liquidity reservoirs of a binary market.
type Pools struct {
	Yes float64 `json:"pool_yes"`
	No  float64 `json:"pool_no"`
}

// Validate reports whether both sides are finite and non-negative. The pricing
// functions never call it; it exists for callers that want to reject bad
// state before quoting.
func (p Pools) Validate() error {
	if !finite(p.Yes) || !finite(p.No) || p.Yes < 0 || p.No < 0 {
		return ErrInvalidPools
	}
	return nil
}

// Odds is the implied probability of each outcome. Yes+No is 1 within
// floating-point tolerance.
type Odds struct {
	Yes float64 `json:"yes"`
	No  float64 `json:"no"`
}

// Of returns the probability for outcome o.
func (o Odds) Of(out Outcome) float64 {
	if out == No {
		return o.No
	}
	return o.Yes
}

// YesPrice returns the YES pool's share of total liquidity. Empty or
// non-finite pools price at exactly 0.5.
func YesPrice(p Pools) float64 {
	total := p.Yes + p.No
	if !validTotal(total) {
		return 0.5
	}
	return p.Yes / total
}

// NoPrice returns the NO pool's share of total liquidity. Empty pools price at
// exactly 0.5.
func NoPrice(p Pools) float64 {
	total := p.Yes + p.No
	if !validTotal(total) {
		return 0.5
	}
	return p.No / total
}

// CalculateOdds pairs YesPrice and NoPrice.
func CalculateOdds(p Pools) Odds {
	return Odds{Yes: YesPrice(p), No: NoPrice(p)}
}

// K returns the constant-product invariant.
func K(p Pools) float64 {
	return p.Yes * p.No
}

// TotalLiquidity returns the sum of both pools.
func TotalLiquidity(p Pools) float64 {
	return p.Yes + p.No
}

// PayoutPerShare is what one winning share redeems for.
const PayoutPerShare = 1.0

// PotentialPayout is the amount received if every share resolves in the
// holder's favour.
func PotentialPayout(shares float64) float64 {
	return shares * PayoutPerShare
}

// validTotal rejects empty, negative and non-finite liquidity.
func validTotal(total float64) bool {
	return total > 0 && !math.IsInf(total, 0)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// tradable reports whether p and amount admit a non-degenerate trade. Anything
// else yields a zero-effect preview.
func tradable(p Pools, amount float64) bool {
	return finite(amount) && amount > 0 &&
		finite(p.Yes) && finite(p.No) && p.Yes > 0 && p.No > 0
}
