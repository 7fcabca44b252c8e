// swap.go — constant-product swap math under the 30-bps fee.
//
// The fee is the uniform (997/1000) split: amountOut =
// (reserveOut · amountIn · 997) / (reserveIn · 1000 + amountIn · 997).
// All products run in 256-bit intermediates, so reserves anywhere in the
// 128-bit DeFi range never overflow; wider operands fall back to the same
// proportional right-shift used by the price path.

package pricing

import (
	"math"

	"main/types"
	"main/u256"
	"main/vec4"
)

const (
	feeNumerator   = 997
	feeDenominator = 1000
)

// SwapOutput returns the token amount received for amountIn against a
// (reserveIn, reserveOut) constant-product pool.  Zero reserveIn or
// amountIn yields zero; truncation is toward zero.
func SwapOutput(reserveIn, reserveOut, amountIn u256.U256) u256.U256 {
	if reserveIn.IsZero() || amountIn.IsZero() {
		return u256.Zero
	}

	rIn, rOut, aIn := reserveIn, reserveOut, amountIn

	// Keep reserveOut · (amountIn·997) inside 256 bits.  10 extra bits
	// cover the fee multipliers.
	if excess := rOut.BitLen() + aIn.BitLen() + 10 - 256; excess > 0 {
		shift := uint(excess)
		rIn = u256.Rsh(rIn, shift)
		rOut = u256.Rsh(rOut, shift)
		aIn = u256.Rsh(aIn, shift)
		if rIn.IsZero() || aIn.IsZero() {
			return u256.Zero
		}
	}

	amountInWithFee := u256.MulU64(aIn, feeNumerator)
	numerator := u256.Mul(rOut, amountInWithFee)
	denominator := u256.Add(u256.MulU64(rIn, feeDenominator), amountInWithFee)
	if denominator.IsZero() {
		return u256.Zero
	}
	return u256.Div(numerator, denominator)
}

// SwapOutputsBatch fills out[i] = SwapOutput(reserveIn, reserveOut,
// amountsIn[i]) for up to min(len(amountsIn), len(out)) amounts.  The f64
// lanes pre-compute the quotients four at a time so lanes that round to
// zero skip the wide division; emitted values are always the exact scalar
// results.  Returns the number written.
func SwapOutputsBatch(reserveIn, reserveOut u256.U256, amountsIn, out []u256.U256) int {
	n := len(amountsIn)
	if len(out) < n {
		n = len(out)
	}
	if reserveIn.IsZero() {
		for i := 0; i < n; i++ {
			out[i] = u256.Zero
		}
		return n
	}

	rInF := vec4.Broadcast(u256.ToFloat64(reserveIn))
	rOutF := vec4.Broadcast(u256.ToFloat64(reserveOut))
	fee := vec4.Broadcast(feeNumerator)

	i := 0
	for ; i+4 <= n; i += 4 {
		var aIn [4]float64
		for j := 0; j < 4; j++ {
			aIn[j] = u256.ToFloat64(amountsIn[i+j])
		}
		amounts := vec4.Load(&aIn)

		// numerator = rOut·a·997; denominator = rIn·1000 + a·997
		withFee := vec4.Mul(amounts, fee)
		numer := vec4.Mul(rOutF, withFee)
		denom := vec4.FMA(rInF, vec4.Broadcast(feeDenominator), withFee)
		approx := vec4.Div(numer, denom)

		for j := 0; j < 4; j++ {
			if approx[j] < 1 {
				out[i+j] = u256.Zero // rounds to nothing; skip the wide divide
				continue
			}
			out[i+j] = SwapOutput(reserveIn, reserveOut, amountsIn[i+j])
		}
	}
	for ; i < n; i++ {
		out[i] = SwapOutput(reserveIn, reserveOut, amountsIn[i])
	}
	return n
}

// SlippageBps reports (spot − exec)/spot in basis points for a trade of
// amountIn, where spot = reserveOut/reserveIn and exec = out/amountIn.
// Degenerate inputs yield zero; any non-zero trade against a non-empty
// pool is positive.
func SlippageBps(reserveIn, reserveOut, amountIn u256.U256) int64 {
	if reserveIn.IsZero() || amountIn.IsZero() {
		return 0
	}

	rIn := u256.ToFloat64(reserveIn)
	rOut := u256.ToFloat64(reserveOut)
	aIn := u256.ToFloat64(amountIn)

	spot := rOut / rIn
	if spot == 0 {
		return 0
	}

	out := SwapOutput(reserveIn, reserveOut, amountIn)
	exec := u256.ToFloat64(out) / aIn

	return int64((spot - exec) / spot * types.BpsPrecision)
}

// OptimalTradeSize sizes the token1 input that maximises round-trip
// profit: buy token0 on the low-price pool, sell it on the high-price
// pool.  With fee γ = 0.997, buy reserves (a0, a1) and sell reserves
// (b0, b1), the route output is
//
//	out(x) = γ²·a0·b1·x / (a1·b0 + γ(b0 + γ·a0)·x)
//
// whose profit-maximising input has the closed form
//
//	x* = (γ·√(a0·a1·b0·b1) − a1·b0) / (γ·(b0 + γ·a0))
//
// Computed in f64 and clamped at zero — a non-positive optimum means the
// dislocation does not clear two fee legs.
func OptimalTradeSize(reserve0Buy, reserve1Buy, reserve0Sell, reserve1Sell u256.U256) u256.U256 {
	a0 := u256.ToFloat64(reserve0Buy)
	a1 := u256.ToFloat64(reserve1Buy)
	b0 := u256.ToFloat64(reserve0Sell)
	b1 := u256.ToFloat64(reserve1Sell)

	const fee = 0.997

	num := fee*math.Sqrt(a0*a1*b0*b1) - a1*b0
	den := fee * (b0 + fee*a0)
	if num <= 0 || den <= 0 {
		return u256.Zero
	}
	return u256.FromFloat64(num / den)
}

// ArbitrageProfit simulates the round trip: size token1 → token0 on the
// buy pool (where token0 is cheap), then the received token0 → token1 on
// the sell pool.  Returns token1Out − size when positive, else zero.
func ArbitrageProfit(buy, sell *types.PoolReserves, size u256.U256) u256.U256 {
	token0Received := SwapOutput(buy.Reserve1, buy.Reserve0, size)
	token1Received := SwapOutput(sell.Reserve0, sell.Reserve1, token0Received)

	if u256.Cmp(token1Received, size) > 0 {
		return u256.Sub(token1Received, size)
	}
	return u256.Zero
}
