// ============================================================================
// PRICING: CONSTANT-PRODUCT PRICE CALCULATOR
// ============================================================================
//
// Reference prices over AMM reserves, normalised to 18 decimals.  The
// scalar path is the correctness contract; the batched path runs the
// 4-lane f64 kernel for the advisory confidence math and always emits the
// exact scalar price.
//
// Overflow policy: when reserve1·10¹⁸ would not fit the 256-bit
// intermediate, both reserves are right-shifted by the minimal power of
// two that averts overflow.  The shift preserves the ratio and costs at
// most one ULP of the least-significant limb — total availability beats
// a fault on whale-sized reserves.

package pricing

import (
	"math"

	"main/types"
	"main/u256"
	"main/vec4"
)

// pricePrecision is the 18-decimal fixed-point scale as a u64 multiplier.
const pricePrecision = uint64(types.PricePrecision)

// maxMulBits is the widest reserve1 that survives ·10¹⁸ in 256 bits:
// 10¹⁸ < 2⁶⁰, so 196 significant bits leave room for the product.
const maxMulBits = 196

// ConfidenceTier maps a liquidity-depth floor to an advisory score.
type ConfidenceTier struct {
	MinGeoMean float64 // √(reserve0·reserve1) floor, low-limb f64
	Bps        int64
}

// ConfidenceTiers is the depth→confidence step table, highest floor first.
// The floors are a configuration surface, not a law of nature; the
// defaults score a unit-scale 18-decimal pool (√(r0·r1) ≈ 1.4·10¹⁸) at
// 9000 and reserve full confidence for books 10× deeper than that floor.
var ConfidenceTiers = [...]ConfidenceTier{
	{1e19, 10_000},
	{1e18, 9_000},
	{1e15, 7_000},
	{0, 3_000},
}

// tierFor maps a geometric-mean depth to its advisory score.
//
//go:inline
func tierFor(depth float64) int64 {
	for _, t := range ConfidenceTiers {
		if depth >= t.MinGeoMean {
			return t.Bps
		}
	}
	return ConfidenceTiers[len(ConfidenceTiers)-1].Bps
}

// confidenceFor scores liquidity depth from the low limbs of the reserves.
//
//go:inline
func confidenceFor(r0, r1 uint64) int64 {
	return tierFor(math.Sqrt(float64(r0) * float64(r1)))
}

// exactPrice computes reserve1/reserve0 · 10¹⁸ with the scaling policy
// above.  Caller guarantees reserve0 is non-zero.
func exactPrice(reserve0, reserve1 u256.U256) u256.U256 {
	r0, r1 := reserve0, reserve1
	if excess := r1.BitLen() - maxMulBits; excess > 0 {
		r0 = u256.Rsh(r0, uint(excess))
		r1 = u256.Rsh(r1, uint(excess))
		if r0.IsZero() {
			r0 = u256.New(1)
		}
	}
	return u256.Div(u256.MulU64(r1, pricePrecision), r0)
}

// CalculatePrice derives reserve1/reserve0 · 10¹⁸ for one snapshot.
// Zero reserve0 yields a zero price with zero confidence.
func CalculatePrice(reserves *types.PoolReserves) types.PriceResult {
	result := types.PriceResult{
		TimestampMS: reserves.TimestampMS,
		PoolID:      reserves.PoolID,
		VenueID:     reserves.VenueID,
	}

	if reserves.Reserve0.IsZero() {
		return result // price 0, confidence 0
	}

	result.Price = exactPrice(reserves.Reserve0, reserves.Reserve1)
	result.Confidence = confidenceFor(reserves.Reserve0.Low64(), reserves.Reserve1.Low64())
	return result
}

// CalculatePricesBatch prices up to min(len(pools), len(out)) snapshots,
// four at a time.  The f64 lanes carry the reserve products for the
// advisory confidence scores; every emitted price equals the single-pool
// result exactly.  Returns the number of results written.
func CalculatePricesBatch(pools []types.PoolReserves, out []types.PriceResult) int {
	n := len(pools)
	if len(out) < n {
		n = len(out)
	}

	i := 0
	for ; i+4 <= n; i += 4 {
		var r0s, r1s [4]float64
		for j := 0; j < 4; j++ {
			r0s[j] = float64(pools[i+j].Reserve0.Low64())
			r1s[j] = float64(pools[i+j].Reserve1.Low64())
		}
		prods := vec4.Mul(vec4.Load(&r0s), vec4.Load(&r1s))

		for j := 0; j < 4; j++ {
			p := &pools[i+j]
			r := &out[i+j]
			r.TimestampMS = p.TimestampMS
			r.PoolID = p.PoolID
			r.VenueID = p.VenueID
			if p.Reserve0.IsZero() {
				r.Price = u256.Zero
				r.Confidence = 0
				continue
			}
			r.Price = exactPrice(p.Reserve0, p.Reserve1)
			r.Confidence = tierFor(math.Sqrt(prods[j]))
		}
	}
	for ; i < n; i++ {
		out[i] = CalculatePrice(&pools[i])
	}
	return n
}
