// ============================================================================
// VEC4: 4-LANE F64 KERNEL
// ============================================================================
//
// Four-wide double-precision helpers backing the batched price and spread
// paths.  The kernel is written as straight-line scalar Go over [4]float64
// lanes: the compiler vectorises the loop-free bodies where the target
// supports it, and the scalar form doubles as the portable reference — the
// lanes produce exactly the per-lane scalar results, so the batched callers
// never diverge from their scalar counterparts beyond ordinary f64 rounding.
//
// FMA lanes use math.FMA, which contracts to a hardware fused-multiply-add
// where available and stays correctly rounded everywhere else.

package vec4

import "math"

// F64x4 is a vector of four float64 lanes.
type F64x4 [4]float64

// Broadcast returns a vector with v in every lane.
//
//go:inline
func Broadcast(v float64) F64x4 {
	return F64x4{v, v, v, v}
}

// Load reads four lanes from p.
//
//go:inline
func Load(p *[4]float64) F64x4 { return *p }

// LoadSlice reads up to four lanes from s; missing lanes are zero.
func LoadSlice(s []float64) F64x4 {
	var v F64x4
	n := len(s)
	if n > 4 {
		n = 4
	}
	copy(v[:], s[:n])
	return v
}

// Store writes the four lanes to p.
//
//go:inline
func Store(p *[4]float64, v F64x4) { *p = v }

// ─── Lane arithmetic ────────────────────────────────────────────────────────

//go:inline
func Add(a, b F64x4) F64x4 {
	return F64x4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

//go:inline
func Sub(a, b F64x4) F64x4 {
	return F64x4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

//go:inline
func Mul(a, b F64x4) F64x4 {
	return F64x4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

//go:inline
func Div(a, b F64x4) F64x4 {
	return F64x4{a[0] / b[0], a[1] / b[1], a[2] / b[2], a[3] / b[3]}
}

// FMA returns a·b+c per lane with a single rounding.
//
//go:inline
func FMA(a, b, c F64x4) F64x4 {
	return F64x4{
		math.FMA(a[0], b[0], c[0]),
		math.FMA(a[1], b[1], c[1]),
		math.FMA(a[2], b[2], c[2]),
		math.FMA(a[3], b[3], c[3]),
	}
}

// ─── Horizontal reductions ──────────────────────────────────────────────────

// HSum returns the sum of all lanes, pairwise to match the hardware
// reduction order.
//
//go:inline
func HSum(v F64x4) float64 {
	return (v[0] + v[2]) + (v[1] + v[3])
}

// HMax returns the largest lane.
//
//go:inline
func HMax(v F64x4) float64 {
	m := v[0]
	if v[1] > m {
		m = v[1]
	}
	if v[2] > m {
		m = v[2]
	}
	if v[3] > m {
		m = v[3]
	}
	return m
}

// HMin returns the smallest lane.
//
//go:inline
func HMin(v F64x4) float64 {
	m := v[0]
	if v[1] < m {
		m = v[1]
	}
	if v[2] < m {
		m = v[2]
	}
	if v[3] < m {
		m = v[3]
	}
	return m
}
