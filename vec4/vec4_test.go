package vec4

import (
	"math"
	"math/rand"
	"testing"
)

const laneSeed = 777

// randVec draws four finite lane values spanning many magnitudes.
func randVec(rng *rand.Rand) F64x4 {
	var v F64x4
	for i := range v {
		v[i] = rng.Float64() * math.Ldexp(1, rng.Intn(120)-60)
	}
	return v
}

// TestLanewiseMatchesScalar confirms each lane equals the scalar op — the
// kernel's portability contract.
func TestLanewiseMatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(laneSeed))

	for i := 0; i < 10_000; i++ {
		a, b, c := randVec(rng), randVec(rng), randVec(rng)

		add, sub, mul, div := Add(a, b), Sub(a, b), Mul(a, b), Div(a, b)
		fma := FMA(a, b, c)

		for l := 0; l < 4; l++ {
			if add[l] != a[l]+b[l] {
				t.Fatalf("add lane %d: %g != %g", l, add[l], a[l]+b[l])
			}
			if sub[l] != a[l]-b[l] {
				t.Fatalf("sub lane %d", l)
			}
			if mul[l] != a[l]*b[l] {
				t.Fatalf("mul lane %d", l)
			}
			if div[l] != a[l]/b[l] {
				t.Fatalf("div lane %d", l)
			}
			if fma[l] != math.FMA(a[l], b[l], c[l]) {
				t.Fatalf("fma lane %d", l)
			}
		}
	}
}

// TestHorizontalReductions checks sum/min/max over known lanes.
func TestHorizontalReductions(t *testing.T) {
	v := F64x4{3, -1, 8, 0.5}
	if got := HSum(v); got != 10.5 {
		t.Fatalf("HSum = %g", got)
	}
	if got := HMax(v); got != 8 {
		t.Fatalf("HMax = %g", got)
	}
	if got := HMin(v); got != -1 {
		t.Fatalf("HMin = %g", got)
	}
}

// TestHSumWithinULP bounds the pairwise sum against the naive left-fold:
// the addends are non-negative, so the two summation orders differ only by
// a few ULPs; the check allows a 1e-15 relative difference.
func TestHSumWithinULP(t *testing.T) {
	rng := rand.New(rand.NewSource(laneSeed + 1))
	for i := 0; i < 10_000; i++ {
		v := randVec(rng)
		pairwise := HSum(v)
		naive := v[0] + v[1] + v[2] + v[3]
		diff := math.Abs(pairwise - naive)
		ulp := math.Max(math.Abs(pairwise), math.Abs(naive)) * 1e-15
		if diff > ulp+1e-300 {
			t.Fatalf("HSum(%v): pairwise %g vs naive %g", v, pairwise, naive)
		}
	}
}

// TestLoadStore round-trips lanes through memory, including the
// short-slice zero fill.
func TestLoadStore(t *testing.T) {
	src := [4]float64{1, 2, 3, 4}
	v := Load(&src)
	var dst [4]float64
	Store(&dst, v)
	if dst != src {
		t.Fatalf("round trip: %v", dst)
	}

	short := LoadSlice([]float64{9, 8})
	if short != (F64x4{9, 8, 0, 0}) {
		t.Fatalf("short load: %v", short)
	}
	long := LoadSlice([]float64{1, 2, 3, 4, 5, 6})
	if long != (F64x4{1, 2, 3, 4}) {
		t.Fatalf("long load: %v", long)
	}
}

// TestBroadcast fills every lane.
func TestBroadcast(t *testing.T) {
	if Broadcast(7) != (F64x4{7, 7, 7, 7}) {
		t.Fatal("broadcast")
	}
}

// TestProbesAreConsistent only asserts the implication AVX-512 ⇒ AVX2-era
// hardware reporting stays sane; the probes are advisory.
func TestProbesAreConsistent(t *testing.T) {
	if HasAVX512() && !HasAVX2() {
		t.Fatal("AVX-512F reported without AVX2")
	}
}

func BenchmarkFMA(b *testing.B) {
	x := F64x4{1.5, 2.5, 3.5, 4.5}
	y := F64x4{0.9, 1.1, 0.7, 1.3}
	acc := Broadcast(0)
	for i := 0; i < b.N; i++ {
		acc = FMA(x, y, acc)
	}
	_ = acc
}
