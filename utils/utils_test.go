package utils

import (
	"strconv"
	"testing"
)

// TestB2sZeroCopy checks content equality and the empty-slice special
// case.
func TestB2sZeroCopy(t *testing.T) {
	b := []byte("hotpath")
	if got := B2s(b); got != "hotpath" {
		t.Fatalf("B2s = %q", got)
	}
	if B2s(nil) != "" || B2s([]byte{}) != "" {
		t.Fatal("empty inputs must map to empty string")
	}
}

// TestItoaMatchesStrconv sweeps representative values including limits.
func TestItoaMatchesStrconv(t *testing.T) {
	cases := []int{0, 1, -1, 9, 10, 42, -42, 4095, 65536, 1<<31 - 1, -(1 << 31)}
	for _, v := range cases {
		if got, want := Itoa(v), strconv.Itoa(v); got != want {
			t.Fatalf("Itoa(%d) = %q, want %q", v, got, want)
		}
	}
}

// TestUtoaMatchesStrconv covers the unsigned formatter through max u64.
func TestUtoaMatchesStrconv(t *testing.T) {
	cases := []uint64{0, 1, 10, 999, 1 << 32, ^uint64(0)}
	for _, v := range cases {
		if got, want := Utoa(v), strconv.FormatUint(v, 10); got != want {
			t.Fatalf("Utoa(%d) = %q, want %q", v, got, want)
		}
	}
}

// TestMix64Avalanche: distinct small inputs must spread far apart and the
// mixer must be a bijection-like mapping on samples (no collisions).
func TestMix64Avalanche(t *testing.T) {
	seen := make(map[uint64]uint64)
	for i := uint64(0); i < 100_000; i++ {
		h := Mix64(i)
		if prev, dup := seen[h]; dup {
			t.Fatalf("collision: Mix64(%d) == Mix64(%d)", i, prev)
		}
		seen[h] = i
	}
	if Mix64(1)^Mix64(2) == 0 {
		t.Fatal("adjacent inputs must not collide")
	}
}
