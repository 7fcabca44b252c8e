// ============================================================================
// HOTPATH: STABLE BINDING SURFACE
// ============================================================================
//
// Handle-based facade consumed by the foreign-language shim.  Everything
// here is noexcept-equivalent: nil pointers and dead handles are
// recoverable no-ops reported through numeric codes, and nothing panics
// across the surface.
//
// Handles issued by the create calls stay valid until the matching
// destroy.  The handle table sits behind a mutex — creation and teardown
// are cold; per-call lookups are a single map read under the same lock,
// far off the scan hot path, which runs entirely inside the scanner once
// the handle resolves.

package hotpath

import (
	"sync"

	"main/pricing"
	"main/scanner"
	"main/types"
	"main/u256"
	"main/vec4"
)

// LibVersion is the binding-surface version string.
const LibVersion = "0.1.0"

const (
	// OK reports success on int32-returning calls.
	OK int32 = 0
	// ErrNullArg reports a nil pointer or dead handle.
	ErrNullArg int32 = -1
)

// Handle is an opaque reference issued by the create calls.  Zero is never
// a live handle.
type Handle uint64

type handleTable struct {
	mu       sync.Mutex
	next     Handle
	scanners map[Handle]*scanner.Scanner
	batches  map[Handle]*pricing.BatchCalculator
}

var table = handleTable{
	next:     1,
	scanners: make(map[Handle]*scanner.Scanner),
	batches:  make(map[Handle]*pricing.BatchCalculator),
}

// ─── Stateless calculator calls ─────────────────────────────────────────────

// CalculatePrice fills *out from *reserves.  Returns ErrNullArg on nil.
func CalculatePrice(reserves *types.PoolReserves, out *types.PriceResult) int32 {
	if reserves == nil || out == nil {
		return ErrNullArg
	}
	*out = pricing.CalculatePrice(reserves)
	return OK
}

// CalculatePricesBatch prices reserves into out and returns the number
// written; nil slices write nothing.
func CalculatePricesBatch(reserves []types.PoolReserves, out []types.PriceResult) int {
	if reserves == nil || out == nil {
		return 0
	}
	return pricing.CalculatePricesBatch(reserves, out)
}

// CalculateSwapOutput fills *out with the constant-product swap result.
func CalculateSwapOutput(reserveIn, reserveOut, amountIn, out *u256.U256) int32 {
	if reserveIn == nil || reserveOut == nil || amountIn == nil || out == nil {
		return ErrNullArg
	}
	*out = pricing.SwapOutput(*reserveIn, *reserveOut, *amountIn)
	return OK
}

// CalculateSlippageBps returns slippage in bps, zero on invalid input.
func CalculateSlippageBps(reserveIn, reserveOut, amountIn *u256.U256) int64 {
	if reserveIn == nil || reserveOut == nil || amountIn == nil {
		return 0
	}
	return pricing.SlippageBps(*reserveIn, *reserveOut, *amountIn)
}

// ─── Batch calculator handles ───────────────────────────────────────────────

// BatchCalculatorCreate returns a new batch-calculator handle.
func BatchCalculatorCreate() Handle {
	table.mu.Lock()
	defer table.mu.Unlock()
	h := table.next
	table.next++
	table.batches[h] = pricing.NewBatchCalculator()
	return h
}

// BatchCalculatorDestroy releases a handle.  Dead or zero handles are
// no-ops.
func BatchCalculatorDestroy(h Handle) {
	table.mu.Lock()
	defer table.mu.Unlock()
	delete(table.batches, h)
}

func batchFor(h Handle) *pricing.BatchCalculator {
	table.mu.Lock()
	defer table.mu.Unlock()
	return table.batches[h]
}

// BatchCalculatorAddPool returns 1 when accepted, 0 when rejected (full
// batch, dead handle, or nil reserves).
func BatchCalculatorAddPool(h Handle, reserves *types.PoolReserves) int32 {
	b := batchFor(h)
	if b == nil || reserves == nil {
		return 0
	}
	if b.AddPool(reserves) {
		return 1
	}
	return 0
}

// BatchCalculatorProcess prices the accumulated pools into out and returns
// the number written.
func BatchCalculatorProcess(h Handle, out []types.PriceResult) int {
	b := batchFor(h)
	if b == nil || out == nil {
		return 0
	}
	return b.Process(out)
}

// BatchCalculatorClear drops accumulated pools.  Dead handles are no-ops.
func BatchCalculatorClear(h Handle) {
	if b := batchFor(h); b != nil {
		b.Clear()
	}
}

// BatchCalculatorPoolCount returns the accumulated pool count, zero for
// dead handles.
func BatchCalculatorPoolCount(h Handle) int {
	if b := batchFor(h); b != nil {
		return b.PoolCount()
	}
	return 0
}

// ─── Scanner handles ────────────────────────────────────────────────────────

// ScannerCreate returns a new scanner handle.  A nil config selects the
// defaults.
func ScannerCreate(cfg *types.ScannerConfig) Handle {
	c := types.DefaultScannerConfig()
	if cfg != nil {
		c = *cfg
	}
	table.mu.Lock()
	defer table.mu.Unlock()
	h := table.next
	table.next++
	table.scanners[h] = scanner.New(c)
	return h
}

// ScannerDestroy releases a handle.  Dead or zero handles are no-ops.
func ScannerDestroy(h Handle) {
	table.mu.Lock()
	defer table.mu.Unlock()
	delete(table.scanners, h)
}

func scannerFor(h Handle) *scanner.Scanner {
	table.mu.Lock()
	defer table.mu.Unlock()
	return table.scanners[h]
}

// ScannerUpdatePool stores one snapshot grouped under the (token0, token1)
// pair.  Returns ErrNullArg for dead handles or nil reserves.
func ScannerUpdatePool(h Handle, reserves *types.PoolReserves, token0, token1 uint64) int32 {
	s := scannerFor(h)
	if s == nil || reserves == nil {
		return ErrNullArg
	}
	s.UpdatePool(reserves, types.NewTokenPair(token0, token1))
	return OK
}

// ScannerScan copies up to len(out) ranked opportunities into out and
// returns the count.
func ScannerScan(h Handle, out []types.ArbitrageOpportunity) int {
	s := scannerFor(h)
	if s == nil || out == nil {
		return 0
	}
	found := s.Scan()
	n := copy(out, found)
	return n
}

// ScannerGetBest fills *out with the single best opportunity.  Returns 1
// when found, 0 otherwise.
func ScannerGetBest(h Handle, out *types.ArbitrageOpportunity) int32 {
	s := scannerFor(h)
	if s == nil || out == nil {
		return 0
	}
	best, ok := s.Best()
	if !ok {
		return 0
	}
	*out = best
	return 1
}

// ScannerClear resets the scanner's registry.  Dead handles are no-ops.
func ScannerClear(h Handle) {
	if s := scannerFor(h); s != nil {
		s.Clear()
	}
}

// ScannerPoolCount returns the registered pool count, zero for dead
// handles.
func ScannerPoolCount(h Handle) int {
	if s := scannerFor(h); s != nil {
		return s.PoolCount()
	}
	return 0
}

// ScannerSetConfig replaces a scanner's configuration.
func ScannerSetConfig(h Handle, cfg *types.ScannerConfig) int32 {
	s := scannerFor(h)
	if s == nil || cfg == nil {
		return ErrNullArg
	}
	s.SetConfig(*cfg)
	return OK
}

// ─── Probes & version ───────────────────────────────────────────────────────

// HasAVX2 reports the advisory AVX2 probe as 1/0.
func HasAVX2() int32 {
	if vec4.HasAVX2() {
		return 1
	}
	return 0
}

// HasAVX512 reports the advisory AVX-512 probe as 1/0.
func HasAVX512() int32 {
	if vec4.HasAVX512() {
		return 1
	}
	return 0
}

// Version returns the binding-surface version.
func Version() string { return LibVersion }
