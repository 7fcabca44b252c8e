// ============================================================================
// SCANNER: CROSS-VENUE OPPORTUNITY ENUMERATION
// ============================================================================
//
// Walks every token-pair group with two or more valid pools, evaluates both
// trade directions per pool pair, sizes the trade that maximises round-trip
// profit under the 30-bps fee, and ranks the survivors.
//
// The scanner is single-threaded cooperative: it owns its registry for the
// duration of a cycle and never yields internally.  It also never fails —
// empty groups, priceless pools and degenerate arithmetic all reduce to
// "no opportunity from this pool this cycle".
//
// Allocation policy: Scan allocates exactly the output slice; the
// streaming walk and Best allocate nothing.

package scanner

import (
	"sort"
	"time"

	"main/pricing"
	"main/registry"
	"main/types"
	"main/u256"
)

// Callback receives one admitted opportunity.  The pointee is reused
// between invocations: copy it to keep it.  Callbacks must not re-enter
// the scanner.
type Callback func(*types.ArbitrageOpportunity)

// Scanner owns a registry and a scan configuration.
type Scanner struct {
	reg *registry.Registry
	cfg types.ScannerConfig

	scanCount  uint64
	oppCount   uint64
	lastScanNS uint64

	scratch types.ArbitrageOpportunity // reused emission record
}

// New returns a scanner over an empty registry.
func New(cfg types.ScannerConfig) *Scanner {
	return &Scanner{
		reg: registry.New(),
		cfg: cfg,
	}
}

// UpdatePool stores a snapshot grouped under pair.  Returns false on a
// capacity drop.
func (s *Scanner) UpdatePool(reserves *types.PoolReserves, pair types.TokenPair) bool {
	return s.reg.Update(reserves, pair)
}

// ApplyUpdate promotes one ring record into the registry.  Zero PoolHash
// records are reserved and ignored.  The low word of the pool hash
// identifies the pool inside its venue namespace.
func (s *Scanner) ApplyUpdate(u *types.PriceUpdate) bool {
	if u.PoolHash == 0 {
		return false
	}
	res := types.PoolReserves{
		Reserve0:    u256.New(u.Reserve0),
		Reserve1:    u256.New(u.Reserve1),
		TimestampMS: u.TimestampNS / 1_000_000,
		PoolID:      uint32(u.PoolHash),
		VenueID:     u.VenueID,
		Decimals0:   18,
		Decimals1:   18,
	}
	return s.reg.Update(&res, types.NewTokenPair(u.Token0, u.Token1))
}

// Scan enumerates all admitted opportunities, sorted by estimated profit
// descending (ties: spread, then timestamp, both descending).
func (s *Scanner) Scan() []types.ArbitrageOpportunity {
	var out []types.ArbitrageOpportunity
	s.walk(func(o *types.ArbitrageOpportunity) {
		out = append(out, *o)
	})

	sort.Slice(out, func(i, j int) bool {
		if c := u256.Cmp(out[i].EstimatedProfit, out[j].EstimatedProfit); c != 0 {
			return c > 0
		}
		if out[i].SpreadBps != out[j].SpreadBps {
			return out[i].SpreadBps > out[j].SpreadBps
		}
		return out[i].TimestampMS > out[j].TimestampMS
	})
	return out
}

// ScanStreaming invokes fn per admitted opportunity, unordered, without
// heap allocation.  Returns the number emitted.
func (s *Scanner) ScanStreaming(fn Callback) int {
	before := s.oppCount
	s.walk(fn)
	return int(s.oppCount - before)
}

// Best returns the single highest-ranked opportunity without building the
// output vector.
func (s *Scanner) Best() (types.ArbitrageOpportunity, bool) {
	var best types.ArbitrageOpportunity
	found := false
	s.walk(func(o *types.ArbitrageOpportunity) {
		if !found || betterThan(o, &best) {
			best = *o
			found = true
		}
	})
	return best, found
}

// betterThan orders by the Scan sort key.
//
//go:inline
func betterThan(a, b *types.ArbitrageOpportunity) bool {
	if c := u256.Cmp(a.EstimatedProfit, b.EstimatedProfit); c != 0 {
		return c > 0
	}
	if a.SpreadBps != b.SpreadBps {
		return a.SpreadBps > b.SpreadBps
	}
	return a.TimestampMS > b.TimestampMS
}

// walk runs one full enumeration cycle and maintains the counters.
func (s *Scanner) walk(emit Callback) {
	start := time.Now()

	for g := 0; g < s.reg.PairCount(); g++ {
		grp := s.reg.Group(g)
		if grp.Count < 2 {
			continue
		}
		if grp.Count >= 4 {
			s.scanGroupLanes(grp, emit)
		} else {
			s.scanGroup(grp, emit)
		}
	}

	s.scanCount++
	s.lastScanNS = uint64(time.Since(start).Nanoseconds())
}

// ─── Config & counters ──────────────────────────────────────────────────────

// SetConfig replaces the scan configuration.
func (s *Scanner) SetConfig(cfg types.ScannerConfig) { s.cfg = cfg }

// Config returns the active configuration.
func (s *Scanner) Config() types.ScannerConfig { return s.cfg }

// Clear resets the underlying registry.
func (s *Scanner) Clear() { s.reg.Clear() }

// PoolCount returns the number of registered pools.
func (s *Scanner) PoolCount() int { return s.reg.PoolCount() }

// Registry exposes the underlying table for collaborators that read pool
// state directly (cycle search, diagnostics).
func (s *Scanner) Registry() *registry.Registry { return s.reg }

// ScanCount returns the number of completed enumeration cycles.
func (s *Scanner) ScanCount() uint64 { return s.scanCount }

// OpportunityCount returns the cumulative number of admitted opportunities.
func (s *Scanner) OpportunityCount() uint64 { return s.oppCount }

// LastScanNanos returns the wall time of the most recent cycle.
func (s *Scanner) LastScanNanos() uint64 { return s.lastScanNS }

// admit applies the post-sizing filters: positive profit and position cap.
//
//go:inline
func (s *Scanner) admit(o *types.ArbitrageOpportunity) bool {
	if o.EstimatedProfit.IsZero() {
		return false
	}
	return u256.Cmp(o.MaxAmount, s.cfg.MaxPositionSize) <= 0
}

// evaluate sizes and fills one directed (buy, sell) candidate whose spread
// already cleared the threshold.  Returns false when the candidate fails
// admission.
func (s *Scanner) evaluate(buy, sell *registry.Entry, spread int64, o *types.ArbitrageOpportunity) bool {
	o.BuyPoolID = buy.Reserves.PoolID
	o.BuyVenueID = buy.Reserves.VenueID
	o.SellPoolID = sell.Reserves.PoolID
	o.SellVenueID = sell.Reserves.VenueID
	o.BuyPrice = buy.Price.Price
	o.SellPrice = sell.Price.Price
	o.SpreadBps = spread
	o.TimestampMS = buy.Reserves.TimestampMS
	if sell.Reserves.TimestampMS > o.TimestampMS {
		o.TimestampMS = sell.Reserves.TimestampMS
	}

	o.MaxAmount = pricing.OptimalTradeSize(
		buy.Reserves.Reserve0, buy.Reserves.Reserve1,
		sell.Reserves.Reserve0, sell.Reserves.Reserve1,
	)
	o.EstimatedProfit = pricing.ArbitrageProfit(&buy.Reserves, &sell.Reserves, o.MaxAmount)

	return s.admit(o)
}
