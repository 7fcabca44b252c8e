// group.go — per-group pair enumeration, scalar and 4-lane.
//
// Both paths evaluate every ordered pool pair (buy, sell) exactly once.
// The lane path fuses four spread computations per step and masks the
// diagonal lane (sell == buy) instead of skipping the whole batch, so its
// admission set matches the scalar path lane for lane; the only permitted
// divergence is f64 rounding within ±1 bp of the threshold.

package scanner

import (
	"main/registry"
	"main/types"
	"main/u256"
	"main/vec4"
)

// groupView is the per-cycle working set for one pair group: resolved
// entries, their f64 prices, and a usability mask.  Sized for the group
// capacity so it lives entirely on the stack.
type groupView struct {
	entries [types.MaxPoolsPerPair]*registry.Entry
	prices  [types.MaxPoolsPerPair]float64
	usable  [types.MaxPoolsPerPair]bool
	n       int
}

// load resolves a group against the registry.  Pools that are invalid or
// priceless (zero reserve0 ⇒ zero price) are masked out for this cycle
// without affecting the others.
func (v *groupView) load(reg *registry.Registry, grp *registry.PairGroup) {
	v.n = int(grp.Count)
	for i := 0; i < v.n; i++ {
		e := reg.At(grp.PoolIdx[i])
		v.entries[i] = e
		p := u256.ToFloat64(e.Price.Price)
		v.prices[i] = p
		v.usable[i] = e.Valid && p > 0
	}
}

// spreadBps converts a buy/sell price pair into basis points.
//
//go:inline
func spreadBps(buy, sell float64) int64 {
	return int64((sell - buy) / buy * types.BpsPrecision)
}

// tryEmit evaluates one directed candidate and emits it if admitted.  The
// scratch record lives on the scanner so the streaming path stays free of
// heap allocation; consumers copy what they keep.
func (s *Scanner) tryEmit(buy, sell *registry.Entry, spread int64, emit Callback) {
	if !s.cfg.AllowSameVenue && buy.Reserves.VenueID == sell.Reserves.VenueID {
		return
	}
	if s.evaluate(buy, sell, spread, &s.scratch) {
		s.oppCount++
		emit(&s.scratch)
	}
}

// scanGroup is the scalar reference path: unordered pairs, both directions.
func (s *Scanner) scanGroup(grp *registry.PairGroup, emit Callback) {
	var v groupView
	v.load(s.reg, grp)

	for a := 0; a < v.n; a++ {
		if !v.usable[a] {
			continue
		}
		for b := a + 1; b < v.n; b++ {
			if !v.usable[b] {
				continue
			}
			if d := spreadBps(v.prices[a], v.prices[b]); d >= s.cfg.MinSpreadBps {
				s.tryEmit(v.entries[a], v.entries[b], d, emit)
			}
			if d := spreadBps(v.prices[b], v.prices[a]); d >= s.cfg.MinSpreadBps {
				s.tryEmit(v.entries[b], v.entries[a], d, emit)
			}
		}
	}
}

// scanGroupLanes fuses spreads four sell candidates at a time against one
// buy pool.  Ordered pairs (a as buy, lane as sell) cover both directions
// across the outer loop.
func (s *Scanner) scanGroupLanes(grp *registry.PairGroup, emit Callback) {
	var v groupView
	v.load(s.reg, grp)

	tenK := vec4.Broadcast(types.BpsPrecision)

	for a := 0; a < v.n; a++ {
		if !v.usable[a] {
			continue
		}
		buyLanes := vec4.Broadcast(v.prices[a])

		b := 0
		for ; b+4 <= v.n; b += 4 {
			sellLanes := vec4.F64x4{v.prices[b], v.prices[b+1], v.prices[b+2], v.prices[b+3]}

			// (sell − buy)/buy · 10⁴ per lane
			bps := vec4.Mul(vec4.Div(vec4.Sub(sellLanes, buyLanes), buyLanes), tenK)

			for lane := 0; lane < 4; lane++ {
				idx := b + lane
				if idx == a || !v.usable[idx] {
					continue // mask the diagonal / dead lanes only
				}
				if d := int64(bps[lane]); d >= s.cfg.MinSpreadBps {
					s.tryEmit(v.entries[a], v.entries[idx], d, emit)
				}
			}
		}
		for ; b < v.n; b++ {
			if b == a || !v.usable[b] {
				continue
			}
			if d := spreadBps(v.prices[a], v.prices[b]); d >= s.cfg.MinSpreadBps {
				s.tryEmit(v.entries[a], v.entries[b], d, emit)
			}
		}
	}
}
