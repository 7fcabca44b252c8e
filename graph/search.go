// search.go — triangular and 4-hop cycle enumeration with per-path sizing.
//
// Triangular: fix base, walk base→A→B→base where every leg has an edge.
// 4-hop: extend by one more neighbour under a visited set; returning to
// base is allowed (and required) only at the final hop.  Each recorded
// path is sized by a monotone bracket search over the simulated route.

package graph

import (
	"sort"

	"main/pricing"
	"main/u256"
)

// MaxHops bounds a cycle path.
const MaxHops = 4

// Hop is one leg of a cycle: which pool, which way through it.
type Hop struct {
	PoolIdx  int32
	TokenIn  uint64
	TokenOut uint64
	Reversed bool // trade token1→token0 through the pool
}

// CyclePath is one closed route with its sized result.
type CyclePath struct {
	Hops   [MaxHops]Hop
	Len    uint8
	Input  u256.U256 // bracket-optimal input
	Output u256.U256 // simulated final amount
	Profit u256.U256 // Output − Input, clamped at zero
}

// hop builds the leg crossing e from tokenIn, or false when no valid pool
// serves it.
func (g *Graph) hop(e *edge, tokenIn uint64) (Hop, bool) {
	idx, ok := g.deepestPool(e, tokenIn)
	if !ok {
		return Hop{}, false
	}
	ent := g.reg.At(idx)
	return Hop{
		PoolIdx:  idx,
		TokenIn:  tokenIn,
		TokenOut: e.to,
		Reversed: tokenIn != ent.Pair.Token0,
	}, true
}

// SimulatePath composes the per-hop swap outputs for a given input.
func (g *Graph) SimulatePath(hops []Hop, input u256.U256) u256.U256 {
	amount := input
	for i := range hops {
		ent := g.reg.At(hops[i].PoolIdx)
		rIn, rOut := ent.Reserves.Reserve0, ent.Reserves.Reserve1
		if hops[i].Reversed {
			rIn, rOut = rOut, rIn
		}
		amount = pricing.SwapOutput(rIn, rOut, amount)
		if amount.IsZero() {
			return u256.Zero
		}
	}
	return amount
}

// pathProfit returns simulate(input) − input clamped at zero.
func (g *Graph) pathProfit(hops []Hop, input u256.U256) u256.U256 {
	out := g.SimulatePath(hops, input)
	if u256.Cmp(out, input) > 0 {
		return u256.Sub(out, input)
	}
	return u256.Zero
}

// OptimizeAmount brackets the profit-maximising input over [1, maxInput].
// Round-trip profit is unimodal in the input for constant-product hops, so
// a ternary shrink converges; 64-bit inputs cover the ring's reserve range.
func (g *Graph) OptimizeAmount(hops []Hop, maxInput uint64) u256.U256 {
	if maxInput == 0 {
		return u256.Zero
	}
	lo, hi := uint64(0), maxInput
	for hi-lo > 2 {
		third := (hi - lo) / 3
		m1 := lo + third
		m2 := hi - third
		p1 := g.pathProfit(hops, u256.New(m1))
		p2 := g.pathProfit(hops, u256.New(m2))
		if u256.Cmp(p1, p2) < 0 {
			lo = m1
		} else {
			hi = m2
		}
	}

	best := u256.Zero
	bestProfit := u256.Zero
	for x := lo; x <= hi; x++ {
		p := g.pathProfit(hops, u256.New(x))
		if u256.Cmp(p, bestProfit) > 0 {
			best = u256.New(x)
			bestProfit = p
		}
	}
	return best
}

// sizePath fills Input/Output/Profit for an assembled route.  The input is
// capped by the first hop's input-side reserve.
func (g *Graph) sizePath(p *CyclePath) {
	first := g.reg.At(p.Hops[0].PoolIdx)
	cap64 := first.Reserves.Reserve0.Low64()
	if p.Hops[0].Reversed {
		cap64 = first.Reserves.Reserve1.Low64()
	}

	p.Input = g.OptimizeAmount(p.Hops[:p.Len], cap64)
	p.Output = g.SimulatePath(p.Hops[:p.Len], p.Input)
	if u256.Cmp(p.Output, p.Input) > 0 {
		p.Profit = u256.Sub(p.Output, p.Input)
	} else {
		p.Profit = u256.Zero
	}
}

// Triangular enumerates profitable 3-hop cycles anchored at base, sorted
// by profit descending.
func (g *Graph) Triangular(base uint64) []CyclePath {
	var out []CyclePath

	for _, ea := range g.neighbors(base) {
		a := ea.to
		if a == base {
			continue
		}
		h0, ok := g.hop(&ea, base)
		if !ok {
			continue
		}
		for _, eb := range g.neighbors(a) {
			b := eb.to
			if b == base || b == a {
				continue
			}
			h1, ok := g.hop(&eb, a)
			if !ok {
				continue
			}
			closing, ok := g.edgeTo(b, base)
			if !ok {
				continue
			}
			h2, ok := g.hop(closing, b)
			if !ok {
				continue
			}

			p := CyclePath{Len: 3}
			p.Hops[0], p.Hops[1], p.Hops[2] = h0, h1, h2
			g.sizePath(&p)
			if !p.Profit.IsZero() {
				out = append(out, p)
			}
		}
	}

	sortByProfit(out)
	return out
}

// FourHop enumerates profitable 4-hop cycles anchored at base, sorted by
// profit descending.  The visited set blocks repeats; only the final hop
// may return to base.
func (g *Graph) FourHop(base uint64) []CyclePath {
	var out []CyclePath

	for _, ea := range g.neighbors(base) {
		a := ea.to
		if a == base {
			continue
		}
		h0, ok := g.hop(&ea, base)
		if !ok {
			continue
		}
		for _, eb := range g.neighbors(a) {
			b := eb.to
			if b == base || b == a {
				continue
			}
			h1, ok := g.hop(&eb, a)
			if !ok {
				continue
			}
			for _, ec := range g.neighbors(b) {
				c := ec.to
				if c == base || c == a || c == b {
					continue
				}
				h2, ok := g.hop(&ec, b)
				if !ok {
					continue
				}
				closing, ok := g.edgeTo(c, base)
				if !ok {
					continue
				}
				h3, ok := g.hop(closing, c)
				if !ok {
					continue
				}

				p := CyclePath{Len: 4}
				p.Hops[0], p.Hops[1], p.Hops[2], p.Hops[3] = h0, h1, h2, h3
				g.sizePath(&p)
				if !p.Profit.IsZero() {
					out = append(out, p)
				}
			}
		}
	}

	sortByProfit(out)
	return out
}

// edgeTo finds the directed edge from→to.
func (g *Graph) edgeTo(from, to uint64) (*edge, bool) {
	n := g.nodes[from]
	if n == nil {
		return nil, false
	}
	for i := range n.edges {
		if n.edges[i].to == to {
			return &n.edges[i], true
		}
	}
	return nil, false
}

func sortByProfit(paths []CyclePath) {
	sort.Slice(paths, func(i, j int) bool {
		return u256.Cmp(paths[i].Profit, paths[j].Profit) > 0
	})
}
