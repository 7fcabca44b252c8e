// ============================================================================
// GRAPH: TOKEN→POOL ADJACENCY FOR CYCLE SEARCH
// ============================================================================
//
// Integer-keyed adjacency over the registry's token-pair groups.  Nodes
// hold neighbour token ids and the registry indices of pools touching the
// edge; pool state is always resolved through the registry at evaluation
// time — the graph carries no back-pointers into pool storage.
//
// The graph is rebuilt from the registry between cycles; it is a read-side
// structure owned by the scanner thread.

package graph

import (
	"main/registry"
	"main/u256"
)

// edge is one token→token adjacency with the pools that serve it.
type edge struct {
	to    uint64
	pools []int32 // registry indices, insertion order
}

// node is one token with its outgoing edges, insertion-ordered so searches
// stay deterministic.
type node struct {
	edges []edge
}

// Graph is the token adjacency over one registry snapshot.
type Graph struct {
	reg   *registry.Registry
	nodes map[uint64]*node
}

// Build assembles the adjacency from every grouped pool in reg.
func Build(reg *registry.Registry) *Graph {
	g := &Graph{
		reg:   reg,
		nodes: make(map[uint64]*node),
	}
	for i := 0; i < reg.PairCount(); i++ {
		grp := reg.Group(i)
		for j := int32(0); j < grp.Count; j++ {
			idx := grp.PoolIdx[j]
			if !reg.At(idx).Valid {
				continue
			}
			g.addEdge(grp.Pair.Token0, grp.Pair.Token1, idx)
			g.addEdge(grp.Pair.Token1, grp.Pair.Token0, idx)
		}
	}
	return g
}

func (g *Graph) addEdge(from, to uint64, poolIdx int32) {
	n := g.nodes[from]
	if n == nil {
		n = &node{}
		g.nodes[from] = n
	}
	for i := range n.edges {
		if n.edges[i].to == to {
			n.edges[i].pools = append(n.edges[i].pools, poolIdx)
			return
		}
	}
	n.edges = append(n.edges, edge{to: to, pools: []int32{poolIdx}})
}

// TokenCount returns the number of tokens with at least one edge.
func (g *Graph) TokenCount() int { return len(g.nodes) }

// neighbors returns the edge list for a token, nil when unknown.
func (g *Graph) neighbors(token uint64) []edge {
	if n := g.nodes[token]; n != nil {
		return n.edges
	}
	return nil
}

// deepestPool picks the serving pool with the largest input-side reserve.
// One pool per hop keeps enumeration linear in the neighbourhood size; the
// deepest pool is the one a sized trade would route through anyway.
func (g *Graph) deepestPool(e *edge, tokenIn uint64) (int32, bool) {
	bestIdx := int32(-1)
	var bestDepth u256.U256
	for _, idx := range e.pools {
		ent := g.reg.At(idx)
		if !ent.Valid {
			continue
		}
		depth := ent.Reserves.Reserve0
		if tokenIn != ent.Pair.Token0 {
			depth = ent.Reserves.Reserve1
		}
		if bestIdx < 0 || u256.Cmp(depth, bestDepth) > 0 {
			bestIdx = idx
			bestDepth = depth
		}
	}
	return bestIdx, bestIdx >= 0
}
