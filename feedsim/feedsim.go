// ============================================================================
// FEEDSIM: DETERMINISTIC RESERVE-UPDATE PRODUCER
// ============================================================================
//
// Stands in for the websocket ingestion layer: hashes a pool universe into
// the feed's 64-bit namespaces and emits perturbed PriceUpdate records at
// whatever rate the driver asks for.  Everything is deterministic under a
// seed so replay runs are reproducible.
//
// The generator is a producer in the SPSC sense — exactly one goroutine
// calls Next and pushes the result into a ring.

package feedsim

import (
	"errors"
	"strings"

	"golang.org/x/crypto/sha3"

	"main/poolmeta"
	"main/types"
	"main/utils"
)

// PoolSpec seeds one simulated pool.  JSON tags match the fixture files.
type PoolSpec struct {
	Address  string `json:"address"`
	Venue    uint32 `json:"venue"`
	Chain    uint32 `json:"chain"`
	Token0   string `json:"token0"`
	Token1   string `json:"token1"`
	Reserve0 uint64 `json:"reserve0"`
	Reserve1 uint64 `json:"reserve1"`
}

// ErrEmptyUniverse rejects generators with nothing to emit.
var ErrEmptyUniverse = errors.New("feedsim: empty pool universe")

// HashAddress maps a textual address into the 64-bit feed namespace via
// keccak-256 over the lowercased hex body.  Zero is reserved for invalid
// records, so a pathological zero digest remaps.
func HashAddress(addr string) uint64 {
	k := sha3.NewLegacyKeccak256()
	k.Write([]byte(strings.TrimPrefix(strings.ToLower(addr), "0x")))
	var sum [32]byte
	k.Sum(sum[:0])
	h := utils.Mix64(
		uint64(sum[0]) | uint64(sum[1])<<8 | uint64(sum[2])<<16 | uint64(sum[3])<<24 |
			uint64(sum[4])<<32 | uint64(sum[5])<<40 | uint64(sum[6])<<48 | uint64(sum[7])<<56)
	if h == 0 {
		h = 1
	}
	return h
}

// FromMeta seeds specs from pairs-database rows with synthetic starting
// reserves derived from the row id.
func FromMeta(pools []poolmeta.Pool) []PoolSpec {
	specs := make([]PoolSpec, 0, len(pools))
	for _, p := range pools {
		base := uint64(1_000_000_000_000_000_000) // 1e18 starting depth
		specs = append(specs, PoolSpec{
			Address:  p.Address,
			Venue:    p.VenueID,
			Chain:    p.ChainID,
			Token0:   p.Token0,
			Token1:   p.Token1,
			Reserve0: base + uint64(p.ID)*1_000_000_000_000,
			Reserve1: 2*base + uint64(p.ID)*1_000_000_000_000,
		})
	}
	return specs
}

// poolState is one hashed pool with drifting reserves.
type poolState struct {
	update types.PriceUpdate // template, reserves mutated per emission
}

// Generator emits a deterministic stream of reserve updates.
type Generator struct {
	pools []poolState
	rng   uint64
	nowNS uint64
	next  int
}

// NewGenerator hashes the universe and prepares the stream.  baseNS is the
// timestamp of the first emission; seed fixes the perturbation sequence.
func NewGenerator(specs []PoolSpec, seed, baseNS uint64) (*Generator, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyUniverse
	}
	g := &Generator{
		pools: make([]poolState, len(specs)),
		rng:   utils.Mix64(seed) | 1, // avalanche so near-identical seeds diverge
		nowNS: baseNS,
	}
	for i, s := range specs {
		g.pools[i].update = types.PriceUpdate{
			PoolHash: HashAddress(s.Address),
			ChainID:  s.Chain,
			VenueID:  s.Venue,
			Token0:   HashAddress(s.Token0),
			Token1:   HashAddress(s.Token1),
			Reserve0: s.Reserve0,
			Reserve1: s.Reserve1,
		}
	}
	return g, nil
}

// xorshift64* step.
//
//go:inline
func (g *Generator) rand() uint64 {
	x := g.rng
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	g.rng = x
	return x * 0x2545F4914F6CDD1D
}

// Next fills *u with the next update: round-robin pool selection with a
// bounded reserve drift (±~0.4% per emission) that keeps both sides
// non-zero.  Timestamps advance one microsecond per record.
func (g *Generator) Next(u *types.PriceUpdate) {
	p := &g.pools[g.next]
	g.next++
	if g.next == len(g.pools) {
		g.next = 0
	}

	// drift: shift value one way by up to 1/256 of each side, never to zero
	r := g.rand()
	d0 := r % (p.update.Reserve0>>8 + 1)
	d1 := g.rand() % (p.update.Reserve1>>8 + 1)
	if r&1 == 0 {
		p.update.Reserve0 += d0
		if p.update.Reserve1 > d1 {
			p.update.Reserve1 -= d1
		}
	} else {
		if p.update.Reserve0 > d0 {
			p.update.Reserve0 -= d0
		}
		p.update.Reserve1 += d1
	}

	g.nowNS += 1_000
	p.update.TimestampNS = g.nowNS
	if p.update.Reserve0 != 0 {
		ratio := float64(p.update.Reserve1) / float64(p.update.Reserve0)
		if px := ratio * float64(types.PricePrecision); px < float64(^uint64(0)) {
			p.update.Price = uint64(px)
		} else {
			p.update.Price = ^uint64(0)
		}
	}

	*u = p.update
}

// UniverseSize returns the number of simulated pools.
func (g *Generator) UniverseSize() int { return len(g.pools) }
