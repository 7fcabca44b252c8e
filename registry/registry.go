// ============================================================================
// REGISTRY: FIXED-CAPACITY POOL STATE TABLE
// ============================================================================
//
// Flat array of pool entries keyed by (venue, pool), with token-pair
// groupings for the scanner.  The registry is owned by exactly one consumer
// thread: updates are plain stores, lookups are linear scans over the
// occupied prefix of one flat array, with no pointer chasing on the hot
// update path.
//
// Entries are created on first observation and updated in place forever
// after; Clear is the only way to forget a pool.  Every capacity miss is a
// silent drop signalled through the boolean return.

package registry

import (
	"main/pricing"
	"main/types"
)

// Entry is one registered pool: last snapshot, cached price, pair identity.
type Entry struct {
	Reserves types.PoolReserves
	Price    types.PriceResult
	Pair     types.TokenPair
	Valid    bool
	_        [7]byte
}

// PairGroup lists the registry indices of pools trading one token pair.
type PairGroup struct {
	Pair    types.TokenPair
	Count   int32
	_       [4]byte
	PoolIdx [types.MaxPoolsPerPair]int32
}

// Registry is the resident pool table.  Zero value unusable; use New.
type Registry struct {
	pools     []Entry
	groups    []PairGroup
	poolCount int
	pairCount int
}

// New returns an empty registry with full resident capacity.
func New() *Registry {
	return &Registry{
		pools:  make([]Entry, types.MaxPools),
		groups: make([]PairGroup, types.MaxPairs),
	}
}

// find returns the index of (venue, pool) in the occupied prefix, or −1.
//
//go:inline
func (r *Registry) find(venueID, poolID uint32) int {
	for i := 0; i < r.poolCount; i++ {
		e := &r.pools[i]
		if e.Reserves.PoolID == poolID && e.Reserves.VenueID == venueID {
			return i
		}
	}
	return -1
}

// Update stores a snapshot under its (venue, pool) key, recomputes the
// cached price, and files the pool under the token-pair group for pair.
// Returns false when a new pool or a new group would exceed capacity.  A
// full pool table drops the snapshot entirely.  A full group or a full pair
// table leaves the pool stored and priced but unfiled, so group
// enumeration does not see it.
func (r *Registry) Update(reserves *types.PoolReserves, pair types.TokenPair) bool {
	idx := r.find(reserves.VenueID, reserves.PoolID)
	if idx < 0 {
		if r.poolCount >= types.MaxPools {
			return false // table full; drop
		}
		idx = r.poolCount
		r.poolCount++
	}

	e := &r.pools[idx]
	e.Reserves = *reserves
	e.Pair = pair
	e.Valid = true
	e.Price = pricing.CalculatePrice(&e.Reserves)

	return r.fileUnderPair(int32(idx), pair)
}

// fileUnderPair ensures pools[idx] is listed exactly once in pair's group.
func (r *Registry) fileUnderPair(idx int32, pair types.TokenPair) bool {
	for g := 0; g < r.pairCount; g++ {
		grp := &r.groups[g]
		if grp.Pair != pair {
			continue
		}
		for j := int32(0); j < grp.Count; j++ {
			if grp.PoolIdx[j] == idx {
				return true // already filed
			}
		}
		if grp.Count >= types.MaxPoolsPerPair {
			return false // group full; pool stays unfiled
		}
		grp.PoolIdx[grp.Count] = idx
		grp.Count++
		return true
	}

	if r.pairCount >= types.MaxPairs {
		return false // pair table full
	}
	grp := &r.groups[r.pairCount]
	r.pairCount++
	grp.Pair = pair
	grp.Count = 1
	grp.PoolIdx[0] = idx
	return true
}

// Get returns the entry registered under (venue, pool).
func (r *Registry) Get(venueID, poolID uint32) (*Entry, bool) {
	if idx := r.find(venueID, poolID); idx >= 0 {
		return &r.pools[idx], true
	}
	return nil, false
}

// GetPrice returns the cached price for (venue, pool).
func (r *Registry) GetPrice(venueID, poolID uint32) (types.PriceResult, bool) {
	if e, ok := r.Get(venueID, poolID); ok {
		return e.Price, true
	}
	return types.PriceResult{}, false
}

// Clear resets counts and zeroes storage.
func (r *Registry) Clear() {
	for i := 0; i < r.poolCount; i++ {
		r.pools[i] = Entry{}
	}
	for g := 0; g < r.pairCount; g++ {
		r.groups[g] = PairGroup{}
	}
	r.poolCount = 0
	r.pairCount = 0
}

// PoolCount returns the exact number of registered pools.
func (r *Registry) PoolCount() int { return r.poolCount }

// PairCount returns the number of token-pair groups.
func (r *Registry) PairCount() int { return r.pairCount }

// Group exposes group g for the scanner's enumeration.
func (r *Registry) Group(g int) *PairGroup { return &r.groups[g] }

// At exposes the entry at a group-listed index.
func (r *Registry) At(idx int32) *Entry { return &r.pools[idx] }
