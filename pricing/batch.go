// batch.go — fixed-capacity batched price calculator.
//
// Accumulates up to BatchCapacity snapshots and prices them in one pass.
// Storage is a flat resident array: no allocation after construction, and
// exceeding capacity is a silent drop signalled by the boolean return.

package pricing

import "main/types"

// BatchCalculator accumulates pool snapshots for batched pricing.
type BatchCalculator struct {
	pools [types.BatchCapacity]types.PoolReserves
	count int
}

// NewBatchCalculator returns an empty calculator.
func NewBatchCalculator() *BatchCalculator {
	return &BatchCalculator{}
}

// AddPool appends a snapshot, returning false when the batch is full.
func (b *BatchCalculator) AddPool(reserves *types.PoolReserves) bool {
	if b.count >= types.BatchCapacity {
		return false
	}
	b.pools[b.count] = *reserves
	b.count++
	return true
}

// Process prices every accumulated snapshot into out and returns the
// number written (bounded by len(out)).
func (b *BatchCalculator) Process(out []types.PriceResult) int {
	return CalculatePricesBatch(b.pools[:b.count], out)
}

// Clear drops all accumulated snapshots.
func (b *BatchCalculator) Clear() {
	b.count = 0
}

// PoolCount returns the number of accumulated snapshots.
func (b *BatchCalculator) PoolCount() int {
	return b.count
}
