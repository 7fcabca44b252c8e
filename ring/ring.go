// ring.go
//
// Lock-free single-producer/single-consumer ring buffer carrying inline
// PriceUpdate payloads.  The structure separates producer and consumer
// cursors with full cache-lines to eliminate false-sharing, and each slot
// carries a sequence number so Push/Pop stay wait-free without RMW atomics.
//
// Slot protocol (capacity N, all positions monotone):
//   producer at t: seq == t      → write payload, publish seq = t+1
//   consumer at h: seq == h+1    → read payload,  publish seq = h+N
// A successful Push therefore happens-before the Pop that observes it, and
// order is FIFO across the single producer.

package ring

import (
	"sync/atomic"

	"main/types"
)

// slot couples one inline payload with its sequence stamp.  PriceUpdate is
// 64 bytes, so slots land on consecutive cache lines.
type slot struct {
	val types.PriceUpdate
	seq uint64
	_   [56]byte // keep neighbouring seq words off the same line
}

// Ring is a fixed-capacity circular buffer dedicated to one producer and
// one consumer.
type Ring struct {
	_    [64]byte // head isolated on its own cache-line
	head uint64   // consumer cursor
	_    [56]byte
	tail uint64 // producer cursor
	_    [56]byte
	mask uint64
	step uint64
	buf  []slot
	out  types.PriceUpdate // consumer-owned copy of the last popped record
}

// New allocates a ring whose size must be a power of two; otherwise it
// panics so the masking arithmetic stays valid.
func New(size int) *Ring {
	if size <= 0 || size&(size-1) != 0 {
		panic("ring: size must be >0 and a power of two")
	}
	r := &Ring{
		mask: uint64(size - 1),
		step: uint64(size),
		buf:  make([]slot, size),
	}
	for i := range r.buf {
		r.buf[i].seq = uint64(i)
	}
	return r
}

// Push enqueues a copy of *u, returning false if the buffer is full.
//
//go:nosplit
func (r *Ring) Push(u *types.PriceUpdate) bool {
	t := r.tail
	s := &r.buf[t&r.mask]
	if atomic.LoadUint64(&s.seq) != t {
		return false // consumer has not yet reclaimed the slot
	}
	s.val = *u
	atomic.StoreUint64(&s.seq, t+1)
	r.tail = t + 1
	return true
}

// Pop dequeues the next update or nil if the buffer is empty.  The returned
// pointer is valid until the consumer's next ring operation; callers that
// keep the record longer copy it out.
//
//go:nosplit
func (r *Ring) Pop() *types.PriceUpdate {
	h := r.head
	s := &r.buf[h&r.mask]
	if atomic.LoadUint64(&s.seq) != h+1 {
		return nil // producer has not yet published to the slot
	}
	r.out = s.val // move the payload out before the slot is handed back
	atomic.StoreUint64(&s.seq, h+r.step)
	r.head = h + 1
	return &r.out
}

// PopWait busy-spins until an update becomes available.
func (r *Ring) PopWait() *types.PriceUpdate {
	for {
		if p := r.Pop(); p != nil {
			return p
		}
		cpuRelax()
	}
}
