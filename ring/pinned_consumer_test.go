package ring

import (
	"sync/atomic"
	"testing"
	"time"

	"main/types"
)

// TestPinnedConsumerDrainsAndStops pushes a batch through a pinned
// consumer, checks every element is delivered in order, then verifies the
// stop flag terminates the goroutine and closes done.
func TestPinnedConsumerDrainsAndStops(t *testing.T) {
	const n = 4096
	r := New(1 << 12)

	var stop, hot uint32
	var delivered atomic.Uint64
	var ordered atomic.Bool
	ordered.Store(true)

	done := make(chan struct{})
	next := uint64(0)
	PinnedConsumer(0, r, &stop, &hot, func(u *types.PriceUpdate) {
		if u.TimestampNS != next {
			ordered.Store(false)
		}
		next++
		delivered.Add(1)
	}, done)

	atomic.StoreUint32(&hot, 1)
	for i := uint64(0); i < n; i++ {
		u := upd(i)
		for !r.Push(&u) {
			time.Sleep(time.Microsecond)
		}
	}

	deadline := time.After(5 * time.Second)
	for delivered.Load() < n {
		select {
		case <-deadline:
			t.Fatalf("only %d/%d delivered", delivered.Load(), n)
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if !ordered.Load() {
		t.Fatal("updates delivered out of order")
	}

	atomic.StoreUint32(&stop, 1)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
