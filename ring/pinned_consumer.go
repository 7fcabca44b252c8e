// pinned_consumer.go
//
// Low-latency SPSC consumer.
//
//   • Dedicated OS thread pinned to `core`.
//   • Stays in hot-spin (tight loop, no cpuRelax) while
//       – new work has arrived within hotTimeout, OR
//       – producer keeps the hot flag == 1.
//   • After the grace window and once hot == 0 it drops to the cold-spin
//     path: cpuRelax every iteration.
//   • Exits only when *stop == 1 and closes `done` exactly once.
//
// Rationale: keep nanosecond latency during update bursts yet avoid burning
// a core's power budget when the feed is quiet.
//
// All cross-goroutine variables are accessed atomically; no other
// synchronisation primitives appear in the hot path.

package ring

import (
	"runtime"
	"sync/atomic"
	"time"

	"main/types"
)

const (
	spinBudget = 256              // period of the cold-path miss counter
	hotTimeout = 15 * time.Second // hot-spin grace
)

// PinnedConsumer drains r through fn until *stop is set.
func PinnedConsumer(
	core int,
	r *Ring,
	stop, hot *uint32,
	fn func(*types.PriceUpdate),
	done chan<- struct{},
) {
	go func() {
		runtime.LockOSThread()
		setAffinity(core) // stub on non-Linux
		defer func() {
			runtime.UnlockOSThread()
			if done != nil {
				close(done)
			}
		}()

		last := time.Now() // last time Pop delivered
		miss := 0

		for {
			if p := r.Pop(); p != nil {
				fn(p)
				last, miss = time.Now(), 0
				continue
			}

			if atomic.LoadUint32(stop) != 0 {
				return
			}

			hotSpin := atomic.LoadUint32(hot) != 0 ||
				time.Since(last) <= hotTimeout
			if hotSpin {
				continue
			}

			if miss++; miss >= spinBudget {
				miss = 0
			}
			cpuRelax()
		}
	}()
}
