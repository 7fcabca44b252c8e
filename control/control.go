// control.go — global hot/stop flags for the scan loop and feed producers.
//
// Lightweight signalling shared between the update producers and the
// pinned scan loop: producers mark the feed hot when updates flow, the
// loop polls the flags without locks, and Shutdown broadcasts termination.
// One writer per flag transition, any number of polling readers.

package control

import "time"

var (
	hot  uint32 // 1 = updates flowing, keep the consumer hot-spinning
	stop uint32 // 1 = drain and exit

	lastHot    int64                    // ns timestamp of last producer activity
	cooldownNs = int64(1 * time.Second) // idle period before hot clears
)

// SignalActivity marks the feed as active.  Called by producers on every
// pushed batch.
//
//go:nosplit
//go:inline
func SignalActivity() {
	hot = 1
	lastHot = time.Now().UnixNano()
}

// PollCooldown clears the hot flag once the feed has been idle past the
// cooldown.  Polled inline from the scan loop.
//
//go:nosplit
//go:inline
func PollCooldown() {
	if hot == 1 && time.Now().UnixNano()-lastHot > cooldownNs {
		hot = 0
	}
}

// Shutdown requests termination; the scan loop observes the flag at its
// next empty poll.
//
//go:nosplit
//go:inline
func Shutdown() {
	stop = 1
}

// Flags returns the (stop, hot) flag pointers for zero-allocation polling
// by pinned consumers.  Both stay valid for the process lifetime.
//
//go:nosplit
//go:inline
func Flags() (*uint32, *uint32) {
	return &stop, &hot
}
