// ════════════════════════════════════════════════════════════════════════════════════════════════
// Cross-Venue Arbitrage Detector - Replay Driver
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Entry Point & Engine Assembly
//
// Description:
//   Assembles the detector core and drives it from a deterministic feed:
//   Universe load → Engine wiring → Producer / pinned scan loop → Summary
//
//   The core itself performs no I/O; this driver owns the collaborator
//   duties — pool metadata, feed simulation, and cold-path reporting.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"unsafe"

	"main/arena"
	"main/control"
	"main/debug"
	"main/feedsim"
	"main/poolmeta"
	"main/ring"
	"main/scanner"
	"main/types"
	"main/u256"
	"main/utils"
)

const (
	metaPath    = "uniswap_pools.db"
	fixturePath = "pools.json"

	// drain bound per cycle: keeps scan latency bounded under bursts
	maxDrainPerCycle = 4096

	// report cadence in completed scan cycles
	reportEvery = 1 << 16
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// MAIN ORCHESTRATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func main() {
	// PHASE 0: pool universe
	specs := loadUniverse()
	debug.DropMessage("INIT", utils.Itoa(len(specs))+" pools in universe")

	gen, err := feedsim.NewGenerator(specs, 0x9E3779B185EBCA87, 1)
	if err != nil {
		debug.DropError("INIT", err)
		os.Exit(1)
	}

	// PHASE 1: engine assembly
	updates := ring.New(types.RingSize)
	scan := scanner.New(types.DefaultScannerConfig())
	scratch := arena.New(0) // per-cycle report scratch

	stop, _ := control.Flags()
	done := make(chan struct{})
	go scanLoop(updates, scan, scratch, stop, done)

	// PHASE 2: feed production
	go produce(gen, updates, stop)

	// PHASE 3: run until interrupted
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	control.Shutdown()
	<-done

	debug.DropMessage("DONE",
		utils.Utoa(scan.ScanCount())+" cycles, "+
			utils.Utoa(scan.OpportunityCount())+" opportunities, last scan "+
			utils.Utoa(scan.LastScanNanos())+" ns")
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// PRODUCER / CONSUMER LOOPS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// produce pushes generated updates as fast as the ring accepts them.
// Exactly one producer goroutine: the ring's SPSC contract.
func produce(gen *feedsim.Generator, r *ring.Ring, stop *uint32) {
	var u types.PriceUpdate
	for atomic.LoadUint32(stop) == 0 {
		gen.Next(&u)
		for !r.Push(&u) {
			if atomic.LoadUint32(stop) != 0 {
				return
			}
			runtime.Gosched() // ring full: back off until the scan loop drains
		}
		control.SignalActivity()
	}
}

// scanLoop is the single consumer thread: drain the ring, scan, report,
// reset the cycle arena.  The scanner and its registry are owned by this
// goroutine for the whole run.
func scanLoop(r *ring.Ring, s *scanner.Scanner, scratch *arena.Arena, stop *uint32, done chan<- struct{}) {
	runtime.LockOSThread()
	defer func() {
		runtime.UnlockOSThread()
		close(done)
	}()

	var best types.ArbitrageOpportunity
	haveBest := false
	track := func(o *types.ArbitrageOpportunity) {
		if !haveBest || u256.Cmp(o.EstimatedProfit, best.EstimatedProfit) > 0 {
			best = *o
			haveBest = true
		}
	}

	for {
		// (1) drain — bounded so a burst cannot starve the scan
		drained := 0
		for drained < maxDrainPerCycle {
			u := r.Pop()
			if u == nil {
				break
			}
			s.ApplyUpdate(u)
			drained++
		}

		if drained == 0 {
			control.PollCooldown()
			if atomic.LoadUint32(stop) != 0 {
				return
			}
			runtime.Gosched()
			continue
		}

		// (2)+(3) scan and stream results; only the running best is kept
		haveBest = false
		s.ScanStreaming(track)

		if haveBest && s.ScanCount()%reportEvery == 0 {
			reportBest(scratch, &best)
		}

		// (4) cycle scratch reset — nothing from this cycle survives
		scratch.Reset()
	}
}

// reportBest formats one summary line in arena scratch and drops it to
// stderr.  Cold path: runs once per reportEvery cycles.
func reportBest(scratch *arena.Arena, o *types.ArbitrageOpportunity) {
	const lineCap = 160
	p := scratch.Alloc(lineCap, 64)
	if p == nil {
		return // scratch exhausted this cycle; skip the report
	}
	buf := unsafe.Slice((*byte)(p), lineCap)[:0]

	buf = append(buf, "buy v"...)
	buf = append(buf, utils.Itoa(int(o.BuyVenueID))...)
	buf = append(buf, " sell v"...)
	buf = append(buf, utils.Itoa(int(o.SellVenueID))...)
	buf = append(buf, " spread "...)
	buf = append(buf, utils.Itoa(int(o.SpreadBps))...)
	buf = append(buf, "bps profit "...)
	buf = append(buf, utils.Utoa(o.EstimatedProfit.Low64())...)

	debug.DropMessage("BEST", utils.B2s(buf))
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// UNIVERSE LOADING
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// loadUniverse tries the pairs database, then the JSON fixture, then falls
// back to a built-in synthetic universe.
func loadUniverse() []feedsim.PoolSpec {
	if db, err := poolmeta.Open(metaPath); err == nil {
		defer db.Close()
		if pools, err := poolmeta.Load(db); err == nil && len(pools) > 0 {
			debug.DropMessage("META", metaPath)
			return feedsim.FromMeta(pools)
		}
	}

	if data, err := os.ReadFile(fixturePath); err == nil {
		if specs, err := feedsim.LoadFixture(data); err == nil && len(specs) > 0 {
			debug.DropMessage("META", fixturePath)
			return specs
		} else if err != nil {
			debug.DropError("META", err)
		}
	}

	debug.DropMessage("META", "builtin universe")
	return builtinUniverse()
}

// builtinUniverse crosses eight token pairs over four venues so every pair
// group holds cross-venue candidates.
func builtinUniverse() []feedsim.PoolSpec {
	tokens := []string{"WETH", "USDC", "USDT", "DAI", "WBTC", "LINK", "UNI", "ARB", "OP"}
	var specs []feedsim.PoolSpec
	for venue := uint32(1); venue <= 4; venue++ {
		for i := 0; i+1 < len(tokens); i++ {
			specs = append(specs, feedsim.PoolSpec{
				Address:  "0xpool/" + utils.Itoa(int(venue)) + "/" + tokens[i] + "-" + tokens[i+1],
				Venue:    venue,
				Chain:    1,
				Token0:   tokens[i],
				Token1:   tokens[i+1],
				Reserve0: 1_000_000_000_000_000_000 + uint64(venue)*1_000_000_000_000_000,
				Reserve1: 2_000_000_000_000_000_000 - uint64(venue)*3_000_000_000_000_000,
			})
		}
	}
	return specs
}
