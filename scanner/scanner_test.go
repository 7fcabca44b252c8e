package scanner

import (
	"math/rand"
	"testing"

	"main/types"
	"main/u256"
)

const e18 = uint64(1_000_000_000_000_000_000)

func snapshot(venue, pool uint32, r0, r1 uint64, ts uint64) types.PoolReserves {
	return types.PoolReserves{
		Reserve0:    u256.New(r0),
		Reserve1:    u256.New(r1),
		TimestampMS: ts,
		PoolID:      pool,
		VenueID:     venue,
	}
}

// TestTwoVenueDislocation pins the canonical cross-venue scenario: pools
// (1e18, 2e18) and (1e18, 2.1e18) on different venues with a 10 bp
// threshold yield exactly one opportunity — buy on the cheap pool, sell on
// the rich one, spread ≈ 500 bps.
func TestTwoVenueDislocation(t *testing.T) {
	s := New(types.DefaultScannerConfig())
	pair := types.NewTokenPair(10, 20)

	a := snapshot(1, 1, e18, 2*e18, 100)
	b := snapshot(2, 2, e18, 21*(e18/10), 200)
	s.UpdatePool(&a, pair)
	s.UpdatePool(&b, pair)

	opps := s.Scan()
	if len(opps) != 1 {
		t.Fatalf("got %d opportunities, want 1", len(opps))
	}
	o := opps[0]
	if o.BuyPoolID != 1 || o.BuyVenueID != 1 || o.SellPoolID != 2 || o.SellVenueID != 2 {
		t.Fatalf("wrong sides: %+v", o)
	}
	if o.SpreadBps < 450 || o.SpreadBps > 510 {
		t.Fatalf("spread %d outside [450, 510]", o.SpreadBps)
	}
	if o.EstimatedProfit.IsZero() {
		t.Fatal("admitted opportunity must have positive profit")
	}
	if o.MaxAmount.IsZero() {
		t.Fatal("admitted opportunity must be sized")
	}
	if o.TimestampMS != 200 {
		t.Fatalf("timestamp %d, want the newer snapshot's 200", o.TimestampMS)
	}
}

// TestSameVenueSuppressed: identical dislocation on one venue produces
// nothing under the default config, and reappears when allowed.
func TestSameVenueSuppressed(t *testing.T) {
	cfg := types.DefaultScannerConfig()
	s := New(cfg)
	pair := types.NewTokenPair(10, 20)

	a := snapshot(1, 1, e18, 2*e18, 1)
	b := snapshot(1, 2, e18, 3*e18, 1) // huge spread, same venue
	s.UpdatePool(&a, pair)
	s.UpdatePool(&b, pair)

	if opps := s.Scan(); len(opps) != 0 {
		t.Fatalf("same-venue pair admitted: %d", len(opps))
	}

	cfg.AllowSameVenue = true
	s.SetConfig(cfg)
	if opps := s.Scan(); len(opps) == 0 {
		t.Fatal("allow_same_venue must re-admit the pair")
	}
}

// TestEmptyAndDegenerateNeverFail: no pools, one pool, priceless pools —
// the scanner returns empty results rather than failing, and a priceless
// pool does not poison its group.
func TestEmptyAndDegenerateNeverFail(t *testing.T) {
	s := New(types.DefaultScannerConfig())
	if opps := s.Scan(); len(opps) != 0 {
		t.Fatal("empty scanner must scan empty")
	}

	pair := types.NewTokenPair(1, 2)
	only := snapshot(1, 1, e18, 2*e18, 1)
	s.UpdatePool(&only, pair)
	if opps := s.Scan(); len(opps) != 0 {
		t.Fatal("single pool cannot arbitrage")
	}

	dead := snapshot(2, 2, 0, 2*e18, 1) // priceless
	live := snapshot(3, 3, e18, 21*(e18/10), 1)
	s.UpdatePool(&dead, pair)
	s.UpdatePool(&live, pair)

	opps := s.Scan()
	if len(opps) != 1 {
		t.Fatalf("priceless pool poisoned the group: %d opportunities", len(opps))
	}
	if opps[0].BuyPoolID == 2 || opps[0].SellPoolID == 2 {
		t.Fatal("priceless pool must be skipped")
	}
}

// TestRankingInvariants builds a random many-venue universe and checks
// every admitted opportunity satisfies the config bounds and the result
// ordering is profit-descending.
func TestRankingInvariants(t *testing.T) {
	cfg := types.DefaultScannerConfig()
	s := New(cfg)
	rng := rand.New(rand.NewSource(4242))

	for p := 0; p < 40; p++ {
		pair := types.NewTokenPair(uint64(p%5)*2+1, uint64(p%5)*2+2)
		r0 := e18/2 + rng.Uint64()%(2*e18)
		r1 := e18/2 + rng.Uint64()%(2*e18)
		snap := snapshot(uint32(p%6), uint32(p), r0, r1, uint64(p))
		s.UpdatePool(&snap, pair)
	}

	opps := s.Scan()
	for i, o := range opps {
		if o.SpreadBps < cfg.MinSpreadBps {
			t.Fatalf("opp %d below spread threshold: %d", i, o.SpreadBps)
		}
		if o.EstimatedProfit.IsZero() {
			t.Fatalf("opp %d has zero profit", i)
		}
		if u256.Cmp(o.MaxAmount, cfg.MaxPositionSize) > 0 {
			t.Fatalf("opp %d oversizes the position cap", i)
		}
		if o.BuyVenueID == o.SellVenueID {
			t.Fatalf("opp %d is same-venue under allow_same_venue=false", i)
		}
		if i > 0 {
			if u256.Cmp(opps[i-1].EstimatedProfit, o.EstimatedProfit) < 0 {
				t.Fatalf("results not profit-descending at %d", i)
			}
		}
	}
}

// TestLaneAndScalarPathsAgree runs a ≥4-pool group through both
// enumeration paths and requires identical admission sets.
func TestLaneAndScalarPathsAgree(t *testing.T) {
	s := New(types.DefaultScannerConfig())
	pair := types.NewTokenPair(7, 8)
	rng := rand.New(rand.NewSource(1701))

	for p := 0; p < 9; p++ {
		r1 := 2*e18 + rng.Uint64()%(e18/4)
		snap := snapshot(uint32(p), uint32(p), e18, r1, uint64(p))
		s.UpdatePool(&snap, pair)
	}
	grp := s.reg.Group(0)
	if grp.Count < 4 {
		t.Fatal("fixture must reach the lane path")
	}

	key := func(o *types.ArbitrageOpportunity) [5]int64 {
		return [5]int64{
			int64(o.BuyPoolID), int64(o.BuyVenueID),
			int64(o.SellPoolID), int64(o.SellVenueID),
			o.SpreadBps,
		}
	}

	var scalar, lanes [][5]int64
	s.scanGroup(grp, func(o *types.ArbitrageOpportunity) {
		scalar = append(scalar, key(o))
	})
	s.scanGroupLanes(grp, func(o *types.ArbitrageOpportunity) {
		lanes = append(lanes, key(o))
	})

	if len(scalar) == 0 {
		t.Fatal("fixture produced no opportunities")
	}
	if len(scalar) != len(lanes) {
		t.Fatalf("admission sets differ: scalar %d vs lanes %d", len(scalar), len(lanes))
	}
	seen := make(map[[5]int64]int)
	for _, k := range scalar {
		seen[k]++
	}
	for _, k := range lanes {
		if seen[k] == 0 {
			t.Fatalf("lane-only admission %v", k)
		}
		seen[k]--
	}
}

// TestBestMatchesScanHead: the running best must carry the same ranking
// key as the head of the sorted scan.
func TestBestMatchesScanHead(t *testing.T) {
	s := New(types.DefaultScannerConfig())
	rng := rand.New(rand.NewSource(77))

	for p := 0; p < 24; p++ {
		pair := types.NewTokenPair(uint64(p%3)+1, 100)
		r0 := e18 + rng.Uint64()%e18
		r1 := e18 + rng.Uint64()%e18
		snap := snapshot(uint32(p%5), uint32(p), r0, r1, uint64(p))
		s.UpdatePool(&snap, pair)
	}

	opps := s.Scan()
	best, found := s.Best()

	if len(opps) == 0 {
		if found {
			t.Fatal("Best found something Scan did not")
		}
		return
	}
	if !found {
		t.Fatal("Scan found opportunities but Best did not")
	}
	head := opps[0]
	if u256.Cmp(best.EstimatedProfit, head.EstimatedProfit) != 0 ||
		best.SpreadBps != head.SpreadBps ||
		best.TimestampMS != head.TimestampMS {
		t.Fatalf("Best %+v disagrees with Scan head %+v", best, head)
	}
}

// TestStreamingMatchesScanAndDoesNotAllocate compares the streaming
// emission count with Scan and bounds its allocations at zero.
func TestStreamingMatchesScanAndDoesNotAllocate(t *testing.T) {
	s := New(types.DefaultScannerConfig())
	pair := types.NewTokenPair(10, 20)

	a := snapshot(1, 1, e18, 2*e18, 1)
	b := snapshot(2, 2, e18, 21*(e18/10), 1)
	c := snapshot(3, 3, e18, 22*(e18/10), 1)
	s.UpdatePool(&a, pair)
	s.UpdatePool(&b, pair)
	s.UpdatePool(&c, pair)

	want := len(s.Scan())
	got := s.ScanStreaming(discard)
	if got != want {
		t.Fatalf("streaming emitted %d, scan found %d", got, want)
	}

	if allocs := testing.AllocsPerRun(100, func() {
		s.ScanStreaming(discard)
	}); allocs != 0 {
		t.Fatalf("streaming scan allocated %.1f objects/run", allocs)
	}
}

// discard is a static callback so the alloc measurement sees no closure.
func discard(*types.ArbitrageOpportunity) {}

// TestApplyUpdatePromotesRingRecords drives the ring-payload entry point:
// token-derived grouping, reserve promotion, and the zero-hash reject.
func TestApplyUpdatePromotesRingRecords(t *testing.T) {
	s := New(types.DefaultScannerConfig())

	u := types.PriceUpdate{
		TimestampNS: 5_000_000,
		PoolHash:    0xDEAD_BEEF,
		VenueID:     3,
		Token0:      111,
		Token1:      222,
		Reserve0:    e18,
		Reserve1:    2 * e18,
	}
	if !s.ApplyUpdate(&u) {
		t.Fatal("valid update rejected")
	}
	if s.PoolCount() != 1 {
		t.Fatalf("pool count %d", s.PoolCount())
	}

	price, ok := s.Registry().GetPrice(3, uint32(u.PoolHash))
	if !ok {
		t.Fatal("promoted pool not registered under (venue, low-word hash)")
	}
	if price.TimestampMS != 5 {
		t.Fatalf("timestamp not demoted to ms: %d", price.TimestampMS)
	}

	var zero types.PriceUpdate
	if s.ApplyUpdate(&zero) {
		t.Fatal("zero pool hash must be rejected")
	}

	// a second venue on the same token pair becomes scannable
	u2 := u
	u2.PoolHash = 0xFEED_F00D
	u2.VenueID = 4
	u2.Reserve1 = 21 * (e18 / 10)
	s.ApplyUpdate(&u2)

	if opps := s.Scan(); len(opps) != 1 {
		t.Fatalf("promoted updates not scannable: %d", len(opps))
	}

	s.Clear()
	if s.PoolCount() != 0 {
		t.Fatal("clear must empty the registry")
	}
}

// TestCountersAdvance checks the §7 observability counters.
func TestCountersAdvance(t *testing.T) {
	s := New(types.DefaultScannerConfig())
	pair := types.NewTokenPair(10, 20)
	a := snapshot(1, 1, e18, 2*e18, 1)
	b := snapshot(2, 2, e18, 21*(e18/10), 1)
	s.UpdatePool(&a, pair)
	s.UpdatePool(&b, pair)

	if s.ScanCount() != 0 {
		t.Fatal("fresh scanner has scans")
	}
	_ = s.Scan()
	_ = s.Scan()
	if s.ScanCount() != 2 {
		t.Fatalf("scan count %d", s.ScanCount())
	}
	if s.OpportunityCount() == 0 {
		t.Fatal("opportunity counter did not advance")
	}
}

func BenchmarkScanStreaming(b *testing.B) {
	s := New(types.DefaultScannerConfig())
	rng := rand.New(rand.NewSource(1))
	for p := 0; p < 256; p++ {
		pair := types.NewTokenPair(uint64(p%16)+1, 1000)
		snap := snapshot(uint32(p%8), uint32(p), e18+rng.Uint64()%e18, e18+rng.Uint64()%e18, 1)
		s.UpdatePool(&snap, pair)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.ScanStreaming(discard)
	}
}
