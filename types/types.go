package types

import "main/u256"

// ============================================================================
// HOT-PATH VALUE TYPES - CACHE-ALIGNED SNAPSHOTS
// ============================================================================
//
// Every type here is a plain value: snapshots move by copy, never by shared
// pointer.  Explicit padding keeps the structs on the same 64/128-byte
// boundaries the batched kernels assume, and keeps layouts stable for the
// foreign-language binding surface.

// ============================================================================
// CAPACITY CONSTANTS
// ============================================================================

const (
	// MaxPools bounds the flat pool registry.
	MaxPools = 4096

	// MaxPairs bounds the number of token-pair groups.
	MaxPairs = 512

	// MaxPoolsPerPair bounds one token-pair group.
	MaxPoolsPerPair = 32

	// BatchCapacity bounds the batched price calculator.
	BatchCapacity = 1024

	// RingSize is the update ring capacity (power of two).
	RingSize = 1 << 16

	// PricePrecision is the 18-decimal fixed-point scale (1e18).
	PricePrecision = 1_000_000_000_000_000_000

	// BpsPrecision is the basis-point scale.
	BpsPrecision = 10_000
)

// ============================================================================
// POOL STATE
// ============================================================================

// PoolReserves is an immutable snapshot of one pool for a calculation
// cycle.  Reserves may be zero — such a pool is priceless, not invalid.
// Decimals are informational; prices always normalise to 18 decimals.
//
// Layout: 128 bytes, two cache lines; the two reserves fill the first line,
// the timestamp, ids and decimals sit on the second.
type PoolReserves struct {
	Reserve0    u256.U256 // token0 reserve
	Reserve1    u256.U256 // token1 reserve
	TimestampMS uint64    // snapshot time, milliseconds
	PoolID      uint32    // venue-local pool identifier
	VenueID     uint32    // execution venue ("dex id")
	Decimals0   uint8     // token0 decimals (informational)
	Decimals1   uint8     // token1 decimals (informational)
	_           [6]byte   // pad ids+decimals to 8-byte boundary
	_           [40]byte  // pad to 128 bytes
}

// PriceResult carries the 18-decimal price derived from one snapshot.
// Layout: 64 bytes, one cache line.
type PriceResult struct {
	Price       u256.U256 // reserve1/reserve0 · 1e18
	TimestampMS uint64
	PoolID      uint32
	VenueID     uint32
	Confidence  int64   // advisory depth score in bps, 0..10000
	_           [8]byte // pad to 64 bytes
}

// ============================================================================
// OPPORTUNITIES
// ============================================================================

// ArbitrageOpportunity is one ranked cross-venue dislocation.  Value-typed:
// the caller owns every copy it receives.
type ArbitrageOpportunity struct {
	BuyPoolID       uint32
	BuyVenueID      uint32
	SellPoolID      uint32
	SellVenueID     uint32
	BuyPrice        u256.U256
	SellPrice       u256.U256
	SpreadBps       int64
	MaxAmount       u256.U256 // optimal input size
	EstimatedProfit u256.U256 // round-trip token1 profit
	TimestampMS     uint64
	_               [32]byte // pad to 192 bytes (three cache lines)
}

// ============================================================================
// SCANNER CONFIGURATION
// ============================================================================

// ScannerConfig filters and bounds the opportunity scan.  Passed by value.
type ScannerConfig struct {
	MinSpreadBps    int64
	MaxSlippageBps  int64
	MinLiquidity    u256.U256
	MaxPositionSize u256.U256
	AllowSameVenue  bool
}

// DefaultScannerConfig returns the production defaults: 10 bps minimum
// spread, 50 bps slippage bound, 1e19 minimum liquidity, 1e22 position cap,
// cross-venue only.
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		MinSpreadBps:    10,
		MaxSlippageBps:  50,
		MinLiquidity:    u256.MulU64(u256.New(PricePrecision), 10),     // 1e19
		MaxPositionSize: u256.MulU64(u256.New(PricePrecision), 10_000), // 1e22
		AllowSameVenue:  false,
	}
}

// ============================================================================
// TOKEN PAIR IDENTITY
// ============================================================================

// TokenPair groups pools trading the same two tokens.  Identity always
// derives from the token hashes in normalised order — never from
// (pool, venue), which would collapse every pool into its own group.
type TokenPair struct {
	Token0 uint64
	Token1 uint64
}

// NewTokenPair normalises the order so (a,b) and (b,a) group together.
//
//go:inline
func NewTokenPair(a, b uint64) TokenPair {
	if a <= b {
		return TokenPair{Token0: a, Token1: b}
	}
	return TokenPair{Token0: b, Token1: a}
}

// Hash mixes the pair into one 64-bit key.
//
//go:inline
func (p TokenPair) Hash() uint64 {
	return p.Token0 ^ (p.Token1 << 1)
}

// ============================================================================
// RING PAYLOAD
// ============================================================================

// PriceUpdate is the producer→consumer hand-off record.  Little-endian
// scalars, 64 bytes so one slot is exactly one cache line.  Reserve fields
// carry the low 64 bits of the true reserve; the registry promotes them.
// A zero PoolHash is reserved and never valid.
type PriceUpdate struct {
	TimestampNS uint64 // producer clock, nanoseconds
	PoolHash    uint64 // pool address hash (keccak-256, truncated)
	ChainID     uint32 // chain namespace (1 = mainnet, …)
	VenueID     uint32 // venue namespace
	Token0      uint64 // token0 address hash
	Token1      uint64 // token1 address hash
	Reserve0    uint64 // low 64 bits of reserve0
	Reserve1    uint64 // low 64 bits of reserve1
	Price       uint64 // producer's pre-computed price, advisory
}
