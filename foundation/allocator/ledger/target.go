package ledger

// Capability identifies an interface a target can declare support for. The
// probe mirrors how on-chain systems interrogate a contract before trusting
// it with a role.
type Capability string

// CapabilityIssuanceTarget must be declared by any account that wants to
// receive an allocation from the ledger.
const CapabilityIssuanceTarget Capability = "allocator/issuance-target"

// =============================================================================

// Target is the contract a registered account fulfills. The ledger notifies a
// target before its allocation or the global issuance rate changes so it can
// settle internal bookkeeping against the old rates.
type Target interface {
	SupportsCapability(capability Capability) bool
	BeforeAllocationChange(blockNumber uint64) error
	BeforeRateChange(blockNumber uint64) error
}

// TargetResolver reports whether an account id has a live target bound to it.
// Accounts without one are plain balance accounts and never receive
// notifications.
type TargetResolver interface {
	Resolve(accountID AccountID) (Target, bool)
}

// Minter mints new tokens into an account. The ledger is the only component
// that is expected to hold this permission on the token.
type Minter interface {
	Mint(accountID AccountID, amount uint64) error
}

// EventHandler defines a function that is called when events occur in the
// ledger.
type EventHandler func(v string, args ...any)

// =============================================================================

// Allocation holds the per-block minting rates for a single target.
type Allocation struct {
	Target        AccountID
	AllocatorRate uint64
	SelfRate      uint64
}

// total returns the combined rate the allocation claims from the issuance.
func (a Allocation) total() uint64 {
	return a.AllocatorRate + a.SelfRate
}

// AllocationData extends an allocation with its notification bookkeeping.
type AllocationData struct {
	Allocation
	LastNotifiedBlock uint64
	Notified          bool
}

// DistributionState is a snapshot of the ledger's aggregate counters. The
// self minting fields reflect accrual through the current block even when no
// operation has run since the last block advanced.
type DistributionState struct {
	IssuancePerBlock      uint64
	LastDistributionBlock uint64
	LastSelfMintingBlock  uint64
	SelfMintingOffset     uint64
	TotalAllocatorRate    uint64
	TotalSelfRate         uint64
	UnallocatedRate       uint64
	DefaultTarget         AccountID
	Paused                bool
	TargetCount           int
}
