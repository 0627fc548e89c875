// Package ledger implements the issuance allocation core. It tracks the
// per-block minting rates granted to registered targets against a global
// issuance budget and mints the accrued issuance when distribution settles.
// The ledger is not safe for concurrent access; the owning layer serializes
// calls in block order.
package ledger

import (
	"errors"
	"fmt"
)

// Config represents the set of values required to create a ledger.
type Config struct {
	IssuancePerBlock uint64
	StartBlock       uint64
	DefaultTarget    AccountID
	Allocations      []Allocation
	Minter           Minter
	Targets          TargetResolver
	CurrentBlock     func() uint64
	EvHandler        EventHandler
}

// Ledger manages the issuance allocation state.
type Ledger struct {
	minter       Minter
	targets      TargetResolver
	currentBlock func() uint64
	evHandler    EventHandler

	issuancePerBlock      uint64
	lastDistributionBlock uint64
	lastSelfMintingBlock  uint64
	selfMintingOffset     uint64
	totalAllocatorRate    uint64
	totalSelfRate         uint64
	paused                bool

	defaultTarget AccountID
	registry      registry
	notified      map[AccountID]uint64

	mutating bool
}

// New constructs a ledger and adopts the initial allocations. Initial
// allocations are validated and probed for capability but not notified, since
// no state predates the start block.
func New(cfg Config) (*Ledger, error) {
	if cfg.Minter == nil {
		return nil, errors.New("minter is required")
	}
	if cfg.Targets == nil {
		return nil, errors.New("target resolver is required")
	}
	if cfg.CurrentBlock == nil {
		return nil, errors.New("current block function is required")
	}

	ev := func(v string, args ...any) {}
	if cfg.EvHandler != nil {
		ev = cfg.EvHandler
	}

	defaultTarget := cfg.DefaultTarget
	if defaultTarget.IsZero() {
		defaultTarget = ZeroAccountID
	} else if !defaultTarget.IsAccountID() {
		return nil, fmt.Errorf("default target: %w", ErrInvalidTarget)
	}

	l := Ledger{
		minter:       cfg.Minter,
		targets:      cfg.Targets,
		currentBlock: cfg.CurrentBlock,
		evHandler:    ev,

		issuancePerBlock:      cfg.IssuancePerBlock,
		lastDistributionBlock: cfg.StartBlock,
		lastSelfMintingBlock:  cfg.StartBlock,

		defaultTarget: defaultTarget,
		registry:      newRegistry(),
		notified:      make(map[AccountID]uint64),
	}

	for _, alc := range cfg.Allocations {
		if err := l.adopt(alc); err != nil {
			return nil, fmt.Errorf("allocation for %s: %w", alc.Target, err)
		}
	}

	return &l, nil
}

// adopt applies an initial allocation with full validation but without
// settlement or notification.
func (l *Ledger) adopt(alc Allocation) error {
	if alc.Target.IsZero() || !alc.Target.IsAccountID() {
		return ErrInvalidTarget
	}
	if alc.Target == l.defaultTarget {
		return ErrAllocationForDefaultTarget
	}
	if _, exists := l.registry.get(alc.Target); exists {
		return errors.New("duplicate allocation")
	}
	if alc.total() == 0 {
		return nil
	}

	tgt, bound := l.targets.Resolve(alc.Target)
	if !bound {
		return errors.New("no target bound to account")
	}
	if !tgt.SupportsCapability(CapabilityIssuanceTarget) {
		return ErrTargetIncapable
	}

	if err := l.checkBudget(Allocation{}, alc); err != nil {
		return err
	}

	l.applyAllocation(Allocation{}, alc)

	return nil
}

// =============================================================================

// beginMutation flips the reentrancy flag for the duration of a mutating
// operation. Notification callbacks run with the flag held, so a callback
// that attempts another mutation receives ErrReentrancy.
func (l *Ledger) beginMutation() (func(), error) {
	if l.mutating {
		return nil, ErrReentrancy
	}
	l.mutating = true

	return func() { l.mutating = false }, nil
}

// checkBudget validates that replacing the old allocation with the new one
// keeps the combined allocated rates within the issuance per block.
func (l *Ledger) checkBudget(old Allocation, alc Allocation) error {
	allocatorRate, err := safeAdd(l.totalAllocatorRate-old.AllocatorRate, alc.AllocatorRate)
	if err != nil {
		return ErrInsufficientAllocation
	}

	selfRate, err := safeAdd(l.totalSelfRate-old.SelfRate, alc.SelfRate)
	if err != nil {
		return ErrInsufficientAllocation
	}

	claimed, err := safeAdd(allocatorRate, selfRate)
	if err != nil || claimed > l.issuancePerBlock {
		return ErrInsufficientAllocation
	}

	return nil
}

// applyAllocation replaces the old allocation with the new one, keeping the
// aggregate rates in sync. A target whose rates both drop to zero leaves the
// registry.
func (l *Ledger) applyAllocation(old Allocation, alc Allocation) {
	l.totalAllocatorRate = l.totalAllocatorRate - old.AllocatorRate + alc.AllocatorRate
	l.totalSelfRate = l.totalSelfRate - old.SelfRate + alc.SelfRate

	if alc.total() == 0 {
		l.registry.remove(alc.Target)
		return
	}

	l.registry.set(alc)
}

// unallocatedRate returns the per-block issuance not claimed by any
// allocation. The mutation paths keep the claimed total at or below the
// issuance per block, so the subtraction cannot underflow; the guard keeps a
// corrupted counter from wrapping.
func (l *Ledger) unallocatedRate() uint64 {
	claimed := l.totalAllocatorRate + l.totalSelfRate
	if claimed > l.issuancePerBlock {
		return 0
	}

	return l.issuancePerBlock - claimed
}

// notifyTargets invokes the callback on every listed account that has a live
// target bound and has not been notified at the current block. Stamps are
// written only after every callback succeeds, so a failure leaves the earlier
// accounts eligible again when the operation is retried.
func (l *Ledger) notifyTargets(accounts []AccountID, notify func(tgt Target, blockNumber uint64) error) error {
	current := l.currentBlock()

	var stamped []AccountID
	for _, account := range accounts {
		if account.IsZero() {
			continue
		}

		tgt, bound := l.targets.Resolve(account)
		if !bound {
			continue
		}

		if stamp, exists := l.notified[account]; exists && stamp >= current {
			continue
		}

		if err := notify(tgt, current); err != nil {
			return fmt.Errorf("notify target %s: %w", account, err)
		}
		stamped = append(stamped, account)
	}

	for _, account := range stamped {
		l.notified[account] = current
	}

	return nil
}
