package ledger

import "fmt"

// SetAllocation registers, updates, or removes the allocation for the
// specified target. The change applies only from the current block forward;
// the ledger settles all earlier blocks at the old rates first. When
// minSettledBlock is non-zero and settlement could not reach it, which
// happens while distribution is paused, the change is skipped and the call
// reports false with no error. Pass zero to apply the change regardless.
func (l *Ledger) SetAllocation(target AccountID, allocatorRate uint64, selfRate uint64, minSettledBlock uint64) (bool, error) {
	release, err := l.beginMutation()
	if err != nil {
		return false, err
	}
	defer release()

	if target.IsZero() || !target.IsAccountID() {
		return false, ErrInvalidTarget
	}
	if target == l.defaultTarget {
		return false, ErrAllocationForDefaultTarget
	}

	alc := Allocation{Target: target, AllocatorRate: allocatorRate, SelfRate: selfRate}
	old, exists := l.registry.get(target)

	// A first-time registration must prove the account can act as an
	// issuance target. Updates and removals skip the probe.
	if !exists && alc.total() > 0 {
		tgt, bound := l.targets.Resolve(target)
		if !bound {
			return false, fmt.Errorf("no target bound to account %s", target)
		}
		if !tgt.SupportsCapability(CapabilityIssuanceTarget) {
			return false, ErrTargetIncapable
		}
	}

	if err := l.checkBudget(old, alc); err != nil {
		return false, err
	}

	if _, err := l.settle(); err != nil {
		return false, err
	}
	if minSettledBlock != 0 && l.lastDistributionBlock < minSettledBlock {
		l.evHandler("ledger: setallocation: target[%s] settled[%d] behind[%d]: skipped", target, l.lastDistributionBlock, minSettledBlock)
		return false, nil
	}

	notify := func(tgt Target, blockNumber uint64) error {
		return tgt.BeforeAllocationChange(blockNumber)
	}
	if err := l.notifyTargets([]AccountID{target}, notify); err != nil {
		return false, err
	}

	l.applyAllocation(old, alc)
	l.evHandler("ledger: setallocation: target[%s] allocator[%d] self[%d]", target, allocatorRate, selfRate)

	return true, nil
}

// SetIssuancePerBlock changes the per-block issuance. A decrease can only
// consume the unallocated rate; existing allocations are never squeezed.
// Every live target is notified before the new rate takes effect.
func (l *Ledger) SetIssuancePerBlock(issuancePerBlock uint64, minSettledBlock uint64) (bool, error) {
	release, err := l.beginMutation()
	if err != nil {
		return false, err
	}
	defer release()

	if issuancePerBlock < l.issuancePerBlock {
		decrease := l.issuancePerBlock - issuancePerBlock
		if decrease > l.unallocatedRate() {
			return false, ErrInsufficientUnallocated
		}
	}

	if _, err := l.settle(); err != nil {
		return false, err
	}
	if minSettledBlock != 0 && l.lastDistributionBlock < minSettledBlock {
		l.evHandler("ledger: setissuance: settled[%d] behind[%d]: skipped", l.lastDistributionBlock, minSettledBlock)
		return false, nil
	}

	accounts := make([]AccountID, 0, l.registry.count()+1)
	accounts = append(accounts, l.defaultTarget)
	for _, alc := range l.registry.all() {
		accounts = append(accounts, alc.Target)
	}

	notify := func(tgt Target, blockNumber uint64) error {
		return tgt.BeforeRateChange(blockNumber)
	}
	if err := l.notifyTargets(accounts, notify); err != nil {
		return false, err
	}

	l.evHandler("ledger: setissuance: perblock[%d] was[%d]", issuancePerBlock, l.issuancePerBlock)
	l.issuancePerBlock = issuancePerBlock

	return true, nil
}

// SetDefaultTarget changes the account that receives the unallocated
// remainder of each distribution. The null account is a valid default and
// means the remainder is not minted at all. Both the outgoing and the
// incoming default are notified.
func (l *Ledger) SetDefaultTarget(target AccountID, minSettledBlock uint64) (bool, error) {
	release, err := l.beginMutation()
	if err != nil {
		return false, err
	}
	defer release()

	if target.IsZero() {
		target = ZeroAccountID
	} else if !target.IsAccountID() {
		return false, ErrInvalidTarget
	}

	if target == l.defaultTarget {
		return true, nil
	}
	if _, exists := l.registry.get(target); exists {
		return false, ErrDefaultTargetAllocated
	}

	if _, err := l.settle(); err != nil {
		return false, err
	}
	if minSettledBlock != 0 && l.lastDistributionBlock < minSettledBlock {
		l.evHandler("ledger: setdefault: settled[%d] behind[%d]: skipped", l.lastDistributionBlock, minSettledBlock)
		return false, nil
	}

	notify := func(tgt Target, blockNumber uint64) error {
		return tgt.BeforeAllocationChange(blockNumber)
	}
	if err := l.notifyTargets([]AccountID{l.defaultTarget, target}, notify); err != nil {
		return false, err
	}

	l.evHandler("ledger: setdefault: target[%s] was[%s]", target, l.defaultTarget)
	l.defaultTarget = target

	return true, nil
}

// SetPaused toggles ordinary distribution. While paused the ledger stops
// advancing the last distribution block and settlement-gated changes are
// skipped. Self minting accrual continues, so the skipped blocks settle
// retroactively through DistributePendingIssuance.
func (l *Ledger) SetPaused(paused bool) error {
	release, err := l.beginMutation()
	if err != nil {
		return err
	}
	defer release()

	l.paused = paused
	l.evHandler("ledger: setpaused: paused[%v]", paused)

	return nil
}

// NotifyTarget invokes the allocation change callback on the target if a
// live target is bound and it has not been notified at the current block.
// Reports whether the callback ran.
func (l *Ledger) NotifyTarget(target AccountID) (bool, error) {
	release, err := l.beginMutation()
	if err != nil {
		return false, err
	}
	defer release()

	if target.IsZero() || !target.IsAccountID() {
		return false, ErrInvalidTarget
	}

	tgt, bound := l.targets.Resolve(target)
	if !bound {
		return false, nil
	}

	current := l.currentBlock()
	if stamp, exists := l.notified[target]; exists && stamp >= current {
		return false, nil
	}

	if err := tgt.BeforeAllocationChange(current); err != nil {
		return false, err
	}
	l.notified[target] = current
	l.evHandler("ledger: notify: target[%s] block[%d]", target, current)

	return true, nil
}

// ForceTargetNotificationBlock overwrites the notification stamp for the
// target. Forcing a past block makes the target eligible for notification
// again at the current block; forcing the current or a future block
// suppresses notifications through that block.
func (l *Ledger) ForceTargetNotificationBlock(target AccountID, blockNumber uint64) error {
	release, err := l.beginMutation()
	if err != nil {
		return err
	}
	defer release()

	if target.IsZero() || !target.IsAccountID() {
		return ErrInvalidTarget
	}

	l.notified[target] = blockNumber
	l.evHandler("ledger: forcenotify: target[%s] block[%d]", target, blockNumber)

	return nil
}
