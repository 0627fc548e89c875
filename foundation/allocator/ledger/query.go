package ledger

// GetAllocation returns the current allocation for the specified target.
// Unknown targets report a zero allocation, matching the storage semantics
// of a rate that was never set.
func (l *Ledger) GetAllocation(target AccountID) Allocation {
	alc, _ := l.registry.get(target)
	return alc
}

// GetAllocationData returns the allocation together with its notification
// stamp.
func (l *Ledger) GetAllocationData(target AccountID) AllocationData {
	alc, _ := l.registry.get(target)
	stamp, exists := l.notified[target]

	return AllocationData{
		Allocation:        alc,
		LastNotifiedBlock: stamp,
		Notified:          exists,
	}
}

// GetTargetCount returns the number of enumerable targets. The default
// target occupies slot zero even when it is the null account.
func (l *Ledger) GetTargetCount() int {
	return l.registry.count() + 1
}

// GetTargetAt returns the target account in the specified enumeration slot.
// Slot zero is the default target. The order of the remaining slots is not
// stable across removals.
func (l *Ledger) GetTargetAt(index int) (AccountID, bool) {
	if index == 0 {
		return l.defaultTarget, true
	}

	alc, exists := l.registry.at(index - 1)
	if !exists {
		return "", false
	}

	return alc.Target, true
}

// GetTargets returns every enumerable allocation. Slot zero carries the
// default target with its derived rate, the unallocated remainder of the
// issuance per block.
func (l *Ledger) GetTargets() []Allocation {
	targets := make([]Allocation, 0, l.registry.count()+1)
	targets = append(targets, Allocation{
		Target:        l.defaultTarget,
		AllocatorRate: l.unallocatedRate(),
	})
	targets = append(targets, l.registry.all()...)

	return targets
}

// GetDistributionState returns a snapshot of the aggregate counters. The
// self minting fields are projected through the current block so the
// snapshot reflects accrual that has not been booked by an operation yet.
func (l *Ledger) GetDistributionState() DistributionState {
	offset := l.selfMintingOffset
	lastSelf := l.lastSelfMintingBlock

	current := l.currentBlock()
	if current > lastSelf {
		if accrued, err := safeMul(l.totalSelfRate, current-lastSelf); err == nil {
			if sum, err := safeAdd(offset, accrued); err == nil {
				offset = sum
				lastSelf = current
			}
		}
	}

	return DistributionState{
		IssuancePerBlock:      l.issuancePerBlock,
		LastDistributionBlock: l.lastDistributionBlock,
		LastSelfMintingBlock:  lastSelf,
		SelfMintingOffset:     offset,
		TotalAllocatorRate:    l.totalAllocatorRate,
		TotalSelfRate:         l.totalSelfRate,
		UnallocatedRate:       l.unallocatedRate(),
		DefaultTarget:         l.defaultTarget,
		Paused:                l.paused,
		TargetCount:           l.registry.count() + 1,
	}
}

// DefaultTarget returns the account receiving the unallocated remainder.
func (l *Ledger) DefaultTarget() AccountID {
	return l.defaultTarget
}

// IssuancePerBlock returns the per-block issuance budget.
func (l *Ledger) IssuancePerBlock() uint64 {
	return l.issuancePerBlock
}

// LastDistributionBlock returns the block through which distribution has
// settled.
func (l *Ledger) LastDistributionBlock() uint64 {
	return l.lastDistributionBlock
}

// Paused reports whether ordinary distribution is paused.
func (l *Ledger) Paused() bool {
	return l.paused
}
