package ledger

import "fmt"

// DistributeIssuance mints the issuance accrued since the last distribution
// and returns the block through which the ledger is settled. While paused
// only self minting accrual is recorded and the settled block does not
// advance. Safe to call from notification callbacks: by the time callbacks
// run the enclosing operation has already settled to the current block, so a
// reentrant call is a no-op.
func (l *Ledger) DistributeIssuance() (uint64, error) {
	return l.settle()
}

// DistributePendingIssuance settles the full span of undistributed blocks
// through the current block, including blocks skipped while paused.
func (l *Ledger) DistributePendingIssuance() (uint64, error) {
	return l.DistributePendingIssuanceTo(l.currentBlock())
}

// DistributePendingIssuanceTo settles distribution through the specified
// block, which must lie in [last distribution block, current block]. Paused
// state does not stop this path; it exists to settle a paused span, in parts
// if the span is too large for one call. If the window cannot cover every
// allocator entitlement in full after the self minted share is reserved, the
// window is divided proportionally and the default target receives nothing.
func (l *Ledger) DistributePendingIssuanceTo(toBlock uint64) (uint64, error) {
	release, err := l.beginMutation()
	if err != nil {
		return l.lastDistributionBlock, err
	}
	defer release()

	current := l.currentBlock()
	if toBlock < l.lastDistributionBlock || toBlock > current {
		return l.lastDistributionBlock, ErrBlockOutOfRange
	}

	if err := l.accrueSelfMinting(current); err != nil {
		return l.lastDistributionBlock, err
	}

	if toBlock == l.lastDistributionBlock {
		return l.lastDistributionBlock, nil
	}

	if err := l.settleRange(toBlock); err != nil {
		return l.lastDistributionBlock, err
	}

	return l.lastDistributionBlock, nil
}

// =============================================================================

// settle advances distribution to the current block unless the ledger is
// paused. Self minting accrual always runs first so a rate change never
// applies to blocks that predate it.
func (l *Ledger) settle() (uint64, error) {
	current := l.currentBlock()

	if err := l.accrueSelfMinting(current); err != nil {
		return l.lastDistributionBlock, err
	}

	if l.paused || current <= l.lastDistributionBlock {
		return l.lastDistributionBlock, nil
	}

	if err := l.settleRange(current); err != nil {
		return l.lastDistributionBlock, err
	}

	return l.lastDistributionBlock, nil
}

// accrueSelfMinting books the self minted share of the blocks since the last
// accrual into the reservation. The reservation always covers the span
// between the last distribution block and the current block, so settlement
// can subtract it without consulting rate history.
func (l *Ledger) accrueSelfMinting(current uint64) error {
	if current <= l.lastSelfMintingBlock {
		return nil
	}

	accrued, err := safeMul(l.totalSelfRate, current-l.lastSelfMintingBlock)
	if err != nil {
		return err
	}

	offset, err := safeAdd(l.selfMintingOffset, accrued)
	if err != nil {
		return err
	}

	l.selfMintingOffset = offset
	l.lastSelfMintingBlock = current

	if accrued > 0 {
		l.evHandler("ledger: accrue: selfminted[%d] reserved[%d] block[%d]", accrued, offset, current)
	}

	return nil
}

// settleRange mints the issuance for the blocks after the last distribution
// block through toBlock and advances the marker. The caller validates the
// range and runs accrual first.
func (l *Ledger) settleRange(toBlock uint64) error {
	blocks := toBlock - l.lastDistributionBlock

	totalForPeriod, err := safeMul(l.issuancePerBlock, blocks)
	if err != nil {
		return err
	}

	allocatedTotal, err := safeMul(l.totalAllocatorRate, blocks)
	if err != nil {
		return err
	}

	// The reservation may exceed the window when settling a partial span of
	// a paused period. Whatever it cannot consume here stays reserved for
	// the next window.
	consumed := min(l.selfMintingOffset, totalForPeriod)
	available := totalForPeriod - consumed

	type payout struct {
		target AccountID
		amount uint64
	}
	payouts := make([]payout, 0, l.registry.count()+1)

	switch {
	case available >= allocatedTotal:
		for _, alc := range l.registry.all() {
			if alc.AllocatorRate == 0 {
				continue
			}
			payouts = append(payouts, payout{alc.Target, alc.AllocatorRate * blocks})
		}
		if remainder := available - allocatedTotal; remainder > 0 && !l.defaultTarget.IsZero() {
			payouts = append(payouts, payout{l.defaultTarget, remainder})
		}

	case available > 0:
		for _, alc := range l.registry.all() {
			if alc.AllocatorRate == 0 {
				continue
			}
			amount := mulDiv(available, alc.AllocatorRate*blocks, allocatedTotal)
			if amount == 0 {
				continue
			}
			payouts = append(payouts, payout{alc.Target, amount})
		}
	}

	l.selfMintingOffset -= consumed
	l.lastDistributionBlock = toBlock

	var minted uint64
	for _, pay := range payouts {
		if err := l.minter.Mint(pay.target, pay.amount); err != nil {
			return fmt.Errorf("mint %d to %s: %w", pay.amount, pay.target, err)
		}
		minted += pay.amount
		l.evHandler("ledger: settle: minted[%d] target[%s]", pay.amount, pay.target)
	}

	l.evHandler("ledger: settle: blocks[%d] through[%d] minted[%d] reserved[%d]", blocks, toBlock, minted, l.selfMintingOffset)

	return nil
}
