package state

import (
	"fmt"

	"github.com/ardanlabs/issuance/foundation/allocator/journal"
)

// AdvanceBlocks moves the block clock forward by the specified count and
// returns the new current block. The clock is not journaled; on restart the
// node resumes from the block of the last journal record.
func (s *State) AdvanceBlocks(count uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.block += count

	return s.block
}

// Distribute settles the issuance accrued since the last distribution
// through the current block. Anyone may trigger it; the outcome is the same
// no matter who calls. While paused the call records accrual but the settled
// block does not advance.
func (s *State) Distribute() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lastSettled := s.ledger.LastDistributionBlock()

	settled, err := s.ledger.DistributeIssuance()
	if err != nil {
		return settled, err
	}

	if settled != lastSettled {
		if _, err := s.journal.Append(journal.Record{Block: s.block, Kind: journal.KindSettle}); err != nil {
			return settled, fmt.Errorf("journal settlement record: %w", err)
		}
	}

	return settled, nil
}

// DistributePending settles the full span of undistributed blocks through
// the current block, including blocks skipped while paused.
func (s *State) DistributePending() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.distributePendingTo(s.block)
}

// DistributePendingTo settles distribution through the specified block,
// which must lie between the last settled block and the current block. It
// exists to settle a paused span, in parts if the span is too large for
// one call.
func (s *State) DistributePendingTo(toBlock uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.distributePendingTo(toBlock)
}

// distributePendingTo runs the pending settlement under the lock held by
// the caller and journals the outcome when the settled block advances.
func (s *State) distributePendingTo(toBlock uint64) (uint64, error) {
	lastSettled := s.ledger.LastDistributionBlock()

	settled, err := s.ledger.DistributePendingIssuanceTo(toBlock)
	if err != nil {
		return settled, err
	}

	if settled != lastSettled {
		if _, err := s.journal.Append(journal.Record{Block: s.block, Kind: journal.KindSettlePending, ToBlock: toBlock}); err != nil {
			return settled, fmt.Errorf("journal settlement record: %w", err)
		}
	}

	return settled, nil
}
