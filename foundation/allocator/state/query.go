package state

import (
	"github.com/ardanlabs/issuance/foundation/allocator/genesis"
	"github.com/ardanlabs/issuance/foundation/allocator/journal"
	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
	"github.com/ardanlabs/issuance/foundation/allocator/target"
	"github.com/ardanlabs/issuance/foundation/allocator/token"
)

// QueryLastest represents to query the latest record in the journal.
const QueryLastest = ^uint64(0) >> 1

// =============================================================================

// TargetInfo represents a bound target and its current allocation.
type TargetInfo struct {
	Account       ledger.AccountID
	Beneficiary   ledger.AccountID
	AllocatorRate uint64
	SelfRate      uint64
	Balance       uint64
}

// =============================================================================

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveGovernor returns the governor account.
func (s *State) RetrieveGovernor() ledger.AccountID {
	return s.governor
}

// RetrieveNonce returns the last nonce the governor used.
func (s *State) RetrieveNonce() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.nonce
}

// RetrieveCurrentBlock returns the current block.
func (s *State) RetrieveCurrentBlock() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.block
}

// RetrieveDistributionState returns a snapshot of the distribution counters
// projected through the current block.
func (s *State) RetrieveDistributionState() ledger.DistributionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.GetDistributionState()
}

// RetrieveAllocations returns the allocation table. The first entry is the
// default target with the derived unallocated rate.
func (s *State) RetrieveAllocations() []ledger.Allocation {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.GetTargets()
}

// RetrieveTargets returns every bound target with its allocation, balance,
// and beneficiary.
func (s *State) RetrieveTargets() []TargetInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := s.targets.Accounts()

	infos := make([]TargetInfo, 0, len(accounts))
	for _, account := range accounts {
		info := TargetInfo{
			Account: account,
			Balance: s.token.BalanceOf(account),
		}

		alc := s.ledger.GetAllocation(account)
		info.AllocatorRate = alc.AllocatorRate
		info.SelfRate = alc.SelfRate

		tgt, _ := s.targets.Resolve(account)
		if da, ok := tgt.(*target.DirectAllocation); ok {
			info.Beneficiary = da.Beneficiary()
		}

		infos = append(infos, info)
	}

	return infos
}

// RetrieveBalances returns a copy of the token balance sheet.
func (s *State) RetrieveBalances() map[ledger.AccountID]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token.Balances()
}

// RetrieveTotalSupply returns the current token supply.
func (s *State) RetrieveTotalSupply() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token.TotalSupply()
}

// RetrieveTokenInfo returns the token name and symbol.
func (s *State) RetrieveTokenInfo() token.Info {
	return s.token.Info()
}

// RetrieveJournalSequence returns the sequence of the last journal record.
func (s *State) RetrieveJournalSequence() uint64 {
	return s.journal.Sequence()
}

// =============================================================================

// QueryAllocation returns the allocation bookkeeping for the specified
// target. A zero value is returned for an unknown target.
func (s *State) QueryAllocation(account ledger.AccountID) ledger.AllocationData {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.GetAllocationData(account)
}

// QueryBalance returns the token balance for the specified account.
func (s *State) QueryBalance(account ledger.AccountID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token.BalanceOf(account)
}

// QueryRecordsBySequence returns the set of journal records based on
// sequence numbers.
func (s *State) QueryRecordsBySequence(from uint64, to uint64) []journal.Record {
	if from == QueryLastest {
		from = s.journal.Sequence()
		to = from
	}
	if to == QueryLastest {
		to = s.journal.Sequence()
	}

	var out []journal.Record
	for i := from; i <= to; i++ {
		record, err := s.journal.GetRecord(i)
		if err != nil {
			s.evHandler("state: getrecord: ERROR: %s", err)
			return nil
		}
		out = append(out, record)
	}

	return out
}
