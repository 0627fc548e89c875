package public

import "github.com/ardanlabs/issuance/foundation/allocator/ledger"

type balance struct {
	Account ledger.AccountID `json:"account"`
	Name    string           `json:"name"`
	Balance uint64           `json:"balance"`
}

type balances struct {
	CurrentBlock uint64    `json:"current_block"`
	TotalSupply  uint64    `json:"total_supply"`
	Balances     []balance `json:"balances"`
}

type allocation struct {
	Target        ledger.AccountID `json:"target"`
	Name          string           `json:"name"`
	AllocatorRate uint64           `json:"allocator_rate"`
	SelfRate      uint64           `json:"self_rate"`
}

type allocations struct {
	IssuancePerBlock uint64           `json:"issuance_per_block"`
	DefaultTarget    ledger.AccountID `json:"default_target"`
	Allocations      []allocation     `json:"allocations"`
}

type allocationDetail struct {
	Target            ledger.AccountID `json:"target"`
	Name              string           `json:"name"`
	AllocatorRate     uint64           `json:"allocator_rate"`
	SelfRate          uint64           `json:"self_rate"`
	Notified          bool             `json:"notified"`
	LastNotifiedBlock uint64           `json:"last_notified_block"`
}

type targetDetail struct {
	Account       ledger.AccountID `json:"account"`
	Name          string           `json:"name"`
	Beneficiary   ledger.AccountID `json:"beneficiary,omitempty"`
	AllocatorRate uint64           `json:"allocator_rate"`
	SelfRate      uint64           `json:"self_rate"`
	Balance       uint64           `json:"balance"`
}

type distribution struct {
	CurrentBlock          uint64           `json:"current_block"`
	IssuancePerBlock      uint64           `json:"issuance_per_block"`
	LastDistributionBlock uint64           `json:"last_distribution_block"`
	LastSelfMintingBlock  uint64           `json:"last_self_minting_block"`
	SelfMintingOffset     uint64           `json:"self_minting_offset"`
	TotalAllocatorRate    uint64           `json:"total_allocator_rate"`
	TotalSelfRate         uint64           `json:"total_self_rate"`
	UnallocatedRate       uint64           `json:"unallocated_rate"`
	DefaultTarget         ledger.AccountID `json:"default_target"`
	Paused                bool             `json:"paused"`
	TargetCount           int              `json:"target_count"`
}
