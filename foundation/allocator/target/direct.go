package target

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
)

// Transferer is the slice of the token a direct allocation target needs to
// move its received share.
type Transferer interface {
	Transfer(from ledger.AccountID, to ledger.AccountID, amount uint64) error
	BalanceOf(account ledger.AccountID) uint64
}

// DirectAllocation is the pass-through target. Issuance minted to its
// account sits there until it is swept to the beneficiary. The target sweeps
// itself before every allocation or rate change so each rate period's tokens
// stay attributable to the rates that produced them.
type DirectAllocation struct {
	account     ledger.AccountID
	beneficiary ledger.AccountID
	token       Transferer
}

// NewDirectAllocation constructs a direct allocation target holding at the
// specified account and paying out to the beneficiary.
func NewDirectAllocation(account ledger.AccountID, beneficiary ledger.AccountID, token Transferer) (*DirectAllocation, error) {
	if account.IsZero() || !account.IsAccountID() {
		return nil, fmt.Errorf("invalid account %q", account)
	}
	if beneficiary.IsZero() || !beneficiary.IsAccountID() {
		return nil, fmt.Errorf("invalid beneficiary %q", beneficiary)
	}
	if token == nil {
		return nil, errors.New("missing token")
	}

	da := DirectAllocation{
		account:     account,
		beneficiary: beneficiary,
		token:       token,
	}

	return &da, nil
}

// Account returns the account the target holds issuance at.
func (da *DirectAllocation) Account() ledger.AccountID {
	return da.account
}

// Beneficiary returns the account sweeps pay out to.
func (da *DirectAllocation) Beneficiary() ledger.AccountID {
	return da.beneficiary
}

// SupportsCapability reports which capabilities the target implements.
func (da *DirectAllocation) SupportsCapability(capability ledger.Capability) bool {
	return capability == ledger.CapabilityIssuanceTarget
}

// BeforeAllocationChange settles the target's holdings before its rates
// change.
func (da *DirectAllocation) BeforeAllocationChange(blockNumber uint64) error {
	return da.Sweep()
}

// BeforeRateChange settles the target's holdings before the global issuance
// rate changes.
func (da *DirectAllocation) BeforeRateChange(blockNumber uint64) error {
	return da.Sweep()
}

// Sweep forwards the target's full held balance to the beneficiary.
func (da *DirectAllocation) Sweep() error {
	balance := da.token.BalanceOf(da.account)
	if balance == 0 {
		return nil
	}

	return da.token.Transfer(da.account, da.beneficiary, balance)
}
