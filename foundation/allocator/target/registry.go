// Package target provides the runtime for issuance targets: the registry of
// live target implementations bound to accounts, the direct allocation
// target, and deterministic account derivation for node-created targets. An
// account with a binding is what the ledger treats as having code; every
// other account is a plain balance account.
package target

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Registry is the set of live targets bound to accounts.
type Registry struct {
	bindings map[ledger.AccountID]ledger.Target
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[ledger.AccountID]ledger.Target),
	}
}

// Bind attaches a target implementation to an account. An account can carry
// only one binding for its lifetime.
func (r *Registry) Bind(account ledger.AccountID, tgt ledger.Target) error {
	if account.IsZero() || !account.IsAccountID() {
		return fmt.Errorf("bind: invalid account %q", account)
	}
	if tgt == nil {
		return errors.New("bind: missing target implementation")
	}
	if _, exists := r.bindings[account]; exists {
		return fmt.Errorf("bind: account %s already bound", account)
	}

	r.bindings[account] = tgt

	return nil
}

// Unbind removes the binding for the account. Used to roll back a binding
// whose registration did not take effect.
func (r *Registry) Unbind(account ledger.AccountID) {
	delete(r.bindings, account)
}

// Resolve returns the target bound to the account. This is the resolver the
// ledger probes and notifies targets through.
func (r *Registry) Resolve(account ledger.AccountID) (ledger.Target, bool) {
	tgt, exists := r.bindings[account]
	return tgt, exists
}

// Accounts returns the bound accounts in sorted order.
func (r *Registry) Accounts() []ledger.AccountID {
	accounts := make([]ledger.AccountID, 0, len(r.bindings))
	for account := range r.bindings {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	return accounts
}

// =============================================================================

// DeriveAccount produces the account id a node-created target lives at. The
// id is a keccak digest of the creator and a sequence value, the way contract
// addresses derive from their deployer, so the same creation always lands on
// the same account.
func DeriveAccount(creator ledger.AccountID, sequence uint64) ledger.AccountID {
	data := fmt.Sprintf("%s:%d", strings.ToLower(string(creator)), sequence)
	hash := crypto.Keccak256([]byte(data))

	return ledger.AccountID(common.BytesToAddress(hash[12:]).String())
}
