// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
)

// KindDirect identifies a target that forwards everything it receives to a
// beneficiary account.
const KindDirect = "direct"

// Target describes an issuance target created at genesis.
type Target struct {
	Kind          string           `json:"kind"`
	Beneficiary   ledger.AccountID `json:"beneficiary"`
	AllocatorRate uint64           `json:"allocator_rate"`
	SelfRate      uint64           `json:"self_rate"`
}

// Genesis represents the genesis file.
type Genesis struct {
	Date             time.Time                   `json:"date"`
	ChainID          uint16                      `json:"chain_id"`
	StartBlock       uint64                      `json:"start_block"`
	IssuancePerBlock uint64                      `json:"issuance_per_block"`
	TokenName        string                      `json:"token_name"`
	TokenSymbol      string                      `json:"token_symbol"`
	Governor         ledger.AccountID            `json:"governor"`
	DefaultTarget    ledger.AccountID            `json:"default_target"`
	Balances         map[ledger.AccountID]uint64 `json:"balance_sheet"`
	Targets          map[ledger.AccountID]Target `json:"targets"`
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, fmt.Errorf("genesis file %s: %w", path, err)
	}

	return genesis, nil
}

// Validate checks the genesis carries a usable configuration.
func (g Genesis) Validate() error {
	if g.Governor.IsZero() || !g.Governor.IsAccountID() {
		return fmt.Errorf("governor account %q is not valid", g.Governor)
	}
	if !g.DefaultTarget.IsZero() && !g.DefaultTarget.IsAccountID() {
		return fmt.Errorf("default target %q is not valid", g.DefaultTarget)
	}

	for account, target := range g.Targets {
		if account.IsZero() || !account.IsAccountID() {
			return fmt.Errorf("target account %q is not valid", account)
		}
		if target.Beneficiary.IsZero() || !target.Beneficiary.IsAccountID() {
			return fmt.Errorf("target %s beneficiary %q is not valid", account, target.Beneficiary)
		}
	}

	return nil
}
