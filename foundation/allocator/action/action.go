// Package action defines the signed governance instructions the node accepts
// and the wire form clients submit them in.
package action

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
	"github.com/ardanlabs/issuance/foundation/allocator/signature"
)

// Kind identifies a governance action.
type Kind string

// The set of governance actions.
const (
	SetAllocation    Kind = "set_allocation"
	SetIssuance      Kind = "set_issuance"
	SetDefaultTarget Kind = "set_default_target"
	SetPaused        Kind = "set_paused"
	CreateTarget     Kind = "create_target"
	NotifyTarget     Kind = "notify_target"
	ForceNotifyBlock Kind = "force_notify_block"
)

// Action is a governance instruction for the issuance ledger. The fields
// past the header apply per kind; unused fields stay zero.
type Action struct {
	ChainID uint16           `json:"chain_id"`
	Nonce   uint64           `json:"nonce"`
	FromID  ledger.AccountID `json:"from"`
	Kind    Kind             `json:"kind"`

	Target            ledger.AccountID `json:"target,omitempty"`
	Beneficiary       ledger.AccountID `json:"beneficiary,omitempty"`
	AllocatorRate     uint64           `json:"allocator_rate,omitempty"`
	SelfRate          uint64           `json:"self_rate,omitempty"`
	IssuancePerBlock  uint64           `json:"issuance_per_block,omitempty"`
	MinSettledBlock   uint64           `json:"min_settled_block,omitempty"`
	NotificationBlock uint64           `json:"notification_block,omitempty"`
	Paused            bool             `json:"paused,omitempty"`
}

// Sign uses the specified private key to sign the action.
func (act Action) Sign(privateKey *ecdsa.PrivateKey) (SignedAction, error) {
	v, r, s, err := signature.Sign(act, privateKey)
	if err != nil {
		return SignedAction{}, err
	}

	signedAct := SignedAction{
		Action: act,
		V:      v,
		R:      r,
		S:      s,
	}

	return signedAct, nil
}

// =============================================================================

// SignedAction is a signed version of the action. This is how the wallet
// provides actions for execution by the node.
type SignedAction struct {
	Action
	V *big.Int `json:"v"`
	R *big.Int `json:"r"`
	S *big.Int `json:"s"`
}

// Validate verifies the action has a proper signature that conforms to our
// standards and carries acceptable fields for its kind. It also checks the
// from field matches the account that signed the action.
func (act SignedAction) Validate(chainID uint16) error {
	if act.ChainID != chainID {
		return fmt.Errorf("invalid chain id, got[%d] exp[%d]", act.ChainID, chainID)
	}

	if !act.FromID.IsAccountID() {
		return errors.New("from account is not properly formatted")
	}

	switch act.Kind {
	case SetAllocation, NotifyTarget, ForceNotifyBlock:
		if !act.Target.IsAccountID() {
			return errors.New("target account is not properly formatted")
		}

	case SetDefaultTarget:
		if !act.Target.IsZero() && !act.Target.IsAccountID() {
			return errors.New("target account is not properly formatted")
		}

	case CreateTarget:
		if !act.Beneficiary.IsAccountID() {
			return errors.New("beneficiary account is not properly formatted")
		}

	case SetIssuance, SetPaused:

	default:
		return fmt.Errorf("unknown action kind %q", act.Kind)
	}

	if err := signature.VerifySignature(act.V, act.R, act.S); err != nil {
		return err
	}

	address, err := signature.FromAddress(act.Action, act.V, act.R, act.S)
	if err != nil {
		return err
	}

	if address != string(act.FromID) {
		return errors.New("signature address doesn't match from address")
	}

	return nil
}

// FromAccount extracts the account that signed the action.
func (act SignedAction) FromAccount() (ledger.AccountID, error) {
	address, err := signature.FromAddress(act.Action, act.V, act.R, act.S)
	return ledger.AccountID(address), err
}

// SignatureString returns the signature as a string.
func (act SignedAction) SignatureString() string {
	return signature.SignatureString(act.V, act.R, act.S)
}

// String implements the fmt.Stringer interface for logging.
func (act SignedAction) String() string {
	return fmt.Sprintf("%s:%d:%s", act.FromID, act.Nonce, act.Kind)
}
