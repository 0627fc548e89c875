package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/issuance/foundation/allocator/action"
	"github.com/ardanlabs/issuance/foundation/allocator/journal"
	"github.com/ardanlabs/issuance/foundation/allocator/target"
)

// ErrNotGovernor is returned when an action is signed by an account other
// than the governor.
var ErrNotGovernor = errors.New("action signer is not the governor")

// SubmitAction accepts a signed governance action, executes it against the
// ledger, and journals the outcome. The returned flag reports whether the
// action applied; a valid action held back by its settlement gate returns
// false with no error and still consumes the nonce.
func (s *State) SubmitAction(signedAct action.SignedAction) (bool, error) {
	if err := signedAct.Validate(s.genesis.ChainID); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if signedAct.FromID != s.governor {
		return false, ErrNotGovernor
	}

	if signedAct.Nonce <= s.nonce {
		return false, fmt.Errorf("action invalid, nonce too small, current %d, provided %d", s.nonce, signedAct.Nonce)
	}

	s.evHandler("state: submitaction: act[%s] block[%d]", signedAct, s.block)

	lastSettled := s.ledger.LastDistributionBlock()

	applied, err := s.executeAction(&signedAct)
	if err != nil {

		// The action failed after its internal settlement already ran. The
		// settlement stands, so journal it or a replay lands elsewhere.
		if s.ledger.LastDistributionBlock() != lastSettled {
			if _, jerr := s.journal.Append(journal.Record{Block: s.block, Kind: journal.KindSettle}); jerr != nil {
				return false, fmt.Errorf("journal settlement record: %w", jerr)
			}
		}

		return false, err
	}

	if _, err := s.journal.Append(journal.Record{Block: s.block, Kind: journal.KindAction, Action: &signedAct}); err != nil {
		return false, fmt.Errorf("journal action record: %w", err)
	}

	s.nonce = signedAct.Nonce

	return applied, nil
}

// =============================================================================

// executeAction dispatches the action to the ledger. Replay calls this
// directly so execution must depend only on the action and the clock.
func (s *State) executeAction(act *action.SignedAction) (bool, error) {
	switch act.Kind {
	case action.SetAllocation:
		return s.ledger.SetAllocation(act.Target, act.AllocatorRate, act.SelfRate, act.MinSettledBlock)

	case action.SetIssuance:
		return s.ledger.SetIssuancePerBlock(act.IssuancePerBlock, act.MinSettledBlock)

	case action.SetDefaultTarget:
		return s.ledger.SetDefaultTarget(act.Target, act.MinSettledBlock)

	case action.SetPaused:
		if err := s.ledger.SetPaused(act.Paused); err != nil {
			return false, err
		}
		return true, nil

	case action.CreateTarget:
		return s.createTarget(act)

	case action.NotifyTarget:
		return s.ledger.NotifyTarget(act.Target)

	case action.ForceNotifyBlock:
		if err := s.ledger.ForceTargetNotificationBlock(act.Target, act.NotificationBlock); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, fmt.Errorf("unknown action kind %q", act.Kind)
}

// createTarget derives a fresh account from the governor and nonce, binds a
// direct allocation target to it, and grants the requested rates. The bind
// is undone when the grant does not apply so a replay reaches the same
// state.
func (s *State) createTarget(act *action.SignedAction) (bool, error) {
	account := target.DeriveAccount(act.FromID, act.Nonce)

	da, err := target.NewDirectAllocation(account, act.Beneficiary, s.token)
	if err != nil {
		return false, err
	}

	if err := s.targets.Bind(account, da); err != nil {
		return false, err
	}

	applied, err := s.ledger.SetAllocation(account, act.AllocatorRate, act.SelfRate, act.MinSettledBlock)
	if err != nil || !applied {
		s.targets.Unbind(account)
		return applied, err
	}

	s.evHandler("state: createtarget: account[%s] beneficiary[%s] rates[%d/%d]", account, act.Beneficiary, act.AllocatorRate, act.SelfRate)

	return true, nil
}
