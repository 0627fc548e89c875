package ledger_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const (
	targetA       = ledger.AccountID("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")
	targetB       = ledger.AccountID("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4")
	targetC       = ledger.AccountID("0xa988b1866EaBF72B4c53b592c97aAD8e4b9bDCC0")
	defaultAcct   = ledger.AccountID("0xbEE6ACE826eC2DE1B7Fa9011E9b5fE0D599F5662")
	unboundAcct   = ledger.AccountID("0x6Fe6CF3c8fF57c58d24BfC869668F48BCbDb3BD2")
	malformedAcct = ledger.AccountID("0x1234")
)

// =============================================================================

type testMinter struct {
	balances map[ledger.AccountID]uint64
	minted   uint64
}

func newTestMinter() *testMinter {
	return &testMinter{balances: make(map[ledger.AccountID]uint64)}
}

func (m *testMinter) Mint(account ledger.AccountID, amount uint64) error {
	m.balances[account] += amount
	m.minted += amount
	return nil
}

type testTarget struct {
	capable    bool
	notifyErr  error
	onNotify   func(blockNumber uint64) error
	allocCalls []uint64
	rateCalls  []uint64
}

func (t *testTarget) SupportsCapability(capability ledger.Capability) bool {
	return t.capable && capability == ledger.CapabilityIssuanceTarget
}

func (t *testTarget) BeforeAllocationChange(blockNumber uint64) error {
	t.allocCalls = append(t.allocCalls, blockNumber)
	if t.notifyErr != nil {
		return t.notifyErr
	}
	if t.onNotify != nil {
		return t.onNotify(blockNumber)
	}
	return nil
}

func (t *testTarget) BeforeRateChange(blockNumber uint64) error {
	t.rateCalls = append(t.rateCalls, blockNumber)
	if t.notifyErr != nil {
		return t.notifyErr
	}
	if t.onNotify != nil {
		return t.onNotify(blockNumber)
	}
	return nil
}

type testResolver map[ledger.AccountID]ledger.Target

func (r testResolver) Resolve(account ledger.AccountID) (ledger.Target, bool) {
	tgt, exists := r[account]
	return tgt, exists
}

// fixture wires a ledger to in-memory collaborators with a settable block
// clock.
type fixture struct {
	block   uint64
	minter  *testMinter
	targets testResolver
}

func newFixture() *fixture {
	return &fixture{
		minter:  newTestMinter(),
		targets: make(testResolver),
	}
}

func (f *fixture) config(issuancePerBlock uint64) ledger.Config {
	return ledger.Config{
		IssuancePerBlock: issuancePerBlock,
		DefaultTarget:    defaultAcct,
		Minter:           f.minter,
		Targets:          f.targets,
		CurrentBlock:     func() uint64 { return f.block },
	}
}

func (f *fixture) bind(account ledger.AccountID) *testTarget {
	tgt := &testTarget{capable: true}
	f.targets[account] = tgt
	return tgt
}

// =============================================================================

func Test_Distribution(t *testing.T) {
	t.Log("Given the need to distribute issuance across registered targets.")
	{
		t.Log("\tTest 0:\tWhen distributing with a single allocator target.")
		{
			f := newFixture()
			f.bind(targetA)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create the ledger: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to create the ledger.", success)

			if _, err := lgr.SetAllocation(targetA, 30, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to set the allocation: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to set the allocation.", success)

			f.block = 5
			settled, err := lgr.DistributeIssuance()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to distribute issuance: %v", failed, err)
			}
			if settled != 5 {
				t.Fatalf("\t%s\tTest 0:\tShould settle through block 5, got %d.", failed, settled)
			}
			t.Logf("\t%s\tTest 0:\tShould settle through block 5.", success)

			if got := f.minter.balances[targetA]; got != 150 {
				t.Errorf("\t%s\tTest 0:\tShould mint 150 to the target, got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould mint 150 to the target.", success)
			}

			if got := f.minter.balances[defaultAcct]; got != 350 {
				t.Errorf("\t%s\tTest 0:\tShould mint the 350 remainder to the default target, got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould mint the 350 remainder to the default target.", success)
			}

			if f.minter.minted != 500 {
				t.Errorf("\t%s\tTest 0:\tShould conserve the full issuance of 500, got %d.", failed, f.minter.minted)
			} else {
				t.Logf("\t%s\tTest 0:\tShould conserve the full issuance of 500.", success)
			}

			if _, err := lgr.DistributeIssuance(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to distribute again in the same block: %v", failed, err)
			}
			if f.minter.minted != 500 {
				t.Errorf("\t%s\tTest 0:\tShould not mint twice in the same block, got %d.", failed, f.minter.minted)
			} else {
				t.Logf("\t%s\tTest 0:\tShould not mint twice in the same block.", success)
			}
		}

		t.Log("\tTest 1:\tWhen a target mints part of its allocation itself.")
		{
			f := newFixture()
			f.bind(targetA)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to create the ledger: %v", failed, err)
			}

			if _, err := lgr.SetAllocation(targetA, 30, 20, 0); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to set the allocation: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to set a mixed allocation.", success)

			f.block = 4
			if _, err := lgr.DistributeIssuance(); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to distribute issuance: %v", failed, err)
			}

			if got := f.minter.balances[targetA]; got != 120 {
				t.Errorf("\t%s\tTest 1:\tShould mint only the allocator share of 120, got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 1:\tShould mint only the allocator share of 120.", success)
			}

			if got := f.minter.balances[defaultAcct]; got != 200 {
				t.Errorf("\t%s\tTest 1:\tShould mint 200 to the default target, got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 1:\tShould mint 200 to the default target.", success)
			}

			state := lgr.GetDistributionState()
			if state.SelfMintingOffset != 0 {
				t.Errorf("\t%s\tTest 1:\tShould consume the self minting reservation, got %d.", failed, state.SelfMintingOffset)
			} else {
				t.Logf("\t%s\tTest 1:\tShould consume the self minting reservation.", success)
			}
			if state.LastSelfMintingBlock != 4 {
				t.Errorf("\t%s\tTest 1:\tShould advance the self minting block to 4, got %d.", failed, state.LastSelfMintingBlock)
			} else {
				t.Logf("\t%s\tTest 1:\tShould advance the self minting block to 4.", success)
			}
		}

		t.Log("\tTest 2:\tWhen the default target is the null account.")
		{
			f := newFixture()
			f.bind(targetA)

			cfg := f.config(100)
			cfg.DefaultTarget = ledger.ZeroAccountID

			lgr, err := ledger.New(cfg)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to create the ledger: %v", failed, err)
			}

			if _, err := lgr.SetAllocation(targetA, 30, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to set the allocation: %v", failed, err)
			}

			f.block = 5
			if _, err := lgr.DistributeIssuance(); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to distribute issuance: %v", failed, err)
			}

			if f.minter.minted != 150 {
				t.Errorf("\t%s\tTest 2:\tShould burn the remainder and mint only 150, got %d.", failed, f.minter.minted)
			} else {
				t.Logf("\t%s\tTest 2:\tShould burn the remainder and mint only 150.", success)
			}
		}
	}
}

func Test_PausedDistribution(t *testing.T) {
	t.Log("Given the need to settle a paused period retroactively.")
	{
		t.Log("\tTest 0:\tWhen rates change while paused and blocks keep advancing.")
		{
			f := newFixture()
			f.bind(targetA)
			f.bind(targetB)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create the ledger: %v", failed, err)
			}

			if _, err := lgr.SetAllocation(targetA, 40, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to set the allocation: %v", failed, err)
			}

			f.block = 2
			if _, err := lgr.DistributeIssuance(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to distribute issuance: %v", failed, err)
			}
			mintedBeforePause := f.minter.minted

			if err := lgr.SetPaused(true); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to pause: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to pause.", success)

			applied, err := lgr.SetAllocation(targetB, 0, 20, 0)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to set a self minting rate while paused: %v", failed, err)
			}
			if !applied {
				t.Fatalf("\t%s\tTest 0:\tShould apply the unforced change at the settled block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to set a self minting rate while paused.", success)

			f.block = 5

			state := lgr.GetDistributionState()
			if state.SelfMintingOffset != 60 {
				t.Fatalf("\t%s\tTest 0:\tShould accrue a reservation of 60 over the pause, got %d.", failed, state.SelfMintingOffset)
			}
			t.Logf("\t%s\tTest 0:\tShould accrue a reservation of 60 over the pause.", success)

			settled, err := lgr.DistributeIssuance()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to call distribute while paused: %v", failed, err)
			}
			if settled != 2 || f.minter.minted != mintedBeforePause {
				t.Fatalf("\t%s\tTest 0:\tShould not advance or mint while paused.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not advance or mint while paused.", success)

			if _, err := lgr.DistributePendingIssuance(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to distribute the pending issuance: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to distribute the pending issuance.", success)

			if got := f.minter.balances[targetA]; got != 80+120 {
				t.Errorf("\t%s\tTest 0:\tShould pay the full allocator rate for the paused span, got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould pay the full allocator rate for the paused span.", success)
			}

			if got := f.minter.balances[defaultAcct]; got != 120+120 {
				t.Errorf("\t%s\tTest 0:\tShould pay the implied remainder to the default target, got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould pay the implied remainder to the default target.", success)
			}

			state = lgr.GetDistributionState()
			if state.SelfMintingOffset != 0 {
				t.Errorf("\t%s\tTest 0:\tShould reset the reservation to 0, got %d.", failed, state.SelfMintingOffset)
			} else {
				t.Logf("\t%s\tTest 0:\tShould reset the reservation to 0.", success)
			}
			if state.LastDistributionBlock != 5 {
				t.Errorf("\t%s\tTest 0:\tShould settle through block 5, got %d.", failed, state.LastDistributionBlock)
			} else {
				t.Logf("\t%s\tTest 0:\tShould settle through block 5.", success)
			}
		}

		t.Log("\tTest 1:\tWhen an unforced change arrives behind the settlement gate.")
		{
			f := newFixture()
			f.bind(targetA)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to create the ledger: %v", failed, err)
			}

			if err := lgr.SetPaused(true); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to pause: %v", failed, err)
			}
			f.block = 3

			applied, err := lgr.SetAllocation(targetA, 10, 0, 3)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould not error on a gated change: %v", failed, err)
			}
			if applied {
				t.Fatalf("\t%s\tTest 1:\tShould skip the change while settlement is behind.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould skip the change while settlement is behind.", success)

			if alc := lgr.GetAllocation(targetA); alc.AllocatorRate != 0 {
				t.Errorf("\t%s\tTest 1:\tShould leave the allocation untouched, got %d.", failed, alc.AllocatorRate)
			} else {
				t.Logf("\t%s\tTest 1:\tShould leave the allocation untouched.", success)
			}

			applied, err = lgr.SetAllocation(targetA, 10, 0, 0)
			if err != nil || !applied {
				t.Fatalf("\t%s\tTest 1:\tShould apply the forced change: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould apply the forced change.", success)
		}
	}
}

func Test_PartialSettlement(t *testing.T) {
	t.Log("Given the need to settle a window that cannot cover every entitlement.")
	{
		t.Log("\tTest 0:\tWhen the reserved self minting starves the allocator share.")
		{
			f := newFixture()
			f.bind(targetA)
			f.bind(targetB)
			f.bind(targetC)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create the ledger: %v", failed, err)
			}

			if _, err := lgr.SetAllocation(targetC, 0, 80, 0); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to set the self minting allocation: %v", failed, err)
			}
			if _, err := lgr.SetAllocation(targetA, 10, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to set the first allocation: %v", failed, err)
			}
			if _, err := lgr.SetAllocation(targetB, 10, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to set the second allocation: %v", failed, err)
			}

			if err := lgr.SetPaused(true); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to pause: %v", failed, err)
			}
			f.block = 10

			// Retroactive rewrite of the paused span: drop the self minter,
			// raise the allocator rates, all forced past the gate.
			if _, err := lgr.SetAllocation(targetC, 0, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to remove the self minter: %v", failed, err)
			}
			if _, err := lgr.SetAllocation(targetA, 40, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to raise the first allocation: %v", failed, err)
			}
			if _, err := lgr.SetAllocation(targetB, 20, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to raise the second allocation: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to rewrite the rates while paused.", success)

			state := lgr.GetDistributionState()
			if state.SelfMintingOffset != 800 {
				t.Fatalf("\t%s\tTest 0:\tShould hold a reservation of 800, got %d.", failed, state.SelfMintingOffset)
			}
			t.Logf("\t%s\tTest 0:\tShould hold a reservation of 800.", success)

			if _, err := lgr.DistributePendingIssuanceTo(10); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to settle the span: %v", failed, err)
			}

			// available = 1000 - 800 = 200 against an entitlement of 600.
			if got := f.minter.balances[targetA]; got != 133 {
				t.Errorf("\t%s\tTest 0:\tShould pay the first target its floor share of 133, got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould pay the first target its floor share of 133.", success)
			}
			if got := f.minter.balances[targetB]; got != 66 {
				t.Errorf("\t%s\tTest 0:\tShould pay the second target its floor share of 66, got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould pay the second target its floor share of 66.", success)
			}
			if got := f.minter.balances[defaultAcct]; got != 0 {
				t.Errorf("\t%s\tTest 0:\tShould pay the default target nothing, got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould pay the default target nothing.", success)
			}
			if f.minter.minted > 200 {
				t.Errorf("\t%s\tTest 0:\tShould never mint more than the available 200, got %d.", failed, f.minter.minted)
			} else {
				t.Logf("\t%s\tTest 0:\tShould never mint more than the available 200.", success)
			}

			state = lgr.GetDistributionState()
			if state.SelfMintingOffset != 0 {
				t.Errorf("\t%s\tTest 0:\tShould consume the reservation in full, got %d.", failed, state.SelfMintingOffset)
			} else {
				t.Logf("\t%s\tTest 0:\tShould consume the reservation in full.", success)
			}
		}

		t.Log("\tTest 1:\tWhen a paused span settles in two windows.")
		{
			f := newFixture()
			f.bind(targetA)
			f.bind(targetC)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to create the ledger: %v", failed, err)
			}

			if _, err := lgr.SetAllocation(targetC, 0, 80, 0); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to set the self minting allocation: %v", failed, err)
			}
			if _, err := lgr.SetAllocation(targetA, 20, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to set the allocator rate: %v", failed, err)
			}

			if err := lgr.SetPaused(true); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to pause: %v", failed, err)
			}
			f.block = 10

			if _, err := lgr.SetAllocation(targetC, 0, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to remove the self minter: %v", failed, err)
			}

			// First window: the 800 reservation swallows the 500 of blocks
			// 1-5 entirely.
			if _, err := lgr.DistributePendingIssuanceTo(5); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to settle the first window: %v", failed, err)
			}
			if f.minter.minted != 0 {
				t.Errorf("\t%s\tTest 1:\tShould mint nothing in the first window, got %d.", failed, f.minter.minted)
			} else {
				t.Logf("\t%s\tTest 1:\tShould mint nothing in the first window.", success)
			}

			state := lgr.GetDistributionState()
			if state.SelfMintingOffset != 300 {
				t.Fatalf("\t%s\tTest 1:\tShould carry 300 of the reservation forward, got %d.", failed, state.SelfMintingOffset)
			}
			t.Logf("\t%s\tTest 1:\tShould carry 300 of the reservation forward.", success)

			// Second window: available = 500 - 300 = 200 against an
			// entitlement of 100, so the regime is full again.
			if _, err := lgr.DistributePendingIssuanceTo(10); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to settle the second window: %v", failed, err)
			}
			if got := f.minter.balances[targetA]; got != 100 {
				t.Errorf("\t%s\tTest 1:\tShould pay the full entitlement of 100, got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 1:\tShould pay the full entitlement of 100.", success)
			}
			if got := f.minter.balances[defaultAcct]; got != 100 {
				t.Errorf("\t%s\tTest 1:\tShould pay the default target the 100 remainder, got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 1:\tShould pay the default target the 100 remainder.", success)
			}
		}

		t.Log("\tTest 2:\tWhen the settlement block is outside the valid range.")
		{
			f := newFixture()

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to create the ledger: %v", failed, err)
			}

			f.block = 5
			if _, err := lgr.DistributeIssuance(); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to distribute issuance: %v", failed, err)
			}

			if _, err := lgr.DistributePendingIssuanceTo(3); !errors.Is(err, ledger.ErrBlockOutOfRange) {
				t.Errorf("\t%s\tTest 2:\tShould reject a block behind the settled block: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 2:\tShould reject a block behind the settled block.", success)
			}

			if _, err := lgr.DistributePendingIssuanceTo(6); !errors.Is(err, ledger.ErrBlockOutOfRange) {
				t.Errorf("\t%s\tTest 2:\tShould reject a block past the current block: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 2:\tShould reject a block past the current block.", success)
			}

			if _, err := lgr.DistributePendingIssuanceTo(5); err != nil {
				t.Errorf("\t%s\tTest 2:\tShould accept the settled block itself: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 2:\tShould accept the settled block itself.", success)
			}
		}
	}
}

func Test_AllocationValidation(t *testing.T) {
	t.Log("Given the need to validate allocation changes.")
	{
		t.Log("\tTest 0:\tWhen the target account is not acceptable.")
		{
			f := newFixture()
			f.bind(defaultAcct)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create the ledger: %v", failed, err)
			}

			if _, err := lgr.SetAllocation(ledger.ZeroAccountID, 10, 0, 0); !errors.Is(err, ledger.ErrInvalidTarget) {
				t.Errorf("\t%s\tTest 0:\tShould reject the null account: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 0:\tShould reject the null account.", success)
			}

			if _, err := lgr.SetAllocation(malformedAcct, 10, 0, 0); !errors.Is(err, ledger.ErrInvalidTarget) {
				t.Errorf("\t%s\tTest 0:\tShould reject a malformed account: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 0:\tShould reject a malformed account.", success)
			}

			if _, err := lgr.SetAllocation(defaultAcct, 10, 0, 0); !errors.Is(err, ledger.ErrAllocationForDefaultTarget) {
				t.Errorf("\t%s\tTest 0:\tShould reject the default target: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 0:\tShould reject the default target.", success)
			}

			if _, err := lgr.SetAllocation(unboundAcct, 10, 0, 0); err == nil {
				t.Errorf("\t%s\tTest 0:\tShould reject an account with no target bound.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould reject an account with no target bound.", success)
			}
		}

		t.Log("\tTest 1:\tWhen the target does not declare the capability.")
		{
			f := newFixture()
			tgt := f.bind(targetA)
			tgt.capable = false

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to create the ledger: %v", failed, err)
			}

			if _, err := lgr.SetAllocation(targetA, 10, 0, 0); !errors.Is(err, ledger.ErrTargetIncapable) {
				t.Errorf("\t%s\tTest 1:\tShould reject an incapable target: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 1:\tShould reject an incapable target.", success)
			}

			tgt.capable = true
			if _, err := lgr.SetAllocation(targetA, 10, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould accept the target once capable: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould accept the target once capable.", success)

			// Updates and removals skip the probe.
			tgt.capable = false
			if _, err := lgr.SetAllocation(targetA, 20, 0, 0); err != nil {
				t.Errorf("\t%s\tTest 1:\tShould allow an update without the probe: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 1:\tShould allow an update without the probe.", success)
			}
			if _, err := lgr.SetAllocation(targetA, 0, 0, 0); err != nil {
				t.Errorf("\t%s\tTest 1:\tShould allow a removal without the probe: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 1:\tShould allow a removal without the probe.", success)
			}
		}

		t.Log("\tTest 2:\tWhen allocations press against the issuance budget.")
		{
			f := newFixture()
			f.bind(targetA)
			f.bind(targetB)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to create the ledger: %v", failed, err)
			}

			if _, err := lgr.SetAllocation(targetA, 60, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould accept an allocation within budget: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould accept an allocation within budget.", success)

			if _, err := lgr.SetAllocation(targetB, 50, 0, 0); !errors.Is(err, ledger.ErrInsufficientAllocation) {
				t.Errorf("\t%s\tTest 2:\tShould reject an allocation over budget: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 2:\tShould reject an allocation over budget.", success)
			}

			if _, err := lgr.SetAllocation(targetB, 30, 10, 0); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould accept an allocation that exactly fills the budget: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould accept an allocation that exactly fills the budget.", success)

			if _, err := lgr.SetIssuancePerBlock(99, 0); !errors.Is(err, ledger.ErrInsufficientUnallocated) {
				t.Errorf("\t%s\tTest 2:\tShould reject a decrease into allocated rates: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 2:\tShould reject a decrease into allocated rates.", success)
			}

			if _, err := lgr.SetAllocation(targetB, 0, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to remove an allocation: %v", failed, err)
			}

			if _, err := lgr.SetIssuancePerBlock(70, 0); err != nil {
				t.Errorf("\t%s\tTest 2:\tShould accept a decrease into the unallocated rate: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 2:\tShould accept a decrease into the unallocated rate.", success)
			}

			if _, err := lgr.SetIssuancePerBlock(200, 0); err != nil {
				t.Errorf("\t%s\tTest 2:\tShould accept any increase: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 2:\tShould accept any increase.", success)
			}
		}
	}
}

func Test_DefaultTarget(t *testing.T) {
	t.Log("Given the need to manage the default target.")
	{
		t.Log("\tTest 0:\tWhen changing the default target.")
		{
			f := newFixture()
			outgoing := f.bind(defaultAcct)
			incoming := f.bind(targetB)
			f.bind(targetA)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create the ledger: %v", failed, err)
			}

			if _, err := lgr.SetAllocation(targetA, 10, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to set an allocation: %v", failed, err)
			}

			if _, err := lgr.SetDefaultTarget(targetA, 0); !errors.Is(err, ledger.ErrDefaultTargetAllocated) {
				t.Errorf("\t%s\tTest 0:\tShould reject an allocated account as default: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 0:\tShould reject an allocated account as default.", success)
			}

			f.block = 1
			applied, err := lgr.SetDefaultTarget(targetB, 0)
			if err != nil || !applied {
				t.Fatalf("\t%s\tTest 0:\tShould be able to change the default target: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to change the default target.", success)

			if len(outgoing.allocCalls) != 1 || outgoing.allocCalls[0] != 1 {
				t.Errorf("\t%s\tTest 0:\tShould notify the outgoing default once, got %v.", failed, outgoing.allocCalls)
			} else {
				t.Logf("\t%s\tTest 0:\tShould notify the outgoing default once.", success)
			}
			if len(incoming.allocCalls) != 1 || incoming.allocCalls[0] != 1 {
				t.Errorf("\t%s\tTest 0:\tShould notify the incoming default once, got %v.", failed, incoming.allocCalls)
			} else {
				t.Logf("\t%s\tTest 0:\tShould notify the incoming default once.", success)
			}

			if lgr.DefaultTarget() != targetB {
				t.Errorf("\t%s\tTest 0:\tShould report the new default target.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould report the new default target.", success)
			}

			// The former default is an ordinary account again.
			if _, err := lgr.SetAllocation(defaultAcct, 5, 0, 0); err != nil {
				t.Errorf("\t%s\tTest 0:\tShould allow an allocation for the former default: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 0:\tShould allow an allocation for the former default.", success)
			}

			calls := len(incoming.allocCalls)
			applied, err = lgr.SetDefaultTarget(targetB, 0)
			if err != nil || !applied {
				t.Fatalf("\t%s\tTest 0:\tShould report success for the unchanged default: %v", failed, err)
			}
			if len(incoming.allocCalls) != calls {
				t.Errorf("\t%s\tTest 0:\tShould not notify on the unchanged default.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould not notify on the unchanged default.", success)
			}
		}
	}
}

func Test_Notifications(t *testing.T) {
	t.Log("Given the need to notify targets at most once per block.")
	{
		t.Log("\tTest 0:\tWhen multiple changes land in one block.")
		{
			f := newFixture()
			tgt := f.bind(targetA)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create the ledger: %v", failed, err)
			}

			f.block = 1
			if _, err := lgr.SetAllocation(targetA, 10, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to set the allocation: %v", failed, err)
			}
			if _, err := lgr.SetAllocation(targetA, 20, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to update the allocation: %v", failed, err)
			}

			if len(tgt.allocCalls) != 1 {
				t.Errorf("\t%s\tTest 0:\tShould notify once for two changes in a block, got %d.", failed, len(tgt.allocCalls))
			} else {
				t.Logf("\t%s\tTest 0:\tShould notify once for two changes in a block.", success)
			}

			if alc := lgr.GetAllocation(targetA); alc.AllocatorRate != 20 {
				t.Errorf("\t%s\tTest 0:\tShould still apply the second change, got %d.", failed, alc.AllocatorRate)
			} else {
				t.Logf("\t%s\tTest 0:\tShould still apply the second change.", success)
			}

			f.block = 2
			if _, err := lgr.SetAllocation(targetA, 30, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to update in the next block: %v", failed, err)
			}
			if len(tgt.allocCalls) != 2 {
				t.Errorf("\t%s\tTest 0:\tShould notify again in the next block, got %d.", failed, len(tgt.allocCalls))
			} else {
				t.Logf("\t%s\tTest 0:\tShould notify again in the next block.", success)
			}
		}

		t.Log("\tTest 1:\tWhen notifications are requested and forced by hand.")
		{
			f := newFixture()
			f.bind(targetA)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to create the ledger: %v", failed, err)
			}

			f.block = 1
			notified, err := lgr.NotifyTarget(targetA)
			if err != nil || !notified {
				t.Fatalf("\t%s\tTest 1:\tShould notify the target on request: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould notify the target on request.", success)

			notified, err = lgr.NotifyTarget(targetA)
			if err != nil || notified {
				t.Fatalf("\t%s\tTest 1:\tShould suppress the second request in the block.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould suppress the second request in the block.", success)

			if err := lgr.ForceTargetNotificationBlock(targetA, 0); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to force the stamp back: %v", failed, err)
			}
			notified, err = lgr.NotifyTarget(targetA)
			if err != nil || !notified {
				t.Fatalf("\t%s\tTest 1:\tShould notify again after the stamp was forced back.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould notify again after the stamp was forced back.", success)

			if err := lgr.ForceTargetNotificationBlock(targetA, 10); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to force the stamp forward: %v", failed, err)
			}
			f.block = 5
			notified, err = lgr.NotifyTarget(targetA)
			if err != nil || notified {
				t.Fatalf("\t%s\tTest 1:\tShould suppress notifications under a future stamp.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould suppress notifications under a future stamp.", success)

			data := lgr.GetAllocationData(targetA)
			if data.LastNotifiedBlock != 10 {
				t.Errorf("\t%s\tTest 1:\tShould expose the forced stamp, got %d.", failed, data.LastNotifiedBlock)
			} else {
				t.Logf("\t%s\tTest 1:\tShould expose the forced stamp.", success)
			}

			if notified, _ := lgr.NotifyTarget(unboundAcct); notified {
				t.Errorf("\t%s\tTest 1:\tShould not notify an account with no target bound.", failed)
			} else {
				t.Logf("\t%s\tTest 1:\tShould not notify an account with no target bound.", success)
			}
		}

		t.Log("\tTest 2:\tWhen a notification callback fails.")
		{
			f := newFixture()
			tgt := f.bind(targetA)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to create the ledger: %v", failed, err)
			}

			f.block = 1
			if _, err := lgr.SetAllocation(targetA, 10, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to set the allocation: %v", failed, err)
			}

			f.block = 2
			tgt.notifyErr = errors.New("target rejects the change")
			if _, err := lgr.SetAllocation(targetA, 20, 0, 0); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould propagate the callback failure.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould propagate the callback failure.", success)

			if alc := lgr.GetAllocation(targetA); alc.AllocatorRate != 10 {
				t.Errorf("\t%s\tTest 2:\tShould leave the allocation unchanged, got %d.", failed, alc.AllocatorRate)
			} else {
				t.Logf("\t%s\tTest 2:\tShould leave the allocation unchanged.", success)
			}

			tgt.notifyErr = nil
			if _, err := lgr.SetAllocation(targetA, 20, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to retry in the same block: %v", failed, err)
			}
			if len(tgt.allocCalls) != 3 {
				t.Errorf("\t%s\tTest 2:\tShould notify again on the retry, got %d calls.", failed, len(tgt.allocCalls))
			} else {
				t.Logf("\t%s\tTest 2:\tShould notify again on the retry.", success)
			}
		}

		t.Log("\tTest 3:\tWhen the issuance rate changes over live targets.")
		{
			f := newFixture()
			tgtA := f.bind(targetA)
			tgtB := f.bind(targetB)
			tgtD := f.bind(defaultAcct)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to create the ledger: %v", failed, err)
			}

			if _, err := lgr.SetAllocation(targetA, 10, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to set the first allocation: %v", failed, err)
			}
			if _, err := lgr.SetAllocation(targetB, 10, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to set the second allocation: %v", failed, err)
			}

			f.block = 1
			if _, err := lgr.SetIssuancePerBlock(150, 0); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to change the issuance: %v", failed, err)
			}

			if len(tgtA.rateCalls) != 1 || len(tgtB.rateCalls) != 1 || len(tgtD.rateCalls) != 1 {
				t.Errorf("\t%s\tTest 3:\tShould notify every live target of the rate change.", failed)
			} else {
				t.Logf("\t%s\tTest 3:\tShould notify every live target of the rate change.", success)
			}

			if lgr.IssuancePerBlock() != 150 {
				t.Errorf("\t%s\tTest 3:\tShould apply the new issuance, got %d.", failed, lgr.IssuancePerBlock())
			} else {
				t.Logf("\t%s\tTest 3:\tShould apply the new issuance.", success)
			}
		}
	}
}

func Test_Reentrancy(t *testing.T) {
	t.Log("Given the need to guard mutations against reentrant callbacks.")
	{
		t.Log("\tTest 0:\tWhen a callback attempts another mutation.")
		{
			f := newFixture()
			tgt := f.bind(targetA)
			f.bind(targetB)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create the ledger: %v", failed, err)
			}

			tgt.onNotify = func(blockNumber uint64) error {
				_, err := lgr.SetAllocation(targetB, 5, 0, 0)
				return err
			}

			if _, err := lgr.SetAllocation(targetA, 10, 0, 0); !errors.Is(err, ledger.ErrReentrancy) {
				t.Fatalf("\t%s\tTest 0:\tShould reject the reentrant mutation: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject the reentrant mutation.", success)

			if alc := lgr.GetAllocation(targetA); alc.AllocatorRate != 0 || alc.SelfRate != 0 {
				t.Errorf("\t%s\tTest 0:\tShould leave the outer change unapplied.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould leave the outer change unapplied.", success)
			}

			tgt.onNotify = nil
			if _, err := lgr.SetAllocation(targetA, 10, 0, 0); err != nil {
				t.Errorf("\t%s\tTest 0:\tShould clear the guard after the failure: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 0:\tShould clear the guard after the failure.", success)
			}
		}

		t.Log("\tTest 1:\tWhen a callback distributes issuance reentrantly.")
		{
			f := newFixture()
			tgt := f.bind(targetA)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to create the ledger: %v", failed, err)
			}

			if _, err := lgr.SetAllocation(targetA, 30, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to set the allocation: %v", failed, err)
			}

			var innerSettled uint64
			tgt.onNotify = func(blockNumber uint64) error {
				settled, err := lgr.DistributeIssuance()
				innerSettled = settled
				return err
			}

			f.block = 3
			if _, err := lgr.SetAllocation(targetA, 50, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould allow distribution from the callback: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould allow distribution from the callback.", success)

			if innerSettled != 3 {
				t.Errorf("\t%s\tTest 1:\tShould report the settled block inside the callback, got %d.", failed, innerSettled)
			} else {
				t.Logf("\t%s\tTest 1:\tShould report the settled block inside the callback.", success)
			}

			// The span was settled at the old rate before the callback ran.
			if got := f.minter.balances[targetA]; got != 90 {
				t.Errorf("\t%s\tTest 1:\tShould settle the span once at the old rate, got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 1:\tShould settle the span once at the old rate.", success)
			}
			if f.minter.minted != 300 {
				t.Errorf("\t%s\tTest 1:\tShould not double mint the span, got %d.", failed, f.minter.minted)
			} else {
				t.Logf("\t%s\tTest 1:\tShould not double mint the span.", success)
			}
		}
	}
}

func Test_Enumeration(t *testing.T) {
	t.Log("Given the need to enumerate the registered targets.")
	{
		t.Log("\tTest 0:\tWhen targets come and go.")
		{
			f := newFixture()
			f.bind(targetA)
			f.bind(targetB)
			f.bind(targetC)

			lgr, err := ledger.New(f.config(100))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create the ledger: %v", failed, err)
			}

			if lgr.GetTargetCount() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould count only the default target at start, got %d.", failed, lgr.GetTargetCount())
			}
			t.Logf("\t%s\tTest 0:\tShould count only the default target at start.", success)

			if slot0, _ := lgr.GetTargetAt(0); slot0 != defaultAcct {
				t.Errorf("\t%s\tTest 0:\tShould keep the default target in slot zero, got %s.", failed, slot0)
			} else {
				t.Logf("\t%s\tTest 0:\tShould keep the default target in slot zero.", success)
			}

			for _, target := range []ledger.AccountID{targetA, targetB, targetC} {
				if _, err := lgr.SetAllocation(target, 10, 0, 0); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to set the allocation for %s: %v", failed, target, err)
				}
			}

			if lgr.GetTargetCount() != 4 {
				t.Fatalf("\t%s\tTest 0:\tShould count four targets, got %d.", failed, lgr.GetTargetCount())
			}
			t.Logf("\t%s\tTest 0:\tShould count four targets.", success)

			if _, exists := lgr.GetTargetAt(4); exists {
				t.Errorf("\t%s\tTest 0:\tShould report no target past the last slot.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould report no target past the last slot.", success)
			}

			if _, err := lgr.SetAllocation(targetA, 0, 0, 0); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to remove a target: %v", failed, err)
			}

			members := make(map[ledger.AccountID]bool)
			for i := 1; i < lgr.GetTargetCount(); i++ {
				target, exists := lgr.GetTargetAt(i)
				if !exists {
					t.Fatalf("\t%s\tTest 0:\tShould find a target in slot %d.", failed, i)
				}
				members[target] = true
			}
			if len(members) != 2 || !members[targetB] || !members[targetC] {
				t.Errorf("\t%s\tTest 0:\tShould keep the remaining targets enumerable, got %v.", failed, members)
			} else {
				t.Logf("\t%s\tTest 0:\tShould keep the remaining targets enumerable.", success)
			}

			targets := lgr.GetTargets()
			if targets[0].Target != defaultAcct || targets[0].AllocatorRate != 80 {
				t.Errorf("\t%s\tTest 0:\tShould derive the default rate in slot zero, got %d.", failed, targets[0].AllocatorRate)
			} else {
				t.Logf("\t%s\tTest 0:\tShould derive the default rate in slot zero.", success)
			}
		}
	}
}

func Test_InitialAllocations(t *testing.T) {
	t.Log("Given the need to adopt allocations at construction.")
	{
		t.Log("\tTest 0:\tWhen the initial allocations are acceptable.")
		{
			f := newFixture()
			f.bind(targetA)
			f.bind(targetB)

			cfg := f.config(100)
			cfg.StartBlock = 7
			cfg.Allocations = []ledger.Allocation{
				{Target: targetA, AllocatorRate: 30},
				{Target: targetB, AllocatorRate: 20, SelfRate: 10},
			}

			lgr, err := ledger.New(cfg)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create the ledger: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to create the ledger.", success)

			if lgr.GetTargetCount() != 3 {
				t.Errorf("\t%s\tTest 0:\tShould adopt both allocations, got %d targets.", failed, lgr.GetTargetCount())
			} else {
				t.Logf("\t%s\tTest 0:\tShould adopt both allocations.", success)
			}
			if lgr.LastDistributionBlock() != 7 {
				t.Errorf("\t%s\tTest 0:\tShould start settled at the start block, got %d.", failed, lgr.LastDistributionBlock())
			} else {
				t.Logf("\t%s\tTest 0:\tShould start settled at the start block.", success)
			}

			f.block = 9
			if _, err := lgr.DistributeIssuance(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to distribute issuance: %v", failed, err)
			}
			if got := f.minter.balances[targetA]; got != 60 {
				t.Errorf("\t%s\tTest 0:\tShould mint from the start block only, got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould mint from the start block only.", success)
			}
		}

		t.Log("\tTest 1:\tWhen the initial allocations are not acceptable.")
		{
			f := newFixture()
			f.bind(targetA)

			cfg := f.config(100)
			cfg.Allocations = []ledger.Allocation{
				{Target: targetA, AllocatorRate: 101},
			}
			if _, err := ledger.New(cfg); !errors.Is(err, ledger.ErrInsufficientAllocation) {
				t.Errorf("\t%s\tTest 1:\tShould reject allocations over budget: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 1:\tShould reject allocations over budget.", success)
			}

			cfg = f.config(100)
			cfg.Allocations = []ledger.Allocation{
				{Target: targetA, AllocatorRate: 10},
				{Target: targetA, AllocatorRate: 10},
			}
			if _, err := ledger.New(cfg); err == nil {
				t.Errorf("\t%s\tTest 1:\tShould reject a duplicate allocation.", failed)
			} else {
				t.Logf("\t%s\tTest 1:\tShould reject a duplicate allocation.", success)
			}

			cfg = f.config(100)
			cfg.Allocations = []ledger.Allocation{
				{Target: defaultAcct, AllocatorRate: 10},
			}
			if _, err := ledger.New(cfg); !errors.Is(err, ledger.ErrAllocationForDefaultTarget) {
				t.Errorf("\t%s\tTest 1:\tShould reject an allocation for the default target: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 1:\tShould reject an allocation for the default target.", success)
			}
		}
	}
}
