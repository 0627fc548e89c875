// Package state is the core API for the issuance allocator and implements
// all the business rules and processing.
package state

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ardanlabs/issuance/foundation/allocator/genesis"
	"github.com/ardanlabs/issuance/foundation/allocator/journal"
	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
	"github.com/ardanlabs/issuance/foundation/allocator/target"
	"github.com/ardanlabs/issuance/foundation/allocator/token"
)

// EventHandler defines a function that is called when events occur in the
// processing of governance actions and settlements.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for the block clock and background settlement.
type Worker interface {
	Shutdown()
	SignalSettlement()
}

// =============================================================================

// Config represents the configuration required to start the allocator node.
type Config struct {
	Genesis   genesis.Genesis
	Storage   journal.Serializer
	EvHandler EventHandler
}

// State manages the issuance allocator.
type State struct {
	mu sync.Mutex

	genesis   genesis.Genesis
	governor  ledger.AccountID
	evHandler EventHandler

	block uint64
	nonce uint64

	token   *token.Token
	targets *target.Registry
	ledger  *ledger.Ledger
	journal *journal.Journal

	Worker Worker
}

// New constructs the allocator state from the genesis configuration and
// replays the journal so the ledger resumes where it left off.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	// Create the token and apply the genesis balance sheet.
	tkn, err := token.New(token.Info{Name: cfg.Genesis.TokenName, Symbol: cfg.Genesis.TokenSymbol}, cfg.Genesis.Balances)
	if err != nil {
		return nil, err
	}

	s := State{
		genesis:   cfg.Genesis,
		governor:  cfg.Genesis.Governor,
		evHandler: ev,
		block:     cfg.Genesis.StartBlock,
		token:     tkn,
		targets:   target.NewRegistry(),
	}

	// Bind the genesis targets and capture their starting allocations. The
	// accounts are sorted so the ledger adopts them in a stable order.
	accounts := make([]ledger.AccountID, 0, len(cfg.Genesis.Targets))
	for account := range cfg.Genesis.Targets {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	var allocations []ledger.Allocation
	for _, account := range accounts {
		gt := cfg.Genesis.Targets[account]

		if gt.Kind != genesis.KindDirect {
			return nil, fmt.Errorf("target %s has unknown kind %q", account, gt.Kind)
		}

		da, err := target.NewDirectAllocation(account, gt.Beneficiary, tkn)
		if err != nil {
			return nil, err
		}
		if err := s.targets.Bind(account, da); err != nil {
			return nil, err
		}

		if gt.AllocatorRate > 0 || gt.SelfRate > 0 {
			allocations = append(allocations, ledger.Allocation{
				Target:        account,
				AllocatorRate: gt.AllocatorRate,
				SelfRate:      gt.SelfRate,
			})
		}
	}

	// Create the ledger. The current block function reads the state's block
	// so journal replay can move the clock record by record.
	lgr, err := ledger.New(ledger.Config{
		IssuancePerBlock: cfg.Genesis.IssuancePerBlock,
		StartBlock:       cfg.Genesis.StartBlock,
		DefaultTarget:    cfg.Genesis.DefaultTarget,
		Allocations:      allocations,
		Minter:           tkn,
		Targets:          s.targets,
		CurrentBlock:     func() uint64 { return s.block },
		EvHandler:        ev,
	})
	if err != nil {
		return nil, err
	}
	s.ledger = lgr

	// Open the journal and validate the hash links.
	jrnl, err := journal.New(cfg.Storage, ev)
	if err != nil {
		return nil, err
	}
	s.journal = jrnl

	// Replay the journal against the fresh ledger. Each record is applied
	// at the block it was originally recorded at.
	iter := jrnl.ForEach()
	for record, err := iter.Next(); !iter.Done(); record, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		if err := s.replayRecord(record); err != nil {
			return nil, fmt.Errorf("replay record %d: %w", record.Sequence, err)
		}
	}

	ev("state: new: block[%d] nonce[%d] targets[%d] supply[%d]", s.block, s.nonce, s.ledger.GetTargetCount(), tkn.TotalSupply())

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &s, nil
}

// replayRecord applies a single journal record to the ledger, reproducing
// the side effects the record captured when it was first written.
func (s *State) replayRecord(record journal.Record) error {
	s.block = record.Block

	switch record.Kind {
	case journal.KindAction:
		if _, err := s.executeAction(record.Action); err != nil {
			return err
		}
		s.nonce = record.Action.Nonce

	case journal.KindSettle:
		if _, err := s.ledger.DistributeIssuance(); err != nil {
			return err
		}

	case journal.KindSettlePending:
		if _, err := s.ledger.DistributePendingIssuanceTo(record.ToBlock); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown record kind %q", record.Kind)
	}

	return nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Make sure the journal storage is properly closed.
	defer func() {
		s.journal.Close()
	}()

	// Stop all settlement activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
