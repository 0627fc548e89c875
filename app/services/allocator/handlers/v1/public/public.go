// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/ardanlabs/issuance/business/web/errs"
	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
	"github.com/ardanlabs/issuance/foundation/allocator/state"
	"github.com/ardanlabs/issuance/foundation/events"
	"github.com/ardanlabs/issuance/foundation/nameservice"
	"github.com/ardanlabs/issuance/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public allocator endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Balances returns the current token balance sheet.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	var sheet map[ledger.AccountID]uint64
	switch account {
	case "":
		sheet = h.State.RetrieveBalances()

	default:
		accountID, err := ledger.ToAccountID(account)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		sheet = map[ledger.AccountID]uint64{accountID: h.State.QueryBalance(accountID)}
	}

	accountIDs := make([]ledger.AccountID, 0, len(sheet))
	for accountID := range sheet {
		accountIDs = append(accountIDs, accountID)
	}
	sort.Slice(accountIDs, func(i, j int) bool { return accountIDs[i] < accountIDs[j] })

	bals := make([]balance, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		bal := balance{
			Account: accountID,
			Name:    h.NS.Lookup(accountID),
			Balance: sheet[accountID],
		}
		bals = append(bals, bal)
	}

	resp := balances{
		CurrentBlock: h.State.RetrieveCurrentBlock(),
		TotalSupply:  h.State.RetrieveTotalSupply(),
		Balances:     bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Targets returns every bound target with its allocation and balance.
func (h Handlers) Targets(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	infos := h.State.RetrieveTargets()

	targets := make([]targetDetail, len(infos))
	for i, info := range infos {
		targets[i] = targetDetail{
			Account:       info.Account,
			Name:          h.NS.Lookup(info.Account),
			Beneficiary:   info.Beneficiary,
			AllocatorRate: info.AllocatorRate,
			SelfRate:      info.SelfRate,
			Balance:       info.Balance,
		}
	}

	return web.Respond(ctx, w, targets, http.StatusOK)
}

// Allocations returns the allocation table. With a target parameter it
// returns the single allocation with its notification bookkeeping.
func (h Handlers) Allocations(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	tgt := web.Param(r, "target")

	if tgt != "" {
		accountID, err := ledger.ToAccountID(tgt)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}

		data := h.State.QueryAllocation(accountID)
		detail := allocationDetail{
			Target:            accountID,
			Name:              h.NS.Lookup(accountID),
			AllocatorRate:     data.AllocatorRate,
			SelfRate:          data.SelfRate,
			Notified:          data.Notified,
			LastNotifiedBlock: data.LastNotifiedBlock,
		}

		return web.Respond(ctx, w, detail, http.StatusOK)
	}

	ds := h.State.RetrieveDistributionState()

	table := h.State.RetrieveAllocations()
	alcs := make([]allocation, len(table))
	for i, alc := range table {
		alcs[i] = allocation{
			Target:        alc.Target,
			Name:          h.NS.Lookup(alc.Target),
			AllocatorRate: alc.AllocatorRate,
			SelfRate:      alc.SelfRate,
		}
	}

	resp := allocations{
		IssuancePerBlock: ds.IssuancePerBlock,
		DefaultTarget:    ds.DefaultTarget,
		Allocations:      alcs,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Distribution returns a snapshot of the distribution counters projected
// through the current block.
func (h Handlers) Distribution(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	ds := h.State.RetrieveDistributionState()

	resp := distribution{
		CurrentBlock:          h.State.RetrieveCurrentBlock(),
		IssuancePerBlock:      ds.IssuancePerBlock,
		LastDistributionBlock: ds.LastDistributionBlock,
		LastSelfMintingBlock:  ds.LastSelfMintingBlock,
		SelfMintingOffset:     ds.SelfMintingOffset,
		TotalAllocatorRate:    ds.TotalAllocatorRate,
		TotalSelfRate:         ds.TotalSelfRate,
		UnallocatedRate:       ds.UnallocatedRate,
		DefaultTarget:         ds.DefaultTarget,
		Paused:                ds.Paused,
		TargetCount:           ds.TargetCount,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SignalSettlement asks the worker to run a settlement pass now. Settlement
// is permissionless so the endpoint is public.
func (h Handlers) SignalSettlement(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.State.Worker.SignalSettlement()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "settlement signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
