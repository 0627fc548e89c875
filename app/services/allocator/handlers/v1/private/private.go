// Package private maintains the group of handlers for governance access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ardanlabs/issuance/business/sys/validate"
	"github.com/ardanlabs/issuance/business/web/errs"
	"github.com/ardanlabs/issuance/foundation/allocator/action"
	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
	"github.com/ardanlabs/issuance/foundation/allocator/state"
	"github.com/ardanlabs/issuance/foundation/nameservice"
	"github.com/ardanlabs/issuance/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of governance endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
}

// advanceClock is the request to move the block clock forward.
type advanceClock struct {
	Blocks uint64 `json:"blocks" validate:"required,gte=1"`
}

// pendingDistribution is the request to settle a pending span. A zero
// to_block means settle through the current block.
type pendingDistribution struct {
	ToBlock uint64 `json:"to_block"`
}

// SubmitGovernAction adds a signed governance action to the node.
func (h Handlers) SubmitGovernAction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var signedAct action.SignedAction
	if err := web.Decode(r, &signedAct); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	h.Log.Infow("add govern action", "traceid", v.TraceID, "kind", signedAct.Kind,
		"nonce", signedAct.Nonce, "target", signedAct.Target)

	applied, err := h.State.SubmitAction(signedAct)
	if err != nil {
		if errors.Is(err, state.ErrNotGovernor) {
			return errs.NewTrusted(err, http.StatusUnauthorized)
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status  string `json:"status"`
		Applied bool   `json:"applied"`
	}{
		Status:  "action accepted",
		Applied: applied,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	ds := h.State.RetrieveDistributionState()

	status := struct {
		CurrentBlock          uint64           `json:"current_block"`
		LastGovernorNonce     uint64           `json:"last_governor_nonce"`
		JournalSequence       uint64           `json:"journal_sequence"`
		LastDistributionBlock uint64           `json:"last_distribution_block"`
		Paused                bool             `json:"paused"`
		Governor              ledger.AccountID `json:"governor"`
	}{
		CurrentBlock:          h.State.RetrieveCurrentBlock(),
		LastGovernorNonce:     h.State.RetrieveNonce(),
		JournalSequence:       h.State.RetrieveJournalSequence(),
		LastDistributionBlock: ds.LastDistributionBlock,
		Paused:                ds.Paused,
		Governor:              h.State.RetrieveGovernor(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// RecordsBySequence returns journal records based on the specified to/from
// values.
func (h Handlers) RecordsBySequence(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	fromStr := web.Param(r, "from")
	if fromStr == "latest" || fromStr == "" {
		fromStr = fmt.Sprintf("%d", state.QueryLastest)
	}

	toStr := web.Param(r, "to")
	if toStr == "latest" || toStr == "" {
		toStr = fmt.Sprintf("%d", state.QueryLastest)
	}

	from, err := strconv.ParseUint(fromStr, 10, 64)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}
	to, err := strconv.ParseUint(toStr, 10, 64)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if from > to {
		return errs.NewTrusted(errors.New("from greater than to"), http.StatusBadRequest)
	}

	records := h.State.QueryRecordsBySequence(from, to)
	if len(records) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, records, http.StatusOK)
}

// AdvanceClock moves the block clock forward by the requested count.
func (h Handlers) AdvanceClock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ac advanceClock
	if err := web.Decode(r, &ac); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	if err := validate.Check(ac); err != nil {
		return err
	}

	block := h.State.AdvanceBlocks(ac.Blocks)

	h.Log.Infow("advance clock", "traceid", v.TraceID, "blocks", ac.Blocks, "current", block)

	resp := struct {
		CurrentBlock uint64 `json:"current_block"`
	}{
		CurrentBlock: block,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// DistributePending settles the undistributed span, including blocks skipped
// while paused.
func (h Handlers) DistributePending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var pd pendingDistribution
	if err := web.Decode(r, &pd); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	var settled uint64
	var err error
	switch pd.ToBlock {
	case 0:
		settled, err = h.State.DistributePending()
	default:
		settled, err = h.State.DistributePendingTo(pd.ToBlock)
	}
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status       string `json:"status"`
		SettledBlock uint64 `json:"settled_block"`
	}{
		Status:       "pending issuance distributed",
		SettledBlock: settled,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
