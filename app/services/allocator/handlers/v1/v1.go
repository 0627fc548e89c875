// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/issuance/app/services/allocator/handlers/v1/private"
	"github.com/ardanlabs/issuance/app/services/allocator/handlers/v1/public"
	"github.com/ardanlabs/issuance/foundation/allocator/state"
	"github.com/ardanlabs/issuance/foundation/events"
	"github.com/ardanlabs/issuance/foundation/nameservice"
	"github.com/ardanlabs/issuance/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/balances/list", pbl.Balances)
	app.Handle(http.MethodGet, version, "/balances/list/:account", pbl.Balances)
	app.Handle(http.MethodGet, version, "/targets/list", pbl.Targets)
	app.Handle(http.MethodGet, version, "/allocations/list", pbl.Allocations)
	app.Handle(http.MethodGet, version, "/allocations/list/:target", pbl.Allocations)
	app.Handle(http.MethodGet, version, "/distribution/state", pbl.Distribution)
	app.Handle(http.MethodGet, version, "/distribution/signal", pbl.SignalSettlement)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
	}

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodGet, version, "/node/journal/list/:from/:to", prv.RecordsBySequence)
	app.Handle(http.MethodPost, version, "/node/clock/advance", prv.AdvanceClock)
	app.Handle(http.MethodPost, version, "/node/distribution/pending", prv.DistributePending)
	app.Handle(http.MethodPost, version, "/govern/submit", prv.SubmitGovernAction)
}
