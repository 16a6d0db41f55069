// Package handlers builds the node's debug and observability HTTP surface.
// This domain has no public REST API: every ledger operation travels over
// the wire protocol in foundation/blockchain/protocol, so only the ambient
// concerns (health, pprof, live status, an event-log stream) live here.
package handlers

import (
	"expvar"
	"net/http"
	"net/http/pprof"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/meshchain/node/foundation/blockchain/node"
	"github.com/meshchain/node/foundation/events"
	"github.com/meshchain/node/foundation/web"
)

// MuxConfig contains every system the debug handlers need.
type MuxConfig struct {
	Build string
	Log   *zap.SugaredLogger
	Node  *node.Node
	Evts  *events.Events
}

// DebugStandardLibraryMux registers the standard library's own debug
// endpoints into a mux that bypasses http.DefaultServeMux, so a dependency
// can never smuggle a handler into this process without it showing up here.
func DebugStandardLibraryMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	return mux
}

// DebugMux registers the standard library debug routes plus this node's own
// readiness, liveness, status, and event-stream routes. The node's own
// routes go through web.App so every one of them gets the same
// error-to-JSON-response translation; the standard library routes are
// mounted underneath it unchanged, since pprof and expvar already know how
// to route among themselves.
func DebugMux(cfg MuxConfig) http.Handler {
	app := web.NewApp()

	stdlib := DebugStandardLibraryMux()
	passthrough := func(w http.ResponseWriter, r *http.Request) error {
		stdlib.ServeHTTP(w, r)
		return nil
	}
	app.Handle(http.MethodGet, "/debug/pprof/*path", passthrough)
	app.Handle(http.MethodGet, "/debug/vars", passthrough)

	dbg := debugGroup{cfg: cfg}
	app.Handle(http.MethodGet, "/debug/readiness", dbg.readiness)
	app.Handle(http.MethodGet, "/debug/liveness", dbg.liveness)
	app.Handle(http.MethodGet, "/debug/status", dbg.status)
	app.Handle(http.MethodGet, "/debug/events", dbg.events)

	return app
}

type debugGroup struct {
	cfg      MuxConfig
	upgrader websocket.Upgrader
}

// readiness always reports ok: main only serves this mux after the node's
// listener is bound, and there is no other dependency (database, queue) to
// wait on.
func (dbg debugGroup) readiness(w http.ResponseWriter, r *http.Request) error {
	status := struct {
		Status string `json:"status"`
	}{Status: "ok"}

	return web.Respond(w, status, http.StatusOK)
}

// liveness reports process-level vitals, the way a container orchestrator's
// liveness probe expects.
func (dbg debugGroup) liveness(w http.ResponseWriter, r *http.Request) error {
	info := struct {
		Build string `json:"build"`
		Host  string `json:"host"`
	}{Build: dbg.cfg.Build, Host: dbg.cfg.Node.Self()}

	return web.Respond(w, info, http.StatusOK)
}

// status reports the node's chain height, mempool size, and peer table, for
// a human or a script to poll without speaking the wire protocol.
func (dbg debugGroup) status(w http.ResponseWriter, r *http.Request) error {
	db := dbg.cfg.Node.Database()

	info := struct {
		Self       string   `json:"self"`
		Height     int      `json:"height"`
		LatestHash string   `json:"latest_hash"`
		Mempool    int      `json:"mempool"`
		Peers      []string `json:"peers"`
	}{
		Self:       dbg.cfg.Node.Self(),
		Height:     db.Height(),
		LatestHash: db.LatestBlock().Hash,
		Mempool:    db.MempoolLength(),
		Peers:      dbg.cfg.Node.Peers().All(),
	}

	return web.Respond(w, info, http.StatusOK)
}

// events upgrades the connection to a websocket and streams every event the
// node logs until the client disconnects.
func (dbg debugGroup) events(w http.ResponseWriter, r *http.Request) error {
	conn, err := dbg.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	id := r.RemoteAddr
	ch := dbg.cfg.Evts.Subscribe(id)
	defer dbg.cfg.Evts.Unsubscribe(id)

	for msg := range ch {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			return nil
		}
	}

	return nil
}
