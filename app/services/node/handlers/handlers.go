// Package handlers builds the public and debug muxes of the node.
package handlers

import (
	"context"
	"expvar"
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/mikitasolo/borwwcoin/app/services/node/handlers/debug/checkgrp"
	v1 "github.com/mikitasolo/borwwcoin/app/services/node/handlers/v1"
	"github.com/mikitasolo/borwwcoin/business/web/mid"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/state"
	"github.com/mikitasolo/borwwcoin/foundation/events"
	"github.com/mikitasolo/borwwcoin/foundation/nameservice"
	"github.com/mikitasolo/borwwcoin/foundation/web"
	"go.uber.org/zap"
)

// MuxConfig holds the systems the public routes are built on.
type MuxConfig struct {
	Shutdown chan os.Signal
	Log      *zap.SugaredLogger
	State    *state.State
	NS       *nameservice.NameService
	Evts     *events.Events
}

// PublicMux wires the middleware chain and the v1 chain routes.
func PublicMux(cfg MuxConfig) http.Handler {
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Metrics(),
		mid.Cors("*"),
		mid.Panics(),
	)

	preflight := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return nil
	}
	app.Handle(http.MethodOptions, "", "/*", preflight, mid.Cors("*"))

	v1.PublicRoutes(app, v1.Config{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		Evts:  cfg.Evts,
	})

	return app
}

// DebugMux serves pprof, expvar and the readiness and liveness checks on a
// private mux, never http.DefaultServeMux.
func DebugMux(build string, log *zap.SugaredLogger, st *state.State) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	chk := checkgrp.Handlers{Build: build, Log: log, State: st}
	mux.HandleFunc("/debug/readiness", chk.Readiness)
	mux.HandleFunc("/debug/liveness", chk.Liveness)

	return mux
}
