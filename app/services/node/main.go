// Command node runs a single peer-to-peer ledger node: its TCP listener,
// mining loop, sync and discovery heartbeats, and a debug HTTP surface.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"go.uber.org/zap"

	"github.com/meshchain/node/app/services/node/handlers"
	"github.com/meshchain/node/foundation/blockchain/node"
	"github.com/meshchain/node/foundation/events"
	"github.com/meshchain/node/foundation/logger"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		P2P struct {
			Host              string        `conf:"default:0.0.0.0"`
			Port              int           `conf:"default:9000"`
			Wallet            string        `conf:"default:"`
			BootstrapPeers    []string      `conf:"default:"`
			SyncInterval      time.Duration `conf:"default:30s"`
			DiscoveryInterval time.Duration `conf:"default:60s"`
		}
		Web struct {
			DebugHost string `conf:"default:0.0.0.0:7080"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "peer-to-peer ledger node",
		},
	}

	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Node Support

	// Every blockchain package that wants to log accepts a function of this
	// signature. Messages are logged and also fanned out to any websocket
	// client connected through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s)
		evts.Send(s)
	}

	n := node.New(node.Config{
		Host:              cfg.P2P.Host,
		Port:              cfg.P2P.Port,
		Wallet:            cfg.P2P.Wallet,
		BootstrapPeers:    cfg.P2P.BootstrapPeers,
		SyncInterval:      cfg.P2P.SyncInterval,
		DiscoveryInterval: cfg.P2P.DiscoveryInterval,
		EvHandler:         ev,
	})

	if err := n.Run(); err != nil {
		return fmt.Errorf("starting node: %w", err)
	}
	defer n.Shutdown()

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug router started", "host", cfg.Web.DebugHost)

	debugMux := handlers.DebugMux(handlers.MuxConfig{
		Build: build,
		Log:   log,
		Node:  n,
		Evts:  evts,
	})

	// Not concerned with gracefully shutting this down: it serves only
	// observability traffic, never ledger traffic.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	sig := <-shutdown
	log.Infow("shutdown", "status", "shutdown started", "signal", sig)
	defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

	evts.Shutdown()

	return nil
}
