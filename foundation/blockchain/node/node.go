// Package node is the composition root of a peer: it owns the listening
// socket, the peer table, and the blockchain, and mediates every piece of
// I/O the other packages need. Grounded on the teacher's
// foundation/blockchain/state+worker split (a State composition root plus a
// worker driving background goroutines via channel signals), collapsed here
// into one package since this domain's Node is the state, not a separate
// consumer of it.
package node

import (
	"fmt"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/carlescere/scheduler"

	"github.com/meshchain/node/foundation/blockchain/database"
	"github.com/meshchain/node/foundation/blockchain/miner"
	"github.com/meshchain/node/foundation/blockchain/peer"
)

// EventHandler is called for every notable event the Node produces. This
// mirrors the teacher's state.EventHandler signature exactly so a caller can
// wire it straight into a logger and/or an events.Events fan-out.
type EventHandler func(v string, args ...any)

// Shuffler reorders a slice of peer addresses in place before a broadcast
// fan-out. The default is math/rand-based; tests inject a deterministic one
// so broadcast order never needs to be asserted against.
type Shuffler func(addrs []string)

// DefaultShuffler performs a Fisher-Yates shuffle using the package-level
// math/rand source.
func DefaultShuffler(addrs []string) {
	rand.Shuffle(len(addrs), func(i, j int) {
		addrs[i], addrs[j] = addrs[j], addrs[i]
	})
}

// Config carries everything needed to construct a Node. This is the "CLI
// surface" contract: an external driver (menu, flags, tests) supplies these
// values and the Node never reads them from the environment itself.
type Config struct {
	Host           string
	Port           int
	Wallet         string
	BootstrapPeers []string
	EvHandler      EventHandler
	Shuffle        Shuffler

	// SyncInterval and DiscoveryInterval override the default heartbeat
	// cadence; zero means use the package defaults. The node service sets
	// them from its configuration.
	SyncInterval      time.Duration
	DiscoveryInterval time.Duration
}

const (
	defaultSyncInterval      = 30 * time.Second
	defaultDiscoveryInterval = time.Minute
	syncTimeout              = 5 * time.Second
	dialTimeout              = 3 * time.Second
)

// Node is the composition root: TCP listener, dialer, peer table, broadcast,
// sync, and discovery all hang off of this value.
type Node struct {
	self   string
	wallet string

	db    *database.Database
	peers *peer.Table

	ev      EventHandler
	shuffle Shuffler

	syncInterval      time.Duration
	discoveryInterval time.Duration

	listener net.Listener

	miningMu     sync.Mutex
	miningStop   *miner.Stop
	miningActive bool

	syncResults chan chainCandidate
	syncActive  bool
	syncMu      sync.Mutex

	jobs []*scheduler.Job

	wg   sync.WaitGroup
	shut chan struct{}
}

// New constructs a Node bound to cfg.Host:cfg.Port. It does not start any
// goroutine; call Run for that.
func New(cfg Config) *Node {
	self := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	wallet := cfg.Wallet
	if wallet == "" {
		wallet = self
	}

	ev := cfg.EvHandler
	if ev == nil {
		ev = func(string, ...any) {}
	}

	shuffle := cfg.Shuffle
	if shuffle == nil {
		shuffle = DefaultShuffler
	}

	syncInterval := cfg.SyncInterval
	if syncInterval == 0 {
		syncInterval = defaultSyncInterval
	}

	discoveryInterval := cfg.DiscoveryInterval
	if discoveryInterval == 0 {
		discoveryInterval = defaultDiscoveryInterval
	}

	n := &Node{
		self:              self,
		wallet:            wallet,
		db:                database.New(),
		peers:             peer.NewTable(self),
		ev:                ev,
		shuffle:           shuffle,
		syncInterval:      syncInterval,
		discoveryInterval: discoveryInterval,
		syncResults:       make(chan chainCandidate, peer.MaxPeers),
		shut:              make(chan struct{}),
	}

	for _, addr := range cfg.BootstrapPeers {
		n.peers.Add(addr)
	}

	return n
}

// Self returns this node's own "host:port" address.
func (n *Node) Self() string {
	return n.self
}

// Database exposes the underlying chain+mempool for read-only inspection
// (used by the debug HTTP surface and by tests).
func (n *Node) Database() *database.Database {
	return n.db
}

// Peers exposes the peer table for read-only inspection.
func (n *Node) Peers() *peer.Table {
	return n.peers
}

// Run binds the listening socket, starts the accept loop, starts the sync
// and discovery heartbeats, and dials every bootstrap peer. It returns once
// the listener is bound; the background goroutines keep running until
// Shutdown is called.
func (n *Node) Run() error {
	ln, err := net.Listen("tcp", n.self)
	if err != nil {
		return fmt.Errorf("node: listen %s: %w", n.self, err)
	}
	n.listener = ln
	n.ev("node: listening on %s", n.self)

	n.wg.Add(1)
	go n.acceptLoop()

	syncJob, err := scheduler.Every(int(n.syncInterval.Seconds())).Seconds().Run(func() {
		n.SyncBlockchain()
	})
	if err != nil {
		n.ev("node: schedule sync heartbeat: ERROR: %s", err)
	} else {
		n.jobs = append(n.jobs, syncJob)
	}

	discoveryJob, err := scheduler.Every(int(n.discoveryInterval.Seconds())).Seconds().Run(func() {
		n.RunDiscovery()
	})
	if err != nil {
		n.ev("node: schedule discovery heartbeat: ERROR: %s", err)
	} else {
		n.jobs = append(n.jobs, discoveryJob)
	}

	for _, addr := range n.peers.All() {
		go n.ConnectToPeer(addr)
	}

	return nil
}

// Shutdown closes the listener and stops the background heartbeats. Any
// in-flight mining is cancelled. There is no graceful drain of in-flight
// connections: they unwind on their next suspension point.
func (n *Node) Shutdown() {
	n.ev("node: shutdown: started")
	defer n.ev("node: shutdown: completed")

	for _, job := range n.jobs {
		job.Quit <- true
	}

	n.CancelMining()

	close(n.shut)
	if n.listener != nil {
		n.listener.Close()
	}
	n.wg.Wait()
}

func (n *Node) isShutdown() bool {
	select {
	case <-n.shut:
		return true
	default:
		return false
	}
}
