package node

import (
	"net"
	"time"

	"github.com/meshchain/node/foundation/blockchain/nodeerrors"
	"github.com/meshchain/node/foundation/blockchain/protocol"
)

// acceptLoop runs for the lifetime of the Node, handing each accepted
// connection to its own goroutine. Grounded on the teacher's worker
// goroutines: one long-running loop, fire-and-forget per unit of work.
func (n *Node) acceptLoop() {
	defer n.wg.Done()

	for {
		conn, err := n.listener.Accept()
		if err != nil {
			if n.isShutdown() {
				return
			}
			n.ev("node: accept: ERROR: %s", err)
			continue
		}

		n.wg.Add(1)
		go n.handleConn(conn)
	}
}

// handleConn runs the read loop for a single accepted connection: one frame
// in, one dispatch, and for request/response message types one frame back
// out, then the connection closes. The protocol has no keep-alive, so a
// connection carries exactly one request.
func (n *Node) handleConn(conn net.Conn) {
	defer n.wg.Done()
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(syncTimeout))

	env, err := protocol.ReadFrame(conn)
	if err != nil {
		n.ev("node: read frame from %s: ERROR: %s", conn.RemoteAddr(), err)
		return
	}

	n.dispatch(conn, env)
}

// dispatch routes an inbound envelope to its handler per the message
// taxonomy. Every case that learns of the sender's address records it in
// the peer table, since any inbound message is evidence a peer is alive.
func (n *Node) dispatch(conn net.Conn, env protocol.Envelope) {
	if env.Sender != "" && env.Sender != n.self {
		n.peers.Add(env.Sender)
		n.peers.MarkSuccess(env.Sender)
	}

	switch env.Type {
	case protocol.NewTransaction:
		n.handleNewTransaction(env)

	case protocol.NewBlock:
		n.handleNewBlock(env)

	case protocol.RequestChain:
		n.handleRequestChain(conn)

	case protocol.ResponseChain:
		n.handleResponseChain(env)

	case protocol.Ping:
		n.handlePing(conn, env)

	case protocol.Pong:
		// No-op beyond the MarkSuccess above: PONG only confirms liveness.

	case protocol.DiscoverPeers:
		n.handleDiscoverPeers(conn)

	case protocol.PeersList:
		n.handlePeersList(env)

	default:
		n.ev("node: dispatch: unhandled type %s", env.Type)
	}
}

func (n *Node) handleNewTransaction(env protocol.Envelope) {
	var payload protocol.TransactionPayload
	if err := protocol.DecodePayload(env, &payload); err != nil {
		n.ev("node: NEW_TRANSACTION from %s: ERROR: %s", env.Sender, err)
		return
	}

	if !n.db.AddTransaction(payload.Transaction) {
		return
	}

	n.ev("node: accepted transaction %s from %s", payload.Transaction.ID, env.Sender)
	go n.Broadcast(protocol.NewTransaction, payload, env.Sender)
}

func (n *Node) handleNewBlock(env protocol.Envelope) {
	var payload protocol.BlockPayload
	if err := protocol.DecodePayload(env, &payload); err != nil {
		n.ev("node: NEW_BLOCK from %s: ERROR: %s", env.Sender, err)
		return
	}

	if !n.db.AddBlock(payload.Block) {
		if uint64(n.db.Height()) < payload.Block.Index {
			n.ev("node: rejected block %d from %s, starting sync", payload.Block.Index, env.Sender)
			go n.SyncBlockchain()
		} else {
			n.ev("node: rejected block %d from %s", payload.Block.Index, env.Sender)
		}
		return
	}

	n.CancelMining()
	n.ev("node: accepted block %d from %s", payload.Block.Index, env.Sender)
	go n.Broadcast(protocol.NewBlock, payload, env.Sender)
}

func (n *Node) handleRequestChain(conn net.Conn) {
	snapshot := protocol.ChainSnapshot{
		Chain:               n.db.CopyChain(),
		PendingTransactions: n.db.PendingTransactions(),
	}

	err := protocol.WriteFrame(conn, protocol.ResponseChain, n.self, protocol.ResponseChainPayload{Blockchain: snapshot})
	if err != nil {
		n.ev("node: respond to REQUEST_CHAIN: ERROR: %s", err)
	}
}

// handleResponseChain is the dispatch-table entry for RESPONSE_CHAIN arriving
// on a connection the Node did not open itself. The primary sync path reads
// its response synchronously on the connection it dialed; this path exists
// only as a secondary inbox for a peer implementation that answers
// out-of-band, and it drops the message when no sync is in flight.
func (n *Node) handleResponseChain(env protocol.Envelope) {
	var payload protocol.ResponseChainPayload
	if err := protocol.DecodePayload(env, &payload); err != nil {
		n.ev("node: RESPONSE_CHAIN from %s: ERROR: %s", env.Sender, err)
		return
	}

	n.syncMu.Lock()
	active := n.syncActive
	n.syncMu.Unlock()
	if !active {
		return
	}

	candidate := chainCandidate{source: env.Sender, snapshot: payload.Blockchain}
	select {
	case n.syncResults <- candidate:
	default:
	}
}

func (n *Node) handlePing(conn net.Conn, env protocol.Envelope) {
	if err := protocol.WriteFrame(conn, protocol.Pong, n.self, struct{}{}); err != nil {
		n.ev("node: respond to PING from %s: ERROR: %s", env.Sender, err)
	}
}

func (n *Node) handleDiscoverPeers(conn net.Conn) {
	payload := protocol.PeersListPayload{Peers: n.peers.Broadcastable()}
	if err := protocol.WriteFrame(conn, protocol.PeersList, n.self, payload); err != nil {
		n.ev("node: respond to DISCOVER_PEERS: ERROR: %s", err)
	}
}

func (n *Node) handlePeersList(env protocol.Envelope) {
	var payload protocol.PeersListPayload
	if err := protocol.DecodePayload(env, &payload); err != nil {
		n.ev("node: PEERS_LIST from %s: ERROR: %s", env.Sender, err)
		return
	}

	for _, addr := range payload.Peers {
		if addr == n.self || n.peers.Has(addr) {
			continue
		}
		go n.ConnectToPeer(addr)
	}
}

// tolerate logs err through ev if it is a Kinded error the node should
// simply carry on past, and otherwise returns false so the caller can
// decide how to react to a genuine programmer error.
func (n *Node) tolerate(context string, err error) bool {
	if err == nil {
		return true
	}
	if nodeerrors.Tolerable(err) {
		n.ev("node: %s: %s", context, err)
		return true
	}
	n.ev("node: %s: INTERNAL ERROR: %s", context, err)
	return false
}
