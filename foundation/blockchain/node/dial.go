package node

import (
	"net"
	"time"

	"github.com/meshchain/node/foundation/blockchain/nodeerrors"
	"github.com/meshchain/node/foundation/blockchain/protocol"
)

// request dials addr, writes one frame, reads exactly one frame back, and
// closes the connection. It is the shared plumbing behind every
// request/response exchange the Node initiates (PING, REQUEST_CHAIN,
// DISCOVER_PEERS).
func (n *Node) request(addr string, msgType protocol.Type, payload any) (protocol.Envelope, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return protocol.Envelope{}, nodeerrors.New(nodeerrors.PeerUnreachable, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(syncTimeout))

	if err := protocol.WriteFrame(conn, msgType, n.self, payload); err != nil {
		return protocol.Envelope{}, err
	}

	return protocol.ReadFrame(conn)
}

// ConnectToPeer performs the handshake for a newly discovered address: PING,
// wait for PONG, and on success admit the peer and ask it who else it knows.
// On failure the peer's failure count is incremented if it is already in
// the table (as bootstrap peers are); an address not yet in the table is
// not added, and a later discovery round may dial it again.
func (n *Node) ConnectToPeer(addr string) {
	if addr == n.self {
		return
	}

	env, err := n.request(addr, protocol.Ping, struct{}{})
	if err != nil {
		n.tolerate("connect to peer "+addr, err)
		n.peers.MarkFailure(addr)
		return
	}

	if env.Type != protocol.Pong {
		n.ev("node: connect to peer %s: unexpected reply type %s", addr, env.Type)
		n.peers.MarkFailure(addr)
		return
	}

	n.peers.Add(addr)
	n.peers.MarkSuccess(addr)
	n.ev("node: connected to peer %s", addr)

	go n.discoverFrom(addr)
}
