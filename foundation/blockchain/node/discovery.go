package node

import "github.com/meshchain/node/foundation/blockchain/protocol"

// RunDiscovery asks every known peer who else they know. It is the
// heartbeat counterpart to the one-shot discovery performed right after a
// successful ConnectToPeer handshake, and is what lets the peer table
// recover reach to a node that both sides temporarily lost contact with.
func (n *Node) RunDiscovery() {
	for _, addr := range n.peers.Broadcastable() {
		go n.discoverFrom(addr)
	}
}

// discoverFrom asks addr for its peer list and dials every address it does
// not already know about.
func (n *Node) discoverFrom(addr string) {
	env, err := n.request(addr, protocol.DiscoverPeers, struct{}{})
	if err != nil {
		n.tolerate("discover from "+addr, err)
		n.peers.MarkFailure(addr)
		return
	}

	var payload protocol.PeersListPayload
	if err := protocol.DecodePayload(env, &payload); err != nil {
		n.tolerate("decode PEERS_LIST from "+addr, err)
		return
	}

	for _, candidate := range payload.Peers {
		if candidate == n.self || n.peers.Has(candidate) {
			continue
		}
		go n.ConnectToPeer(candidate)
	}
}
